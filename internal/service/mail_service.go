package service

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"net"
	"net/mail"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"
	"github.com/rs/zerolog/log"
)

const (
	smtpAuthAddress   = "smtp.gmail.com"
	smtpServerAddress = "smtp.gmail.com:587"

	// ctx 沒有 deadline 時使用
	defaultSMTPTimeout = 30 * time.Second
)

type IMailService interface {
	SendEmail(ctx context.Context, subject, html string, to []string) error
}

// EmailSender 實際送信, 測試時替換
type EmailSender interface {
	Send(ctx context.Context, e *email.Email) error
}

// smtpSender 整個 SMTP 對話都受 ctx 的 deadline 限制
type smtpSender struct {
	addr string
	host string
	auth smtp.Auth
}

func newSMTPSender(addr, host string, auth smtp.Auth) *smtpSender {
	return &smtpSender{addr: addr, host: host, auth: auth}
}

func (s *smtpSender) Send(ctx context.Context, e *email.Email) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultSMTPTimeout)
		defer cancel()
	}

	raw, err := e.Bytes()
	if err != nil {
		return fmt.Errorf("failed to build message: %w", err)
	}
	from, err := mail.ParseAddress(e.From)
	if err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to dial smtp server: %w", err)
	}
	defer conn.Close()

	deadline, _ := ctx.Deadline()
	if err := conn.SetDeadline(deadline); err != nil {
		return err
	}
	// ctx 提前取消時讓進行中的讀寫立即失敗
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	c, err := smtp.NewClient(conn, s.host)
	if err != nil {
		return fmt.Errorf("smtp handshake failed: %w", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.host}); err != nil {
			return fmt.Errorf("smtp starttls failed: %w", err)
		}
	}
	if s.auth != nil {
		if err := c.Auth(s.auth); err != nil {
			return fmt.Errorf("smtp auth failed: %w", err)
		}
	}
	if err := c.Mail(from.Address); err != nil {
		return err
	}
	for _, rcpt := range append(append(append([]string{}, e.To...), e.Cc...), e.Bcc...) {
		addr, err := mail.ParseAddress(rcpt)
		if err != nil {
			return fmt.Errorf("invalid recipient %q: %w", rcpt, err)
		}
		if err := c.Rcpt(addr.Address); err != nil {
			return err
		}
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

type MailService struct {
	name             string
	fromEmailAddress string
	sender           EmailSender
}

// NewMailService 初始化 mail service
// 參數:
//
//	senderName: 寄件者屬名
//	fromEmailAddress: 寄件者郵件地址
//	fromEmailPassword: 寄件者郵件密碼 (gmail app password)
func NewMailService(senderName, fromEmailAddress, fromEmailPassword string) *MailService {
	return &MailService{
		name:             senderName,
		fromEmailAddress: fromEmailAddress,
		sender:           newSMTPSender(smtpServerAddress, smtpAuthAddress, smtp.PlainAuth("", fromEmailAddress, fromEmailPassword, smtpAuthAddress)),
	}
}

func NewMailServiceWithSender(senderName, fromEmailAddress string, sender EmailSender) *MailService {
	return &MailService{name: senderName, fromEmailAddress: fromEmailAddress, sender: sender}
}

func (m *MailService) SendEmail(ctx context.Context, subject, html string, to []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e := email.NewEmail()
	e.From = fmt.Sprintf("%s <%s>", m.name, m.fromEmailAddress)
	e.Subject = subject
	e.HTML = []byte(html)
	e.To = to

	return m.sender.Send(ctx, e)
}

// MailNotifier 以 email 寄出訂單確認信
type MailNotifier struct {
	mail      IMailService
	storeName string
}

var _ OrderNotifier = (*MailNotifier)(nil)

func NewMailNotifier(mail IMailService, storeName string) *MailNotifier {
	return &MailNotifier{mail: mail, storeName: storeName}
}

func (n *MailNotifier) NotifyOrderPlaced(ctx context.Context, confirmation OrderConfirmation) error {
	html, err := GenerateOrderConfirmationHTML(n.storeName, confirmation)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Confirmation de commande #%s", shortOrderID(confirmation.OrderID))
	err = n.mail.SendEmail(ctx, subject, html, []string{confirmation.Email})
	if err != nil {
		return fmt.Errorf("failed to send order confirmation: %w", err)
	}

	log.Info().Str("order_id", confirmation.OrderID).Msg("order confirmation sent")
	return nil
}

func shortOrderID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

type orderEmailData struct {
	StoreName string
	ShortID   string
	OrderConfirmation
}

// GenerateOrderConfirmationHTML 生成 HTML 格式的訂單確認信
func GenerateOrderConfirmationHTML(storeName string, c OrderConfirmation) (string, error) {
	tmpl, err := template.New("orderConfirmation").Parse(orderConfirmationTemplate)
	if err != nil {
		return "", fmt.Errorf("解析 HTML 模板失敗: %w", err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, orderEmailData{
		StoreName:         storeName,
		ShortID:           shortOrderID(c.OrderID),
		OrderConfirmation: c,
	})
	if err != nil {
		return "", fmt.Errorf("執行 HTML 模板失敗: %w", err)
	}

	return buf.String(), nil
}

const orderConfirmationTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Confirmation de commande</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #111; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #000; color: #fff; padding: 20px; text-align: center; letter-spacing: 2px; }
        .content { padding: 30px; background-color: #f7f7f7; }
        table { width: 100%; border-collapse: collapse; }
        td { padding: 8px 0; border-bottom: 1px solid #ddd; }
        .right { text-align: right; }
        .footer { padding: 20px; text-align: center; font-size: 12px; color: #666; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>{{.StoreName}}</h1>
        </div>

        <div class="content">
            <p>Bonjour {{.RecipientName}},</p>
            <p>Merci pour votre commande <strong>#{{.ShortID}}</strong>. Elle est confirmée.</p>

            <table>
                {{range .Items}}
                <tr>
                    <td>{{.Name}} ({{.Size}}) x {{.Quantity}}</td>
                    <td class="right">{{.LineTotal.StringFixed 2}} €</td>
                </tr>
                {{end}}
                <tr>
                    <td>Livraison</td>
                    <td class="right">{{.ShippingCost.StringFixed 2}} €</td>
                </tr>
                <tr>
                    <td><strong>Total</strong></td>
                    <td class="right"><strong>{{.Total.StringFixed 2}} €</strong></td>
                </tr>
            </table>

            <p>Adresse de livraison :<br>
                {{.Shipping.FirstName}} {{.Shipping.LastName}}<br>
                {{.Shipping.Address}}<br>
                {{.Shipping.ZipCode}} {{.Shipping.City}}, {{.Shipping.Country}}
            </p>
        </div>

        <div class="footer">
            <p>Cet email a été envoyé automatiquement, merci de ne pas y répondre.</p>
            <p>&copy; {{.StoreName}}</p>
        </div>
    </div>
</body>
</html>
`
