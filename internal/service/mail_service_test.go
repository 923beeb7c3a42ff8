package service

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/jordan-wright/email"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type captureSender struct {
	sent []*email.Email
	err  error
}

func (c *captureSender) Send(_ context.Context, e *email.Email) error {
	c.sent = append(c.sent, e)
	return c.err
}

func confirmation() OrderConfirmation {
	return OrderConfirmation{
		OrderID:       "3f2b9c1e-1111-2222-3333-444455556666",
		Email:         "jean@example.com",
		RecipientName: "Jean <b>",
		Items: []OrderConfirmationItem{
			{Name: "OVERSIZED TEE — BLACK", Size: "M", Quantity: 2, Price: decimal.NewFromInt(45)},
		},
		ItemsTotal:   decimal.NewFromInt(90),
		ShippingCost: decimal.RequireFromString("4.90"),
		Total:        decimal.RequireFromString("94.90"),
		Shipping:     *validShipping(),
	}
}

func TestMailNotifierSendsConfirmation(t *testing.T) {
	sender := &captureSender{}
	mail := NewMailServiceWithSender("Storefront", "shop@example.com", sender)
	notifier := NewMailNotifier(mail, "STOREFRONT")

	require.NoError(t, notifier.NotifyOrderPlaced(context.Background(), confirmation()))
	require.Len(t, sender.sent, 1)

	e := sender.sent[0]
	require.Equal(t, "Storefront <shop@example.com>", e.From)
	require.Equal(t, []string{"jean@example.com"}, e.To)
	require.Contains(t, e.Subject, "#3f2b9c1e")

	html := string(e.HTML)
	require.Contains(t, html, "OVERSIZED TEE — BLACK (M) x 2")
	require.Contains(t, html, "90.00 €")
	require.Contains(t, html, "4.90 €")
	require.Contains(t, html, "94.90 €")
	require.Contains(t, html, "Jean &lt;b&gt;")
}

func TestMailNotifierPropagatesSendError(t *testing.T) {
	sender := &captureSender{err: errors.New("smtp down")}
	notifier := NewMailNotifier(NewMailServiceWithSender("Storefront", "shop@example.com", sender), "STOREFRONT")
	require.Error(t, notifier.NotifyOrderPlaced(context.Background(), confirmation()))
}

func TestMailServiceHonoursCancelledContext(t *testing.T) {
	sender := &captureSender{}
	mail := NewMailServiceWithSender("Storefront", "shop@example.com", sender)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, mail.SendEmail(ctx, "s", "<p>x</p>", []string{"a@example.com"}), context.Canceled)
	require.Empty(t, sender.sent)
}

func TestSMTPSenderStopsAtContextDeadline(t *testing.T) {
	// 接受連線但永遠不回 greeting 的 server
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			accepted <- conn
		}
	}()

	sender := newSMTPSender(ln.Addr().String(), "127.0.0.1", nil)
	mail := NewMailServiceWithSender("Storefront", "shop@example.com", sender)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	err = mail.SendEmail(ctx, "s", "<p>x</p>", []string{"jean@example.com"})
	require.Error(t, err)
	require.Less(t, time.Since(start), 2*time.Second)

	select {
	case conn := <-accepted:
		conn.Close()
	case <-time.After(time.Second):
	}
}
