package service

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/er"
)

// ShippingAddress 結帳時送出的運送資料, 會整份複製到訂單
type ShippingAddress struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
	City      string `json:"city"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
}

// ValidateShipping 先檢查必填欄位, 再檢查電話格式, 最後檢查長度
func ValidateShipping(addr *ShippingAddress) error {
	if addr == nil {
		return er.New(er.InvalidAddress, "shipping address is required")
	}

	fields := []string{addr.FirstName, addr.LastName, addr.Address, addr.City, addr.ZipCode, addr.Country, addr.Phone}
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return er.New(er.InvalidAddress, "all shipping address fields are required")
		}
	}

	if !IsValidPhone(addr.Phone) {
		return er.New(er.InvalidPhone, "phone number must be +33 followed by 9 digits")
	}

	// 與 orders 的欄位長度一致
	limits := []struct {
		name  string
		value string
		max   int
	}{
		{"firstName", addr.FirstName, 100},
		{"lastName", addr.LastName, 100},
		{"address", addr.Address, 255},
		{"city", addr.City, 100},
		{"zipCode", addr.ZipCode, 20},
		{"country", addr.Country, 100},
		{"phone", addr.Phone, 30},
	}
	for _, l := range limits {
		if utf8.RuneCountInString(strings.TrimSpace(l.value)) > l.max {
			return er.Newf(er.Validation, "shippingAddress.%s must be at most %d characters", l.name, l.max)
		}
	}
	return nil
}

// NormalizePhone 移除所有空白字元
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, phone)
}

func IsValidPhone(phone string) bool {
	return constants.PhonePattern.MatchString(NormalizePhone(phone))
}
