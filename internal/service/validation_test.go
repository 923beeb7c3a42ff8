package service

import (
	"strings"
	"testing"

	"github.com/RoyceAzure/lab/storefront/internal/pkg/er"
	"github.com/stretchr/testify/require"
)

func validShipping() *ShippingAddress {
	return &ShippingAddress{
		FirstName: "Jean",
		LastName:  "Dupont",
		Address:   "1 rue de Rivoli",
		City:      "Paris",
		ZipCode:   "75001",
		Country:   "France",
		Phone:     "+33712345678",
	}
}

func TestIsValidPhone(t *testing.T) {
	testCases := []struct {
		phone string
		want  bool
	}{
		{"+33712345678", true},
		{"+33 7 12 34 56 78", true},
		{"+33\t612345678", true},
		{"0712345678", false},
		{"+3371234567", false},
		{"+337123456789", false},
		{"+33012345678", false},
		{"+44712345678", false},
		{"", false},
	}

	for _, tc := range testCases {
		t.Run(tc.phone, func(t *testing.T) {
			require.Equal(t, tc.want, IsValidPhone(tc.phone))
		})
	}
}

func TestValidateShipping(t *testing.T) {
	require.NoError(t, ValidateShipping(validShipping()))

	require.True(t, er.IsKind(ValidateShipping(nil), er.InvalidAddress))

	blankCity := validShipping()
	blankCity.City = "   "
	require.True(t, er.IsKind(ValidateShipping(blankCity), er.InvalidAddress))

	// 欄位缺漏優先於電話格式
	both := validShipping()
	both.Country = ""
	both.Phone = "0712345678"
	require.True(t, er.IsKind(ValidateShipping(both), er.InvalidAddress))

	badPhone := validShipping()
	badPhone.Phone = "0712345678"
	require.True(t, er.IsKind(ValidateShipping(badPhone), er.InvalidPhone))
}

func TestValidateShippingLengths(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(a *ShippingAddress)
		ok     bool
	}{
		{"first name at limit", func(a *ShippingAddress) { a.FirstName = strings.Repeat("é", 100) }, true},
		{"first name too long", func(a *ShippingAddress) { a.FirstName = strings.Repeat("a", 101) }, false},
		{"address too long", func(a *ShippingAddress) { a.Address = strings.Repeat("a", 256) }, false},
		{"zip code too long", func(a *ShippingAddress) { a.ZipCode = strings.Repeat("7", 21) }, false},
		{"country too long", func(a *ShippingAddress) { a.Country = strings.Repeat("a", 101) }, false},
		{"padded phone too long", func(a *ShippingAddress) { a.Phone = "+33" + strings.Repeat(" ", 30) + "712345678" }, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			addr := validShipping()
			tc.mutate(addr)
			err := ValidateShipping(addr)
			if tc.ok {
				require.NoError(t, err)
				return
			}
			require.True(t, er.IsKind(err, er.Validation), err)
		})
	}

	// 電話格式錯誤優先於長度
	both := validShipping()
	both.City = strings.Repeat("a", 101)
	both.Phone = "0712345678"
	require.True(t, er.IsKind(ValidateShipping(both), er.InvalidPhone))
}
