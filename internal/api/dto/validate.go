package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/RoyceAzure/lab/storefront/internal/pkg/er"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// 錯誤訊息使用 json 欄位名稱
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// 只有空白視為未填
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Validate 檢查 dto 的 validate tag, 回傳第一個失敗欄位
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		f := verrs[0]
		return er.Wrap(er.Validation, fmt.Sprintf("%s is invalid (%s)", f.Field(), f.Tag()), err)
	}
	return er.Wrap(er.Validation, "invalid request", err)
}
