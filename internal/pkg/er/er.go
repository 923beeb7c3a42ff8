package er

import (
	"errors"
	"fmt"
	"net/http"
)

type Code int

const (
	BadRequestCode      Code = http.StatusBadRequest
	UnauthenticatedCode Code = http.StatusUnauthorized
	NotFoundCode        Code = http.StatusNotFound
	TooManyRequestsCode Code = http.StatusTooManyRequests
	InternalErrorCode   Code = http.StatusInternalServerError
)

var ErrStrMap = map[Code]string{
	BadRequestCode:      "bad request",
	UnauthenticatedCode: "unauthenticated",
	NotFoundCode:        "not found",
	TooManyRequestsCode: "too many requests",
	InternalErrorCode:   "internal server error",
}

// Kind 是回給呼叫端的錯誤種類
type Kind string

const (
	Unauthenticated    Kind = "UNAUTHENTICATED"
	InvalidAddress     Kind = "INVALID_ADDRESS"
	InvalidPhone       Kind = "INVALID_PHONE"
	EmptyCart          Kind = "EMPTY_CART"
	Validation         Kind = "VALIDATION"
	ProductNotFound    Kind = "PRODUCT_NOT_FOUND"
	NotFound           Kind = "NOT_FOUND"
	EmailTaken         Kind = "EMAIL_TAKEN"
	InvalidCredentials Kind = "INVALID_CREDENTIALS"
	RateLimited        Kind = "RATE_LIMITED"
	Unexpected         Kind = "UNEXPECTED"
)

var kindCodeMap = map[Kind]Code{
	Unauthenticated:    UnauthenticatedCode,
	InvalidAddress:     BadRequestCode,
	InvalidPhone:       BadRequestCode,
	EmptyCart:          BadRequestCode,
	Validation:         BadRequestCode,
	ProductNotFound:    BadRequestCode,
	NotFound:           NotFoundCode,
	EmailTaken:         BadRequestCode,
	InvalidCredentials: UnauthenticatedCode,
	RateLimited:        TooManyRequestsCode,
	Unexpected:         InternalErrorCode,
}

type AppError struct {
	Code Code
	Kind Kind
	Msg  string
	Err  error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(kind Kind, msg string) *AppError {
	return &AppError{Code: CodeOf(kind), Kind: kind, Msg: msg}
}

func Newf(kind Kind, format string, args ...any) *AppError {
	return New(kind, fmt.Sprintf(format, args...))
}

// Wrap 保留原始錯誤給 log 使用, 不會回給呼叫端
func Wrap(kind Kind, msg string, err error) *AppError {
	return &AppError{Code: CodeOf(kind), Kind: kind, Msg: msg, Err: err}
}

func CodeOf(kind Kind) Code {
	if code, ok := kindCodeMap[kind]; ok {
		return code
	}
	return InternalErrorCode
}

func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind 判斷 err 鏈中是否有指定 kind 的 AppError
func IsKind(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind
}
