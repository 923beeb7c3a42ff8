package util

import (
	"context"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/infra/auth/token"
)

func GetTokenPayloadFromContext(ctx context.Context) *token.Payload {
	if v, ok := ctx.Value(constants.AuthorizationPayloadKey).(*token.Payload); ok {
		return v
	}
	return nil
}

func WithTokenPayload(ctx context.Context, payload *token.Payload) context.Context {
	return context.WithValue(ctx, constants.AuthorizationPayloadKey, payload)
}

// GetUserID 目前登入的使用者, 未登入回傳 false
func GetUserID(ctx context.Context) (string, bool) {
	payload := GetTokenPayloadFromContext(ctx)
	if payload == nil || payload.UserID == "" {
		return "", false
	}
	return payload.UserID, true
}

func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(constants.RequestIDKey).(string); ok {
		return v
	}
	return "unknown"
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, constants.RequestIDKey, requestID)
}
