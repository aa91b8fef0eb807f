package utils

import (
	"context"

	"qci-client/internal/pkg/constvars"

	"github.com/google/uuid"
)

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string); ok {
		return requestID
	}
	return ""
}

// WithRequestID attaches a request identifier to the context, generating one
// when the caller has not set it yet.
func WithRequestID(ctx context.Context) context.Context {
	if GetRequestID(ctx) != "" {
		return ctx
	}
	requestID := constvars.REQUEST_ID_PREFIX + uuid.New().String()
	return context.WithValue(ctx, constvars.CONTEXT_REQUEST_ID_KEY, requestID)
}
