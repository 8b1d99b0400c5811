// Package net holds request scoped context values and the transport neutral reply envelope
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type ctxKey string

const (
	keySessionID ctxKey = "session_id"
	keyUserID    ctxKey = "user_id"
)

// WithRequest annotates context with the request id and the visitor session id
func WithRequest(ctx context.Context, reqID, sessionID string) context.Context {
	if reqID != "" {
		// chi's key so chimw.GetReqID keeps working downstream
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	if sessionID != "" {
		ctx = context.WithValue(ctx, keySessionID, sessionID)
	}
	return ctx
}

// WithUser annotates context with the signed in user id
func WithUser(ctx context.Context, userID string) context.Context {
	if userID != "" {
		ctx = context.WithValue(ctx, keyUserID, userID)
	}
	return ctx
}

// RequestID returns the request id, or ""
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }

// SessionID returns the visitor session id, or ""
func SessionID(ctx context.Context) string {
	v, _ := ctx.Value(keySessionID).(string)
	return v
}

// UserID returns the signed in user id, or "" for anonymous visitors
func UserID(ctx context.Context) string {
	v, _ := ctx.Value(keyUserID).(string)
	return v
}
