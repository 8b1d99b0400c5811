// Package domain holds the visitor session types
package domain

import (
	"context"
	"net/http"
	"time"
)

// Claims is the signed cookie payload
type Claims struct {
	SID string `json:"sid"`
	UID string `json:"uid,omitempty"`
	Exp int64  `json:"exp"`
}

// Expires is Exp as a time
func (c Claims) Expires() time.Time { return time.Unix(c.Exp, 0) }

// SweepResult reports one sweeper pass
type SweepResult struct {
	Before  time.Time `json:"before"`
	Removed int64     `json:"removed"`
}

// ServicePort is consumed by the middleware, the sweeper and other modules
type ServicePort interface {
	Resolve(w http.ResponseWriter, r *http.Request) (sessionID, userID string, err error)
	Forget(ctx context.Context, w http.ResponseWriter, sessionID string) error
	Sweep(ctx context.Context) (SweepResult, error)
}
