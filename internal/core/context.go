package core

import "context"

type contextKey string

const (
	ctxKeyIPAddress contextKey = "requester_ip"
	ctxKeyUserAgent contextKey = "requester_ua"
)

// Requester identifies who started an operation, for import run logs.
type Requester struct {
	IP        string
	UserAgent string
}

// ContextWithRequester attaches the requester to ctx.
func ContextWithRequester(ctx context.Context, r Requester) context.Context {
	ctx = context.WithValue(ctx, ctxKeyIPAddress, r.IP)
	return context.WithValue(ctx, ctxKeyUserAgent, r.UserAgent)
}

// RequesterFromContext extracts the requester; missing values are empty.
func RequesterFromContext(ctx context.Context) Requester {
	var r Requester
	if v, ok := ctx.Value(ctxKeyIPAddress).(string); ok {
		r.IP = v
	}
	if v, ok := ctx.Value(ctxKeyUserAgent).(string); ok {
		r.UserAgent = v
	}
	return r
}
