// Package requestctx carries request-scoped identity through context.
package requestctx

import "context"

type adminEmailContextKey struct{}

// WithAdminEmail stores the authenticated admin's email in context.
func WithAdminEmail(ctx context.Context, email string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, adminEmailContextKey{}, email)
}

// AdminEmailFromContext returns the admin email stored in context.
func AdminEmailFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(adminEmailContextKey{}).(string)
	return value
}
