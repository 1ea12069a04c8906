package vendortest

import "context"

type ctxKey struct{}

func withBody(ctx context.Context, body map[string]any) context.Context {
	return context.WithValue(ctx, ctxKey{}, body)
}

func bodyFrom(ctx context.Context) map[string]any {
	body, _ := ctx.Value(ctxKey{}).(map[string]any)
	return body
}
