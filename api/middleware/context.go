package middleware

import "context"

type contextKey string

const (
	ctxShopperID     contextKey = "shopper_id"
	ctxShopperIssued contextKey = "shopper_issued"
)

// ShopperIDFromContext returns the shopper id set by ShopperContext.
func ShopperIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxShopperID).(string); ok {
		return v
	}
	return ""
}

// WithShopperID injects the shopper identifier into the context.
func WithShopperID(ctx context.Context, shopperID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxShopperID, shopperID)
}

// ShopperIDIssued reports whether the shopper id was minted for this request rather
// than supplied by the client.
func ShopperIDIssued(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	issued, _ := ctx.Value(ctxShopperIssued).(bool)
	return issued
}

func withShopperIssued(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxShopperIssued, true)
}
