package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/api/responses"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

const ShopperIDHeader = "X-Shopper-Id"

// ShopperContext resolves the shopper from X-Shopper-Id. Requests without one are
// issued a fresh id, echoed back in the same header so the client can keep it.
func ShopperContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			raw := strings.TrimSpace(r.Header.Get(ShopperIDHeader))
			issued := raw == ""
			var shopperID string
			if issued {
				shopperID = uuid.NewString()
			} else {
				parsed, err := uuid.Parse(raw)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shopper id").
						WithDetails(map[string]any{"header": ShopperIDHeader}))
					return
				}
				shopperID = parsed.String()
			}

			w.Header().Set(ShopperIDHeader, shopperID)
			ctx = WithShopperID(ctx, shopperID)
			if issued {
				ctx = withShopperIssued(ctx)
			}
			if logg != nil {
				ctx = logg.WithShopperID(ctx, shopperID)
				if issued {
					logg.Debug(ctx, "shopper.issued")
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
