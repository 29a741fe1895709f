package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/storefront"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

const maxQueryLen = 100

type productListResponse struct {
	Items  []catalog.Product       `json:"items"`
	Count  int                     `json:"count"`
	Filter catalog.FilterSelection `json:"filter"`
}

type searchResponse struct {
	Query string            `json:"query"`
	Items []catalog.Product `json:"items"`
	Count int               `json:"count"`
}

// ProductList returns the catalog narrowed by size, price, fabric, and color.
func ProductList(svc storefront.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront service unavailable"))
			return
		}

		sel := catalog.FilterSelection{
			Size:   validators.QueryString(r, "size", maxQueryLen),
			Price:  validators.QueryString(r, "price", maxQueryLen),
			Fabric: validators.QueryString(r, "fabric", maxQueryLen),
			Color:  validators.QueryString(r, "color", maxQueryLen),
		}
		products, err := svc.ListProducts(ctx, sel)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, productListResponse{Items: products, Count: len(products), Filter: sel})
	}
}

func ProductDetail(svc storefront.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront service unavailable"))
			return
		}

		productID, err := validators.ParseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		product, err := svc.GetProduct(ctx, productID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ProductFacets lists the values the filter UI can offer.
func ProductFacets(svc storefront.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront service unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.Facets(r.Context()))
	}
}

// ProductSearch matches titles against q. A blank query returns no products.
func ProductSearch(svc storefront.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront service unavailable"))
			return
		}
		query := validators.QueryString(r, "q", maxQueryLen)
		products := svc.Search(r.Context(), query)
		responses.WriteSuccess(w, searchResponse{Query: query, Items: products, Count: len(products)})
	}
}
