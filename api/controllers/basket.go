package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/vendorahq/vendora-backend/api/middleware"
	"github.com/vendorahq/vendora-backend/api/responses"
	"github.com/vendorahq/vendora-backend/api/validators"
	"github.com/vendorahq/vendora-backend/internal/baskets"
	"github.com/vendorahq/vendora-backend/pkg/logger"
)

type basketItemsRequest struct {
	Items []baskets.ItemInput `json:"items" validate:"required,min=1,dive"`
}

type basketUpdateRequest struct {
	Items []baskets.LineUpdateInput `json:"items" validate:"required,min=1,dive"`
}

type basketRemoveRequest struct {
	LineIDs []uuid.UUID `json:"line_ids" validate:"required,min=1"`
}

// BasketFetch returns the caller's current basket with derived totals. An
// empty basket is returned as-is; viewing never creates rows.
func BasketFetch(svc baskets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())

		basket, err := svc.View(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, basket)
	}
}

// BasketAdd merges the submitted items into the caller's basket. Quantities
// for offerings already present are summed.
func BasketAdd(svc baskets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())

		var req basketItemsRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.AddItems(r.Context(), userID, req.Items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// BasketUpdate overwrites quantities for lines already in the basket. Line
// ids outside the caller's basket are skipped, not failed.
func BasketUpdate(svc baskets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())

		var req basketUpdateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.UpdateItems(r.Context(), userID, req.Items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// BasketRemove deletes the named lines from the caller's basket.
func BasketRemove(svc baskets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())

		var req basketRemoveRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.RemoveItems(r.Context(), userID, req.LineIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
