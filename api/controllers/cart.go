package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kimhabork/storefront-backend/api/middleware"
	"github.com/kimhabork/storefront-backend/api/responses"
	"github.com/kimhabork/storefront-backend/api/validators"
	"github.com/kimhabork/storefront-backend/internal/cartstore"
	pkgerrors "github.com/kimhabork/storefront-backend/pkg/errors"
	"github.com/kimhabork/storefront-backend/pkg/logger"
)

// CartSessions resolves the per-session cart store.
type CartSessions interface {
	Get(sessionID string) *cartstore.Store
}

type addItemRequest struct {
	MerchandiseID string `json:"merchandiseId" validate:"required"`
	Quantity      int    `json:"quantity" validate:"required,min=1,max=100"`
}

type updateItemRequest struct {
	Op string `json:"op" validate:"required,oneof=increment decrement"`
}

func sessionStore(r *http.Request, sessions CartSessions) (*cartstore.Store, error) {
	sessionID := middleware.SessionID(r.Context())
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "cart session missing")
	}
	return sessions.Get(sessionID), nil
}

// CartFetch returns the session cart, refreshed against the remote cart
// so a checkout completed in another tab is reflected immediately.
func CartFetch(sessions CartSessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		store, err := sessionStore(r, sessions)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := store.Refresh(ctx); err != nil {
			logg.Warn(ctx, "cart refresh failed, serving local state")
		}
		responses.WriteSuccess(w, store.Snapshot())
	}
}

func CartAddItem(sessions CartSessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		store, err := sessionStore(r, sessions)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var req addItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		snap, err := store.AddItem(ctx, req.MerchandiseID, req.Quantity)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, snap)
	}
}

func CartUpdateItem(sessions CartSessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		store, err := sessionStore(r, sessions)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var req updateItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		lineID := chi.URLParam(r, "lineId")
		var snap cartstore.Snapshot
		switch req.Op {
		case "increment":
			snap, err = store.IncrementItem(ctx, lineID)
		case "decrement":
			snap, err = store.DecrementItem(ctx, lineID)
		}
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

func CartRemoveItem(sessions CartSessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		store, err := sessionStore(r, sessions)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		snap, err := store.RemoveItem(ctx, chi.URLParam(r, "lineId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}
