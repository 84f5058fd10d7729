package controllers

import (
	"context"
	"net/http"

	"github.com/kimhabork/storefront-backend/api/responses"
	"github.com/kimhabork/storefront-backend/api/validators"
	"github.com/kimhabork/storefront-backend/internal/contact"
	"github.com/kimhabork/storefront-backend/pkg/logger"
)

type ContactService interface {
	Submit(ctx context.Context, input contact.SubmitInput) (*contact.ContactMessage, error)
}

func ContactSubmit(svc ContactService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var input contact.SubmitInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		msg, err := svc.Submit(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"id": msg.ID.String()})
	}
}
