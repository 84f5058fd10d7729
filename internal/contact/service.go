package contact

import (
	"context"
	"strings"

	pkgerrors "github.com/kimhabork/storefront-backend/pkg/errors"
	"github.com/kimhabork/storefront-backend/pkg/logger"
)

// SubmitInput is the validated contact form payload.
type SubmitInput struct {
	Name    string `json:"name" validate:"required,min=2,max=120"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Subject string `json:"subject" validate:"max=200"`
	Message string `json:"message" validate:"required,min=10,max=5000"`
}

type Service struct {
	repo Repository
	logg *logger.Logger
}

func NewService(repo Repository, logg *logger.Logger) *Service {
	return &Service{repo: repo, logg: logg}
}

// Submit persists one contact form submission.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (*ContactMessage, error) {
	msg := &ContactMessage{
		Name:    strings.TrimSpace(input.Name),
		Email:   strings.ToLower(strings.TrimSpace(input.Email)),
		Subject: strings.TrimSpace(input.Subject),
		Message: strings.TrimSpace(input.Message),
	}
	if msg.Name == "" || msg.Email == "" || msg.Message == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name, email, and message are required")
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, err
	}
	s.logg.Info(ctx, "contact message stored")
	return msg, nil
}
