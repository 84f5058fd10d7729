package webhooks

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kimhabork/storefront-backend/pkg/logger"
)

type stubRevalidator struct {
	topics []string
	tags   []string
	err    error
}

func (s *stubRevalidator) Revalidate(ctx context.Context, topic string) ([]string, error) {
	s.topics = append(s.topics, topic)
	return s.tags, s.err
}

func sign(payload, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func webhookTestLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("error"), Output: io.Discard})
}

func TestRevalidateAcceptsSignedRequest(t *testing.T) {
	stub := &stubRevalidator{tags: []string{"products"}}
	payload := `{"id":1}`

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/revalidate", strings.NewReader(payload))
	req.Header.Set("X-Shopify-Hmac-Sha256", sign(payload, "secret"))
	req.Header.Set("X-Shopify-Topic", "products/update")
	Revalidate(stub, "secret", webhookTestLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(stub.topics) != 1 || stub.topics[0] != "products/update" {
		t.Fatalf("unexpected topics: %+v", stub.topics)
	}
	var envelope struct {
		Data struct {
			Revalidated []string `json:"revalidated"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding envelope: %v", err)
	}
	if len(envelope.Data.Revalidated) != 1 || envelope.Data.Revalidated[0] != "products" {
		t.Fatalf("unexpected tags: %+v", envelope.Data.Revalidated)
	}
}

func TestRevalidateRejectsBadSignature(t *testing.T) {
	stub := &stubRevalidator{}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/revalidate", strings.NewReader(`{}`))
	req.Header.Set("X-Shopify-Hmac-Sha256", sign(`{}`, "wrong-secret"))
	req.Header.Set("X-Shopify-Topic", "products/update")
	Revalidate(stub, "secret", webhookTestLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if len(stub.topics) != 0 {
		t.Fatal("expected no invalidation on bad signature")
	}
}

func TestRevalidateRejectsMissingSignature(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/revalidate", strings.NewReader(`{}`))
	req.Header.Set("X-Shopify-Topic", "products/update")
	Revalidate(&stubRevalidator{}, "secret", webhookTestLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRevalidateRequiresConfiguredSecret(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/revalidate", strings.NewReader(`{}`))
	Revalidate(&stubRevalidator{}, "", webhookTestLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when secret unset, got %d", rec.Code)
	}
}

func TestRevalidateRequiresTopic(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/revalidate", strings.NewReader(`{}`))
	req.Header.Set("X-Shopify-Hmac-Sha256", sign(`{}`, "secret"))
	Revalidate(&stubRevalidator{}, "secret", webhookTestLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without topic, got %d", rec.Code)
	}
}
