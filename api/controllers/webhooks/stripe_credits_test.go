package webhooks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"

	pkgstripe "github.com/mercatohq/mercato-backend/pkg/stripe"
)

func creditsSecrets() pkgstripe.WebhookSecrets {
	return pkgstripe.WebhookSecrets{Platform: testPlatformSecret}
}

func waitForHandler(t *testing.T, done chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler was never invoked")
	}
}

func TestStripeCreditsWebhook_AcknowledgesThenHandles(t *testing.T) {
	payload, header := buildSignedCreditsEvent(t, testPlatformSecret)
	service := &fakeStripeWebhookService{done: make(chan struct{}, 1)}
	handler := StripeCreditsWebhook(service, creditsSecrets(), nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/stripe/credits", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", header)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	waitForHandler(t, service.done)
	if service.callCount() != 1 {
		t.Fatalf("expected one handler invocation, got %d", service.callCount())
	}
}

func TestStripeCreditsWebhook_InvalidSignature(t *testing.T) {
	payload, _ := buildSignedCreditsEvent(t, testPlatformSecret)
	service := &fakeStripeWebhookService{}
	handler := StripeCreditsWebhook(service, creditsSecrets(), nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/stripe/credits", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", "t=1,v1=invalid")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid signature, got %d", rec.Code)
	}
	if service.callCount() != 0 {
		t.Fatal("service should not be invoked on invalid signature")
	}
}

func TestStripeCreditsWebhook_NoSecretConfigured(t *testing.T) {
	payload, header := buildSignedCreditsEvent(t, testPlatformSecret)
	service := &fakeStripeWebhookService{}
	handler := StripeCreditsWebhook(service, pkgstripe.WebhookSecrets{}, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/stripe/credits", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", header)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 when no secret configured, got %d", rec.Code)
	}
}

func TestStripeCreditsWebhook_HandlerErrorDoesNotAffectResponse(t *testing.T) {
	payload, header := buildSignedCreditsEvent(t, testPlatformSecret)
	service := &fakeStripeWebhookService{
		err:  errors.New("db down"),
		done: make(chan struct{}, 1),
	}
	handler := StripeCreditsWebhook(service, creditsSecrets(), nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/stripe/credits", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", header)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("detached handler failure must not change the response, got %d", rec.Code)
	}

	waitForHandler(t, service.done)
}

func TestStripeCreditsWebhook_PanicInHandlerIsContained(t *testing.T) {
	payload, header := buildSignedCreditsEvent(t, testPlatformSecret)
	service := &panickingWebhookService{done: make(chan struct{}, 1)}
	handler := StripeCreditsWebhook(service, creditsSecrets(), nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/stripe/credits", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", header)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	waitForHandler(t, service.done)
	// Give the recover boundary a moment to run; a leaked panic would fail
	// the test process regardless.
	time.Sleep(50 * time.Millisecond)
}

type panickingWebhookService struct {
	done chan struct{}
}

func (p *panickingWebhookService) HandleEvent(ctx context.Context, event *stripe.Event) error {
	defer func() { p.done <- struct{}{} }()
	panic("boom")
}

func buildSignedCreditsEvent(t *testing.T, secret string) ([]byte, string) {
	t.Helper()

	session := &stripe.CheckoutSession{
		ID:          "cs_" + uuid.NewString(),
		AmountTotal: 500,
		Metadata: map[string]string{
			"purchase_type": "credits_purchase",
			"user_id":       uuid.NewString(),
			"credits":       "50",
		},
	}
	rawSession, err := json.Marshal(session)
	if err != nil {
		t.Fatalf("marshal session: %v", err)
	}
	event := &stripe.Event{
		ID:         "evt_" + uuid.NewString(),
		Type:       stripe.EventTypeCheckoutSessionCompleted,
		Object:     "event",
		APIVersion: stripe.APIVersion,
		Data: &stripe.EventData{
			Raw: rawSession,
		},
	}
	payload, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	header := buildStripeSignatureHeader(payload, secret, time.Now().Unix())
	return payload, header
}
