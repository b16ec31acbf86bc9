package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/gramolapp/gramola/internal/common"
	"github.com/gramolapp/gramola/internal/logging"
	"github.com/gramolapp/gramola/internal/server/config"
	"github.com/gramolapp/gramola/internal/server/models"
	"github.com/gramolapp/gramola/internal/server/payments"
	"github.com/gramolapp/gramola/internal/server/repositories/repomanager"
	"github.com/gramolapp/gramola/internal/vault"
	"github.com/stretchr/testify/require"
)

type fakeProcessor struct {
	intents     map[string]*payments.Intent
	createCalls int
	createErr   error
	retrieveErr error
}

func newFakeProcessor() *fakeProcessor {
	return &fakeProcessor{intents: map[string]*payments.Intent{}}
}

func (f *fakeProcessor) CreateIntent(_ context.Context, amountMinorUnits int64, _ string) (*payments.Intent, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	id := fmt.Sprintf("pi_%d", f.createCalls)
	intent := &payments.Intent{
		ID:           id,
		ClientSecret: id + "_secret",
		Status:       "requires_payment_method",
		Amount:       amountMinorUnits,
		Raw:          json.RawMessage(`{"id":"` + id + `"}`),
	}
	f.intents[id] = intent
	return intent, nil
}

func (f *fakeProcessor) RetrieveIntent(_ context.Context, id string) (*payments.Intent, error) {
	if f.retrieveErr != nil {
		return nil, f.retrieveErr
	}
	intent, ok := f.intents[id]
	if !ok {
		return nil, fmt.Errorf("%w: no such intent %s", common.ErrUpstream, id)
	}
	return intent, nil
}

// succeed marks a previously created intent as completed, optionally
// overriding the amount the processor reports back.
func (f *fakeProcessor) succeed(id string, amount ...int64) {
	intent := f.intents[id]
	intent.Status = payments.StatusSucceeded
	if len(amount) > 0 {
		intent.Amount = amount[0]
	}
}

type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeMailer struct {
	sent    []sentMail
	sendErr error
}

func (f *fakeMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return nil
}

type fakeGeocoder struct {
	lat, lon float64
	err      error
}

func (f *fakeGeocoder) Geocode(_ context.Context, _ string) (float64, float64, error) {
	if f.err != nil {
		return 0, 0, f.err
	}
	return f.lat, f.lon, nil
}

var errGeocodeDown = errors.New("geocoding service unavailable")

type testEnv struct {
	repos     *repomanager.InMemoryManager
	processor *fakeProcessor
	mailer    *fakeMailer
	geocoder  *fakeGeocoder
	users     *UserService
	payments  *PaymentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		JWTSecret:                    "test-secret",
		SessionTokenValidityDuration: time.Hour,
		SubscriptionPrice:            9.99,
		Currency:                     "eur",
		ProximityRadiusMeters:        100,
		BaseURL:                      "http://localhost:8080",
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	repos := repomanager.NewInMemoryManager()
	processor := newFakeProcessor()
	mailer := &fakeMailer{}
	geocoder := &fakeGeocoder{lat: 40.4168, lon: -3.7038}
	v := vault.New([]byte("0123456789abcdef0123456789abcdef"))

	return &testEnv{
		repos:     repos,
		processor: processor,
		mailer:    mailer,
		geocoder:  geocoder,
		users:     NewUserService(repos, v, geocoder, mailer, logger, cfg),
		payments:  NewPaymentService(repos, payments.NewVerifier(processor), logger, cfg),
	}
}

func (e *testEnv) seedUser(t *testing.T, email string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "$2a$10$placeholderplaceholderplaceholderplaceha",
		Token:        models.NewActivationToken(),
		CreatedAt:    time.Now(),
	}
	require.NoError(t, e.repos.Users().Create(context.Background(), user))
	return user
}
