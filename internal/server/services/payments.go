package services

import (
	"context"
	"fmt"
	"time"

	"github.com/gramolapp/gramola/internal/common"
	"github.com/gramolapp/gramola/internal/logging"
	"github.com/gramolapp/gramola/internal/server/config"
	"github.com/gramolapp/gramola/internal/server/models"
	"github.com/gramolapp/gramola/internal/server/payments"
	"github.com/gramolapp/gramola/internal/server/repositories/repomanager"
)

// PaymentService coordinates prepay → external confirmation → local state
// mutation for subscription and song purchases. Local state changes only
// after the verifier has independently re-confirmed status and amount
// with the processor, and the confirmation claim itself is atomic: a
// transaction is confirmed at most once.
type PaymentService struct {
	repos    repomanager.Manager
	verifier *payments.Verifier
	ledger   SubscriptionLedger
	logger   logging.Logger

	subscriptionPrice float64
	currency          string
}

func NewPaymentService(repos repomanager.Manager, verifier *payments.Verifier, logger logging.Logger, cfg *config.Config) *PaymentService {
	return &PaymentService{
		repos:             repos,
		verifier:          verifier,
		logger:            logger,
		subscriptionPrice: cfg.SubscriptionPrice,
		currency:          cfg.Currency,
	}
}

// PrepayResult is what a caller needs to complete payment client-side.
type PrepayResult struct {
	Transaction  *models.Transaction
	IntentID     string
	ClientSecret string
	Amount       float64
}

// SubscriptionPrice returns the configured monthly price in major units.
func (s *PaymentService) SubscriptionPrice() float64 {
	return s.subscriptionPrice
}

// PrepaySubscription creates a processor intent priced at the configured
// subscription price and persists an unattributed transaction for it.
func (s *PaymentService) PrepaySubscription(ctx context.Context) (*PrepayResult, error) {
	intent, err := s.verifier.CreateIntent(ctx, payments.MinorUnits(s.subscriptionPrice), s.currency)
	if err != nil {
		return nil, err
	}

	tx := models.NewTransaction(intent.Raw)
	if err := s.repos.Transactions().Create(ctx, tx); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "subscription intent created", "transaction_id", tx.ID, "intent_id", intent.ID)

	return &PrepayResult{
		Transaction:  tx,
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
		Amount:       s.subscriptionPrice,
	}, nil
}

// ConfirmSubscription re-verifies the intent with the processor and, on
// success, claims the transaction for email and activates the user's
// subscription. The claim and the ledger write happen in one storage
// transaction: both land or neither does. A transaction already claimed
// returns common.ErrConflict with no state change.
func (s *PaymentService) ConfirmSubscription(ctx context.Context, email, intentID string, claimedAmount float64, transactionID string) error {
	if _, err := s.repos.Users().GetByEmail(ctx, email); err != nil {
		return fmt.Errorf("el usuario no existe: %w", err)
	}
	if _, err := s.repos.Transactions().GetByID(ctx, transactionID); err != nil {
		return fmt.Errorf("la transacción no existe: %w", err)
	}

	if _, err := s.verifier.RetrieveAndVerify(ctx, intentID, payments.MinorUnits(claimedAmount)); err != nil {
		return err
	}

	now := time.Now()
	err := s.repos.InTransaction(ctx, func(m repomanager.Manager) error {
		if err := m.Transactions().ClaimConfirmation(ctx, transactionID, email, "", now); err != nil {
			return err
		}

		user, err := m.Users().GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		s.ledger.Activate(user, now)
		return m.Users().Update(ctx, user)
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "subscription confirmed", "email", email, "transaction_id", transactionID)
	return nil
}

// PrepaySong creates a processor intent for a song purchase attributed to
// email. If the bar has a configured song price, the claimed amount must
// match it; the check runs before any processor call.
func (s *PaymentService) PrepaySong(ctx context.Context, email string, claimedAmount float64) (*PrepayResult, error) {
	user, err := s.repos.Users().GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("el usuario no existe: %w", err)
	}

	if user.SongPrice != nil && payments.MinorUnits(*user.SongPrice) != payments.MinorUnits(claimedAmount) {
		return nil, fmt.Errorf("%w: el importe no coincide con el precio de la canción", common.ErrAmountMismatch)
	}

	intent, err := s.verifier.CreateIntent(ctx, payments.MinorUnits(claimedAmount), s.currency)
	if err != nil {
		return nil, err
	}

	tx := models.NewTransaction(intent.Raw)
	tx.Email = email
	if err := s.repos.Transactions().Create(ctx, tx); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "song intent created", "email", email, "transaction_id", tx.ID, "intent_id", intent.ID)

	return &PrepayResult{
		Transaction:  tx,
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
		Amount:       claimedAmount,
	}, nil
}

// ConfirmSong re-verifies the intent with the processor and, on success,
// claims the transaction: owner email attaches first-writer-wins, the
// track reference attaches if non-blank. A second confirmation returns
// common.ErrConflict with no state change.
func (s *PaymentService) ConfirmSong(ctx context.Context, email, intentID string, claimedAmount float64, transactionID, trackURI string) error {
	if _, err := s.repos.Users().GetByEmail(ctx, email); err != nil {
		return fmt.Errorf("el usuario no existe: %w", err)
	}
	if _, err := s.repos.Transactions().GetByID(ctx, transactionID); err != nil {
		return fmt.Errorf("la transacción no existe: %w", err)
	}

	if _, err := s.verifier.RetrieveAndVerify(ctx, intentID, payments.MinorUnits(claimedAmount)); err != nil {
		return err
	}

	now := time.Now()
	err := s.repos.InTransaction(ctx, func(m repomanager.Manager) error {
		return m.Transactions().ClaimConfirmation(ctx, transactionID, email, trackURI, now)
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "song purchase confirmed", "email", email, "transaction_id", transactionID, "track_uri", trackURI)
	return nil
}
