package services

import (
	"context"
	"testing"
	"time"

	"github.com/gramolapp/gramola/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepaySubscription(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.payments.PrepaySubscription(ctx)
	require.NoError(t, err)

	assert.Equal(t, "pi_1", res.IntentID)
	assert.Equal(t, "pi_1_secret", res.ClientSecret)
	assert.Equal(t, 9.99, res.Amount)
	assert.NotEmpty(t, res.Transaction.ID)
	assert.Empty(t, res.Transaction.Email)

	stored, err := env.repos.Transactions().GetByID(ctx, res.Transaction.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsConfirmed())
	assert.JSONEq(t, `{"id":"pi_1"}`, string(stored.Payload))
}

func TestConfirmSubscription(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, "bar@example.com")

	res, err := env.payments.PrepaySubscription(ctx)
	require.NoError(t, err)
	env.processor.succeed(res.IntentID)

	err = env.payments.ConfirmSubscription(ctx, "bar@example.com", res.IntentID, 9.99, res.Transaction.ID)
	require.NoError(t, err)

	stored, err := env.repos.Transactions().GetByID(ctx, res.Transaction.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsConfirmed())
	assert.Equal(t, "bar@example.com", stored.Email)

	user, err := env.repos.Users().GetByEmail(ctx, "bar@example.com")
	require.NoError(t, err)
	require.NotNil(t, user.SubscriptionExpiry)
	assert.WithinDuration(t, time.Now(), *user.SubscriptionExpiry, 5*time.Second)
}

func TestConfirmSubscriptionAmountMismatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, "bar@example.com")

	res, err := env.payments.PrepaySubscription(ctx)
	require.NoError(t, err)

	// The processor settled the intent at a different amount than the
	// caller now claims to have paid.
	env.processor.succeed(res.IntentID, 1000)

	err = env.payments.ConfirmSubscription(ctx, "bar@example.com", res.IntentID, 9.99, res.Transaction.ID)
	require.ErrorIs(t, err, common.ErrAmountMismatch)

	stored, err := env.repos.Transactions().GetByID(ctx, res.Transaction.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsConfirmed())

	user, err := env.repos.Users().GetByEmail(ctx, "bar@example.com")
	require.NoError(t, err)
	assert.Nil(t, user.SubscriptionExpiry)
}

func TestConfirmSubscriptionNotCompleted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, "bar@example.com")

	res, err := env.payments.PrepaySubscription(ctx)
	require.NoError(t, err)

	err = env.payments.ConfirmSubscription(ctx, "bar@example.com", res.IntentID, 9.99, res.Transaction.ID)
	require.ErrorIs(t, err, common.ErrPaymentNotCompleted)

	user, err := env.repos.Users().GetByEmail(ctx, "bar@example.com")
	require.NoError(t, err)
	assert.Nil(t, user.SubscriptionExpiry)
}

func TestConfirmSubscriptionTwice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, "bar@example.com")

	res, err := env.payments.PrepaySubscription(ctx)
	require.NoError(t, err)
	env.processor.succeed(res.IntentID)

	require.NoError(t, env.payments.ConfirmSubscription(ctx, "bar@example.com", res.IntentID, 9.99, res.Transaction.ID))

	first, err := env.repos.Transactions().GetByID(ctx, res.Transaction.ID)
	require.NoError(t, err)

	err = env.payments.ConfirmSubscription(ctx, "bar@example.com", res.IntentID, 9.99, res.Transaction.ID)
	require.ErrorIs(t, err, common.ErrConflict)

	second, err := env.repos.Transactions().GetByID(ctx, res.Transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ConfirmedAt, second.ConfirmedAt)
	assert.Equal(t, first.Email, second.Email)
}

func TestConfirmSubscriptionUnknownUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.payments.PrepaySubscription(ctx)
	require.NoError(t, err)
	env.processor.succeed(res.IntentID)

	err = env.payments.ConfirmSubscription(ctx, "nobody@example.com", res.IntentID, 9.99, res.Transaction.ID)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestConfirmSubscriptionUnknownTransaction(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, "bar@example.com")

	err := env.payments.ConfirmSubscription(ctx, "bar@example.com", "pi_1", 9.99, "missing")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestPrepaySong(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, "bar@example.com")

	res, err := env.payments.PrepaySong(ctx, "bar@example.com", 1.50)
	require.NoError(t, err)

	assert.Equal(t, 1.50, res.Amount)
	assert.Equal(t, "bar@example.com", res.Transaction.Email)
	assert.Equal(t, int64(150), env.processor.intents[res.IntentID].Amount)
}

func TestPrepaySongPriceMismatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "bar@example.com")

	price := 1.50
	user.SongPrice = &price
	require.NoError(t, env.repos.Users().Update(ctx, user))

	_, err := env.payments.PrepaySong(ctx, "bar@example.com", 2.00)
	require.ErrorIs(t, err, common.ErrAmountMismatch)

	// Rejected before ever talking to the processor.
	assert.Zero(t, env.processor.createCalls)
}

func TestPrepaySongMatchesConfiguredPrice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "bar@example.com")

	price := 1.50
	user.SongPrice = &price
	require.NoError(t, env.repos.Users().Update(ctx, user))

	res, err := env.payments.PrepaySong(ctx, "bar@example.com", 1.50)
	require.NoError(t, err)
	assert.Equal(t, int64(150), env.processor.intents[res.IntentID].Amount)
}

func TestConfirmSong(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, "bar@example.com")

	res, err := env.payments.PrepaySong(ctx, "bar@example.com", 1.50)
	require.NoError(t, err)
	env.processor.succeed(res.IntentID)

	err = env.payments.ConfirmSong(ctx, "bar@example.com", res.IntentID, 1.50, res.Transaction.ID, "spotify:track:4uLU6hMCjMI75M1A2tKUQC")
	require.NoError(t, err)

	stored, err := env.repos.Transactions().GetByID(ctx, res.Transaction.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsConfirmed())
	assert.Equal(t, "bar@example.com", stored.Email)
	assert.Equal(t, "spotify:track:4uLU6hMCjMI75M1A2tKUQC", stored.TrackURI)
}

func TestConfirmSongTwice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, "bar@example.com")

	res, err := env.payments.PrepaySong(ctx, "bar@example.com", 1.50)
	require.NoError(t, err)
	env.processor.succeed(res.IntentID)

	track := "spotify:track:4uLU6hMCjMI75M1A2tKUQC"
	require.NoError(t, env.payments.ConfirmSong(ctx, "bar@example.com", res.IntentID, 1.50, res.Transaction.ID, track))

	err = env.payments.ConfirmSong(ctx, "bar@example.com", res.IntentID, 1.50, res.Transaction.ID, "spotify:track:other")
	require.ErrorIs(t, err, common.ErrConflict)

	stored, err := env.repos.Transactions().GetByID(ctx, res.Transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, track, stored.TrackURI)
}

func TestPrepaySubscriptionUpstreamFailure(t *testing.T) {
	env := newTestEnv(t)
	env.processor.createErr = common.ErrUpstream

	_, err := env.payments.PrepaySubscription(context.Background())
	require.ErrorIs(t, err, common.ErrUpstream)

	// No orphan transaction is persisted for a failed intent.
	_, err = env.repos.Transactions().GetByID(context.Background(), "any")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestSubscriptionPrice(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, 9.99, env.payments.SubscriptionPrice())
}
