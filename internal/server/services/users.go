package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gramolapp/gramola/internal/common"
	"github.com/gramolapp/gramola/internal/geo"
	"github.com/gramolapp/gramola/internal/logging"
	"github.com/gramolapp/gramola/internal/mail"
	"github.com/gramolapp/gramola/internal/server/auth"
	"github.com/gramolapp/gramola/internal/server/config"
	"github.com/gramolapp/gramola/internal/server/models"
	"github.com/gramolapp/gramola/internal/server/repositories/repomanager"
	"github.com/gramolapp/gramola/internal/vault"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// UserService implements registration, activation, authentication and
// bar-profile management.
type UserService struct {
	repos    repomanager.Manager
	vault    *vault.Vault
	geocoder geo.Geocoder
	mailer   mail.Mailer
	ledger   SubscriptionLedger
	logger   logging.Logger

	jwtSecret       []byte
	sessionValidity time.Duration
	proximityRadius float64
	baseURL         string
}

func NewUserService(repos repomanager.Manager, v *vault.Vault, g geo.Geocoder, m mail.Mailer, logger logging.Logger, cfg *config.Config) *UserService {
	return &UserService{
		repos:           repos,
		vault:           v,
		geocoder:        g,
		mailer:          m,
		logger:          logger,
		jwtSecret:       []byte(cfg.JWTSecret),
		sessionValidity: cfg.SessionTokenValidityDuration,
		proximityRadius: cfg.ProximityRadiusMeters,
		baseURL:         cfg.BaseURL,
	}
}

// RegisterParams carries the registration input. Optional fields are
// stored only when non-blank.
type RegisterParams struct {
	Email           string
	Password        string
	PasswordConfirm string

	AccessToken  string
	RefreshToken string

	SubscriptionExpiry string
	Signature          string
	BarName            string
	BarAddress         string
	SongPrice          *float64
}

// Register validates the input, hashes the password, encrypts the
// external-service credentials, persists the user with a fresh
// activation token, and sends the activation mail. Mail delivery is best
// effort: a send failure is logged and never fails the registration.
func (s *UserService) Register(ctx context.Context, p RegisterParams) error {
	if p.Password != p.PasswordConfirm {
		return fmt.Errorf("las contraseñas no coinciden: %w", common.ErrValidation)
	}
	if len(p.Password) < minPasswordLength {
		return fmt.Errorf("la contraseña es demasiado corta: %w", common.ErrValidation)
	}
	if !strings.Contains(p.Email, "@") {
		return fmt.Errorf("el email no es válido: %w", common.ErrValidation)
	}

	expiry, err := s.registrationExpiry(p.SubscriptionExpiry)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &models.User{
		Email:        p.Email,
		PasswordHash: string(hash),
		Signature:    strings.TrimSpace(p.Signature),
		BarName:      strings.TrimSpace(p.BarName),
		BarAddress:   strings.TrimSpace(p.BarAddress),
		SongPrice:    p.SongPrice,
		Token:        models.NewActivationToken(),
		CreatedAt:    time.Now(),
	}
	s.ledger.SetExpiry(user, expiry)

	if user.AccessTokenEnc, err = s.vault.Encrypt(p.AccessToken); err != nil {
		return fmt.Errorf("error al guardar los tokens: %w", err)
	}
	if user.RefreshTokenEnc, err = s.vault.Encrypt(p.RefreshToken); err != nil {
		return fmt.Errorf("error al guardar los tokens: %w", err)
	}

	if err := s.repos.Users().Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return fmt.Errorf("el usuario ya existe: %w", err)
		}
		return err
	}

	s.sendActivationMail(ctx, user)
	return nil
}

// registrationExpiry parses the optional expiry supplied at
// registration. Absent means yesterday, so a fresh account starts with
// an inactive subscription.
func (s *UserService) registrationExpiry(val string) (time.Time, error) {
	if strings.TrimSpace(val) == "" {
		return time.Now().Add(-24 * time.Hour), nil
	}
	if ts, err := time.Parse(time.RFC3339, val); err == nil {
		return ts, nil
	}
	if ts, err := time.Parse("2006-01-02T15:04:05", val); err == nil {
		return ts, nil
	}
	if millis, err := strconv.ParseInt(val, 10, 64); err == nil {
		return time.UnixMilli(millis), nil
	}
	return time.Time{}, fmt.Errorf("subscriptionExpiry debe ser RFC3339 o epoch millis: %w", common.ErrValidation)
}

func (s *UserService) sendActivationMail(ctx context.Context, user *models.User) {
	url := s.activationURL(user)
	body := mail.ActivationBody(user.Email, url)

	if err := s.mailer.Send(ctx, user.Email, mail.ActivationSubject, body); err != nil {
		s.logger.Error(ctx, "activation mail failed", "email", user.Email, "error", err.Error())
		return
	}
	s.logger.Info(ctx, "activation mail sent", "email", user.Email)
}

func (s *UserService) activationURL(user *models.User) string {
	return fmt.Sprintf("%s/users/activate/%s?token=%s", s.baseURL, user.Email, user.Token.ID)
}

// Login verifies the password and returns a session token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repos.Users().GetByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("el usuario no existe: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("contraseña incorrecta: %w", common.ErrUnauthorized)
	}

	return auth.GenerateToken(email, s.jwtSecret, s.sessionValidity)
}

// Activate consumes the user's activation token. The candidate is
// compared by identifier string; a mismatch is a validation failure.
// Re-activating an already active account with the matching token is a
// no-op success.
func (s *UserService) Activate(ctx context.Context, email, tokenID string) error {
	user, err := s.repos.Users().GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("el usuario no existe: %w", err)
	}

	if !user.Token.Matches(tokenID) {
		return fmt.Errorf("Token incorrecto: %w", common.ErrValidation)
	}

	user.Token.Consume(time.Now())
	if err := s.repos.Users().Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info(ctx, "user activated", "email", email)
	return nil
}

func (s *UserService) Delete(ctx context.Context, email string) error {
	if err := s.repos.Users().Delete(ctx, email); err != nil {
		return fmt.Errorf("el usuario no existe: %w", err)
	}
	return nil
}

func (s *UserService) IsActive(ctx context.Context, email string) (bool, error) {
	user, err := s.repos.Users().GetByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("el usuario no existe: %w", err)
	}
	return user.IsActive(), nil
}

// ActivationURL rebuilds the one-time activation link for the account.
func (s *UserService) ActivationURL(ctx context.Context, email string) (string, error) {
	user, err := s.repos.Users().GetByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("el usuario no existe: %w", err)
	}
	return s.activationURL(user), nil
}

func (s *UserService) HasActiveSubscription(ctx context.Context, email string) (bool, error) {
	user, err := s.repos.Users().GetByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("el usuario no existe: %w", err)
	}
	return s.ledger.IsActive(user, time.Now()), nil
}

// Get returns the stored user record.
func (s *UserService) Get(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repos.Users().GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("el usuario no existe: %w", err)
	}
	return user, nil
}

// SetBarData stores the bar name and address and derives coordinates via
// geocoding. A geocoding failure is logged; name and address are still
// saved and any previously stored coordinates keep their value.
func (s *UserService) SetBarData(ctx context.Context, email, barAddress, barName string) error {
	user, err := s.repos.Users().GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("el usuario no existe: %w", err)
	}

	user.BarAddress = barAddress
	user.BarName = barName

	lat, lon, err := s.geocoder.Geocode(ctx, barAddress)
	if err != nil {
		s.logger.Error(ctx, "geocoding failed", "address", barAddress, "error", err.Error())
	} else {
		user.Latitude = &lat
		user.Longitude = &lon
		s.logger.Info(ctx, "bar coordinates updated", "bar", barName, "lat", lat, "lon", lon)
	}

	return s.repos.Users().Update(ctx, user)
}

func (s *UserService) SetSongPrice(ctx context.Context, email string, price float64) error {
	user, err := s.repos.Users().GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("el usuario no existe: %w", err)
	}
	user.SongPrice = &price
	return s.repos.Users().Update(ctx, user)
}

func (s *UserService) SongPrice(ctx context.Context, email string) (*float64, error) {
	user, err := s.repos.Users().GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("el usuario no existe: %w", err)
	}
	return user.SongPrice, nil
}

// UpdatePassword replaces the password after verifying the current one.
func (s *UserService) UpdatePassword(ctx context.Context, email, oldPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("la nueva contraseña es demasiado corta: %w", common.ErrValidation)
	}

	user, err := s.repos.Users().GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("el usuario no existe: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return fmt.Errorf("la contraseña actual es incorrecta: %w", common.ErrUnauthorized)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)

	if err := s.repos.Users().Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info(ctx, "password updated", "email", email)
	return nil
}

// CheckProximity reports whether (lat, lon) lies within the configured
// radius of the user's bar. A bar without recorded coordinates is
// rejected before any distance computation.
func (s *UserService) CheckProximity(ctx context.Context, email string, lat, lon float64) (bool, error) {
	user, err := s.repos.Users().GetByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("el usuario no existe: %w", err)
	}

	if user.Latitude == nil || user.Longitude == nil {
		return false, fmt.Errorf("el usuario no tiene coordenadas de bar registradas: %w", common.ErrNotFound)
	}

	s.logger.Info(ctx, "proximity check", "email", email,
		"distance_m", geo.DistanceMeters(*user.Latitude, *user.Longitude, lat, lon))

	return geo.WithinRadius(*user.Latitude, *user.Longitude, lat, lon, s.proximityRadius), nil
}

// ProximityRadius returns the configured purchase-authorization radius.
func (s *UserService) ProximityRadius() float64 {
	return s.proximityRadius
}

// AccessToken returns the decrypted external-service access token.
func (s *UserService) AccessToken(ctx context.Context, email string) (string, error) {
	user, err := s.repos.Users().GetByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("el usuario no existe: %w", err)
	}
	return s.vault.Decrypt(user.AccessTokenEnc)
}

// RefreshToken returns the decrypted external-service refresh token.
func (s *UserService) RefreshToken(ctx context.Context, email string) (string, error) {
	user, err := s.repos.Users().GetByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("el usuario no existe: %w", err)
	}
	return s.vault.Decrypt(user.RefreshTokenEnc)
}

// Signature returns the stored receipt signature blob.
func (s *UserService) Signature(ctx context.Context, email string) (string, error) {
	user, err := s.repos.Users().GetByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("el usuario no existe: %w", err)
	}
	return user.Signature, nil
}
