package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Zin-Mg-Nyunt/shopping/app/jobs"
	"github.com/Zin-Mg-Nyunt/shopping/app/models"
	"github.com/Zin-Mg-Nyunt/shopping/app/repositories"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/auth"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/metrics"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/queue"
)

// ProofTTL is how long a verified-OTP proof stays redeemable.
const ProofTTL = 10 * time.Minute

// PasswordResetService drives the OTP reset flow:
// request a code → verify it → redeem the proof for a new password.
type PasswordResetService struct {
	users  *repositories.UserRepository
	tokens *repositories.TokenRepository
	proofs ProofStore

	now      func() time.Time      // injectable clock for expiry tests
	dispatch func(queue.Job) error // injectable for synchronous tests
}

func NewPasswordResetService(db *gorm.DB, proofs ProofStore) *PasswordResetService {
	return &PasswordResetService{
		users:    repositories.NewUserRepository(db),
		tokens:   repositories.NewTokenRepository(db),
		proofs:   proofs,
		now:      time.Now,
		dispatch: queue.Dispatch,
	}
}

// WithClock overrides the service clock.
func (s *PasswordResetService) WithClock(now func() time.Time) *PasswordResetService {
	s.now = now
	return s
}

// WithDispatcher overrides how the mail job is queued.
func (s *PasswordResetService) WithDispatcher(d func(queue.Job) error) *PasswordResetService {
	s.dispatch = d
	return s
}

// RequestOtp issues a 6-digit code for the email, replacing any earlier
// live code, and queues the delivery mail. Returns the code's expiry.
func (s *PasswordResetService) RequestOtp(email string) (time.Time, error) {
	if _, err := s.users.FindByEmail(email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return time.Time{}, ErrUnknownEmail
		}
		return time.Time{}, fmt.Errorf("password reset: lookup user: %w", err)
	}

	code, err := generateOtpCode()
	if err != nil {
		return time.Time{}, fmt.Errorf("password reset: generate code: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return time.Time{}, fmt.Errorf("password reset: hash code: %w", err)
	}

	now := s.now()
	if err := s.tokens.Replace(email, string(hashed), now); err != nil {
		return time.Time{}, fmt.Errorf("password reset: store token: %w", err)
	}

	// Fire-and-forget: the worker retries failures, the requester never
	// learns whether delivery succeeded.
	if err := s.dispatch(&jobs.OtpCodeMail{Email: email, Code: code}); err != nil {
		return time.Time{}, fmt.Errorf("password reset: queue mail: %w", err)
	}

	metrics.OtpIssued.Inc()
	return now.Add(models.OtpTTL), nil
}

// VerifyOtp checks the code against the live token. Success consumes the
// token (single use) and returns an opaque proof redeemable once by
// ResetPassword.
func (s *PasswordResetService) VerifyOtp(email, code string) (string, error) {
	token, err := s.tokens.Find(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.OtpVerified.WithLabelValues("invalid").Inc()
			return "", ErrInvalidOtp
		}
		return "", fmt.Errorf("password reset: lookup token: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(token.Token), []byte(code)) != nil {
		metrics.OtpVerified.WithLabelValues("invalid").Inc()
		return "", ErrInvalidOtp
	}

	if s.now().After(token.ExpiresAt()) {
		metrics.OtpVerified.WithLabelValues("expired").Inc()
		return "", ErrExpiredOtp
	}

	if err := s.tokens.Delete(email); err != nil {
		return "", fmt.Errorf("password reset: consume token: %w", err)
	}

	proof, err := generateProof()
	if err != nil {
		return "", fmt.Errorf("password reset: generate proof: %w", err)
	}
	if err := s.proofs.Put(proof, email, ProofTTL); err != nil {
		return "", fmt.Errorf("password reset: store proof: %w", err)
	}

	metrics.OtpVerified.WithLabelValues("ok").Inc()
	return proof, nil
}

// ResetPassword redeems the proof and stores the new password.
// The proof is spent whether or not the update succeeds afterwards.
func (s *PasswordResetService) ResetPassword(proof, newPassword string) error {
	email, ok := s.proofs.Take(proof)
	if !ok {
		return ErrInvalidProof
	}

	user, err := s.users.FindByEmail(email)
	if err != nil {
		return fmt.Errorf("password reset: lookup user: %w", err)
	}

	hashed, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("password reset: %w", err)
	}
	return s.users.UpdatePassword(user.ID, hashed)
}

// generateOtpCode draws a uniform 6-digit code from crypto/rand.
func generateOtpCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// generateProof draws a 64-char opaque token.
func generateProof() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
