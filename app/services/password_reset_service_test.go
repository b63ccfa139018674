package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Zin-Mg-Nyunt/shopping/app/jobs"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/auth"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/queue"
)

// newResetService wires the service with a capturing dispatcher so tests can
// read the plaintext code that would have been emailed, and a settable clock.
func newResetService(db *gorm.DB) (*PasswordResetService, *MemoryProofStore, *jobs.OtpCodeMail, *time.Time) {
	now := time.Now()
	clock := &now
	captured := &jobs.OtpCodeMail{}

	proofs := NewMemoryProofStore().WithClock(func() time.Time { return *clock })
	svc := NewPasswordResetService(db, proofs).
		WithClock(func() time.Time { return *clock }).
		WithDispatcher(func(job queue.Job) error {
			*captured = *job.(*jobs.OtpCodeMail)
			return nil
		})
	return svc, proofs, captured, clock
}

func TestRequestOtpEmailsCode(t *testing.T) {
	db := newTestDB(t)
	svc, _, mail, clock := newResetService(db)
	createUser(t, db, "reset@example.com")

	expiresAt, err := svc.RequestOtp("reset@example.com")
	require.NoError(t, err)

	assert.Equal(t, "reset@example.com", mail.Email)
	assert.Regexp(t, `^\d{6}$`, mail.Code)
	assert.Equal(t, clock.Add(3*time.Minute), expiresAt)
}

func TestRequestOtpUnknownEmail(t *testing.T) {
	db := newTestDB(t)
	svc, _, _, _ := newResetService(db)

	_, err := svc.RequestOtp("nobody@example.com")
	assert.ErrorIs(t, err, ErrUnknownEmail)
}

func TestVerifyOtpIsSingleUse(t *testing.T) {
	db := newTestDB(t)
	svc, _, mail, _ := newResetService(db)
	createUser(t, db, "reset@example.com")

	_, err := svc.RequestOtp("reset@example.com")
	require.NoError(t, err)

	proof, err := svc.VerifyOtp("reset@example.com", mail.Code)
	require.NoError(t, err)
	assert.NotEmpty(t, proof)

	// The correct code cannot be replayed.
	_, err = svc.VerifyOtp("reset@example.com", mail.Code)
	assert.ErrorIs(t, err, ErrInvalidOtp)
}

func TestVerifyOtpWrongCode(t *testing.T) {
	db := newTestDB(t)
	svc, _, mail, _ := newResetService(db)
	createUser(t, db, "reset@example.com")

	_, err := svc.RequestOtp("reset@example.com")
	require.NoError(t, err)

	wrong := "000000"
	if mail.Code == wrong {
		wrong = "000001"
	}
	_, err = svc.VerifyOtp("reset@example.com", wrong)
	assert.ErrorIs(t, err, ErrInvalidOtp)

	// A wrong guess must not consume the real code.
	_, err = svc.VerifyOtp("reset@example.com", mail.Code)
	assert.NoError(t, err)
}

func TestVerifyOtpExpires(t *testing.T) {
	db := newTestDB(t)
	svc, _, mail, clock := newResetService(db)
	createUser(t, db, "reset@example.com")

	_, err := svc.RequestOtp("reset@example.com")
	require.NoError(t, err)

	*clock = clock.Add(3*time.Minute + time.Second)

	_, err = svc.VerifyOtp("reset@example.com", mail.Code)
	assert.ErrorIs(t, err, ErrExpiredOtp)
}

func TestRequestOtpReplacesPendingCode(t *testing.T) {
	db := newTestDB(t)
	svc, _, mail, _ := newResetService(db)
	createUser(t, db, "reset@example.com")

	_, err := svc.RequestOtp("reset@example.com")
	require.NoError(t, err)
	first := mail.Code

	_, err = svc.RequestOtp("reset@example.com")
	require.NoError(t, err)
	second := mail.Code

	if first != second {
		_, err = svc.VerifyOtp("reset@example.com", first)
		assert.ErrorIs(t, err, ErrInvalidOtp, "a superseded code must stop working")
	}
	_, err = svc.VerifyOtp("reset@example.com", second)
	assert.NoError(t, err)
}

func TestResetPasswordWithProof(t *testing.T) {
	db := newTestDB(t)
	svc, _, mail, _ := newResetService(db)
	user := createUser(t, db, "reset@example.com")

	_, err := svc.RequestOtp("reset@example.com")
	require.NoError(t, err)
	proof, err := svc.VerifyOtp("reset@example.com", mail.Code)
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(proof, "new-password-123"))

	require.NoError(t, db.First(&user, user.ID).Error)
	assert.True(t, auth.CheckPassword(user.Password, "new-password-123"))

	// The proof is spent.
	err = svc.ResetPassword(proof, "another-password")
	assert.ErrorIs(t, err, ErrInvalidProof)
}

func TestResetPasswordRejectsBogusProof(t *testing.T) {
	db := newTestDB(t)
	svc, _, _, _ := newResetService(db)

	err := svc.ResetPassword("not-a-real-proof", "whatever")
	assert.ErrorIs(t, err, ErrInvalidProof)
}

func TestProofExpires(t *testing.T) {
	db := newTestDB(t)
	svc, _, mail, clock := newResetService(db)
	createUser(t, db, "reset@example.com")

	_, err := svc.RequestOtp("reset@example.com")
	require.NoError(t, err)
	proof, err := svc.VerifyOtp("reset@example.com", mail.Code)
	require.NoError(t, err)

	*clock = clock.Add(ProofTTL + time.Second)

	err = svc.ResetPassword(proof, "new-password-123")
	assert.ErrorIs(t, err, ErrInvalidProof)
}
