package models

import "time"

// PasswordResetToken holds the bcrypt hash of the one-time code mailed to a
// user. At most one live row per email: re-requesting replaces the token and
// resets the expiry clock.
type PasswordResetToken struct {
	Email     string    `gorm:"primaryKey;size:255" json:"email"`
	Token     string    `gorm:"size:255;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// OtpTTL is how long a reset code stays valid after issuance.
const OtpTTL = 3 * time.Minute

// ExpiresAt is the instant the code stops being accepted.
func (t *PasswordResetToken) ExpiresAt() time.Time {
	return t.CreatedAt.Add(OtpTTL)
}
