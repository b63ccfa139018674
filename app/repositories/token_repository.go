package repositories

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Zin-Mg-Nyunt/shopping/app/models"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/orm"
)

// TokenRepository handles password-reset token rows. One live row per
// email: Replace overwrites whatever was there before.
type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Replace upserts the token row for the email, resetting created_at so the
// expiry clock starts over.
func (r *TokenRepository) Replace(email, hashedToken string, now time.Time) error {
	token := models.PasswordResetToken{
		Email:     email,
		Token:     hashedToken,
		CreatedAt: now,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "email"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"token":      hashedToken,
			"created_at": now,
		}),
	}).Create(&token).Error
}

// Find loads the live token row for the email.
func (r *TokenRepository) Find(email string) (models.PasswordResetToken, error) {
	var token models.PasswordResetToken
	err := orm.Wrap(r.db).Model(&models.PasswordResetToken{}).
		Where("email = ?", email).
		First(&token)
	return token, err
}

// Delete removes the token row for the email (single-use consumption).
func (r *TokenRepository) Delete(email string) error {
	return r.db.Where("email = ?", email).
		Delete(&models.PasswordResetToken{}).Error
}

// PurgeExpired removes every row older than the OTP lifetime. Run on a
// schedule so abandoned requests don't pile up.
func (r *TokenRepository) PurgeExpired(now time.Time) (int64, error) {
	res := r.db.Where("created_at < ?", now.Add(-models.OtpTTL)).
		Delete(&models.PasswordResetToken{})
	return res.RowsAffected, res.Error
}
