package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/statusdeck/statusdeck/internal/domain"
	"github.com/statusdeck/statusdeck/internal/mailer"
	"github.com/statusdeck/statusdeck/internal/models"
	"gorm.io/gorm"
)

const (
	codeTTL = 10 * time.Minute
	subject = "Your StatusDeck Verification Code"
)

// Verifier issues and checks short-lived one-time codes bound to an email
// address. Codes are single-use; several unconsumed codes per email may be
// live at once and any of them verifies.
type Verifier struct {
	db     *gorm.DB
	mailer mailer.Mailer
	now    func() time.Time
}

func NewVerifier(db *gorm.DB, m mailer.Mailer) *Verifier {
	return &Verifier{db: db, mailer: m, now: time.Now}
}

// Issue generates a 6-digit code, persists it with a 10-minute expiry and
// emails it. A delivery failure surfaces as ErrDelivery but the stored code
// stays valid.
func (v *Verifier) Issue(email string) error {
	code, err := generateCode()

	if err != nil {
		return err
	}

	record := models.EmailOTP{
		Email:     email,
		Code:      code,
		ExpiresAt: v.now().Add(codeTTL),
	}

	if err := v.db.Create(&record).Error; err != nil {
		return err
	}

	if err := v.mailer.Send(email, subject, verificationBody(code)); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDelivery, err)
	}

	return nil
}

// Verify consumes a matching non-expired code. Consumption is one
// conditional delete, so concurrent attempts with the same code cannot both
// succeed. Wrong, expired and already consumed codes are indistinguishable
// to the caller.
func (v *Verifier) Verify(email, code string) (bool, error) {
	result := v.db.
		Where("email = ? AND code = ? AND expires_at > ?", email, code, v.now()).
		Delete(&models.EmailOTP{})

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// generateCode draws uniformly over 000000-999999.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))

	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%06d", n.Int64()), nil
}

func verificationBody(code string) string {
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h1 style="color: #333;">Welcome to StatusDeck!</h1>
			<p>Your verification code is:</p>
			<div style="background-color: #f4f4f4; padding: 20px; text-align: center; font-size: 24px; letter-spacing: 5px; font-weight: bold;">
				%s
			</div>
			<p style="color: #666; margin-top: 20px;">
				This code will expire in 10 minutes. Please enter it to verify your email address.
			</p>
		</div>
	`, code)
}
