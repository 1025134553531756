package otp

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/statusdeck/statusdeck/internal/domain"
	"github.com/statusdeck/statusdeck/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeMailer struct {
	sent []sentMail
	err  error
}

type sentMail struct {
	to      string
	subject string
	body    string
}

func (f *fakeMailer) Send(to, subject, htmlBody string) error {
	if f.err != nil {
		return f.err
	}

	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return nil
}

func setupVerifier(t *testing.T) (*Verifier, *fakeMailer, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.EmailOTP{}))

	m := &fakeMailer{}

	return NewVerifier(db, m), m, db
}

func TestIssuePersistsAndSends(t *testing.T) {
	verifier, m, db := setupVerifier(t)

	require.NoError(t, verifier.Issue("a@b.com"))

	var record models.EmailOTP
	require.NoError(t, db.First(&record, "email = ?", "a@b.com").Error)
	assert.Len(t, record.Code, 6)
	assert.WithinDuration(t, time.Now().Add(codeTTL), record.ExpiresAt, time.Minute)

	require.Len(t, m.sent, 1)
	assert.Equal(t, "a@b.com", m.sent[0].to)
	assert.Contains(t, m.sent[0].body, record.Code)
}

func TestIssueDeliveryFailureKeepsCode(t *testing.T) {
	verifier, m, db := setupVerifier(t)
	m.err = fmt.Errorf("smtp unreachable")

	err := verifier.Issue("a@b.com")
	require.ErrorIs(t, err, domain.ErrDelivery)

	// The persisted code stays valid even though delivery failed.
	var count int64
	require.NoError(t, db.Model(&models.EmailOTP{}).Where("email = ?", "a@b.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestVerifyConsumesCodeOnce(t *testing.T) {
	verifier, _, db := setupVerifier(t)

	require.NoError(t, verifier.Issue("a@b.com"))

	var record models.EmailOTP
	require.NoError(t, db.First(&record, "email = ?", "a@b.com").Error)

	valid, err := verifier.Verify("a@b.com", record.Code)
	require.NoError(t, err)
	assert.True(t, valid)

	// Second attempt with the same code fails: the row is gone.
	valid, err = verifier.Verify("a@b.com", record.Code)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestVerifyWrongCode(t *testing.T) {
	verifier, _, db := setupVerifier(t)

	require.NoError(t, verifier.Issue("a@b.com"))

	valid, err := verifier.Verify("a@b.com", "000000")
	require.NoError(t, err)

	if valid {
		// The one-in-a-million collision: the generated code really was
		// 000000, so consume-once already covers it.
		var count int64
		require.NoError(t, db.Model(&models.EmailOTP{}).Count(&count).Error)
		assert.Zero(t, count)
		return
	}

	assert.False(t, valid)
}

func TestVerifyExpiredCode(t *testing.T) {
	verifier, _, _ := setupVerifier(t)

	require.NoError(t, verifier.Issue("a@b.com"))

	// Advance the verifier's clock past the TTL.
	verifier.now = func() time.Time {
		return time.Now().Add(codeTTL + time.Minute)
	}

	var record models.EmailOTP
	require.NoError(t, verifier.db.First(&record, "email = ?", "a@b.com").Error)

	valid, err := verifier.Verify("a@b.com", record.Code)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestVerifyCodeConsumedByConcurrentAttempt(t *testing.T) {
	verifier, _, db := setupVerifier(t)

	require.NoError(t, verifier.Issue("a@b.com"))

	var record models.EmailOTP
	require.NoError(t, db.First(&record, "email = ?", "a@b.com").Error)

	// A second request consumes the code in the window right before this
	// one's delete executes. Only one of the two may report success.
	stolen := false
	err := db.Callback().Delete().Before("gorm:delete").Register("consume_code_first", func(tx *gorm.DB) {
		if stolen {
			return
		}
		stolen = true
		db.Where("id = ?", record.ID).Delete(&models.EmailOTP{})
	})
	require.NoError(t, err)

	valid, err := verifier.Verify("a@b.com", record.Code)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestMultipleOutstandingCodesAllVerify(t *testing.T) {
	verifier, _, db := setupVerifier(t)

	require.NoError(t, verifier.Issue("a@b.com"))
	require.NoError(t, verifier.Issue("a@b.com"))

	var records []models.EmailOTP
	require.NoError(t, db.Order("created_at ASC").Find(&records, "email = ?", "a@b.com").Error)
	require.Len(t, records, 2)

	if records[0].Code == records[1].Code {
		t.Skip("generated codes collided")
	}

	// Issuing a new code does not invalidate the older one.
	valid, err := verifier.Verify("a@b.com", records[0].Code)
	require.NoError(t, err)
	assert.True(t, valid)

	valid, err = verifier.Verify("a@b.com", records[1].Code)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestGenerateCodeShape(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		require.Len(t, code, 6)

		for _, c := range code {
			assert.True(t, c >= '0' && c <= '9')
		}
	}
}
