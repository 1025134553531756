package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateNewWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("valid window", func(t *testing.T) {
		err := ValidateNewWindow(now.Add(time.Hour), now.Add(2*time.Hour), now)
		assert.NoError(t, err)
	})

	t.Run("start in the past", func(t *testing.T) {
		err := ValidateNewWindow(now.Add(-time.Hour), now.Add(2*time.Hour), now)

		var validation *ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, "start", validation.Fields[0].Field)
	})

	t.Run("start exactly now", func(t *testing.T) {
		err := ValidateNewWindow(now, now.Add(time.Hour), now)
		assert.Error(t, err)
	})

	t.Run("end before start", func(t *testing.T) {
		err := ValidateNewWindow(now.Add(2*time.Hour), now.Add(time.Hour), now)

		var validation *ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, "end", validation.Fields[0].Field)
	})

	t.Run("end equal to start", func(t *testing.T) {
		start := now.Add(time.Hour)
		err := ValidateNewWindow(start, start, now)
		assert.Error(t, err)
	})
}

func TestValidateWindowUpdate(t *testing.T) {
	now := time.Now()
	later := now.Add(time.Hour)

	t.Run("both bounds in order", func(t *testing.T) {
		assert.NoError(t, ValidateWindowUpdate(&now, &later))
	})

	t.Run("both bounds out of order", func(t *testing.T) {
		err := ValidateWindowUpdate(&later, &now)

		var validation *ValidationError
		assert.ErrorAs(t, err, &validation)
	})

	t.Run("omitted bounds skip checks", func(t *testing.T) {
		past := now.Add(-time.Hour)

		assert.NoError(t, ValidateWindowUpdate(nil, nil))
		assert.NoError(t, ValidateWindowUpdate(&past, nil))
		assert.NoError(t, ValidateWindowUpdate(nil, &later))
	})
}
