package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	plain, err := ParseDate("2025-03-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), plain)

	rfc, err := ParseDate("2025-03-15T09:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.March, 15, 9, 30, 0, 0, time.UTC), rfc)

	_, err = ParseDate("15/03/2025")
	assert.Error(t, err)

	_, err = ParseDate("")
	assert.Error(t, err)
}
