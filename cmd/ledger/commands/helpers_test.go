package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCents(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cents int
		want  string
	}{
		{cents: 0, want: "0.00"},
		{cents: 5, want: "0.05"},
		{cents: 2500, want: "25.00"},
		{cents: 123456, want: "1234.56"},
		{cents: -150, want: "-1.50"},
	}

	for _, testCase := range tests {
		assert.Equal(t, testCase.want, formatCents(testCase.cents))
	}
}

func TestFormatTime(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "N/A", formatTime(nil))

	at := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-01 12:30", formatTime(&at))
}

func TestJoinTags(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "N/A", joinTags(nil))
	assert.Equal(t, "ops, q1", joinTags([]string{"ops", "q1"}))
}

func TestBuildQuery(t *testing.T) {
	t.Parallel()

	query, err := buildQuery(10, "success", []string{"ops"}, "2024-03-01", "2024-03-31")
	require.NoError(t, err)
	assert.Equal(t, 10, query.Limit)
	assert.Equal(t, "success", query.Status)
	assert.Equal(t, []string{"ops"}, query.Tags)
	require.NotNil(t, query.After)
	assert.Equal(t, "2024-03-01", query.After.Format(dateFlagLayout))
	require.NotNil(t, query.Before)

	_, err = buildQuery(0, "", nil, "March 1st", "")
	require.Error(t, err)

	_, err = buildQuery(0, "", nil, "", "31/03/2024")
	require.Error(t, err)
}

func TestConfigSet(t *testing.T) {
	t.Parallel()

	config := Config{}
	config.set("access_id", "access-1")
	config.set("environment", "production")
	config.set("output", "json")

	assert.Equal(t, "access-1", config.AccessID)
	assert.Equal(t, "production", config.Environment)
	assert.Equal(t, "json", config.Output)

	assert.True(t, validConfigKey("private_key_path"))
	assert.False(t, validConfigKey("token"))
}
