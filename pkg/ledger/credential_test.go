package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fennelpay/ledger-go/internal/auth"
	"github.com/fennelpay/ledger-go/pkg/ledger"
)

func TestNewCredential(t *testing.T) {
	t.Parallel()

	pemKey, err := auth.GeneratePrivateKeyPEM()
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		cred, err := ledger.NewCredential("access-1", pemKey, ledger.EnvironmentSandbox)
		require.NoError(t, err)
		assert.Equal(t, "access-1", cred.AccessID)
		assert.Equal(t, ledger.EnvironmentSandbox, cred.Environment)
	})

	t.Run("missing access ID", func(t *testing.T) {
		t.Parallel()

		_, err := ledger.NewCredential("", pemKey, ledger.EnvironmentSandbox)
		require.ErrorIs(t, err, ledger.ErrAccessIDRequired)
		assert.True(t, ledger.IsConfiguration(err))
	})

	t.Run("missing private key", func(t *testing.T) {
		t.Parallel()

		_, err := ledger.NewCredential("access-1", "", ledger.EnvironmentSandbox)
		require.ErrorIs(t, err, ledger.ErrPrivateKeyRequired)
	})

	t.Run("malformed private key fails before any request", func(t *testing.T) {
		t.Parallel()

		_, err := ledger.NewCredential("access-1", "not a key", ledger.EnvironmentSandbox)
		require.Error(t, err)
		assert.True(t, ledger.IsConfiguration(err))
	})

	t.Run("unknown environment", func(t *testing.T) {
		t.Parallel()

		_, err := ledger.NewCredential("access-1", pemKey, "staging")
		require.ErrorIs(t, err, ledger.ErrUnknownEnvironment)
	})

	t.Run("custom endpoint skips environment check", func(t *testing.T) {
		t.Parallel()

		cred := &ledger.Credential{
			AccessID:    "access-1",
			PrivateKey:  pemKey,
			APIEndpoint: "ledger.internal.example.com",
		}
		require.NoError(t, cred.Validate())
	})
}

func TestCredential_BaseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cred ledger.Credential
		want string
	}{
		{
			name: "production",
			cred: ledger.Credential{Environment: ledger.EnvironmentProduction},
			want: "https://api.fennelpay.com",
		},
		{
			name: "sandbox",
			cred: ledger.Credential{Environment: ledger.EnvironmentSandbox},
			want: "https://sandbox.api.fennelpay.com",
		},
		{
			name: "endpoint override wins",
			cred: ledger.Credential{Environment: ledger.EnvironmentSandbox, APIEndpoint: "http://localhost:9000"},
			want: "http://localhost:9000",
		},
		{
			name: "trailing slash trimmed",
			cred: ledger.Credential{APIEndpoint: "https://ledger.example.com/"},
			want: "https://ledger.example.com",
		},
		{
			name: "scheme assumed",
			cred: ledger.Credential{APIEndpoint: "ledger.example.com"},
			want: "https://ledger.example.com",
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := testCase.cred.BaseURL()
			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
		})
	}

	_, err := (&ledger.Credential{Environment: "staging"}).BaseURL()
	require.ErrorIs(t, err, ledger.ErrUnknownEnvironment)
}
