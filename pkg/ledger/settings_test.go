package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fennelpay/ledger-go/internal/auth"
	"github.com/fennelpay/ledger-go/pkg/ledger"
)

// The default settings are process-wide state, so these tests run
// sequentially and restore the previous value.

func TestDefaultSettings(t *testing.T) {
	previous := *ledger.Default()
	defer ledger.SetDefault(previous)

	ledger.SetDefault(ledger.Settings{Timeout: 5 * time.Second, Debug: true})

	settings := ledger.Default()
	require.NotNil(t, settings)
	assert.Equal(t, 5*time.Second, settings.Timeout)
	assert.True(t, settings.Debug)
}

func TestDefaultIsStable(t *testing.T) {
	// Repeated reads must hand back one pointer; downstream layers key
	// memoized transport clients by it.
	assert.Same(t, ledger.Default(), ledger.Default())

	previous := *ledger.Default()
	defer ledger.SetDefault(previous)

	ledger.SetDefault(ledger.Settings{Debug: true})
	assert.Same(t, ledger.Default(), ledger.Default())
}

func TestSetDefaultCredential(t *testing.T) {
	previous := *ledger.Default()
	defer ledger.SetDefault(previous)

	pemKey, err := auth.GeneratePrivateKeyPEM()
	require.NoError(t, err)

	cred, err := ledger.NewCredential("access-1", pemKey, ledger.EnvironmentSandbox)
	require.NoError(t, err)

	ledger.SetDefault(ledger.Settings{Timeout: 5 * time.Second})
	ledger.SetDefaultCredential(cred)

	// Installing a credential keeps the rest of the settings.
	assert.Equal(t, cred, ledger.DefaultCredential())
	assert.Equal(t, 5*time.Second, ledger.Default().Timeout)
}

func TestResolveCredential(t *testing.T) {
	previous := *ledger.Default()
	defer ledger.SetDefault(previous)

	ledger.SetDefault(ledger.Settings{})

	// No per-call credential and no default is a configuration error.
	_, err := ledger.ResolveCredential(nil)
	require.ErrorIs(t, err, ledger.ErrCredentialRequired)
	assert.True(t, ledger.IsConfiguration(err))

	pemKey, err := auth.GeneratePrivateKeyPEM()
	require.NoError(t, err)

	fallback, err := ledger.NewCredential("default-access", pemKey, ledger.EnvironmentSandbox)
	require.NoError(t, err)
	ledger.SetDefaultCredential(fallback)

	resolved, err := ledger.ResolveCredential(nil)
	require.NoError(t, err)
	assert.Equal(t, fallback, resolved)

	// A per-call credential wins over the default.
	perCall, err := ledger.NewCredential("per-call-access", pemKey, ledger.EnvironmentSandbox)
	require.NoError(t, err)

	resolved, err = ledger.ResolveCredential(perCall)
	require.NoError(t, err)
	assert.Equal(t, perCall, resolved)
}
