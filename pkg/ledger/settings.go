package ledger

import (
	"sync/atomic"
	"time"
)

// Logger is the logging interface accepted throughout the library. Callers
// plug in whatever implementation they already use; nil disables logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Settings carries process-wide defaults. Install once with SetDefault (or
// SetDefaultCredential) before the first call; the settings are read, never
// mutated, by subsequent calls. Per-call credentials always win over the
// default.
type Settings struct {
	// Credential is the default credential used when a call passes nil.
	Credential *Credential

	// Logger receives transport-level debug and error logs. Optional.
	Logger Logger

	// Debug enables verbose request/response logging when a Logger is set.
	Debug bool

	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// Timeout is the per-request HTTP timeout. Zero means the default.
	Timeout time.Duration

	// RetryMax enables opt-in retries for transient failures. The library
	// default is zero: no retries, retry policy stays a caller concern.
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	// Cache optionally enables read-through caching of get-by-id responses.
	Cache *CacheConfig

	// Interceptors optionally hook every request and response.
	Interceptors *InterceptorChain
}

var defaultSettings atomic.Pointer[Settings]

// SetDefault installs the process-wide default settings.
func SetDefault(settings Settings) {
	defaultSettings.Store(&settings)
}

// Default returns the current default settings, never nil. When nothing was
// installed the zero settings are materialized exactly once, so the returned
// pointer is stable across calls and safe to use as a memoization key.
func Default() *Settings {
	if settings := defaultSettings.Load(); settings != nil {
		return settings
	}

	defaultSettings.CompareAndSwap(nil, &Settings{})

	return defaultSettings.Load()
}

// SetDefaultCredential installs only a default credential, keeping the rest
// of the current settings.
func SetDefaultCredential(credential *Credential) {
	settings := *Default()
	settings.Credential = credential
	defaultSettings.Store(&settings)
}

// DefaultCredential returns the process-wide default credential, or nil.
func DefaultCredential() *Credential {
	return Default().Credential
}

// ResolveCredential returns the per-call credential when set, falling back to
// the process-wide default.
func ResolveCredential(credential *Credential) (*Credential, error) {
	if credential != nil {
		return credential, nil
	}

	if fallback := DefaultCredential(); fallback != nil {
		return fallback, nil
	}

	return nil, &ConfigError{Reason: "credential", Err: ErrCredentialRequired}
}
