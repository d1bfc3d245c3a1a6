package steamworks

import (
	"os"
	"strconv"

	apperrors "github.com/louisbranch/steambridge/internal/platform/errors"
)

// Environ mutates the environment the vendor library reads at init.
type Environ interface {
	Setenv(key, value string) error
	Unsetenv(key string) error
}

// OSEnviron mutates the Go process environment.
type OSEnviron struct{}

// Setenv implements Environ.
func (OSEnviron) Setenv(key, value string) error { return os.Setenv(key, value) }

// Unsetenv implements Environ.
func (OSEnviron) Unsetenv(key string) error { return os.Unsetenv(key) }

// withAppID publishes appID under SteamAppId while fn runs and clears it on
// every way out of fn, panics included.
func withAppID(env Environ, appID uint32, fn func() error) (err error) {
	if err := env.Setenv(AppIDEnvVar, strconv.FormatUint(uint64(appID), 10)); err != nil {
		return apperrors.Wrap(apperrors.CodeEnvironmentRejected, "set "+AppIDEnvVar, err)
	}
	defer func() {
		if unsetErr := env.Unsetenv(AppIDEnvVar); unsetErr != nil && err == nil {
			err = apperrors.Wrap(apperrors.CodeEnvironmentRejected, "clear "+AppIDEnvVar, unsetErr)
		}
	}()
	return fn()
}
