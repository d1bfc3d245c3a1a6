package steamworks

import (
	"strconv"

	apperrors "github.com/louisbranch/steambridge/internal/platform/errors"
)

// Sentinels for errors.Is. Matching is by code, so every error the bridge
// returns with the same code satisfies the corresponding sentinel.
var (
	ErrPreconditionFailed = apperrors.New(apperrors.CodePlatformNotRunning, "platform client is not running")
	ErrInitFailed         = apperrors.New(apperrors.CodeInitFailed, "vendor init failed")
	ErrNotInitialized     = apperrors.New(apperrors.CodeNotInitialized, "session is not initialized")
	ErrAlreadyInitialized = apperrors.New(apperrors.CodeAlreadyInitialized, "session is already initialized")
	ErrNotLoggedOn        = apperrors.New(apperrors.CodeNotLoggedOn, "user is not logged on")
	ErrInputInitFailed    = apperrors.New(apperrors.CodeInputInitFailed, "input subsystem failed to initialize")
	ErrInvalidArgument    = apperrors.New(apperrors.CodeInvalidArgument, "invalid argument")
	ErrUnknownQuery       = apperrors.New(apperrors.CodeUnknownQuery, "unknown utility query")
)

// errNoSession is returned for a nil handle, whose kind is unknown.
var errNoSession = apperrors.New(apperrors.CodeNotInitialized, "no session handle")

func kindError(code apperrors.Code, kind Kind, message string) error {
	return apperrors.WithMetadata(code, kind.String()+" "+message, map[string]string{"kind": kind.String()})
}

func notInitialized(kind Kind) error {
	return kindError(apperrors.CodeNotInitialized, kind, "session is not initialized")
}

func notRunning(kind Kind) error {
	return kindError(apperrors.CodePlatformNotRunning, kind, "init: platform client is not running")
}

func initFailed(kind Kind, reason string) error {
	return kindError(apperrors.CodeInitFailed, kind, "init failed: "+reason)
}

func invalidServerMode(mode ServerMode) error {
	return apperrors.WithMetadata(apperrors.CodeInvalidArgument,
		"server mode must be 1, 2 or 3",
		map[string]string{"mode": strconv.Itoa(int(mode))})
}
