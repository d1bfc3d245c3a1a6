// Package errors provides structured bridge errors and their gRPC mapping.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Session lifecycle errors
	CodePlatformNotRunning  Code = "PLATFORM_NOT_RUNNING"
	CodeInitFailed          Code = "INIT_FAILED"
	CodeNotInitialized      Code = "NOT_INITIALIZED"
	CodeAlreadyInitialized  Code = "ALREADY_INITIALIZED"
	CodeNotLoggedOn         Code = "NOT_LOGGED_ON"
	CodeInputInitFailed     Code = "INPUT_INIT_FAILED"
	CodeLibraryUnavailable  Code = "LIBRARY_UNAVAILABLE"
	CodeEnvironmentRejected Code = "ENVIRONMENT_REJECTED"

	// Argument errors
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeUnknownQuery    Code = "UNKNOWN_QUERY"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - caller supplied something the vendor cannot take
	case CodeInvalidArgument,
		CodeUnknownQuery:
		return codes.InvalidArgument

	// FailedPrecondition - session or platform state doesn't allow operation
	case CodePlatformNotRunning,
		CodeNotInitialized:
		return codes.FailedPrecondition

	case CodeAlreadyInitialized:
		return codes.AlreadyExists

	case CodeNotLoggedOn:
		return codes.Unauthenticated

	// Unavailable - the vendor refused or could not be reached
	case CodeInitFailed,
		CodeInputInitFailed,
		CodeLibraryUnavailable:
		return codes.Unavailable

	default:
		return codes.Internal
	}
}

// codeFromReason converts an ErrorInfo reason back into a Code.
func codeFromReason(reason string) Code {
	switch code := Code(reason); code {
	case CodePlatformNotRunning,
		CodeInitFailed,
		CodeNotInitialized,
		CodeAlreadyInitialized,
		CodeNotLoggedOn,
		CodeInputInitFailed,
		CodeLibraryUnavailable,
		CodeEnvironmentRejected,
		CodeInvalidArgument,
		CodeUnknownQuery:
		return code
	default:
		return CodeUnknown
	}
}
