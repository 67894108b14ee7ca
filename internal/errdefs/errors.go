// Package errdefs defines the failure kinds shared by the object database and the
// command layer. Core packages wrap these sentinels; only cmd maps them to exit codes.
package errdefs

import "errors"

var (
	// ErrInvalidStart reports a discovery start directory that does not exist.
	ErrInvalidStart = errors.New("invalid start directory")

	// ErrNotFound reports a missing repository or object.
	ErrNotFound = errors.New("not found")

	// ErrMalformedObject reports a canonical encoding with broken framing.
	ErrMalformedObject = errors.New("malformed object")

	// ErrMalformedTree reports a tree body that cannot be parsed.
	ErrMalformedTree = errors.New("malformed tree")

	// ErrCorruptObject reports stored bytes that fail decompression or hash verification.
	ErrCorruptObject = errors.New("corrupt object")

	// ErrWriteFailure reports an object or repository write that could not complete.
	ErrWriteFailure = errors.New("write failure")

	// ErrUnknownCommand reports an unsupported command name.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrUsage reports invalid arguments or flags for a known command.
	ErrUsage = errors.New("usage")
)

// Process exit codes returned by the CLI.
const (
	ExitOK        = 0
	ExitGeneric   = 1
	ExitUsage     = 2
	ExitNotFound  = 3
	ExitIntegrity = 4
	ExitWrite     = 5
)

// ExitCode maps an error to the process exit code for its failure kind.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrUnknownCommand), errors.Is(err, ErrUsage):
		return ExitUsage
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidStart):
		return ExitNotFound
	case errors.Is(err, ErrMalformedObject), errors.Is(err, ErrMalformedTree), errors.Is(err, ErrCorruptObject):
		return ExitIntegrity
	case errors.Is(err, ErrWriteFailure):
		return ExitWrite
	default:
		return ExitGeneric
	}
}
