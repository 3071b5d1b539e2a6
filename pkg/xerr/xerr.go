// Package xerr defines the editor's error taxonomy : small
// sentinel values and struct error types composed with fmt.Errorf/%w and
// inspected with errors.Is/errors.As, the idiomatic Go substitute for
// the tagged-union error enums of the original.
package xerr

import (
	"errors"
	"fmt"
)

// Document/buffer edit errors.
var (
	ErrReadonly = errors.New("document: readonly")
	ErrInvalidRange = errors.New("document: invalid range")
	ErrLockContention = errors.New("document: lock contention")
	ErrNothingToUndo = errors.New("document: nothing to undo")
	ErrNothingToRedo = errors.New("document: nothing to redo")
)

// Registry errors.
var ErrBuildFatal = errors.New("registry: spec/handler mismatch")

// RegisterError is returned when a duplicate-policy of "reject" rejects a
// runtime registration.
type RegisterError struct {
	Winner string
	Loser string
	Reason string
}

func (e *RegisterError) Error() string {
	return fmt.Sprintf("registry: rejected %q (winner %q): %s", e.Loser, e.Winner, e.Reason)
}

// CommandError is the dispatcher's typed I/O/argument error surface.
type CommandError struct {
	Kind string // "io", "failed", "invalid_argument", "not_found", "missing_argument"
	Msg string
}

func (e *CommandError) Error() string { return fmt.Sprintf("command: %s: %s", e.Kind, e.Msg) }

// IoError wraps an I/O failure as a CommandError.
func IoError(msg string) *CommandError { return &CommandError{Kind: "io", Msg: msg} }

// FailedError wraps a generic command failure.
func FailedError(msg string) *CommandError { return &CommandError{Kind: "failed", Msg: msg} }

// InvalidArgumentError reports a malformed argument.
func InvalidArgumentError(msg string) *CommandError {
	return &CommandError{Kind: "invalid_argument", Msg: msg}
}

// NotFoundError reports an unresolvable name.
func NotFoundError(msg string) *CommandError { return &CommandError{Kind: "not_found", Msg: msg} }

// MissingArgumentError reports a required argument that was not supplied.
func MissingArgumentError(name string) *CommandError {
	return &CommandError{Kind: "missing_argument", Msg: name}
}

// ErrReadonlyDenied supplies the message of the error Notify the action
// pipeline returns when an edit-tagged invocation is short-circuited by
// action.Policy.EnforceReadonly.
var ErrReadonlyDenied = errors.New("action: readonly denied")

// ErrCapabilityDenied reports that the editor's exposed capability set
// does not include one required by the invocation.
type ErrCapabilityDenied struct {
	Capability string
}

func (e *ErrCapabilityDenied) Error() string {
	return fmt.Sprintf("action: capability denied: %s", e.Capability)
}

// LSP/broker lifecycle errors.
type ErrServerSpawn struct {
	Server string
	Reason string
}

func (e *ErrServerSpawn) Error() string {
	return fmt.Sprintf("lsp: server %q spawn failed: %s", e.Server, e.Reason)
}

var (
	// ErrRequestCancelled mirrors the broker's REQUEST_CANCELLED code,
	// delivered to a pending s2c waiter whose leader session failed.
	ErrRequestCancelled = errors.New("broker: request cancelled")
	// ErrServerCancelled is delivered to all s2c waiters of a server that
	// died, symmetric to ErrRequestCancelled for session failure.
	ErrServerCancelled = errors.New("broker: server cancelled")
	// ErrUnknownServer/ErrUnknownSession: broker operations on unknown ids
	// are no-ops, not errors — these exist only for callers (e.g. CLI
	// diagnostics) that want to distinguish the case.
	ErrUnknownServer = errors.New("broker: unknown server")
	ErrUnknownSession = errors.New("broker: unknown session")
)
