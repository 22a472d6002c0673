// Package ledger is the append-only store of prompt template versions.
// Version numbers per prompt are contiguous from 1; assignment is
// serialized by a row lock on the owning prompt, so concurrent writers can
// never observe the same current number. Versions are never updated or
// deleted; correcting a mistake means appending a new version.
package ledger

import "errors"

var (
	// ErrNoSuchPrompt means the prompt ID does not resolve to a prompt.
	ErrNoSuchPrompt = errors.New("no such prompt")

	// ErrNoVersionAvailable means the prompt has no saved version yet.
	ErrNoVersionAvailable = errors.New("no version available")
)
