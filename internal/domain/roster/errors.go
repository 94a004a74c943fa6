package roster

import "errors"

// Sentinel kinds for roster build errors.
var (
	// ErrNoInputs marks a build attempted with no raw roster files at all.
	ErrNoInputs = errors.New("no roster input files")
	// ErrCorruptRoster marks a canonical roster artifact that violates
	// its own schema, e.g. an unknown role value.
	ErrCorruptRoster = errors.New("corrupt roster artifact")
)
