package tabular

import "errors"

// Sentinel kinds for artifact errors.
var (
	// ErrMissingFile marks a required input artifact that is absent.
	ErrMissingFile = errors.New("missing input file")
	// ErrEmptyInput marks a file with no header row at all.
	ErrEmptyInput = errors.New("empty input file")
	// ErrSchema marks a structurally required column that is absent.
	ErrSchema = errors.New("schema mismatch")
	// ErrRowWidth marks a row whose cell count does not match the header.
	ErrRowWidth = errors.New("row width mismatch")
	// ErrUnknownColumn marks access to a column the table does not carry.
	ErrUnknownColumn = errors.New("unknown column")
)
