package fixtures

import "errors"

// ErrTooFewTeams indicates the generator cannot build a schedule
// because fewer than two teams were configured.
var ErrTooFewTeams = errors.New("fixtures: at least two teams required")
