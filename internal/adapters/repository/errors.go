package repository

import (
	"fmt"

	"github.com/okian/squadup/internal/domain/fault"
)

// Sentinel kinds for store errors.
var (
	ErrNotFound    = fmt.Errorf("record %w", fault.ErrNotFound)
	ErrTeamsLocked = fmt.Errorf("%w: teams are locked; unlock first", fault.ErrPrecondition)
)
