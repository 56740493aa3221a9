package service

import (
	"fmt"

	"github.com/okian/squadup/internal/domain/fault"
)

// Service errors. Each wraps a fault kind.
var (
	ErrSelfRating       = fmt.Errorf("%w: cannot rate yourself", fault.ErrValidation)
	ErrSelfVote         = fmt.Errorf("%w: cannot vote for yourself", fault.ErrValidation)
	ErrUnknownCategory  = fmt.Errorf("%w: unknown award category", fault.ErrValidation)
	ErrInvalidLimit     = fmt.Errorf("%w: limit must be positive", fault.ErrValidation)
	ErrInvalidStatus    = fmt.Errorf("%w: invalid game status", fault.ErrValidation)
	ErrGameNotOpen      = fmt.Errorf("%w: game is not open", fault.ErrPrecondition)
	ErrRSVPCutoff       = fmt.Errorf("%w: rsvp cutoff passed", fault.ErrPrecondition)
	ErrGameNotCompleted = fmt.Errorf("%w: game is not completed", fault.ErrPrecondition)
	ErrNotSignedUp      = fmt.Errorf("%w: player has no rsvp for this game", fault.ErrNotFound)
)
