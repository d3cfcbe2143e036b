package consensus

import "github.com/pkg/errors"

var (
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")

	ErrChallengeNotFound   = errors.New("challenge not found")
	ErrChallengeExpired    = errors.New("challenge expired")
	ErrChallengeNotPending = errors.New("challenge is not pending")
	ErrInvalidAcceptance   = errors.New("invalid challenge acceptance")
)
