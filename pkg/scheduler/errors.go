package scheduler

import "github.com/pkg/errors"

var (
	ErrAlreadyRunning = errors.New("scheduler already running")
)
