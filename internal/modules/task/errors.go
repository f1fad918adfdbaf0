package task

import "errors"

// ErrTaskNotFound covers both missing tasks and tasks owned by someone else.
var ErrTaskNotFound = errors.New("task not found")
