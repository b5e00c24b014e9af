package services

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidEventInput = errors.New("invalid event input")
	ErrUnknownIdleState  = fmt.Errorf("%w: unknown idle state", ErrInvalidEventInput)
	ErrUnknownTip        = errors.New("unknown tip")
	ErrClosed            = errors.New("tracker closed")
)
