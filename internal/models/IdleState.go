package models

import (
	"fmt"
	"strings"
)

type IdleState string

const (
	IdleStateActive IdleState = "active"
	IdleStateIdle   IdleState = "idle"
	IdleStateLocked IdleState = "locked"
)

func ParseIdleState(s string) (IdleState, error) {
	switch st := IdleState(strings.ToLower(strings.TrimSpace(s))); st {
	case IdleStateActive, IdleStateIdle, IdleStateLocked:
		return st, nil
	default:
		return "", fmt.Errorf("unknown idle state %q", s)
	}
}

// Away reports whether the state stops active browsing.
func (s IdleState) Away() bool {
	return s == IdleStateIdle || s == IdleStateLocked
}
