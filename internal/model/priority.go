package model

import (
	"fmt"
	"strconv"
)

// Priority is a member's access tier. Lower values outrank higher ones when
// ordering a session's roster: FULL (1) beats HALF (2) beats ONE_TIME (3).
type Priority int

const (
	// PriorityFull is a standing, recurring claim to a seat. Only FULL
	// members may resell a seat they give up.
	PriorityFull Priority = 1
	// PriorityHalf is a partial standing claim.
	PriorityHalf Priority = 2
	// PriorityOneTime is the lowest tier with no resale right.
	PriorityOneTime Priority = 3
)

// Valid reports whether p is one of the three known tiers.
func (p Priority) Valid() bool {
	return p == PriorityFull || p == PriorityHalf || p == PriorityOneTime
}

// String returns the tier name used in API payloads and logs.
func (p Priority) String() string {
	switch p {
	case PriorityFull:
		return "FULL"
	case PriorityHalf:
		return "HALF"
	case PriorityOneTime:
		return "ONE_TIME"
	default:
		return fmt.Sprintf("Priority(%d)", int(p))
	}
}

// ParsePriority accepts either the numeric column value ("1".."3") or the
// tier name ("FULL", "HALF", "ONE_TIME").
func ParsePriority(s string) (Priority, error) {
	switch s {
	case "FULL":
		return PriorityFull, nil
	case "HALF":
		return PriorityHalf, nil
	case "ONE_TIME":
		return PriorityOneTime, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || !Priority(n).Valid() {
		return 0, fmt.Errorf("unknown priority %q", s)
	}
	return Priority(n), nil
}
