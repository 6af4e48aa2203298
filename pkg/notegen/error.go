package notegen

import (
	"errors"
	"fmt"
)

// ErrDone is the terminal error of a stream that completed normally.
var ErrDone = errors.New("notegen: done")

type Status int

const (
	StatusOK Status = iota
	StatusDone
	StatusTruncated
	StatusBlocked
	StatusError
)

// State is the terminal condition of a stream. It implements error so
// Stream.Next can return it; errors.Is(state, ErrDone) identifies normal
// completion.
type State struct {
	usage  Usage
	status Status
	err    error
}

func Done(stats Usage) *State {
	return &State{usage: stats, status: StatusDone, err: ErrDone}
}

func Truncated(stats Usage) *State {
	return &State{usage: stats, status: StatusTruncated, err: errors.New("notegen: generate truncated")}
}

func Blocked(stats Usage, refusal string) *State {
	return &State{usage: stats, status: StatusBlocked, err: fmt.Errorf("notegen: generate blocked: %s", refusal)}
}

func Error(stats Usage, err error) *State {
	return &State{usage: stats, status: StatusError, err: fmt.Errorf("notegen: generate error: %w", err)}
}

func (ss *State) Usage() Usage {
	return ss.usage
}

func (ss *State) Status() Status {
	return ss.status
}

func (ss *State) Unwrap() error {
	return ss.err
}

func (ss *State) Error() string {
	switch ss.status {
	case StatusDone:
		return "notegen: generate done"
	case StatusTruncated, StatusBlocked, StatusError:
		return ss.err.Error()
	default:
		return fmt.Sprintf("notegen: unexpected stream status: %v", ss.status)
	}
}
