package kernel

import "errors"

// Status is the kernel's closed set of result codes. The first values match
// the numbering used by the board firmware this kernel descends from.
type Status int8

const (
	StatusOK                 Status = 0
	StatusThreadLimitReached Status = -1
	StatusNoThreadsScheduled Status = -2
	StatusIRQInvalid         Status = -6
	StatusHWIPriorityInvalid Status = -7
	StatusInvalidID          Status = -8

	StatusPeriodicLimitReached Status = -9
	StatusFIFOIndex            Status = -10
	StatusFIFOFull             Status = -11
	StatusFIFONotInitialized   Status = -12
	StatusAlreadyLaunched      Status = -13
)

// Sentinel errors. They are Status values, so errors.Is and StatusOf both
// work on anything the kernel returns.
var (
	ErrThreadLimitReached   error = StatusThreadLimitReached
	ErrNotInitialized       error = StatusNoThreadsScheduled
	ErrIRQInvalid           error = StatusIRQInvalid
	ErrHWIPriorityInvalid   error = StatusHWIPriorityInvalid
	ErrInvalidID            error = StatusInvalidID
	ErrPeriodicLimitReached error = StatusPeriodicLimitReached
	ErrFIFOIndex            error = StatusFIFOIndex
	ErrFIFOFull             error = StatusFIFOFull
	ErrFIFONotInitialized   error = StatusFIFONotInitialized
	ErrAlreadyLaunched      error = StatusAlreadyLaunched
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusThreadLimitReached:
		return "thread limit reached"
	case StatusNoThreadsScheduled:
		return "no threads scheduled"
	case StatusIRQInvalid:
		return "irq number invalid"
	case StatusHWIPriorityInvalid:
		return "hardware interrupt priority invalid"
	case StatusInvalidID:
		return "invalid thread id"
	case StatusPeriodicLimitReached:
		return "periodic task limit reached"
	case StatusFIFOIndex:
		return "fifo index out of range"
	case StatusFIFOFull:
		return "fifo full"
	case StatusFIFONotInitialized:
		return "fifo not initialized"
	case StatusAlreadyLaunched:
		return "already launched"
	default:
		return "unknown"
	}
}

func (s Status) Error() string { return "kernel: " + s.String() }

// StatusOf maps an error returned by the kernel back to its code. nil maps to
// StatusOK. ok is false for errors that did not come from the kernel.
func StatusOf(err error) (Status, bool) {
	if err == nil {
		return StatusOK, true
	}
	var s Status
	if errors.As(err, &s) {
		return s, true
	}
	return StatusOK, false
}
