package holiday

import "errors"

var (
	ErrRequestNotFound       = errors.New("holiday request not found")
	ErrAlreadyProcessed      = errors.New("holiday request already processed")
	ErrOnlyPendingCancelable = errors.New("can only cancel pending requests")
	ErrInsufficientAllowance = errors.New("not enough holiday days remaining")
)
