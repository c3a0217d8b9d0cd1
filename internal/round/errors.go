package round

import "errors"

// Rejections returned by guarded entry points. State is unchanged whenever
// one of these is returned.
var (
	ErrNoThread            = errors.New("thread is not initialized")
	ErrNoParticipants      = errors.New("no enabled participants")
	ErrConfigChangePending = errors.New("configuration change is pending confirmation")
	ErrRoundInFlight       = errors.New("previous round is not complete")
	ErrRoundRegression     = errors.New("round number must increase")
	ErrInputBlocked        = errors.New("input is blocked")
	ErrNothingToRegenerate = errors.New("no round to regenerate")
	ErrUnknownParticipant  = errors.New("unknown participant")
)
