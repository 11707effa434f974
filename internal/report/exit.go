package report

import "github.com/diffsquare/diffsquare/internal/types"

// Exit codes.
const (
	ExitOK       = 0
	ExitNotFound = 1
	ExitError    = 2
	ExitTimeout  = 124
)

// ExitCode maps job outcomes to a process exit code. Any trivial, exhausted,
// or canceled job yields ExitNotFound; otherwise any timeout yields
// ExitTimeout.
func ExitCode(jobs []types.JobResult) int {
	timedOut := false
	for _, r := range jobs {
		switch r.Outcome {
		case types.OutcomeFound:
		case types.OutcomeTimeout:
			timedOut = true
		default:
			return ExitNotFound
		}
	}
	if timedOut {
		return ExitTimeout
	}
	return ExitOK
}
