package router

import "github.com/leebase/lee-llm-router/providers"

// chainState is the orchestrator's position in one logical call.
type chainState int

const (
	chainAttempting chainState = iota
	chainSucceeded
	chainFailed
)

func (s chainState) String() string {
	switch s {
	case chainAttempting:
		return "attempting"
	case chainSucceeded:
		return "succeeded"
	case chainFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// attemptChain is the fallback state machine for one logical call. It starts
// at ATTEMPTING(0) against the policy-chosen provider and walks the candidate
// list sequentially: a retry-eligible failure advances to the next candidate,
// a non-retry-eligible failure or an exhausted list terminates in FAILED, and
// a success terminates in SUCCEEDED. The terminal states accept no further
// transitions.
type attemptChain struct {
	candidates []string
	index      int
	state      chainState
	lastErr    *providers.Error
}

func newAttemptChain(candidates []string) *attemptChain {
	c := &attemptChain{candidates: candidates}
	if len(candidates) == 0 {
		c.state = chainFailed
		c.lastErr = providers.NewError(providers.FailureProviderError, "no providers available")
	}
	return c
}

// current returns the candidate under attempt, or false once terminal.
func (c *attemptChain) current() (string, bool) {
	if c.state != chainAttempting {
		return "", false
	}
	return c.candidates[c.index], true
}

// attempt is the zero-based index of the current attempt.
func (c *attemptChain) attempt() int {
	return c.index
}

// succeed moves the chain to its SUCCEEDED terminal state.
func (c *attemptChain) succeed() {
	if c.state == chainAttempting {
		c.state = chainSucceeded
	}
}

// fail records a classified failure and either advances to the next
// candidate or terminates. The surfaced error is always the LAST attempt's.
func (c *attemptChain) fail(perr *providers.Error) {
	if c.state != chainAttempting {
		return
	}
	c.lastErr = perr
	if !perr.Retryable() || c.index == len(c.candidates)-1 {
		c.state = chainFailed
		return
	}
	c.index++
}

func (c *attemptChain) done() bool {
	return c.state != chainAttempting
}
