package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leebase/lee-llm-router/providers"
)

func TestAttemptChain_SuccessTerminates(t *testing.T) {
	chain := newAttemptChain([]string{"a", "b"})

	name, ok := chain.current()
	require.True(t, ok)
	assert.Equal(t, "a", name)
	assert.Equal(t, 0, chain.attempt())

	chain.succeed()

	assert.Equal(t, chainSucceeded, chain.state)
	assert.True(t, chain.done())
	_, ok = chain.current()
	assert.False(t, ok)
}

func TestAttemptChain_RetryableFailureAdvances(t *testing.T) {
	chain := newAttemptChain([]string{"a", "b", "c"})

	chain.fail(providers.NewError(providers.FailureRateLimit, "rl"))

	require.False(t, chain.done())
	name, ok := chain.current()
	require.True(t, ok)
	assert.Equal(t, "b", name)
	assert.Equal(t, 1, chain.attempt())
}

func TestAttemptChain_NonRetryableFailureTerminates(t *testing.T) {
	chain := newAttemptChain([]string{"a", "b"})

	perr := providers.NewError(providers.FailureContractViolation, "bad schema")
	chain.fail(perr)

	assert.Equal(t, chainFailed, chain.state)
	assert.True(t, chain.done())
	assert.Same(t, perr, chain.lastErr)
}

func TestAttemptChain_CancelledTerminates(t *testing.T) {
	chain := newAttemptChain([]string{"a", "b"})

	chain.fail(providers.NewError(providers.FailureCancelled, "cancelled"))

	assert.Equal(t, chainFailed, chain.state)
}

func TestAttemptChain_ExhaustionSurfacesLastError(t *testing.T) {
	chain := newAttemptChain([]string{"a", "b"})

	first := providers.NewError(providers.FailureRateLimit, "from a")
	last := providers.NewError(providers.FailureTimeout, "from b")

	chain.fail(first)
	require.False(t, chain.done())
	chain.fail(last)

	assert.Equal(t, chainFailed, chain.state)
	assert.Same(t, last, chain.lastErr)
}

func TestAttemptChain_NoTransitionsAfterTerminal(t *testing.T) {
	chain := newAttemptChain([]string{"a"})
	chain.succeed()

	chain.fail(providers.NewError(providers.FailureTimeout, "late"))

	assert.Equal(t, chainSucceeded, chain.state)
	assert.Nil(t, chain.lastErr)
}

func TestAttemptChain_EmptyCandidates(t *testing.T) {
	chain := newAttemptChain(nil)

	assert.True(t, chain.done())
	require.NotNil(t, chain.lastErr)
	assert.Equal(t, providers.FailureProviderError, chain.lastErr.Kind)
}

func TestChainState_String(t *testing.T) {
	assert.Equal(t, "attempting", chainAttempting.String())
	assert.Equal(t, "succeeded", chainSucceeded.String())
	assert.Equal(t, "failed", chainFailed.String())
}
