package vision

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBackoff(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	require.Equal(15*time.Second, Backoff(0, RateLimited))
	require.Equal(20*time.Second, Backoff(1, RateLimited))
	require.Equal(25*time.Second, Backoff(2, RateLimited))

	require.Equal(1*time.Second, Backoff(0, Transient))
	require.Equal(2*time.Second, Backoff(1, Transient))
	require.Equal(3*time.Second, Backoff(2, Transient))
}

func TestKindRetryable(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	require.True(Transient.Retryable())
	require.True(RateLimited.Retryable())
	require.False(InvalidAuth.Retryable())
	require.False(Malformed.Retryable())
}

func TestKindOf(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	require.Equal(RateLimited, KindOf(Errf(RateLimited, "quota")))
	require.Equal(InvalidAuth, KindOf(Errf(InvalidAuth, "bad key")))
	require.Equal(Transient, KindOf(errNotClassified))
}

var errNotClassified = &plainError{}

type plainError struct{}

func (*plainError) Error() string { return "boom" }
