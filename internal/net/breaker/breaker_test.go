package breaker

import (
	"errors"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreaker_OpensOnConsecutiveFailures(t *testing.T) {
	b := New("test")
	boom := errors.New("boom")

	for i := 0; i < 3; i++ {
		_, err := b.Execute(func() (any, error) { return nil, boom })
		require.ErrorIs(t, err, boom)
	}

	_, err := b.Execute(func() (any, error) { return "ok", nil })
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, "open", b.State())
}

func TestBreaker_PassesThroughSuccess(t *testing.T) {
	b := New("test")

	out, err := b.Execute(func() (any, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, out)
	assert.Equal(t, "closed", b.State())
}
