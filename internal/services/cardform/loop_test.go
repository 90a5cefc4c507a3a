package cardform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoop_RunsInOrder(t *testing.T) {
	l := NewLoop(4)
	defer l.Stop()

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		require.True(t, l.Post(func() { order = append(order, i) }))
	}
	require.NoError(t, l.Do(func() { order = append(order, 99) }))

	assert.Equal(t, []int{0, 1, 2, 3, 4, 99}, order)
}

func TestLoop_StoppedLoopRejectsWork(t *testing.T) {
	l := NewLoop(0)
	l.Stop()
	l.Stop()

	assert.False(t, l.Post(func() {}))
	assert.ErrorIs(t, l.Do(func() {}), ErrLoopStopped)
}
