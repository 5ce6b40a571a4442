package ticker

import (
	"bytes"
	"testing"

	"ember/hal"
	"ember/kernel"
	"ember/kernel/event"

	"github.com/stretchr/testify/require"
)

func TestTaskWritesMarkPerTick(t *testing.T) {
	q := event.NewQueue(8)
	s, err := q.Stream()
	require.NoError(t, err)

	var out bytes.Buffer
	task := NewTask(s, &out)
	e := kernel.NewExecutor(hal.NewSoftCPU())
	e.Spawn(kernel.NewTask(task))

	e.RunReady()
	require.Empty(t, out.String())

	require.NoError(t, q.Publish(0))
	require.NoError(t, q.Publish(0))
	e.RunReady()
	require.Equal(t, "..", out.String())
	require.Equal(t, uint64(2), task.Ticks())
	require.Equal(t, 1, e.Len())
}

func TestTaskWithoutOutputOnlyCounts(t *testing.T) {
	q := event.NewQueue(8)
	s, err := q.Stream()
	require.NoError(t, err)

	task := NewTask(s, nil)
	e := kernel.NewExecutor(hal.NewSoftCPU())
	e.Spawn(kernel.NewTask(task))

	require.NoError(t, q.Publish(0))
	e.RunReady()
	require.Equal(t, uint64(1), task.Ticks())
}
