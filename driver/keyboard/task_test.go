package keyboard

import (
	"bytes"
	"testing"

	"ember/hal"
	"ember/kernel"
	"ember/kernel/event"

	"github.com/stretchr/testify/require"
)

func newKeyboardTask(t *testing.T) (*kernel.Executor, *event.Queue, *bytes.Buffer) {
	t.Helper()
	q := event.NewQueue(event.DefaultCapacity)
	s, err := q.Stream()
	require.NoError(t, err)

	var out bytes.Buffer
	e := kernel.NewExecutor(hal.NewSoftCPU(), kernel.WithFatalHandler(func(info kernel.PanicInfo) {
		t.Errorf("unexpected fatal: %v", info.Value)
	}))
	e.Spawn(kernel.NewTask(NewTask(s, New(US104), &out)))
	return e, q, &out
}

func TestTaskDecodesPublishedScancode(t *testing.T) {
	e, q, out := newKeyboardTask(t)

	e.RunReady()
	require.Empty(t, out.String())

	require.NoError(t, q.Publish(0x1E))
	e.RunReady()
	require.Equal(t, "a", out.String())

	require.NoError(t, q.Publish(0x9E))
	e.RunReady()
	require.Equal(t, "a", out.String())
	require.Equal(t, 1, e.Len(), "keyboard task must never complete")
}

func TestTaskDrainsBurst(t *testing.T) {
	e, q, out := newKeyboardTask(t)
	e.RunReady()

	for _, b := range []byte{0x23, 0xA3, 0x17, 0x97} {
		require.NoError(t, q.Publish(b))
	}
	e.RunReady()

	require.Equal(t, "hi", out.String())
	require.Equal(t, uint64(2), e.Stats().Polls, "burst should be drained in one poll")
}

func TestTaskPollReturnsStreamStatus(t *testing.T) {
	q := event.NewQueue(4)
	s, err := q.Stream()
	require.NoError(t, err)
	var out bytes.Buffer
	task := NewTask(s, New(US104), &out)
	cx := kernel.NewContext(kernel.NoopWaker())

	require.NoError(t, q.Publish(0x1E))
	require.Equal(t, kernel.Suspended, task.Poll(cx))
	require.Equal(t, "a", out.String())
	require.Equal(t, kernel.Suspended, task.Poll(cx))
}
