package event

import (
	"testing"

	"ember/kernel"

	"github.com/stretchr/testify/require"
)

func TestStreamFastPathSkipsRegistration(t *testing.T) {
	q := NewQueue(4)
	s, err := q.Stream()
	require.NoError(t, err)
	require.NoError(t, q.Publish(0x1E))

	var wakes int
	b, ok := s.PollNext(kernel.NewContext(countingWaker(&wakes)))
	require.True(t, ok)
	require.Equal(t, byte(0x1E), b)
	require.Nil(t, q.waker.Take())
}

func TestStreamSuspendsAndIsWokenByPublish(t *testing.T) {
	q := NewQueue(4)
	s, err := q.Stream()
	require.NoError(t, err)

	var wakes int
	cx := kernel.NewContext(countingWaker(&wakes))

	_, ok := s.PollNext(cx)
	require.False(t, ok)
	require.Zero(t, wakes)

	require.NoError(t, q.Publish(7))
	require.Equal(t, 1, wakes)

	b, ok := s.PollNext(cx)
	require.True(t, ok)
	require.Equal(t, byte(7), b)
}

func TestStreamPublishBetweenChecksIsNotLost(t *testing.T) {
	q := NewQueue(4)
	s, err := q.Stream()
	require.NoError(t, err)

	var wakes int
	cx := kernel.NewContext(countingWaker(&wakes))

	// The producer runs after the first pop found nothing. Whether it sees the
	// waker depends on ordering; the byte must be returned either way.
	s.registered = func() {
		require.NoError(t, q.Publish(0x2A))
	}

	b, ok := s.PollNext(cx)
	require.True(t, ok, "byte published during registration was lost")
	require.Equal(t, byte(0x2A), b)
	require.Nil(t, q.waker.Take(), "registration left behind after returning a byte")
}

func TestStreamRaceBeforeRegistration(t *testing.T) {
	q := NewQueue(4)
	s, err := q.Stream()
	require.NoError(t, err)

	var wakes int
	cx := kernel.NewContext(countingWaker(&wakes))

	// Publish lands after the first pop but before the waker is stored: it finds
	// an empty slot and wakes nobody, so only the second pop can find the byte.
	var published bool
	s.registered = func() {
		if published {
			return
		}
		published = true
		q.waker.Take()
		require.NoError(t, q.Publish(0x10))
	}

	b, ok := s.PollNext(cx)
	require.True(t, ok)
	require.Equal(t, byte(0x10), b)
	require.Zero(t, wakes)
}

func TestStreamForEach(t *testing.T) {
	q := NewQueue(8)
	s, err := q.Stream()
	require.NoError(t, err)
	for _, b := range []byte{1, 2, 3} {
		require.NoError(t, q.Publish(b))
	}

	var got []byte
	cx := kernel.NewContext(kernel.NoopWaker())
	st := s.ForEach(cx, func(b byte) bool {
		got = append(got, b)
		return true
	})
	require.Equal(t, kernel.Suspended, st)
	require.Equal(t, []byte{1, 2, 3}, got)

	require.NoError(t, q.Publish(4))
	st = s.ForEach(cx, func(b byte) bool { return false })
	require.Equal(t, kernel.Completed, st)
}
