package sync

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"
)

func TestDebounceFoldsBursts(t *testing.T) {
	d := NewDebounce(50 * time.Millisecond)

	var calls int32
	event := fsnotify.Event{Name: "/tmp/file.txt", Op: fsnotify.Write}

	for i := 0; i < 10; i++ {
		d.Add(event, func(fsnotify.Event) {
			atomic.AddInt32(&calls, 1)
		})
	}

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) == 1
	}, time.Second, 10*time.Millisecond)

	// A later burst fires again.
	d.Add(event, func(fsnotify.Event) {
		atomic.AddInt32(&calls, 1)
	})

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) == 2
	}, time.Second, 10*time.Millisecond)
}

func TestDebounceSeparatePaths(t *testing.T) {
	d := NewDebounce(20 * time.Millisecond)

	var calls int32
	fn := func(fsnotify.Event) { atomic.AddInt32(&calls, 1) }

	d.Add(fsnotify.Event{Name: "/tmp/a"}, fn)
	d.Add(fsnotify.Event{Name: "/tmp/b"}, fn)

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) == 2
	}, time.Second, 5*time.Millisecond)
}
