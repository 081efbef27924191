package watcher_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/folio/internal/adapters/watcher"
)

func TestDebouncer_CoalescesAndDeduplicates(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var mu sync.Mutex
		var calls [][]string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			mu.Lock()
			calls = append(calls, paths)
			mu.Unlock()
		})

		d.Add("/site/docs/b.md")
		d.Add("/site/docs/a.md")
		d.Add("/site/docs/b.md")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		mu.Lock()
		defer mu.Unlock()
		require.Len(t, calls, 1)
		assert.Equal(t, []string{"/site/docs/a.md", "/site/docs/b.md"}, calls[0])
	})
}

func TestDebouncer_TimerReset(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var mu sync.Mutex
		count := 0

		d := watcher.NewDebouncer(100*time.Millisecond, func([]string) {
			mu.Lock()
			count++
			mu.Unlock()
		})

		d.Add("/site/docs/a.md")
		time.Sleep(50 * time.Millisecond)
		d.Add("/site/docs/b.md")
		time.Sleep(50 * time.Millisecond)
		synctest.Wait()

		mu.Lock()
		assert.Equal(t, 0, count)
		mu.Unlock()

		time.Sleep(60 * time.Millisecond)
		synctest.Wait()

		mu.Lock()
		assert.Equal(t, 1, count)
		mu.Unlock()
	})
}

func TestDebouncer_Flush(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var received []string
		count := 0

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			count++
			received = paths
		})

		d.Add("/site/config/options.toml")
		d.Flush()

		require.Equal(t, 1, count)
		assert.Equal(t, []string{"/site/config/options.toml"}, received)

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, 1, count, "flushed batch must not fire again")
	})
}

func TestDebouncer_FlushEmpty(t *testing.T) {
	count := 0
	d := watcher.NewDebouncer(100*time.Millisecond, func([]string) { count++ })

	d.Flush()

	assert.Equal(t, 0, count)
}

func TestDebouncer_NilCallback(t *testing.T) {
	synctest.Test(t, func(_ *testing.T) {
		d := watcher.NewDebouncer(50*time.Millisecond, nil)

		d.Add("/site/docs/a.md")
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		d.Flush()
	})
}
