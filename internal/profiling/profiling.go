package profiling

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Per-frame CPU timing for world ticks. Totals accumulate until ResetFrame.

type entry struct {
	total time.Duration
	calls int
}

var (
	mu    sync.Mutex
	frame = make(map[string]entry)
)

// Track returns a stop function that adds the elapsed time under name.
// Usage: defer profiling.Track("world.GenerateChunksAround")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		e := frame[name]
		e.total += d
		e.calls++
		frame[name] = e
		mu.Unlock()
	}
}

// ResetFrame clears the current totals. Call at the start of each tick.
func ResetFrame() {
	mu.Lock()
	clear(frame)
	mu.Unlock()
}

// Snapshot returns a copy of the current totals.
func Snapshot() map[string]time.Duration {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]time.Duration, len(frame))
	for k, e := range frame {
		out[k] = e.total
	}
	return out
}

// Calls returns how many times name was tracked in the current frame.
func Calls(name string) int {
	mu.Lock()
	defer mu.Unlock()
	return frame[name].calls
}

// TopN formats the n largest totals, e.g.
// "world.GenerateChunksAround:4.2ms(27), world.Populate:3.9ms(27)".
func TopN(n int) string {
	mu.Lock()
	type pair struct {
		name string
		e    entry
	}
	list := make([]pair, 0, len(frame))
	for k, e := range frame {
		list = append(list, pair{k, e})
	}
	mu.Unlock()

	sort.Slice(list, func(i, j int) bool {
		if list[i].e.total == list[j].e.total {
			return list[i].name < list[j].name
		}
		return list[i].e.total > list[j].e.total
	})
	n = min(n, len(list))
	parts := make([]string, 0, n)
	for _, p := range list[:n] {
		ms := float64(p.e.total.Microseconds()) / 1000.0
		parts = append(parts, p.name+":"+strconv.FormatFloat(ms, 'f', 1, 64)+"ms("+strconv.Itoa(p.e.calls)+")")
	}
	return strings.Join(parts, ", ")
}
