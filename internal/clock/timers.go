package clock

import (
	"container/heap"
	"time"
)

// minInterval bounds repeating timers so a zero interval cannot spin Advance.
const minInterval = time.Millisecond

// TimerID identifies a scheduled timer. The zero value is never issued.
type TimerID uint64

type timer struct {
	id       TimerID
	due      time.Time
	interval time.Duration // 0 for one-shot
	fn       func()
	index    int // heap index, -1 once removed
}

// timerHeap orders timers by due time, then by id so equal deadlines fire
// in scheduling order.
type timerHeap []*timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].due.Equal(h[j].due) {
		return h[i].id < h[j].id
	}
	return h[i].due.Before(h[j].due)
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*timer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

// Timers is a priority queue of due timestamps. It is not safe for
// concurrent use; every call, including the callbacks it fires, happens on
// the goroutine that owns the session.
type Timers struct {
	clock  Clock
	queue  timerHeap
	byID   map[TimerID]*timer
	nextID TimerID
}

// NewTimers creates an empty timer queue reading time from c.
func NewTimers(c Clock) *Timers {
	return &Timers{
		clock: c,
		byID:  make(map[TimerID]*timer),
	}
}

// Clock returns the time source the queue schedules against.
func (t *Timers) Clock() Clock {
	return t.clock
}

// After schedules fn to run once, d from now.
func (t *Timers) After(d time.Duration, fn func()) TimerID {
	if d < 0 {
		d = 0
	}
	return t.schedule(t.clock.Now().Add(d), 0, fn)
}

// Every schedules fn to run every d, first at now+d. Late pumps do not
// catch up: a repeating timer fires at most once per Advance.
func (t *Timers) Every(d time.Duration, fn func()) TimerID {
	if d < minInterval {
		d = minInterval
	}
	return t.schedule(t.clock.Now().Add(d), d, fn)
}

func (t *Timers) schedule(due time.Time, interval time.Duration, fn func()) TimerID {
	t.nextID++
	tm := &timer{id: t.nextID, due: due, interval: interval, fn: fn}
	heap.Push(&t.queue, tm)
	t.byID[tm.id] = tm
	return tm.id
}

// Cancel removes a pending timer. It reports whether the timer was pending.
func (t *Timers) Cancel(id TimerID) bool {
	tm, ok := t.byID[id]
	if !ok {
		return false
	}
	delete(t.byID, id)
	if tm.index >= 0 {
		heap.Remove(&t.queue, tm.index)
	}
	return true
}

// CancelAll drops every pending timer.
func (t *Timers) CancelAll() {
	for _, tm := range t.queue {
		tm.index = -1
	}
	t.queue = t.queue[:0]
	clear(t.byID)
}

// Pending reports whether id is still scheduled.
func (t *Timers) Pending(id TimerID) bool {
	_, ok := t.byID[id]
	return ok
}

// Due returns the deadline of a scheduled timer.
func (t *Timers) Due(id TimerID) (time.Time, bool) {
	tm, ok := t.byID[id]
	if !ok {
		return time.Time{}, false
	}
	return tm.due, true
}

// Len returns the number of scheduled timers.
func (t *Timers) Len() int {
	return len(t.byID)
}

// NextDue returns the earliest deadline, if any timer is scheduled.
func (t *Timers) NextDue() (time.Time, bool) {
	if len(t.queue) == 0 {
		return time.Time{}, false
	}
	return t.queue[0].due, true
}

// Advance fires every timer due at the current clock reading, earliest
// first, and returns how many fired. One-shot timers are removed before
// their callback runs. Repeating timers are re-armed once the pass is over
// unless their callback cancelled them.
func (t *Timers) Advance() int {
	now := t.clock.Now()
	fired := 0
	var rearm []*timer

	for len(t.queue) > 0 {
		tm := t.queue[0]
		if tm.due.After(now) {
			break
		}
		heap.Pop(&t.queue)

		if tm.interval > 0 {
			next := tm.due.Add(tm.interval)
			if !next.After(now) {
				next = now.Add(tm.interval)
			}
			tm.due = next
			// Re-armed after the loop so one Advance fires it once.
			rearm = append(rearm, tm)
		} else {
			delete(t.byID, tm.id)
		}

		tm.fn()
		fired++
	}

	for _, tm := range rearm {
		if _, live := t.byID[tm.id]; live {
			heap.Push(&t.queue, tm)
		}
	}
	return fired
}
