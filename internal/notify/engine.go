// Package notify schedules and delivers the weekly bedtime reminders.
package notify

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/verte-zerg/sleepdial/internal/dial"
)

var (
	ErrInvalidTrigger = errors.New("notify: invalid trigger")
	ErrEngineStopped  = errors.New("notify: engine stopped")
)

// Reminder is a single armed occurrence of a weekly trigger.
type Reminder struct {
	Trigger dial.Trigger
	Title   string
	Body    string
	FireAt  time.Time
}

// Validate checks the trigger fields and fire time.
func (r Reminder) Validate() error {
	if r.FireAt.IsZero() {
		return ErrInvalidTrigger
	}
	if !r.Trigger.Weekday.Valid() {
		return ErrInvalidTrigger
	}
	if r.Trigger.At.Hour < 0 || r.Trigger.At.Hour > 23 || r.Trigger.At.Minute < 0 || r.Trigger.At.Minute > 59 {
		return ErrInvalidTrigger
	}
	return nil
}

type queueItem struct {
	reminder Reminder
}

type priorityQueue []queueItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	return pq[i].reminder.FireAt.Before(pq[j].reminder.FireAt)
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
}

func (pq *priorityQueue) Push(x any) {
	*pq = append(*pq, x.(queueItem))
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[0 : n-1]
	return item
}

// Engine fires reminders in time order and re-arms each one a week later.
type Engine struct {
	mu      sync.Mutex
	queue   priorityQueue
	out     chan Reminder
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	now     func() time.Time
	started bool
	stopped bool
	dropped uint64
}

// NewEngine returns an engine whose output channel holds bufferSize reminders.
func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		queue:  make(priorityQueue, 0),
		out:    make(chan Reminder, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
		now:    time.Now,
	}
}

// C returns the channel fired reminders are delivered on. It is closed by Stop.
func (e *Engine) C() <-chan Reminder {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

// Schedule arms a reminder.
func (e *Engine) Schedule(r Reminder) error {
	if err := r.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrEngineStopped
	}

	heap.Push(&e.queue, queueItem{reminder: r})
	e.signalWakeup()
	return nil
}

// Clear disarms every pending reminder.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.queue = e.queue[:0]
	e.signalWakeup()
}

// Pending returns the armed reminders ordered by fire time.
func (e *Engine) Pending() []Reminder {
	e.mu.Lock()
	items := make(priorityQueue, len(e.queue))
	copy(items, e.queue)
	e.mu.Unlock()

	out := make([]Reminder, 0, len(items))
	for items.Len() > 0 {
		out = append(out, heap.Pop(&items).(queueItem).reminder)
	}
	return out
}

func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	var timer *time.Timer
	for {
		next, hasNext := e.peek()
		if !hasNext {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := next.FireAt.Sub(e.now())
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			due := e.popDue(e.now())
			for _, r := range due {
				select {
				case e.out <- r:
				default:
					atomic.AddUint64(&e.dropped, 1)
				}
			}
		case <-e.wakeup:
			continue
		case <-e.stopCh:
			stopTimer(timer)
			return
		}
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

func (e *Engine) peek() (Reminder, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return Reminder{}, false
	}
	return e.queue[0].reminder, true
}

// popDue removes due reminders and re-arms each for the same slot next week.
func (e *Engine) popDue(now time.Time) []Reminder {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Reminder, 0)
	for len(e.queue) > 0 {
		next := e.queue[0].reminder
		if next.FireAt.After(now) {
			break
		}
		item := heap.Pop(&e.queue).(queueItem)
		out = append(out, item.reminder)
	}
	for _, r := range out {
		r.FireAt = NextFire(r.Trigger, maxTime(now, r.FireAt))
		heap.Push(&e.queue, queueItem{reminder: r})
	}
	return out
}

// NextFire returns the first instant strictly after now that falls on the
// trigger's weekday and clock time, in now's location.
func NextFire(t dial.Trigger, now time.Time) time.Time {
	offset := (int(t.Weekday.TimeWeekday()) - int(now.Weekday()) + 7) % 7
	at := time.Date(now.Year(), now.Month(), now.Day()+offset, t.At.Hour, t.At.Minute, 0, 0, now.Location())
	if !at.After(now) {
		at = time.Date(now.Year(), now.Month(), now.Day()+offset+7, t.At.Hour, t.At.Minute, 0, 0, now.Location())
	}
	return at
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
