package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrInvalidDueTime = errors.New("scheduler: invalid due time")
	ErrWakerStopped   = errors.New("scheduler: waker stopped")
)

// ReturnEvent announces that a deferred todo has become due.
type ReturnEvent struct {
	Text  string
	DueAt time.Time
}

type queueItem struct {
	event ReturnEvent
}

type priorityQueue []queueItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	return pq[i].event.DueAt.Before(pq[j].event.DueAt)
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

// Waker sleeps until the earliest scheduled return instant and emits the
// events that have elapsed. It is the recurring tick that drives due-checks
// while a host is running; it never touches backlog state itself.
type Waker struct {
	mu      sync.Mutex
	queue   priorityQueue
	out     chan ReturnEvent
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	now     func() time.Time
	started bool
	stopped bool
	dropped uint64
}

func NewWaker(bufferSize int) *Waker {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Waker{
		queue:  make(priorityQueue, 0),
		out:    make(chan ReturnEvent, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (w *Waker) C() <-chan ReturnEvent {
	return w.out
}

func (w *Waker) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return
	}
	w.started = true
	heap.Init(&w.queue)
	go w.loop()
}

func (w *Waker) Stop() {
	w.mu.Lock()
	if !w.started || w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	close(w.stopCh)
	w.mu.Unlock()
	<-w.doneCh
}

// Reset replaces every pending event with evs.
func (w *Waker) Reset(evs []ReturnEvent) error {
	for _, ev := range evs {
		if ev.DueAt.IsZero() {
			return ErrInvalidDueTime
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return ErrWakerStopped
	}

	w.queue = make(priorityQueue, 0, len(evs))
	for _, ev := range evs {
		w.queue = append(w.queue, queueItem{event: ev})
	}
	heap.Init(&w.queue)
	w.signalWakeup()
	return nil
}

func (w *Waker) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.queue)
}

func (w *Waker) Dropped() uint64 {
	return atomic.LoadUint64(&w.dropped)
}

func (w *Waker) loop() {
	defer close(w.doneCh)
	defer close(w.out)

	var timer *time.Timer
	for {
		next, hasNext := w.peek()
		if !hasNext {
			select {
			case <-w.wakeup:
				continue
			case <-w.stopCh:
				return
			}
		}

		wait := next.DueAt.Sub(w.now())
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			due := w.popDue(w.now())
			for _, ev := range due {
				select {
				case w.out <- ev:
				default:
					atomic.AddUint64(&w.dropped, 1)
				}
			}
		case <-w.wakeup:
			continue
		case <-w.stopCh:
			if timer != nil {
				stopTimer(timer)
			}
			return
		}
	}
}

func (w *Waker) signalWakeup() {
	select {
	case w.wakeup <- struct{}{}:
	default:
	}
}

func (w *Waker) peek() (ReturnEvent, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.queue) == 0 {
		return ReturnEvent{}, false
	}
	return w.queue[0].event, true
}

func (w *Waker) popDue(now time.Time) []ReturnEvent {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]ReturnEvent, 0)
	for len(w.queue) > 0 {
		next := w.queue[0].event
		if next.DueAt.After(now) {
			break
		}
		item := heap.Pop(&w.queue).(queueItem)
		out = append(out, item.event)
	}
	return out
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
