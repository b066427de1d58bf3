// Package notify is the user-facing notification surface. Controllers report
// transient successes and failures here instead of returning them up the
// call stack, mirroring toast notifications in a dashboard UI.
package notify

import (
	"log/slog"
	"sync"
	"time"
)

type Kind int

const (
	Info Kind = iota
	Success
	Error
)

type Notice struct {
	Kind    Kind
	Message string
	At      time.Time
}

// Notifier receives transient user-facing messages.
type Notifier interface {
	Notify(kind Kind, message string)
}

// LogNotifier writes notices to a slog logger; the default for CLI use.
type LogNotifier struct {
	L *slog.Logger
}

func (n *LogNotifier) Notify(kind Kind, message string) {
	switch kind {
	case Error:
		n.L.Warn("notice", "kind", "error", "msg", message)
	case Success:
		n.L.Info("notice", "kind", "success", "msg", message)
	default:
		n.L.Info("notice", "kind", "info", "msg", message)
	}
}

// Queue keeps notices in memory and dismisses them after a fixed delay, the
// way a toast stack behaves. Close stops every pending dismiss timer so none
// fires after teardown.
type Queue struct {
	mu      sync.Mutex
	notices []Notice
	timers  []*time.Timer
	ttl     time.Duration
	closed  bool
}

// NewQueue builds a queue whose notices auto-dismiss after ttl; a
// non-positive ttl keeps notices until dismissed explicitly.
func NewQueue(ttl time.Duration) *Queue {
	return &Queue{ttl: ttl}
}

func (q *Queue) Notify(kind Kind, message string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	n := Notice{Kind: kind, Message: message, At: time.Now()}
	q.notices = append(q.notices, n)
	if q.ttl > 0 {
		t := time.AfterFunc(q.ttl, func() { q.dismiss(n) })
		q.timers = append(q.timers, t)
	}
}

func (q *Queue) dismiss(n Notice) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, cur := range q.notices {
		if cur == n {
			q.notices = append(q.notices[:i], q.notices[i+1:]...)
			return
		}
	}
}

// Pending returns a copy of the not-yet-dismissed notices.
func (q *Queue) Pending() []Notice {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Notice, len(q.notices))
	copy(out, q.notices)
	return out
}

// Close drops pending notices and stops their timers.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	for _, t := range q.timers {
		t.Stop()
	}
	q.timers = nil
	q.notices = nil
}
