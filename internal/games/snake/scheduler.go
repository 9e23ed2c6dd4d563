package snake

import (
	"slices"
	"time"
)

// TaskID identifies a scheduled task.
type TaskID uint64

type task struct {
	id  TaskID
	due time.Time
	fn  func()
}

// Scheduler is a single-threaded table of one-shot delayed tasks. Nothing
// runs on its own: the owner calls RunDue from its event loop, so every task
// executes on the same goroutine as the game tick.
type Scheduler struct {
	tasks  map[TaskID]*task
	nextID TaskID
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{tasks: make(map[TaskID]*task)}
}

// After schedules fn to run once d after now.
func (s *Scheduler) After(now time.Time, d time.Duration, fn func()) TaskID {
	s.nextID++
	id := s.nextID
	s.tasks[id] = &task{id: id, due: now.Add(d), fn: fn}
	return id
}

// Cancel removes a pending task. Returns false if it already ran or was cancelled.
func (s *Scheduler) Cancel(id TaskID) bool {
	if _, ok := s.tasks[id]; !ok {
		return false
	}
	delete(s.tasks, id)
	return true
}

// CancelAll drops every pending task and returns how many were dropped.
func (s *Scheduler) CancelAll() int {
	n := len(s.tasks)
	clear(s.tasks)
	return n
}

// Pending returns the number of tasks waiting to run.
func (s *Scheduler) Pending() int {
	return len(s.tasks)
}

// NextDue returns the earliest deadline among pending tasks.
func (s *Scheduler) NextDue() (time.Time, bool) {
	var next time.Time
	found := false
	for _, t := range s.tasks {
		if !found || t.due.Before(next) {
			next = t.due
			found = true
		}
	}
	return next, found
}

// RunDue runs every task due at or before now, earliest first (ties in
// scheduling order). Tasks scheduled by a running task are picked up in the
// same call if they are already due. Returns the number of tasks run.
func (s *Scheduler) RunDue(now time.Time) int {
	ran := 0
	for {
		due := s.collectDue(now)
		if len(due) == 0 {
			return ran
		}
		for _, t := range due {
			// An earlier task in this batch may have cancelled this one
			if _, ok := s.tasks[t.id]; !ok {
				continue
			}
			delete(s.tasks, t.id)
			t.fn()
			ran++
		}
	}
}

func (s *Scheduler) collectDue(now time.Time) []*task {
	var due []*task
	for _, t := range s.tasks {
		if !t.due.After(now) {
			due = append(due, t)
		}
	}
	slices.SortFunc(due, func(a, b *task) int {
		if c := a.due.Compare(b.due); c != 0 {
			return c
		}
		if a.id < b.id {
			return -1
		}
		return 1
	})
	return due
}
