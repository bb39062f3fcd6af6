// Package notify defines the user-visible notification contract reported by the roadmap store.
package notify

import "sync"

// Severity distinguishes ordinary notices from failures and destructive outcomes.
type Severity int

const (
	Normal Severity = iota
	Destructive
)

func (s Severity) String() string {
	if s == Destructive {
		return "destructive"
	}
	return "normal"
}

// Notification is a single discrete notice with a title and description.
type Notification struct {
	Title       string
	Description string
	Severity    Severity
}

// Notifier receives notifications. Implementations render them; the store never does.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// Discard drops every notification.
var Discard Notifier = NotifierFunc(func(Notification) {})

// Recorder keeps every notification it receives. It is safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Last returns the most recent notification, if any.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

// Reset forgets recorded notifications.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = nil
}
