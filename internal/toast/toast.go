// Package toast carries the dismissable notifications shown after user actions.
package toast

import (
	"sync"

	"github.com/hongminglow/clevo-client/internal/clienterr"
)

// Variant selects how a toast is styled.
type Variant string

const (
	Default     Variant = "default"
	Destructive Variant = "destructive"
)

// Toast is one notification.
type Toast struct {
	Title       string
	Description string
	Variant     Variant
}

// Notifier receives toasts.
type Notifier interface {
	Notify(Toast)
}

// Success builds a default-variant toast.
func Success(title, description string) Toast {
	return Toast{Title: title, Description: description, Variant: Default}
}

// Error builds a destructive toast titled "Error".
func Error(description string) Toast {
	return Toast{Title: "Error", Description: description, Variant: Destructive}
}

// FromError builds a destructive toast for err, using fallback when err
// carries no user-facing message.
func FromError(err error, fallback string) Toast {
	return Error(clienterr.MessageOr(err, fallback))
}

// Recorder collects toasts in order. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
}

// Notify appends t.
func (r *Recorder) Notify(t Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, t)
}

// All returns a copy of every toast recorded so far.
func (r *Recorder) All() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Toast(nil), r.toasts...)
}

// Drain returns and clears the recorded toasts.
func (r *Recorder) Drain() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.toasts
	r.toasts = nil
	return out
}
