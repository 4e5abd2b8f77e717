package service

import (
	"sync"
	"time"

	"irrigation_panel/internal/models"

	"github.com/google/uuid"
)

const defaultToastDuration = 3 * time.Second

// NotifierService keeps the toasts currently on screen.
type NotifierService struct {
	mu        sync.Mutex
	toasts    []models.Toast
	duration  time.Duration
	now       func() time.Time
	listeners []func(models.Toast)
}

func NewNotifierService(defaultDuration time.Duration, now func() time.Time) *NotifierService {
	if defaultDuration <= 0 {
		defaultDuration = defaultToastDuration
	}
	if now == nil {
		now = time.Now
	}
	return &NotifierService{duration: defaultDuration, now: now}
}

// Show replaces any toast with the same message by a new one that expires
// after d (the default duration when d <= 0).
func (n *NotifierService) Show(message, kind string, d time.Duration) models.Toast {
	if d <= 0 {
		d = n.duration
	}
	switch kind {
	case models.ToastSuccess, models.ToastWarning, models.ToastError:
	default:
		kind = models.ToastInfo
	}

	n.mu.Lock()
	now := n.now()
	t := models.Toast{
		ID:        uuid.NewString(),
		Message:   message,
		Type:      kind,
		CreatedAt: now,
		ExpiresAt: now.Add(d),
	}
	kept := n.toasts[:0]
	for _, old := range n.toasts {
		if old.Message != message && now.Before(old.ExpiresAt) {
			kept = append(kept, old)
		}
	}
	n.toasts = append(kept, t)
	listeners := append([]func(models.Toast){}, n.listeners...)
	n.mu.Unlock()

	for _, fn := range listeners {
		fn(t)
	}
	return t
}

// List returns the toasts that have not expired yet, oldest first.
func (n *NotifierService) List() []models.Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	now := n.now()
	kept := n.toasts[:0]
	for _, t := range n.toasts {
		if now.Before(t.ExpiresAt) {
			kept = append(kept, t)
		}
	}
	n.toasts = kept
	return append([]models.Toast(nil), kept...)
}

// Dismiss removes a toast before it expires.
func (n *NotifierService) Dismiss(id string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, t := range n.toasts {
		if t.ID == id {
			n.toasts = append(n.toasts[:i], n.toasts[i+1:]...)
			return true
		}
	}
	return false
}

// OnShow registers fn to receive every new toast.
func (n *NotifierService) OnShow(fn func(models.Toast)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, fn)
}
