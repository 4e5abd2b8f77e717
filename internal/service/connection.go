package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"irrigation_panel/internal/logger"
	"irrigation_panel/internal/models"
)

const defaultConnectionInterval = 30 * time.Second

// ConnectionService caches the device network link shown on the settings page.
type ConnectionService struct {
	device   Device
	log      *logger.Logger
	interval time.Duration
	now      func() time.Time

	mu      sync.Mutex
	last    models.ConnectionStatus
	checked time.Time
}

func NewConnectionService(dev Device, log *logger.Logger, interval time.Duration) *ConnectionService {
	if interval <= 0 {
		interval = defaultConnectionInterval
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ConnectionService{device: dev, log: log, interval: interval, now: time.Now}
}

// ConnectionStatus asks the device and caches the answer.
func (s *ConnectionService) ConnectionStatus(ctx context.Context) (models.ConnectionStatus, error) {
	st, err := s.device.ConnectionStatus(ctx)
	if err != nil {
		s.log.Warnw("connection_status_failed", "err", err)
		return models.ConnectionStatus{}, fmt.Errorf("connection status: %w", err)
	}
	s.mu.Lock()
	s.last = st
	s.checked = s.now().UTC()
	s.mu.Unlock()
	return st, nil
}

// LastConnection returns the cached status; ok is false before the first
// successful check.
func (s *ConnectionService) LastConnection() (models.ConnectionStatus, time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.checked, !s.checked.IsZero()
}

// PollConnection refreshes the status until ctx is canceled. Failures are
// only logged.
func (s *ConnectionService) PollConnection(ctx context.Context) {
	_, _ = s.ConnectionStatus(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = s.ConnectionStatus(ctx)
		}
	}
}
