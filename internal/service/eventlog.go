package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"irrigation_panel/internal/models"
	"irrigation_panel/internal/repository"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// LogFilter narrows the activity log by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "" or one of the models.Event* constants
	// Operator keeps only events raised by this operator's requests.
	Operator string
}

type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

var (
	errInvalidTimeRange = errors.New("invalid time range: From must be <= To")
)

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeEventType trims spaces and uppercases the event type filter.
func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f LogFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", errInvalidTimeRange
	}

	eventType := normalizeEventType(f.Type)
	return from, to, eventType, nil
}

func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.PanelEvent, error) {
	from, to, typ, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	events, err := s.eventRepo.List(ctx, from, to, typ)
	if err != nil {
		return nil, err
	}
	if op := normalizeUsername(f.Operator); op != "" {
		events = lo.Filter(events, func(e models.PanelEvent, _ int) bool { return normalizeUsername(eventOperator(e)) == op })
	}
	return events, nil
}

// eventOperator returns the operator recorded in e's metadata, or "".
func eventOperator(e models.PanelEvent) string {
	meta, ok := e.Metadata.(map[string]any)
	if !ok {
		return ""
	}
	name, _ := meta[metaOperator].(string)
	return name
}

// Record appends e, filling in the id and timestamp when missing.
func (s *EventLogService) Record(ctx context.Context, e models.PanelEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	e.Type = normalizeEventType(e.Type)
	return s.eventRepo.Append(ctx, e)
}
