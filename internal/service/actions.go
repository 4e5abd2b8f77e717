package service

import (
	"context"

	"irrigation_panel/internal/device"
	"irrigation_panel/internal/logger"
	"irrigation_panel/internal/models"

	"github.com/samber/lo"
)

// failureMessage is the toast text for a failed device action.
func failureMessage(err error, fallback string) string {
	if device.IsNetworkError(err) {
		return "Network error: " + fallback
	}
	if reason := device.Message(err); reason != "" {
		return "Error: " + reason
	}
	return "Error: " + fallback
}

// Metadata keys naming the operator behind an event.
const (
	metaUserID   = "user_id"
	metaOperator = "operator"
)

// recordEvent appends to the activity log; a failing log never fails the action.
// Events raised by an operator request carry the operator in their metadata.
func recordEvent(ctx context.Context, events EventLog, log *logger.Logger, typ, desc string, meta map[string]any) {
	if events == nil {
		return
	}
	if op, ok := OperatorFrom(ctx); ok {
		meta = lo.Assign(meta, map[string]any{metaUserID: op.ID, metaOperator: op.Username})
	}
	if err := events.Record(ctx, models.PanelEvent{Type: typ, Description: desc, Metadata: meta}); err != nil {
		log.Warnw("event_record_failed", "err", err, "type", typ)
	}
}
