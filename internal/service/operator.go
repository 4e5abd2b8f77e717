package service

import (
	"context"

	"irrigation_panel/internal/models"
)

type operatorKey struct{}

// WithOperator tags ctx with the operator on whose behalf an action runs.
func WithOperator(ctx context.Context, op models.Operator) context.Context {
	return context.WithValue(ctx, operatorKey{}, op)
}

// OperatorFrom returns the operator set by WithOperator. Poller-initiated
// work has none.
func OperatorFrom(ctx context.Context) (models.Operator, bool) {
	op, ok := ctx.Value(operatorKey{}).(models.Operator)
	return op, ok
}
