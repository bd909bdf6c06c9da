package cont

import (
	"context"

	"TicketBot/entity"
)

type ctxKey string

const operatorKey ctxKey = "operator"

func PutOperator(ctx context.Context, op *entity.Operator) context.Context {
	return context.WithValue(ctx, operatorKey, op)
}

// GetOperator returns the authenticated operator, nil on unauthenticated routes.
func GetOperator(ctx context.Context) *entity.Operator {
	op, _ := ctx.Value(operatorKey).(*entity.Operator)
	return op
}
