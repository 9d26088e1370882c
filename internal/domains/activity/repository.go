package activity

import "context"

// Repository persists audit entries. Only the worker writes here.
type Repository interface {
	Insert(ctx context.Context, e Entry) error
}
