package repository

import (
	"context"

	"github.com/smallbiznis/covara/pkg/db/option"
)

// Repository is a generic gorm-backed store for a single model type.
// Reference data is read-heavy and append-only, so the surface is reads plus
// the batch insert the seeder needs.
type Repository[T any] interface {
	Find(ctx context.Context, query *T, opts ...option.QueryOption) ([]*T, error)
	FindOne(ctx context.Context, query *T, opts ...option.QueryOption) (*T, error)
	Count(ctx context.Context, query *T) (int64, error)
	BatchCreate(ctx context.Context, resources []*T) error
}
