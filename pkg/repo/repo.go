// Package repo provides a small generic read repository over Neo4j nodes.
package repo

import "context"

// ListOpts controls pagination for List.
type ListOpts struct {
	Limit  int
	Offset int
}

// Repository is a generic read-only node repository.
type Repository[T any, ID comparable] interface {
	Get(ctx context.Context, id ID) (T, error)
	List(ctx context.Context, opts ListOpts) ([]T, error)
}
