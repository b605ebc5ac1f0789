package suppliers

import (
	"context"

	"github.com/pharmacare/pharmacy-web/internal/pharmacy/shared"
)

// Repository abstracts the backend supplier collection.
type Repository interface {
	List(ctx context.Context, token string) ([]Supplier, error)
	Get(ctx context.Context, token string, id int64) (Supplier, error)
	Create(ctx context.Context, token string, body any) (Supplier, error)
	Update(ctx context.Context, token string, id int64, body any) (Supplier, error)
	Delete(ctx context.Context, token string, id int64) error
}

// Endpoint describes /api/suppliers.
var Endpoint = shared.Endpoint{Path: "/suppliers", ListKey: "suppliers", ItemKey: "supplier"}

// NewRepository returns the REST-backed repository.
func NewRepository(api shared.Backend, listSize int) Repository {
	return shared.NewRESTRepository[Supplier](api, Endpoint, listSize)
}
