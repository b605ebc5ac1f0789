package customers

import (
	"context"

	"github.com/pharmacare/pharmacy-web/internal/pharmacy/shared"
)

// Repository abstracts the backend customer collection.
type Repository interface {
	List(ctx context.Context, token string) ([]Customer, error)
	Get(ctx context.Context, token string, id int64) (Customer, error)
	Create(ctx context.Context, token string, body any) (Customer, error)
	Update(ctx context.Context, token string, id int64, body any) (Customer, error)
	Delete(ctx context.Context, token string, id int64) error
}

// Endpoint describes /api/customers.
var Endpoint = shared.Endpoint{Path: "/customers", ListKey: "customers", ItemKey: "customer"}

// NewRepository returns the REST-backed repository.
func NewRepository(api shared.Backend, listSize int) Repository {
	return shared.NewRESTRepository[Customer](api, Endpoint, listSize)
}
