package equipment

import (
	"context"

	"github.com/pharmacare/pharmacy-web/internal/pharmacy/shared"
)

// Repository abstracts the backend equipment collection.
type Repository interface {
	List(ctx context.Context, token string) ([]Equipment, error)
	Get(ctx context.Context, token string, id int64) (Equipment, error)
	Create(ctx context.Context, token string, body any) (Equipment, error)
	Update(ctx context.Context, token string, id int64, body any) (Equipment, error)
	Delete(ctx context.Context, token string, id int64) error
}

// Endpoint describes /api/equipment.
var Endpoint = shared.Endpoint{Path: "/equipment", ListKey: "equipment", ItemKey: "equipment"}

// NewRepository returns the REST-backed repository.
func NewRepository(api shared.Backend, listSize int) Repository {
	return shared.NewRESTRepository[Equipment](api, Endpoint, listSize)
}
