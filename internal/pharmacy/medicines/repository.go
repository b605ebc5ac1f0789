package medicines

import (
	"context"

	"github.com/pharmacare/pharmacy-web/internal/pharmacy/shared"
)

// Repository abstracts the backend medicine collection.
type Repository interface {
	List(ctx context.Context, token string) ([]Medicine, error)
	Get(ctx context.Context, token string, id int64) (Medicine, error)
	Create(ctx context.Context, token string, body any) (Medicine, error)
	Update(ctx context.Context, token string, id int64, body any) (Medicine, error)
	Delete(ctx context.Context, token string, id int64) error
}

// Endpoint describes /api/medicines.
var Endpoint = shared.Endpoint{Path: "/medicines", ListKey: "medicines", ItemKey: "medicine"}

// NewRepository returns the REST-backed repository.
func NewRepository(api shared.Backend, listSize int) Repository {
	return shared.NewRESTRepository[Medicine](api, Endpoint, listSize)
}
