package sales

import (
	"context"

	"github.com/pharmacare/pharmacy-web/internal/pharmacy/shared"
)

// Repository abstracts the backend sales collection.
type Repository interface {
	List(ctx context.Context, token string) ([]Sale, error)
	Get(ctx context.Context, token string, id int64) (Sale, error)
	Create(ctx context.Context, token string, body any) (Sale, error)
	Update(ctx context.Context, token string, id int64, body any) (Sale, error)
	Delete(ctx context.Context, token string, id int64) error
}

// Endpoint describes /api/sales.
var Endpoint = shared.Endpoint{Path: "/sales", ListKey: "sales", ItemKey: "sale"}

// NewRepository returns the REST-backed repository.
func NewRepository(api shared.Backend, listSize int) Repository {
	return shared.NewRESTRepository[Sale](api, Endpoint, listSize)
}
