package payments

import (
	"context"

	"github.com/pharmacare/pharmacy-web/internal/pharmacy/shared"
)

// Repository abstracts the backend payment collection.
type Repository interface {
	List(ctx context.Context, token string) ([]Payment, error)
	Get(ctx context.Context, token string, id int64) (Payment, error)
	Create(ctx context.Context, token string, body any) (Payment, error)
	Update(ctx context.Context, token string, id int64, body any) (Payment, error)
	Delete(ctx context.Context, token string, id int64) error
}

// Endpoint describes /api/payments.
var Endpoint = shared.Endpoint{Path: "/payments", ListKey: "payments", ItemKey: "payment"}

// NewRepository returns the REST-backed repository.
func NewRepository(api shared.Backend, listSize int) Repository {
	return shared.NewRESTRepository[Payment](api, Endpoint, listSize)
}
