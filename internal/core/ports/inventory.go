package ports

import (
	"context"

	"github.com/melih/composedeck/internal/core/domain"
)

// InventoryService reconciles compose definitions against the runtime.
type InventoryService interface {
	ListClients(ctx context.Context) ([]domain.Client, error)
	ReconcileClient(ctx context.Context, client string) ([]domain.Service, error)
	ReconcileService(ctx context.Context, client, service string) (domain.Service, error)
}

// ActionService runs operator commands against a single service.
// A non-nil error means the target could not be resolved (domain.ErrNotFound,
// domain.ErrInvalidClientName); runtime failures are reported in the result.
type ActionService interface {
	Start(ctx context.Context, client, service string) (domain.ActionResult, error)
	Stop(ctx context.Context, client, service string) (domain.ActionResult, error)
	Fetch(ctx context.Context, client, service string) (domain.ActionResult, error)
	Logs(ctx context.Context, client, service string) (string, error)
}
