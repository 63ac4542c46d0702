package ports

import (
	"context"

	"github.com/melih/composedeck/internal/compose"
)

// ComposeLoader reads client compose definitions from durable storage.
type ComposeLoader interface {
	// Clients lists known client identifiers.
	Clients() ([]string, error)
	// Load returns the client's project, or nil when the client has no usable
	// compose file. Only an invalid client name is reported as an error.
	Load(client string) (*compose.Project, error)
}

// ComposeSource provisions and refreshes a client's compose directory from
// version control.
type ComposeSource interface {
	Clone(ctx context.Context, client, repoURL string) error
	Sync(ctx context.Context, client string) error
}
