package outlet

import "context"

// OutletRepository defines data access methods for outlets.
type OutletRepository interface {
	// GetByID retrieves an outlet by ID
	GetByID(ctx context.Context, id string) (Outlet, error)

	// GetByIDs retrieves outlets for the given IDs, skipping unknown ones
	GetByIDs(ctx context.Context, ids []string) ([]Outlet, error)

	// List retrieves all outlets
	List(ctx context.Context) ([]Outlet, error)
}
