package outlet

import "context"

// OutletService defines directory reads over outlets.
type OutletService interface {
	// Get retrieves an outlet by ID
	Get(ctx context.Context, id string) (OutletResponse, error)

	// List retrieves all outlets
	List(ctx context.Context) (ListOutletsResponse, error)
}
