package invoice

import "context"

// Repository is the storage port every backend implements.
type Repository interface {
	// Create assigns inv.ID and stores inv.
	Create(ctx context.Context, inv *Invoice) error
	FindByID(ctx context.Context, id ID) (*Invoice, error)
	// UpdateStatus overwrites only the status and returns the stored record.
	UpdateStatus(ctx context.Context, id ID, status Status) (*Invoice, error)
	List(ctx context.Context) ([]*Invoice, error)
}

// Reporter is implemented by stores that can aggregate without loading
// every record.
type Reporter interface {
	Report(ctx context.Context) (Report, error)
}
