package port

import (
	"context"

	"github.com/rl1809/pos-journal/internal/core/domain"
)

type StateRepository interface {
	// Load returns the persisted journal; a missing key yields an empty state and no error
	Load(ctx context.Context) (domain.State, error)

	// Save overwrites the persisted journal with a full snapshot
	Save(ctx context.Context, state domain.State) error
}
