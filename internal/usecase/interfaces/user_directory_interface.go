package interfaces

import (
	"context"

	"solstice_leads/internal/domain/entities"
)

// IUserDirectory resolves staff identifiers. Unknown ids are omitted from
// the result rather than reported as errors.
type IUserDirectory interface {
	Lookup(ctx context.Context, ids []string) (map[string]entities.UserRef, error)
}
