package interfaces

import (
	"context"

	"solstice_leads/internal/domain/entities"
)

// ICatalogReader is read-only access to the product and blog collections
// managed outside this service.
type ICatalogReader interface {
	CountProducts(ctx context.Context) (int64, error)
	CountBlogPosts(ctx context.Context) (int64, error)
	ProductCategoryCounts(ctx context.Context) ([]entities.CategoryCount, error)
}
