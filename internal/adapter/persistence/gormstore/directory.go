package gormstore

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"solstice_leads/internal/domain/entities"
	"solstice_leads/internal/usecase/interfaces"
)

type UserDirectory struct {
	db *gorm.DB
}

var _ interfaces.IUserDirectory = (*UserDirectory)(nil)

func NewUserDirectory(db *gorm.DB) *UserDirectory {
	return &UserDirectory{db: db}
}

func (d *UserDirectory) Lookup(ctx context.Context, ids []string) (map[string]entities.UserRef, error) {
	out := make(map[string]entities.UserRef, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var recs []userRecord
	if err := d.db.WithContext(ctx).Where("id IN ?", ids).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("lookup users: %w", err)
	}
	for _, r := range recs {
		out[r.ID] = entities.UserRef{ID: r.ID, Name: r.Name, Email: r.Email}
	}
	return out, nil
}

// CatalogReader counts rows of the product and blog tables.
type CatalogReader struct {
	db *gorm.DB
}

var _ interfaces.ICatalogReader = (*CatalogReader)(nil)

func NewCatalogReader(db *gorm.DB) *CatalogReader {
	return &CatalogReader{db: db}
}

func (c *CatalogReader) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	if err := c.db.WithContext(ctx).Model(&productRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

func (c *CatalogReader) CountBlogPosts(ctx context.Context) (int64, error) {
	var n int64
	if err := c.db.WithContext(ctx).Model(&blogPostRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count blog posts: %w", err)
	}
	return n, nil
}

func (c *CatalogReader) ProductCategoryCounts(ctx context.Context) ([]entities.CategoryCount, error) {
	rows, err := groupCount(c.db.WithContext(ctx).Model(&productRecord{}), "category")
	if err != nil {
		return nil, fmt.Errorf("product categories: %w", err)
	}
	out := make([]entities.CategoryCount, len(rows))
	for k, row := range rows {
		out[k] = entities.CategoryCount{Category: row.GroupKey, Count: row.Total}
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Count != out[b].Count {
			return out[a].Count > out[b].Count
		}
		return out[a].Category < out[b].Category
	})
	return out, nil
}
