package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"solstice_leads/internal/domain/entities"
	"solstice_leads/internal/usecase/interfaces"
)

// CatalogDynamoReader counts the product and blog tables managed by the
// catalog service. It never writes.
type CatalogDynamoReader struct {
	ddb           dynamoAPI
	productsTable string
	postsTable    string
}

var _ interfaces.ICatalogReader = (*CatalogDynamoReader)(nil)

func NewCatalogDynamoReader(ddb dynamoAPI, productsTable, postsTable string) *CatalogDynamoReader {
	return &CatalogDynamoReader{ddb: ddb, productsTable: productsTable, postsTable: postsTable}
}

func (r *CatalogDynamoReader) CountProducts(ctx context.Context) (int64, error) {
	n, err := scanCount(ctx, r.ddb, r.productsTable)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

func (r *CatalogDynamoReader) CountBlogPosts(ctx context.Context) (int64, error) {
	n, err := scanCount(ctx, r.ddb, r.postsTable)
	if err != nil {
		return 0, fmt.Errorf("count blog posts: %w", err)
	}
	return n, nil
}

func (r *CatalogDynamoReader) ProductCategoryCounts(ctx context.Context) ([]entities.CategoryCount, error) {
	counts := map[string]int64{}
	p := dynamodb.NewScanPaginator(r.ddb, &dynamodb.ScanInput{
		TableName:                aws.String(r.productsTable),
		ProjectionExpression:     aws.String("#category"),
		ExpressionAttributeNames: map[string]string{"#category": "category"},
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("product categories: %w", err)
		}
		var rows []struct {
			Category string `dynamodbav:"category"`
		}
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &rows); err != nil {
			return nil, err
		}
		for _, row := range rows {
			counts[row.Category]++
		}
	}

	out := make([]entities.CategoryCount, 0, len(counts))
	for _, c := range sortedKeys(counts) {
		out = append(out, entities.CategoryCount{Category: c, Count: counts[c]})
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Count > out[b].Count })
	return out, nil
}
