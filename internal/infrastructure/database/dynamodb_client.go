package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"solstice_leads/internal/config"
)

// CreatedAtIndex is the GSI every lead table carries: a constant
// entity_type partition and created_at as the sort key, so "newest first"
// and "created since" are plain Queries.
const (
	CreatedAtIndex   = "entity_type-created_at-index"
	EntityTypeAttr   = "entity_type"
	CreatedAtAttr    = "created_at"
	dynamoIDAttr     = "id"
	defaultAWSRegion = "us-east-1"
)

// ConnectDynamoDB creates a DynamoDB client from cfg.
//
// Local DynamoDB does not validate credentials, but the AWS SDK requires
// them, so the static provider is always set. An Endpoint overrides the
// resolved service URL (e.g. http://dynamodb:8000).
func ConnectDynamoDB(ctx context.Context, cfg config.DynamoDBConfig) (*dynamodb.Client, error) {
	awsCfg, err := NewDynamoDBConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create dynamodb config: %w", err)
	}
	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

func NewDynamoDBConfig(ctx context.Context, cfg config.DynamoDBConfig) (aws.Config, error) {
	region := cfg.Region
	if region == "" {
		region = defaultAWSRegion
	}
	creds := credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")

	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(creds),
	)
}

// EnsureLeadTables creates the contact and inquiry tables with their
// created_at index when they do not exist yet. It is meant for local
// DynamoDB; production tables are provisioned outside the service.
func EnsureLeadTables(ctx context.Context, ddb *dynamodb.Client, tables ...string) error {
	for _, name := range tables {
		_, err := ddb.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(name)})
		if err == nil {
			continue
		}
		var nf *types.ResourceNotFoundException
		if !errors.As(err, &nf) {
			return fmt.Errorf("describe table %s: %w", name, err)
		}
		if _, err := ddb.CreateTable(ctx, leadTableInput(name)); err != nil {
			var inUse *types.ResourceInUseException
			if errors.As(err, &inUse) {
				continue
			}
			return fmt.Errorf("create table %s: %w", name, err)
		}
	}
	return nil
}

func leadTableInput(name string) *dynamodb.CreateTableInput {
	return &dynamodb.CreateTableInput{
		TableName:   aws.String(name),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(dynamoIDAttr), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String(EntityTypeAttr), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String(CreatedAtAttr), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(dynamoIDAttr), KeyType: types.KeyTypeHash},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{{
			IndexName: aws.String(CreatedAtIndex),
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String(EntityTypeAttr), KeyType: types.KeyTypeHash},
				{AttributeName: aws.String(CreatedAtAttr), KeyType: types.KeyTypeRange},
			},
			Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
		}},
	}
}

// DynamoPinger reports whether a table is reachable.
type DynamoPinger struct {
	ddb   *dynamodb.Client
	table string
}

func NewDynamoPinger(ddb *dynamodb.Client, table string) *DynamoPinger {
	return &DynamoPinger{ddb: ddb, table: table}
}

func (p *DynamoPinger) Ping(ctx context.Context) error {
	_, err := p.ddb.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(p.table)})
	return err
}
