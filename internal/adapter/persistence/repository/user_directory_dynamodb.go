package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"solstice_leads/internal/domain/entities"
	"solstice_leads/internal/usecase/interfaces"
)

const (
	batchGetLimit      = 100
	maxBatchGetRetries = 3
)

type userItem struct {
	ID    string `dynamodbav:"id"`
	Name  string `dynamodbav:"name"`
	Email string `dynamodbav:"email"`
}

// UserDirectoryDynamo resolves staff ids against the users table, which is
// owned by the admin/auth service. Only id, name and email are read.
type UserDirectoryDynamo struct {
	ddb       dynamoAPI
	tableName string
}

var _ interfaces.IUserDirectory = (*UserDirectoryDynamo)(nil)

func NewUserDirectoryDynamo(ddb dynamoAPI, tableName string) *UserDirectoryDynamo {
	return &UserDirectoryDynamo{ddb: ddb, tableName: tableName}
}

func (d *UserDirectoryDynamo) Lookup(ctx context.Context, ids []string) (map[string]entities.UserRef, error) {
	out := make(map[string]entities.UserRef, len(ids))
	for start := 0; start < len(ids); start += batchGetLimit {
		end := min(start+batchGetLimit, len(ids))
		if err := d.lookupChunk(ctx, ids[start:end], out); err != nil {
			return nil, fmt.Errorf("lookup users: %w", err)
		}
	}
	return out, nil
}

func (d *UserDirectoryDynamo) lookupChunk(ctx context.Context, ids []string, out map[string]entities.UserRef) error {
	keys := make([]map[string]types.AttributeValue, len(ids))
	for k, id := range ids {
		keys[k] = idKey(id)
	}
	request := map[string]types.KeysAndAttributes{
		d.tableName: {
			Keys:                     keys,
			ProjectionExpression:     aws.String("#id, #name, #email"),
			ExpressionAttributeNames: map[string]string{"#id": "id", "#name": "name", "#email": "email"},
		},
	}

	for attempt := 0; attempt < maxBatchGetRetries && len(request) > 0; attempt++ {
		res, err := d.ddb.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{RequestItems: request})
		if err != nil {
			return err
		}
		var rows []userItem
		if err := attributevalue.UnmarshalListOfMaps(res.Responses[d.tableName], &rows); err != nil {
			return err
		}
		for _, u := range rows {
			out[u.ID] = entities.UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
		}
		request = res.UnprocessedKeys
	}
	return nil
}
