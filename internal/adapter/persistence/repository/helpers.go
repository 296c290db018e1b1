package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"solstice_leads/internal/domain/entities"
	"solstice_leads/internal/infrastructure/database"
)

// dynamoAPI is the part of *dynamodb.Client the repositories use.
type dynamoAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	BatchGetItem(ctx context.Context, in *dynamodb.BatchGetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error)
}

var _ dynamoAPI = (*dynamodb.Client)(nil)

// timeLayout is fixed width so that string order equals time order in the
// created_at sort key.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339Nano, s)
	}
	return t.UTC()
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func parseTimePtr(s string) *time.Time {
	if s == "" {
		return nil
	}
	t := parseTime(s)
	return &t
}

func idKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

func strValue(s string) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: s}
}

func mergeNames(a, b map[string]string) map[string]string {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make(map[string]string, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

type noteItem struct {
	Content string `dynamodbav:"content"`
	AddedBy string `dynamodbav:"added_by"`
	AddedAt string `dynamodbav:"added_at"`
}

func toNoteItems(notes []entities.Note) []noteItem {
	if len(notes) == 0 {
		return nil
	}
	out := make([]noteItem, len(notes))
	for k, n := range notes {
		out[k] = noteItem{Content: n.Content, AddedBy: n.AddedBy, AddedAt: formatTime(n.AddedAt)}
	}
	return out
}

func fromNoteItems(items []noteItem) []entities.Note {
	out := make([]entities.Note, len(items))
	for k, it := range items {
		out[k] = entities.Note{Content: it.Content, AddedBy: it.AddedBy, AddedAt: parseTime(it.AddedAt)}
	}
	return out
}

// noteListValue wraps one note as a single-element list for list_append.
func noteListValue(n entities.Note) (types.AttributeValue, error) {
	av, err := attributevalue.Marshal(noteItem{Content: n.Content, AddedBy: n.AddedBy, AddedAt: formatTime(n.AddedAt)})
	if err != nil {
		return nil, err
	}
	return &types.AttributeValueMemberL{Value: []types.AttributeValue{av}}, nil
}

// updateBuilder accumulates SET clauses for one UpdateItem call.
type updateBuilder struct {
	sets   []string
	names  map[string]string
	values map[string]types.AttributeValue
}

func newUpdateBuilder() *updateBuilder {
	return &updateBuilder{names: map[string]string{}, values: map[string]types.AttributeValue{}}
}

func (b *updateBuilder) set(attr string, v types.AttributeValue) *updateBuilder {
	b.sets = append(b.sets, fmt.Sprintf("#%s = :%s", attr, attr))
	b.names["#"+attr] = attr
	b.values[":"+attr] = v
	return b
}

func (b *updateBuilder) appendNote(n entities.Note) error {
	av, err := noteListValue(n)
	if err != nil {
		return err
	}
	b.sets = append(b.sets, "#notes = list_append(if_not_exists(#notes, :empty_notes), :note)")
	b.names["#notes"] = "notes"
	b.values[":note"] = av
	b.values[":empty_notes"] = &types.AttributeValueMemberL{Value: []types.AttributeValue{}}
	return nil
}

func (b *updateBuilder) expression() string {
	return "SET " + strings.Join(b.sets, ", ")
}

// updateExisting applies b to id and returns the new image, or nil when the
// item does not exist.
func updateExisting(ctx context.Context, ddb dynamoAPI, table, id string, b *updateBuilder) (map[string]types.AttributeValue, error) {
	out, err := ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(table),
		Key:                       idKey(id),
		ConditionExpression:       aws.String("attribute_exists(#id)"),
		UpdateExpression:          aws.String(b.expression()),
		ExpressionAttributeValues: b.values,
		ExpressionAttributeNames:  mergeNames(b.names, map[string]string{"#id": "id"}),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return nil, nil
		}
		return nil, err
	}
	return out.Attributes, nil
}

// putNew writes item, failing if the id already exists.
func putNew(ctx context.Context, ddb dynamoAPI, table string, item any) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return err
	}
	_, err = ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(table),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	return err
}

func getByID(ctx context.Context, ddb dynamoAPI, table, id string) (map[string]types.AttributeValue, error) {
	out, err := ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(table),
		Key:            idKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	return out.Item, nil
}

// filter collects FilterExpression clauses, ANDed together.
type filter struct {
	clauses []string
	names   map[string]string
	values  map[string]types.AttributeValue
}

func newFilter() *filter {
	return &filter{names: map[string]string{}, values: map[string]types.AttributeValue{}}
}

func (f *filter) eq(attr, value string) *filter {
	if value == "" {
		return f
	}
	f.names["#"+attr] = attr
	f.values[":f_"+attr] = strValue(value)
	f.clauses = append(f.clauses, fmt.Sprintf("#%s = :f_%s", attr, attr))
	return f
}

func (f *filter) in(attr string, values []string) *filter {
	if len(values) == 0 {
		return f
	}
	f.names["#"+attr] = attr
	placeholders := make([]string, len(values))
	for k, v := range values {
		p := fmt.Sprintf(":f_%s_%d", attr, k)
		placeholders[k] = p
		f.values[p] = strValue(v)
	}
	f.clauses = append(f.clauses, fmt.Sprintf("#%s IN (%s)", attr, strings.Join(placeholders, ", ")))
	return f
}

// containsAny matches items whose attr contains at least one of terms.
func (f *filter) containsAny(attr string, terms []string) *filter {
	if len(terms) == 0 {
		return f
	}
	f.names["#"+attr] = attr
	ors := make([]string, len(terms))
	for k, t := range terms {
		p := fmt.Sprintf(":f_%s_%d", attr, k)
		f.values[p] = strValue(t)
		ors[k] = fmt.Sprintf("contains(#%s, %s)", attr, p)
	}
	f.clauses = append(f.clauses, "("+strings.Join(ors, " OR ")+")")
	return f
}

// createdIndexQuery queries one entity type on the created_at index, newest
// first, optionally bounded below by since and narrowed by f.
func createdIndexQuery(table, entityType string, since *time.Time, f *filter) *dynamodb.QueryInput {
	names := map[string]string{"#et": database.EntityTypeAttr}
	values := map[string]types.AttributeValue{":et": strValue(entityType)}
	keyCond := "#et = :et"
	if since != nil {
		names["#ca"] = database.CreatedAtAttr
		values[":since"] = strValue(formatTime(*since))
		keyCond += " AND #ca >= :since"
	}

	in := &dynamodb.QueryInput{
		TableName:              aws.String(table),
		IndexName:              aws.String(database.CreatedAtIndex),
		KeyConditionExpression: aws.String(keyCond),
		ScanIndexForward:       aws.Bool(false),
	}
	if f != nil && len(f.clauses) > 0 {
		in.FilterExpression = aws.String(strings.Join(f.clauses, " AND "))
		names = mergeNames(names, f.names)
		for k, v := range f.values {
			values[k] = v
		}
	}
	in.ExpressionAttributeNames = names
	in.ExpressionAttributeValues = values
	return in
}

// project restricts a query to attrs.
func project(in *dynamodb.QueryInput, attrs ...string) *dynamodb.QueryInput {
	refs := make([]string, len(attrs))
	names := map[string]string{}
	for k, a := range attrs {
		refs[k] = "#p_" + a
		names["#p_"+a] = a
	}
	in.ProjectionExpression = aws.String(strings.Join(refs, ", "))
	in.ExpressionAttributeNames = mergeNames(in.ExpressionAttributeNames, names)
	return in
}

// queryPage walks the query result and returns items [offset, offset+limit).
// limit <= 0 returns everything from offset on.
func queryPage(ctx context.Context, ddb dynamoAPI, in *dynamodb.QueryInput, offset, limit int) ([]map[string]types.AttributeValue, error) {
	var out []map[string]types.AttributeValue
	skipped := 0
	p := dynamodb.NewQueryPaginator(ddb, in)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, item := range page.Items {
			if skipped < offset {
				skipped++
				continue
			}
			out = append(out, item)
			if limit > 0 && len(out) == limit {
				return out, nil
			}
		}
	}
	return out, nil
}

func queryCount(ctx context.Context, ddb dynamoAPI, in *dynamodb.QueryInput) (int64, error) {
	in.Select = types.SelectCount
	var total int64
	p := dynamodb.NewQueryPaginator(ddb, in)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return 0, err
		}
		total += int64(page.Count)
	}
	return total, nil
}

func scanCount(ctx context.Context, ddb dynamoAPI, table string) (int64, error) {
	var total int64
	p := dynamodb.NewScanPaginator(ddb, &dynamodb.ScanInput{
		TableName: aws.String(table),
		Select:    types.SelectCount,
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return 0, err
		}
		total += int64(page.Count)
	}
	return total, nil
}

type statusOnly struct {
	Status string `dynamodbav:"status"`
}

// countByStatus groups the status attribute of every item of entityType.
func countByStatus(ctx context.Context, ddb dynamoAPI, table, entityType string) (map[string]int64, error) {
	items, err := queryPage(ctx, ddb, project(createdIndexQuery(table, entityType, nil, nil), "status"), 0, 0)
	if err != nil {
		return nil, err
	}
	var rows []statusOnly
	if err := attributevalue.UnmarshalListOfMaps(items, &rows); err != nil {
		return nil, err
	}
	out := map[string]int64{}
	for _, r := range rows {
		out[r.Status]++
	}
	return out, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
