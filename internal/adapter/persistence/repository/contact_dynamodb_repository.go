package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"solstice_leads/internal/domain/entities"
	"solstice_leads/internal/usecase/interfaces"
)

const contactEntityType = "contact"

type contactItem struct {
	ID           string     `dynamodbav:"id"`
	EntityType   string     `dynamodbav:"entity_type"`
	Name         string     `dynamodbav:"name"`
	Email        string     `dynamodbav:"email"`
	Subject      string     `dynamodbav:"subject"`
	Message      string     `dynamodbav:"message"`
	Phone        string     `dynamodbav:"phone,omitempty"`
	Company      string     `dynamodbav:"company,omitempty"`
	Country      string     `dynamodbav:"country,omitempty"`
	Status       string     `dynamodbav:"status"`
	Priority     string     `dynamodbav:"priority"`
	Source       string     `dynamodbav:"source"`
	AssignedTo   string     `dynamodbav:"assigned_to,omitempty"`
	Notes        []noteItem `dynamodbav:"notes,omitempty"`
	FollowUpDate string     `dynamodbav:"follow_up_date,omitempty"`
	Resolved     bool       `dynamodbav:"resolved"`
	ResolvedAt   string     `dynamodbav:"resolved_at,omitempty"`
	IPAddress    string     `dynamodbav:"ip_address,omitempty"`
	UserAgent    string     `dynamodbav:"user_agent,omitempty"`
	SearchText   string     `dynamodbav:"search_text"`
	CreatedAt    string     `dynamodbav:"created_at"`
	UpdatedAt    string     `dynamodbav:"updated_at"`
}

// ContactDynamoRepository persists Contact entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI entity_type-created_at-index (entity_type, created_at), projection ALL
//
// Every item carries entity_type = "contact" so the GSI holds the whole
// table ordered by creation time. search_text is the lowercased
// name/subject/message used by Search.
type ContactDynamoRepository struct {
	ddb       dynamoAPI
	tableName string
}

var _ interfaces.IContactRepository = (*ContactDynamoRepository)(nil)

func NewContactDynamoRepository(ddb dynamoAPI, tableName string) *ContactDynamoRepository {
	return &ContactDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *ContactDynamoRepository) Create(ctx context.Context, c entities.Contact) (entities.Contact, error) {
	if err := putNew(ctx, r.ddb, r.tableName, toContactItem(c)); err != nil {
		return entities.Contact{}, fmt.Errorf("put contact: %w", err)
	}
	return c, nil
}

func (r *ContactDynamoRepository) GetByID(ctx context.Context, id string) (entities.Contact, error) {
	item, err := getByID(ctx, r.ddb, r.tableName, id)
	if err != nil {
		return entities.Contact{}, fmt.Errorf("get contact: %w", err)
	}
	return decodeContact(item)
}

func (r *ContactDynamoRepository) UpdateStatus(ctx context.Context, id string, status entities.ContactStatus, resolvedAt *time.Time, updatedAt time.Time) (entities.Contact, error) {
	b := newUpdateBuilder().
		set("status", strValue(string(status))).
		set("updated_at", strValue(formatTime(updatedAt)))
	if resolvedAt != nil {
		b.set("resolved", &types.AttributeValueMemberBOOL{Value: true}).
			set("resolved_at", strValue(formatTime(*resolvedAt)))
	}
	return r.update(ctx, id, b)
}

func (r *ContactDynamoRepository) AppendNote(ctx context.Context, id string, note entities.Note) (entities.Contact, error) {
	b := newUpdateBuilder().set("updated_at", strValue(formatTime(note.AddedAt)))
	if err := b.appendNote(note); err != nil {
		return entities.Contact{}, err
	}
	return r.update(ctx, id, b)
}

func (r *ContactDynamoRepository) Update(ctx context.Context, id string, patch entities.ContactPatch, updatedAt time.Time) (entities.Contact, error) {
	b := newUpdateBuilder().set("updated_at", strValue(formatTime(updatedAt)))
	if patch.Priority != nil {
		b.set("priority", strValue(string(*patch.Priority)))
	}
	if patch.AssignedTo != nil {
		b.set("assigned_to", strValue(*patch.AssignedTo))
	}
	if patch.FollowUpDate != nil {
		b.set("follow_up_date", strValue(formatTime(*patch.FollowUpDate)))
	}
	if patch.Source != nil {
		b.set("source", strValue(string(*patch.Source)))
	}
	return r.update(ctx, id, b)
}

func (r *ContactDynamoRepository) update(ctx context.Context, id string, b *updateBuilder) (entities.Contact, error) {
	item, err := updateExisting(ctx, r.ddb, r.tableName, id, b)
	if err != nil {
		return entities.Contact{}, fmt.Errorf("update contact: %w", err)
	}
	return decodeContact(item)
}

func (r *ContactDynamoRepository) List(ctx context.Context, f entities.ContactFilter, offset, limit int) ([]entities.Contact, error) {
	items, err := queryPage(ctx, r.ddb, createdIndexQuery(r.tableName, contactEntityType, nil, contactFilter(f)), offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return decodeContacts(items)
}

func (r *ContactDynamoRepository) Count(ctx context.Context, f entities.ContactFilter) (int64, error) {
	n, err := queryCount(ctx, r.ddb, createdIndexQuery(r.tableName, contactEntityType, nil, contactFilter(f)))
	if err != nil {
		return 0, fmt.Errorf("count contacts: %w", err)
	}
	return n, nil
}

func (r *ContactDynamoRepository) Search(ctx context.Context, terms []string) ([]entities.Contact, error) {
	in := createdIndexQuery(r.tableName, contactEntityType, nil, newFilter().containsAny("search_text", terms))
	items, err := queryPage(ctx, r.ddb, in, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("search contacts: %w", err)
	}
	return decodeContacts(items)
}

func (r *ContactDynamoRepository) CountByStatus(ctx context.Context) (map[entities.ContactStatus]int64, error) {
	raw, err := countByStatus(ctx, r.ddb, r.tableName, contactEntityType)
	if err != nil {
		return nil, fmt.Errorf("count contacts by status: %w", err)
	}
	out := make(map[entities.ContactStatus]int64, len(raw))
	for s, n := range raw {
		out[entities.ContactStatus(s)] = n
	}
	return out, nil
}

func (r *ContactDynamoRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	n, err := queryCount(ctx, r.ddb, createdIndexQuery(r.tableName, contactEntityType, &since, nil))
	if err != nil {
		return 0, fmt.Errorf("count recent contacts: %w", err)
	}
	return n, nil
}

func (r *ContactDynamoRepository) ListCreatedSince(ctx context.Context, since time.Time) ([]entities.LeadPoint, error) {
	in := project(createdIndexQuery(r.tableName, contactEntityType, &since, nil), "created_at")
	items, err := queryPage(ctx, r.ddb, in, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list recent contacts: %w", err)
	}
	var rows []struct {
		CreatedAt string `dynamodbav:"created_at"`
	}
	if err := attributevalue.UnmarshalListOfMaps(items, &rows); err != nil {
		return nil, err
	}
	points := make([]entities.LeadPoint, len(rows))
	for k, row := range rows {
		points[k] = entities.LeadPoint{CreatedAt: parseTime(row.CreatedAt)}
	}
	return points, nil
}

func contactFilter(f entities.ContactFilter) *filter {
	return newFilter().eq("status", string(f.Status))
}

func decodeContact(item map[string]types.AttributeValue) (entities.Contact, error) {
	if len(item) == 0 {
		return entities.Contact{}, nil
	}
	var it contactItem
	if err := attributevalue.UnmarshalMap(item, &it); err != nil {
		return entities.Contact{}, err
	}
	return fromContactItem(it), nil
}

func decodeContacts(items []map[string]types.AttributeValue) ([]entities.Contact, error) {
	var rows []contactItem
	if err := attributevalue.UnmarshalListOfMaps(items, &rows); err != nil {
		return nil, err
	}
	out := make([]entities.Contact, len(rows))
	for k, it := range rows {
		out[k] = fromContactItem(it)
	}
	return out, nil
}

func toContactItem(c entities.Contact) contactItem {
	return contactItem{
		ID:           c.ID,
		EntityType:   contactEntityType,
		Name:         c.Name,
		Email:        c.Email,
		Subject:      c.Subject,
		Message:      c.Message,
		Phone:        c.Phone,
		Company:      c.Company,
		Country:      c.Country,
		Status:       string(c.Status),
		Priority:     string(c.Priority),
		Source:       string(c.Source),
		AssignedTo:   c.AssignedTo,
		Notes:        toNoteItems(c.Notes),
		FollowUpDate: formatTimePtr(c.FollowUpDate),
		Resolved:     c.Resolved,
		ResolvedAt:   formatTimePtr(c.ResolvedAt),
		IPAddress:    c.IPAddress,
		UserAgent:    c.UserAgent,
		SearchText:   c.SearchText(),
		CreatedAt:    formatTime(c.CreatedAt),
		UpdatedAt:    formatTime(c.UpdatedAt),
	}
}

func fromContactItem(it contactItem) entities.Contact {
	return entities.Contact{
		ID:           it.ID,
		Name:         it.Name,
		Email:        it.Email,
		Subject:      it.Subject,
		Message:      it.Message,
		Phone:        it.Phone,
		Company:      it.Company,
		Country:      it.Country,
		Status:       entities.ContactStatus(it.Status),
		Priority:     entities.Priority(it.Priority),
		Source:       entities.ContactSource(it.Source),
		AssignedTo:   it.AssignedTo,
		Notes:        fromNoteItems(it.Notes),
		FollowUpDate: parseTimePtr(it.FollowUpDate),
		Resolved:     it.Resolved,
		ResolvedAt:   parseTimePtr(it.ResolvedAt),
		IPAddress:    it.IPAddress,
		UserAgent:    it.UserAgent,
		CreatedAt:    parseTime(it.CreatedAt),
		UpdatedAt:    parseTime(it.UpdatedAt),
	}
}
