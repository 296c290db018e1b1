package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"

	"solstice_leads/internal/domain/entities"
	"solstice_leads/internal/usecase/interfaces"
)

const inquiryEntityType = "inquiry"

type quoteItem struct {
	Amount     string `dynamodbav:"amount"`
	Currency   string `dynamodbav:"currency"`
	ValidUntil string `dynamodbav:"valid_until"`
}

// Money is stored as decimal strings so totals stay exact.
type inquiryItem struct {
	ID             string     `dynamodbav:"id"`
	EntityType     string     `dynamodbav:"entity_type"`
	Name           string     `dynamodbav:"name"`
	Email          string     `dynamodbav:"email"`
	Company        string     `dynamodbav:"company,omitempty"`
	Phone          string     `dynamodbav:"phone,omitempty"`
	Product        string     `dynamodbav:"product"`
	Quantity       *float64   `dynamodbav:"quantity,omitempty"`
	QuantityUnit   string     `dynamodbav:"quantity_unit"`
	Message        string     `dynamodbav:"message,omitempty"`
	Country        string     `dynamodbav:"country,omitempty"`
	DeliveryPort   string     `dynamodbav:"delivery_port,omitempty"`
	Urgency        string     `dynamodbav:"urgency"`
	Budget         string     `dynamodbav:"budget"`
	Status         string     `dynamodbav:"status"`
	Priority       string     `dynamodbav:"priority"`
	Source         string     `dynamodbav:"source"`
	AssignedTo     string     `dynamodbav:"assigned_to,omitempty"`
	Notes          []noteItem `dynamodbav:"notes,omitempty"`
	QuotedPrice    *quoteItem `dynamodbav:"quoted_price,omitempty"`
	EstimatedValue string     `dynamodbav:"estimated_value,omitempty"`
	CustomerType   string     `dynamodbav:"customer_type"`
	FollowUpDate   string     `dynamodbav:"follow_up_date,omitempty"`
	IPAddress      string     `dynamodbav:"ip_address,omitempty"`
	UserAgent      string     `dynamodbav:"user_agent,omitempty"`
	Referrer       string     `dynamodbav:"referrer,omitempty"`
	SearchText     string     `dynamodbav:"search_text"`
	CreatedAt      string     `dynamodbav:"created_at"`
	UpdatedAt      string     `dynamodbav:"updated_at"`
}

// InquiryDynamoRepository persists Inquiry entities in DynamoDB.
//
// Table requirements match ContactDynamoRepository; entity_type is
// "inquiry". Status and quote changes write the new state and append the
// audit note in a single UpdateItem.
type InquiryDynamoRepository struct {
	ddb       dynamoAPI
	tableName string
}

var _ interfaces.IInquiryRepository = (*InquiryDynamoRepository)(nil)

func NewInquiryDynamoRepository(ddb dynamoAPI, tableName string) *InquiryDynamoRepository {
	return &InquiryDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *InquiryDynamoRepository) Create(ctx context.Context, i entities.Inquiry) (entities.Inquiry, error) {
	if err := putNew(ctx, r.ddb, r.tableName, toInquiryItem(i)); err != nil {
		return entities.Inquiry{}, fmt.Errorf("put inquiry: %w", err)
	}
	return i, nil
}

func (r *InquiryDynamoRepository) GetByID(ctx context.Context, id string) (entities.Inquiry, error) {
	item, err := getByID(ctx, r.ddb, r.tableName, id)
	if err != nil {
		return entities.Inquiry{}, fmt.Errorf("get inquiry: %w", err)
	}
	return decodeInquiry(item)
}

func (r *InquiryDynamoRepository) UpdateStatus(ctx context.Context, id string, status entities.InquiryStatus, note entities.Note) (entities.Inquiry, error) {
	b := newUpdateBuilder().
		set("status", strValue(string(status))).
		set("updated_at", strValue(formatTime(note.AddedAt)))
	if err := b.appendNote(note); err != nil {
		return entities.Inquiry{}, err
	}
	return r.update(ctx, id, b)
}

func (r *InquiryDynamoRepository) SetQuote(ctx context.Context, id string, quote entities.QuotedPrice, status entities.InquiryStatus, note entities.Note) (entities.Inquiry, error) {
	qv, err := attributevalue.Marshal(toQuoteItem(quote))
	if err != nil {
		return entities.Inquiry{}, err
	}
	b := newUpdateBuilder().
		set("quoted_price", qv).
		set("status", strValue(string(status))).
		set("updated_at", strValue(formatTime(note.AddedAt)))
	if err := b.appendNote(note); err != nil {
		return entities.Inquiry{}, err
	}
	return r.update(ctx, id, b)
}

func (r *InquiryDynamoRepository) AppendNote(ctx context.Context, id string, note entities.Note) (entities.Inquiry, error) {
	b := newUpdateBuilder().set("updated_at", strValue(formatTime(note.AddedAt)))
	if err := b.appendNote(note); err != nil {
		return entities.Inquiry{}, err
	}
	return r.update(ctx, id, b)
}

func (r *InquiryDynamoRepository) Update(ctx context.Context, id string, patch entities.InquiryPatch, updatedAt time.Time) (entities.Inquiry, error) {
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
	if patch.EstimatedValue != nil {
		b.set("estimated_value", strValue(patch.EstimatedValue.String()))
	}
	if patch.CustomerType != nil {
		b.set("customer_type", strValue(string(*patch.CustomerType)))
	}
	if patch.Source != nil {
		b.set("source", strValue(string(*patch.Source)))
	}
	return r.update(ctx, id, b)
}

func (r *InquiryDynamoRepository) update(ctx context.Context, id string, b *updateBuilder) (entities.Inquiry, error) {
	item, err := updateExisting(ctx, r.ddb, r.tableName, id, b)
	if err != nil {
		return entities.Inquiry{}, fmt.Errorf("update inquiry: %w", err)
	}
	return decodeInquiry(item)
}

func (r *InquiryDynamoRepository) List(ctx context.Context, f entities.InquiryFilter, offset, limit int) ([]entities.Inquiry, error) {
	items, err := queryPage(ctx, r.ddb, createdIndexQuery(r.tableName, inquiryEntityType, nil, inquiryFilter(f)), offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}
	return decodeInquiries(items)
}

func (r *InquiryDynamoRepository) Count(ctx context.Context, f entities.InquiryFilter) (int64, error) {
	n, err := queryCount(ctx, r.ddb, createdIndexQuery(r.tableName, inquiryEntityType, nil, inquiryFilter(f)))
	if err != nil {
		return 0, fmt.Errorf("count inquiries: %w", err)
	}
	return n, nil
}

func (r *InquiryDynamoRepository) Search(ctx context.Context, terms []string) ([]entities.Inquiry, error) {
	in := createdIndexQuery(r.tableName, inquiryEntityType, nil, newFilter().containsAny("search_text", terms))
	items, err := queryPage(ctx, r.ddb, in, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("search inquiries: %w", err)
	}
	return decodeInquiries(items)
}

func (r *InquiryDynamoRepository) CountByStatus(ctx context.Context) (map[entities.InquiryStatus]int64, error) {
	raw, err := countByStatus(ctx, r.ddb, r.tableName, inquiryEntityType)
	if err != nil {
		return nil, fmt.Errorf("count inquiries by status: %w", err)
	}
	out := make(map[entities.InquiryStatus]int64, len(raw))
	for s, n := range raw {
		out[entities.InquiryStatus(s)] = n
	}
	return out, nil
}

func (r *InquiryDynamoRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	n, err := queryCount(ctx, r.ddb, createdIndexQuery(r.tableName, inquiryEntityType, &since, nil))
	if err != nil {
		return 0, fmt.Errorf("count recent inquiries: %w", err)
	}
	return n, nil
}

type valuePoint struct {
	CreatedAt      string `dynamodbav:"created_at"`
	EstimatedValue string `dynamodbav:"estimated_value"`
}

func (r *InquiryDynamoRepository) ListCreatedSince(ctx context.Context, since time.Time) ([]entities.LeadPoint, error) {
	in := project(createdIndexQuery(r.tableName, inquiryEntityType, &since, nil), "created_at", "estimated_value")
	items, err := queryPage(ctx, r.ddb, in, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list recent inquiries: %w", err)
	}
	var rows []valuePoint
	if err := attributevalue.UnmarshalListOfMaps(items, &rows); err != nil {
		return nil, err
	}
	points := make([]entities.LeadPoint, len(rows))
	for k, row := range rows {
		points[k] = entities.LeadPoint{CreatedAt: parseTime(row.CreatedAt), EstimatedValue: parseDecimal(row.EstimatedValue)}
	}
	return points, nil
}

// ProductStats groups inquiries by product in memory; DynamoDB has no
// GROUP BY. Ordered by count desc, then product name.
func (r *InquiryDynamoRepository) ProductStats(ctx context.Context, limit int) ([]entities.ProductStat, error) {
	in := project(createdIndexQuery(r.tableName, inquiryEntityType, nil, nil), "product", "quantity")
	items, err := queryPage(ctx, r.ddb, in, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("inquiry product stats: %w", err)
	}
	var rows []struct {
		Product  string   `dynamodbav:"product"`
		Quantity *float64 `dynamodbav:"quantity"`
	}
	if err := attributevalue.UnmarshalListOfMaps(items, &rows); err != nil {
		return nil, err
	}

	type acc struct {
		count, withQty int64
		total          float64
	}
	groups := map[string]*acc{}
	for _, row := range rows {
		g := groups[row.Product]
		if g == nil {
			g = &acc{}
			groups[row.Product] = g
		}
		g.count++
		if row.Quantity != nil {
			g.withQty++
			g.total += *row.Quantity
		}
	}

	stats := make([]entities.ProductStat, 0, len(groups))
	for _, product := range sortedKeys(groups) {
		g := groups[product]
		s := entities.ProductStat{Product: product, Count: g.count, TotalQuantity: g.total}
		if g.withQty > 0 {
			s.AvgQuantity = g.total / float64(g.withQty)
		}
		stats = append(stats, s)
	}
	sort.SliceStable(stats, func(a, b int) bool { return stats[a].Count > stats[b].Count })
	if limit > 0 && len(stats) > limit {
		stats = stats[:limit]
	}
	return stats, nil
}

func (r *InquiryDynamoRepository) CountHighPriorityOpen(ctx context.Context) (int64, error) {
	f := newFilter().
		in("priority", priorityStrings(entities.HighPriorities)).
		in("status", inquiryStatusStrings(entities.OpenInquiryStatuses))
	n, err := queryCount(ctx, r.ddb, createdIndexQuery(r.tableName, inquiryEntityType, nil, f))
	if err != nil {
		return 0, fmt.Errorf("count high priority inquiries: %w", err)
	}
	return n, nil
}

func (r *InquiryDynamoRepository) TotalEstimatedValue(ctx context.Context) (decimal.Decimal, error) {
	in := project(createdIndexQuery(r.tableName, inquiryEntityType, nil, nil), "estimated_value")
	items, err := queryPage(ctx, r.ddb, in, 0, 0)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total estimated value: %w", err)
	}
	var rows []valuePoint
	if err := attributevalue.UnmarshalListOfMaps(items, &rows); err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(parseDecimal(row.EstimatedValue))
	}
	return total, nil
}

func inquiryFilter(f entities.InquiryFilter) *filter {
	return newFilter().
		eq("status", string(f.Status)).
		eq("product", f.Product).
		eq("priority", string(f.Priority))
}

func priorityStrings(ps []entities.Priority) []string {
	out := make([]string, len(ps))
	for k, p := range ps {
		out[k] = string(p)
	}
	return out
}

func inquiryStatusStrings(ss []entities.InquiryStatus) []string {
	out := make([]string, len(ss))
	for k, s := range ss {
		out[k] = string(s)
	}
	return out
}

func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func decodeInquiry(item map[string]types.AttributeValue) (entities.Inquiry, error) {
	if len(item) == 0 {
		return entities.Inquiry{}, nil
	}
	var it inquiryItem
	if err := attributevalue.UnmarshalMap(item, &it); err != nil {
		return entities.Inquiry{}, err
	}
	return fromInquiryItem(it), nil
}

func decodeInquiries(items []map[string]types.AttributeValue) ([]entities.Inquiry, error) {
	var rows []inquiryItem
	if err := attributevalue.UnmarshalListOfMaps(items, &rows); err != nil {
		return nil, err
	}
	out := make([]entities.Inquiry, len(rows))
	for k, it := range rows {
		out[k] = fromInquiryItem(it)
	}
	return out, nil
}

func toQuoteItem(q entities.QuotedPrice) quoteItem {
	return quoteItem{Amount: q.Amount.String(), Currency: q.Currency, ValidUntil: formatTime(q.ValidUntil)}
}

func toInquiryItem(i entities.Inquiry) inquiryItem {
	it := inquiryItem{
		ID:           i.ID,
		EntityType:   inquiryEntityType,
		Name:         i.Name,
		Email:        i.Email,
		Company:      i.Company,
		Phone:        i.Phone,
		Product:      i.Product,
		Quantity:     i.Quantity,
		QuantityUnit: string(i.QuantityUnit),
		Message:      i.Message,
		Country:      i.Country,
		DeliveryPort: i.DeliveryPort,
		Urgency:      string(i.Urgency),
		Budget:       string(i.Budget),
		Status:       string(i.Status),
		Priority:     string(i.Priority),
		Source:       string(i.Source),
		AssignedTo:   i.AssignedTo,
		Notes:        toNoteItems(i.Notes),
		CustomerType: string(i.CustomerType),
		FollowUpDate: formatTimePtr(i.FollowUpDate),
		IPAddress:    i.IPAddress,
		UserAgent:    i.UserAgent,
		Referrer:     i.Referrer,
		SearchText:   i.SearchText(),
		CreatedAt:    formatTime(i.CreatedAt),
		UpdatedAt:    formatTime(i.UpdatedAt),
	}
	if i.QuotedPrice != nil {
		q := toQuoteItem(*i.QuotedPrice)
		it.QuotedPrice = &q
	}
	if i.EstimatedValue != nil {
		it.EstimatedValue = i.EstimatedValue.String()
	}
	return it
}

func fromInquiryItem(it inquiryItem) entities.Inquiry {
	i := entities.Inquiry{
		ID:           it.ID,
		Name:         it.Name,
		Email:        it.Email,
		Company:      it.Company,
		Phone:        it.Phone,
		Product:      it.Product,
		Quantity:     it.Quantity,
		QuantityUnit: entities.QuantityUnit(it.QuantityUnit),
		Message:      it.Message,
		Country:      it.Country,
		DeliveryPort: it.DeliveryPort,
		Urgency:      entities.Urgency(it.Urgency),
		Budget:       entities.Budget(it.Budget),
		Status:       entities.InquiryStatus(it.Status),
		Priority:     entities.Priority(it.Priority),
		Source:       entities.InquirySource(it.Source),
		AssignedTo:   it.AssignedTo,
		Notes:        fromNoteItems(it.Notes),
		CustomerType: entities.CustomerType(it.CustomerType),
		FollowUpDate: parseTimePtr(it.FollowUpDate),
		IPAddress:    it.IPAddress,
		UserAgent:    it.UserAgent,
		Referrer:     it.Referrer,
		CreatedAt:    parseTime(it.CreatedAt),
		UpdatedAt:    parseTime(it.UpdatedAt),
	}
	if it.QuotedPrice != nil {
		i.QuotedPrice = &entities.QuotedPrice{
			Amount:     parseDecimal(it.QuotedPrice.Amount),
			Currency:   it.QuotedPrice.Currency,
			ValidUntil: parseTime(it.QuotedPrice.ValidUntil),
		}
	}
	if it.EstimatedValue != "" {
		v := parseDecimal(it.EstimatedValue)
		i.EstimatedValue = &v
	}
	return i
}
