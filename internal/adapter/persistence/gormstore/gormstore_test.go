package gormstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"solstice_leads/internal/config"
	"solstice_leads/internal/domain/entities"
	"solstice_leads/internal/infrastructure/database"
)

var t0 = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQL(config.DriverSQLite, "", filepath.Join(t.TempDir(), "leads.db"), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() { _ = database.CloseSQL(db) })
	return db
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Silent),
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db, mock
}

func ptrFloat(v float64) *float64 { return &v }

func newContact(id, name string, status entities.ContactStatus, createdAt time.Time) entities.Contact {
	c := entities.Contact{
		ID:        id,
		Name:      name,
		Email:     name + "@example.com",
		Subject:   "Bulk cashew pricing",
		Message:   "Please send your price list.",
		Status:    status,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	c.ApplyDefaults()
	return c
}

func newInquiry(id, product string, qty *float64, createdAt time.Time) entities.Inquiry {
	i := entities.Inquiry{
		ID:        id,
		Name:      "Grace",
		Email:     "grace@example.com",
		Company:   "Hopper Foods",
		Product:   product,
		Quantity:  qty,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	i.ApplyDefaults()
	i.Classify()
	return i
}

func TestContactRepository_CreateAndGet(t *testing.T) {
	repo := NewContactRepository(newSQLiteDB(t))
	ctx := context.Background()

	c := newContact("c-1", "ada", entities.ContactStatusNew, t0)
	_, err := repo.Create(ctx, c)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, "ada", got.Name)
	assert.Equal(t, entities.ContactStatusNew, got.Status)
	assert.Equal(t, entities.PriorityMedium, got.Priority)
	assert.Empty(t, got.Notes)
	assert.True(t, got.CreatedAt.Equal(t0))

	missing, err := repo.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Equal(t, "", missing.ID)
}

func TestContactRepository_StatusNotesAndPatch(t *testing.T) {
	repo := NewContactRepository(newSQLiteDB(t))
	ctx := context.Background()
	_, err := repo.Create(ctx, newContact("c-1", "ada", entities.ContactStatusNew, t0))
	require.NoError(t, err)

	later := t0.Add(time.Hour)
	got, err := repo.UpdateStatus(ctx, "c-1", entities.ContactStatusResolved, entities.ResolutionStamp(entities.ContactStatusResolved, later), later)
	require.NoError(t, err)
	assert.True(t, got.Resolved)
	require.NotNil(t, got.ResolvedAt)
	assert.True(t, got.ResolvedAt.Equal(later))

	// Leaving resolved keeps the stamp.
	got, err = repo.UpdateStatus(ctx, "c-1", entities.ContactStatusClosed, nil, later.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, entities.ContactStatusClosed, got.Status)
	assert.True(t, got.Resolved)

	_, err = repo.AppendNote(ctx, "c-1", entities.NewNote("first", "u-1", later))
	require.NoError(t, err)
	got, err = repo.AppendNote(ctx, "c-1", entities.NewNote("second", "", later.Add(time.Minute)))
	require.NoError(t, err)
	require.Len(t, got.Notes, 2)
	assert.Equal(t, "first", got.Notes[0].Content)
	assert.Equal(t, "u-1", got.Notes[0].AddedBy)
	assert.Equal(t, "second", got.Notes[1].Content)

	urgent := entities.PriorityUrgent
	assignee := "u-2"
	got, err = repo.Update(ctx, "c-1", entities.ContactPatch{Priority: &urgent, AssignedTo: &assignee}, later)
	require.NoError(t, err)
	assert.Equal(t, entities.PriorityUrgent, got.Priority)
	assert.Equal(t, "u-2", got.AssignedTo)
	assert.Len(t, got.Notes, 2)

	missing, err := repo.UpdateStatus(ctx, "nope", entities.ContactStatusClosed, nil, later)
	require.NoError(t, err)
	assert.Equal(t, "", missing.ID)
	missing, err = repo.AppendNote(ctx, "nope", entities.NewNote("x", "", later))
	require.NoError(t, err)
	assert.Equal(t, "", missing.ID)
}

func TestContactRepository_ListCountSearchStats(t *testing.T) {
	repo := NewContactRepository(newSQLiteDB(t))
	ctx := context.Background()
	seed := []entities.Contact{
		newContact("c-1", "ada", entities.ContactStatusNew, t0.Add(-72*time.Hour)),
		newContact("c-2", "grace", entities.ContactStatusNew, t0.Add(-48*time.Hour)),
		newContact("c-3", "linus", entities.ContactStatusClosed, t0.Add(-24*time.Hour)),
	}
	for _, c := range seed {
		_, err := repo.Create(ctx, c)
		require.NoError(t, err)
	}

	all, err := repo.List(ctx, entities.ContactFilter{}, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"c-3", "c-2", "c-1"}, []string{all[0].ID, all[1].ID, all[2].ID})

	page, err := repo.List(ctx, entities.ContactFilter{Status: entities.ContactStatusNew}, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "c-1", page[0].ID)

	n, err := repo.Count(ctx, entities.ContactFilter{Status: entities.ContactStatusNew})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	found, err := repo.Search(ctx, []string{"grace", "linus"})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	byStatus, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), byStatus[entities.ContactStatusNew])
	assert.Equal(t, int64(1), byStatus[entities.ContactStatusClosed])

	recent, err := repo.CountCreatedSince(ctx, t0.Add(-50*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), recent)

	points, err := repo.ListCreatedSince(ctx, t0.Add(-50*time.Hour))
	require.NoError(t, err)
	assert.Len(t, points, 2)
}

func TestInquiryRepository_QuoteAndStatus(t *testing.T) {
	repo := NewInquiryRepository(newSQLiteDB(t))
	ctx := context.Background()
	inq := newInquiry("i-1", "Cashew", ptrFloat(120), t0)
	_, err := repo.Create(ctx, inq)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, "i-1")
	require.NoError(t, err)
	assert.Equal(t, entities.PriorityHigh, got.Priority)
	require.NotNil(t, got.EstimatedValue)
	assert.True(t, got.EstimatedValue.Equal(decimal.NewFromInt(180000)))
	require.NotNil(t, got.Quantity)
	assert.Equal(t, 120.0, *got.Quantity)
	assert.Nil(t, got.QuotedPrice)

	later := t0.Add(time.Hour)
	q := entities.NewQuotedPrice(decimal.NewFromInt(45000), "USD", 30, later)
	got, err = repo.SetQuote(ctx, "i-1", q, entities.InquiryStatusQuoted, entities.QuoteNote(q, 30, "u-1", later))
	require.NoError(t, err)
	assert.Equal(t, entities.InquiryStatusQuoted, got.Status)
	require.NotNil(t, got.QuotedPrice)
	assert.True(t, got.QuotedPrice.Amount.Equal(decimal.NewFromInt(45000)))
	assert.True(t, got.QuotedPrice.ValidUntil.Equal(later.AddDate(0, 0, 30)))
	require.Len(t, got.Notes, 1)
	assert.Equal(t, "Quote added: USD 45000 (valid for 30 days)", got.Notes[0].Content)

	got, err = repo.UpdateStatus(ctx, "i-1", entities.InquiryStatusConfirmed,
		entities.StatusChangeNote(entities.InquiryStatusQuoted, entities.InquiryStatusConfirmed, "", later))
	require.NoError(t, err)
	assert.Equal(t, entities.InquiryStatusConfirmed, got.Status)
	require.Len(t, got.Notes, 2)
	assert.Equal(t, "Status changed from quoted to confirmed", got.Notes[1].Content)

	vip := entities.CustomerTypeVIP
	value := decimal.NewFromInt(99000)
	got, err = repo.Update(ctx, "i-1", entities.InquiryPatch{CustomerType: &vip, EstimatedValue: &value}, later)
	require.NoError(t, err)
	assert.Equal(t, entities.CustomerTypeVIP, got.CustomerType)
	assert.True(t, got.EstimatedValue.Equal(value))

	missing, err := repo.SetQuote(ctx, "nope", q, entities.InquiryStatusQuoted, entities.QuoteNote(q, 30, "", later))
	require.NoError(t, err)
	assert.Equal(t, "", missing.ID)
}

func TestInquiryRepository_Aggregates(t *testing.T) {
	repo := NewInquiryRepository(newSQLiteDB(t))
	ctx := context.Background()
	seed := []entities.Inquiry{
		newInquiry("i-1", "Cashew", ptrFloat(100), t0.Add(-3*time.Hour)),
		newInquiry("i-2", "Cashew", ptrFloat(50), t0.Add(-2*time.Hour)),
		newInquiry("i-3", "Cashew", nil, t0.Add(-time.Hour)),
		newInquiry("i-4", "Ginger", ptrFloat(5), t0),
	}
	for _, i := range seed {
		_, err := repo.Create(ctx, i)
		require.NoError(t, err)
	}

	stats, err := repo.ProductStats(ctx, 10)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, entities.ProductStat{Product: "Cashew", Count: 3, TotalQuantity: 150, AvgQuantity: 75}, stats[0])
	assert.Equal(t, "Ginger", stats[1].Product)

	high, err := repo.CountHighPriorityOpen(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), high)

	total, err := repo.TotalEstimatedValue(ctx)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(232500)), total.String())

	n, err := repo.Count(ctx, entities.InquiryFilter{Product: "Cashew", Priority: entities.PriorityMedium})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	found, err := repo.Search(ctx, []string{"ginger"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "i-4", found[0].ID)

	points, err := repo.ListCreatedSince(ctx, t0.Add(-90*time.Minute))
	require.NoError(t, err)
	require.Len(t, points, 2)
	sum := decimal.Zero
	for _, p := range points {
		sum = sum.Add(p.EstimatedValue)
	}
	assert.True(t, sum.Equal(decimal.NewFromInt(7500)))
}

func TestInquiryRepository_TotalEstimatedValueEmpty(t *testing.T) {
	repo := NewInquiryRepository(newSQLiteDB(t))
	total, err := repo.TotalEstimatedValue(context.Background())
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestDirectoryAndCatalog(t *testing.T) {
	db := newSQLiteDB(t)
	ctx := context.Background()
	require.NoError(t, db.Create(&[]userRecord{{ID: "u-1", Name: "Ada", Email: "ada@example.com"}}).Error)
	require.NoError(t, db.Create(&[]productRecord{
		{ID: "p-1", Name: "Cashew W320", Category: "nuts"},
		{ID: "p-2", Name: "Cashew W240", Category: "nuts"},
		{ID: "p-3", Name: "Dry ginger", Category: "spices"},
	}).Error)
	require.NoError(t, db.Create(&blogPostRecord{ID: "b-1", Title: "Harvest"}).Error)

	users, err := NewUserDirectory(db).Lookup(ctx, []string{"u-1", "u-9"})
	require.NoError(t, err)
	assert.Equal(t, map[string]entities.UserRef{"u-1": {ID: "u-1", Name: "Ada", Email: "ada@example.com"}}, users)

	catalog := NewCatalogReader(db)
	products, err := catalog.CountProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), products)
	posts, err := catalog.CountBlogPosts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), posts)
	cats, err := catalog.ProductCategoryCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []entities.CategoryCount{{Category: "nuts", Count: 2}, {Category: "spices", Count: 1}}, cats)
}

func TestContactRepository_CountPropagatesDriverError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "contacts"`).WillReturnError(errors.New("conn reset"))

	_, err := NewContactRepository(db).Count(context.Background(), entities.ContactFilter{Status: entities.ContactStatusNew})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count contacts")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInquiryRepository_GetByIDPropagatesDriverError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "inquiries"`).WillReturnError(errors.New("conn reset"))

	_, err := NewInquiryRepository(db).GetByID(context.Background(), "i-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "get inquiry")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInquiryRepository_UpdateStatusMissingRowSkipsNote(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "inquiries"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	got, err := NewInquiryRepository(db).UpdateStatus(context.Background(), "i-1", entities.InquiryStatusShipped,
		entities.NewNote("Status changed from confirmed to shipped", "", t0))
	require.NoError(t, err)
	assert.Equal(t, "", got.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
