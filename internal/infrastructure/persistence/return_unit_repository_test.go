package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/returnhub/backend/internal/domain/returns"
	"github.com/returnhub/backend/internal/domain/shared"
)

// setupUnitTestDB creates an in-memory SQLite database for testing
func setupUnitTestDB(t *testing.T) *GormUnitRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&returns.ReturnUnit{}))
	return NewGormUnitRepository(db)
}

func newTestUnit(t *testing.T, ncr, documentNo string) *returns.ReturnUnit {
	t.Helper()
	u, err := returns.NewReturnUnit(returns.NewReturnUnitInput{
		RefNo:       "R-3001",
		NCRNumber:   ncr,
		DocumentNo:  documentNo,
		Branch:      "Lat Phrao",
		ProductName: "Fish Oil 1000mg",
		ProductCode: "FO-1000",
		Quantity:    6,
		BillPrice:   decimal.NewFromInt(35),
		RecordDate:  time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	u.ClearDomainEvents()
	return u
}

func TestGormUnitRepository_SaveAndFindByID(t *testing.T) {
	ctx := context.Background()
	repo := setupUnitTestDB(t)

	unit := newTestUnit(t, "NCR-2026-0400", "")
	require.NoError(t, repo.Save(ctx, unit))

	found, err := repo.FindByID(ctx, unit.ID)
	require.NoError(t, err)
	assert.Equal(t, unit.ID, found.ID)
	assert.Equal(t, "NCR-2026-0400", found.NCRNumber)
	assert.Equal(t, returns.StatusRequested, found.Status)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormUnitRepository_CanonicalizesLegacyStatus(t *testing.T) {
	ctx := context.Background()
	repo := setupUnitTestDB(t)

	unit := newTestUnit(t, "NCR-2026-0401", "")
	require.NoError(t, repo.Save(ctx, unit))

	// Rows written by older releases carry channel-prefixed aliases
	require.NoError(t, repo.db.Model(&returns.ReturnUnit{}).
		Where("id = ?", unit.ID).
		Update("status", "NCR_ReceivedAtHub").Error)

	found, err := repo.FindByID(ctx, unit.ID)
	require.NoError(t, err)
	assert.Equal(t, returns.StatusHubReceived, found.Status)
}

func TestGormUnitRepository_FindByGroupKey(t *testing.T) {
	ctx := context.Background()
	repo := setupUnitTestDB(t)

	a := newTestUnit(t, "", "DOC-77")
	b := newTestUnit(t, "", " doc-77 ")
	c := newTestUnit(t, "", "DOC-78")
	for _, u := range []*returns.ReturnUnit{a, b, c} {
		require.NoError(t, repo.Save(ctx, u))
	}

	units, err := repo.FindByGroupKey(ctx, "Doc-77")
	require.NoError(t, err)
	require.Len(t, units, 2)

	units, err = repo.FindByGroupKey(ctx, "doc-99")
	require.NoError(t, err)
	assert.Empty(t, units)
}

func TestGormUnitRepository_FindByGroupKey_RawIDFallback(t *testing.T) {
	ctx := context.Background()
	repo := setupUnitTestDB(t)

	// No document, collection or NCR identifiers: the group key falls
	// back to the raw unit id.
	unit := newTestUnit(t, "", "")
	require.NoError(t, repo.Save(ctx, unit))

	units, err := repo.FindByGroupKey(ctx, unit.ID.String())
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, unit.ID, units[0].ID)
}

func TestGormUnitRepository_SaveWithLock(t *testing.T) {
	ctx := context.Background()

	t.Run("increments the version on save", func(t *testing.T) {
		repo := setupUnitTestDB(t)
		unit := newTestUnit(t, "NCR-2026-0402", "")
		require.NoError(t, repo.Save(ctx, unit))

		unit.Notes = "counted at the hub"
		require.NoError(t, repo.SaveWithLock(ctx, unit))
		assert.Equal(t, 2, unit.Version)

		found, err := repo.FindByID(ctx, unit.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, found.Version)
		assert.Equal(t, "counted at the hub", found.Notes)
	})

	t.Run("rejects a stale version", func(t *testing.T) {
		repo := setupUnitTestDB(t)
		unit := newTestUnit(t, "NCR-2026-0403", "")
		require.NoError(t, repo.Save(ctx, unit))

		stale := *unit
		require.NoError(t, repo.SaveWithLock(ctx, unit))

		err := repo.SaveWithLock(ctx, &stale)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})

	t.Run("reports a deleted unit as not found", func(t *testing.T) {
		repo := setupUnitTestDB(t)
		unit := newTestUnit(t, "NCR-2026-0406", "")
		require.NoError(t, repo.Save(ctx, unit))
		require.NoError(t, repo.Delete(ctx, unit.ID))

		err := repo.SaveWithLock(ctx, unit)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormUnitRepository_DeleteByIDs(t *testing.T) {
	ctx := context.Background()
	repo := setupUnitTestDB(t)

	a := newTestUnit(t, "", "DOC-80")
	b := newTestUnit(t, "", "DOC-80")
	require.NoError(t, repo.Save(ctx, a))
	require.NoError(t, repo.Save(ctx, b))

	deleted, err := repo.DeleteByIDs(ctx, []uuid.UUID{a.ID, b.ID, uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	deleted, err = repo.DeleteByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestGormUnitRepository_CountByStatus(t *testing.T) {
	ctx := context.Background()
	repo := setupUnitTestDB(t)

	a := newTestUnit(t, "NCR-2026-0404", "")
	b := newTestUnit(t, "NCR-2026-0405", "")
	c := newTestUnit(t, "", "DOC-81")
	for _, u := range []*returns.ReturnUnit{a, b, c} {
		require.NoError(t, repo.Save(ctx, u))
	}

	// Fold a legacy alias into its canonical bucket
	require.NoError(t, repo.db.Model(&returns.ReturnUnit{}).
		Where("id = ?", b.ID).
		Update("status", "NCR_Requested").Error)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts[returns.StatusRequested])
}

func TestGormUnitRepository_NextNCRNumber(t *testing.T) {
	ctx := context.Background()
	repo := setupUnitTestDB(t)

	number, err := repo.NextNCRNumber(ctx, 2026)
	require.NoError(t, err)
	assert.Equal(t, "NCR-2026-0001", number)

	unit := newTestUnit(t, "NCR-2026-0041", "")
	require.NoError(t, repo.Save(ctx, unit))

	number, err = repo.NextNCRNumber(ctx, 2026)
	require.NoError(t, err)
	assert.Equal(t, "NCR-2026-0042", number)

	// The sequence restarts for a new year
	number, err = repo.NextNCRNumber(ctx, 2027)
	require.NoError(t, err)
	assert.Equal(t, "NCR-2027-0001", number)
}

// newMockUnitRepository creates a GormUnitRepository with a mocked SQL connection
func newMockUnitRepository(t *testing.T) (*GormUnitRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormUnitRepository(gormDB), mock, mockDB
}

func TestGormUnitRepository_FindAll_Search(t *testing.T) {
	repo, mock, mockDB := newMockUnitRepository(t)
	defer mockDB.Close()

	rows := sqlmock.NewRows([]string{"id", "ref_no", "ncr_number", "branch", "product_name", "quantity", "status", "version"}).
		AddRow(uuid.New(), "R-3001", "NCR-2026-0400", "Lat Phrao", "Fish Oil 1000mg", 6, "Requested", 1)

	mock.ExpectQuery(`SELECT \* FROM "return_units" WHERE .*ILIKE .* ORDER BY record_date DESC`).
		WillReturnRows(rows)

	units, err := repo.FindAll(context.Background(), shared.Filter{Search: "fish"})
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "NCR-2026-0400", units[0].NCRNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The id column is a uuid; binding a document or NCR key against it would
// make postgres reject the whole group query with an invalid-uuid error.
func TestGormUnitRepository_FindByGroupKey_UUIDColumnBinding(t *testing.T) {
	columns := []string{"id", "document_no", "status", "version"}

	t.Run("plain keys never touch the id column", func(t *testing.T) {
		repo, mock, mockDB := newMockUnitRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "return_units" WHERE .*LIKE.* ORDER BY record_date DESC`).
			WithArgs("%r-1001%", "%r-1001%", "%r-1001%").
			WillReturnRows(sqlmock.NewRows(columns))

		_, err := repo.FindByGroupKey(context.Background(), "R-1001")
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("uuid keys also match the raw id", func(t *testing.T) {
		repo, mock, mockDB := newMockUnitRepository(t)
		defer mockDB.Close()

		id := uuid.New()
		key := id.String()
		mock.ExpectQuery(`SELECT \* FROM "return_units" WHERE .*OR id = .* ORDER BY record_date DESC`).
			WithArgs("%"+key+"%", "%"+key+"%", "%"+key+"%", key).
			WillReturnRows(sqlmock.NewRows(columns))

		_, err := repo.FindByGroupKey(context.Background(), key)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
