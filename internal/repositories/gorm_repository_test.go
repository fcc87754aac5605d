package repositories_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"medfind/internal/database"
	"medfind/internal/models"
	"medfind/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupDB opens a private in-memory sqlite database with the schema migrated.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newMedicine(storeID, name string, status models.Status, updated time.Time) *models.Medicine {
	return &models.Medicine{
		StoreID:     storeID,
		Name:        name,
		Quantity:    20,
		Price:       decimal.RequireFromString("9.99"),
		Status:      status,
		Version:     1,
		LastUpdated: updated,
		UpdatedAt:   updated,
	}
}

func TestGORMMedicineRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMMedicineRepository(setupDB(t))

	m := newMedicine("store-a", "Paracetamol", models.StatusInStock, time.Now())
	require.NoError(t, repo.Create(ctx, m))
	require.NotEmpty(t, m.ID)

	got, err := repo.GetByID(ctx, "store-a", m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Paracetamol", got.Name)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("9.99")))
	assert.Equal(t, 1, got.Version)

	_, err = repo.GetByID(ctx, "store-b", m.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	got.Quantity = 3
	got.Status = models.StatusLowStock
	got.Version = 2
	require.NoError(t, repo.Update(ctx, "store-a", got, 1))

	reloaded, err := repo.GetByID(ctx, "store-a", m.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.Quantity)
	assert.Equal(t, models.StatusLowStock, reloaded.Status)
	assert.Equal(t, 2, reloaded.Version)

	assert.ErrorIs(t, repo.Delete(ctx, "store-b", m.ID), repositories.ErrNotFound)
	require.NoError(t, repo.Delete(ctx, "store-a", m.ID))
	assert.ErrorIs(t, repo.Delete(ctx, "store-a", m.ID), repositories.ErrNotFound)
}

func TestGORMMedicineRepository_UpdateGuards(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMMedicineRepository(setupDB(t))

	m := newMedicine("store-a", "Paracetamol", models.StatusInStock, time.Now())
	require.NoError(t, repo.Create(ctx, m))

	stale := *m
	stale.Quantity = 1
	stale.Version = 6
	assert.ErrorIs(t, repo.Update(ctx, "store-a", &stale, 5), repositories.ErrStaleVersion)

	// Another store gets not found, never a version hint.
	foreign := *m
	foreign.Version = 2
	assert.ErrorIs(t, repo.Update(ctx, "store-b", &foreign, 1), repositories.ErrNotFound)

	missing := newMedicine("store-a", "Ghost", models.StatusInStock, time.Now())
	missing.ID = uuid.New().String()
	assert.ErrorIs(t, repo.Update(ctx, "store-a", missing, 1), repositories.ErrNotFound)

	got, err := repo.GetByID(ctx, "store-a", m.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, got.Quantity)
	assert.Equal(t, 1, got.Version)
}

func TestGORMMedicineRepository_ListByStore(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMMedicineRepository(setupDB(t))
	now := time.Now()

	older := newMedicine("store-a", "Older", models.StatusInStock, now.Add(-time.Hour))
	newer := newMedicine("store-a", "Newer", models.StatusInStock, now)
	other := newMedicine("store-b", "Other", models.StatusInStock, now)
	for _, m := range []*models.Medicine{older, newer, other} {
		require.NoError(t, repo.Create(ctx, m))
	}

	list, err := repo.ListByStore(ctx, "store-a", repositories.Page{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)

	page, err := repo.ListByStore(ctx, "store-a", repositories.Page{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, older.ID, page[0].ID)

	empty, err := repo.ListByStore(ctx, "store-c", repositories.Page{})
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestGORMMedicineRepository_SearchInStores(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMMedicineRepository(setupDB(t))
	now := time.Now()

	out := newMedicine("store-a", "Paracetamol Syrup", models.StatusOutOfStock, now)
	low := newMedicine("store-b", "Paracetamol 500", models.StatusLowStock, now)
	inOld := newMedicine("store-a", "Paracetamol 650", models.StatusInStock, now.Add(-2*time.Hour))
	inNew := newMedicine("store-b", "PARACETAMOL Drops", models.StatusInStock, now.Add(-time.Minute))
	generic := newMedicine("store-a", "Dolo 650", models.StatusInStock, now.Add(-3*time.Hour))
	generic.GenericName = "paracetamol"
	elsewhere := newMedicine("store-c", "Paracetamol", models.StatusInStock, now)
	for _, m := range []*models.Medicine{out, low, inOld, inNew, generic, elsewhere} {
		require.NoError(t, repo.Create(ctx, m))
	}

	list, err := repo.SearchInStores(ctx, []string{"store-a", "store-b"}, "Paracetamol")
	require.NoError(t, err)
	ids := make([]string, 0, len(list))
	for _, m := range list {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{inNew.ID, inOld.ID, generic.ID, low.ID, out.ID}, ids)

	none, err := repo.SearchInStores(ctx, nil, "Paracetamol")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGORMMedicineRepository_SearchFoldsNonASCII(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMMedicineRepository(setupDB(t))
	memory := repositories.NewMockMedicineRepository()

	aspirin := newMedicine("store-a", "ÄSPIRIN Forte", models.StatusInStock, time.Now())
	require.NoError(t, repo.Create(ctx, aspirin))
	require.NoError(t, memory.Create(ctx, newMedicine("store-a", "ÄSPIRIN Forte", models.StatusInStock, time.Now())))

	for _, query := range []string{"äspirin", "ÄSPIRIN", "Äspirin forte"} {
		list, err := repo.SearchInStores(ctx, []string{"store-a"}, query)
		require.NoError(t, err)
		require.Len(t, list, 1, query)
		assert.Equal(t, aspirin.ID, list[0].ID)

		inMemory, err := memory.SearchInStores(ctx, []string{"store-a"}, query)
		require.NoError(t, err)
		assert.Len(t, inMemory, 1, query)
	}

	// A rename through Update refreshes what search matches.
	aspirin.Name = "Ömeprazol"
	aspirin.Version = 2
	require.NoError(t, repo.Update(ctx, "store-a", aspirin, 1))

	list, err := repo.SearchInStores(ctx, []string{"store-a"}, "äspirin")
	require.NoError(t, err)
	assert.Empty(t, list)
	list, err = repo.SearchInStores(ctx, []string{"store-a"}, "ömepra")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestMigrate_BackfillsSearchText(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	repo := repositories.NewGORMMedicineRepository(db)

	m := newMedicine("store-a", "Ibuprofen", models.StatusInStock, time.Now())
	m.Brand = "Brufen"
	require.NoError(t, repo.Create(ctx, m))
	// Simulate a row written before the search column existed.
	require.NoError(t, db.Model(&models.Medicine{}).Where("id = ?", m.ID).UpdateColumn("search_text", "").Error)

	list, err := repo.SearchInStores(ctx, []string{"store-a"}, "brufen")
	require.NoError(t, err)
	require.Empty(t, list)

	require.NoError(t, database.Migrate(db))

	list, err = repo.SearchInStores(ctx, []string{"store-a"}, "brufen")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, m.ID, list[0].ID)
}

func TestGORMMedicineRepository_SearchEscapesWildcards(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMMedicineRepository(setupDB(t))
	now := time.Now()

	percent := newMedicine("store-a", "Dextrose 5% Solution", models.StatusInStock, now)
	plain := newMedicine("store-a", "Dextrose 50 Solution", models.StatusInStock, now)
	underscore := newMedicine("store-a", "Vit_D3", models.StatusInStock, now)
	lookalike := newMedicine("store-a", "VitaD3", models.StatusInStock, now)
	for _, m := range []*models.Medicine{percent, plain, underscore, lookalike} {
		require.NoError(t, repo.Create(ctx, m))
	}

	list, err := repo.SearchInStores(ctx, []string{"store-a"}, "5%")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, percent.ID, list[0].ID)

	list, err = repo.SearchInStores(ctx, []string{"store-a"}, "t_d")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, underscore.ID, list[0].ID)

	list, err = repo.SearchInStores(ctx, []string{"store-a"}, "%")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestGORMStoreRepository(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMStoreRepository(setupDB(t))

	first := &models.Store{Name: "Store A", Email: "a@example.com", Password: "hash", Pincode: "500001"}
	require.NoError(t, repo.Create(ctx, first))
	require.NotEmpty(t, first.ID)
	time.Sleep(2 * time.Millisecond)
	second := &models.Store{Name: "Store B", Email: "b@example.com", Password: "hash", Pincode: "500001"}
	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, &models.Store{Name: "Store C", Email: "c@example.com", Password: "hash", Pincode: "500002"}))

	dup := &models.Store{Name: "Again", Email: "a@example.com", Password: "hash", Pincode: "500003"}
	assert.ErrorIs(t, repo.Create(ctx, dup), repositories.ErrDuplicateEmail)

	got, err := repo.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "hash", got.Password)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	got, err = repo.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "Store B", got.Name)

	_, err = repo.GetByID(ctx, uuid.New().String())
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	stores, err := repo.ListByPincode(ctx, "500001")
	require.NoError(t, err)
	require.Len(t, stores, 2)
	assert.Equal(t, first.ID, stores[0].ID)
	assert.Equal(t, second.ID, stores[1].ID)

	stores, err = repo.ListByPincode(ctx, "999999")
	require.NoError(t, err)
	assert.Empty(t, stores)
}
