package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"medfind/internal/models"
	"medfind/internal/repositories"
	"medfind/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type searchFixture struct {
	svc       *services.SearchService
	stores    *repositories.MockStoreRepository
	medicines *repositories.MockMedicineRepository
}

func newSearchFixture() *searchFixture {
	stores := repositories.NewMockStoreRepository()
	medicines := repositories.NewMockMedicineRepository()
	return &searchFixture{
		svc:       services.NewSearchService(stores, medicines),
		stores:    stores,
		medicines: medicines,
	}
}

func (f *searchFixture) store(t *testing.T, name, pincode string) *models.Store {
	t.Helper()
	s := &models.Store{Name: name, Email: name + "@example.com", Pincode: pincode, City: "Hyderabad"}
	require.NoError(t, f.stores.Create(context.Background(), s))
	time.Sleep(time.Millisecond)
	return s
}

func (f *searchFixture) medicine(t *testing.T, storeID, name string, status models.Status, updated time.Time) *models.Medicine {
	t.Helper()
	m := &models.Medicine{StoreID: storeID, Name: name, Quantity: 20, Status: status, Version: 1, UpdatedAt: updated, LastUpdated: updated}
	require.NoError(t, f.medicines.Create(context.Background(), m))
	return m
}

func TestSearchService_OnlyStoresInPincode(t *testing.T) {
	f := newSearchFixture()
	ctx := context.Background()
	now := time.Now()

	a := f.store(t, "Store A", "500001")
	b := f.store(t, "Store B", "500002")
	f.medicine(t, a.ID, "Paracetamol 650", models.StatusInStock, now)
	f.medicine(t, b.ID, "Paracetamol", models.StatusInStock, now)

	res, err := f.svc.Search(ctx, "para", "500001")
	require.NoError(t, err)
	assert.Equal(t, services.SearchQuery{MedicineName: "para", Pincode: "500001"}, res.Query)
	assert.Equal(t, 1, res.ResultsCount)
	require.Len(t, res.Stores, 1)
	assert.Equal(t, a.ID, res.Stores[0].StoreID)
	assert.Equal(t, "Store A", res.Stores[0].StoreName)
	assert.Equal(t, "Hyderabad", res.Stores[0].City)
	require.Len(t, res.Stores[0].Medicines, 1)
	assert.Equal(t, "Paracetamol 650", res.Stores[0].Medicines[0].Name)

	// Case-insensitive, with surrounding whitespace trimmed.
	res, err = f.svc.Search(ctx, "  PARACETAMOL ", " 500002 ")
	require.NoError(t, err)
	assert.Equal(t, "PARACETAMOL", res.Query.MedicineName)
	require.Len(t, res.Stores, 1)
	assert.Equal(t, b.ID, res.Stores[0].StoreID)
}

func TestSearchService_UnknownPincode(t *testing.T) {
	f := newSearchFixture()
	a := f.store(t, "Store A", "500001")
	f.medicine(t, a.ID, "Paracetamol", models.StatusInStock, time.Now())

	res, err := f.svc.Search(context.Background(), "para", "999999")
	require.NoError(t, err)
	assert.Equal(t, 0, res.ResultsCount)
	assert.NotNil(t, res.Stores)
	assert.Empty(t, res.Stores)

	// A pincode with stores but no match is also empty.
	res, err = f.svc.Search(context.Background(), "ibuprofen", "500001")
	require.NoError(t, err)
	assert.Equal(t, 0, res.ResultsCount)
	assert.NotNil(t, res.Stores)
}

func TestSearchService_RequiresParameters(t *testing.T) {
	f := newSearchFixture()
	for _, tc := range [][2]string{{"", "500001"}, {"para", ""}, {"   ", "500001"}, {"para", "  "}} {
		_, err := f.svc.Search(context.Background(), tc[0], tc[1])
		assert.ErrorIs(t, err, services.ErrValidation)
		assert.EqualError(t, err, "medicineName and pincode query parameters are required")
	}
}

func TestSearchService_OrdersByStatusThenRecency(t *testing.T) {
	f := newSearchFixture()
	now := time.Now()

	a := f.store(t, "Store A", "500001")
	b := f.store(t, "Store B", "500001")
	outA := f.medicine(t, a.ID, "Paracetamol Syrup", models.StatusOutOfStock, now)
	lowB := f.medicine(t, b.ID, "Paracetamol 500", models.StatusLowStock, now.Add(-time.Hour))
	inOldA := f.medicine(t, a.ID, "Paracetamol 650", models.StatusInStock, now.Add(-2*time.Hour))
	inNewB := f.medicine(t, b.ID, "Paracetamol Drops", models.StatusInStock, now.Add(-time.Minute))

	res, err := f.svc.Search(context.Background(), "paracetamol", "500001")
	require.NoError(t, err)
	assert.Equal(t, 2, res.ResultsCount)
	require.Len(t, res.Stores, 2)

	// Store B holds the best match, so it comes first.
	assert.Equal(t, b.ID, res.Stores[0].StoreID)
	assert.Equal(t, []string{inNewB.ID, lowB.ID}, medicineIDs(res.Stores[0]))
	assert.Equal(t, a.ID, res.Stores[1].StoreID)
	assert.Equal(t, []string{inOldA.ID, outA.ID}, medicineIDs(res.Stores[1]))
}

func TestSearchService_MatchesGenericNameAndBrand(t *testing.T) {
	f := newSearchFixture()
	ctx := context.Background()
	a := f.store(t, "Store A", "500001")

	require.NoError(t, f.medicines.Create(ctx, &models.Medicine{
		StoreID: a.ID, Name: "Dolo 650", GenericName: "Paracetamol", Brand: "Micro Labs", Status: models.StatusInStock,
	}))
	require.NoError(t, f.medicines.Create(ctx, &models.Medicine{
		StoreID: a.ID, Name: "Crocin", Brand: "GSK", Status: models.StatusInStock,
	}))

	res, err := f.svc.Search(ctx, "paracet", "500001")
	require.NoError(t, err)
	require.Len(t, res.Stores, 1)
	require.Len(t, res.Stores[0].Medicines, 1)
	assert.Equal(t, "Dolo 650", res.Stores[0].Medicines[0].Name)

	res, err = f.svc.Search(ctx, "gsk", "500001")
	require.NoError(t, err)
	require.Len(t, res.Stores, 1)
	assert.Equal(t, "Crocin", res.Stores[0].Medicines[0].Name)
}

func TestSearchService_MetacharactersAreLiteral(t *testing.T) {
	f := newSearchFixture()
	now := time.Now()
	a := f.store(t, "Store A", "500001")
	f.medicine(t, a.ID, "Dextrose 5% Solution", models.StatusInStock, now)
	f.medicine(t, a.ID, "Dextrose 50 Solution", models.StatusInStock, now)

	res, err := f.svc.Search(context.Background(), "5%", "500001")
	require.NoError(t, err)
	require.Len(t, res.Stores, 1)
	require.Len(t, res.Stores[0].Medicines, 1)
	assert.Equal(t, "Dextrose 5% Solution", res.Stores[0].Medicines[0].Name)
}

func TestSearchService_CaseInsensitiveBeyondASCII(t *testing.T) {
	f := newSearchFixture()
	a := f.store(t, "Apotheke", "10115")
	f.medicine(t, a.ID, "ÄSPIRIN Forte", models.StatusInStock, time.Now())

	res, err := f.svc.Search(context.Background(), "äspirin", "10115")
	require.NoError(t, err)
	require.Len(t, res.Stores, 1)
	assert.Equal(t, "ÄSPIRIN Forte", res.Stores[0].Medicines[0].Name)
}

func TestSearchService_RepositoryFailure(t *testing.T) {
	stores := new(MockStoreRepository)
	svc := services.NewSearchService(stores, repositories.NewMockMedicineRepository())

	stores.On("ListByPincode", mock.Anything, "500001").Return([]models.Store(nil), errors.New("db down")).Once()
	_, err := svc.Search(context.Background(), "para", "500001")
	require.Error(t, err)
	assert.NotErrorIs(t, err, services.ErrValidation)
	stores.AssertExpectations(t)
}

func medicineIDs(s services.StoreSearchResult) []string {
	ids := make([]string, 0, len(s.Medicines))
	for _, m := range s.Medicines {
		ids = append(ids, m.ID)
	}
	return ids
}
