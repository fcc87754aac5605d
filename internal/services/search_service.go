package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"medfind/internal/models"
	"medfind/internal/repositories"

	"github.com/shopspring/decimal"
)

// SearchQuery echoes the normalized search parameters.
type SearchQuery struct {
	MedicineName string `json:"medicineName"`
	Pincode      string `json:"pincode"`
}

// SearchMedicine is the public view of a matched medicine.
type SearchMedicine struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	GenericName string          `json:"genericName,omitempty"`
	Brand       string          `json:"brand,omitempty"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Status      models.Status   `json:"status"`
	LastUpdated time.Time       `json:"lastUpdated"`
}

// StoreSearchResult groups the matches of one store with its contact details.
type StoreSearchResult struct {
	StoreID     string           `json:"storeId"`
	StoreName   string           `json:"storeName"`
	Phone       string           `json:"phone,omitempty"`
	AddressLine string           `json:"addressLine,omitempty"`
	City        string           `json:"city,omitempty"`
	State       string           `json:"state,omitempty"`
	Pincode     string           `json:"pincode"`
	Medicines   []SearchMedicine `json:"medicines"`
}

// SearchResult is the grouped outcome of a public search.
type SearchResult struct {
	Query        SearchQuery         `json:"query"`
	ResultsCount int                 `json:"resultsCount"`
	Stores       []StoreSearchResult `json:"stores"`
}

// SearchService answers public medicine searches across the stores of a pincode.
type SearchService struct {
	stores    repositories.StoreRepository
	medicines repositories.MedicineRepository
}

// NewSearchService creates a new SearchService.
func NewSearchService(stores repositories.StoreRepository, medicines repositories.MedicineRepository) *SearchService {
	return &SearchService{
		stores:    stores,
		medicines: medicines,
	}
}

// Search finds medicines matching medicineName in the stores registered under pincode.
// Stores appear in the order of their first matching medicine.
func (s *SearchService) Search(ctx context.Context, medicineName, pincode string) (*SearchResult, error) {
	query := SearchQuery{
		MedicineName: strings.TrimSpace(medicineName),
		Pincode:      strings.TrimSpace(pincode),
	}
	if query.MedicineName == "" || query.Pincode == "" {
		return nil, validationError("medicineName and pincode query parameters are required")
	}
	result := &SearchResult{Query: query, Stores: []StoreSearchResult{}}

	stores, err := s.stores.ListByPincode(ctx, query.Pincode)
	if err != nil {
		return nil, fmt.Errorf("search stores: %w", err)
	}
	if len(stores) == 0 {
		return result, nil
	}

	byID := make(map[string]models.Store, len(stores))
	ids := make([]string, 0, len(stores))
	for _, st := range stores {
		byID[st.ID] = st
		ids = append(ids, st.ID)
	}

	medicines, err := s.medicines.SearchInStores(ctx, ids, query.MedicineName)
	if err != nil {
		return nil, fmt.Errorf("search medicines: %w", err)
	}

	position := make(map[string]int)
	for _, m := range medicines {
		idx, seen := position[m.StoreID]
		if !seen {
			st, ok := byID[m.StoreID]
			if !ok {
				continue
			}
			idx = len(result.Stores)
			position[m.StoreID] = idx
			result.Stores = append(result.Stores, StoreSearchResult{
				StoreID:     st.ID,
				StoreName:   st.Name,
				Phone:       st.Phone,
				AddressLine: st.AddressLine,
				City:        st.City,
				State:       st.State,
				Pincode:     st.Pincode,
				Medicines:   []SearchMedicine{},
			})
		}
		result.Stores[idx].Medicines = append(result.Stores[idx].Medicines, SearchMedicine{
			ID:          m.ID,
			Name:        m.Name,
			GenericName: m.GenericName,
			Brand:       m.Brand,
			Quantity:    m.Quantity,
			Price:       m.Price,
			Status:      m.Status,
			LastUpdated: m.LastUpdated,
		})
	}
	result.ResultsCount = len(result.Stores)
	return result, nil
}
