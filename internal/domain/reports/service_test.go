package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/apperror"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/types"
)

type fakeRepo struct {
	histories map[id.ID]*SupplierPurchaseHistory
	dashboard *Dashboard
	dashHits  int
}

func (f *fakeRepo) GetSalesReport(ctx context.Context, filter SalesReportFilter) (*SalesReport, error) {
	return &SalesReport{FromDate: filter.FromDate, ToDate: filter.ToDate, TotalRevenue: types.ZeroMoney()}, nil
}

func (f *fakeRepo) GetPurchaseReport(ctx context.Context, filter PurchaseReportFilter) (*PurchaseReport, error) {
	return &PurchaseReport{FromDate: filter.FromDate, ToDate: filter.ToDate}, nil
}

func (f *fakeRepo) GetSupplierPurchaseHistory(ctx context.Context, supplierID id.ID) (*SupplierPurchaseHistory, error) {
	history, ok := f.histories[supplierID]
	if !ok {
		return nil, apperror.NewNotFound("supplier", supplierID.String())
	}
	return history, nil
}

func (f *fakeRepo) GetLowStockReport(ctx context.Context) (*LowStockReport, error) {
	return &LowStockReport{}, nil
}

func (f *fakeRepo) GetDashboard(ctx context.Context, recentLimit int) (*Dashboard, error) {
	f.dashHits++
	return f.dashboard, nil
}

func TestGetSupplierPurchaseHistory(t *testing.T) {
	supplierID := id.New()
	repo := &fakeRepo{histories: map[id.ID]*SupplierPurchaseHistory{
		supplierID: {
			SupplierID:   supplierID,
			SupplierName: "Acme Supplies",
			Items: []SupplierPurchaseHistoryEntry{
				{Number: "PO-20250702-00002", Date: time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC), Status: "APPROVED", TotalAmount: types.MoneyFromFloat(40)},
				{Number: "PO-20250601-00001", Date: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), Status: "REJECTED", TotalAmount: types.MoneyFromFloat(15)},
			},
			TotalOrders: 2,
		},
	}}
	svc := NewService(repo, nil)

	history, err := svc.GetSupplierPurchaseHistory(context.Background(), supplierID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Supplies", history.SupplierName)
	require.Len(t, history.Items, 2)
	assert.Equal(t, "PO-20250702-00002", history.Items[0].Number)
	assert.Equal(t, "APPROVED", history.Items[0].Status)
	assert.Equal(t, 2, history.TotalOrders)
}

func TestGetSupplierPurchaseHistory_UnknownSupplier(t *testing.T) {
	svc := NewService(&fakeRepo{histories: map[id.ID]*SupplierPurchaseHistory{}}, nil)

	_, err := svc.GetSupplierPurchaseHistory(context.Background(), id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestGetSupplierPurchaseHistory_RequiresSupplier(t *testing.T) {
	svc := NewService(&fakeRepo{}, nil)

	_, err := svc.GetSupplierPurchaseHistory(context.Background(), id.Nil())
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestGetSalesReport_RejectsInvertedPeriod(t *testing.T) {
	svc := NewService(&fakeRepo{}, nil)

	from := time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.GetSalesReport(context.Background(), SalesReportFilter{FromDate: from, ToDate: to})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestGetDashboard_CacheShortCircuits(t *testing.T) {
	repo := &fakeRepo{dashboard: &Dashboard{TotalItems: 3, TotalStockValue: types.ZeroMoney()}}
	svc := NewService(repo, newMemCache())

	first, err := svc.GetDashboard(context.Background())
	require.NoError(t, err)
	second, err := svc.GetDashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.dashHits)
}

type memCache struct {
	dashboard *Dashboard
}

func newMemCache() *memCache { return &memCache{} }

func (c *memCache) Get() (*Dashboard, bool) {
	return c.dashboard, c.dashboard != nil
}

func (c *memCache) Set(dashboard *Dashboard) { c.dashboard = dashboard }
