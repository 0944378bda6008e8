package stock

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/apperror"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/types"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain"
	"github.com/Lahiru-2000/inventory-management-system/pkg/logger"
)

type passTx struct{}

func (passTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRepo struct {
	rows        map[id.ID]*Stock
	adjustments []*Adjustment
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: make(map[id.ID]*Stock)}
}

func (f *fakeRepo) Init(ctx context.Context, itemID id.ID) error {
	f.rows[itemID] = &Stock{ItemID: itemID, UpdatedAt: time.Now()}
	return nil
}

func (f *fakeRepo) Get(ctx context.Context, itemID id.ID) (Stock, error) {
	row, ok := f.rows[itemID]
	if !ok {
		return Stock{}, apperror.NewNotFound("stock", itemID.String())
	}
	return *row, nil
}

func (f *fakeRepo) GetForUpdate(ctx context.Context, itemID id.ID) (Stock, error) {
	return f.Get(ctx, itemID)
}

func (f *fakeRepo) SetQuantity(ctx context.Context, itemID id.ID, quantity int) error {
	row, ok := f.rows[itemID]
	if !ok {
		return apperror.NewNotFound("stock", itemID.String())
	}
	row.Quantity = quantity
	row.UpdatedAt = time.Now()
	return nil
}

func (f *fakeRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[Stock], error) {
	result := domain.ListResult[Stock]{Limit: filter.Limit, Offset: filter.Offset}
	for _, row := range f.rows {
		result.Items = append(result.Items, *row)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

func (f *fakeRepo) ListLowStock(ctx context.Context) ([]Stock, error) {
	var low []Stock
	for _, row := range f.rows {
		if row.IsLow() {
			low = append(low, *row)
		}
	}
	return low, nil
}

func (f *fakeRepo) TotalValue(ctx context.Context) (types.Money, error) {
	return types.ZeroMoney(), nil
}

func (f *fakeRepo) CreateAdjustment(ctx context.Context, adj *Adjustment) error {
	f.adjustments = append(f.adjustments, adj)
	return nil
}

func (f *fakeRepo) ListAdjustments(ctx context.Context, filter AdjustmentFilter) (domain.ListResult[Adjustment], error) {
	result := domain.ListResult[Adjustment]{Limit: filter.Limit, Offset: filter.Offset}
	for _, adj := range f.adjustments {
		result.Items = append(result.Items, *adj)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

func newTestService() (*Service, *fakeRepo) {
	repo := newFakeRepo()
	return NewService(repo, passTx{}), repo
}

func TestInitItemCreatesZeroRow(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	itemID := id.New()

	require.NoError(t, svc.InitItem(ctx, itemID))

	row, err := svc.Get(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, 0, row.Quantity)
}

func TestIncrease(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	itemID := id.New()
	require.NoError(t, svc.InitItem(ctx, itemID))

	require.NoError(t, svc.Increase(ctx, itemID, 7))
	require.NoError(t, svc.Increase(ctx, itemID, 3))

	row, err := svc.Get(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, 10, row.Quantity)
}

func TestIncrease_RejectsNonPositive(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	err := svc.Increase(ctx, id.New(), 0)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	err = svc.Increase(ctx, id.New(), -5)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestDecrease(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	itemID := id.New()
	require.NoError(t, svc.InitItem(ctx, itemID))
	require.NoError(t, svc.Increase(ctx, itemID, 10))

	require.NoError(t, svc.Decrease(ctx, itemID, "Widget", 4))

	row, err := svc.Get(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, 6, row.Quantity)
}

func TestDecrease_InsufficientStockLeavesRowUntouched(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	itemID := id.New()
	require.NoError(t, svc.InitItem(ctx, itemID))
	require.NoError(t, svc.Increase(ctx, itemID, 3))

	err := svc.Decrease(ctx, itemID, "Widget", 5)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientStock))

	row, getErr := svc.Get(ctx, itemID)
	require.NoError(t, getErr)
	assert.Equal(t, 3, row.Quantity)
}

func TestAdjust(t *testing.T) {
	svc, repo := newTestService()
	itemID := id.New()
	ctx := logger.WithUser(context.Background(), "counter1")
	require.NoError(t, svc.InitItem(ctx, itemID))
	require.NoError(t, svc.Increase(ctx, itemID, 12))

	adj, err := svc.Adjust(ctx, AdjustRequest{
		ItemID:      itemID,
		NewQuantity: 9,
		Reason:      "cycle count",
	})
	require.NoError(t, err)

	assert.Equal(t, 12, adj.PreviousQuantity)
	assert.Equal(t, 9, adj.NewQuantity)
	assert.Equal(t, -3, adj.Delta)
	assert.Equal(t, "counter1", adj.AdjustedBy)
	assert.False(t, id.IsNil(adj.ID))

	row, err := svc.Get(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, 9, row.Quantity)

	require.Len(t, repo.adjustments, 1)
}

func TestAdjustment_SerializesDelta(t *testing.T) {
	svc, _ := newTestService()
	itemID := id.New()
	ctx := context.Background()
	require.NoError(t, svc.InitItem(ctx, itemID))
	require.NoError(t, svc.Increase(ctx, itemID, 12))

	adj, err := svc.Adjust(ctx, AdjustRequest{ItemID: itemID, NewQuantity: 9, Reason: "cycle count"})
	require.NoError(t, err)

	body, err := json.Marshal(adj)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"delta":-3`)
	assert.Contains(t, string(body), `"previousQuantity":12`)
	assert.Contains(t, string(body), `"newQuantity":9`)
}

func TestListAdjustments_FillsDelta(t *testing.T) {
	svc, _ := newTestService()
	itemID := id.New()
	ctx := context.Background()
	require.NoError(t, svc.InitItem(ctx, itemID))
	require.NoError(t, svc.Increase(ctx, itemID, 4))

	_, err := svc.Adjust(ctx, AdjustRequest{ItemID: itemID, NewQuantity: 10, Reason: "recount"})
	require.NoError(t, err)

	result, err := svc.ListAdjustments(ctx, AdjustmentFilter{})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, 6, result.Items[0].Delta)
}

func TestAdjust_RejectsNegativeQuantity(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	itemID := id.New()
	require.NoError(t, svc.InitItem(ctx, itemID))

	_, err := svc.Adjust(ctx, AdjustRequest{ItemID: itemID, NewQuantity: -1})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
	assert.Empty(t, repo.adjustments)
}

func TestAdjust_RequiresItem(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Adjust(context.Background(), AdjustRequest{NewQuantity: 5})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestAdjust_UnknownItem(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Adjust(context.Background(), AdjustRequest{ItemID: id.New(), NewQuantity: 5})
	require.Error(t, err)
}

func TestIsLow(t *testing.T) {
	assert.True(t, Stock{Quantity: 4, ReorderLevel: 5}.IsLow())
	assert.True(t, Stock{Quantity: 5, ReorderLevel: 5}.IsLow())
	assert.False(t, Stock{Quantity: 6, ReorderLevel: 5}.IsLow())
}
