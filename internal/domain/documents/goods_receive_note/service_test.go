package goods_receive_note

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/apperror"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/types"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/catalogs/item"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/documents/purchase_order"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/registers/stock"
	"github.com/Lahiru-2000/inventory-management-system/pkg/numerator"
)

type passTx struct{}

func (passTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type seqRow struct{ val int64 }

func (r seqRow) Scan(dest ...any) error {
	if ptr, ok := dest[0].(*int64); ok {
		*ptr = r.val
	}
	return nil
}

type seqQuerier struct{ current int64 }

func (q *seqQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	q.current++
	return seqRow{val: q.current}
}

type fakeRepo struct {
	docs  map[id.ID]*GoodsReceiveNote
	lines map[id.ID][]Line
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		docs:  make(map[id.ID]*GoodsReceiveNote),
		lines: make(map[id.ID][]Line),
	}
}

func (f *fakeRepo) Create(ctx context.Context, doc *GoodsReceiveNote) error {
	copied := *doc
	f.docs[doc.ID] = &copied
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, docID id.ID) (*GoodsReceiveNote, error) {
	doc, ok := f.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("goods receive note", docID.String())
	}
	copied := *doc
	return &copied, nil
}

func (f *fakeRepo) GetByNumber(ctx context.Context, number string) (*GoodsReceiveNote, error) {
	for _, doc := range f.docs {
		if doc.Number == number {
			copied := *doc
			return &copied, nil
		}
	}
	return nil, apperror.NewNotFound("goods receive note", number)
}

func (f *fakeRepo) GetLines(ctx context.Context, docID id.ID) ([]Line, error) {
	return f.lines[docID], nil
}

func (f *fakeRepo) SaveLines(ctx context.Context, docID id.ID, lines []Line) error {
	copied := make([]Line, len(lines))
	copy(copied, lines)
	f.lines[docID] = copied
	return nil
}

func (f *fakeRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*GoodsReceiveNote], error) {
	result := domain.ListResult[*GoodsReceiveNote]{Limit: filter.Limit, Offset: filter.Offset}
	for _, doc := range f.docs {
		result.Items = append(result.Items, doc)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

type fakeOrderRepo struct {
	purchase_order.Repository
	docs  map[id.ID]*purchase_order.PurchaseOrder
	lines map[id.ID][]purchase_order.Line
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, docID id.ID) (*purchase_order.PurchaseOrder, error) {
	doc, ok := f.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("purchase order", docID.String())
	}
	return doc, nil
}

func (f *fakeOrderRepo) GetLines(ctx context.Context, docID id.ID) ([]purchase_order.Line, error) {
	return f.lines[docID], nil
}

type fakeItemRepo struct {
	item.Repository
	items map[id.ID]*item.Item
}

func (f *fakeItemRepo) GetByID(ctx context.Context, itemID id.ID) (*item.Item, error) {
	it, ok := f.items[itemID]
	if !ok {
		return nil, apperror.NewNotFound("item", itemID.String())
	}
	return it, nil
}

type fakeStockRepo struct {
	rows map[id.ID]*stock.Stock
}

func (f *fakeStockRepo) Init(ctx context.Context, itemID id.ID) error {
	f.rows[itemID] = &stock.Stock{ItemID: itemID}
	return nil
}

func (f *fakeStockRepo) Get(ctx context.Context, itemID id.ID) (stock.Stock, error) {
	row, ok := f.rows[itemID]
	if !ok {
		return stock.Stock{}, apperror.NewNotFound("stock", itemID.String())
	}
	return *row, nil
}

func (f *fakeStockRepo) GetForUpdate(ctx context.Context, itemID id.ID) (stock.Stock, error) {
	return f.Get(ctx, itemID)
}

func (f *fakeStockRepo) SetQuantity(ctx context.Context, itemID id.ID, quantity int) error {
	row, ok := f.rows[itemID]
	if !ok {
		return apperror.NewNotFound("stock", itemID.String())
	}
	row.Quantity = quantity
	return nil
}

func (f *fakeStockRepo) List(ctx context.Context, filter stock.ListFilter) (domain.ListResult[stock.Stock], error) {
	return domain.ListResult[stock.Stock]{}, nil
}

func (f *fakeStockRepo) ListLowStock(ctx context.Context) ([]stock.Stock, error) {
	return nil, nil
}

func (f *fakeStockRepo) TotalValue(ctx context.Context) (types.Money, error) {
	return types.ZeroMoney(), nil
}

func (f *fakeStockRepo) CreateAdjustment(ctx context.Context, adj *stock.Adjustment) error {
	return nil
}

func (f *fakeStockRepo) ListAdjustments(ctx context.Context, filter stock.AdjustmentFilter) (domain.ListResult[stock.Adjustment], error) {
	return domain.ListResult[stock.Adjustment]{}, nil
}

type fixture struct {
	svc       *Service
	repo      *fakeRepo
	items     *fakeItemRepo
	stockRepo *fakeStockRepo
	po        *purchase_order.PurchaseOrder
	itemID    id.ID
}

func newFixture(t *testing.T, poStatus purchase_order.Status) *fixture {
	t.Helper()

	it := item.New("Widget", "WID-001", id.New())
	items := &fakeItemRepo{items: map[id.ID]*item.Item{it.ID: it}}

	po := purchase_order.New(id.New())
	po.Status = poStatus
	po.Number = "PO-20250601-00001"
	orders := &fakeOrderRepo{
		docs: map[id.ID]*purchase_order.PurchaseOrder{po.ID: po},
		lines: map[id.ID][]purchase_order.Line{
			po.ID: {{LineID: id.New(), LineNo: 1, ItemID: it.ID, Quantity: 10, UnitPrice: types.MoneyFromFloat(4)}},
		},
	}

	stockRepo := &fakeStockRepo{rows: map[id.ID]*stock.Stock{
		it.ID: {ItemID: it.ID, Quantity: 0},
	}}
	stockSvc := stock.NewService(stockRepo, passTx{})

	repo := newFakeRepo()
	svc := NewService(repo, orders, items, stockSvc, numerator.New(&seqQuerier{}), passTx{}, nil)

	return &fixture{svc: svc, repo: repo, items: items, stockRepo: stockRepo, po: po, itemID: it.ID}
}

func TestCreate_IncreasesStock(t *testing.T) {
	f := newFixture(t, purchase_order.StatusApproved)
	ctx := context.Background()

	doc := New(f.po.ID)
	doc.Date = time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)
	doc.Lines = append(doc.Lines, Line{LineID: id.New(), ItemID: f.itemID, QuantityReceived: 7})

	require.NoError(t, f.svc.Create(ctx, doc))

	assert.Equal(t, "GRN-20250605-00001", doc.Number)
	assert.Equal(t, 7, f.stockRepo.rows[f.itemID].Quantity)
	assert.Len(t, f.repo.lines[doc.ID], 1)
}

func TestCreate_MirrorsOrderedQuantity(t *testing.T) {
	f := newFixture(t, purchase_order.StatusApproved)
	ctx := context.Background()

	doc := New(f.po.ID)
	doc.Lines = append(doc.Lines, Line{LineID: id.New(), ItemID: f.itemID, QuantityReceived: 3})

	require.NoError(t, f.svc.Create(ctx, doc))

	// PO ordered 10 of the item; line left QuantityOrdered at zero.
	assert.Equal(t, 10, f.repo.lines[doc.ID][0].QuantityOrdered)
}

func TestCreate_KeepsExplicitOrderedQuantity(t *testing.T) {
	f := newFixture(t, purchase_order.StatusApproved)
	ctx := context.Background()

	doc := New(f.po.ID)
	doc.Lines = append(doc.Lines, Line{LineID: id.New(), ItemID: f.itemID, QuantityOrdered: 4, QuantityReceived: 3})

	require.NoError(t, f.svc.Create(ctx, doc))

	assert.Equal(t, 4, f.repo.lines[doc.ID][0].QuantityOrdered)
}

func TestCreate_RejectsUnapprovedOrder(t *testing.T) {
	for _, status := range []purchase_order.Status{
		purchase_order.StatusDraft,
		purchase_order.StatusPendingApproval,
		purchase_order.StatusRejected,
	} {
		f := newFixture(t, status)

		doc := New(f.po.ID)
		doc.Lines = append(doc.Lines, Line{LineID: id.New(), ItemID: f.itemID, QuantityReceived: 1})

		err := f.svc.Create(context.Background(), doc)
		require.Error(t, err, "status %s", status)
		assert.True(t, apperror.IsCode(err, apperror.CodePreconditionFailed))
		assert.Equal(t, 0, f.stockRepo.rows[f.itemID].Quantity)
	}
}

func TestCreate_RejectsUnknownOrder(t *testing.T) {
	f := newFixture(t, purchase_order.StatusApproved)

	doc := New(id.New())
	doc.Lines = append(doc.Lines, Line{LineID: id.New(), ItemID: f.itemID, QuantityReceived: 1})

	err := f.svc.Create(context.Background(), doc)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeNotFound))
}

func TestCreate_RejectsNonPositiveQuantity(t *testing.T) {
	f := newFixture(t, purchase_order.StatusApproved)

	doc := New(f.po.ID)
	doc.Lines = append(doc.Lines, Line{LineID: id.New(), ItemID: f.itemID, QuantityReceived: 0})

	err := f.svc.Create(context.Background(), doc)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestCreate_RejectsInactiveItem(t *testing.T) {
	f := newFixture(t, purchase_order.StatusApproved)
	f.items.items[f.itemID].Active = false

	doc := New(f.po.ID)
	doc.Lines = append(doc.Lines, Line{LineID: id.New(), ItemID: f.itemID, QuantityReceived: 1})

	err := f.svc.Create(context.Background(), doc)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodePreconditionFailed))
	assert.Equal(t, 0, f.stockRepo.rows[f.itemID].Quantity)
}

func TestCreate_MissingStockRowIsInternal(t *testing.T) {
	f := newFixture(t, purchase_order.StatusApproved)
	delete(f.stockRepo.rows, f.itemID)

	doc := New(f.po.ID)
	doc.Lines = append(doc.Lines, Line{LineID: id.New(), ItemID: f.itemID, QuantityReceived: 1})

	err := f.svc.Create(context.Background(), doc)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInternal))
}

func TestGetByID_IncludesLines(t *testing.T) {
	f := newFixture(t, purchase_order.StatusApproved)
	ctx := context.Background()

	doc := New(f.po.ID)
	doc.Lines = append(doc.Lines, Line{LineID: id.New(), ItemID: f.itemID, QuantityReceived: 2})
	require.NoError(t, f.svc.Create(ctx, doc))

	got, err := f.svc.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, 2, got.Lines[0].QuantityReceived)
}
