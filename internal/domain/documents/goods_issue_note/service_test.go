package goods_issue_note

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
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/documents/sales_order"
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
	docs  map[id.ID]*GoodsIssueNote
	lines map[id.ID][]Line
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		docs:  make(map[id.ID]*GoodsIssueNote),
		lines: make(map[id.ID][]Line),
	}
}

func (f *fakeRepo) Create(ctx context.Context, doc *GoodsIssueNote) error {
	copied := *doc
	f.docs[doc.ID] = &copied
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, docID id.ID) (*GoodsIssueNote, error) {
	doc, ok := f.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("goods issue note", docID.String())
	}
	copied := *doc
	return &copied, nil
}

func (f *fakeRepo) GetByNumber(ctx context.Context, number string) (*GoodsIssueNote, error) {
	for _, doc := range f.docs {
		if doc.Number == number {
			copied := *doc
			return &copied, nil
		}
	}
	return nil, apperror.NewNotFound("goods issue note", number)
}

func (f *fakeRepo) GetForUpdate(ctx context.Context, docID id.ID) (*GoodsIssueNote, error) {
	return f.GetByID(ctx, docID)
}

func (f *fakeRepo) Update(ctx context.Context, doc *GoodsIssueNote) error {
	if _, ok := f.docs[doc.ID]; !ok {
		return apperror.NewNotFound("goods issue note", doc.ID.String())
	}
	copied := *doc
	f.docs[doc.ID] = &copied
	return nil
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

func (f *fakeRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*GoodsIssueNote], error) {
	result := domain.ListResult[*GoodsIssueNote]{Limit: filter.Limit, Offset: filter.Offset}
	for _, doc := range f.docs {
		result.Items = append(result.Items, doc)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

type fakeOrderRepo struct {
	sales_order.Repository
	docs map[id.ID]*sales_order.SalesOrder
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, docID id.ID) (*sales_order.SalesOrder, error) {
	doc, ok := f.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("sales order", docID.String())
	}
	return doc, nil
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
	stockRepo *fakeStockRepo
	so        *sales_order.SalesOrder
	itemID    id.ID
}

// newFixture seeds one active item with the given stock on hand and a
// sales order in the given status.
func newFixture(t *testing.T, soStatus sales_order.Status, onHand int) *fixture {
	t.Helper()

	it := item.New("Widget", "WID-001", id.New())
	items := &fakeItemRepo{items: map[id.ID]*item.Item{it.ID: it}}

	so := sales_order.New("Jane Customer")
	so.Status = soStatus
	so.Number = "SO-20250710-00001"
	orders := &fakeOrderRepo{docs: map[id.ID]*sales_order.SalesOrder{so.ID: so}}

	stockRepo := &fakeStockRepo{rows: map[id.ID]*stock.Stock{
		it.ID: {ItemID: it.ID, Quantity: onHand},
	}}
	stockSvc := stock.NewService(stockRepo, passTx{})

	repo := newFakeRepo()
	svc := NewService(repo, orders, items, stockSvc, numerator.New(&seqQuerier{}), passTx{}, nil)

	return &fixture{svc: svc, repo: repo, stockRepo: stockRepo, so: so, itemID: it.ID}
}

func newNote(f *fixture, qty int) *GoodsIssueNote {
	doc := New(f.so.ID)
	doc.Date = time.Date(2025, 7, 12, 0, 0, 0, 0, time.UTC)
	doc.Lines = append(doc.Lines, Line{
		LineID:         id.New(),
		ItemID:         f.itemID,
		QuantityIssued: qty,
		UnitPrice:      types.MoneyFromFloat(25),
	})
	return doc
}

func TestCreate_DecreasesStock(t *testing.T) {
	f := newFixture(t, sales_order.StatusConfirmed, 10)
	ctx := context.Background()

	doc := newNote(f, 4)
	require.NoError(t, f.svc.Create(ctx, doc))

	assert.Equal(t, "GIN-20250712-00001", doc.Number)
	assert.Equal(t, StatusDraft, doc.Status)
	assert.Equal(t, 6, f.stockRepo.rows[f.itemID].Quantity)
	assert.True(t, f.repo.lines[doc.ID][0].TotalPrice.Equal(types.MoneyFromFloat(100)))
}

func TestCreate_ForcesDraftStatus(t *testing.T) {
	f := newFixture(t, sales_order.StatusConfirmed, 10)

	doc := newNote(f, 2)
	doc.Status = StatusConfirmed
	require.NoError(t, f.svc.Create(context.Background(), doc))

	assert.Equal(t, StatusDraft, doc.Status)
	assert.Equal(t, StatusDraft, f.repo.docs[doc.ID].Status)
}

func TestCreate_RejectsDraftOrder(t *testing.T) {
	f := newFixture(t, sales_order.StatusDraft, 10)

	err := f.svc.Create(context.Background(), newNote(f, 1))
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodePreconditionFailed))
	assert.Equal(t, 10, f.stockRepo.rows[f.itemID].Quantity)
}

func TestCreate_InsufficientStock(t *testing.T) {
	f := newFixture(t, sales_order.StatusConfirmed, 3)

	err := f.svc.Create(context.Background(), newNote(f, 5))
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientStock))
	assert.Equal(t, 3, f.stockRepo.rows[f.itemID].Quantity)
	assert.Empty(t, f.repo.docs)
}

func TestCreate_RejectsInactiveItem(t *testing.T) {
	f := newFixture(t, sales_order.StatusConfirmed, 10)

	it := item.New("Retired Gadget", "GAD-001", id.New())
	it.Active = false
	f.svc.items.(*fakeItemRepo).items[it.ID] = it
	f.stockRepo.rows[it.ID] = &stock.Stock{ItemID: it.ID, Quantity: 10}

	doc := New(f.so.ID)
	doc.Lines = append(doc.Lines, Line{LineID: id.New(), ItemID: it.ID, QuantityIssued: 1})

	err := f.svc.Create(context.Background(), doc)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodePreconditionFailed))
}

func TestUpdate_ReversesThenReapplies(t *testing.T) {
	f := newFixture(t, sales_order.StatusConfirmed, 10)
	ctx := context.Background()

	doc := newNote(f, 5)
	require.NoError(t, f.svc.Create(ctx, doc))
	require.Equal(t, 5, f.stockRepo.rows[f.itemID].Quantity)

	doc.Lines[0].QuantityIssued = 2
	require.NoError(t, f.svc.Update(ctx, doc))

	// 5 issued came back, 2 went out again.
	assert.Equal(t, 8, f.stockRepo.rows[f.itemID].Quantity)
	assert.Equal(t, 2, f.repo.lines[doc.ID][0].QuantityIssued)
}

func TestUpdate_KeepsNumberStatusAndOrder(t *testing.T) {
	f := newFixture(t, sales_order.StatusConfirmed, 10)
	ctx := context.Background()

	doc := newNote(f, 3)
	require.NoError(t, f.svc.Create(ctx, doc))
	number := doc.Number

	doc.Number = "GIN-99999999-99999"
	doc.Status = StatusConfirmed
	doc.SalesOrderID = id.New()
	doc.Lines[0].QuantityIssued = 1
	require.NoError(t, f.svc.Update(ctx, doc))

	stored, err := f.repo.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, number, stored.Number)
	assert.Equal(t, StatusDraft, stored.Status)
	assert.Equal(t, f.so.ID, stored.SalesOrderID)
}

func TestUpdate_ConfirmedNoteIsImmutable(t *testing.T) {
	f := newFixture(t, sales_order.StatusConfirmed, 10)
	ctx := context.Background()

	doc := newNote(f, 3)
	require.NoError(t, f.svc.Create(ctx, doc))

	_, err := f.svc.UpdateStatus(ctx, doc.ID, "CONFIRMED")
	require.NoError(t, err)

	doc.Lines[0].QuantityIssued = 1
	err = f.svc.Update(ctx, doc)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodePreconditionFailed))
	assert.Equal(t, 7, f.stockRepo.rows[f.itemID].Quantity)
}

func TestUpdateStatus_RejectsUnknownValue(t *testing.T) {
	f := newFixture(t, sales_order.StatusConfirmed, 10)
	ctx := context.Background()

	doc := newNote(f, 1)
	require.NoError(t, f.svc.Create(ctx, doc))

	_, err := f.svc.UpdateStatus(ctx, doc.ID, "SHIPPED")
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidStatus))
}
