package domain_test

// End-to-end flow over in-memory repositories: an item travels through the
// purchase pipeline into stock, out through the sales pipeline, and ends in
// an invoice, with the ledger checked at each step.

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/apperror"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/types"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/catalogs/category"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/catalogs/item"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/catalogs/supplier"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/documents/goods_issue_note"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/documents/goods_receive_note"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/documents/invoice"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/documents/purchase_order"
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

type memItemRepo struct {
	item.Repository
	items map[id.ID]*item.Item
}

func (m *memItemRepo) Create(ctx context.Context, it *item.Item) error {
	copied := *it
	m.items[it.ID] = &copied
	return nil
}

func (m *memItemRepo) GetByID(ctx context.Context, itemID id.ID) (*item.Item, error) {
	it, ok := m.items[itemID]
	if !ok {
		return nil, apperror.NewNotFound("item", itemID.String())
	}
	copied := *it
	return &copied, nil
}

func (m *memItemRepo) FindBySKU(ctx context.Context, sku string) (*item.Item, error) {
	for _, it := range m.items {
		if it.SKU == sku {
			copied := *it
			return &copied, nil
		}
	}
	return nil, apperror.NewNotFound("item", sku)
}

type memCategoryRepo struct {
	category.Repository
	categories map[id.ID]*category.Category
}

func (m *memCategoryRepo) GetByID(ctx context.Context, catID id.ID) (*category.Category, error) {
	cat, ok := m.categories[catID]
	if !ok {
		return nil, apperror.NewNotFound("category", catID.String())
	}
	return cat, nil
}

type memSupplierRepo struct {
	supplier.Repository
	suppliers map[id.ID]*supplier.Supplier
}

func (m *memSupplierRepo) GetByID(ctx context.Context, supID id.ID) (*supplier.Supplier, error) {
	sup, ok := m.suppliers[supID]
	if !ok {
		return nil, apperror.NewNotFound("supplier", supID.String())
	}
	return sup, nil
}

type memStockRepo struct {
	rows        map[id.ID]*stock.Stock
	adjustments []*stock.Adjustment
}

func (m *memStockRepo) Init(ctx context.Context, itemID id.ID) error {
	m.rows[itemID] = &stock.Stock{ItemID: itemID}
	return nil
}

func (m *memStockRepo) Get(ctx context.Context, itemID id.ID) (stock.Stock, error) {
	row, ok := m.rows[itemID]
	if !ok {
		return stock.Stock{}, apperror.NewNotFound("stock", itemID.String())
	}
	return *row, nil
}

func (m *memStockRepo) GetForUpdate(ctx context.Context, itemID id.ID) (stock.Stock, error) {
	return m.Get(ctx, itemID)
}

func (m *memStockRepo) SetQuantity(ctx context.Context, itemID id.ID, quantity int) error {
	row, ok := m.rows[itemID]
	if !ok {
		return apperror.NewNotFound("stock", itemID.String())
	}
	row.Quantity = quantity
	return nil
}

func (m *memStockRepo) List(ctx context.Context, filter stock.ListFilter) (domain.ListResult[stock.Stock], error) {
	return domain.ListResult[stock.Stock]{}, nil
}

func (m *memStockRepo) ListLowStock(ctx context.Context) ([]stock.Stock, error) {
	return nil, nil
}

func (m *memStockRepo) TotalValue(ctx context.Context) (types.Money, error) {
	return types.ZeroMoney(), nil
}

func (m *memStockRepo) CreateAdjustment(ctx context.Context, adj *stock.Adjustment) error {
	m.adjustments = append(m.adjustments, adj)
	return nil
}

func (m *memStockRepo) ListAdjustments(ctx context.Context, filter stock.AdjustmentFilter) (domain.ListResult[stock.Adjustment], error) {
	return domain.ListResult[stock.Adjustment]{}, nil
}

type memPORepo struct {
	purchase_order.Repository
	docs  map[id.ID]*purchase_order.PurchaseOrder
	lines map[id.ID][]purchase_order.Line
}

func (m *memPORepo) Create(ctx context.Context, doc *purchase_order.PurchaseOrder) error {
	copied := *doc
	m.docs[doc.ID] = &copied
	return nil
}

func (m *memPORepo) GetByID(ctx context.Context, docID id.ID) (*purchase_order.PurchaseOrder, error) {
	doc, ok := m.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("purchase order", docID.String())
	}
	copied := *doc
	return &copied, nil
}

func (m *memPORepo) GetForUpdate(ctx context.Context, docID id.ID) (*purchase_order.PurchaseOrder, error) {
	return m.GetByID(ctx, docID)
}

func (m *memPORepo) Update(ctx context.Context, doc *purchase_order.PurchaseOrder) error {
	copied := *doc
	m.docs[doc.ID] = &copied
	return nil
}

func (m *memPORepo) GetLines(ctx context.Context, docID id.ID) ([]purchase_order.Line, error) {
	return m.lines[docID], nil
}

func (m *memPORepo) SaveLines(ctx context.Context, docID id.ID, lines []purchase_order.Line) error {
	copied := make([]purchase_order.Line, len(lines))
	copy(copied, lines)
	m.lines[docID] = copied
	return nil
}

type memGRNRepo struct {
	goods_receive_note.Repository
	docs  map[id.ID]*goods_receive_note.GoodsReceiveNote
	lines map[id.ID][]goods_receive_note.Line
}

func (m *memGRNRepo) Create(ctx context.Context, doc *goods_receive_note.GoodsReceiveNote) error {
	copied := *doc
	m.docs[doc.ID] = &copied
	return nil
}

func (m *memGRNRepo) SaveLines(ctx context.Context, docID id.ID, lines []goods_receive_note.Line) error {
	copied := make([]goods_receive_note.Line, len(lines))
	copy(copied, lines)
	m.lines[docID] = copied
	return nil
}

type memSORepo struct {
	sales_order.Repository
	docs  map[id.ID]*sales_order.SalesOrder
	lines map[id.ID][]sales_order.Line
}

func (m *memSORepo) Create(ctx context.Context, doc *sales_order.SalesOrder) error {
	copied := *doc
	m.docs[doc.ID] = &copied
	return nil
}

func (m *memSORepo) GetByID(ctx context.Context, docID id.ID) (*sales_order.SalesOrder, error) {
	doc, ok := m.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("sales order", docID.String())
	}
	copied := *doc
	return &copied, nil
}

func (m *memSORepo) GetForUpdate(ctx context.Context, docID id.ID) (*sales_order.SalesOrder, error) {
	return m.GetByID(ctx, docID)
}

func (m *memSORepo) Update(ctx context.Context, doc *sales_order.SalesOrder) error {
	copied := *doc
	m.docs[doc.ID] = &copied
	return nil
}

func (m *memSORepo) GetLines(ctx context.Context, docID id.ID) ([]sales_order.Line, error) {
	return m.lines[docID], nil
}

func (m *memSORepo) SaveLines(ctx context.Context, docID id.ID, lines []sales_order.Line) error {
	copied := make([]sales_order.Line, len(lines))
	copy(copied, lines)
	m.lines[docID] = copied
	return nil
}

type memGINRepo struct {
	goods_issue_note.Repository
	docs  map[id.ID]*goods_issue_note.GoodsIssueNote
	lines map[id.ID][]goods_issue_note.Line
}

func (m *memGINRepo) Create(ctx context.Context, doc *goods_issue_note.GoodsIssueNote) error {
	copied := *doc
	m.docs[doc.ID] = &copied
	return nil
}

func (m *memGINRepo) GetForUpdate(ctx context.Context, docID id.ID) (*goods_issue_note.GoodsIssueNote, error) {
	doc, ok := m.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("goods issue note", docID.String())
	}
	copied := *doc
	return &copied, nil
}

func (m *memGINRepo) Update(ctx context.Context, doc *goods_issue_note.GoodsIssueNote) error {
	copied := *doc
	m.docs[doc.ID] = &copied
	return nil
}

func (m *memGINRepo) GetLines(ctx context.Context, docID id.ID) ([]goods_issue_note.Line, error) {
	return m.lines[docID], nil
}

func (m *memGINRepo) SaveLines(ctx context.Context, docID id.ID, lines []goods_issue_note.Line) error {
	copied := make([]goods_issue_note.Line, len(lines))
	copy(copied, lines)
	m.lines[docID] = copied
	return nil
}

type memInvoiceRepo struct {
	invoice.Repository
	docs map[id.ID]*invoice.Invoice
}

func (m *memInvoiceRepo) Create(ctx context.Context, doc *invoice.Invoice) error {
	copied := *doc
	m.docs[doc.ID] = &copied
	return nil
}

func (m *memInvoiceRepo) GetBySalesOrderID(ctx context.Context, soID id.ID) (*invoice.Invoice, error) {
	for _, doc := range m.docs {
		if doc.SalesOrderID == soID {
			copied := *doc
			return &copied, nil
		}
	}
	return nil, apperror.NewNotFound("invoice for sales order", soID.String())
}

type world struct {
	itemSvc    *item.Service
	stockSvc   *stock.Service
	poSvc      *purchase_order.Service
	grnSvc     *goods_receive_note.Service
	soSvc      *sales_order.Service
	ginSvc     *goods_issue_note.Service
	invoiceSvc *invoice.Service

	stockRepo  *memStockRepo
	soRepo     *memSORepo
	categoryID id.ID
	supplierID id.ID
}

func newWorld(t *testing.T) *world {
	t.Helper()

	cat := category.New("Hardware")
	sup := supplier.New("Acme Supplies")

	items := &memItemRepo{items: make(map[id.ID]*item.Item)}
	categories := &memCategoryRepo{categories: map[id.ID]*category.Category{cat.ID: cat}}
	suppliers := &memSupplierRepo{suppliers: map[id.ID]*supplier.Supplier{sup.ID: sup}}
	stockRepo := &memStockRepo{rows: make(map[id.ID]*stock.Stock)}
	poRepo := &memPORepo{docs: make(map[id.ID]*purchase_order.PurchaseOrder), lines: make(map[id.ID][]purchase_order.Line)}
	grnRepo := &memGRNRepo{docs: make(map[id.ID]*goods_receive_note.GoodsReceiveNote), lines: make(map[id.ID][]goods_receive_note.Line)}
	soRepo := &memSORepo{docs: make(map[id.ID]*sales_order.SalesOrder), lines: make(map[id.ID][]sales_order.Line)}
	ginRepo := &memGINRepo{docs: make(map[id.ID]*goods_issue_note.GoodsIssueNote), lines: make(map[id.ID][]goods_issue_note.Line)}
	invRepo := &memInvoiceRepo{docs: make(map[id.ID]*invoice.Invoice)}

	num := numerator.New(&seqQuerier{})
	stockSvc := stock.NewService(stockRepo, passTx{})

	return &world{
		itemSvc:    item.NewService(items, categories, stockSvc, passTx{}),
		stockSvc:   stockSvc,
		poSvc:      purchase_order.NewService(poRepo, suppliers, items, num, passTx{}, nil),
		grnSvc:     goods_receive_note.NewService(grnRepo, poRepo, items, stockSvc, num, passTx{}, nil),
		soSvc:      sales_order.NewService(soRepo, items, num, passTx{}, nil),
		ginSvc:     goods_issue_note.NewService(ginRepo, soRepo, items, stockSvc, num, passTx{}, nil),
		invoiceSvc: invoice.NewService(invRepo, soRepo, num, passTx{}, nil),
		stockRepo:  stockRepo,
		soRepo:     soRepo,
		categoryID: cat.ID,
		supplierID: sup.ID,
	}
}

func TestPurchaseToInvoiceFlow(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	// Item creation brings its stock row with it.
	widget := item.New("Widget", "WID-001", w.categoryID)
	widget.UnitPrice = types.MoneyFromFloat(25)
	require.NoError(t, w.itemSvc.Create(ctx, widget))

	onHand, err := w.stockSvc.Get(ctx, widget.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, onHand.Quantity)

	// Goods cannot leave or enter stock before the purchase pipeline runs.
	po := purchase_order.New(w.supplierID)
	po.AddLine(widget.ID, 10, types.MoneyFromFloat(4))
	require.NoError(t, w.poSvc.Create(ctx, po))

	grn := goods_receive_note.New(po.ID)
	grn.Lines = append(grn.Lines, goods_receive_note.Line{
		LineID: id.New(), ItemID: widget.ID, QuantityReceived: 10,
	})
	err = w.grnSvc.Create(ctx, grn)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodePreconditionFailed))

	_, err = w.poSvc.Submit(ctx, po.ID)
	require.NoError(t, err)
	_, err = w.poSvc.Approve(ctx, po.ID, "boss")
	require.NoError(t, err)

	require.NoError(t, w.grnSvc.Create(ctx, grn))
	onHand, err = w.stockSvc.Get(ctx, widget.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, onHand.Quantity)

	// Sales side: order, confirm, issue.
	so := sales_order.New("Jane Customer")
	so.AddLine(widget.ID, 4, types.MoneyFromFloat(25))
	require.NoError(t, w.soSvc.Create(ctx, so))

	gin := goods_issue_note.New(so.ID)
	gin.Lines = append(gin.Lines, goods_issue_note.Line{
		LineID: id.New(), ItemID: widget.ID, QuantityIssued: 4, UnitPrice: types.MoneyFromFloat(25),
	})
	err = w.ginSvc.Create(ctx, gin)
	require.Error(t, err, "issuing against a draft order must fail")

	_, err = w.soSvc.UpdateStatus(ctx, so.ID, "CONFIRMED")
	require.NoError(t, err)

	require.NoError(t, w.ginSvc.Create(ctx, gin))
	onHand, err = w.stockSvc.Get(ctx, widget.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, onHand.Quantity)

	// Invoice snapshots the order and locks it.
	inv, err := w.invoiceSvc.CreateFromSalesOrder(ctx, invoice.CreateRequest{SalesOrderID: so.ID})
	require.NoError(t, err)
	assert.True(t, inv.TotalAmount.Equal(types.MoneyFromFloat(100)))
	assert.Equal(t, sales_order.StatusInvoiced, w.soRepo.docs[so.ID].Status)

	_, err = w.invoiceSvc.CreateFromSalesOrder(ctx, invoice.CreateRequest{SalesOrderID: so.ID})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeConflict))

	// Oversell after the issue is rejected and leaves the ledger untouched.
	so2 := sales_order.New("Big Buyer")
	so2.AddLine(widget.ID, 7, types.MoneyFromFloat(25))
	require.NoError(t, w.soSvc.Create(ctx, so2))
	_, err = w.soSvc.UpdateStatus(ctx, so2.ID, "CONFIRMED")
	require.NoError(t, err)

	gin2 := goods_issue_note.New(so2.ID)
	gin2.Lines = append(gin2.Lines, goods_issue_note.Line{
		LineID: id.New(), ItemID: widget.ID, QuantityIssued: 7, UnitPrice: types.MoneyFromFloat(25),
	})
	err = w.ginSvc.Create(ctx, gin2)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientStock))

	onHand, err = w.stockSvc.Get(ctx, widget.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, onHand.Quantity)

	// Count correction through an absolute-set adjustment.
	adj, err := w.stockSvc.Adjust(ctx, stock.AdjustRequest{
		ItemID:      widget.ID,
		NewQuantity: 5,
		Reason:      "cycle count",
	})
	require.NoError(t, err)
	assert.Equal(t, 6, adj.PreviousQuantity)
	assert.Equal(t, -1, adj.Delta)

	onHand, err = w.stockSvc.Get(ctx, widget.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, onHand.Quantity)
}
