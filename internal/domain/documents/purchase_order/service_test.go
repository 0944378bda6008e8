package purchase_order

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
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/catalogs/supplier"
	"github.com/Lahiru-2000/inventory-management-system/pkg/numerator"
)

type passTx struct{}

func (passTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// seqRow and seqQuerier feed the numerator a monotonic counter.
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
	docs  map[id.ID]*PurchaseOrder
	lines map[id.ID][]Line
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		docs:  make(map[id.ID]*PurchaseOrder),
		lines: make(map[id.ID][]Line),
	}
}

func (f *fakeRepo) Create(ctx context.Context, doc *PurchaseOrder) error {
	copied := *doc
	f.docs[doc.ID] = &copied
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, docID id.ID) (*PurchaseOrder, error) {
	doc, ok := f.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("purchase order", docID.String())
	}
	copied := *doc
	return &copied, nil
}

func (f *fakeRepo) GetByNumber(ctx context.Context, number string) (*PurchaseOrder, error) {
	for _, doc := range f.docs {
		if doc.Number == number {
			copied := *doc
			return &copied, nil
		}
	}
	return nil, apperror.NewNotFound("purchase order", number)
}

func (f *fakeRepo) GetForUpdate(ctx context.Context, docID id.ID) (*PurchaseOrder, error) {
	return f.GetByID(ctx, docID)
}

func (f *fakeRepo) Update(ctx context.Context, doc *PurchaseOrder) error {
	if _, ok := f.docs[doc.ID]; !ok {
		return apperror.NewNotFound("purchase order", doc.ID.String())
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

func (f *fakeRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*PurchaseOrder], error) {
	result := domain.ListResult[*PurchaseOrder]{Limit: filter.Limit, Offset: filter.Offset}
	for _, doc := range f.docs {
		result.Items = append(result.Items, doc)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

// fakeSupplierRepo overrides only what the service touches.
type fakeSupplierRepo struct {
	supplier.Repository
	suppliers map[id.ID]*supplier.Supplier
}

func (f *fakeSupplierRepo) GetByID(ctx context.Context, supplierID id.ID) (*supplier.Supplier, error) {
	sup, ok := f.suppliers[supplierID]
	if !ok {
		return nil, apperror.NewNotFound("supplier", supplierID.String())
	}
	return sup, nil
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

type fixture struct {
	svc        *Service
	repo       *fakeRepo
	supplierID id.ID
	itemID     id.ID
	items      *fakeItemRepo
	suppliers  *fakeSupplierRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	sup := supplier.New("Acme Supplies")
	it := item.New("Widget", "WID-001", id.New())

	suppliers := &fakeSupplierRepo{suppliers: map[id.ID]*supplier.Supplier{sup.ID: sup}}
	items := &fakeItemRepo{items: map[id.ID]*item.Item{it.ID: it}}
	repo := newFakeRepo()

	svc := NewService(repo, suppliers, items, numerator.New(&seqQuerier{}), passTx{}, nil)

	return &fixture{
		svc:        svc,
		repo:       repo,
		supplierID: sup.ID,
		itemID:     it.ID,
		items:      items,
		suppliers:  suppliers,
	}
}

func newDraft(f *fixture, qty int, price string) *PurchaseOrder {
	doc := New(f.supplierID)
	doc.Date = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	unitPrice, _ := types.MoneyFromString(price)
	doc.AddLine(f.itemID, qty, unitPrice)
	return doc
}

func TestCreate_AssignsNumberAndDefaults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc := newDraft(f, 3, "10.50")
	require.NoError(t, f.svc.Create(ctx, doc))

	assert.Equal(t, "PO-20250601-00001", doc.Number)
	assert.Equal(t, StatusDraft, doc.Status)
	assert.True(t, doc.TotalAmount.Equal(types.MoneyFromFloat(31.5)))
	assert.Len(t, f.repo.lines[doc.ID], 1)
}

func TestCreate_RecomputesLineTotals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc := newDraft(f, 4, "2.25")
	// Tampered totals must be overwritten server-side.
	doc.Lines[0].TotalPrice = types.MoneyFromFloat(999)
	doc.TotalAmount = types.MoneyFromFloat(999)

	require.NoError(t, f.svc.Create(ctx, doc))
	assert.True(t, doc.TotalAmount.Equal(types.MoneyFromFloat(9)))
	assert.True(t, doc.Lines[0].TotalPrice.Equal(types.MoneyFromFloat(9)))
}

func TestCreate_RejectsInactiveSupplier(t *testing.T) {
	f := newFixture(t)
	f.suppliers.suppliers[f.supplierID].Active = false

	err := f.svc.Create(context.Background(), newDraft(f, 1, "5"))
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodePreconditionFailed))
}

func TestCreate_RejectsUnknownItem(t *testing.T) {
	f := newFixture(t)

	doc := New(f.supplierID)
	doc.AddLine(id.New(), 1, types.MoneyFromFloat(5))

	err := f.svc.Create(context.Background(), doc)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeNotFound))
}

func TestCreate_RejectsEmptyLines(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Create(context.Background(), New(f.supplierID))
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestSubmitThenApprove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc := newDraft(f, 2, "8")
	require.NoError(t, f.svc.Create(ctx, doc))

	submitted, err := f.svc.Submit(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPendingApproval, submitted.Status)

	approved, err := f.svc.Approve(ctx, doc.ID, "boss")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, "boss", *approved.ApprovedBy)
}

func TestApprove_TerminalStatesRejectFurtherDecisions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc := newDraft(f, 1, "3")
	require.NoError(t, f.svc.Create(ctx, doc))

	_, err := f.svc.Reject(ctx, doc.ID, "boss")
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, doc.ID, "boss")
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodePreconditionFailed))
}

func TestUpdate_ApprovedOrderIsImmutable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc := newDraft(f, 1, "3")
	require.NoError(t, f.svc.Create(ctx, doc))
	_, err := f.svc.Approve(ctx, doc.ID, "boss")
	require.NoError(t, err)

	doc.Lines[0].Quantity = 10
	err = f.svc.Update(ctx, doc)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodePreconditionFailed))
}

func TestUpdate_KeepsStatusAndNumber(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc := newDraft(f, 1, "3")
	require.NoError(t, f.svc.Create(ctx, doc))
	number := doc.Number

	doc.Status = StatusApproved // must be ignored
	doc.Number = "PO-FAKE"
	doc.Lines[0].Quantity = 6

	require.NoError(t, f.svc.Update(ctx, doc))
	assert.Equal(t, StatusDraft, doc.Status)
	assert.Equal(t, number, doc.Number)
	assert.True(t, doc.TotalAmount.Equal(types.MoneyFromFloat(18)))
}

func TestGetByID_IncludesLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc := newDraft(f, 2, "4")
	require.NoError(t, f.svc.Create(ctx, doc))

	loaded, err := f.svc.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Lines, 1)
	assert.Equal(t, f.itemID, loaded.Lines[0].ItemID)
}

func TestGetByID_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetByID(context.Background(), id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
