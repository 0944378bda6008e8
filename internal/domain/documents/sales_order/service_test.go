package sales_order

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
	docs  map[id.ID]*SalesOrder
	lines map[id.ID][]Line
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		docs:  make(map[id.ID]*SalesOrder),
		lines: make(map[id.ID][]Line),
	}
}

func (f *fakeRepo) Create(ctx context.Context, doc *SalesOrder) error {
	copied := *doc
	f.docs[doc.ID] = &copied
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, docID id.ID) (*SalesOrder, error) {
	doc, ok := f.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("sales order", docID.String())
	}
	copied := *doc
	return &copied, nil
}

func (f *fakeRepo) GetByNumber(ctx context.Context, number string) (*SalesOrder, error) {
	for _, doc := range f.docs {
		if doc.Number == number {
			copied := *doc
			return &copied, nil
		}
	}
	return nil, apperror.NewNotFound("sales order", number)
}

func (f *fakeRepo) GetForUpdate(ctx context.Context, docID id.ID) (*SalesOrder, error) {
	return f.GetByID(ctx, docID)
}

func (f *fakeRepo) Update(ctx context.Context, doc *SalesOrder) error {
	if _, ok := f.docs[doc.ID]; !ok {
		return apperror.NewNotFound("sales order", doc.ID.String())
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

func (f *fakeRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*SalesOrder], error) {
	result := domain.ListResult[*SalesOrder]{Limit: filter.Limit, Offset: filter.Offset}
	for _, doc := range f.docs {
		result.Items = append(result.Items, doc)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
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

func newTestService(t *testing.T) (*Service, *fakeRepo, id.ID) {
	t.Helper()
	it := item.New("Widget", "WID-001", id.New())
	items := &fakeItemRepo{items: map[id.ID]*item.Item{it.ID: it}}
	repo := newFakeRepo()
	svc := NewService(repo, items, numerator.New(&seqQuerier{}), passTx{}, nil)
	return svc, repo, it.ID
}

func TestCreate_TotalsWithDiscountAndTax(t *testing.T) {
	svc, _, itemID := newTestService(t)
	ctx := context.Background()

	doc := New("Jane Customer")
	doc.Date = time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)
	doc.Discount = types.MoneyFromFloat(20)
	doc.Tax = types.MoneyFromFloat(10)
	doc.AddLine(itemID, 2, types.MoneyFromFloat(100))

	require.NoError(t, svc.Create(ctx, doc))

	assert.Equal(t, "SO-20250710-00001", doc.Number)
	assert.Equal(t, StatusDraft, doc.Status)
	// 2 x 100 - 20 + 10
	assert.True(t, doc.TotalAmount.Equal(types.MoneyFromFloat(190)))
	assert.True(t, doc.Subtotal().Equal(types.MoneyFromFloat(200)))
}

func TestCreate_RejectsNegativeDiscount(t *testing.T) {
	svc, _, itemID := newTestService(t)

	doc := New("Jane Customer")
	doc.Discount = types.MoneyFromFloat(-1)
	doc.AddLine(itemID, 1, types.MoneyFromFloat(5))

	err := svc.Create(context.Background(), doc)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestCreate_RejectsMissingCustomer(t *testing.T) {
	svc, _, itemID := newTestService(t)

	doc := New("")
	doc.AddLine(itemID, 1, types.MoneyFromFloat(5))

	err := svc.Create(context.Background(), doc)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestCreate_RejectsInactiveItem(t *testing.T) {
	it := item.New("Gadget", "GAD-001", id.New())
	it.Active = false
	items := &fakeItemRepo{items: map[id.ID]*item.Item{it.ID: it}}
	svc := NewService(newFakeRepo(), items, numerator.New(&seqQuerier{}), passTx{}, nil)

	doc := New("Jane Customer")
	doc.AddLine(it.ID, 1, types.MoneyFromFloat(5))

	err := svc.Create(context.Background(), doc)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodePreconditionFailed))
}

func TestUpdate_OnlyDraftEditable(t *testing.T) {
	svc, _, itemID := newTestService(t)
	ctx := context.Background()

	doc := New("Jane Customer")
	doc.AddLine(itemID, 1, types.MoneyFromFloat(5))
	require.NoError(t, svc.Create(ctx, doc))

	_, err := svc.UpdateStatus(ctx, doc.ID, "CONFIRMED")
	require.NoError(t, err)

	doc.Lines[0].Quantity = 3
	err = svc.Update(ctx, doc)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodePreconditionFailed))
}

func TestUpdateStatus(t *testing.T) {
	svc, repo, itemID := newTestService(t)
	ctx := context.Background()

	doc := New("Jane Customer")
	doc.AddLine(itemID, 1, types.MoneyFromFloat(5))
	require.NoError(t, svc.Create(ctx, doc))

	updated, err := svc.UpdateStatus(ctx, doc.ID, "CANCELLED")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, updated.Status)

	stored, err := repo.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, stored.Status)
}

func TestUpdateStatus_RejectsUnknownValue(t *testing.T) {
	svc, _, itemID := newTestService(t)
	ctx := context.Background()

	doc := New("Jane Customer")
	doc.AddLine(itemID, 1, types.MoneyFromFloat(5))
	require.NoError(t, svc.Create(ctx, doc))

	_, err := svc.UpdateStatus(ctx, doc.ID, "SHIPPED")
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidStatus))
}
