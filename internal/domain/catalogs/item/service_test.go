package item

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/apperror"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/catalogs/category"
)

type passTx struct{}

func (passTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRepo struct {
	Repository
	items map[id.ID]*Item
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[id.ID]*Item)}
}

func (f *fakeRepo) Create(ctx context.Context, it *Item) error {
	copied := *it
	f.items[it.ID] = &copied
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, itemID id.ID) (*Item, error) {
	it, ok := f.items[itemID]
	if !ok {
		return nil, apperror.NewNotFound("item", itemID.String())
	}
	copied := *it
	return &copied, nil
}

func (f *fakeRepo) FindBySKU(ctx context.Context, sku string) (*Item, error) {
	for _, it := range f.items {
		if it.SKU == sku {
			copied := *it
			return &copied, nil
		}
	}
	return nil, apperror.NewNotFound("item", sku)
}

func (f *fakeRepo) Update(ctx context.Context, it *Item) error {
	if _, ok := f.items[it.ID]; !ok {
		return apperror.NewNotFound("item", it.ID.String())
	}
	copied := *it
	f.items[it.ID] = &copied
	return nil
}

func (f *fakeRepo) SetDeletionMark(ctx context.Context, itemID id.ID, marked bool) error {
	it, ok := f.items[itemID]
	if !ok {
		return apperror.NewNotFound("item", itemID.String())
	}
	it.DeletionMark = marked
	return nil
}

type fakeCategoryRepo struct {
	category.Repository
	categories map[id.ID]*category.Category
}

func (f *fakeCategoryRepo) GetByID(ctx context.Context, catID id.ID) (*category.Category, error) {
	cat, ok := f.categories[catID]
	if !ok {
		return nil, apperror.NewNotFound("category", catID.String())
	}
	return cat, nil
}

type fakeStockInit struct {
	inited []id.ID
}

func (f *fakeStockInit) InitItem(ctx context.Context, itemID id.ID) error {
	f.inited = append(f.inited, itemID)
	return nil
}

type fixture struct {
	svc        *Service
	repo       *fakeRepo
	stock      *fakeStockInit
	categoryID id.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cat := category.New("Electronics")
	categories := &fakeCategoryRepo{categories: map[id.ID]*category.Category{cat.ID: cat}}

	repo := newFakeRepo()
	stockInit := &fakeStockInit{}
	svc := NewService(repo, categories, stockInit, passTx{})

	return &fixture{svc: svc, repo: repo, stock: stockInit, categoryID: cat.ID}
}

func TestCreate_InitializesStockRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	it := New("Widget", "WID-001", f.categoryID)
	require.NoError(t, f.svc.Create(ctx, it))

	require.Len(t, f.stock.inited, 1)
	assert.Equal(t, it.ID, f.stock.inited[0])
	assert.True(t, it.Active)
}

func TestCreate_DuplicateSKU(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Create(ctx, New("Widget", "WID-001", f.categoryID)))

	err := f.svc.Create(ctx, New("Other Widget", "WID-001", f.categoryID))
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeDuplicate))
	assert.Len(t, f.stock.inited, 1)
}

func TestCreate_UnknownCategory(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Create(context.Background(), New("Widget", "WID-001", id.New()))
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeNotFound))
	assert.Empty(t, f.stock.inited)
}

func TestCreate_InactiveCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	retired := category.New("Discontinued")
	retired.Active = false
	f.svc.categories.(*fakeCategoryRepo).categories[retired.ID] = retired

	err := f.svc.Create(ctx, New("Widget", "WID-001", retired.ID))
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodePreconditionFailed))
}

func TestUpdate_KeepingOwnSKUIsAllowed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	it := New("Widget", "WID-001", f.categoryID)
	require.NoError(t, f.svc.Create(ctx, it))

	it.Name = "Widget Mk2"
	require.NoError(t, f.svc.Update(ctx, it))
	assert.Equal(t, "Widget Mk2", f.repo.items[it.ID].Name)
}

func TestSetActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	it := New("Widget", "WID-001", f.categoryID)
	require.NoError(t, f.svc.Create(ctx, it))

	require.NoError(t, f.svc.SetActive(ctx, it, false))
	assert.False(t, f.repo.items[it.ID].Active)

	require.NoError(t, f.svc.SetActive(ctx, it, true))
	assert.True(t, f.repo.items[it.ID].Active)
}

func TestFindBySKU(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	it := New("Widget", "WID-001", f.categoryID)
	require.NoError(t, f.svc.Create(ctx, it))

	got, err := f.svc.FindBySKU(ctx, "WID-001")
	require.NoError(t, err)
	assert.Equal(t, it.ID, got.ID)

	_, err = f.svc.FindBySKU(ctx, "NOPE")
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeNotFound))
}
