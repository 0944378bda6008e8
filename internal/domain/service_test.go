package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/apperror"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
)

type testEntity struct {
	ID   id.ID
	Name string
}

func (e *testEntity) Validate(ctx context.Context) error { return nil }

// recorder collects the order of repository, hook and transaction events.
type recorder struct {
	events []string
}

func (r *recorder) add(event string) { r.events = append(r.events, event) }

func (r *recorder) index(event string) int {
	for i, e := range r.events {
		if e == event {
			return i
		}
	}
	return -1
}

type recordingTx struct{ rec *recorder }

func (t recordingTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.rec.add("tx-begin")
	err := fn(ctx)
	t.rec.add("tx-end")
	return err
}

type recordingRepo struct {
	rec *recorder
}

func (r *recordingRepo) Create(ctx context.Context, ent *testEntity) error {
	r.rec.add("insert")
	return nil
}

func (r *recordingRepo) GetByID(ctx context.Context, entityID id.ID) (*testEntity, error) {
	r.rec.add("get")
	return &testEntity{ID: entityID}, nil
}

func (r *recordingRepo) GetByName(ctx context.Context, name string) (*testEntity, error) {
	return nil, apperror.NewNotFound("test entity", name)
}

func (r *recordingRepo) Update(ctx context.Context, ent *testEntity) error {
	r.rec.add("update")
	return nil
}

func (r *recordingRepo) SetDeletionMark(ctx context.Context, entityID id.ID, marked bool) error {
	r.rec.add("mark")
	return nil
}

func (r *recordingRepo) List(ctx context.Context, filter ListFilter) (ListResult[*testEntity], error) {
	return ListResult[*testEntity]{}, nil
}

func (r *recordingRepo) Exists(ctx context.Context, entityID id.ID) (bool, error) {
	return false, nil
}

func (r *recordingRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	return false, nil
}

func newRecordingService(rec *recorder) *CatalogService[*testEntity] {
	return NewCatalogService(CatalogServiceConfig[*testEntity]{
		Repo:       &recordingRepo{rec: rec},
		TxManager:  recordingTx{rec: rec},
		EntityName: "test entity",
	})
}

func TestCreate_UniquenessHookRunsInsideTransaction(t *testing.T) {
	rec := &recorder{}
	svc := newRecordingService(rec)
	svc.Hooks().On(BeforeCreate, func(ctx context.Context, ent *testEntity) error {
		rec.add("uniqueness-check")
		return nil
	})

	require.NoError(t, svc.Create(context.Background(), &testEntity{ID: id.New(), Name: "alpha"}))

	begin := rec.index("tx-begin")
	check := rec.index("uniqueness-check")
	insert := rec.index("insert")
	require.NotEqual(t, -1, begin)
	require.NotEqual(t, -1, check)
	require.NotEqual(t, -1, insert)
	assert.Less(t, begin, check, "check must not run before the transaction opens")
	assert.Less(t, check, insert)
	assert.Less(t, insert, rec.index("tx-end"))
}

func TestCreate_FailingBeforeHookAbortsInsideTransaction(t *testing.T) {
	rec := &recorder{}
	svc := newRecordingService(rec)
	svc.Hooks().On(BeforeCreate, func(ctx context.Context, ent *testEntity) error {
		rec.add("uniqueness-check")
		return apperror.NewDuplicate("test entity", "name", ent.Name)
	})

	err := svc.Create(context.Background(), &testEntity{ID: id.New(), Name: "alpha"})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeDuplicate))

	assert.Equal(t, -1, rec.index("insert"), "duplicate must not reach the insert")
	assert.Less(t, rec.index("tx-begin"), rec.index("uniqueness-check"))
}

func TestUpdate_HooksRunInsideTransaction(t *testing.T) {
	rec := &recorder{}
	svc := newRecordingService(rec)
	svc.Hooks().On(BeforeUpdate, func(ctx context.Context, ent *testEntity) error {
		rec.add("uniqueness-check")
		return nil
	})

	require.NoError(t, svc.Update(context.Background(), &testEntity{ID: id.New(), Name: "alpha"}))

	assert.Less(t, rec.index("tx-begin"), rec.index("uniqueness-check"))
	assert.Less(t, rec.index("uniqueness-check"), rec.index("update"))
}

func TestDelete_HooksRunInsideTransaction(t *testing.T) {
	rec := &recorder{}
	svc := newRecordingService(rec)
	svc.Hooks().On(BeforeDelete, func(ctx context.Context, ent *testEntity) error {
		rec.add("reference-check")
		return nil
	})

	require.NoError(t, svc.Delete(context.Background(), id.New()))

	assert.Less(t, rec.index("tx-begin"), rec.index("reference-check"))
	assert.Less(t, rec.index("reference-check"), rec.index("mark"))
}
