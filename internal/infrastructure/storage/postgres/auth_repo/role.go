package auth_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/apperror"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/auth"
	"github.com/Lahiru-2000/inventory-management-system/internal/infrastructure/storage/postgres"
)

// RoleRepo implements auth.RoleRepository. Roles are seeded by migration
// and read-only at runtime.
type RoleRepo struct {
	txManager *postgres.TxManager
}

// NewRoleRepo creates a new role repository.
func NewRoleRepo(txManager *postgres.TxManager) *RoleRepo {
	return &RoleRepo{txManager: txManager}
}

func (r *RoleRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

func (r *RoleRepo) selectRoles() squirrel.SelectBuilder {
	return builder().
		Select("id", "name", "description", "created_at").
		From(rolesTable)
}

// GetByID returns a role by ID.
func (r *RoleRepo) GetByID(ctx context.Context, roleID id.ID) (*auth.Role, error) {
	return r.findOne(ctx, r.selectRoles().Where(squirrel.Eq{"id": roleID}), roleID.String())
}

// GetByName returns a role by name.
func (r *RoleRepo) GetByName(ctx context.Context, name string) (*auth.Role, error) {
	return r.findOne(ctx, r.selectRoles().Where(squirrel.Eq{"name": name}), name)
}

func (r *RoleRepo) findOne(ctx context.Context, q squirrel.SelectBuilder, key string) (*auth.Role, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var role auth.Role
	if err := pgxscan.Get(ctx, r.querier(ctx), &role, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("role", key)
		}
		return nil, fmt.Errorf("get role: %w", err)
	}

	return &role, nil
}

// List returns all roles.
func (r *RoleRepo) List(ctx context.Context) ([]auth.Role, error) {
	q := r.selectRoles().OrderBy("name ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var roles []auth.Role
	if err := pgxscan.Select(ctx, r.querier(ctx), &roles, sql, args...); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}

	return roles, nil
}
