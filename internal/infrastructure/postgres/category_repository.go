package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-management-api/internal/domain"
	"github.com/jhoicas/stock-management-api/internal/domain/entity"
	"github.com/jhoicas/stock-management-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

const categoryColumns = `id::text, name, description, created_at, updated_at`

// CategoryRepo implementación del puerto CategoryRepository sobre PostgreSQL (usable con pool o tx).
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador de persistencia para categorías. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// Create persiste una nueva categoría.
func (r *CategoryRepo) Create(ctx context.Context, category *entity.Category) error {
	query := `
		INSERT INTO categories (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query,
		category.ID, category.Name, category.Description, category.CreatedAt, category.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetByID obtiene una categoría por ID.
func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	return r.getOne(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, "get category", id)
}

// GetForUpdate obtiene la categoría bloqueando la fila (SELECT FOR UPDATE). Solo dentro de una tx.
func (r *CategoryRepo) GetForUpdate(ctx context.Context, id string) (*entity.Category, error) {
	return r.getOne(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1 FOR UPDATE`, "get category for update", id)
}

// GetForShare obtiene la categoría con bloqueo compartido (SELECT FOR SHARE). Solo dentro de una tx.
func (r *CategoryRepo) GetForShare(ctx context.Context, id string) (*entity.Category, error) {
	return r.getOne(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1 FOR SHARE`, "get category for share", id)
}

// FindByName obtiene una categoría por nombre exacto.
func (r *CategoryRepo) FindByName(ctx context.Context, name string) (*entity.Category, error) {
	return r.getOne(ctx, `SELECT `+categoryColumns+` FROM categories WHERE name = $1`, "find category by name", name)
}

// ExistsByID indica si existe la categoría.
func (r *CategoryRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists category: %w", err)
	}
	return exists, nil
}

// ExistsByName indica si existe una categoría con ese nombre (sensible a mayúsculas).
func (r *CategoryRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM categories WHERE name = $1)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists category by name: %w", err)
	}
	return exists, nil
}

// ListWithCounts lista las categorías por nombre con su conteo de productos en una sola consulta.
func (r *CategoryRepo) ListWithCounts(ctx context.Context) ([]*entity.CategoryWithCount, error) {
	query := `
		SELECT c.id::text, c.name, c.description, c.created_at, c.updated_at, COUNT(p.id)
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id
		GROUP BY c.id
		ORDER BY c.name, c.id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	list := []*entity.CategoryWithCount{}
	for rows.Next() {
		var c entity.CategoryWithCount
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt, &c.ProductCount); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return list, nil
}

// Update actualiza nombre, descripción y fecha de actualización.
func (r *CategoryRepo) Update(ctx context.Context, category *entity.Category) error {
	query := `UPDATE categories SET name = $2, description = $3, updated_at = $4 WHERE id = $1`
	_, err := r.q.Exec(ctx, query, category.ID, category.Name, category.Description, category.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// Delete elimina la categoría. La FK ON DELETE RESTRICT se traduce a ErrCategoryInUse.
func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrCategoryInUse
		}
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func (r *CategoryRepo) getOne(ctx context.Context, query, op string, args ...any) (*entity.Category, error) {
	var c entity.Category
	err := r.q.QueryRow(ctx, query, args...).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &c, nil
}
