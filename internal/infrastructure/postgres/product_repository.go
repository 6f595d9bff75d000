package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-management-api/internal/domain"
	"github.com/jhoicas/stock-management-api/internal/domain/entity"
	"github.com/jhoicas/stock-management-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// productColumns incluye el nombre vigente de la categoría vía JOIN.
var productColumns = []string{
	"p.id::text", "p.name", "p.description", "p.price", "p.quantity", "COALESCE(p.sku, '')",
	"p.category_id::text", "c.name", "p.created_at", "p.updated_at",
}

const productFrom = "products p JOIN categories c ON c.id = p.category_id"

// sortColumns traduce el campo de orden a SQL. El SKU ausente ordena como cadena vacía.
var sortColumns = map[string]string{
	repository.SortByID:        "p.id",
	repository.SortByName:      "p.name",
	repository.SortByPrice:     "p.price",
	repository.SortByQuantity:  "p.quantity",
	repository.SortBySKU:       "COALESCE(p.sku, '')",
	repository.SortByCreatedAt: "p.created_at",
	repository.SortByUpdatedAt: "p.updated_at",
}

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (id, name, description, price, quantity, sku, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.Description, product.Price, product.Quantity,
		nullIfEmpty(product.SKU), product.CategoryID, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		return mapProductWriteError("insert product", product.CategoryID, err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, "get product", selectProducts().Where(squirrel.Eq{"p.id": id}))
}

// GetForUpdate obtiene el producto bloqueando su fila (SELECT FOR UPDATE OF p). Solo dentro de una tx.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, "get product for update",
		selectProducts().Where(squirrel.Eq{"p.id": id}).Suffix("FOR UPDATE OF p"))
}

// FindBySKU obtiene un producto por SKU exacto.
func (r *ProductRepo) FindBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	if sku == "" {
		return nil, nil
	}
	return r.getOne(ctx, "find product by sku", selectProducts().Where(squirrel.Eq{"p.sku": sku}))
}

// ExistsByID indica si existe el producto.
func (r *ProductRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists product: %w", err)
	}
	return exists, nil
}

// ExistsBySKU indica si algún producto tiene ese SKU.
func (r *ProductRepo) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE sku = $1)`, sku).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists product by sku: %w", err)
	}
	return exists, nil
}

// List devuelve todos los productos en el orden por defecto.
func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	return r.list(ctx, "list products", orderBy(selectProducts(), "", ""))
}

// ListPage devuelve una página de todos los productos.
func (r *ProductRepo) ListPage(ctx context.Context, page repository.PageSpec) (repository.Page[*entity.Product], error) {
	return r.page(ctx, "list products page", nil, page)
}

// ListByCategory devuelve una página de los productos de la categoría.
func (r *ProductRepo) ListByCategory(ctx context.Context, categoryID string, page repository.PageSpec) (repository.Page[*entity.Product], error) {
	return r.page(ctx, "list products by category", squirrel.Eq{"p.category_id": categoryID}, page)
}

// CountByCategory número de productos que referencian la categoría.
func (r *ProductRepo) CountByCategory(ctx context.Context, categoryID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE category_id = $1`, categoryID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count products by category: %w", err)
	}
	return n, nil
}

// ListBelowQuantity productos con quantity < threshold, ordenados por quantity y luego nombre.
func (r *ProductRepo) ListBelowQuantity(ctx context.Context, threshold int) ([]*entity.Product, error) {
	query := selectProducts().
		Where(squirrel.Lt{"p.quantity": threshold}).
		OrderBy("p.quantity ASC", "p.name ASC", "p.id ASC")
	return r.list(ctx, "list low stock", query)
}

// Search coincidencia de subcadena (ILIKE) sobre nombre o descripción.
func (r *ProductRepo) Search(ctx context.Context, term string, page repository.PageSpec) (repository.Page[*entity.Product], error) {
	pattern := likePattern(term)
	where := squirrel.Or{
		squirrel.ILike{"p.name": pattern},
		squirrel.ILike{"p.description": pattern},
	}
	return r.page(ctx, "search products", where, page)
}

// Update reemplaza los campos editables del producto.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, quantity = $5, sku = $6, category_id = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.Description, product.Price, product.Quantity,
		nullIfEmpty(product.SKU), product.CategoryID, product.UpdatedAt,
	)
	if err != nil {
		return mapProductWriteError("update product", product.CategoryID, err)
	}
	return nil
}

// UpdateQuantity fija la cantidad. El CHECK quantity >= 0 se traduce a ErrNegativeStock
// y un valor fuera de INTEGER a ErrInvalidInput.
func (r *ProductRepo) UpdateQuantity(ctx context.Context, id string, quantity int, updatedAt time.Time) error {
	_, err := r.q.Exec(ctx, `UPDATE products SET quantity = $2, updated_at = $3 WHERE id = $1`, id, quantity, updatedAt)
	if err != nil {
		switch {
		case isCheckViolation(err):
			return domain.ErrNegativeStock
		case isOutOfRange(err):
			return fmt.Errorf("%w: cantidad fuera de rango", domain.ErrInvalidInput)
		}
		return fmt.Errorf("update product quantity: %w", err)
	}
	return nil
}

// Delete elimina el producto.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

func selectProducts() squirrel.SelectBuilder {
	return psql.Select(productColumns...).From(productFrom)
}

// orderBy aplica el orden pedido; sin campo, created_at asc. Siempre desempata por id.
func orderBy(q squirrel.SelectBuilder, field, dir string) squirrel.SelectBuilder {
	col, ok := sortColumns[field]
	if !ok {
		col = sortColumns[repository.SortByCreatedAt]
	}
	direction := "ASC"
	if dir == repository.SortDesc {
		direction = "DESC"
	}
	if col == "p.id" {
		return q.OrderBy(col + " " + direction)
	}
	return q.OrderBy(col+" "+direction, "p.id ASC")
}

func (r *ProductRepo) page(ctx context.Context, op string, where squirrel.Sqlizer, page repository.PageSpec) (repository.Page[*entity.Product], error) {
	out := repository.Page[*entity.Product]{PageNumber: page.PageNumber, PageSize: page.PageSize}

	count := psql.Select("COUNT(*)").From(productFrom)
	query := selectProducts()
	if where != nil {
		count = count.Where(where)
		query = query.Where(where)
	}
	sqlStr, args, err := count.ToSql()
	if err != nil {
		return out, fmt.Errorf("%s: build count: %w", op, err)
	}
	if err := r.q.QueryRow(ctx, sqlStr, args...).Scan(&out.TotalItems); err != nil {
		return out, fmt.Errorf("%s: count: %w", op, err)
	}

	query = orderBy(query, page.SortField, page.SortDir).
		Limit(uint64(page.PageSize)).
		Offset(uint64(page.Offset()))
	out.Items, err = r.list(ctx, op, query)
	return out, err
}

func (r *ProductRepo) list(ctx context.Context, op string, q squirrel.SelectBuilder) ([]*entity.Product, error) {
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build: %w", op, err)
	}
	rows, err := r.q.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	list := []*entity.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

func (r *ProductRepo) getOne(ctx context.Context, op string, q squirrel.SelectBuilder) (*entity.Product, error) {
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build: %w", op, err)
	}
	p, err := scanProduct(r.q.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Quantity, &p.SKU,
		&p.CategoryID, &p.CategoryName, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// mapProductWriteError traduce violaciones de constraints a errores de dominio.
func mapProductWriteError(op, categoryID string, err error) error {
	switch {
	case isUniqueViolation(err):
		return domain.ErrDuplicate
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: categoría con id '%s'", domain.ErrNotFound, categoryID)
	case isCheckViolation(err):
		if strings.Contains(err.Error(), "quantity") {
			return domain.ErrNegativeStock
		}
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	case isOutOfRange(err):
		return fmt.Errorf("%w: valor numérico fuera de rango", domain.ErrInvalidInput)
	}
	return fmt.Errorf("%s: %w", op, err)
}
