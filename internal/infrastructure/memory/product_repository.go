package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/jhoicas/stock-management-api/internal/domain"
	"github.com/jhoicas/stock-management-api/internal/domain/entity"
	"github.com/jhoicas/stock-management-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct {
	s *Store
}

// Create persiste un producto. ErrDuplicate si el SKU existe; ErrNotFound si la categoría no existe.
func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.checkConstraints(product); err != nil {
		return err
	}
	stored := *product
	stored.CategoryName = ""
	r.s.products[product.ID] = stored
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return r.withCategory(p), nil
}

// GetForUpdate equivale a GetByID: Store.Run ya serializa las transacciones.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// FindBySKU obtiene un producto por SKU exacto.
func (r *ProductRepo) FindBySKU(_ context.Context, sku string) (*entity.Product, error) {
	if sku == "" {
		return nil, nil
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.products {
		if p.SKU == sku {
			return r.withCategory(p), nil
		}
	}
	return nil, nil
}

// ExistsByID indica si existe el producto.
func (r *ProductRepo) ExistsByID(_ context.Context, id string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.products[id]
	return ok, nil
}

// ExistsBySKU indica si algún producto tiene ese SKU.
func (r *ProductRepo) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	p, err := r.FindBySKU(ctx, sku)
	return p != nil, err
}

// List todos los productos en el orden por defecto.
func (r *ProductRepo) List(_ context.Context) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := r.filter(func(entity.Product) bool { return true })
	sortProducts(list, "", "")
	return list, nil
}

// ListPage una página de todos los productos.
func (r *ProductRepo) ListPage(_ context.Context, page repository.PageSpec) (repository.Page[*entity.Product], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return paginate(r.filter(func(entity.Product) bool { return true }), page), nil
}

// ListByCategory una página de los productos de la categoría.
func (r *ProductRepo) ListByCategory(_ context.Context, categoryID string, page repository.PageSpec) (repository.Page[*entity.Product], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return paginate(r.filter(func(p entity.Product) bool { return p.CategoryID == categoryID }), page), nil
}

// CountByCategory número de productos que referencian la categoría.
func (r *ProductRepo) CountByCategory(_ context.Context, categoryID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, p := range r.s.products {
		if p.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

// ListBelowQuantity productos con quantity < threshold, por quantity y luego nombre.
func (r *ProductRepo) ListBelowQuantity(_ context.Context, threshold int) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := r.filter(func(p entity.Product) bool { return p.Quantity < threshold })
	slices.SortFunc(list, func(a, b *entity.Product) int {
		return cmp.Or(cmp.Compare(a.Quantity, b.Quantity), cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return list, nil
}

// Search subcadena sin distinguir mayúsculas (case folding Unicode) en nombre o descripción.
func (r *ProductRepo) Search(_ context.Context, term string, page repository.PageSpec) (repository.Page[*entity.Product], error) {
	// cases.Caser no es seguro entre goroutines: uno por llamada.
	fold := cases.Fold()
	needle := fold.String(term)
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := r.filter(func(p entity.Product) bool {
		return strings.Contains(fold.String(p.Name), needle) || strings.Contains(fold.String(p.Description), needle)
	})
	return paginate(list, page), nil
}

// Update reemplaza los campos editables del producto.
func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.products[product.ID]
	if !ok {
		return nil
	}
	if err := r.checkConstraints(product); err != nil {
		return err
	}
	stored := *product
	stored.CategoryName = ""
	stored.CreatedAt = current.CreatedAt
	r.s.products[product.ID] = stored
	return nil
}

// UpdateQuantity fija la cantidad y la fecha de actualización.
func (r *ProductRepo) UpdateQuantity(_ context.Context, id string, quantity int, updatedAt time.Time) error {
	if quantity < 0 {
		return domain.ErrNegativeStock
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil
	}
	p.Quantity = quantity
	p.UpdatedAt = updatedAt
	r.s.products[id] = p
	return nil
}

// Delete elimina el producto.
func (r *ProductRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.products, id)
	return nil
}

// checkConstraints replica las restricciones del esquema SQL. Requiere mu tomado.
func (r *ProductRepo) checkConstraints(product *entity.Product) error {
	if product.Quantity < 0 {
		return domain.ErrNegativeStock
	}
	if _, ok := r.s.categories[product.CategoryID]; !ok {
		return fmt.Errorf("%w: categoría con id '%s'", domain.ErrNotFound, product.CategoryID)
	}
	if product.SKU == "" {
		return nil
	}
	for id, p := range r.s.products {
		if id != product.ID && p.SKU == product.SKU {
			return domain.ErrDuplicate
		}
	}
	return nil
}

// withCategory copia el producto resolviendo el nombre vigente de su categoría. Requiere mu tomado.
func (r *ProductRepo) withCategory(p entity.Product) *entity.Product {
	p.CategoryName = r.s.categories[p.CategoryID].Name
	return &p
}

func (r *ProductRepo) filter(keep func(entity.Product) bool) []*entity.Product {
	list := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		if keep(p) {
			list = append(list, r.withCategory(p))
		}
	}
	return list
}

func paginate(list []*entity.Product, page repository.PageSpec) repository.Page[*entity.Product] {
	sortProducts(list, page.SortField, page.SortDir)
	out := repository.Page[*entity.Product]{
		Items:      []*entity.Product{},
		PageNumber: page.PageNumber,
		PageSize:   page.PageSize,
		TotalItems: len(list),
	}
	from := page.Offset()
	if page.PageSize <= 0 || from >= len(list) {
		return out
	}
	to := min(from+page.PageSize, len(list))
	out.Items = list[from:to]
	return out
}

// sortProducts ordena por el campo indicado; el desempate siempre es id ascendente.
func sortProducts(list []*entity.Product, field, dir string) {
	if field == "" {
		field = repository.SortByCreatedAt
	}
	sign := 1
	if dir == repository.SortDesc {
		sign = -1
	}
	slices.SortFunc(list, func(a, b *entity.Product) int {
		var c int
		switch field {
		case repository.SortByName:
			c = cmp.Compare(a.Name, b.Name)
		case repository.SortByPrice:
			c = a.Price.Cmp(b.Price)
		case repository.SortByQuantity:
			c = cmp.Compare(a.Quantity, b.Quantity)
		case repository.SortBySKU:
			c = cmp.Compare(a.SKU, b.SKU)
		case repository.SortByUpdatedAt:
			c = a.UpdatedAt.Compare(b.UpdatedAt)
		case repository.SortByCreatedAt:
			c = a.CreatedAt.Compare(b.CreatedAt)
		}
		return cmp.Or(sign*c, cmp.Compare(a.ID, b.ID))
	})
}
