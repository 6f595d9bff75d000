package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/jhoicas/stock-management-api/internal/domain"
	"github.com/jhoicas/stock-management-api/internal/domain/entity"
	"github.com/jhoicas/stock-management-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación en memoria de CategoryRepository.
type CategoryRepo struct {
	s *Store
}

// Create persiste una categoría. ErrDuplicate si el nombre ya existe.
func (r *CategoryRepo) Create(_ context.Context, category *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.categories {
		if c.Name == category.Name {
			return domain.ErrDuplicate
		}
	}
	r.s.categories[category.ID] = *category
	return nil
}

// GetByID obtiene una categoría por ID.
func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// GetForUpdate equivale a GetByID: Store.Run ya serializa las transacciones.
func (r *CategoryRepo) GetForUpdate(ctx context.Context, id string) (*entity.Category, error) {
	return r.GetByID(ctx, id)
}

// GetForShare equivale a GetByID: Store.Run ya serializa las transacciones.
func (r *CategoryRepo) GetForShare(ctx context.Context, id string) (*entity.Category, error) {
	return r.GetByID(ctx, id)
}

// FindByName obtiene una categoría por nombre exacto.
func (r *CategoryRepo) FindByName(_ context.Context, name string) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.categories {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, nil
}

// ExistsByID indica si existe la categoría.
func (r *CategoryRepo) ExistsByID(_ context.Context, id string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.categories[id]
	return ok, nil
}

// ExistsByName indica si existe una categoría con ese nombre exacto.
func (r *CategoryRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	c, err := r.FindByName(ctx, name)
	return c != nil, err
}

// ListWithCounts lista categorías por nombre con el conteo actual de productos.
func (r *CategoryRepo) ListWithCounts(_ context.Context) ([]*entity.CategoryWithCount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	counts := make(map[string]int, len(r.s.categories))
	for _, p := range r.s.products {
		counts[p.CategoryID]++
	}
	list := make([]*entity.CategoryWithCount, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		list = append(list, &entity.CategoryWithCount{Category: c, ProductCount: counts[c.ID]})
	}
	slices.SortFunc(list, func(a, b *entity.CategoryWithCount) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return list, nil
}

// Update actualiza nombre y descripción. ErrDuplicate si el nombre pertenece a otra categoría.
func (r *CategoryRepo) Update(_ context.Context, category *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[category.ID]; !ok {
		return nil
	}
	for id, c := range r.s.categories {
		if id != category.ID && c.Name == category.Name {
			return domain.ErrDuplicate
		}
	}
	r.s.categories[category.ID] = *category
	return nil
}

// Delete elimina la categoría. ErrCategoryInUse si algún producto la referencia (ON DELETE RESTRICT).
func (r *CategoryRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.CategoryID == id {
			return domain.ErrCategoryInUse
		}
	}
	delete(r.s.categories, id)
	return nil
}
