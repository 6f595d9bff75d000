// Package memory implementa los puertos de persistencia en memoria.
// Pensado para desarrollo local y tests: los datos se pierden al reiniciar.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/jhoicas/stock-management-api/internal/application/ports"
	"github.com/jhoicas/stock-management-api/internal/domain/entity"
	"github.com/jhoicas/stock-management-api/internal/domain/repository"
)

var _ ports.TxRunner = (*Store)(nil)

// Store contiene las tablas en memoria y serializa las transacciones.
type Store struct {
	txMu       sync.Mutex   // una transacción a la vez
	mu         sync.RWMutex // protege los mapas
	categories map[string]entity.Category
	products   map[string]entity.Product
}

// NewStore construye un almacén vacío.
func NewStore() *Store {
	return &Store{
		categories: map[string]entity.Category{},
		products:   map[string]entity.Product{},
	}
}

// Categories devuelve el repositorio de categorías fuera de transacción.
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{s: s} }

// Products devuelve el repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Run ejecuta fn con exclusión mutua respecto de otras transacciones.
// Si fn falla se restauran los datos al estado previo (Rollback).
func (s *Store) Run(ctx context.Context, fn func(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	categories := maps.Clone(s.categories)
	products := maps.Clone(s.products)
	s.mu.RUnlock()

	if err := fn(s.Categories(), s.Products()); err != nil {
		s.mu.Lock()
		s.categories = categories
		s.products = products
		s.mu.Unlock()
		return err
	}
	return nil
}
