package maintenance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/stock-management-api/internal/application/dto"
	"github.com/jhoicas/stock-management-api/internal/application/usecase"
	"github.com/jhoicas/stock-management-api/internal/domain"
	"github.com/jhoicas/stock-management-api/pkg/logger"
)

// Summary resultado de una carga.
type Summary struct {
	Categories int // categorías creadas
	Products   int // productos creados
	Skipped    int // entidades que ya existían
}

// Seeder carga y reinicia datos de ejemplo.
type Seeder struct {
	categories *usecase.CategoryUseCase
	products   *usecase.ProductUseCase
	log        *logger.Logger
}

// NewSeeder construye el seeder.
func NewSeeder(categories *usecase.CategoryUseCase, products *usecase.ProductUseCase, log *logger.Logger) *Seeder {
	return &Seeder{categories: categories, products: products, log: log}
}

// Seed crea las categorías y productos del dataset. Los que ya existen (mismo nombre de
// categoría o mismo SKU) se omiten, así que es idempotente.
func (s *Seeder) Seed(ctx context.Context, ds *Dataset) (Summary, error) {
	var sum Summary

	existing, err := s.categories.List(ctx)
	if err != nil {
		return sum, err
	}
	ids := make(map[string]string, len(existing))
	for _, c := range existing {
		ids[c.Name] = c.ID
	}

	for _, cs := range ds.Categories {
		id, ok := ids[cs.Name]
		if ok {
			sum.Skipped++
		} else {
			c, err := s.categories.Create(ctx, dto.CreateCategoryRequest{Name: cs.Name, Description: cs.Description})
			if err != nil {
				return sum, fmt.Errorf("categoría %q: %w", cs.Name, err)
			}
			id = c.ID
			ids[cs.Name] = id
			sum.Categories++
			s.log.Debug().Str("category", cs.Name).Str("id", id).Msg("categoría creada")
		}

		for _, ps := range cs.Products {
			price, err := ps.price()
			if err != nil {
				return sum, fmt.Errorf("producto %q: %w", ps.Name, domain.ErrInvalidInput)
			}
			p, err := s.products.Create(ctx, dto.CreateProductRequest{
				Name:        ps.Name,
				Description: ps.Description,
				Price:       price,
				Quantity:    ps.Quantity,
				SKU:         ps.SKU,
				CategoryID:  id,
			})
			if errors.Is(err, domain.ErrDuplicate) {
				sum.Skipped++
				continue
			}
			if err != nil {
				return sum, fmt.Errorf("producto %q: %w", ps.Name, err)
			}
			sum.Products++
			s.log.Debug().Str("product", p.Name).Str("sku", p.SKU).Msg("producto creado")
		}
	}

	s.log.Info().
		Int("categories", sum.Categories).
		Int("products", sum.Products).
		Int("skipped", sum.Skipped).
		Msg("datos de ejemplo cargados")
	return sum, nil
}

// Clear elimina todos los productos y luego todas las categorías con las operaciones ordinarias.
func (s *Seeder) Clear(ctx context.Context) error {
	products, err := s.products.List(ctx)
	if err != nil {
		return err
	}
	for _, p := range products {
		if err := s.products.Delete(ctx, p.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("eliminar producto %s: %w", p.ID, err)
		}
	}
	categories, err := s.categories.List(ctx)
	if err != nil {
		return err
	}
	for _, c := range categories {
		if err := s.categories.Delete(ctx, c.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("eliminar categoría %q: %w", c.Name, err)
		}
	}
	s.log.Info().Int("products", len(products)).Int("categories", len(categories)).Msg("datos eliminados")
	return nil
}

// Reset vacía el inventario y vuelve a cargar el dataset.
func (s *Seeder) Reset(ctx context.Context, ds *Dataset) (Summary, error) {
	if err := s.Clear(ctx); err != nil {
		return Summary{}, err
	}
	return s.Seed(ctx, ds)
}

// ResetEvery ejecuta Reset de inmediato y luego cada interval hasta que ctx se cancele.
// Un reinicio en curso termina aunque ctx se cancele. Un fallo se registra y no detiene el ciclo.
func (s *Seeder) ResetEvery(ctx context.Context, interval time.Duration, ds *Dataset) error {
	if interval <= 0 {
		return fmt.Errorf("%w: el intervalo debe ser positivo", domain.ErrInvalidInput)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := s.Reset(context.WithoutCancel(ctx), ds); err != nil {
			s.log.Error().Err(err).Msg("reinicio programado de datos")
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
