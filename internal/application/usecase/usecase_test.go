package usecase_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stock-management-api/internal/application/dto"
	"github.com/jhoicas/stock-management-api/internal/application/usecase"
	"github.com/jhoicas/stock-management-api/internal/domain"
	"github.com/jhoicas/stock-management-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const missingID = "99999999-9999-9999-9999-999999999999"

type fixture struct {
	store      *memory.Store
	categories *usecase.CategoryUseCase
	products   *usecase.ProductUseCase
}

func newFixture() *fixture {
	s := memory.NewStore()
	return &fixture{
		store:      s,
		categories: usecase.NewCategoryUseCase(s, s.Categories(), s.Products()),
		products:   usecase.NewProductUseCase(s, s.Categories(), s.Products(), 0),
	}
}

func (f *fixture) category(t *testing.T, name string) *dto.CategoryResponse {
	t.Helper()
	c, err := f.categories.Create(context.Background(), dto.CreateCategoryRequest{Name: name, Description: name + " desc"})
	require.NoError(t, err)
	return c
}

func (f *fixture) product(t *testing.T, categoryID, name, sku string, qty int) *dto.ProductResponse {
	t.Helper()
	p, err := f.products.Create(context.Background(), dto.CreateProductRequest{
		Name:       name,
		Price:      decimal.RequireFromString("10.50"),
		Quantity:   qty,
		SKU:        sku,
		CategoryID: categoryID,
	})
	require.NoError(t, err)
	return p
}

// ──────────────────────────────────────────────────────────────────────────────
// Categorías
// ──────────────────────────────────────────────────────────────────────────────

func TestCategoryUseCase_CreateAndDuplicateName(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	c := f.category(t, "Electronics")
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, 0, c.ProductCount)

	// Caso 1: mismo nombre exacto → Conflict
	_, err := f.categories.Create(ctx, dto.CreateCategoryRequest{Name: "Electronics"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Caso 2: la unicidad distingue mayúsculas
	_, err = f.categories.Create(ctx, dto.CreateCategoryRequest{Name: "electronics"})
	assert.NoError(t, err)

	// Caso 3: nombre vacío → InvalidInput
	_, err = f.categories.Create(ctx, dto.CreateCategoryRequest{Name: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCategoryUseCase_GetIncludesLiveCount(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	c := f.category(t, "Office Supplies")
	f.product(t, c.ID, "Notebook", "OFFICE-NB-001", 200)
	p := f.product(t, c.ID, "Pen Set", "OFFICE-PS-002", 150)

	got, err := f.categories.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.ProductCount)

	require.NoError(t, f.products.Delete(ctx, p.ID))
	list, err := f.categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].ProductCount)
}

func TestCategoryUseCase_UpdateRenamesAndKeepsUniqueness(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	a := f.category(t, "Food")
	f.category(t, "Clothing")
	p := f.product(t, a.ID, "Coffee Beans", "FOOD-CF-002", 100)

	// Caso 1: conservar el propio nombre no es conflicto
	_, err := f.categories.Update(ctx, a.ID, dto.UpdateCategoryRequest{Name: "Food", Description: "otra"})
	require.NoError(t, err)

	// Caso 2: nombre de otra categoría → Conflict
	_, err = f.categories.Update(ctx, a.ID, dto.UpdateCategoryRequest{Name: "Clothing"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Caso 3: renombrar se refleja en el producto al leerlo
	_, err = f.categories.Update(ctx, a.ID, dto.UpdateCategoryRequest{Name: "Food & Beverages"})
	require.NoError(t, err)
	got, err := f.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Food & Beverages", got.CategoryName)

	// Caso 4: id inexistente o mal formado → NotFound
	_, err = f.categories.Update(ctx, missingID, dto.UpdateCategoryRequest{Name: "X"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.categories.Update(ctx, "no-es-uuid", dto.UpdateCategoryRequest{Name: "X"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCategoryUseCase_DeleteGuard(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	c := f.category(t, "Electronics")
	p := f.product(t, c.ID, "Laptop Pro", "ELEC-LP-002", 15)

	err := f.categories.Delete(ctx, c.ID)
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.ErrorIs(t, err, domain.ErrCategoryInUse)
	assert.Contains(t, err.Error(), "1 producto(s)")

	require.NoError(t, f.products.Delete(ctx, p.ID))
	require.NoError(t, f.categories.Delete(ctx, c.ID))

	_, err = f.categories.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.categories.Delete(ctx, c.ID), domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestProductUseCase_CreateValidations(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	c := f.category(t, "Electronics")
	f.product(t, c.ID, "Smartphone X", "ELEC-SP-001", 20)

	cases := []struct {
		name string
		in   dto.CreateProductRequest
		kind error
	}{
		{"sku duplicado", dto.CreateProductRequest{Name: "Otro", SKU: "ELEC-SP-001", CategoryID: c.ID}, domain.ErrConflict},
		{"categoría inexistente", dto.CreateProductRequest{Name: "Otro", CategoryID: missingID}, domain.ErrNotFound},
		{"precio negativo", dto.CreateProductRequest{Name: "Otro", Price: decimal.NewFromInt(-1), CategoryID: c.ID}, domain.ErrInvalidInput},
		{"cantidad negativa", dto.CreateProductRequest{Name: "Otro", Quantity: -1, CategoryID: c.ID}, domain.ErrInvalidInput},
		{"cantidad fuera de INTEGER", dto.CreateProductRequest{Name: "Otro", Quantity: math.MaxInt32 + 1, CategoryID: c.ID}, domain.ErrInvalidInput},
		{"precio con tres decimales", dto.CreateProductRequest{Name: "Otro", Price: decimal.RequireFromString("9.999"), CategoryID: c.ID}, domain.ErrInvalidInput},
		{"precio fuera de NUMERIC(12,2)", dto.CreateProductRequest{Name: "Otro", Price: decimal.New(1, 10), CategoryID: c.ID}, domain.ErrInvalidInput},
		{"sin nombre", dto.CreateProductRequest{CategoryID: c.ID}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.products.Create(ctx, tc.in)
			assert.ErrorIs(t, err, tc.kind)
		})
	}

	// Dos productos sin SKU no chocan
	f.product(t, c.ID, "Genérico 1", "", 1)
	f.product(t, c.ID, "Genérico 2", "", 1)
}

func TestProductUseCase_UpdateReplacesFields(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	a := f.category(t, "Electronics")
	b := f.category(t, "Office Supplies")
	p := f.product(t, a.ID, "Notebook", "NB-1", 3)
	f.product(t, a.ID, "Other", "NB-2", 3)

	got, err := f.products.Update(ctx, p.ID, dto.UpdateProductRequest{
		Name:       "Notebook A5",
		Price:      decimal.RequireFromString("4.99"),
		Quantity:   7,
		SKU:        "NB-1",
		CategoryID: b.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Notebook A5", got.Name)
	assert.Equal(t, 7, got.Quantity)
	assert.Equal(t, "Office Supplies", got.CategoryName)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("4.99")))
	assert.Equal(t, p.CreatedAt, got.CreatedAt)

	_, err = f.products.Update(ctx, p.ID, dto.UpdateProductRequest{Name: "x", SKU: "NB-2", CategoryID: b.ID})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestProductUseCase_QueriesAndPaging(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	a := f.category(t, "Electronics")
	b := f.category(t, "Clothing")
	f.product(t, a.ID, "Wireless Headphones", "ELEC-WH-003", 50)
	f.product(t, a.ID, "Laptop Pro", "ELEC-LP-002", 9)
	f.product(t, b.ID, "T-Shirt", "CLOTH-TS-002", 10)

	all, err := f.products.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	page, err := f.products.ListPage(ctx, dto.PageRequest{Size: 2, Sort: "name,asc"})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Page.TotalItems)
	assert.Equal(t, 2, page.Page.TotalPages)
	assert.Equal(t, "Laptop Pro", page.Items[0].Name)

	_, err = f.products.ListPage(ctx, dto.PageRequest{Sort: "color"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.products.ListPage(ctx, dto.PageRequest{Page: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	byCat, err := f.products.ListByCategory(ctx, a.ID, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, byCat.Items, 2)
	assert.Equal(t, dto.DefaultPageSize, byCat.Page.Size)
	_, err = f.products.ListByCategory(ctx, missingID, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	found, err := f.products.Search(ctx, "laptop", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, found.Items, 1)

	// Término vacío: coincide con todos los productos.
	everything, err := f.products.Search(ctx, "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, everything.Page.TotalItems)

	low, err := f.products.ListLowStock(ctx, nil)
	require.NoError(t, err)
	require.Len(t, low, 1, "umbral por defecto 10, estricto")
	assert.Equal(t, "Laptop Pro", low[0].Name)

	threshold := 11
	low, err = f.products.ListLowStock(ctx, &threshold)
	require.NoError(t, err)
	assert.Len(t, low, 2)

	_, err = f.products.GetByID(ctx, missingID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.products.Delete(ctx, missingID), domain.ErrNotFound)
}

// Borrar una categoría mientras se crean productos en ella nunca deja productos huérfanos:
// o el borrado falla con Conflict o la creación falla con NotFound.
func TestCategoryUseCase_DeleteRacesProductCreate(t *testing.T) {
	ctx := context.Background()
	for i := 0; i < 50; i++ {
		f := newFixture()
		c := f.category(t, "Volatile")

		var (
			g                    errgroup.Group
			deleteErr, createErr error
		)
		g.Go(func() error {
			deleteErr = f.categories.Delete(ctx, c.ID)
			return nil
		})
		g.Go(func() error {
			_, createErr = f.products.Create(ctx, dto.CreateProductRequest{Name: "Item", CategoryID: c.ID})
			return nil
		})
		require.NoError(t, g.Wait())

		switch {
		case deleteErr == nil:
			assert.ErrorIs(t, createErr, domain.ErrNotFound)
		case errors.Is(deleteErr, domain.ErrConflict):
			assert.NoError(t, createErr)
		default:
			t.Fatalf("error inesperado al borrar: %v", deleteErr)
		}

		products, err := f.products.List(ctx)
		require.NoError(t, err)
		for _, p := range products {
			got, err := f.categories.GetByID(ctx, p.CategoryID)
			require.NoError(t, err, "producto %s sin categoría", p.ID)
			assert.Equal(t, 1, got.ProductCount)
		}
	}
}
