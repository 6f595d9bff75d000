// Package pdf implementa el reporte de stock bajo en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + umbral     │  Fecha de generación         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Producto | Categoría | Cant. | Precio          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: N productos / unidades totales                     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/stock-management-api/internal/application/ports"
	"github.com/jhoicas/stock-management-api/internal/domain/entity"
)

var _ ports.LowStockReportGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa ports.LowStockReportGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	appName string
	now     func() time.Time
}

// NewMarotoPDFGenerator construye el generador. appName aparece como autor del documento.
func NewMarotoPDFGenerator(appName string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{appName: appName, now: time.Now}
}

// GenerateLowStockReport genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateLowStockReport(
	_ context.Context,
	threshold int,
	products []*entity.Product,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de stock bajo", true).
		WithAuthor(g.appName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(threshold, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	if len(products) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("No hay productos por debajo del umbral.", props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 3,
			}),
		)))
	} else {
		m.AddRows(tableHeaderRow())
		m.AddRows(tableRows(products)...)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(products))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(threshold int, at time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("REPORTE DE STOCK BAJO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Productos con cantidad menor a %d", threshold), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+at.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Producto", 4, align.Left),
		h("Categoría", 3, align.Left),
		h("Cant.", 1, align.Center),
		h("Precio", 2, align.Right),
	)
}

func tableRows(products []*entity.Product) []core.Row {
	result := make([]core.Row, 0, len(products))
	for _, p := range products {
		qtyProps := props.Text{Size: 8, Align: align.Center, Top: 1}
		if p.Quantity == 0 {
			qtyProps.Style = fontstyle.Bold
			qtyProps.Color = colorAlert
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(nonEmpty(p.SKU, "-"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(p.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(p.CategoryName, props.Text{Size: 8, Top: 1, Left: 1, Color: colorGray})),
			col.New(1).Add(text.New(strconv.Itoa(p.Quantity), qtyProps)),
			col.New(2).Add(text.New("$"+formatMoney(p.Price.StringFixed(2)), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1,
			})),
		))
	}
	return result
}

func summaryRow(products []*entity.Product) core.Row {
	units := 0
	for _, p := range products {
		units += p.Quantity
	}
	return row.New(10).Add(
		col.New(12).Add(text.New(
			fmt.Sprintf("Total: %d producto(s), %d unidad(es) en existencia", len(products), units),
			props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2, Right: 1},
		)),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney inserta separadores de miles en la parte entera y conserva los decimales.
// Ej: "1499.99" → "1,499.99", "1000000.00" → "1,000,000.00"
func formatMoney(s string) string {
	intPart, frac, hasFrac := strings.Cut(s, ".")
	n := len(intPart)
	if n > 3 {
		buf := make([]byte, 0, n+n/3)
		for i, c := range []byte(intPart) {
			if i > 0 && (n-i)%3 == 0 {
				buf = append(buf, ',')
			}
			buf = append(buf, c)
		}
		intPart = string(buf)
	}
	if hasFrac {
		return intPart + "." + frac
	}
	return intPart
}
