// Package pdf genera el comprobante imprimible de un documento de inventario
// (recepción, entrega, traslado o ajuste).
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tipo de documento + N°  │  Estado + Fecha          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  BODEGAS: origen / destino según el tipo                    │
//	│  TERCERO: proveedor, cliente o motivo                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Producto | Desde | Hacia | Cant | Unidad      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con el ID + creado/confirmado por               │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/jhoicas/stocktrace-api/internal/application/inventory"
	"github.com/jhoicas/stocktrace-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDraft   = &props.Color{Red: 190, Green: 110, Blue: 0}
)

var docTitles = map[entity.DocType]string{
	entity.DocTypeReceipt:    "RECEPCIÓN DE MERCANCÍA",
	entity.DocTypeDelivery:   "ENTREGA DE MERCANCÍA",
	entity.DocTypeTransfer:   "TRASLADO ENTRE BODEGAS",
	entity.DocTypeAdjustment: "AJUSTE DE INVENTARIO",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa inventory.SlipPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	appName string
}

// NewMarotoPDFGenerator construye el generador. appName va como autor y en el encabezado.
func NewMarotoPDFGenerator(appName string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{appName: appName}
}

// GenerateDocumentSlip genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateDocumentSlip(_ context.Context, slip inventory.DocumentSlip) ([]byte, error) {
	if slip.Document == nil {
		return nil, fmt.Errorf("pdf: documento vacío")
	}
	doc := slip.Document

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title(doc.Type), true).
		WithAuthor(g.appName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.appName, doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(warehousesRow(slip))
	if r, ok := counterpartRow(doc); ok {
		m.AddRows(r)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableLineRows(slip.Lines)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(doc))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func title(t entity.DocType) string {
	if s, ok := docTitles[t]; ok {
		return s
	}
	return string(t)
}

// headerRow: aplicación + tipo (izq) y N°, estado y fecha (der).
func headerRow(appName string, doc *entity.Document) core.Row {
	status, statusColor := "BORRADOR", colorDraft
	if doc.Status == entity.DocStatusConfirmed {
		status, statusColor = "CONFIRMADO", colorPrimary
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(appName, "StockTrace"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(title(doc.Type), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(status, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: statusColor, Top: 1,
			}),
			text.New("N° "+shortID(doc.ID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+doc.Date.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// warehousesRow: bodega única o par origen/destino en traslados.
func warehousesRow(slip inventory.DocumentSlip) core.Row {
	var detail string
	if slip.Document.Type == entity.DocTypeTransfer {
		detail = fmt.Sprintf("Origen: %s   →   Destino: %s",
			nonEmpty(slip.FromWarehouseName, "—"),
			nonEmpty(slip.ToWarehouseName, "—"))
	} else {
		detail = "Bodega: " + nonEmpty(slip.WarehouseName, "—")
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("BODEGA", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(detail, props.Text{Size: 9, Top: 6}),
		),
	)
}

// counterpartRow: proveedor, cliente o motivo según el tipo. false si no hay dato.
func counterpartRow(doc *entity.Document) (core.Row, bool) {
	var label, value string
	switch doc.Type {
	case entity.DocTypeReceipt:
		label, value = "PROVEEDOR", doc.SupplierName
	case entity.DocTypeDelivery:
		label, value = "CLIENTE", doc.CustomerName
	default:
		label, value = "MOTIVO", doc.Reason
	}
	if value == "" {
		return nil, false
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New(label, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
		),
	), true
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
		h("Desde", 2, align.Left),
		h("Hacia", 2, align.Left),
		h("Cant.", 1, align.Right),
		h("Und.", 1, align.Center),
	)
}

// tableLineRows: una fila por línea del documento.
func tableLineRows(lines []inventory.SlipLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			cell(nonEmpty(l.SKU, "—"), 2, align.Left),
			cell(l.ProductName, 4, align.Left),
			cell(nonEmpty(l.FromLocationName, "—"), 2, align.Left),
			cell(nonEmpty(l.ToLocationName, "—"), 2, align.Left),
			cell(formatQty(l.Quantity.String()), 1, align.Right),
			cell(l.UnitMeasure, 1, align.Center),
		))
	}
	return result
}

// footerRow: QR con el ID completo para escanear en bodega, más auditoría.
func footerRow(doc *entity.Document) core.Row {
	audit := "Creado por: " + nonEmpty(doc.CreatedBy, "—")
	if doc.ConfirmedAt != nil {
		audit += fmt.Sprintf("\nConfirmado por: %s el %s",
			nonEmpty(doc.ConfirmedBy, "—"), doc.ConfirmedAt.Format("02/01/2006 15:04"))
	} else {
		audit += "\nPendiente de confirmación: no afecta el stock."
	}
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(doc.ID, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New(doc.ID, props.Text{Size: 7, Top: 4, Left: 3, Color: colorGray}),
			text.New(audit, props.Text{Size: 8, Top: 12, Left: 3}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func shortID(id string) string {
	if len(id) > 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}

// formatQty inserta puntos de miles y usa coma decimal.
// Ej: "25000" → "25.000", "1234.5" → "1.234,5", "-1200" → "-1.200"
func formatQty(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	out := sign + string(buf)
	if hasFrac {
		out += "," + frac
	}
	return out
}
