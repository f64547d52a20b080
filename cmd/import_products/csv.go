package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/stocktrace-api/internal/application/dto"
)

// Alias aceptados en la cabecera del CSV (exportes del sistema anterior y plantillas nuevas).
var headerAliases = map[string]string{
	"sku":          "sku",
	"codigo":       "sku",
	"código":       "sku",
	"name":         "name",
	"nombre":       "name",
	"descripcion":  "name",
	"descripción":  "name",
	"category":     "category",
	"categoria":    "category",
	"categoría":    "category",
	"unit_measure": "unit",
	"unidad":       "unit",
	"min_stock":    "min_stock",
	"stock_minimo": "min_stock",
	"stock_mínimo": "min_stock",
}

// readProducts lee el CSV con cabecera. Con latin1 el contenido se decodifica desde
// ISO-8859-1. Las filas se devuelven en orden; la fila 2 del archivo es rows[0].
func readProducts(r io.Reader, comma rune, latin1 bool) ([]dto.CreateProductRequest, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv vacío")
		}
		return nil, fmt.Errorf("leer cabecera: %w", err)
	}
	cols := make(map[string]int)
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if field, ok := headerAliases[key]; ok {
			cols[field] = i
		}
	}
	if _, ok := cols["sku"]; !ok {
		return nil, fmt.Errorf("la cabecera no tiene columna sku/codigo")
	}
	if _, ok := cols["name"]; !ok {
		return nil, fmt.Errorf("la cabecera no tiene columna name/nombre")
	}

	get := func(rec []string, field string) string {
		i, ok := cols[field]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var rows []dto.CreateProductRequest
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("fila %d: %w", line, err)
		}
		in := dto.CreateProductRequest{
			SKU:         get(rec, "sku"),
			Name:        get(rec, "name"),
			Category:    get(rec, "category"),
			UnitMeasure: strings.ToUpper(get(rec, "unit")),
		}
		if s := get(rec, "min_stock"); s != "" {
			// el sistema anterior exporta coma decimal
			q, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
			if err != nil {
				return nil, fmt.Errorf("fila %d: stock mínimo %q inválido", line, s)
			}
			in.MinStock = q
		}
		rows = append(rows, in)
	}
	return rows, nil
}
