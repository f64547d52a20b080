package main

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadProducts_Latin1(t *testing.T) {
	// "Categoría" y "Ferretería" con í = 0xED en ISO-8859-1
	raw := "C\xf3digo;Nombre;Categor\xeda;Unidad;Stock_M\xednimo\n" +
		"TOR-001;Tornillo 1/4;Ferreter\xeda;und;12,5\n" +
		"TUE-001;Tuerca;;;\n"

	rows, err := readProducts(strings.NewReader(raw), ';', true)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "TOR-001", rows[0].SKU)
	assert.Equal(t, "Ferretería", rows[0].Category)
	assert.Equal(t, "UND", rows[0].UnitMeasure)
	assert.True(t, decimal.RequireFromString("12.5").Equal(rows[0].MinStock))

	assert.Equal(t, "Tuerca", rows[1].Name)
	assert.True(t, rows[1].MinStock.IsZero())
}

func TestReadProducts_UTF8Coma(t *testing.T) {
	raw := "sku,name,min_stock\nA-1,Arandela,3\n"
	rows, err := readProducts(strings.NewReader(raw), ',', false)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Arandela", rows[0].Name)
}

func TestReadProducts_Errores(t *testing.T) {
	_, err := readProducts(strings.NewReader(""), ';', false)
	assert.Error(t, err)

	_, err = readProducts(strings.NewReader("nombre;unidad\nX;UND\n"), ';', false)
	assert.ErrorContains(t, err, "sku")

	_, err = readProducts(strings.NewReader("sku;nombre;stock_minimo\nA;B;muchos\n"), ';', false)
	assert.ErrorContains(t, err, "fila 2")
}
