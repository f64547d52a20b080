package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stocktrace-api/internal/application/inventory"
	"github.com/jhoicas/stocktrace-api/internal/domain/entity"
)

func TestFormatQty(t *testing.T) {
	cases := map[string]string{
		"5":       "5",
		"25000":   "25.000",
		"1000000": "1.000.000",
		"1234.5":  "1.234,5",
		"-1200":   "-1.200",
		"0.125":   "0,125",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatQty(in), "entrada %s", in)
	}
}

func TestGenerateDocumentSlip_Traslado(t *testing.T) {
	confirmed := time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)
	doc := &entity.Document{
		ID:              "4b0c7a5e-1f8d-4a8e-9e1b-0d3c2b1a0f99",
		Type:            entity.DocTypeTransfer,
		Status:          entity.DocStatusConfirmed,
		Date:            time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		FromWarehouseID: "W1",
		ToWarehouseID:   "W2",
		Reason:          "reposición de sucursal",
		CreatedBy:       "U1",
		ConfirmedBy:     "U2",
		ConfirmedAt:     &confirmed,
	}
	slip := inventory.DocumentSlip{
		Document:          doc,
		FromWarehouseName: "Principal",
		ToWarehouseName:   "Sucursal",
		Lines: []inventory.SlipLine{{
			DocumentLine:     entity.DocumentLine{ProductID: "P1", Quantity: decimal.NewFromInt(1500)},
			SKU:              "TOR-001",
			ProductName:      "Tornillo",
			UnitMeasure:      "UND",
			FromLocationName: "A-01",
			ToLocationName:   "B-01",
		}},
	}

	out, err := NewMarotoPDFGenerator("StockTrace").GenerateDocumentSlip(context.Background(), slip)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe ser un PDF")
}

func TestGenerateDocumentSlip_SinDocumento(t *testing.T) {
	_, err := NewMarotoPDFGenerator("StockTrace").GenerateDocumentSlip(context.Background(), inventory.DocumentSlip{})
	assert.Error(t, err)
}
