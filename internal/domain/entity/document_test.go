package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stocktrace-api/internal/domain"
	"github.com/jhoicas/stocktrace-api/internal/domain/entity"
)

var today = time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)

func TestNewDocument_ReceiptDescartaCamposAjenos(t *testing.T) {
	doc, err := entity.NewDocument(entity.DocTypeReceipt, entity.DocumentHeader{
		Date: today, WarehouseID: "W1", FromWarehouseID: "W9", SupplierName: "ACME", CustomerName: "X",
	}, []entity.DocumentLine{
		{ProductID: "P1", FromLocationID: "L9", ToLocationID: "L1", Quantity: decimal.NewFromInt(5)},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.DocStatusDraft, doc.Status)
	assert.Equal(t, "W1", doc.WarehouseID)
	assert.Empty(t, doc.FromWarehouseID)
	assert.Equal(t, "ACME", doc.SupplierName)
	assert.Empty(t, doc.CustomerName)
	assert.Empty(t, doc.Lines[0].FromLocationID, "RECEIPT no usa ubicación origen")
	assert.Equal(t, "L1", doc.Lines[0].ToLocationID)
}

func TestNewDocument_ValidacionPorTipo(t *testing.T) {
	five := decimal.NewFromInt(5)
	cases := []struct {
		name    string
		docType entity.DocType
		header  entity.DocumentHeader
		lines   []entity.DocumentLine
	}{
		{"delivery sin origen", entity.DocTypeDelivery,
			entity.DocumentHeader{Date: today, WarehouseID: "W1"},
			[]entity.DocumentLine{{ProductID: "P1", ToLocationID: "L1", Quantity: five}}},
		{"transfer sin destino", entity.DocTypeTransfer,
			entity.DocumentHeader{Date: today, FromWarehouseID: "W1", ToWarehouseID: "W2"},
			[]entity.DocumentLine{{ProductID: "P1", FromLocationID: "L1", Quantity: five}}},
		{"transfer sin bodegas", entity.DocTypeTransfer,
			entity.DocumentHeader{Date: today, WarehouseID: "W1"},
			[]entity.DocumentLine{{ProductID: "P1", FromLocationID: "L1", ToLocationID: "L2", Quantity: five}}},
		{"transfer misma ubicación", entity.DocTypeTransfer,
			entity.DocumentHeader{Date: today, FromWarehouseID: "W1", ToWarehouseID: "W1"},
			[]entity.DocumentLine{{ProductID: "P1", FromLocationID: "L1", ToLocationID: "L1", Quantity: five}}},
		{"adjustment sin bodega", entity.DocTypeAdjustment,
			entity.DocumentHeader{Date: today},
			[]entity.DocumentLine{{ProductID: "P1", ToLocationID: "L1", Quantity: five}}},
		{"cantidad cero", entity.DocTypeReceipt,
			entity.DocumentHeader{Date: today, WarehouseID: "W1"},
			[]entity.DocumentLine{{ProductID: "P1", ToLocationID: "L1", Quantity: decimal.Zero}}},
		{"cantidad con más de 4 decimales", entity.DocTypeReceipt,
			entity.DocumentHeader{Date: today, WarehouseID: "W1"},
			[]entity.DocumentLine{{ProductID: "P1", ToLocationID: "L1", Quantity: decimal.RequireFromString("1.23456")}}},
		{"cantidad que redondea a cero", entity.DocTypeReceipt,
			entity.DocumentHeader{Date: today, WarehouseID: "W1"},
			[]entity.DocumentLine{{ProductID: "P1", ToLocationID: "L1", Quantity: decimal.RequireFromString("0.00001")}}},
		{"sin líneas", entity.DocTypeReceipt,
			entity.DocumentHeader{Date: today, WarehouseID: "W1"}, nil},
		{"sin fecha", entity.DocTypeReceipt,
			entity.DocumentHeader{WarehouseID: "W1"},
			[]entity.DocumentLine{{ProductID: "P1", ToLocationID: "L1", Quantity: five}}},
		{"tipo desconocido", entity.DocType("RETURN"),
			entity.DocumentHeader{Date: today, WarehouseID: "W1"},
			[]entity.DocumentLine{{ProductID: "P1", ToLocationID: "L1", Quantity: five}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := entity.NewDocument(tc.docType, tc.header, tc.lines)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestFitsQuantityScale(t *testing.T) {
	assert.True(t, entity.FitsQuantityScale(decimal.RequireFromString("1.2345")))
	assert.True(t, entity.FitsQuantityScale(decimal.RequireFromString("2.50000")), "ceros a la derecha no cuentan")
	assert.True(t, entity.FitsQuantityScale(decimal.NewFromInt(10)))
	assert.False(t, entity.FitsQuantityScale(decimal.RequireFromString("1.23456")))
	assert.False(t, entity.FitsQuantityScale(decimal.RequireFromString("0.00001")))
}

func TestNewDocument_TransferMismaBodegaDistintaUbicacion(t *testing.T) {
	doc, err := entity.NewDocument(entity.DocTypeTransfer, entity.DocumentHeader{
		Date: today, FromWarehouseID: "W1", ToWarehouseID: "W1", WarehouseID: "W1",
	}, []entity.DocumentLine{
		{ProductID: "P1", FromLocationID: "L1", ToLocationID: "L2", Quantity: decimal.NewFromInt(1)},
	})
	require.NoError(t, err)
	assert.Empty(t, doc.WarehouseID)
	assert.Equal(t, "W1", doc.SourceWarehouse())
	assert.Equal(t, "W1", doc.TargetWarehouse())
}

func TestDocumentReplace_ConfirmadoEsInmutable(t *testing.T) {
	doc, err := entity.NewDocument(entity.DocTypeReceipt, entity.DocumentHeader{Date: today, WarehouseID: "W1"},
		[]entity.DocumentLine{{ProductID: "P1", ToLocationID: "L1", Quantity: decimal.NewFromInt(5)}})
	require.NoError(t, err)
	doc.Status = entity.DocStatusConfirmed

	err = doc.Replace(entity.DocumentHeader{Date: today, WarehouseID: "W2"},
		[]entity.DocumentLine{{ProductID: "P2", ToLocationID: "L2", Quantity: decimal.NewFromInt(1)}})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, "W1", doc.WarehouseID)
	assert.Equal(t, "P1", doc.Lines[0].ProductID)
}

func TestDocumentReplace_ErrorNoModificaDraft(t *testing.T) {
	doc, err := entity.NewDocument(entity.DocTypeReceipt, entity.DocumentHeader{Date: today, WarehouseID: "W1"},
		[]entity.DocumentLine{{ProductID: "P1", ToLocationID: "L1", Quantity: decimal.NewFromInt(5)}})
	require.NoError(t, err)

	err = doc.Replace(entity.DocumentHeader{Date: today, WarehouseID: "W2"}, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "W1", doc.WarehouseID)
	assert.Len(t, doc.Lines, 1)
}
