package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-api/internal/application/sales"
	"github.com/jhoicas/retail-api/internal/domain/entity"
	"github.com/jhoicas/retail-api/internal/infrastructure/pdf"
)

// ─── Formato de montos ───────────────────────────────────────────────────────

func TestMoney_SeparadorDeMiles(t *testing.T) {
	cases := map[string]string{
		"0":         "$0",
		"990":       "$990",
		"25000":     "$25.000",
		"1234567.4": "$1.234.567",
		"-1500":     "-$1.500",
	}
	for in, want := range cases {
		assert.Equal(t, want, pdf.Money(decimal.RequireFromString(in)), in)
	}
}

// ─── Generación ──────────────────────────────────────────────────────────────

func TestGenerateReceiptPDF_DevuelveDocumentoPDF(t *testing.T) {
	sale := &entity.Sale{
		ID:            "0b9c1c6e-4c1f-4a8e-9d2b-1f0e2a3b4c5d",
		CompanyID:     "c1",
		BranchID:      "b1",
		PaymentMethod: entity.PaymentDebit,
		Total:         decimal.NewFromInt(3980),
		CreatedAt:     time.Date(2026, 6, 15, 12, 30, 0, 0, time.UTC),
	}
	lines := []sales.ReceiptLine{
		{
			SaleItem:    entity.SaleItem{Line: 1, ProductID: "p1", Quantity: 2, UnitPrice: decimal.NewFromInt(990)},
			SKU:         "LECHE-1L",
			ProductName: "Leche entera 1L",
		},
		{
			SaleItem:    entity.SaleItem{Line: 2, ProductID: "p2", Quantity: 1, UnitPrice: decimal.NewFromInt(2000)},
			ProductName: "Pan amasado",
		},
	}

	out, err := pdf.NewMarotoPDFGenerator().GenerateReceiptPDF(
		context.Background(),
		sale,
		&entity.Company{ID: "c1", Name: "Almacén Don Pepe", RUT: "12345678-5"},
		&entity.Branch{ID: "b1", CompanyID: "c1", Name: "Centro"},
		lines,
	)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
