package service

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parserUnderTest() *importService {
	return &importService{}
}

func TestParseImportFileCSV(t *testing.T) {
	svc := parserUnderTest()

	t.Run("maps headers case-insensitively", func(t *testing.T) {
		csv := strings.Join([]string{
			"SKU,Name,Unit_Cost,quantity_on_hand",
			"ABC-1,Widget,4.50,120",
		}, "\n")

		records, err := svc.ParseImportFile("products.csv", []byte(csv))
		require.NoError(t, err)
		require.Len(t, records, 1)

		rec := records[0]
		assert.Equal(t, "ABC-1", rec.SKU)
		assert.Equal(t, "Widget", rec.Name)
		require.True(t, rec.UnitCost.Present)
		assert.True(t, rec.UnitCost.Value.Equal(decimal.RequireFromString("4.50")))
		require.True(t, rec.QuantityOnHand.Present)
		assert.Equal(t, 120, rec.QuantityOnHand.Value)
	})

	t.Run("empty cell reads as absent", func(t *testing.T) {
		csv := "sku,name,unit_cost\nABC-1,Widget,\n"

		records, err := svc.ParseImportFile("products.csv", []byte(csv))
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.False(t, records[0].UnitCost.Present)
	})

	t.Run("unknown columns are ignored", func(t *testing.T) {
		csv := "sku,name,internal_notes\nABC-1,Widget,should-not-appear\n"

		records, err := svc.ParseImportFile("products.csv", []byte(csv))
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.False(t, records[0].Notes.Present)
	})

	t.Run("missing sku column fails", func(t *testing.T) {
		csv := "name,unit_cost\nWidget,4.50\n"

		_, err := svc.ParseImportFile("products.csv", []byte(csv))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sku")
	})

	t.Run("bad numeric cell leaves the field absent", func(t *testing.T) {
		csv := "sku,name,unit_cost,lead_time_days\nABC-1,Widget,not-a-number,soon\n"

		records, err := svc.ParseImportFile("products.csv", []byte(csv))
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.False(t, records[0].UnitCost.Present)
		assert.False(t, records[0].LeadTimeDays.Present)
	})

	t.Run("short rows pad with absent fields", func(t *testing.T) {
		csv := "sku,name,unit_cost\nABC-1,Widget\n"

		records, err := svc.ParseImportFile("products.csv", []byte(csv))
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "ABC-1", records[0].SKU)
		assert.False(t, records[0].UnitCost.Present)
	})

	t.Run("is_active accepts true and 1", func(t *testing.T) {
		csv := "sku,is_active\nA,TRUE\nB,1\nC,no\n"

		records, err := svc.ParseImportFile("products.csv", []byte(csv))
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.True(t, records[0].IsActive.Value)
		assert.True(t, records[1].IsActive.Value)
		assert.False(t, records[2].IsActive.Value)
	})
}

func TestParseImportFileUnsupportedType(t *testing.T) {
	_, err := parserUnderTest().ParseImportFile("products.pdf", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}
