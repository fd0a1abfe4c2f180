package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"partshub-backend/internal/domains/product/model"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Recognized file-import columns. Header matching is case-insensitive.
var fileColumns = map[string]bool{
	"sku": true, "name": true, "description": true, "category": true,
	"manufacturer": true, "supplier": true, "unit_cost": true, "list_price": true,
	"weight_kg": true, "length_cm": true, "width_cm": true, "height_cm": true,
	"lead_time_days": true, "min_order_quantity": true, "reorder_point": true,
	"quantity_on_hand": true, "barcode": true, "unit_of_measure": true,
	"country_of_origin": true, "hs_code": true, "notes": true, "is_active": true,
}

// ParseImportFile converts an uploaded CSV or XLSX file into import
// records. An empty cell reads as absent, so file imports get the same
// leave-untouched update semantics as JSON batches.
func (s *importService) ParseImportFile(filename string, data []byte) ([]model.ImportRecord, error) {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".csv"):
		return parseCSV(data)
	case strings.HasSuffix(lower, ".xlsx"):
		return parseXLSX(data)
	default:
		return nil, fmt.Errorf("unsupported file type, expected .csv or .xlsx")
	}
}

func parseCSV(data []byte) ([]model.ImportRecord, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1 // rows may omit trailing cells

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns, err := normalizeHeader(header)
	if err != nil {
		return nil, err
	}

	records := make([]model.ImportRecord, 0)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", len(records)+2, err)
		}
		records = append(records, rowToRecord(columns, row))
	}

	return records, nil
}

func parseXLSX(data []byte) ([]model.ImportRecord, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("XLSX file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read XLSX rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("XLSX file is empty")
	}

	columns, err := normalizeHeader(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]model.ImportRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, rowToRecord(columns, row))
	}

	return records, nil
}

func normalizeHeader(header []string) ([]string, error) {
	columns := make([]string, len(header))
	hasSKU := false
	for i, h := range header {
		col := strings.ToLower(strings.TrimSpace(h))
		if !fileColumns[col] {
			col = "" // unknown columns are ignored
		}
		if col == "sku" {
			hasSKU = true
		}
		columns[i] = col
	}
	if !hasSKU {
		return nil, fmt.Errorf("file header must contain a sku column")
	}
	return columns, nil
}

func rowToRecord(columns []string, row []string) model.ImportRecord {
	var rec model.ImportRecord

	cell := func(i int) string {
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	for i, col := range columns {
		value := cell(i)
		if col == "" || value == "" {
			continue
		}

		switch col {
		case "sku":
			rec.SKU = value
		case "name":
			rec.Name = value
		case "description":
			rec.Description = model.Some(value)
		case "category":
			rec.Category = model.Some(value)
		case "manufacturer":
			rec.Manufacturer = model.Some(value)
		case "supplier":
			rec.Supplier = model.Some(value)
		case "barcode":
			rec.Barcode = model.Some(value)
		case "unit_of_measure":
			rec.UnitOfMeasure = model.Some(value)
		case "country_of_origin":
			rec.CountryOfOrigin = model.Some(value)
		case "hs_code":
			rec.HSCode = model.Some(value)
		case "notes":
			rec.Notes = model.Some(value)
		case "unit_cost":
			setDecimal(&rec.UnitCost, value)
		case "list_price":
			setDecimal(&rec.ListPrice, value)
		case "weight_kg":
			setDecimal(&rec.WeightKg, value)
		case "length_cm":
			setDecimal(&rec.LengthCm, value)
		case "width_cm":
			setDecimal(&rec.WidthCm, value)
		case "height_cm":
			setDecimal(&rec.HeightCm, value)
		case "lead_time_days":
			setInt(&rec.LeadTimeDays, value)
		case "min_order_quantity":
			setInt(&rec.MinOrderQty, value)
		case "reorder_point":
			setInt(&rec.ReorderPoint, value)
		case "quantity_on_hand":
			setInt(&rec.QuantityOnHand, value)
		case "is_active":
			rec.IsActive = model.Some(strings.EqualFold(value, "true") || value == "1")
		}
	}

	return rec
}

// An unparseable numeric cell leaves the field absent rather than
// failing the whole file.
func setDecimal(dst *model.Optional[decimal.Decimal], value string) {
	if d, err := decimal.NewFromString(value); err == nil {
		*dst = model.Some(d)
	}
}

func setInt(dst *model.Optional[int], value string) {
	if n, err := strconv.Atoi(value); err == nil {
		*dst = model.Some(n)
	}
}
