package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ImportColumn is one recognised column of an actuals upload.
type ImportColumn struct {
	Key      string
	Label    string
	Required bool
}

// ActualsColumns lists the columns of the actuals template, in order.
var ActualsColumns = []ImportColumn{
	{Key: "item_id", Label: "Item ID"},
	{Key: "description", Label: "Description"},
	{Key: "materials_total", Label: "Materials", Required: true},
	{Key: "labour_total", Label: "Labour", Required: true},
	{Key: "miscellaneous_amount", Label: "Miscellaneous"},
	{Key: "transport_amount", Label: "Transport"},
}

// ImportError is a single field-level error on one row.
type ImportError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ActualsRow is a validated row: the item it targets and its actual costs.
type ActualsRow struct {
	Row           int                 `json:"row"`
	ItemID        string              `json:"item_id,omitempty"`
	Description   string              `json:"description,omitempty"`
	Materials     decimal.Decimal     `json:"materials_total"`
	Labour        decimal.Decimal     `json:"labour_total"`
	Miscellaneous decimal.NullDecimal `json:"miscellaneous_amount"`
	Transport     decimal.NullDecimal `json:"transport_amount"`
}

// ActualsImport is returned after parsing and validating an uploaded file.
type ActualsImport struct {
	TotalRows int           `json:"total_rows"`
	ValidRows int           `json:"valid_rows"`
	ErrorRows int           `json:"error_rows"`
	Errors    []ImportError `json:"errors"`
	Rows      []ActualsRow  `json:"-"`
	FileName  string        `json:"-"`
}

// AddError records a row error found after parsing and refreshes the counts.
func (r *ActualsImport) AddError(e ImportError) {
	r.Errors = append(r.Errors, e)
	r.summarize()
}

func (r *ActualsImport) summarize() {
	rows := make(map[int]bool)
	for _, e := range r.Errors {
		rows[e.Row] = true
	}
	r.ErrorRows = len(rows)
	r.ValidRows = r.TotalRows - r.ErrorRows
}

// parseCSV reads a CSV file and returns headers + data rows.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return allRows[0], allRows[1:], nil
}

// parseExcel reads an xlsx file and returns headers + data rows from the first sheet.
func parseExcel(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return rows[0], rows[1:], nil
}

// mapHeadersToColumns maps uploaded headers to column keys, one per header.
// Unrecognised headers map to "" and are also returned separately.
func mapHeadersToColumns(headers []string, columns []ImportColumn) ([]string, []string) {
	labelToKey := make(map[string]string, len(columns)*2)
	for _, c := range columns {
		labelToKey[strings.ToLower(c.Label)] = c.Key
		labelToKey[c.Key] = c.Key
	}

	mapped := make([]string, len(headers))
	var unrecognized []string
	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(h))
		norm = strings.TrimSpace(strings.TrimSuffix(norm, " *"))
		if key, ok := labelToKey[norm]; ok {
			mapped[i] = key
		} else {
			unrecognized = append(unrecognized, h)
		}
	}
	return mapped, unrecognized
}

// parseAmount accepts plain numbers as well as grouped ones ("1,20,000.50")
// and a leading currency symbol.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "₹")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	return decimal.NewFromString(s)
}

// ParseActualsFile parses and validates an uploaded actuals file (.csv or
// .xlsx). File-level problems are returned as an error; row-level problems
// are collected in the result.
func ParseActualsFile(file io.Reader, fileName string) (*ActualsImport, error) {
	var headers []string
	var dataRows [][]string
	var err error

	lowerName := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lowerName, ".csv"):
		headers, dataRows, err = parseCSV(file)
	case strings.HasSuffix(lowerName, ".xlsx"):
		headers, dataRows, err = parseExcel(file)
	default:
		return nil, fmt.Errorf("unsupported file format: must be .csv or .xlsx")
	}
	if err != nil {
		return nil, err
	}

	columnKeys, _ := mapHeadersToColumns(headers, ActualsColumns)
	present := make(map[string]bool)
	for _, k := range columnKeys {
		present[k] = k != ""
	}
	if !present["item_id"] && !present["description"] {
		return nil, fmt.Errorf("file must have an %q or %q column", "Item ID", "Description")
	}
	for _, c := range ActualsColumns {
		if c.Required && !present[c.Key] {
			return nil, fmt.Errorf("missing required column %q", c.Label)
		}
	}

	result := &ActualsImport{
		TotalRows: len(dataRows),
		FileName:  fileName,
		Rows:      make([]ActualsRow, 0, len(dataRows)),
	}

	for rowIdx, row := range dataRows {
		rowNum := rowIdx + 2 // 1-indexed, +1 for header row
		data := make(map[string]string)
		for colIdx, key := range columnKeys {
			if key == "" || colIdx >= len(row) {
				continue
			}
			data[key] = strings.TrimSpace(row[colIdx])
		}

		parsed, rowErrors := validateActualsRow(rowNum, data)
		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
			continue
		}
		result.Rows = append(result.Rows, parsed)
	}

	result.summarize()
	return result, nil
}

func validateActualsRow(rowNum int, data map[string]string) (ActualsRow, []ImportError) {
	row := ActualsRow{
		Row:         rowNum,
		ItemID:      data["item_id"],
		Description: data["description"],
	}
	var errs []ImportError

	if row.ItemID == "" && row.Description == "" {
		errs = append(errs, ImportError{Row: rowNum, Field: "Item ID", Message: "Item ID or Description is required"})
	}

	for _, c := range ActualsColumns[2:] {
		raw := data[c.Key]
		if raw == "" {
			if c.Required {
				errs = append(errs, ImportError{Row: rowNum, Field: c.Label, Message: fmt.Sprintf("%s is required", c.Label)})
			}
			continue
		}
		v, err := parseAmount(raw)
		if err != nil {
			errs = append(errs, ImportError{Row: rowNum, Field: c.Label, Message: fmt.Sprintf("%s must be a number, got %q", c.Label, raw)})
			continue
		}
		if v.IsNegative() {
			errs = append(errs, ImportError{Row: rowNum, Field: c.Label, Message: fmt.Sprintf("%s must not be negative", c.Label)})
			continue
		}
		switch c.Key {
		case "materials_total":
			row.Materials = v
		case "labour_total":
			row.Labour = v
		case "miscellaneous_amount":
			row.Miscellaneous = decimal.NewNullDecimal(v)
		case "transport_amount":
			row.Transport = decimal.NewNullDecimal(v)
		}
	}
	return row, errs
}

// GenerateImportTemplate creates a blank .xlsx actuals template.
func GenerateImportTemplate() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Actuals"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})

	for i, c := range ActualsColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		label := c.Label
		if c.Required {
			label += " *"
		}
		f.SetCellValue(sheet, cell, label)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}
	f.SetColWidth(sheet, "A", "A", 18)
	f.SetColWidth(sheet, "B", "B", 40)
	f.SetColWidth(sheet, "C", "F", 16)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write import template: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateErrorReport creates a downloadable .xlsx file from import errors.
func GenerateErrorReport(errors []ImportError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Errors"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DC2626"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})

	f.SetCellValue(sheet, "A1", "Row #")
	f.SetCellValue(sheet, "B1", "Field")
	f.SetCellValue(sheet, "C1", "Error")
	f.SetCellStyle(sheet, "A1", "C1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 22)
	f.SetColWidth(sheet, "C", "C", 55)

	for i, e := range errors {
		row := fmt.Sprintf("%d", i+2)
		f.SetCellValue(sheet, "A"+row, e.Row)
		f.SetCellValue(sheet, "B"+row, e.Field)
		f.SetCellValue(sheet, "C"+row, e.Message)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write error report: %w", err)
	}
	return buf.Bytes(), nil
}
