package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"voxform/internal/domain"
)

// Format is a supported export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// SheetName is the worksheet that holds responses in XLSX exports.
const SheetName = "Responses"

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

var fixedColumns = []string{
	"Response ID",
	"Created At",
	"Word Count",
	"Source",
	"Transcript",
}

// ParseFormat resolves a format query value. Empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidExportFormat, s)
	}
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Filename returns a download filename for a form export.
func (f Format) Filename(formID uuid.UUID) string {
	return fmt.Sprintf("responses-%s.%s", formID, f)
}

// Header returns the fixed columns followed by one column per schema field.
func Header(schema domain.ExtractionSchema) []string {
	header := make([]string, 0, len(fixedColumns)+len(schema))
	header = append(header, fixedColumns...)
	return append(header, schema.Names()...)
}

// Row converts a response to cells aligned with Header. Fallback results
// leave the schema columns empty.
func Row(schema domain.ExtractionSchema, rec *domain.ResponseRecord) []string {
	row := make([]string, 0, len(fixedColumns)+len(schema))
	row = append(row,
		rec.ID.String(),
		rec.CreatedAt.UTC().Format(time.RFC3339),
		formatValue(rec.ExtractedData[domain.KeyWordCount]),
		source(rec.ExtractedData),
		rec.Transcript,
	)
	for _, name := range schema.Names() {
		row = append(row, formatValue(rec.ExtractedData[name]))
	}
	return row
}

// Write renders the records in the given format.
func Write(w io.Writer, format Format, schema domain.ExtractionSchema, records []domain.ResponseRecord) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, schema, records)
	case FormatXLSX:
		return WriteXLSX(w, schema, records)
	default:
		return fmt.Errorf("%w: %q", domain.ErrInvalidExportFormat, format)
	}
}

// WriteCSV writes a BOM-prefixed CSV document.
func WriteCSV(w io.Writer, schema domain.ExtractionSchema, records []domain.ResponseRecord) error {
	if _, err := w.Write(BOM); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(schema)); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for i := range records {
		if err := cw.Write(Row(schema, &records[i])); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes a single-sheet workbook.
func WriteXLSX(w io.Writer, schema domain.ExtractionSchema, records []domain.ResponseRecord) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	header := Header(schema)
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("writing XLSX header: %w", err)
	}
	for i := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := Row(schema, &records[i])
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("writing XLSX row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing XLSX: %w", err)
	}
	return nil
}

func source(r domain.ExtractionResult) string {
	switch {
	case r.IsAIProcessed():
		return "ai"
	case r.IsFallback():
		return "fallback"
	default:
		return ""
	}
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []string:
		return strings.Join(val, "; ")
	case []interface{}:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = formatValue(item)
		}
		return strings.Join(parts, "; ")
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}
