package canonical

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// RawFile is one source file read into memory: the header row plus data
// rows, untyped.
type RawFile struct {
	Path    string
	Headers []string
	Rows    []RawRecord
}

// ReadFile reads a source file, dispatching on extension. CSV and XLSX are
// supported, matching the export formats institutions actually produce.
func ReadFile(path string) (*RawFile, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		return ReadXLSX(path)
	default:
		return ReadCSV(path)
	}
}

// ReadCSV reads a delimited text export. A UTF-8 BOM on the first header is
// stripped; rows may have fewer fields than the header.
func ReadCSV(path string) (*RawFile, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer fh.Close()

	r := csv.NewReader(fh)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty file", path)
	}

	headers := records[0]
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\uFEFF")
	}

	file := &RawFile{Path: path, Headers: headers}
	for i, rec := range records[1:] {
		file.Rows = append(file.Rows, RawRecord{Line: i + 1, Values: rec})
	}
	return file, nil
}

// ReadXLSX reads the first sheet of an Excel export.
func ReadXLSX(path string) (*RawFile, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: no sheets", path)
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: empty sheet", path)
	}

	file := &RawFile{Path: path, Headers: rows[0]}
	for i, rec := range rows[1:] {
		file.Rows = append(file.Rows, RawRecord{Line: i + 1, Values: rec})
	}
	return file, nil
}

// AccountFromPath derives an account ID from the file's parent directory
// when neither the file nor the caller supplies one. Exports are laid out
// as <root>/<institution>/<route>/file, so the route names the account.
// A route listed in overrides (keyed lowercase) maps to the configured ID
// instead of the uppercased directory name.
func AccountFromPath(path string, overrides map[string]string) string {
	dir := filepath.Base(filepath.Dir(path))
	if dir == "." || dir == string(filepath.Separator) {
		return ""
	}
	if id, ok := overrides[strings.ToLower(dir)]; ok {
		return id
	}
	return strings.ToUpper(strings.ReplaceAll(dir, " ", "_"))
}
