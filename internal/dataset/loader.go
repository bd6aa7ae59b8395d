package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/thorfin/insights-backend/internal/domain"
	"github.com/thorfin/insights-backend/internal/logger"
)

// Loader parses an uploaded CSV/Excel/JSON file into a normalized dataset.
type Loader struct {
	log *logger.Logger
}

func NewLoader(log *logger.Logger) *Loader {
	return &Loader{log: log.With("component", "DatasetLoader")}
}

// Load dispatches on the file extension, parses the table, normalizes the
// header and coerces typed columns. Malformed cells become missing values;
// only an unreadable container fails the load.
func (l *Loader) Load(filename string, r io.Reader) (*domain.Dataset, error) {
	var (
		header []string
		rows   [][]string
		err    error
	)

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		header, rows, err = readCSV(r)
	case ".xlsx", ".xls":
		header, rows, err = readExcel(r)
	case ".json":
		header, rows, err = readJSON(r)
	default:
		err = fmt.Errorf("unsupported file type %q", filepath.Ext(filename))
	}
	if err != nil {
		return nil, &LoadError{Filename: filename, Err: err}
	}
	if len(header) == 0 {
		return nil, &LoadError{Filename: filename, Err: fmt.Errorf("no columns found")}
	}

	columns := normalizeColumns(header)
	records := make([]domain.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, buildRecord(columns, row))
	}

	ds := &domain.Dataset{
		ID:       uuid.New(),
		Name:     filename,
		Columns:  columns,
		Records:  records,
		Bounds:   computeBounds(records),
		LoadedAt: time.Now().UTC(),
	}
	l.log.Info("Dataset loaded", "file", filename, "rows", len(records), "columns", len(columns))
	return ds, nil
}

func readCSV(r io.Reader) ([]string, [][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	all, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("empty file")
	}
	return all[0], all[1:], nil
}

func readExcel(r io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("empty sheet")
	}
	return rows[0], rows[1:], nil
}

// readJSON accepts an array of flat objects. Keys become columns; the header
// order follows first appearance across the array so output stays stable.
func readJSON(r io.Reader) ([]string, [][]string, error) {
	var objs []map[string]any
	dec := json.NewDecoder(r)
	if err := dec.Decode(&objs); err != nil {
		return nil, nil, fmt.Errorf("parse json: %w", err)
	}
	if len(objs) == 0 {
		return nil, nil, fmt.Errorf("empty array")
	}

	var header []string
	seen := make(map[string]bool)
	for _, obj := range objs {
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				header = append(header, k)
			}
		}
	}

	rows := make([][]string, 0, len(objs))
	for _, obj := range objs {
		row := make([]string, len(header))
		for i, k := range header {
			if v, ok := obj[k]; ok && v != nil {
				row[i] = jsonCell(v)
			}
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

func jsonCell(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		raw, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(raw)
	}
}
