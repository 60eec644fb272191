package dataset

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// Loader reads a labelled query set from JSONL or Parquet.
type Loader struct {
	datasetPath string
}

func NewLoader(datasetPath string) *Loader {
	return &Loader{
		datasetPath: datasetPath,
	}
}

// Load reads every record.
func (l *Loader) Load() ([]LabelledQuery, error) {
	return l.LoadSample(-1)
}

// LoadSample reads at most limit records. A negative limit reads all of them.
func (l *Loader) LoadSample(limit int) ([]LabelledQuery, error) {
	ext := strings.ToLower(filepath.Ext(l.datasetPath))

	var records []LabelledQuery
	var err error
	switch ext {
	case ".parquet":
		records, err = l.loadParquet(limit)
	case ".jsonl", ".json":
		records, err = l.loadJSONL(limit)
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: .parquet, .jsonl)", ext)
	}
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].ID == "" {
			records[i].ID = strconv.Itoa(i + 1)
		}
	}
	return records, nil
}

func (l *Loader) loadJSONL(limit int) ([]LabelledQuery, error) {
	slog.Debug("Opening JSONL file", "path", l.datasetPath)

	file, err := os.Open(l.datasetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer file.Close()

	var records []LabelledQuery
	scanner := bufio.NewScanner(file)

	const maxCapacity = 1024 * 1024
	buf := make([]byte, maxCapacity)
	scanner.Buffer(buf, maxCapacity)

	lineNum := 0
	for scanner.Scan() {
		if limit >= 0 && len(records) >= limit {
			break
		}
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var record LabelledQuery
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			return nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
		}
		if strings.TrimSpace(record.Query) == "" {
			slog.Warn("Skipping record without query", "line", lineNum)
			continue
		}
		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading dataset: %w", err)
	}

	slog.Debug("Finished reading JSONL file", "total_records", len(records), "total_lines", lineNum)
	return records, nil
}

func (l *Loader) loadParquet(limit int) ([]LabelledQuery, error) {
	slog.Debug("Opening Parquet file", "path", l.datasetPath)

	file, err := os.Open(l.datasetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}
	slog.Debug("Parquet file opened", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[LabelledQuery](pf)
	defer reader.Close()

	var records []LabelledQuery
	rows := make([]LabelledQuery, 128)
	for limit < 0 || len(records) < limit {
		n, err := reader.Read(rows)
		if n > 0 {
			if limit >= 0 {
				n = min(n, limit-len(records))
			}
			records = append(records, rows[:n]...)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}

	slog.Debug("Finished reading Parquet file", "total_records", len(records))
	return records, nil
}

// WriteParquet stores records as a Parquet file.
func WriteParquet(path string, records []LabelledQuery) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[LabelledQuery](file)
	if _, err := writer.Write(records); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	return writer.Close()
}
