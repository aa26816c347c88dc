package infrastructure

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"chatvendas/internal/ingest/domain"
)

// ReadTable lit un fichier source (.csv ou .xlsx) en table brute.
// Un fichier absent ou illisible donne une *domain.MissingSourceError.
func ReadTable(name domain.TableName, path string) (*domain.RawTable, error) {
	if path == "" {
		return nil, &domain.MissingSourceError{Table: name, Path: path}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &domain.MissingSourceError{Table: name, Path: path, Err: err}
	}
	defer f.Close()

	var records [][]string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		records, err = readXLSX(f)
	default:
		records, err = readCSV(f)
	}
	if err != nil {
		return nil, &domain.MissingSourceError{Table: name, Path: path, Err: err}
	}

	table := &domain.RawTable{Name: name, Source: path}
	if len(records) == 0 {
		return table, nil
	}
	table.Header = records[0]
	table.Rows = records[1:]
	return table, nil
}

// readCSV lit un CSV séparé par ';' ou ',', encodé en UTF-8 ou Latin-1
func readCSV(r io.Reader) ([][]string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))

	var src io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		// Exports Excel brésiliens: Windows-1252/ISO-8859-1
		src = transform.NewReader(src, charmap.ISO8859_1.NewDecoder())
	}

	br := bufio.NewReader(src)
	first, _ := br.Peek(4096)
	reader := csv.NewReader(br)
	reader.Comma = detectSeparator(first)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return dropBlankRows(records), nil
}

// detectSeparator choisit ';' ou ',' d'après la première ligne
func detectSeparator(head []byte) rune {
	line := head
	if i := bytes.IndexByte(head, '\n'); i >= 0 {
		line = head[:i]
	}
	if bytes.Count(line, []byte(";")) >= bytes.Count(line, []byte(",")) && bytes.Contains(line, []byte(";")) {
		return ';'
	}
	return ','
}

// readXLSX lit la première feuille en valeurs brutes
// (les dates restent des numéros de série, convertis au nettoyage)
func readXLSX(r io.Reader) ([][]string, error) {
	wb, err := excelize.OpenReader(r, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer wb.Close()

	rows, err := wb.GetRows(wb.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read xlsx rows: %w", err)
	}
	return dropBlankRows(rows), nil
}

func dropBlankRows(rows [][]string) [][]string {
	out := rows[:0]
	for _, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				out = append(out, row)
				break
			}
		}
	}
	return out
}
