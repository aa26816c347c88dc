package infrastructure

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xitongsys/parquet-go-source/writerfile"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
	"github.com/xuri/excelize/v2"

	"chatvendas/internal/export/domain"
)

// csvFlushEvery nombre de lignes entre deux flush du writer CSV
const csvFlushEvery = 1000

// Write encode rows dans le format demandé; sheet nomme la feuille XLSX
func Write[T domain.Row](w io.Writer, format domain.ExportFormat, sheet string, rows []T) error {
	switch format {
	case domain.ExportFormatCSV:
		return WriteCSV(w, rows)
	case domain.ExportFormatXLSX:
		return WriteXLSX(w, sheet, rows)
	case domain.ExportFormatParquet:
		return WriteParquet(w, rows)
	}
	return fmt.Errorf("%w: %q", domain.ErrUnknownFormat, format)
}

// WriteCSV écrit l'en-tête puis les lignes
func WriteCSV[T domain.Row](w io.Writer, rows []T) error {
	var zero T
	cw := csv.NewWriter(w)
	if err := cw.Write(zero.Header()); err != nil {
		return err
	}
	for i, r := range rows {
		if err := cw.Write(r.ToCSVRow()); err != nil {
			return err
		}
		if (i+1)%csvFlushEvery == 0 {
			cw.Flush()
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX écrit un classeur d'une feuille en flux (StreamWriter excelize)
func WriteXLSX[T domain.Row](w io.Writer, sheet string, rows []T) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "dados"
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}

	var zero T
	header := zero.Header()
	cells := make([]any, len(header))
	for i, h := range header {
		cells[i] = h
	}
	if err := sw.SetRow("A1", cells); err != nil {
		return err
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, r.Values()); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	return f.Write(w)
}

// WriteParquet écrit les lignes en Parquet compressé Snappy
// Le schéma est lu sur les balises `parquet` de T.
func WriteParquet[T any](w io.Writer, rows []T) error {
	pf := writerfile.NewWriterFile(w)
	pw, err := writer.NewParquetWriter(pf, new(T), 1)
	if err != nil {
		return fmt.Errorf("parquet schema: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, r := range rows {
		if err := pw.Write(r); err != nil {
			return fmt.Errorf("parquet write: %w", err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("parquet close: %w", err)
	}
	return pf.Close()
}
