package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	salesdomain "chatvendas/internal/sales/domain"
)

// ExportFormat représente le format d'export
type ExportFormat string

const (
	ExportFormatCSV     ExportFormat = "csv"
	ExportFormatXLSX    ExportFormat = "xlsx"
	ExportFormatParquet ExportFormat = "parquet"
)

// Formats formats supportés, dans l'ordre d'écriture
var Formats = []ExportFormat{ExportFormatCSV, ExportFormatXLSX, ExportFormatParquet}

// ErrUnknownFormat format d'export non supporté
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat accepte "csv", "xlsx" ou "parquet" (casse ignorée)
func ParseFormat(s string) (ExportFormat, error) {
	f := ExportFormat(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Extension extension de fichier du format
func (f ExportFormat) Extension() string {
	return "." + string(f)
}

// ContentType type MIME servi en HTTP
func (f ExportFormat) ContentType() string {
	switch f {
	case ExportFormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ExportFormatParquet:
		return "application/vnd.apache.parquet"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Table tables nettoyées exportées
type Table string

const (
	TableProducts Table = "produtos"
	TableVendors  Table = "vendedores"
	TableSales    Table = "vendas"
)

// Tables ordre d'écriture des tables
var Tables = []Table{TableProducts, TableVendors, TableSales}

// FileName nom de fichier de la table nettoyée: "vendas_limpo.xlsx"
func (t Table) FileName(f ExportFormat) string {
	return string(t) + "_limpo" + f.Extension()
}

// ExportJob représente l'export d'un instantané
type ExportJob struct {
	formats   []ExportFormat
	dir       string
	createdAt time.Time
}

// NewExportJob crée un job d'export avec validation
func NewExportJob(dir string, formats ...ExportFormat) (*ExportJob, error) {
	if dir == "" {
		return nil, errors.New("export directory required")
	}
	if len(formats) == 0 {
		return nil, errors.New("at least one export format required")
	}
	for _, f := range formats {
		if _, err := ParseFormat(string(f)); err != nil {
			return nil, err
		}
	}

	return &ExportJob{
		formats:   append([]ExportFormat(nil), formats...),
		dir:       dir,
		createdAt: time.Now(),
	}, nil
}

// Formats retourne les formats demandés
func (ej *ExportJob) Formats() []ExportFormat {
	return ej.formats
}

// Dir retourne le répertoire de sortie
func (ej *ExportJob) Dir() string {
	return ej.dir
}

// CreatedAt retourne la date de création
func (ej *ExportJob) CreatedAt() time.Time {
	return ej.createdAt
}

// ============================================================================
// LIGNES D'EXPORT
//
// Les balises parquet décrivent le schéma colonne par colonne; les mêmes
// structures alimentent CSV et XLSX via Header/Values.
// ============================================================================

// ProductExportRow ligne de produits_limpo
type ProductExportRow struct {
	ID        int64   `parquet:"name=id_produto, type=INT64"`
	Name      string  `parquet:"name=nome_produto, type=BYTE_ARRAY, convertedtype=UTF8"`
	Category  string  `parquet:"name=categoria, type=BYTE_ARRAY, convertedtype=UTF8"`
	UnitPrice float64 `parquet:"name=preco_unitario, type=DOUBLE"`
}

// VendorExportRow ligne de vendedores_limpo
type VendorExportRow struct {
	ID     int64  `parquet:"name=id_vendedor, type=INT64"`
	Name   string `parquet:"name=nome_vendedor, type=BYTE_ARRAY, convertedtype=UTF8"`
	Region string `parquet:"name=regiao, type=BYTE_ARRAY, convertedtype=UTF8"`
}

// SaleExportRow ligne de vendas_limpo, dénormalisée avec produit et vendeur
// Date vide si la vente n'est pas datée.
type SaleExportRow struct {
	ID          int64   `parquet:"name=id_venda, type=INT64"`
	Date        string  `parquet:"name=data_venda, type=BYTE_ARRAY, convertedtype=UTF8"`
	ProductID   int64   `parquet:"name=id_produto, type=INT64"`
	ProductName string  `parquet:"name=nome_produto, type=BYTE_ARRAY, convertedtype=UTF8"`
	Category    string  `parquet:"name=categoria, type=BYTE_ARRAY, convertedtype=UTF8"`
	VendorID    int64   `parquet:"name=id_vendedor, type=INT64"`
	VendorName  string  `parquet:"name=nome_vendedor, type=BYTE_ARRAY, convertedtype=UTF8"`
	Region      string  `parquet:"name=regiao, type=BYTE_ARRAY, convertedtype=UTF8"`
	Quantity    int32   `parquet:"name=quantidade, type=INT32"`
	UnitPrice   float64 `parquet:"name=preco_unitario, type=DOUBLE"`
	TotalValue  float64 `parquet:"name=valor_total, type=DOUBLE"`
}

// Header en-têtes des colonnes de produits
func (ProductExportRow) Header() []string {
	return []string{"id_produto", "nome_produto", "categoria", "preco_unitario"}
}

// Values valeurs typées, pour XLSX
func (r ProductExportRow) Values() []any {
	return []any{r.ID, r.Name, r.Category, r.UnitPrice}
}

// ToCSVRow convertit en tableau pour CSV
func (r ProductExportRow) ToCSVRow() []string {
	return []string{
		strconv.FormatInt(r.ID, 10),
		r.Name,
		r.Category,
		strconv.FormatFloat(r.UnitPrice, 'f', 2, 64),
	}
}

// Header en-têtes des colonnes de vendeurs
func (VendorExportRow) Header() []string {
	return []string{"id_vendedor", "nome_vendedor", "regiao"}
}

// Values valeurs typées, pour XLSX
func (r VendorExportRow) Values() []any {
	return []any{r.ID, r.Name, r.Region}
}

// ToCSVRow convertit en tableau pour CSV
func (r VendorExportRow) ToCSVRow() []string {
	return []string{strconv.FormatInt(r.ID, 10), r.Name, r.Region}
}

// Header en-têtes des colonnes de ventes
func (SaleExportRow) Header() []string {
	return []string{
		"id_venda",
		"data_venda",
		"id_produto",
		"nome_produto",
		"categoria",
		"id_vendedor",
		"nome_vendedor",
		"regiao",
		"quantidade",
		"preco_unitario",
		"valor_total",
	}
}

// Values valeurs typées, pour XLSX
func (r SaleExportRow) Values() []any {
	return []any{
		r.ID, r.Date, r.ProductID, r.ProductName, r.Category,
		r.VendorID, r.VendorName, r.Region, r.Quantity, r.UnitPrice, r.TotalValue,
	}
}

// ToCSVRow convertit en tableau pour CSV
func (r SaleExportRow) ToCSVRow() []string {
	return []string{
		strconv.FormatInt(r.ID, 10),
		r.Date,
		strconv.FormatInt(r.ProductID, 10),
		r.ProductName,
		r.Category,
		strconv.FormatInt(r.VendorID, 10),
		r.VendorName,
		r.Region,
		strconv.FormatInt(int64(r.Quantity), 10),
		strconv.FormatFloat(r.UnitPrice, 'f', 2, 64),
		strconv.FormatFloat(r.TotalValue, 'f', 2, 64),
	}
}

// Row contrat commun des lignes exportées
type Row interface {
	Header() []string
	Values() []any
	ToCSVRow() []string
}

// ProductRows lignes de produits de l'instantané
func ProductRows(ds *salesdomain.Dataset) []ProductExportRow {
	out := make([]ProductExportRow, 0, len(ds.Products()))
	for _, p := range ds.Products() {
		out = append(out, ProductExportRow{
			ID:        int64(p.ID()),
			Name:      p.Name(),
			Category:  p.Category(),
			UnitPrice: p.UnitPrice().Amount(),
		})
	}
	return out
}

// VendorRows lignes de vendeurs; région vide exportée comme "Not Informed"
func VendorRows(ds *salesdomain.Dataset) []VendorExportRow {
	out := make([]VendorExportRow, 0, len(ds.Vendors()))
	for _, v := range ds.Vendors() {
		out = append(out, VendorExportRow{ID: int64(v.ID()), Name: v.Name(), Region: v.RegionLabel()})
	}
	return out
}

// SaleRows lignes de ventes dénormalisées
func SaleRows(ds *salesdomain.Dataset) []SaleExportRow {
	out := make([]SaleExportRow, 0, len(ds.Sales()))
	for _, s := range ds.Sales() {
		row := SaleExportRow{
			ID:          int64(s.ID()),
			ProductID:   int64(s.ProductID()),
			ProductName: ds.ProductName(s.ProductID()),
			VendorID:    int64(s.VendorID()),
			VendorName:  ds.VendorName(s.VendorID()),
			Quantity:    int32(s.Quantity().Value()),
			UnitPrice:   s.UnitPrice().Amount(),
			TotalValue:  s.TotalValue().Amount(),
		}
		if s.HasDate() {
			row.Date = s.Date().Format(time.DateOnly)
		}
		if p, ok := ds.Product(s.ProductID()); ok {
			row.Category = p.Category()
		}
		if v, ok := ds.Vendor(s.VendorID()); ok {
			row.Region = v.RegionLabel()
		}
		out = append(out, row)
	}
	return out
}
