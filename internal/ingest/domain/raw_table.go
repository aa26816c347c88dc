package domain

// TableName identifie l'une des trois tables sources
type TableName string

const (
	TableProducts TableName = "products"
	TableVendors  TableName = "vendors"
	TableSales    TableName = "sales"
)

// Tables ordre canonique de traitement
var Tables = []TableName{TableProducts, TableVendors, TableSales}

// Label libellé portugais utilisé dans le journal d'audit
func (t TableName) Label() string {
	switch t {
	case TableProducts:
		return "produtos"
	case TableVendors:
		return "vendedores"
	case TableSales:
		return "vendas"
	}
	return string(t)
}

// RawTable table brute telle que lue depuis un fichier, toutes cellules en texte
type RawTable struct {
	Name   TableName
	Source string
	Header []string
	Rows   [][]string
}

// Cell retourne la cellule (row, col) ou "" si la ligne est trop courte
func (t *RawTable) Cell(row, col int) string {
	if col < 0 || row < 0 || row >= len(t.Rows) || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// Sources chemins des trois fichiers à ingérer
type Sources struct {
	Products string
	Vendors  string
	Sales    string
}

// Path retourne le chemin configuré pour une table
func (s Sources) Path(t TableName) string {
	switch t {
	case TableProducts:
		return s.Products
	case TableVendors:
		return s.Vendors
	case TableSales:
		return s.Sales
	}
	return ""
}
