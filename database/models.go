package database

// ============================================================================
// MODÈLES DE DONNÉES - tables nettoyées
//
// Une ligne par enregistrement retenu par le nettoyage. Les dates sont des
// chaînes AAAA-MM-JJ pour rester identiques entre SQLite et PostgreSQL.
// ============================================================================

// ProductRecord - ligne de la table produtos
type ProductRecord struct {
	ID        int64   `json:"id_produto"`
	Name      string  `json:"nome"`
	Category  string  `json:"categoria"`
	UnitPrice float64 `json:"preco_unitario"`
}

// VendorRecord - ligne de la table vendedores
type VendorRecord struct {
	ID     int64  `json:"id_vendedor"`
	Name   string `json:"nome"`
	Region string `json:"regiao"`
}

// SaleRecord - ligne de la table vendas
// Date nil = date inconnue
type SaleRecord struct {
	ID         int64   `json:"id_venda"`
	ProductID  int64   `json:"id_produto"`
	VendorID   int64   `json:"id_vendedor"`
	Quantity   int     `json:"quantidade"`
	Date       *string `json:"data_venda,omitempty"`
	UnitPrice  float64 `json:"preco_unitario"`
	TotalValue float64 `json:"valor_total"`
}

// IngestionRun - trace d'une ingestion réussie
type IngestionRun struct {
	ID         string `json:"id"`
	FinishedAt string `json:"finished_at"`
	Products   int    `json:"products"`
	Vendors    int    `json:"vendors"`
	Sales      int    `json:"sales"`
	Dropped    int    `json:"dropped"`
	Audit      string `json:"audit"`
}
