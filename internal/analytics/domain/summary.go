package domain

// StoreSummary agrégats calculés en SQL sur les tables persistées
type StoreSummary struct {
	Products   int     `json:"produtos"`
	Vendors    int     `json:"vendedores"`
	Sales      int     `json:"vendas"`
	Quantity   int     `json:"quantidade_total"`
	TotalValue float64 `json:"valor_total"`
	FirstSale  string  `json:"primeira_venda,omitempty"`
	LastSale   string  `json:"ultima_venda,omitempty"`
}

// CategoryShare part d'une catégorie dans le chiffre d'affaires
type CategoryShare struct {
	Category   string  `json:"categoria"`
	Sales      int     `json:"vendas"`
	Value      float64 `json:"valor_total"`
	Percentage float64 `json:"percentual"`
}
