package domain

import (
	"fmt"

	"chatvendas/internal/shared/textnorm"
)

// Column nom canonique d'une colonne après normalisation
type Column string

const (
	ColID         Column = "id"
	ColName       Column = "name"
	ColCategory   Column = "category"
	ColUnitPrice  Column = "unit_price"
	ColRegion     Column = "region"
	ColProductID  Column = "product_id"
	ColVendorID   Column = "vendor_id"
	ColQuantity   Column = "quantity"
	ColDate       Column = "date"
	ColTotalValue Column = "total_value"
)

// TableSchema décrit les colonnes reconnues d'une table et leurs synonymes
type TableSchema struct {
	Table    TableName
	Synonyms map[string]Column
	Critical []Column
}

// Schemas schéma canonique par table
var Schemas = map[TableName]TableSchema{
	TableProducts: {
		Table: TableProducts,
		Synonyms: map[string]Column{
			"id_produto": ColID, "id": ColID, "codigo": ColID,
			"nome_produto": ColName, "nome": ColName, "produto": ColName, "name": ColName,
			"categoria": ColCategory, "category": ColCategory,
			"r$_unit": ColUnitPrice, "preco": ColUnitPrice, "preco_unit": ColUnitPrice,
			"preco_unitario": ColUnitPrice, "valor_unitario": ColUnitPrice, "unit_price": ColUnitPrice,
		},
		Critical: []Column{ColID, ColUnitPrice},
	},
	TableVendors: {
		Table: TableVendors,
		Synonyms: map[string]Column{
			"id_vendedor": ColID, "id": ColID,
			"nome_vendedor": ColName, "nome": ColName, "vendedor": ColName, "name": ColName,
			"regiao": ColRegion, "region": ColRegion,
		},
		Critical: []Column{ColID},
	},
	TableSales: {
		Table: TableSales,
		Synonyms: map[string]Column{
			"id_venda": ColID, "id": ColID,
			"id_produto": ColProductID, "product_id": ColProductID,
			"id_vendedor": ColVendorID, "vendor_id": ColVendorID,
			"quantidade": ColQuantity, "qtd": ColQuantity, "qtde": ColQuantity, "quantity": ColQuantity,
			"data_venda": ColDate, "data": ColDate, "date": ColDate,
			"r$_unit": ColUnitPrice, "preco_unit": ColUnitPrice, "preco_unitario": ColUnitPrice,
			"valor_unitario": ColUnitPrice, "preco": ColUnitPrice, "unit_price": ColUnitPrice,
			"r$_total": ColTotalValue, "valor_total": ColTotalValue, "valor": ColTotalValue,
			"total": ColTotalValue, "total_value": ColTotalValue,
		},
		Critical: []Column{ColID, ColProductID, ColVendorID, ColQuantity, ColUnitPrice},
	},
}

// ColumnIndex position de chaque colonne canonique dans l'en-tête brut
type ColumnIndex map[Column]int

// Get retourne la position de la colonne, -1 si absente
func (ci ColumnIndex) Get(c Column) int {
	if i, ok := ci[c]; ok {
		return i
	}
	return -1
}

// Resolve normalise l'en-tête et associe chaque colonne reconnue à sa position.
// Le premier synonyme rencontré l'emporte. Une colonne critique absente est une
// erreur de validation fatale.
func (s TableSchema) Resolve(header []string) (ColumnIndex, error) {
	idx := make(ColumnIndex, len(header))
	for i, h := range header {
		col, ok := s.Synonyms[textnorm.ColumnKey(h)]
		if !ok {
			continue
		}
		if _, taken := idx[col]; !taken {
			idx[col] = i
		}
	}

	for _, c := range s.Critical {
		if _, ok := idx[c]; !ok {
			return nil, &ValidationError{
				Table:  s.Table,
				Column: c,
				Reason: fmt.Sprintf("required column missing (header: %v)", header),
			}
		}
	}
	return idx, nil
}
