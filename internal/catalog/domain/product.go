package domain

import (
	"errors"

	"chatvendas/internal/shared/domain"
)

// DefaultProductName nom affiché quand la source n'en fournit pas
const DefaultProductName = "Unknown"

// ProductID représente l'identifiant unique d'un produit
type ProductID int64

// Product représente un produit du catalogue
type Product struct {
	id        ProductID
	name      string
	category  string
	unitPrice domain.Money
}

// NewProduct crée une nouvelle instance de Product avec validation
func NewProduct(id ProductID, name, category string, unitPrice domain.Money) (*Product, error) {
	if id <= 0 {
		return nil, errors.New("invalid product ID")
	}
	if name == "" {
		name = DefaultProductName
	}

	return &Product{
		id:        id,
		name:      name,
		category:  category,
		unitPrice: unitPrice,
	}, nil
}

// ID retourne l'identifiant du produit
func (p *Product) ID() ProductID {
	return p.id
}

// Name retourne le nom du produit
func (p *Product) Name() string {
	return p.name
}

// Category retourne la catégorie (éventuellement vide)
func (p *Product) Category() string {
	return p.category
}

// UnitPrice retourne le prix catalogue
func (p *Product) UnitPrice() domain.Money {
	return p.unitPrice
}
