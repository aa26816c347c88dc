package domain

import "errors"

const (
	// DefaultVendorName nom affiché quand la source n'en fournit pas
	DefaultVendorName = "Unknown"
	// RegionNotInformed région attribuée aux vendeurs sans région
	RegionNotInformed = "Not Informed"
)

// VendorID représente l'identifiant unique d'un vendeur
type VendorID int64

// Vendor représente un vendeur rattaché à une région
type Vendor struct {
	id     VendorID
	name   string
	region string
}

// NewVendor crée une nouvelle instance de Vendor avec validation
func NewVendor(id VendorID, name, region string) (*Vendor, error) {
	if id <= 0 {
		return nil, errors.New("invalid vendor ID")
	}
	if name == "" {
		name = DefaultVendorName
	}

	return &Vendor{
		id:     id,
		name:   name,
		region: region,
	}, nil
}

// ID retourne l'identifiant du vendeur
func (v *Vendor) ID() VendorID {
	return v.id
}

// Name retourne le nom du vendeur
func (v *Vendor) Name() string {
	return v.name
}

// Region retourne la région brute, éventuellement vide
func (v *Vendor) Region() string {
	return v.region
}

// RegionLabel retourne la région ou "Not Informed"
func (v *Vendor) RegionLabel() string {
	if v.region == "" {
		return RegionNotInformed
	}
	return v.region
}
