package domain

import (
	"context"
	"errors"
	"regexp"
)

// Kind type de graphique
type Kind string

const (
	KindBar  Kind = "bar"
	KindLine Kind = "line"
)

// ErrInvalidSpec description de graphique inutilisable
var ErrInvalidSpec = errors.New("invalid chart spec")

var reName = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Spec description d'un graphique à produire
//
// Labels et Values sont alignés. Pour une courbe, les Projected derniers
// points sont des valeurs prévues et sont tracés séparément.
type Spec struct {
	Name      string    `json:"-"`
	Kind      Kind      `json:"type"`
	Title     string    `json:"titulo,omitempty"`
	XLabel    string    `json:"-"`
	YLabel    string    `json:"-"`
	Labels    []string  `json:"labels"`
	Values    []float64 `json:"values"`
	Projected int       `json:"projetados,omitempty"`
}

// Validate vérifie que la description peut être rendue
func (s Spec) Validate() error {
	switch {
	case !reName.MatchString(s.Name):
		return errors.Join(ErrInvalidSpec, errors.New("name must match [a-z0-9_-]"))
	case s.Kind != KindBar && s.Kind != KindLine:
		return errors.Join(ErrInvalidSpec, errors.New("unknown kind "+string(s.Kind)))
	case len(s.Values) == 0 || len(s.Labels) != len(s.Values):
		return errors.Join(ErrInvalidSpec, errors.New("labels and values must be non-empty and aligned"))
	case s.Projected < 0 || s.Projected > len(s.Values):
		return errors.Join(ErrInvalidSpec, errors.New("projected out of range"))
	}
	return nil
}

// ValidName vrai si name peut désigner un fichier de graphique
func ValidName(name string) bool {
	return reName.MatchString(name)
}

// Artifact fichier produit par un Renderer
type Artifact struct {
	Name string `json:"nome"`
	Path string `json:"-"`
	URL  string `json:"url"`
}

// Renderer produit une image à partir d'une Spec
type Renderer interface {
	Render(ctx context.Context, spec Spec) (Artifact, error)
}
