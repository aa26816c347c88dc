package infrastructure

import (
	"context"
	"errors"

	"chatvendas/internal/chart/domain"
)

// ErrRenderingDisabled aucun répertoire de graphiques configuré
var ErrRenderingDisabled = errors.New("chart rendering disabled")

// NopRenderer Renderer utilisé quand les graphiques sont désactivés
// La réponse garde alors son descripteur sans artefact.
type NopRenderer struct{}

// Render valide la description et retourne ErrRenderingDisabled
func (NopRenderer) Render(_ context.Context, spec domain.Spec) (domain.Artifact, error) {
	if err := spec.Validate(); err != nil {
		return domain.Artifact{}, err
	}
	return domain.Artifact{}, ErrRenderingDisabled
}
