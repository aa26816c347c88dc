package application

import (
	"sync"
	"sync/atomic"

	"chatvendas/internal/assistant/domain"
	salesdomain "chatvendas/internal/sales/domain"
)

// Snapshot instantané publié et son numéro de version
type Snapshot struct {
	Dataset *salesdomain.Dataset
	Version uint64
}

// Gate barrière de disponibilité des données
//
// NotReady tant qu'aucun instantané n'a été publié, Ready ensuite. Les
// lecteurs ne prennent aucun verrou: l'instantané courant est un pointeur
// atomique remplacé en bloc à chaque ingestion.
type Gate struct {
	current atomic.Pointer[Snapshot]
	version atomic.Uint64

	mu        sync.Mutex
	listeners []func(Snapshot)
}

// NewGate crée une barrière fermée
func NewGate() *Gate {
	return &Gate{}
}

// Publish rend ds visible aux requêtes et notifie les abonnés
func (g *Gate) Publish(ds *salesdomain.Dataset) Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	snap := Snapshot{Dataset: ds, Version: g.version.Add(1)}
	g.current.Store(&snap)
	for _, fn := range g.listeners {
		fn(snap)
	}
	return snap
}

// OnPublish enregistre fn, appelé après chaque publication
func (g *Gate) OnPublish(fn func(Snapshot)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listeners = append(g.listeners, fn)
}

// Current retourne l'instantané courant ou ErrDataNotReady
func (g *Gate) Current() (Snapshot, error) {
	snap := g.current.Load()
	if snap == nil {
		return Snapshot{}, domain.ErrDataNotReady
	}
	return *snap, nil
}

// Ready vrai dès qu'un instantané a été publié
func (g *Gate) Ready() bool {
	return g.current.Load() != nil
}
