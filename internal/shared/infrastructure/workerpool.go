package infrastructure

import (
	"context"
	"errors"
	"sync"
)

// ErrPoolStopped soumission refusée: le pool est arrêté ou son contexte annulé
var ErrPoolStopped = errors.New("worker pool is stopped")

// Task représente une tâche à exécuter; ctx est annulé à l'arrêt du pool
type Task func(ctx context.Context) error

// WorkerPool gère un pool de workers pour traiter des tâches en parallèle
// (lecture des sources, écriture des exports). Les erreurs sont toutes
// conservées et rendues par Wait.
type WorkerPool struct {
	workerCount int
	tasks       chan Task
	wg          sync.WaitGroup
	parent      context.Context
	ctx         context.Context
	cancel      context.CancelFunc

	mu   sync.Mutex
	errs []error
}

// NewWorkerPool crée un nouveau pool de workers rattaché à ctx
func NewWorkerPool(ctx context.Context, workerCount int) *WorkerPool {
	if workerCount < 1 {
		workerCount = 1
	}
	poolCtx, cancel := context.WithCancel(ctx)
	return &WorkerPool{
		workerCount: workerCount,
		tasks:       make(chan Task, workerCount*2),
		parent:      ctx,
		ctx:         poolCtx,
		cancel:      cancel,
	}
}

// worker est la routine d'exécution des tâches
func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.ctx.Done():
			return
		case task, ok := <-wp.tasks:
			if !ok {
				return
			}
			if err := task(wp.ctx); err != nil {
				wp.mu.Lock()
				wp.errs = append(wp.errs, err)
				wp.mu.Unlock()
			}
		}
	}
}

// Start démarre les workers
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

// Submit soumet une tâche au pool (bloque si le tampon est plein)
func (wp *WorkerPool) Submit(task Task) error {
	if wp.ctx.Err() != nil {
		return ErrPoolStopped
	}
	select {
	case <-wp.ctx.Done():
		return ErrPoolStopped
	case wp.tasks <- task:
		return nil
	}
}

// Wait ferme le canal de tâches, attend la fin des workers et retourne
// les erreurs jointes (nil si toutes les tâches ont réussi)
func (wp *WorkerPool) Wait() error {
	close(wp.tasks)
	wp.wg.Wait()
	wp.cancel()

	wp.mu.Lock()
	defer wp.mu.Unlock()
	// Tâches abandonnées si le contexte parent a été annulé entre-temps
	if err := wp.parent.Err(); err != nil {
		return errors.Join(append(wp.errs, err)...)
	}
	return errors.Join(wp.errs...)
}

// Stop arrête le pool immédiatement; les tâches en attente sont abandonnées
func (wp *WorkerPool) Stop() {
	wp.cancel()
	wp.wg.Wait()
}
