package infrastructure

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPool_RunsEveryTask(t *testing.T) {
	wp := NewWorkerPool(context.Background(), 3)
	wp.Start()

	var done atomic.Int32
	for i := 0; i < 50; i++ {
		require.NoError(t, wp.Submit(func(ctx context.Context) error {
			done.Add(1)
			return nil
		}))
	}

	require.NoError(t, wp.Wait())
	assert.EqualValues(t, 50, done.Load())
}

func TestWorkerPool_KeepsAllErrors(t *testing.T) {
	wp := NewWorkerPool(context.Background(), 1)
	wp.Start()

	errA := errors.New("produtos.csv illisible")
	errB := errors.New("vendas.xlsx illisible")
	_ = wp.Submit(func(ctx context.Context) error { return errA })
	_ = wp.Submit(func(ctx context.Context) error { return nil })
	_ = wp.Submit(func(ctx context.Context) error { return errB })

	err := wp.Wait()
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
}

func TestWorkerPool_SubmitAfterStop(t *testing.T) {
	wp := NewWorkerPool(context.Background(), 2)
	wp.Start()
	wp.Stop()

	err := wp.Submit(func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrPoolStopped)
}

func TestWorkerPool_ParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	wp := NewWorkerPool(ctx, 2)
	wp.Start()
	cancel()

	assert.ErrorIs(t, wp.Submit(func(ctx context.Context) error { return nil }), ErrPoolStopped)
	wp.Stop()
}

// ========================================
// Benchmarks: Worker Count
// ========================================

func benchmarkWorkerPool(b *testing.B, workers, work int) {
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		wp := NewWorkerPool(context.Background(), workers)
		wp.Start()
		for j := 0; j < 100; j++ {
			_ = wp.Submit(func(ctx context.Context) error {
				sum := 0
				for k := 0; k < work; k++ {
					sum += k
				}
				_ = sum
				return nil
			})
		}
		_ = wp.Wait()
	}
}

// BenchmarkWorkerPool_1Worker référence séquentielle
func BenchmarkWorkerPool_1Worker(b *testing.B) { benchmarkWorkerPool(b, 1, 1000) }

// BenchmarkWorkerPool_3Workers un worker par table source
func BenchmarkWorkerPool_3Workers(b *testing.B) { benchmarkWorkerPool(b, 3, 1000) }

// BenchmarkWorkerPool_8Workers pool surdimensionné
func BenchmarkWorkerPool_8Workers(b *testing.B) { benchmarkWorkerPool(b, 8, 1000) }

// BenchmarkWorkerPool_SubmitOnly mesure uniquement l'overhead de Submit()
func BenchmarkWorkerPool_SubmitOnly(b *testing.B) {
	wp := NewWorkerPool(context.Background(), 4)
	wp.Start()
	defer wp.Stop()

	task := func(ctx context.Context) error { return nil }

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = wp.Submit(task)
	}
}
