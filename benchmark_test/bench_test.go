package benchmark_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/hupe1980/elemgo"
	"github.com/hupe1980/elemgo/element"
	"github.com/hupe1980/elemgo/journal"
)

func BenchmarkAddElement(b *testing.B) {
	benchmarkAddElement(b)
}

func BenchmarkAddElement_JournalSync(b *testing.B) {
	dir := b.TempDir()

	benchmarkAddElement(b, elemgo.WithJournal(dir, func(o *journal.Options) {
		o.Sync = journal.SyncOnCommit
	}))
}

func BenchmarkAddElement_JournalAsync(b *testing.B) {
	dir := b.TempDir()

	benchmarkAddElement(b, elemgo.WithJournal(dir, func(o *journal.Options) {
		o.Sync = journal.SyncNone
	}))
}

func benchmarkAddElement(b *testing.B, optFns ...elemgo.Option) {
	b.ReportAllocs()

	m, err := elemgo.New(optFns...)
	if err != nil {
		b.Fatal(err)
	}
	defer m.Close()

	pool := elementPool(1024)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e := pool[i%len(pool)].Clone()
		if _, err := m.AddElement(ctx, e); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkBatchAdd(b *testing.B) {
	for _, size := range []int{100, 1000} {
		b.Run(fmt.Sprintf("size_%d", size), func(b *testing.B) {
			b.ReportAllocs()

			m, err := elemgo.New()
			if err != nil {
				b.Fatal(err)
			}
			defer m.Close()

			pool := elementPool(size)
			ctx := context.Background()

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				b.StopTimer()
				batch := make([]*element.Element, size)
				for j, e := range pool {
					batch[j] = e.Clone()
				}
				b.StartTimer()

				result := m.BatchAdd(ctx, batch)
				for _, err := range result.Errors {
					if err != nil {
						b.Fatal(err)
					}
				}
			}
		})
	}
}

func BenchmarkGet(b *testing.B) {
	const size = 10000

	m := newBenchModel(b, size)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		id := element.ID(i%size + 1)
		if _, err := m.Get(id); err != nil {
			b.Fatal(err)
		}
	}
}
