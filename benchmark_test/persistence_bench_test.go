package benchmark_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/elemgo"
	"github.com/hupe1980/elemgo/testutil"
)

func BenchmarkSnapshotSave(b *testing.B) {
	const size = 10000

	m := newBenchModel(b, size)
	path := filepath.Join(b.TempDir(), "bench.snapshot")

	// Prime once to learn the on-disk size.
	if err := m.SaveToFile(path); err != nil {
		b.Fatal(err)
	}

	fi, err := os.Stat(path)
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(fi.Size())

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := m.SaveToFile(path); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSnapshotLoad(b *testing.B) {
	const size = 10000

	m := newBenchModel(b, size)
	path := filepath.Join(b.TempDir(), "bench.snapshot")

	if err := m.SaveToFile(path); err != nil {
		b.Fatal(err)
	}

	fi, err := os.Stat(path)
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(fi.Size())

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		loaded, err := elemgo.NewFromFile(path)
		if err != nil {
			b.Fatal(err)
		}
		if loaded.Len() != size {
			b.Fatal("short load")
		}
		_ = loaded.Close()
	}
}

func BenchmarkJournalReplay(b *testing.B) {
	const size = 5000

	dir := b.TempDir()
	ctx := context.Background()

	m, err := elemgo.New(elemgo.WithJournal(dir))
	if err != nil {
		b.Fatal(err)
	}

	result := m.BatchAdd(ctx, testutil.NewRNG(benchSeed).Elements(size))
	for _, err := range result.Errors {
		if err != nil {
			b.Fatal(err)
		}
	}
	if err := m.Close(); err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		recovered, err := elemgo.New(elemgo.WithJournal(dir))
		if err != nil {
			b.Fatal(err)
		}
		if err := recovered.RecoverFromJournal(ctx); err != nil {
			b.Fatal(err)
		}
		if recovered.Len() != size {
			b.Fatal("short replay")
		}
		_ = recovered.Close()
	}
}
