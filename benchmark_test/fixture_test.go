package benchmark_test

import (
	"context"
	"testing"

	"github.com/hupe1980/elemgo"
	"github.com/hupe1980/elemgo/element"
	"github.com/hupe1980/elemgo/testutil"
)

const benchSeed = 1

// newBenchModel returns a model preloaded with n deterministic elements,
// ids 1..n.
func newBenchModel(b *testing.B, n int, optFns ...elemgo.Option) *elemgo.Model {
	b.Helper()

	m, err := elemgo.New(optFns...)
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = m.Close() })

	result := m.BatchAdd(context.Background(), testutil.NewRNG(benchSeed).Elements(n))
	for _, err := range result.Errors {
		if err != nil {
			b.Fatal(err)
		}
	}

	return m
}

// elementPool returns reusable insert candidates with unassigned ids.
// Callers clone an entry per insert so the pool stays untouched.
func elementPool(n int) []*element.Element {
	els := testutil.NewRNG(benchSeed + 1).Elements(n)
	for _, e := range els {
		e.ID = element.InvalidID
	}

	return els
}
