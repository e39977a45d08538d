package elemgo_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/hupe1980/elemgo"
	"github.com/hupe1980/elemgo/blobstore"
	"github.com/hupe1980/elemgo/builtins"
	"github.com/hupe1980/elemgo/element"
	"github.com/hupe1980/elemgo/filter"
	"github.com/hupe1980/elemgo/param"
	"github.com/hupe1980/elemgo/wrap"
)

// Example demonstrates adding elements and collecting them declaratively.
func Example() {
	ctx := context.Background()

	m, err := elemgo.New()
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	// One wall type and two placed walls.
	typeID, err := m.AddElement(ctx, &element.Element{
		Class:    element.ClassWallType,
		Category: builtins.CategoryWalls,
		IsType:   true,
		Params:   param.Set{"Name": param.String("Generic - 200mm")},
	})
	if err != nil {
		log.Fatal(err)
	}

	for _, name := range []string{"W1", "W2"} {
		if _, err := m.AddElement(ctx, &element.Element{
			Class:    element.ClassWall,
			Category: builtins.CategoryWalls,
			SymbolID: typeID,
			Params:   param.Set{"Name": param.String(name)},
		}); err != nil {
			log.Fatal(err)
		}
	}

	c, err := m.Collector()
	if err != nil {
		log.Fatal(err)
	}

	for _, e := range c.OfCategory(builtins.CategoryWalls).InstancesOnly().Elements() {
		fmt.Println(e.Name())
	}
	// Output:
	// W1
	// W2
}

// ExampleModel_Collector demonstrates a fluent filter chain with a
// parameter rule.
func ExampleModel_Collector() {
	ctx := context.Background()

	m, err := elemgo.New()
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	levelID, err := m.AddElement(ctx, &element.Element{
		Class:    element.ClassLevel,
		Category: builtins.CategoryLevels,
		Params:   param.Set{"Name": param.String("Level 1")},
	})
	if err != nil {
		log.Fatal(err)
	}

	walls := []struct {
		name   string
		height float64
	}{
		{"W1", 3.0},
		{"W2", 4.5},
		{"W3", 6.0},
	}
	for _, w := range walls {
		if _, err := m.AddElement(ctx, &element.Element{
			Class:    element.ClassWall,
			Category: builtins.CategoryWalls,
			LevelID:  levelID,
			Params: param.Set{
				"Name":                       param.String(w.name),
				builtins.ParamHeight.Key():   param.Float(w.height),
				builtins.ParamComments.Key(): param.String("example"),
			},
		}); err != nil {
			log.Fatal(err)
		}
	}

	tall, err := filter.ParameterFilter(builtins.ParamHeight, filter.Conditions{
		"greater": 4.0,
	})
	if err != nil {
		log.Fatal(err)
	}

	c, err := m.Collector()
	if err != nil {
		log.Fatal(err)
	}

	for _, e := range c.OfClass("Wall").OnLevel(levelID).Where(tall).Elements() {
		fmt.Println(e.Name())
	}
	// Output:
	// W2
	// W3
}

// ExampleCollector_WrappedElements demonstrates typed element wrappers.
func ExampleCollector_WrappedElements() {
	ctx := context.Background()

	m, err := elemgo.New()
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	typeID, err := m.AddElement(ctx, &element.Element{
		Class:    element.ClassWallType,
		Category: builtins.CategoryWalls,
		IsType:   true,
		Params: param.Set{
			"Name": param.String("Generic - 200mm"),
			"Kind": param.String("Basic"),
		},
	})
	if err != nil {
		log.Fatal(err)
	}

	if _, err := m.AddElement(ctx, &element.Element{
		Class:    element.ClassWall,
		Category: builtins.CategoryWalls,
		SymbolID: typeID,
		Params:   param.Set{"Name": param.String("W1")},
	}); err != nil {
		log.Fatal(err)
	}

	c, err := m.Collector(elemgo.WithFilters(filter.Spec{
		filter.KeyOfClass: element.ClassWall,
	}))
	if err != nil {
		log.Fatal(err)
	}

	wrapped, err := c.WrappedElements()
	if err != nil {
		log.Fatal(err)
	}

	w := wrapped[0].(*wrap.Wall)
	kind, err := w.Kind()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%s is a %s wall\n", w.Name(), kind)
	// Output: W1 is a Basic wall
}

// Example_durability demonstrates journal-backed crash recovery.
func Example_durability() {
	dir, err := os.MkdirTemp("", "elemgo")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	ctx := context.Background()

	m, err := elemgo.New(elemgo.WithJournal(dir))
	if err != nil {
		log.Fatal(err)
	}

	for _, name := range []string{"W1", "W2"} {
		if _, err := m.AddElement(ctx, &element.Element{
			Class:    element.ClassWall,
			Category: builtins.CategoryWalls,
			Params:   param.Set{"Name": param.String(name)},
		}); err != nil {
			log.Fatal(err)
		}
	}
	_ = m.Close()

	// A fresh model replays the journal back to the last committed state.
	recovered, err := elemgo.New(elemgo.WithJournal(dir))
	if err != nil {
		log.Fatal(err)
	}
	defer recovered.Close()

	if err := recovered.RecoverFromJournal(ctx); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("recovered %d elements\n", recovered.Len())
	// Output: recovered 2 elements
}

// Example_blobSnapshot demonstrates snapshotting into a blob store.
func Example_blobSnapshot() {
	ctx := context.Background()
	bs := blobstore.NewMemoryStore()

	m, err := elemgo.New()
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	if _, err := m.AddElement(ctx, &element.Element{
		Class:    element.ClassWall,
		Category: builtins.CategoryWalls,
		Params:   param.Set{"Name": param.String("W1")},
	}); err != nil {
		log.Fatal(err)
	}

	// Write a versioned snapshot blob and advance the CURRENT pointer.
	if err := m.SaveSnapshot(ctx, bs, "model"); err != nil {
		log.Fatal(err)
	}

	loaded, err := elemgo.LoadSnapshot(ctx, bs, "")
	if err != nil {
		log.Fatal(err)
	}
	defer loaded.Close()

	fmt.Printf("elements: %d\n", loaded.Len())
	// Output: elements: 1
}
