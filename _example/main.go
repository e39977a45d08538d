package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/hupe1980/elemgo"
	"github.com/hupe1980/elemgo/builtins"
	"github.com/hupe1980/elemgo/element"
	"github.com/hupe1980/elemgo/filter"
	"github.com/hupe1980/elemgo/testutil"
)

func main() {
	seed := int64(4711)
	size := 100000

	ctx := context.Background()

	m, err := elemgo.New()
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	els := testutil.NewRNG(seed).Elements(size)

	fmt.Println("--- Batch Add ---")
	fmt.Println("Size:", size)

	start := time.Now()

	result := m.BatchAdd(ctx, els)
	for _, err := range result.Errors {
		if err != nil {
			log.Fatal(err)
		}
	}

	fmt.Printf("Seconds: %.2f\n\n", time.Since(start).Seconds())

	stats := m.Stats()
	fmt.Println("Elements:", stats.Elements)
	fmt.Println("Types:", stats.Types)
	fmt.Println("Classes:", stats.Classes)
	fmt.Println("Categories:", stats.Categories)
	fmt.Println()

	fmt.Println("--- Collect ---")

	start = time.Now()

	c, err := m.Collector()
	if err != nil {
		log.Fatal(err)
	}

	c.OfClass(element.ClassWall).InstancesOnly()
	if err := c.Err(); err != nil {
		log.Fatal(err)
	}

	fmt.Println("Wall instances:", c.Len())
	fmt.Printf("Seconds: %.4f\n\n", time.Since(start).Seconds())

	fmt.Println("--- Parameter Filter ---")

	start = time.Now()

	large, err := filter.ParameterFilter(builtins.ParamArea, filter.Conditions{
		"greater": 50.0,
	})
	if err != nil {
		log.Fatal(err)
	}

	c.Where(large)
	if err := c.Err(); err != nil {
		log.Fatal(err)
	}

	fmt.Println("Matches:", c.Len())
	fmt.Printf("Seconds: %.4f\n\n", time.Since(start).Seconds())

	fmt.Println("--- Snapshot ---")

	dir, err := os.MkdirTemp("", "elemgo")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "model.snapshot")

	start = time.Now()

	if err := m.SaveToFile(path); err != nil {
		log.Fatal(err)
	}

	fi, err := os.Stat(path)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("Bytes:", fi.Size())
	fmt.Printf("Save seconds: %.2f\n", time.Since(start).Seconds())

	start = time.Now()

	loaded, err := elemgo.NewFromFile(path)
	if err != nil {
		log.Fatal(err)
	}
	defer loaded.Close()

	fmt.Println("Loaded:", loaded.Len())
	fmt.Printf("Load seconds: %.2f\n", time.Since(start).Seconds())
}
