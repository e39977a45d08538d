// Package elemgo provides an embedded element database for building models.
//
// Elemgo is an in-process store for BIM-style element graphs (walls, types,
// levels, views, symbols) with a declarative collector engine: loosely-typed
// filter specs and fluent chains translate into bitmap-indexed narrowing
// operations and materialize deterministic result sets.
//
// # Quick Start
//
//	ctx := context.Background()
//	m, _ := elemgo.New()
//	defer m.Close()
//
//	id, _ := m.AddElement(ctx, &element.Element{
//	    Class:    element.ClassWall,
//	    Category: builtins.CategoryWalls,
//	    Params:   param.Set{"Name": param.String("W1")},
//	})
//
// # Collecting Elements
//
// A Collector narrows the model through a fluent chain or a filter spec;
// both forms share one vocabulary and compose cumulatively:
//
//	c, _ := m.Collector()
//	walls := c.OfClass(element.ClassWall).InstancesOnly().OnLevel(level).Elements()
//
//	c, _ = m.Collector(elemgo.WithFilters(filter.Spec{
//	    filter.KeyOfCategory: "OST_Walls",
//	    filter.KeyIsType:     false,
//	}))
//
// Scopes bound the baseline before any filter runs, with silent precedence
// view > elements > ids > whole model:
//
//	c, _ = m.Collector(elemgo.InView(planView))
//	c, _ = m.Collector(elemgo.FromIDs(1, 2, 3))
//
// # Parameter Filters
//
// Reusable comparison rules over element parameters, with string case
// options and float tolerance:
//
//	tall, _ := filter.ParameterFilter(builtins.ParamHeight, filter.Conditions{
//	    "greater_equal": 4.0,
//	})
//	c.Where(tall)
//
// # Durability
//
// Mutations append to an optional journal before the store applies them;
// snapshots capture the whole model and checkpoint the journal:
//
//	m, _ := elemgo.New(elemgo.WithJournal(dir))
//	_ = m.RecoverFromJournal(ctx)      // after a restart
//	_ = m.SaveToFile("model.snapshot") // checkpoint
//
// # Cloud Snapshots
//
// Snapshots stream into any BlobStore; versioned names plus a CURRENT
// pointer keep old versions loadable:
//
//	bs, _ := s3.New(ctx, "my-bucket", s3.WithPrefix("models/"))
//	_ = m.SaveSnapshot(ctx, bs, "model")
//	m2, _ := elemgo.LoadSnapshot(ctx, bs, "")
//
// # Key Features
//
//   - Declarative filter specs with fail-fast validation
//   - Roaring-bitmap postings for class/category/level/symbol/view narrowing
//   - Parameter rules: equals/contains/begins/ends/greater/less + negations
//   - Append-only journal with torn-tail tolerant replay
//   - Compressed, checksummed snapshots (LZ4, ZSTD)
//   - Pluggable blob storage (local, memory, S3, MinIO) with block caching
//   - Typed domain wrappers (walls) over the collector engine
package elemgo
