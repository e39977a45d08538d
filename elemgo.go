// Package elemgo provides an embedded building-model element store for Go.
//
// Elemgo keeps a model's elements in memory behind bitmap-accelerated
// indexes and answers declarative collector queries over them, with
// production-ready features including:
//
//   - Declarative filtering with a closed, validated filter vocabulary
//   - Fluent collectors with cumulative filters and scope narrowing
//   - Parameter rules with typed comparison and tolerance-aware numerics
//   - Roaring-bitmap secondary indexes for class, category and level axes
//   - Append-only journal with per-record checksums for crash recovery
//   - Block-compressed snapshots to files or blob stores (S3, MinIO, DynamoDB-committed)
//   - Typed element wrappers with a pluggable registry
//
// # Quick Start
//
// Create a model and add elements:
//
//	ctx := context.Background()
//	m, err := elemgo.New(
//	    elemgo.WithJournal("./journal"),
//	    elemgo.WithSnapshotPath("./model.snapshot"),
//	)
//	if err != nil {
//	    panic(err)
//	}
//	defer m.Close()
//
//	id, err := m.AddElement(ctx, &element.Element{
//	    Class:    element.ClassWall,
//	    Category: builtins.CategoryWalls,
//	    Params:   param.Set{"Name": param.String("W1")},
//	})
//
// Query with a collector:
//
//	walls, err := m.Collector()
//	if err != nil {
//	    panic(err)
//	}
//	names := walls.OfClass(element.ClassWall).InstancesOnly().Elements()
//
// Filters accumulate: each call narrows the previous result, and the whole
// chain revalidates and reapplies against the collector's scope.
//
// # Durability
//
// Mutations append to the journal before the store changes, so a crash can
// be recovered by replaying the journal over the latest snapshot:
//
//	m, err := elemgo.NewFromFile("./model.snapshot", elemgo.WithJournal("./journal"))
//	if err != nil {
//	    panic(err)
//	}
//	if err := m.RecoverFromJournal(ctx); err != nil {
//	    panic(err)
//	}
//
// SaveToFile truncates the journal once the snapshot is durable. With
// WithAutoSnapshotInterval the model does this periodically on its own.
package elemgo

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/elemgo/codec"
	"github.com/hupe1980/elemgo/element"
	"github.com/hupe1980/elemgo/filter"
	"github.com/hupe1980/elemgo/journal"
	"github.com/hupe1980/elemgo/resource"
	"github.com/hupe1980/elemgo/store"
)

// Model is an element store with collector queries, journaling and snapshots.
//
// Reads and collector queries stay usable after Close; mutations and
// snapshot operations fail with ErrClosed. Batches are durable as a unit
// but not isolated: a concurrent collector may observe a batch partially
// applied.
type Model struct {
	mu           sync.Mutex // Protects mutations, nextID and snapshot cycles
	store        *store.Store
	journal      *journal.Journal
	codec        codec.Codec
	metrics      MetricsCollector
	logger       *Logger
	resources    *resource.Controller
	snapshotPath string
	nextID       element.ID // Last assigned id
	closed       bool

	stopAutoSnapshot chan struct{}
	wg               sync.WaitGroup
}

var currentModel atomic.Pointer[Model]

// SetCurrent installs m as the ambient current model, the fallback scope for
// collectors built without WithModel. Passing nil clears it.
func SetCurrent(m *Model) {
	currentModel.Store(m)
}

// Current returns the ambient current model, or nil if none is set.
func Current() *Model {
	return currentModel.Load()
}

// New creates an empty model.
func New(optFns ...Option) (*Model, error) {
	opts := applyOptions(optFns)

	m, err := newModel(opts)
	if err != nil {
		return nil, err
	}

	m.startAutoSnapshot(opts.autoSnapshot)

	return m, nil
}

// newModel wires the store, journal and ambient collaborators without
// starting the auto-snapshot loop, so loads can populate the store first.
func newModel(opts options) (*Model, error) {
	c := opts.codec
	if c == nil {
		c = codec.Default
	}

	var jnl *journal.Journal
	if opts.journalPath != "" {
		jnlOptFns := append([]func(*journal.Options){
			func(o *journal.Options) {
				o.Path = opts.journalPath
			},
		}, opts.journalOptions...)

		var err error
		jnl, err = journal.New(jnlOptFns...)
		if err != nil {
			return nil, fmt.Errorf("elemgo: failed to create journal: %w", err)
		}
	}

	nextID := element.ID(0)
	if opts.idStart > 0 {
		nextID = opts.idStart - 1
	}

	return &Model{
		store:        store.New(),
		journal:      jnl,
		codec:        c,
		metrics:      opts.metricsCollector,
		logger:       opts.logger,
		resources:    opts.resources,
		snapshotPath: opts.snapshotPath,
		nextID:       nextID,
	}, nil
}

func (m *Model) startAutoSnapshot(interval time.Duration) {
	if interval <= 0 || m.snapshotPath == "" {
		return
	}
	m.stopAutoSnapshot = make(chan struct{})
	m.wg.Add(1)
	go m.autoSnapshotLoop(interval)
}

// NewFromFile loads a model from a snapshot file.
//
// The snapshot header names the codec its records were written with; it is
// resolved by name and overrides any WithCodec option for decoding. The
// snapshot path defaults to the loaded filename, so SaveToFile and the
// auto-snapshot loop rewrite it in place.
//
// If a journal is configured, call RecoverFromJournal afterwards to replay
// mutations that postdate the snapshot.
func NewFromFile(filename string, optFns ...Option) (*Model, error) {
	opts := applyOptions(optFns)
	if opts.snapshotPath == "" {
		opts.snapshotPath = filename
	}

	m, err := newModel(opts)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	count, bytes, err := m.loadFromFile(filename)
	duration := time.Since(start)
	err = translateError(err)
	m.metrics.RecordSnapshotLoad(bytes, duration, err)
	m.logger.LogSnapshotLoad(context.Background(), filename, count, err)
	if err != nil {
		if m.journal != nil {
			_ = m.journal.Close()
		}
		return nil, err
	}

	m.startAutoSnapshot(opts.autoSnapshot)

	return m, nil
}

// Get retrieves an element by id.
func (m *Model) Get(id element.ID) (*element.Element, error) {
	e, ok := m.store.Get(id)
	if !ok {
		return nil, ErrNotFound
	}

	return e, nil
}

// Collect materializes the elements matching spec against the whole model.
// It is shorthand for building a collector with a single filter, and it
// makes *Model satisfy the wrap.Source interface.
func (m *Model) Collect(spec filter.Spec) ([]*element.Element, error) {
	c, err := m.Collector(WithFilters(spec))
	if err != nil {
		return nil, err
	}

	return c.Elements(), nil
}

// AddElement adds an element to the model.
//
// A zero e.ID asks the model to assign the next free id; the assigned id is
// written back to e.ID and returned. The model takes ownership of e, which
// must not be mutated afterwards.
func (m *Model) AddElement(ctx context.Context, e *element.Element) (element.ID, error) {
	start := time.Now()
	id, err := m.addElement(e)
	duration := time.Since(start)
	err = translateError(err)
	m.metrics.RecordAdd(duration, err)
	m.logger.LogAdd(ctx, id, err)
	return id, err
}

func (m *Model) addElement(e *element.Element) (element.ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return element.InvalidID, ErrClosed
	}

	id, err := m.addLocked(e)
	if err != nil {
		return element.InvalidID, err
	}
	if err := m.commitLocked(); err != nil {
		return id, err
	}
	return id, nil
}

// addLocked journals and inserts a single element. The caller holds m.mu and
// is responsible for committing the journal.
func (m *Model) addLocked(e *element.Element) (element.ID, error) {
	if e == nil {
		return element.InvalidID, ErrInvalidElement
	}

	if !e.ID.IsValid() {
		m.nextID++
		e.ID = m.nextID
	} else {
		if _, exists := m.store.Get(e.ID); exists {
			return element.InvalidID, fmt.Errorf("%w: %d", ErrDuplicateID, int64(e.ID))
		}
		if e.ID > m.nextID {
			m.nextID = e.ID
		}
	}

	if err := m.journalLocked(journal.OpAdd, e.ID, e); err != nil {
		return element.InvalidID, err
	}

	if err := m.store.Insert(e); err != nil {
		return element.InvalidID, err
	}

	return e.ID, nil
}

// journalLocked appends one record; e is nil for deletes.
func (m *Model) journalLocked(op journal.Op, id element.ID, e *element.Element) error {
	if m.journal == nil {
		return nil
	}

	var payload []byte
	if e != nil {
		var err error
		payload, err = m.codec.Marshal(e)
		if err != nil {
			return fmt.Errorf("elemgo: failed to encode element %d: %w", int64(id), err)
		}
	}

	if _, err := m.journal.Append(journal.Record{Op: op, ID: id, Payload: payload}); err != nil {
		return err
	}

	return nil
}

func (m *Model) commitLocked() error {
	if m.journal == nil {
		return nil
	}
	return m.journal.Commit()
}

// BatchAddResult represents the result of a batch add. Both slices align
// with the input: IDs holds the assigned id per element (InvalidID for
// failures) and Errors holds the per-element error (nil for successes).
type BatchAddResult struct {
	IDs    []element.ID
	Errors []error
}

// BatchAdd adds multiple elements to the model. It is more efficient than
// calling AddElement in a loop: the whole batch is journaled with a single
// commit. A failed element does not abort the batch; inspect the aligned
// result slices.
func (m *Model) BatchAdd(ctx context.Context, els []*element.Element) BatchAddResult {
	start := time.Now()
	result := BatchAddResult{
		IDs:    make([]element.ID, len(els)),
		Errors: make([]error, len(els)),
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		for i := range result.Errors {
			result.Errors[i] = ErrClosed
		}
		duration := time.Since(start)
		m.metrics.RecordBatchAdd(len(els), len(els), duration)
		m.logger.LogBatchAdd(ctx, len(els), len(els))
		return result
	}

	failed := 0
	for i, e := range els {
		id, err := m.addLocked(e)
		if err != nil {
			result.IDs[i] = element.InvalidID
			result.Errors[i] = translateError(err)
			failed++
			continue
		}
		result.IDs[i] = id
	}

	// One commit covers every record appended above.
	if err := m.commitLocked(); err != nil {
		err = translateError(err)
		for i := range result.Errors {
			if result.Errors[i] == nil {
				result.Errors[i] = err
				failed++
			}
		}
	}
	m.mu.Unlock()

	duration := time.Since(start)
	m.metrics.RecordBatchAdd(len(els), failed, duration)
	m.logger.LogBatchAdd(ctx, len(els), failed)
	return result
}

// Update replaces the element identified by e.ID. The element must already
// exist; updates never assign ids.
func (m *Model) Update(ctx context.Context, e *element.Element) error {
	start := time.Now()
	err := m.update(e)
	duration := time.Since(start)
	err = translateError(err)
	m.metrics.RecordUpdate(duration, err)
	var id element.ID
	if e != nil {
		id = e.ID
	}
	m.logger.LogUpdate(ctx, id, err)
	return err
}

func (m *Model) update(e *element.Element) error {
	if e == nil {
		return ErrInvalidElement
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if _, exists := m.store.Get(e.ID); !exists {
		return ErrNotFound
	}

	// An add record replaces on replay, so updates reuse it.
	if err := m.journalLocked(journal.OpAdd, e.ID, e); err != nil {
		return err
	}

	m.store.Remove(e.ID)
	if err := m.store.Insert(e); err != nil {
		return err
	}

	return m.commitLocked()
}

// Delete removes an element from the model.
func (m *Model) Delete(ctx context.Context, id element.ID) error {
	start := time.Now()
	err := m.delete(id)
	duration := time.Since(start)
	err = translateError(err)
	m.metrics.RecordDelete(duration, err)
	m.logger.LogDelete(ctx, id, err)
	return err
}

func (m *Model) delete(id element.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if _, exists := m.store.Get(id); !exists {
		return ErrNotFound
	}

	if err := m.journalLocked(journal.OpDelete, id, nil); err != nil {
		return err
	}

	m.store.Remove(id)

	return m.commitLocked()
}

// Len returns the number of elements in the model.
func (m *Model) Len() int {
	return m.store.Len()
}

// Stats returns statistics about the underlying store.
func (m *Model) Stats() store.Stats {
	return m.store.Stats()
}

// Checkpoint truncates the journal. Call it after the model state has been
// captured elsewhere; SaveToFile and SaveSnapshot checkpoint on success
// themselves.
func (m *Model) Checkpoint() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if m.journal == nil {
		return nil
	}

	return translateError(m.journal.Checkpoint())
}

// RecoverFromJournal replays the journal to recover from a crash. This
// should be called after creating a model with a journal but before any
// other operations: an add record inserts or replaces, a delete record
// removes, and ids observed during replay advance the id assigner.
func (m *Model) RecoverFromJournal(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	replayed := 0
	var err error
	if m.journal != nil {
		err = m.journal.Replay(func(rec journal.Record) error {
			switch rec.Op {
			case journal.OpAdd:
				var e element.Element
				if err := m.codec.Unmarshal(rec.Payload, &e); err != nil {
					return fmt.Errorf("failed to decode element %d: %w", int64(rec.ID), err)
				}
				m.store.Remove(e.ID)
				if err := m.store.Insert(&e); err != nil {
					return err
				}
				if e.ID > m.nextID {
					m.nextID = e.ID
				}
			case journal.OpDelete:
				m.store.Remove(rec.ID)
			}
			replayed++
			return nil
		})
	}

	err = translateError(err)
	m.logger.LogJournalReplay(ctx, replayed, err)
	return err
}
