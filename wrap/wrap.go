// Package wrap provides typed views over stored elements.
//
// A wrapper pairs an element with the source it came from, so navigation
// (instance to type, type to instances) can resolve references without the
// caller threading a model around. Wrappers are registered per class;
// unregistered classes fall back to Generic.
package wrap

import (
	"sync"

	"github.com/hupe1980/elemgo/element"
	"github.com/hupe1980/elemgo/filter"
)

// Source resolves element references for wrappers. *elemgo.Model satisfies
// it; tests can substitute a fixture.
type Source interface {
	// Get returns the element with the given id.
	Get(id element.ID) (*element.Element, error)

	// Collect materializes the elements matching spec.
	Collect(spec filter.Spec) ([]*element.Element, error)
}

// Wrapped is a typed view over an element.
type Wrapped interface {
	// Unwrap returns the underlying element.
	Unwrap() *element.Element
}

// Factory builds the wrapper for one class.
type Factory func(src Source, e *element.Element) Wrapped

var (
	registryMu sync.RWMutex
	registry   = map[element.Class]Factory{}
)

// Register installs the factory for a class, replacing any previous one.
// The built-in wall wrappers register themselves; applications can add
// their own classes the same way.
func Register(class element.Class, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[class] = factory
}

// Wrap returns the registered wrapper for the element's class, or a
// *Generic when none is registered.
func Wrap(src Source, e *element.Element) Wrapped {
	registryMu.RLock()
	factory := registry[e.Class]
	registryMu.RUnlock()

	if factory == nil {
		return &Generic{src: src, e: e}
	}
	return factory(src, e)
}

// Generic is the fallback wrapper for classes without a registered factory.
type Generic struct {
	src Source
	e   *element.Element
}

// Unwrap implements Wrapped.
func (g *Generic) Unwrap() *element.Element { return g.e }

// Name returns the element's display name.
func (g *Generic) Name() string { return g.e.Name() }
