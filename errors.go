package elemgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/elemgo/blobstore"
	"github.com/hupe1980/elemgo/journal"
	"github.com/hupe1980/elemgo/store"
)

var (
	// ErrNotFound is returned when an element, snapshot file or blob is not found.
	ErrNotFound = errors.New("not found")

	// ErrClosed is returned when operating on a closed model.
	ErrClosed = errors.New("model is closed")

	// ErrNoModel is returned by collector construction when no model is in
	// scope: neither WithModel nor an ambient current model was supplied.
	ErrNoModel = errors.New("no model in scope")

	// ErrInvalidElement is returned when adding a nil element.
	ErrInvalidElement = errors.New("invalid element")

	// ErrDuplicateID is returned when adding an element whose explicit id is
	// already taken.
	ErrDuplicateID = errors.New("duplicate element id")

	// ErrNoSnapshotPath is returned by SaveToFile("") on a model built
	// without WithSnapshotPath.
	ErrNoSnapshotPath = errors.New("no snapshot path configured")
)

func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Not found unification: absent blobs and snapshot files surface the
	// same sentinel as element misses.
	if errors.Is(err, blobstore.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	// Lifecycle normalization.
	if errors.Is(err, journal.ErrClosed) {
		return fmt.Errorf("%w: %w", ErrClosed, err)
	}

	// Identity normalization.
	if errors.Is(err, store.ErrDuplicateID) {
		return fmt.Errorf("%w: %w", ErrDuplicateID, err)
	}
	if errors.Is(err, store.ErrInvalidID) {
		return fmt.Errorf("%w: %w", ErrInvalidElement, err)
	}

	return err
}
