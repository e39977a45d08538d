package store

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
)

// Row is a dense, store-local element slot. External element ids map to rows
// on insert; all postings operate on rows.
type Row uint32

// Bitmap implements a 32-bit Roaring Bitmap over rows.
// It wraps the official roaring implementation.
type Bitmap struct {
	rb *roaring.Bitmap
}

// NewBitmap creates a new empty bitmap.
func NewBitmap() *Bitmap {
	return &Bitmap{
		rb: roaring.New(),
	}
}

// Add adds a row to the bitmap.
func (b *Bitmap) Add(r Row) {
	b.rb.Add(uint32(r))
}

// Remove removes a row from the bitmap.
func (b *Bitmap) Remove(r Row) {
	b.rb.Remove(uint32(r))
}

// Contains checks if a row is in the bitmap.
func (b *Bitmap) Contains(r Row) bool {
	return b.rb.Contains(uint32(r))
}

// IsEmpty returns true if the bitmap is empty.
func (b *Bitmap) IsEmpty() bool {
	return b.rb.IsEmpty()
}

// Cardinality returns the number of rows in the bitmap.
func (b *Bitmap) Cardinality() uint64 {
	return b.rb.GetCardinality()
}

// Clone returns a deep copy of the bitmap.
func (b *Bitmap) Clone() *Bitmap {
	return &Bitmap{
		rb: b.rb.Clone(),
	}
}

// Iterator returns an iterator over the bitmap in ascending row order.
func (b *Bitmap) Iterator() iter.Seq[Row] {
	return func(yield func(Row) bool) {
		it := b.rb.Iterator()
		for it.HasNext() {
			if !yield(Row(it.Next())) {
				return
			}
		}
	}
}

// And computes the intersection of two bitmaps in place.
func (b *Bitmap) And(other *Bitmap) {
	b.rb.And(other.rb)
}

// Or computes the union of two bitmaps in place.
func (b *Bitmap) Or(other *Bitmap) {
	b.rb.Or(other.rb)
}

// AndNot removes the other bitmap's rows in place.
func (b *Bitmap) AndNot(other *Bitmap) {
	b.rb.AndNot(other.rb)
}

// Clear removes all rows from the bitmap.
func (b *Bitmap) Clear() {
	b.rb.Clear()
}

// GetSizeInBytes returns the size of the bitmap in bytes.
func (b *Bitmap) GetSizeInBytes() uint64 {
	return b.rb.GetSizeInBytes()
}
