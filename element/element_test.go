package element

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/elemgo/param"
)

func TestName(t *testing.T) {
	e := &Element{ID: 1, Class: ClassWall, Params: param.Set{
		ParamName: param.String("Wall 1"),
	}}
	assert.Equal(t, "Wall 1", e.Name())

	t.Run("Unset", func(t *testing.T) {
		assert.Empty(t, (&Element{ID: 1}).Name())
		assert.Empty(t, (&Element{ID: 1, Params: param.Set{}}).Name())
		assert.Empty(t, (*Element)(nil).Name())
	})

	t.Run("Non String Value", func(t *testing.T) {
		e := &Element{ID: 1, Params: param.Set{ParamName: param.Int(7)}}
		assert.Empty(t, e.Name())
	})
}

func TestViewIndependent(t *testing.T) {
	assert.True(t, (&Element{ID: 1}).ViewIndependent())

	// Listing views keeps an element view independent; owning one does not.
	assert.True(t, (&Element{ID: 1, ViewIDs: []ID{3}}).ViewIndependent())
	assert.False(t, (&Element{ID: 1, OwnerViewID: 3}).ViewIndependent())
}

func TestVisibleIn(t *testing.T) {
	e := &Element{ID: 1, OwnerViewID: 3, ViewIDs: []ID{4, 5}}

	assert.True(t, e.VisibleIn(3))
	assert.True(t, e.VisibleIn(4))
	assert.True(t, e.VisibleIn(5))
	assert.False(t, e.VisibleIn(6))

	assert.False(t, (&Element{ID: 1}).VisibleIn(3))
}

func TestClone(t *testing.T) {
	e := &Element{
		ID:       1,
		Class:    ClassWall,
		SymbolID: 2,
		ViewIDs:  []ID{3},
		Params:   param.Set{ParamName: param.String("Wall 1")},
	}

	clone := e.Clone()
	require.Equal(t, e, clone)

	// Mutating the clone must not reach back into the original.
	clone.ViewIDs[0] = 99
	clone.Params[ParamName] = param.String("changed")
	assert.Equal(t, ID(3), e.ViewIDs[0])
	assert.Equal(t, "Wall 1", e.Name())

	assert.Nil(t, (*Element)(nil).Clone())
}

type refID int64

func (r refID) ElementID() ID { return ID(r) }

func TestIDOf(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want ID
	}{
		{"id", ID(7), 7},
		{"element", &Element{ID: 7}, 7},
		{"referencer", refID(7), 7},
		{"int", 7, 7},
		{"int32", int32(7), 7},
		{"int64", int64(7), 7},
		{"uint32", uint32(7), 7},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			id, err := IDOf(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, id)
		})
	}

	t.Run("Rejects Nil Element", func(t *testing.T) {
		_, err := IDOf((*Element)(nil))
		assert.ErrorIs(t, err, ErrInvalidReference)
	})

	t.Run("Rejects Foreign Types", func(t *testing.T) {
		for _, v := range []any{nil, "7", 7.0, []ID{7}} {
			_, err := IDOf(v)
			assert.ErrorIs(t, err, ErrInvalidReference)
		}
	})
}

func TestIDsOf(t *testing.T) {
	ids, err := IDsOf(ID(1), &Element{ID: 2}, 3)
	require.NoError(t, err)
	assert.Equal(t, []ID{1, 2, 3}, ids)

	ids, err = IDsOf()
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = IDsOf(ID(1), "bogus")
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestIDIsValid(t *testing.T) {
	assert.False(t, InvalidID.IsValid())
	assert.True(t, ID(1).IsValid())
	assert.True(t, ID(-1).IsValid())
}
