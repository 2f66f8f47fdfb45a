package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_LookupAndIDs(t *testing.T) {
	cat, err := New([]Variant{
		{ID: 7, Tasks: []Task{{Text: "B", Time: 10}}},
		{ID: 2, Tasks: []Task{{Text: "A", Time: 5}, {Text: "A2", Time: 6}}},
		{ID: 9},
	})
	require.NoError(t, err)

	assert.Equal(t, []int{2, 7, 9}, cat.IDs())
	assert.Equal(t, 3, cat.Len())

	tasks, ok := cat.Lookup(2)
	require.True(t, ok)
	assert.Equal(t, []Task{{Text: "A", Time: 5}, {Text: "A2", Time: 6}}, tasks)

	tasks, ok = cat.Lookup(9)
	assert.True(t, ok, "a variant with no tasks is still present")
	assert.Empty(t, tasks)

	_, ok = cat.Lookup(42)
	assert.False(t, ok)
}

func TestNew_DuplicateID(t *testing.T) {
	_, err := New([]Variant{{ID: 1}, {ID: 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate variant id 1")
}

func TestNew_CopiesTasks(t *testing.T) {
	src := []Task{{Text: "A", Time: 5}}
	cat, err := New([]Variant{{ID: 1, Tasks: src}})
	require.NoError(t, err)

	src[0].Text = "mutated"
	tasks, _ := cat.Lookup(1)
	assert.Equal(t, "A", tasks[0].Text)
}

func TestNilCatalog(t *testing.T) {
	var cat *Catalog
	_, ok := cat.Lookup(1)
	assert.False(t, ok)
	assert.Nil(t, cat.IDs())
	assert.Zero(t, cat.Len())
}
