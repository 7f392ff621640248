package docstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitPath(t *testing.T) {
	segments, err := SplitPath("/users/abc/")
	require.NoError(t, err)
	assert.Equal(t, []string{"users", "abc"}, segments)

	segments, err = SplitPath("/")
	require.NoError(t, err)
	assert.Empty(t, segments)

	for _, bad := range []string{"users//abc", "users/a.b", "exams/$x", "a/[0]"} {
		_, err := SplitPath(bad)
		assert.ErrorIs(t, err, ErrInvalidPath, bad)
	}
}

func TestPlanWritesSortsAndCollectsCollections(t *testing.T) {
	writes, err := planWrites(map[string]interface{}{
		"/potentials/p1": map[string]interface{}{"name": "A"},
		"inquiries/i1":   nil,
		"inquiries/i2":   nil,
	})
	require.NoError(t, err)
	require.Len(t, writes, 3)
	assert.Equal(t, "inquiries/i1", writes[0].path)
	assert.Equal(t, "potentials/p1", writes[2].path)
	assert.Equal(t, []string{"inquiries", "potentials"}, touchedCollections(writes))
}

func TestPlanWritesRejectsScalarCollection(t *testing.T) {
	_, err := planWrites(map[string]interface{}{"users": "oops"})
	assert.ErrorIs(t, err, ErrCollectionNotAnObj)

	_, err = planWrites(map[string]interface{}{"/": map[string]interface{}{}})
	assert.ErrorIs(t, err, ErrInvalidPath)
}
