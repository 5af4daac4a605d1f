package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONMapRoundTrip(t *testing.T) {
	m := JSONMap{"pattern": "CVC", "nasal": true}

	val, err := m.Value()
	require.NoError(t, err)

	var got JSONMap
	require.NoError(t, got.Scan(val))
	assert.Equal(t, "CVC", got["pattern"])
	assert.Equal(t, true, got["nasal"])

	var nilMap JSONMap
	val, err = nilMap.Value()
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestStringListRoundTrip(t *testing.T) {
	l := StringList{"oral", "nasal"}

	val, err := l.Value()
	require.NoError(t, err)

	var got StringList
	require.NoError(t, got.Scan(val))
	assert.Equal(t, l, got)

	// sqlite hands back text, postgres bytes
	var fromString StringList
	require.NoError(t, fromString.Scan(`["oral","nasal"]`))
	assert.Equal(t, l, fromString)

	assert.True(t, got.Contains("nasal"))
	assert.False(t, got.Contains("laryngealized"))
}

func TestScanEdgeCases(t *testing.T) {
	var l IDList
	require.NoError(t, l.Scan(nil))
	assert.Nil(t, l)

	err := l.Scan(42)
	assert.Error(t, err)
}
