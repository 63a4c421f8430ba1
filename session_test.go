package lintrans

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRoundTrip(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.Set("A", NewMatrix(1, 2, 3, 4)))
	require.NoError(t, store.Set("B", NewMatrix(-0.5, 0, 19.2, 7)))
	require.NoError(t, store.Set("N", "A^2"))
	require.NoError(t, store.Set("O", "NB+3A"))

	session := &Session{
		Store:         store,
		PolygonPoints: [][2]float64{{0, 0}, {1, 0}, {1.5, 2.25}},
		DisplaySettings: DisplaySettings{
			AnimateDeterminant:           false,
			ApplicativeAnimation:         true,
			AnimationPauseLength:         250,
			DrawDeterminantParallelogram: true,
		},
		InputVector: [2]float64{-1, 3.5},
	}

	path := filepath.Join(t.TempDir(), "nested", "session.lt")
	require.NoError(t, session.Save(path))

	loaded, version, extra, err := LoadSession(path)
	require.NoError(t, err)
	assert.Equal(t, Version, version)
	assert.False(t, extra)

	assert.Equal(t, session.PolygonPoints, loaded.PolygonPoints)
	assert.Equal(t, session.DisplaySettings, loaded.DisplaySettings)
	assert.Equal(t, session.InputVector, loaded.InputVector)

	a, err := loaded.Store.Get("A")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, NewMatrix(1, 2, 3, 4), *a)

	// Bindings come back as bindings, still lazily evaluated.
	expr, err := loaded.Store.GetExpression("O")
	require.NoError(t, err)
	assert.Equal(t, "NB+3A", expr)

	want, err := store.Get("O")
	require.NoError(t, err)
	got, err := loaded.Store.Get("O")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.ApproxEqual(*want, eps))
}

// Bindings may be written to disk in any order; loading must still
// resolve N = A^2 before O = N^-1 regardless of file order.
func TestLoadSessionResolvesBindingsOutOfOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.lt")
	file := `lintrans: "0.3.0"
matrices:
  - name: O
    expression: N^-1
  - name: N
    expression: A^2
  - name: A
    entries: [1, 2, 3, 4]
`
	require.NoError(t, os.WriteFile(path, []byte(file), 0o644))

	loaded, _, _, err := LoadSession(path)
	require.NoError(t, err)

	expr, err := loaded.Store.GetExpression("O")
	require.NoError(t, err)
	assert.Equal(t, "N^-1", expr)
}

func TestLoadSessionRejectsUndefinedReference(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.lt")
	file := `lintrans: "0.3.0"
matrices:
  - name: N
    expression: Z^2
`
	require.NoError(t, os.WriteFile(path, []byte(file), 0o644))

	_, _, _, err := LoadSession(path)
	require.ErrorIs(t, err, ErrValue)
}

func TestLoadSessionRejectsHandEditedCycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.lt")
	file := `lintrans: "0.3.0"
matrices:
  - name: N
    expression: O
  - name: O
    expression: N
`
	require.NoError(t, os.WriteFile(path, []byte(file), 0o644))

	_, _, _, err := LoadSession(path)
	require.ErrorIs(t, err, ErrValue)
}

func TestLoadSessionFlagsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.lt")
	file := `lintrans: "9.9.9"
matrices: []
shiny_new_feature: true
`
	require.NoError(t, os.WriteFile(path, []byte(file), 0o644))

	_, version, extra, err := LoadSession(path)
	require.NoError(t, err)
	assert.Equal(t, "9.9.9", version)
	assert.True(t, extra)
}

func TestLoadSessionMissingFile(t *testing.T) {
	_, _, _, err := LoadSession(filepath.Join(t.TempDir(), "does-not-exist.lt"))
	require.Error(t, err)
}

func TestDefaultDisplaySettings(t *testing.T) {
	d := DefaultDisplaySettings()
	assert.True(t, d.AnimateDeterminant)
	assert.True(t, d.ApplicativeAnimation)
	assert.Equal(t, 400, d.AnimationPauseLength)
	assert.False(t, d.DrawDeterminantParallelogram)
}
