// session.go: saving and loading a whole session to disk.
//
// A session is the store's defined slots plus the auxiliary state a
// front end wants restored: the user's polygon points, display settings,
// and the input vector. The file is YAML, stamped with the version that
// wrote it. Loading reports that version, and whether the file carried
// keys this version does not recognize, so a front end can warn about
// files written by a newer release instead of silently dropping data.
//
// Expression bindings are replayed through Store.Set on load (concrete
// matrices first, then bindings in dependency order), so a hand-edited
// file can never smuggle an undefined reference or a cyclic definition
// into the store.
package lintrans

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DisplaySettings configures how a front end displays transformations.
// The core only carries these between sessions; it never interprets them.
type DisplaySettings struct {
	AnimateDeterminant           bool `yaml:"animate_determinant"`
	ApplicativeAnimation         bool `yaml:"applicative_animation"`
	AnimationPauseLength         int  `yaml:"animation_pause_length"`
	DrawDeterminantParallelogram bool `yaml:"draw_determinant_parallelogram"`
}

// DefaultDisplaySettings returns the settings a fresh session starts with.
func DefaultDisplaySettings() DisplaySettings {
	return DisplaySettings{
		AnimateDeterminant:   true,
		ApplicativeAnimation: true,
		AnimationPauseLength: 400,
	}
}

// Session is everything that gets persisted between runs.
type Session struct {
	Store           *Store
	PolygonPoints   [][2]float64
	DisplaySettings DisplaySettings
	InputVector     [2]float64
}

// sessionFile is the on-disk shape. KnownKeys lists every key this
// version writes; extra keys found on load flag a newer file.
type sessionFile struct {
	Version         string             `yaml:"lintrans"`
	Matrices        []sessionMatrix    `yaml:"matrices"`
	PolygonPoints   [][2]float64       `yaml:"polygon_points"`
	DisplaySettings DisplaySettings    `yaml:"display_settings"`
	InputVector     [2]float64         `yaml:"input_vector"`
}

type sessionMatrix struct {
	Name       string      `yaml:"name"`
	Entries    *[4]float64 `yaml:"entries,omitempty"`    // row-major a, b, c, d
	Expression string      `yaml:"expression,omitempty"` // raw binding
}

var sessionKnownKeys = map[string]bool{
	"lintrans":         true,
	"matrices":         true,
	"polygon_points":   true,
	"display_settings": true,
	"input_vector":     true,
}

// Save writes the session to path, creating parent directories as needed.
func (s *Session) Save(path string) error {
	file := sessionFile{
		Version:         Version,
		PolygonPoints:   s.PolygonPoints,
		DisplaySettings: s.DisplaySettings,
		InputVector:     s.InputVector,
	}
	for _, entry := range s.Store.GetDefinedMatrices() {
		if entry.Name == IdentityName {
			continue
		}
		sm := sessionMatrix{Name: string(entry.Name)}
		if entry.Matrix != nil {
			m := entry.Matrix
			sm.Entries = &[4]float64{m[0][0], m[0][1], m[1][0], m[1][1]}
		} else {
			sm.Expression = entry.Expression
		}
		file.Matrices = append(file.Matrices, sm)
	}

	data, err := yaml.Marshal(&file)
	if err != nil {
		return errors.Wrap(err, "encoding session")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "creating session directory")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "writing session file")
	}
	return nil
}

// LoadSession reads a session from path. It returns the session, the
// lintrans version that wrote the file, and whether the file carried keys
// this version does not recognize.
func LoadSession(path string) (*Session, string, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", false, errors.Wrap(err, "reading session file")
	}

	var file sessionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, "", false, errors.Wrap(err, "decoding session file")
	}

	extra, err := hasUnknownKeys(data)
	if err != nil {
		return nil, "", false, err
	}

	store, err := rebuildStore(file.Matrices)
	if err != nil {
		return nil, "", false, err
	}

	session := &Session{
		Store:           store,
		PolygonPoints:   file.PolygonPoints,
		DisplaySettings: file.DisplaySettings,
		InputVector:     file.InputVector,
	}
	return session, file.Version, extra, nil
}

// rebuildStore replays the saved slots through Set, concrete matrices
// first. Expression bindings may reference each other, so they are
// retried until a full pass makes no progress; a leftover binding means
// the file referenced something undefined (or was edited into a cycle).
func rebuildStore(matrices []sessionMatrix) (*Store, error) {
	store := NewStore()

	var pending []sessionMatrix
	for _, sm := range matrices {
		if sm.Entries != nil {
			e := sm.Entries
			if err := store.Set(sm.Name, NewMatrix(e[0], e[1], e[2], e[3])); err != nil {
				return nil, errors.Wrapf(err, "restoring matrix %s", sm.Name)
			}
			continue
		}
		pending = append(pending, sm)
	}

	for len(pending) > 0 {
		var failed []sessionMatrix
		var lastErr error
		for _, sm := range pending {
			if err := store.Set(sm.Name, sm.Expression); err != nil {
				failed = append(failed, sm)
				lastErr = errors.Wrapf(err, "restoring matrix %s", sm.Name)
			}
		}
		if len(failed) == len(pending) {
			return nil, lastErr
		}
		pending = failed
	}
	return store, nil
}

// hasUnknownKeys reports whether the document's top level contains keys
// this version does not write.
func hasUnknownKeys(data []byte) (bool, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return false, errors.Wrap(err, "decoding session file")
	}
	for key := range raw {
		if !sessionKnownKeys[key] {
			return true, nil
		}
	}
	return false, nil
}
