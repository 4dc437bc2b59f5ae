package schema

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteFile renders the model to path, creating parent directories as
// needed. An existing file is replaced.
func (m *Model) WriteFile(path string) error {
	var buf bytes.Buffer
	if err := m.Render(&buf); err != nil {
		return fmt.Errorf("rendering schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), filePerm); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
