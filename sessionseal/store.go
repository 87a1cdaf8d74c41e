package sessionseal

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore keeps one sealed snapshot in a file readable only by its owner.
type FileStore struct {
	Path   string
	Sealer *Sealer
}

// Save seals snap and replaces the file atomically.
func (f *FileStore) Save(snap Snapshot) error {
	value, err := f.Sealer.Seal(snap)
	if err != nil {
		return err
	}
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".zabbix-session-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.WriteString(value + "\n"); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.Path)
}

// Load opens the stored snapshot for url. It returns an error matching
// fs.ErrNotExist when nothing has been saved.
func (f *FileStore) Load(url string) (Snapshot, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return Snapshot{}, err
	}
	return f.Sealer.Open(string(data), url)
}

// Remove deletes the stored snapshot. A missing file is not an error.
func (f *FileStore) Remove() error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
