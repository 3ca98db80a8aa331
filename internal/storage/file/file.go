package file

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"track/internal/record"
	"track/internal/storage"
	"track/internal/trackerr"
)

const fileMode = 0644

// Store keeps the record in a single fixed-size file.
type Store struct {
	fs   afero.Fs
	path string
}

var _ storage.RecordStore = (*Store)(nil)

func New(fs afero.Fs, path string) *Store {
	return &Store{fs: fs, path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Load reads and decodes the record. Missing, short, long or corrupt files
// are all IO failures.
func (s *Store) Load() (record.Record, error) {
	var r record.Record
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return r, trackerr.IOFailure("open", s.path, err)
	}
	if err := r.UnmarshalBinary(data); err != nil {
		return r, trackerr.CorruptRecord(s.path, err)
	}
	return r, nil
}

// Save replaces the file with the encoded record. The bytes go to a
// temporary file in the same directory which is then renamed over the
// target, so readers see either the old record or the new one.
func (s *Store) Save(r record.Record) error {
	data, err := r.MarshalBinary()
	if err != nil {
		return trackerr.Wrap(err, trackerr.CodeIOFailure, "failed to encode record")
	}

	dir := filepath.Dir(s.path)
	tmp, err := afero.TempFile(s.fs, dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return trackerr.IOFailure("open", s.path, err)
	}
	tmpName := tmp.Name()

	if err := writeAndClose(tmp, data); err != nil {
		s.fs.Remove(tmpName)
		return trackerr.IOFailure("write", s.path, err)
	}
	if err := s.fs.Chmod(tmpName, fileMode); err != nil {
		s.fs.Remove(tmpName)
		return trackerr.IOFailure("write", s.path, err)
	}
	if err := s.fs.Rename(tmpName, s.path); err != nil {
		s.fs.Remove(tmpName)
		return trackerr.IOFailure("write", s.path, err)
	}
	return nil
}

func writeAndClose(f afero.File, data []byte) error {
	n, err := f.Write(data)
	if err == nil && n != len(data) {
		err = fmt.Errorf("short write: %d of %d bytes", n, len(data))
	}
	if err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
