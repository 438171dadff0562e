package io

import (
	"io"
	"os"
	"path/filepath"

	"github.com/klothoplatform/archdiagram/pkg/closenicely"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type (
	// FileRef is a lightweight reference to a file on disk; its contents are only read when `WriteTo` is called.
	// The generate command uses it for architecture description files.
	FileRef struct {
		FPath   string
		RootDir string
	}
)

func (r *FileRef) Clone() File {
	return r
}

func (r *FileRef) Path() string {
	return r.FPath
}

func (r *FileRef) WriteTo(w io.Writer) (int64, error) {
	f, err := os.Open(filepath.Join(r.RootDir, r.FPath))
	if err != nil {
		return 0, err
	}
	defer closenicely.OrDebug(f)
	return io.Copy(w, f)
}

// OutputTo writes every file under dest concurrently, creating directories as needed and truncating existing files.
// The first error encountered is returned once all writes have finished.
func OutputTo(files []File, dest string) error {
	errs := make(chan error)
	for idx := range files {
		go func(f File) {
			errs <- writeFile(f, dest)
		}(files[idx])
	}

	var first error
	for i := 0; i < len(files); i++ {
		if err := <-errs; err != nil && first == nil {
			first = err
		}
	}
	return first
}

func writeFile(f File, dest string) error {
	path := filepath.Join(dest, f.Path())
	if err := os.MkdirAll(filepath.Dir(path), 0777); err != nil {
		return errors.Wrapf(err, "could not create directory for %s", f.Path())
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrapf(err, "could not open %s", path)
	}
	defer closenicely.OrDebug(file)

	counter := &CountingWriter{Delegate: file}
	if _, err := f.WriteTo(counter); err != nil {
		return errors.Wrapf(err, "could not write %s", path)
	}
	zap.L().Debug("Wrote file", zap.String("path", path), zap.Int("bytes", counter.BytesWritten))
	return nil
}
