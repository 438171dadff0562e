package io

import (
	"io"
	"path/filepath"
)

// File is anything the tool writes out: diagram markup, exports, architecture dumps.
type File interface {
	Path() string
	WriteTo(io.Writer) (int64, error)
	Clone() File
}

// RawFile is a File whose content is already in memory, such as a rendered SVG.
type RawFile struct {
	FPath   string
	Content []byte
}

func (r *RawFile) Clone() File {
	nf := &RawFile{
		FPath: r.FPath,
	}
	nf.Content = make([]byte, len(r.Content))
	copy(nf.Content, r.Content)
	return nf
}

func (r *RawFile) Path() string {
	return r.FPath
}

func (r *RawFile) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.Content)
	return int64(n), err
}

type dirFile struct {
	File
	dir string
}

// InDir returns f placed under dir, for writing several results side by side with [OutputTo].
func InDir(dir string, f File) File {
	return &dirFile{File: f, dir: dir}
}

func (d *dirFile) Path() string {
	return filepath.Join(d.dir, d.File.Path())
}

func (d *dirFile) Clone() File {
	return &dirFile{File: d.File.Clone(), dir: d.dir}
}
