package ioutil

import (
	"fmt"
	"io"

	"github.com/klothoplatform/archdiagram/pkg/multierr"
)

type (
	// WriteToHelper wraps an [io.Writer] together with the count and err that an [io.WriterTo] has to report. Writes
	// are delegated until the first error; after that they are dropped, so a renderer can emit line after line without
	// checking each one.
	WriteToHelper struct {
		out   io.Writer
		count *int64
		err   *error
	}
)

// NewWriteToHelper creates a WriteToHelper that delegates to out and keeps count and err up to date.
//
//	func (d *Diagram) WriteTo(w io.Writer) (n int64, err error) {
//		wh := ioutil.NewWriteToHelper(w, &n, &err)
//		wh.Writeln("graph TD;")
//		return
//	}
func NewWriteToHelper(out io.Writer, count *int64, err *error) WriteToHelper {
	return WriteToHelper{
		out:   out,
		count: count,
		err:   err,
	}
}

// AddErr records err alongside any error already recorded.
func (w WriteToHelper) AddErr(err error) {
	if err == nil {
		return
	}
	if *w.err == nil {
		*w.err = err
		return
	}
	*w.err = multierr.Append(*w.err, err)
}

func (w WriteToHelper) Write(s string) {
	w.Writef(`%s`, s)
}

// Writeln writes s followed by a newline.
func (w WriteToHelper) Writeln(s string) {
	w.Writef("%s\n", s)
}

func (w WriteToHelper) Writef(format string, a ...any) {
	if *w.err != nil {
		return
	}

	count, err := fmt.Fprintf(w.out, format, a...)
	*w.count += int64(count)
	*w.err = err
}
