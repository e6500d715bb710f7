package daq

import (
	"io"
	"strconv"
)

// LineTerminator ends every reported sample, matching Arduino println.
const LineTerminator = "\r\n"

// Reporter drains a Cell and writes each sample as a decimal text line.
type Reporter struct {
	w    io.Writer
	cell *Cell
	buf  [8]byte // "65535\r\n"
}

// NewReporter returns a Reporter writing to w.
func NewReporter(w io.Writer, cell *Cell) *Reporter {
	return &Reporter{w: w, cell: cell}
}

// Poll runs one loop iteration and reports whether a line was written.
// Write errors are ignored; the serial line has no flow control to react to.
func (r *Reporter) Poll() bool {
	v, ok := r.cell.Take()
	if !ok {
		return false
	}
	line := strconv.AppendUint(r.buf[:0], uint64(v), 10)
	line = append(line, LineTerminator...)
	r.w.Write(line)
	return true
}

// Run polls forever.
func (r *Reporter) Run() {
	for {
		r.Poll()
	}
}
