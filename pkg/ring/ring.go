// Package ring provides a fixed-size buffer for streaming plot data.
package ring

// Buffer keeps the last Size values written to it.
type Buffer struct {
	data []float32
	ptr  int
	full bool
}

// New creates a buffer holding size values.
func New(size int) *Buffer {
	if size <= 0 {
		size = 1
	}
	return &Buffer{data: make([]float32, size)}
}

// Size returns the capacity.
func (b *Buffer) Size() int {
	return len(b.data)
}

// Len returns how many values are held.
func (b *Buffer) Len() int {
	if b.full {
		return len(b.data)
	}
	return b.ptr
}

// Append writes one value, overwriting the oldest when full.
func (b *Buffer) Append(v float32) {
	b.data[b.ptr] = v
	b.ptr = (b.ptr + 1) % len(b.data)
	if b.ptr == 0 {
		b.full = true
	}
}

// Extend writes vals in order. When vals is longer than the buffer only
// its tail is kept.
func (b *Buffer) Extend(vals []float32) {
	n := len(vals)
	size := len(b.data)
	if n == 0 {
		return
	}

	if n >= size {
		copy(b.data, vals[n-size:])
		b.ptr = 0
		b.full = true
		return
	}

	end := b.ptr + n
	if end <= size {
		copy(b.data[b.ptr:end], vals)
		if end == size {
			b.full = true
		}
	} else {
		split := size - b.ptr
		copy(b.data[b.ptr:], vals[:split])
		copy(b.data[:end-size], vals[split:])
		b.full = true
	}
	b.ptr = end % size
}

// View copies the contents into dst in chronological order, reusing dst
// when it has capacity.
func (b *Buffer) View(dst []float32) []float32 {
	n := b.Len()
	if cap(dst) < n {
		dst = make([]float32, n)
	}
	dst = dst[:n]

	if b.full {
		k := copy(dst, b.data[b.ptr:])
		copy(dst[k:], b.data[:b.ptr])
	} else {
		copy(dst, b.data[:b.ptr])
	}
	return dst
}

// Reset empties the buffer.
func (b *Buffer) Reset() {
	clear(b.data)
	b.ptr = 0
	b.full = false
}
