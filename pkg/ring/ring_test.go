package ring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func seq(from, to int) []float32 {
	out := make([]float32, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, float32(i))
	}
	return out
}

func TestBuffer_Empty(t *testing.T) {
	b := New(4)
	assert.Equal(t, 4, b.Size())
	assert.Zero(t, b.Len())
	assert.Empty(t, b.View(nil))
}

func TestBuffer_Append(t *testing.T) {
	b := New(3)
	b.Append(1)
	b.Append(2)
	assert.Equal(t, []float32{1, 2}, b.View(nil))

	b.Append(3)
	b.Append(4)
	assert.Equal(t, 3, b.Len())
	assert.Equal(t, []float32{2, 3, 4}, b.View(nil))
}

func TestBuffer_Extend(t *testing.T) {
	tests := []struct {
		name   string
		size   int
		chunks [][]float32
		want   []float32
	}{
		{"partial", 5, [][]float32{seq(0, 3)}, seq(0, 3)},
		{"exactly full", 5, [][]float32{seq(0, 5)}, seq(0, 5)},
		{"wraps", 5, [][]float32{seq(0, 3), seq(3, 7)}, seq(2, 7)},
		{"longer than buffer", 5, [][]float32{seq(0, 2), seq(2, 14)}, seq(9, 14)},
		{"many small", 4, [][]float32{seq(0, 3), seq(3, 6), seq(6, 9)}, seq(5, 9)},
		{"empty chunk", 4, [][]float32{seq(0, 2), nil}, seq(0, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(tt.size)
			for _, c := range tt.chunks {
				b.Extend(c)
			}
			assert.Equal(t, tt.want, b.View(nil))
		})
	}
}

func TestBuffer_ViewReusesDst(t *testing.T) {
	b := New(4)
	b.Extend(seq(0, 6))

	dst := make([]float32, 0, 10)
	got := b.View(dst)
	assert.Equal(t, seq(2, 6), got)
	assert.Equal(t, cap(dst), cap(got))
}

func TestBuffer_Reset(t *testing.T) {
	b := New(3)
	b.Extend(seq(0, 5))
	b.Reset()
	assert.Zero(t, b.Len())

	b.Append(7)
	assert.Equal(t, []float32{7}, b.View(nil))
}

func TestNew_InvalidSize(t *testing.T) {
	b := New(0)
	b.Append(1)
	b.Append(2)
	assert.Equal(t, []float32{2}, b.View(nil))
}
