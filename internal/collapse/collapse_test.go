package collapse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func times(keys []Key) []float64 {
	out := make([]float64, len(keys))
	for i, k := range keys {
		out[i] = k.Time
	}
	return out
}

func TestLinearRunKeepsEndpoints(t *testing.T) {
	for _, n := range []int{2, 3, 10, 100} {
		c := New(true)
		for i := 0; i < n; i++ {
			c.Push(float64(i), []float64{float64(i) * 0.5, 1, -float64(i)})
		}
		got := c.Finish()
		require.Len(t, got, 2, "n=%d", n)
		assert.Equal(t, []float64{0, float64(n - 1)}, times(got))
	}
}

func TestSingleSlopeChange(t *testing.T) {
	const n = 12
	for k := 2; k < n; k++ {
		c := New(true)
		for i := 0; i < n; i++ {
			v := float64(i)
			if i >= k {
				v = float64(k-1) + float64(i-k+1)*3
			}
			c.Push(float64(i), []float64{v})
		}
		got := c.Finish()
		assert.Equal(t, []float64{0, float64(k - 1), n - 1}, times(got), "k=%d", k)
	}
}

func TestConstantValues(t *testing.T) {
	c := New(true)
	for i := 0; i < 5; i++ {
		c.Push(float64(i)/30, []float64{0, 0, 0, 1})
	}
	got := c.Finish()
	require.Len(t, got, 2)
	assert.Equal(t, []float64{0, 0, 0, 1}, got[1].Value)
}

func TestWithinTolerance(t *testing.T) {
	c := New(true)
	c.Push(0, []float64{0})
	c.Push(1, []float64{1})
	c.Push(2, []float64{2 + 5e-7})
	c.Push(3, []float64{3})
	assert.Len(t, c.Finish(), 2)
}

func TestDisabledKeepsEverything(t *testing.T) {
	c := New(false)
	for i := 0; i < 6; i++ {
		c.Push(float64(i), []float64{1})
	}
	assert.Len(t, c.Finish(), 6)
}

func TestSingleSample(t *testing.T) {
	c := New(true)
	c.Push(0, []float64{4})
	got := c.Finish()
	require.Len(t, got, 1)
	assert.Equal(t, []float64{4}, got[0].Value)
}

func TestFinishResets(t *testing.T) {
	c := New(true)
	c.Push(0, []float64{1})
	c.Push(1, []float64{2})
	c.Finish()
	assert.Empty(t, c.Finish())

	c.Push(5, []float64{1})
	assert.Equal(t, []float64{5}, times(c.Finish()))
}

func TestPushCopiesValue(t *testing.T) {
	c := New(false)
	v := []float64{1, 2}
	c.Push(0, v)
	v[0] = 9
	assert.Equal(t, []float64{1, 2}, c.Finish()[0].Value)
}
