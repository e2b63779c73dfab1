package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	f := New(10)
	assert.NotNil(t, f)
	assert.Equal(t, 10, f.Window())
	assert.Equal(t, 0, f.Average())
}

func TestNew_InvalidWindowSize(t *testing.T) {
	f := New(0)
	assert.Equal(t, 1, f.Window())

	// Window of 1 passes samples through unchanged
	assert.Equal(t, 42, f.Update(42))
	assert.Equal(t, 7, f.Update(7))
}

func TestUpdate_FillsFromZero(t *testing.T) {
	f := New(4)

	// Zero-initialized slots participate in the mean until the window fills
	assert.Equal(t, 25, f.Update(100)) // 100/4
	assert.Equal(t, 50, f.Update(100)) // 200/4
	assert.Equal(t, 75, f.Update(100)) // 300/4
	assert.Equal(t, 100, f.Update(100))
}

func TestUpdate_MeanOfLastN(t *testing.T) {
	f := New(3)

	inputs := []int{10, 20, 30, 40, 50, 60}
	for i, raw := range inputs {
		got := f.Update(raw)
		if i >= 2 {
			// Window full: exact mean of the last 3 inputs
			want := (inputs[i] + inputs[i-1] + inputs[i-2]) / 3
			assert.Equal(t, want, got, "after input %d", i)
		}
	}
}

func TestUpdate_TruncatingDivision(t *testing.T) {
	f := New(10)

	// Ten samples of 100, then one of 200: (9*100 + 200)/10 = 119
	for i := 0; i < 10; i++ {
		f.Update(100)
	}
	assert.Equal(t, 119, f.Update(200))
}

func TestUpdate_Deterministic(t *testing.T) {
	inputs := []int{152, 148, 155, 160, 149, 151, 153, 147, 158, 150, 330, 410, 390}

	run := func(f *Filter) []int {
		out := make([]int, 0, len(inputs))
		for _, raw := range inputs {
			out = append(out, f.Update(raw))
		}
		return out
	}

	f := New(10)
	first := run(f)
	f.Reset()
	second := run(f)

	assert.Equal(t, first, second)
}

func TestAverage_DoesNotConsume(t *testing.T) {
	f := New(2)
	f.Update(10)
	f.Update(20)

	assert.Equal(t, 15, f.Average())
	assert.Equal(t, 15, f.Average())

	// Running total still matches the buffer contents after reads
	assert.Equal(t, 25, f.Update(30)) // oldest sample evicted: (20+30)/2
}

func TestReset(t *testing.T) {
	f := New(5)
	for i := 0; i < 7; i++ {
		f.Update(500)
	}
	assert.Equal(t, 500, f.Average())

	f.Reset()
	assert.Equal(t, 0, f.Average())
	assert.Equal(t, 100, f.Update(500)) // 500/5, cursor back at slot 0
}
