package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestShellValue(t *testing.T) {
	cases := map[int]int{0: 8, 1: 1, 2: 2, 3: 3, 4: 4}
	for down, want := range cases {
		assert.Equal(t, want, shellValue(down), "down=%d", down)
	}
}

func TestRollShells_AllUp(t *testing.T) {
	v, down := RollShells(&seqSource{vals: []int{0}})
	assert.Equal(t, 8, v)
	assert.Equal(t, 0, down)
}

func TestRollShells_AllDown(t *testing.T) {
	v, down := RollShells(&seqSource{vals: []int{1}})
	assert.Equal(t, 4, v)
	assert.Equal(t, 4, down)
}

func TestRollShells_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		shells := rapid.SliceOfN(rapid.IntRange(0, 1), ShellCount, ShellCount).Draw(rt, "shells")
		v, down := RollShells(&seqSource{vals: shells})

		want := 0
		for _, s := range shells {
			want += s
		}
		assert.Equal(rt, want, down)
		assert.Contains(rt, []int{1, 2, 3, 4, 8}, v)
	})
}

func TestRollShells_Distribution(t *testing.T) {
	const trials = 200000
	src := rand.New(rand.NewSource(7))
	counts := map[int]int{}
	for i := 0; i < trials; i++ {
		v, _ := RollShells(src)
		counts[v]++
	}
	want := map[int]float64{1: 0.25, 2: 0.375, 3: 0.25, 4: 0.0625, 8: 0.0625}
	assert.Len(t, counts, len(want))
	for v, p := range want {
		got := float64(counts[v]) / trials
		assert.InDelta(t, p, got, 0.01, "P(roll=%d)", v)
	}
}

func TestCryptoSource_InRange(t *testing.T) {
	src := NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(2)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 2)
	}
}

func TestCryptoSource_PanicsOnZero(t *testing.T) {
	assert.Panics(t, func() { NewCryptoSource().Intn(0) })
}
