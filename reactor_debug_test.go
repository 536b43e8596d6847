package reactor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDump(t *testing.T) {
	t.Run("DumpScope renders nested scopes", func(t *testing.T) {
		s := NewScope()
		s.Run(func() {
			NewSignal(0, SignalOption[int]{ID: "count"})
			NewScope()
		})

		out := DumpScope(s)
		assert.Contains(t, out, "source")
		assert.Contains(t, out, "scope")
	})

	t.Run("DumpGraph renders a computed's dependency fan-in", func(t *testing.T) {
		count := NewSignal(1, SignalOption[int]{ID: "count"})
		double := NewComputed(func() int { return count.Read() * 2 })
		double.Read()

		out := DumpGraph(double)
		assert.Contains(t, out, "count")
	})

	t.Run("DumpByHeight groups values by graph height", func(t *testing.T) {
		count := NewSignal(1, SignalOption[int]{ID: "count"})
		double := NewComputed(func() int { return count.Read() * 2 }, ComputedOption[int]{ID: "double"})
		quad := NewComputed(func() int { return double.Read() * 2 }, ComputedOption[int]{ID: "quad"})
		quad.Read() // forces both derivations to recompute, establishing their height

		out := DumpByHeight(count, double, quad)

		countLine := lineContaining(out, "count")
		doubleLine := lineContaining(out, "double")
		quadLine := lineContaining(out, "quad")

		assert.True(t, countLine < doubleLine)
		assert.True(t, doubleLine < quadLine)
	})
}

func lineContaining(s, substr string) int {
	for i, line := range strings.Split(s, "\n") {
		if strings.Contains(line, substr) {
			return i
		}
	}
	return -1
}
