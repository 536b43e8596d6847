package reactor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputed(t *testing.T) {
	t.Run("derives value from signal", func(t *testing.T) {
		log := []string{}

		count := NewSignal(1)
		double := NewComputed(func() int {
			log = append(log, "doubling")
			return count.Read() * 2
		})
		plustwo := NewComputed(func() int {
			log = append(log, "adding")
			return double.Read() + 2
		})

		assert.Equal(t, 1, count.Read())
		assert.Equal(t, 2, double.Read())
		assert.Equal(t, 4, plustwo.Read())

		count.Write(10)
		assert.Equal(t, 10, count.Read())
		assert.Equal(t, 20, double.Read())
		assert.Equal(t, 22, plustwo.Read())

		assert.Equal(t, []string{
			"doubling",
			"adding",
			"doubling",
			"adding",
		}, log)
	})

	t.Run("does not propagate when value unchanged", func(t *testing.T) {
		log := []string{}

		count := NewSignal(1)
		a := NewComputed(func() int {
			log = append(log, "running a")
			return count.Read() * 0 // always returns 0
		})
		b := NewComputed(func() int {
			log = append(log, "running b")
			return a.Read() + 1
		})

		a.Read()
		b.Read()

		count.Write(10) // recomputes a (still dirty-checked), not b, since a's value is unchanged
		b.Read()

		assert.Equal(t, []string{
			"running a",
			"running b",
			"running a",
		}, log)
	})

	t.Run("is pure across ticks with no dependency changes", func(t *testing.T) {
		count := NewSignal(21)
		c := NewComputed(func() int { return count.Read() * 2 })

		first := c.Read()
		Tick()
		second := c.Read()

		assert.Equal(t, 42, first)
		assert.Equal(t, first, second)
	})

	t.Run("fallback is used on first-run error", func(t *testing.T) {
		c := NewComputedErr(func() (int, error) {
			return 0, errors.New("boom")
		}, ComputedOption[int]{Fallback: -1, HasFallback: true})

		assert.Equal(t, -1, c.Read())
	})

	t.Run("previous value is retained on a later error", func(t *testing.T) {
		count := NewSignal(1)
		c := NewComputedErr(func() (int, error) {
			v := count.Read()
			if v < 0 {
				return 0, errors.New("negative")
			}
			return v * 10, nil
		})

		assert.Equal(t, 10, c.Read())

		count.Write(-1)
		assert.Equal(t, 10, c.Read()) // error swallowed: retains previous value
	})

	t.Run("cyclic dependency panics", func(t *testing.T) {
		var b *Computed[int]
		a := NewComputed(func() int { return b.Read() })
		b = NewComputed(func() int { return a.Read() })

		defer func() {
			r := recover()
			assert.NotNil(t, r)
			err, ok := r.(error)
			assert.True(t, ok)
			assert.Contains(t, err.Error(), "cyclic dependency")
		}()
		b.Read()
	})
}
