package reactor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffect(t *testing.T) {
	t.Run("runs on signal change with cleanup", func(t *testing.T) {
		log := []string{}

		count := NewSignal(0)
		log = append(log, fmt.Sprintf("%d", count.Read()))

		NewEffect(func() {
			log = append(log, fmt.Sprintf("changed %d", count.Read()))

			OnCleanup(func() {
				log = append(log, "cleanup")
			})
		})

		count.Write(10)
		Tick()
		log = append(log, fmt.Sprintf("%d", count.Read()))
		count.Write(20)
		Tick()

		assert.Equal(t, []string{
			"0",
			"changed 0",
			"cleanup",
			"changed 10",
			"10",
			"cleanup",
			"changed 20",
		}, log)
	})

	t.Run("writes to another signal", func(t *testing.T) {
		log := []string{}

		count := NewSignal(0)
		double := NewSignal(0)

		NewEffect(func() {
			double.Write(count.Read() * 2)
		})

		NewEffect(func() {
			log = append(log, fmt.Sprintf("changed %d", double.Read()))

			OnCleanup(func() {
				log = append(log, "cleanup")
			})
		})

		count.Write(10)
		Tick()

		assert.Equal(t, []string{
			"changed 0",
			"cleanup",
			"changed 20",
		}, log)
	})

	t.Run("nested effects", func(t *testing.T) {
		log := []string{}

		count := NewSignal(0)

		NewEffect(func() {
			count.Read()
			log = append(log, "running")

			NewEffect(func() {
				log = append(log, "running nested")

				OnCleanup(func() {
					log = append(log, "cleanup nested")
				})
			})

			OnCleanup(func() {
				log = append(log, "cleanup")
			})
		})

		count.Write(10)
		Tick()

		assert.Equal(t, []string{
			"running",
			"running nested",
			"cleanup nested",
			"cleanup",
			"running",
			"running nested",
		}, log)
	})

	t.Run("diamond dependency", func(t *testing.T) {
		log := []string{}

		count := NewSignal(0)
		double := NewComputed(func() int { return count.Read() * 2 })
		quad := NewComputed(func() int { return count.Read() * 4 })

		NewEffect(func() {
			log = append(log, fmt.Sprintf("running %d %d", double.Read(), quad.Read()))

			OnCleanup(func() {
				log = append(log, fmt.Sprintf("cleanup %d %d", double.Read(), quad.Read()))
			})
		})

		count.Write(10)
		Tick()

		assert.Equal(t, []string{
			"running 0 0",
			"cleanup 20 40",
			"running 20 40",
		}, log)
	})

	t.Run("deps change between runs", func(t *testing.T) {
		log := []string{}

		count := NewSignal(0)

		initialized := false
		NewEffect(func() {
			log = append(log, "running")
			if !initialized {
				count.Read()
			}
			initialized = true
		})

		count.Write(1)
		Tick()
		count.Write(2) // should not trigger: the effect no longer depends on count
		Tick()

		assert.Equal(t, []string{
			"running",
			"running",
		}, log)
	})

	t.Run("stop prevents further runs", func(t *testing.T) {
		log := []int{}
		count := NewSignal(0)

		e := NewEffect(func() {
			log = append(log, count.Read())
		})

		count.Write(1)
		Tick()
		e.Stop()
		count.Write(2)
		Tick()

		assert.Equal(t, []int{0, 1}, log)
	})

	t.Run("render and user effects both re-run on a write", func(t *testing.T) {
		log := []string{}
		count := NewSignal(0)

		NewRenderEffect(func() {
			log = append(log, fmt.Sprintf("render %d", count.Read()))
		})
		NewEffect(func() {
			log = append(log, fmt.Sprintf("user %d", count.Read()))
		})

		count.Write(1)
		Tick()

		assert.ElementsMatch(t, []string{"render 0", "user 0", "render 1", "user 1"}, log)
	})
}
