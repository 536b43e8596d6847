package reactor

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScope(t *testing.T) {
	t.Run("runs function and disposes", func(t *testing.T) {
		log := []string{}

		s := NewScope()

		s.Run(func() {
			NewEffect(func() {
				log = append(log, "effect")

				OnCleanup(func() { log = append(log, "cleanup") })
			})
		})

		log = append(log, "ran")
		s.Dispose()
		log = append(log, "disposed")

		assert.Equal(t, []string{
			"effect",
			"ran",
			"cleanup",
			"disposed",
		}, log)
	})

	t.Run("nested scopes", func(t *testing.T) {
		log := []string{}

		s := NewScope()
		s.OnCleanup(func() {
			log = append(log, "parent disposed")
		})

		s.Run(func() {
			NewScope().OnCleanup(func() {
				log = append(log, "child disposed")
			})
		})

		s.Dispose()

		assert.Equal(t, []string{
			"child disposed",
			"parent disposed",
		}, log)
	})

	t.Run("sibling effects disposal order", func(t *testing.T) {
		log := []string{}

		s := NewScope()

		s.Run(func() {
			OnCleanup(func() {
				log = append(log, "cleanup")
			})

			NewEffect(func() {
				log = append(log, "running first")

				NewEffect(func() {
					log = append(log, "running nested")
					OnCleanup(func() { log = append(log, "cleanup nested") })
				})

				OnCleanup(func() { log = append(log, "cleanup first") })
			})

			NewEffect(func() {
				log = append(log, "running second")
				OnCleanup(func() { log = append(log, "cleanup second") })
			})
		})

		log = append(log, "ran")
		s.Dispose()
		log = append(log, "disposed")

		assert.Equal(t, []string{
			"running first",
			"running nested",
			"running second",
			"ran",
			"cleanup second",
			"cleanup nested",
			"cleanup first",
			"cleanup",
			"disposed",
		}, log)
	})

	t.Run("catches panics with OnError", func(t *testing.T) {
		log := []string{}

		s := NewScope()
		s.OnError(func(err any) {
			log = append(log, fmt.Sprintf("caught %v", err))
		})

		var errSignal *Signal[error]

		s.Run(func() {
			// should propagate if this scope has no error listener of its own
			NewScope().Run(func() {
				errSignal = NewSignal[error](nil)

				NewEffect(func() {
					if e := errSignal.Read(); e != nil {
						panic(e)
					}
				})
			})
		})

		errSignal.Write(errors.New("oops"))
		Tick()

		assert.Equal(t, []string{"caught oops"}, log)
	})

	t.Run("disposal prevents effect re-runs", func(t *testing.T) {
		log := []int{}

		s := NewScope()
		count := NewSignal(0)

		s.Run(func() {
			NewEffect(func() {
				log = append(log, count.Read())
			})
		})

		count.Write(1)
		Tick()
		s.Dispose()

		count.Write(2) // should not trigger: the effect was disposed
		Tick()

		assert.Equal(t, []int{0, 1}, log)
	})

	t.Run("disposal during effect execution", func(t *testing.T) {
		log := []int{}

		s := NewScope()
		count := NewSignal(0)

		NewEffect(func() {
			if count.Read() > 0 {
				s.Dispose()
			}
		})

		s.Run(func() {
			NewEffect(func() {
				log = append(log, count.Read())
			})
		})

		count.Write(1)
		Tick()

		assert.Equal(t, []int{0}, log)
	})

	t.Run("WithScope re-enters the captured scope on every call", func(t *testing.T) {
		log := []string{}
		var wrapped func() int

		s := NewScope()
		s.Run(func() {
			wrapped = WithScope(func() int {
				ctxScope := GetScope()
				log = append(log, fmt.Sprintf("ran in %p", ctxScope.node()))
				return 7
			})
		})

		outside := GetScope()
		assert.Nil(t, outside)

		assert.Equal(t, 7, wrapped())
		assert.Equal(t, 7, wrapped())
		assert.Len(t, log, 2)
		assert.Equal(t, log[0], log[1]) // both calls saw the same captured scope
	})

	t.Run("WithScope routes a panic through the captured scope's handler and returns zero", func(t *testing.T) {
		log := []string{}
		var wrapped func() int

		s := NewScope()
		s.OnError(func(err any) {
			log = append(log, fmt.Sprintf("caught %v", err))
		})
		s.Run(func() {
			wrapped = WithScope(func() int {
				panic(errors.New("boom"))
			})
		})

		result := wrapped()

		assert.Equal(t, 0, result)
		assert.Equal(t, []string{"caught boom"}, log)
	})

	t.Run("WithScope does not create a node of its own", func(t *testing.T) {
		s := NewScope()
		var wrapped func() int
		s.Run(func() {
			wrapped = WithScope(func() int { return 1 })
		})

		before := DumpScope(s)
		wrapped()
		wrapped()
		after := DumpScope(s)

		assert.Equal(t, before, after) // no derivation/scope child appears from calling it
	})

	t.Run("Root returns init's value and can dispose early", func(t *testing.T) {
		log := []string{}

		result := Root(func(dispose func()) int {
			NewEffect(func() {
				log = append(log, "effect")
				OnCleanup(func() { log = append(log, "cleanup") })
			})
			dispose()
			return 42
		})

		assert.Equal(t, 42, result)
		assert.Equal(t, []string{"effect", "cleanup"}, log)
	})
}
