package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/neronlabs/neron/internal/models"
)

func TestSessionRegistry(t *testing.T) {
	t.Run("get before put returns nil", func(t *testing.T) {
		reg := newSessionRegistry()

		assert.Nil(t, reg.get(1))
	})

	t.Run("put replaces the previous session", func(t *testing.T) {
		reg := newSessionRegistry()

		reg.put(1, &SearchSession{Query: "first"})
		reg.put(1, &SearchSession{Query: "second"})

		assert.Equal(t, "second", reg.get(1).Query)
	})

	t.Run("concurrent put and get do not tear", func(t *testing.T) {
		reg := newSessionRegistry()
		session := &SearchSession{
			Query:   "query",
			Results: []models.RankedResult{{ID: 1, Similarity: 0.9}},
		}

		var wg sync.WaitGroup

		for i := 0; i < 16; i++ {
			wg.Add(2)

			go func() {
				defer wg.Done()
				reg.put(1, session)
			}()

			go func() {
				defer wg.Done()

				if s := reg.get(1); s != nil {
					assert.Equal(t, "query", s.Query)
				}
			}()
		}

		wg.Wait()
	})
}
