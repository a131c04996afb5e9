package businessflow

import (
	"math/rand"
	"testing"

	"github.com/DavidIrvine-TW/tombola/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func beanList(ids ...uint) []*models.Bean {
	out := make([]*models.Bean, 0, len(ids))
	for _, id := range ids {
		out = append(out, &models.Bean{ID: id})
	}
	return out
}

func TestExcludeBean(t *testing.T) {
	t.Run("RemovesMatchingBean", func(t *testing.T) {
		candidates := excludeBean(beanList(1, 2, 3), 2)
		require.Len(t, candidates, 2)
		assert.Equal(t, uint(1), candidates[0].ID)
		assert.Equal(t, uint(3), candidates[1].ID)
	})

	t.Run("ZeroIDExcludesNothing", func(t *testing.T) {
		beans := beanList(1, 2, 3)
		assert.Len(t, excludeBean(beans, 0), 3)
	})

	t.Run("UnknownIDExcludesNothing", func(t *testing.T) {
		assert.Len(t, excludeBean(beanList(1, 2, 3), 99), 3)
	})

	t.Run("SingleBeanLeavesEmpty", func(t *testing.T) {
		assert.Empty(t, excludeBean(beanList(7), 7))
	})
}

func TestPickRandom(t *testing.T) {
	t.Run("SingleCandidateSkipsRandomSource", func(t *testing.T) {
		picked := pickRandom(beanList(42), func(int) int {
			t.Fatal("random source must not be consulted for a single candidate")
			return 0
		})
		assert.Equal(t, uint(42), picked.ID)
	})

	t.Run("UsesRandomIndex", func(t *testing.T) {
		picked := pickRandom(beanList(10, 20, 30), func(n int) int {
			assert.Equal(t, 3, n)
			return 1
		})
		assert.Equal(t, uint(20), picked.ID)
	})

	t.Run("EveryCandidateReachable", func(t *testing.T) {
		beans := beanList(1, 2, 3, 4, 5)
		rng := rand.New(rand.NewSource(1))
		seen := make(map[uint]bool)
		for i := 0; i < 500; i++ {
			seen[pickRandom(beans, rng.Intn).ID] = true
		}
		assert.Len(t, seen, 5)
	})
}
