package analysis

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokensLatestWins(t *testing.T) {
	var tokens Tokens
	assert.False(t, tokens.IsLatest(0))

	first := tokens.Next()
	assert.True(t, tokens.IsLatest(first))

	second := tokens.Next()
	assert.Greater(t, second, first)
	assert.False(t, tokens.IsLatest(first))
	assert.True(t, tokens.IsLatest(second))

	tokens.Invalidate()
	assert.False(t, tokens.IsLatest(second))
}

func TestTokensConcurrent(t *testing.T) {
	var tokens Tokens
	seen := sync.Map{}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, dup := seen.LoadOrStore(tokens.Next(), true)
			assert.False(t, dup)
		}()
	}
	wg.Wait()

	assert.True(t, tokens.IsLatest(50))
}
