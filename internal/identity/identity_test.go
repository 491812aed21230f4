package identity

import (
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var uuidV4 = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

func TestGenerator_NewID(t *testing.T) {
	// Test layout, version and variant
	t.Run("format", func(t *testing.T) {
		g := New()
		for i := 0; i < 1000; i++ {
			id := g.NewID()
			require.Len(t, id, 36)
			require.Regexp(t, uuidV4, id)
		}
	})

	// Test equal seeds give equal sequences
	t.Run("seeded", func(t *testing.T) {
		a, b := NewGenerator(42), NewGenerator(42)
		for i := 0; i < 10; i++ {
			assert.Equal(t, a.NewID(), b.NewID())
		}
		assert.NotEqual(t, NewGenerator(1).NewID(), NewGenerator(2).NewID())
	})

	// Test concurrent use yields distinct ids
	t.Run("concurrent", func(t *testing.T) {
		g := NewGenerator(7)
		var (
			mu   sync.Mutex
			seen = make(map[string]struct{})
			wg   sync.WaitGroup
		)
		for w := 0; w < 8; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 250; i++ {
					id := g.NewID()
					mu.Lock()
					seen[id] = struct{}{}
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Len(t, seen, 2000)
	})
}

func TestFunc(t *testing.T) {
	var src Source = Func(func() string { return "fixed" })
	assert.Equal(t, "fixed", src.NewID())
}
