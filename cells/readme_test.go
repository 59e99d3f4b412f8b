package cells_test

import (
	"log"
	"testing"

	"github.com/delaneyj/cellparty/cells"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// from README
func TestBasicUsage(t *testing.T) {
	r := cells.NewReactor(func(err error) {
		assert.FailNow(t, err.Error())
	})
	count := cells.Input(r, 1)
	doubleCount := cells.Compute1(r, count, func(c int) int {
		return c * 2
	})

	sub := doubleCount.OnChange(func(v int) {
		log.Printf("Count doubled is: %d", v)
	})
	defer sub.Cancel()

	assert.Equal(t, 2, doubleCount.Value())
	require.NoError(t, count.SetValue(2))
	assert.Equal(t, 4, doubleCount.Value())
}

// from README
func TestNamedGraph(t *testing.T) {
	g, err := cells.NewBuilder().
		Input("price", 100).
		Input("qty", 2).
		Compute("total", []string{"price", "qty"}, func(args []any) (any, error) {
			return args[0].(int) * args[1].(int), nil
		}).
		Build()
	require.NoError(t, err)

	total, ok := g.Value("total")
	require.True(t, ok)
	assert.Equal(t, 200, total)

	require.NoError(t, g.Set("qty", 3))
	total, _ = g.Value("total")
	assert.Equal(t, 300, total)
}
