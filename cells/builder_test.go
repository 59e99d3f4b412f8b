package cells_test

import (
	"errors"
	"testing"

	"github.com/delaneyj/cellparty/cells"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sumArgs(args []any) (any, error) {
	total := 0
	for _, arg := range args {
		total += arg.(int)
	}
	return total, nil
}

func TestBuilderBuildsWorkingGraph(t *testing.T) {
	g, err := cells.NewBuilder().
		Compute("sum", []string{"a", "b"}, sumArgs).
		Input("a", 1).
		Input("b", 2).
		Compute("double", []string{"sum"}, func(args []any) (any, error) {
			return args[0].(int) * 2, nil
		}).
		Build()
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "double", "sum"}, g.Names())
	assert.Equal(t, []string{"a", "b"}, g.Inputs())
	require.NotNil(t, g.Reactor())

	v, ok := g.Value("double")
	require.True(t, ok)
	assert.Equal(t, 6, v)

	var seen []any
	sub, err := g.OnChange("double", func(v any) {
		seen = append(seen, v)
	})
	require.NoError(t, err)
	defer sub.Cancel()

	require.NoError(t, g.Set("a", 10))
	v, _ = g.Value("double")
	assert.Equal(t, 24, v)
	assert.Equal(t, []any{24}, seen)
}

func TestBuilderRejectsEmptyAndDuplicateNames(t *testing.T) {
	_, err := cells.NewBuilder().Build()
	require.ErrorIs(t, err, cells.ErrInvalidGraph)

	_, err = cells.NewBuilder().
		Input("", 1).
		Build()
	require.ErrorIs(t, err, cells.ErrInvalidGraph)
	assert.Contains(t, err.Error(), "name is required")

	_, err = cells.NewBuilder().
		Input("a", 1).
		Compute("a", []string{"a"}, sumArgs).
		Build()
	require.ErrorIs(t, err, cells.ErrInvalidGraph)
	assert.Contains(t, err.Error(), `duplicate cell name: "a"`)
}

func TestBuilderRejectsUnknownAndSelfDeps(t *testing.T) {
	_, err := cells.NewBuilder().
		Input("a", 1).
		Compute("sum", []string{"a", "ghost"}, sumArgs).
		Build()
	require.ErrorIs(t, err, cells.ErrInvalidGraph)
	assert.Contains(t, err.Error(), `unknown cell "ghost"`)

	_, err = cells.NewBuilder().
		Compute("loop", []string{"loop"}, sumArgs).
		Build()
	require.ErrorIs(t, err, cells.ErrInvalidGraph)
	assert.Contains(t, err.Error(), "self-loop")

	_, err = cells.NewBuilder().
		Input("a", 1).
		Compute("sum", []string{"a", "a"}, sumArgs).
		Build()
	require.ErrorIs(t, err, cells.ErrInvalidGraph)
	assert.Contains(t, err.Error(), "duplicate dependency")

	_, err = cells.NewBuilder().
		Input("a", 1).
		Compute("orphan", nil, sumArgs).
		Build()
	require.ErrorIs(t, err, cells.ErrInvalidGraph)
	assert.Contains(t, err.Error(), "no dependencies")
}

func TestBuilderRejectsNilComputeFn(t *testing.T) {
	_, err := cells.NewBuilder().
		Input("a", 1).
		Compute("x", []string{"a"}, nil).
		Build()
	require.ErrorIs(t, err, cells.ErrInvalidGraph)
	assert.Contains(t, err.Error(), "nil function")

	// Nil deps and nil fn together must not slip through as an input.
	_, err = cells.NewBuilder().
		Input("a", 1).
		Compute("x", nil, nil).
		Build()
	require.ErrorIs(t, err, cells.ErrInvalidGraph)
	assert.Contains(t, err.Error(), "nil function")
}

func TestBuilderRejectsCycleWithWitness(t *testing.T) {
	_, err := cells.NewBuilder().
		Compute("x", []string{"z"}, sumArgs).
		Compute("y", []string{"x"}, sumArgs).
		Compute("z", []string{"y"}, sumArgs).
		Build()
	require.ErrorIs(t, err, cells.ErrCycle)
	assert.Contains(t, err.Error(), "x -> y -> z -> x")

	// Declaration order must not change the witness.
	_, err = cells.NewBuilder().
		Compute("z", []string{"y"}, sumArgs).
		Compute("x", []string{"z"}, sumArgs).
		Compute("y", []string{"x"}, sumArgs).
		Build()
	require.ErrorIs(t, err, cells.ErrCycle)
	assert.Contains(t, err.Error(), "x -> y -> z -> x")
}

func TestBuilderInitialComputeFailure(t *testing.T) {
	_, err := cells.NewBuilder().
		Input("denominator", 0).
		Compute("inverse", []string{"denominator"}, func(args []any) (any, error) {
			d := args[0].(int)
			if d == 0 {
				return nil, errors.New("division by zero")
			}
			return 100 / d, nil
		}).
		Build()
	require.ErrorIs(t, err, cells.ErrComputeFailed)
	assert.Contains(t, err.Error(), "inverse")
}

func TestBuilderOnErrorObservesFailures(t *testing.T) {
	var reported []error
	g, err := cells.NewBuilder().
		OnError(func(err error) {
			reported = append(reported, err)
		}).
		Input("denominator", 1).
		Compute("inverse", []string{"denominator"}, func(args []any) (any, error) {
			d := args[0].(int)
			if d == 0 {
				return nil, errors.New("division by zero")
			}
			return 100 / d, nil
		}).
		Build()
	require.NoError(t, err)

	err = g.Set("denominator", 0)
	require.ErrorIs(t, err, cells.ErrComputeFailed)
	assert.Contains(t, err.Error(), "inverse: division by zero")
	require.Len(t, reported, 1)

	v, _ := g.Value("denominator")
	assert.Equal(t, 1, v)
	v, _ = g.Value("inverse")
	assert.Equal(t, 100, v)
}

func TestGraphLookupErrors(t *testing.T) {
	g, err := cells.NewBuilder().
		Input("a", 1).
		Compute("double", []string{"a"}, func(args []any) (any, error) {
			return args[0].(int) * 2, nil
		}).
		Build()
	require.NoError(t, err)

	err = g.Set("ghost", 1)
	require.ErrorIs(t, err, cells.ErrUnknownCell)

	err = g.Set("double", 1)
	require.ErrorIs(t, err, cells.ErrNotInput)

	_, ok := g.Value("ghost")
	assert.False(t, ok)

	_, err = g.OnChange("ghost", func(any) {})
	require.ErrorIs(t, err, cells.ErrUnknownCell)
}

func TestGraphSnapshot(t *testing.T) {
	g, err := cells.NewBuilder().
		Input("a", 2).
		Input("b", 3).
		Compute("sum", []string{"a", "b"}, sumArgs).
		Build()
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"a": 2, "b": 3, "sum": 5}, g.Snapshot())

	require.NoError(t, g.Set("a", 10))
	assert.Equal(t, map[string]any{"a": 10, "b": 3, "sum": 13}, g.Snapshot())
}

func TestGraphOnChangeOnInput(t *testing.T) {
	g, err := cells.NewBuilder().
		Input("a", 1).
		Compute("double", []string{"a"}, func(args []any) (any, error) {
			return args[0].(int) * 2, nil
		}).
		Build()
	require.NoError(t, err)

	var seen []any
	_, err = g.OnChange("a", func(v any) {
		seen = append(seen, v)
	})
	require.NoError(t, err)

	require.NoError(t, g.Set("a", 2))
	require.NoError(t, g.Set("a", 2))
	assert.Equal(t, []any{2}, seen)
}

func TestFingerprintTracksTopologyOnly(t *testing.T) {
	build := func(declareSumFirst bool, initial int) *cells.Graph {
		b := cells.NewBuilder()
		if declareSumFirst {
			b.Compute("sum", []string{"a", "b"}, sumArgs)
			b.Input("a", initial)
			b.Input("b", initial)
		} else {
			b.Input("a", initial)
			b.Input("b", initial)
			b.Compute("sum", []string{"a", "b"}, sumArgs)
		}
		built, err := b.Build()
		require.NoError(t, err)
		return built
	}

	g1 := build(true, 1)
	g2 := build(false, 99)
	assert.Equal(t, g1.Fingerprint(), g2.Fingerprint())

	g3, err := cells.NewBuilder().
		Input("a", 1).
		Input("b", 1).
		Compute("sum", []string{"b", "a"}, sumArgs).
		Build()
	require.NoError(t, err)
	assert.NotEqual(t, g1.Fingerprint(), g3.Fingerprint())

	g4, err := cells.NewBuilder().
		Input("a", 1).
		Input("c", 1).
		Compute("sum", []string{"a", "c"}, sumArgs).
		Build()
	require.NoError(t, err)
	assert.NotEqual(t, g1.Fingerprint(), g4.Fingerprint())
}

func TestFingerprintSeparatorNamesStayDistinct(t *testing.T) {
	// One cell whose name embeds the encoding's separator bytes must not
	// hash like two plainly named cells.
	tricky, err := cells.NewBuilder().
		Input("a|input\nb", 1).
		Build()
	require.NoError(t, err)

	plain, err := cells.NewBuilder().
		Input("a", 1).
		Input("b", 1).
		Build()
	require.NoError(t, err)

	assert.NotEqual(t, plain.Fingerprint(), tricky.Fingerprint())

	withEdge, err := cells.NewBuilder().
		Input(`x"<y`, 1).
		Compute("join", []string{`x"<y`}, sumArgs).
		Build()
	require.NoError(t, err)

	split, err := cells.NewBuilder().
		Input("x", 1).
		Input("y", 1).
		Compute("join", []string{"x", "y"}, sumArgs).
		Build()
	require.NoError(t, err)

	assert.NotEqual(t, split.Fingerprint(), withEdge.Fingerprint())
}
