package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"reflect"
	"time"

	"github.com/delaneyj/cellparty/cells"
	"github.com/delaneyj/cellparty/dumbdumb"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

func main() {
	seed := flag.Int64("seed", 0, "RNG seed, 0 picks one from the clock")
	flag.Parse()
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	log.Print("Starting cells soak, please wait...")
	defer log.Print("Finished cells soak")
	log.Printf("Using seed %d, pass -seed=%d to replay this run", *seed, *seed)
	random := rand.New(rand.NewSource(*seed))

	soakCfgs := []soakConfig{
		{
			name:     "narrow deep",
			width:    5,
			layers:   40,
			nSources: 2, // must stay <= width
			writes:   4000,
		},
		{
			name:     "wide shallow",
			width:    200,
			layers:   4,
			nSources: 3,
			writes:   2000,
		},
		{
			name:     "boxy",
			width:    40,
			layers:   12,
			nSources: 4,
			writes:   3000,
		},
		{
			name:     "dense joins",
			width:    30,
			layers:   8,
			nSources: 6,
			writes:   3000,
		},
	}

	rs := dumbdumb.NewReactiveSystem()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{
		"config", "size", "nSources", "writes",
		"checks", "batches", "fires", "time",
	})

	for _, cfg := range soakCfgs {
		log.Printf("Running '%s' config", cfg.name)
		rs.Reset()

		pair, err := soakBuild(&soakBuildConfig{
			rs:       rs,
			random:   random,
			width:    cfg.width,
			layers:   cfg.layers,
			nSources: cfg.nSources,
		})
		if err != nil {
			log.Fatalf("'%s' build: %v", cfg.name, err)
		}

		start := time.Now()
		stats, err := soakRun(&soakRunConfig{
			name:   cfg.name,
			rs:     rs,
			pair:   pair,
			random: random,
			writes: cfg.writes,
		})
		if err != nil {
			log.Fatalf("'%s' run: %v", cfg.name, err)
		}
		duration := time.Since(start)

		table.Append([]string{
			cfg.name,
			fmt.Sprintf("%dx%d", cfg.width, cfg.layers),
			fmt.Sprint(cfg.nSources),
			humanize.Comma(int64(cfg.writes)),
			humanize.Comma(stats.checks),
			humanize.Comma(stats.batches),
			humanize.Comma(stats.fires),
			fmt.Sprint(duration),
		})
	}
	table.Render()
}

type soakConfig struct {
	name     string // friendly name for the run, should be unique
	width    int    // cells per layer
	layers   int    // input layer plus compute layers
	nSources int    // dependencies per compute cell, must be <= width
	writes   int    // writes to replay against both engines
}

type soakBuildConfig struct {
	rs                      *dumbdumb.ReactiveSystem
	random                  *rand.Rand
	width, layers, nSources int
}

// soakPair is one topology built twice: the real graph and the oracle.
type soakPair struct {
	graph   *cells.Graph
	oracle  map[string]*dumbdumb.Cell
	names   []string
	sources []string
	leaves  []string
}

func soakBuild(cfg *soakBuildConfig) (*soakPair, error) {
	b := cells.NewBuilder()
	oracle := map[string]*dumbdumb.Cell{}

	sources := make([]string, cfg.width)
	prev := make([]string, cfg.width)
	oraclePrev := make([]*dumbdumb.Cell, cfg.width)
	for i := 0; i < cfg.width; i++ {
		name := fmt.Sprintf("s%d", i)
		b.Input(name, i)
		oracle[name] = cfg.rs.Signal(i)
		sources[i] = name
		prev[i] = name
		oraclePrev[i] = oracle[name]
	}

	for l := 1; l < cfg.layers; l++ {
		next := make([]string, cfg.width)
		oracleNext := make([]*dumbdumb.Cell, cfg.width)
		for i := 0; i < cfg.width; i++ {
			name := fmt.Sprintf("l%dc%d", l, i)
			depNames := make([]string, cfg.nSources)
			depCells := make([]*dumbdumb.Cell, cfg.nSources)
			for s := 0; s < cfg.nSources; s++ {
				x := (i + s) % cfg.width
				depNames[s] = prev[x]
				depCells[s] = oraclePrev[x]
			}

			// Both engines share one op so any disagreement is the
			// propagation logic, never the arithmetic.
			op := soakOps[cfg.random.Intn(len(soakOps))]
			b.Compute(name, depNames, func(args []any) (any, error) {
				return op(args), nil
			})
			oracle[name] = cfg.rs.Computed(func(args []any) any {
				return op(args)
			}, depCells...)
			next[i] = name
			oracleNext[i] = oracle[name]
		}
		prev, oraclePrev = next, oracleNext
	}

	graph, err := b.Build()
	if err != nil {
		return nil, err
	}

	return &soakPair{
		graph:   graph,
		oracle:  oracle,
		names:   graph.Names(),
		sources: sources,
		leaves:  prev,
	}, nil
}

type soakRunConfig struct {
	name   string
	rs     *dumbdumb.ReactiveSystem
	pair   *soakPair
	random *rand.Rand
	writes int
}

type soakRunStats struct {
	checks  int64
	batches int64
	fires   int64
}

type soakWrite struct {
	cell  string
	value int
}

// Replay random writes against both engines and diff every cell after
// each one. Fire counts are compared on plain writes only, a batch is a
// single propagation on one side and several on the other.
func soakRun(cfg *soakRunConfig) (*soakRunStats, error) {
	pair := cfg.pair
	stats := &soakRunStats{}

	cellsFires := 0
	oracleFires := 0
	for _, leaf := range pair.leaves {
		sub, err := pair.graph.OnChange(leaf, func(any) { cellsFires++ })
		if err != nil {
			return nil, err
		}
		defer sub.Cancel()
		cfg.rs.Effect(pair.oracle[leaf], func(any) { oracleFires++ })
	}

	for i := 0; i < cfg.writes; i++ {
		switch {
		case i%8 == 7:
			writes := make([]soakWrite, 3)
			for j := range writes {
				writes[j] = soakWrite{
					cell:  pair.sources[cfg.random.Intn(len(pair.sources))],
					value: cfg.random.Intn(1 << 16),
				}
			}
			r := pair.graph.Reactor()
			err := r.Batch(func() {
				for _, w := range writes {
					if err := pair.graph.Set(w.cell, w.value); err != nil {
						log.Fatalf("'%s' write %d: staging %q: %v", cfg.name, i, w.cell, err)
					}
				}
			})
			if err != nil {
				return nil, fmt.Errorf("batch at write %d: %w", i, err)
			}
			for _, w := range writes {
				pair.oracle[w.cell].SetValue(w.value)
			}
			stats.batches++

		case i%5 == 3:
			// Rewrite the current value, neither side may react.
			src := pair.sources[cfg.random.Intn(len(pair.sources))]
			cur, _ := pair.graph.Value(src)
			before, oracleBefore := cellsFires, oracleFires
			if err := pair.graph.Set(src, cur); err != nil {
				return nil, fmt.Errorf("same-value write %d: %w", i, err)
			}
			pair.oracle[src].SetValue(cur)
			if cellsFires != before || oracleFires != oracleBefore {
				log.Fatalf("'%s' write %d: same-value write to %q fired, cells=%d oracle=%d",
					cfg.name, i, src, cellsFires-before, oracleFires-oracleBefore)
			}

		default:
			src := pair.sources[cfg.random.Intn(len(pair.sources))]
			v := cfg.random.Intn(1 << 16)
			before, oracleBefore := cellsFires, oracleFires
			if err := pair.graph.Set(src, v); err != nil {
				return nil, fmt.Errorf("write %d: %w", i, err)
			}
			pair.oracle[src].SetValue(v)
			if cellsFires-before != oracleFires-oracleBefore {
				log.Fatalf("'%s' write %d: fire mismatch on %q, cells=%d oracle=%d",
					cfg.name, i, src, cellsFires-before, oracleFires-oracleBefore)
			}
		}

		stats.checks += soakCompare(cfg.name, i, pair)
	}

	stats.fires = int64(cellsFires)
	return stats, nil
}

func soakCompare(cfgName string, write int, pair *soakPair) int64 {
	checks := int64(0)
	for _, name := range pair.names {
		got, ok := pair.graph.Value(name)
		if !ok {
			log.Fatalf("'%s' write %d: cell %q vanished", cfgName, write, name)
		}
		want := pair.oracle[name].Value()
		if !reflect.DeepEqual(got, want) {
			log.Fatalf("'%s' write %d: cell %q diverged, got %v want %v",
				cfgName, write, name, got, want)
		}
		checks++
	}
	return checks
}

var soakOps = []func(args []any) int{
	func(args []any) int {
		sum := 0
		for _, a := range args {
			sum += a.(int)
		}
		return sum
	},
	func(args []any) int {
		d := args[0].(int)
		for _, a := range args[1:] {
			d -= a.(int)
		}
		return d
	},
	func(args []any) int {
		m := args[0].(int)
		for _, a := range args[1:] {
			if v := a.(int); v > m {
				m = v
			}
		}
		return m
	},
	func(args []any) int {
		sum := 0
		for _, a := range args {
			sum += a.(int)
		}
		return sum % 7
	},
}
