package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"sort"
	"sync"

	"github.com/delaneyj/cellparty/cells"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	p := newPlayground()
	log.Printf("cells playground listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, p.routes()))
}

type playground struct {
	mu      sync.Mutex
	graphs  map[string]*cells.Graph
	byPrint map[uint64]string
	nextID  int

	registry *prometheus.Registry
	metrics  *playgroundMetrics
	upgrader websocket.Upgrader
}

type playgroundMetrics struct {
	graphsCreated    prometheus.Counter
	writesTotal      prometheus.Counter
	writeErrors      prometheus.Counter
	callbacksFired   prometheus.Counter
	activeWSSessions prometheus.Gauge
}

func newPlayground() *playground {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &playground{
		graphs:   map[string]*cells.Graph{},
		byPrint:  map[uint64]string{},
		registry: registry,
		metrics: &playgroundMetrics{
			graphsCreated: factory.NewCounter(prometheus.CounterOpts{
				Namespace: "cellparty",
				Name:      "graphs_created_total",
				Help:      "Graphs compiled through the builder",
			}),
			writesTotal: factory.NewCounter(prometheus.CounterOpts{
				Namespace: "cellparty",
				Name:      "writes_total",
				Help:      "Input writes applied",
			}),
			writeErrors: factory.NewCounter(prometheus.CounterOpts{
				Namespace: "cellparty",
				Name:      "write_errors_total",
				Help:      "Writes rejected or rolled back",
			}),
			callbacksFired: factory.NewCounter(prometheus.CounterOpts{
				Namespace: "cellparty",
				Name:      "callbacks_fired_total",
				Help:      "Change callbacks delivered to watchers",
			}),
			activeWSSessions: factory.NewGauge(prometheus.GaugeOpts{
				Namespace: "cellparty",
				Name:      "active_ws_sessions",
				Help:      "Connected WebSocket watchers",
			}),
		},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (p *playground) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", p.index)
	r.Post("/graphs", p.createGraph)
	r.Get("/graphs/{id}", p.snapshotGraph)
	r.Post("/graphs/{id}/set", p.setCells)
	r.Get("/graphs/{id}/ws", p.watchGraph)
	r.Handle("/metrics", promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{}))

	return r
}

type graphDef struct {
	Inputs   map[string]float64 `json:"inputs"`
	Computes []computeDef       `json:"computes"`
}

type computeDef struct {
	Name string   `json:"name"`
	Op   string   `json:"op"`
	Deps []string `json:"deps"`
}

type setRequest struct {
	Cell  string             `json:"cell,omitempty"`
	Value *float64           `json:"value,omitempty"`
	Cells map[string]float64 `json:"cells,omitempty"`
}

type cellUpdate struct {
	Cell  string `json:"cell"`
	Value any    `json:"value"`
}

type wsError struct {
	Error string `json:"error"`
}

func (p *playground) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte(indexHTML))
}

// createGraph compiles a definition through the Builder. Duplicate detection
// is by topology fingerprint: ops and initial values are not part of the
// identity, so resubmitting a known shape aliases to the graph already
// running it.
func (p *playground) createGraph(w http.ResponseWriter, r *http.Request) {
	var def graphDef
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	b := cells.NewBuilder()
	for name, v := range def.Inputs {
		b.Input(name, v)
	}
	for _, c := range def.Computes {
		op, ok := playgroundOps[c.Op]
		if !ok {
			http.Error(w, fmt.Sprintf("unknown op %q", c.Op), http.StatusUnprocessableEntity)
			return
		}
		b.Compute(c.Name, c.Deps, op)
	}
	g, err := b.Build()
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	p.mu.Lock()
	id, dup := p.byPrint[g.Fingerprint()]
	if !dup {
		p.nextID++
		id = fmt.Sprintf("g%d", p.nextID)
		p.graphs[id] = g
		p.byPrint[g.Fingerprint()] = id
	}
	p.mu.Unlock()

	if dup {
		writeJSON(w, http.StatusOK, map[string]any{
			"id":          id,
			"fingerprint": fmt.Sprintf("%016x", g.Fingerprint()),
			"duplicate":   true,
		})
		return
	}

	p.metrics.graphsCreated.Inc()
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":          id,
		"fingerprint": fmt.Sprintf("%016x", g.Fingerprint()),
	})
}

func (p *playground) snapshotGraph(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	g, ok := p.lookup(id)
	if !ok {
		http.Error(w, "unknown graph", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":          id,
		"fingerprint": fmt.Sprintf("%016x", g.Fingerprint()),
		"values":      g.Snapshot(),
	})
}

func (p *playground) setCells(w http.ResponseWriter, r *http.Request) {
	g, ok := p.lookup(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "unknown graph", http.StatusNotFound)
		return
	}

	var req setRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := p.applyWrites(g, &req); err != nil {
		p.metrics.writeErrors.Inc()
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"values": g.Snapshot()})
}

// applyWrites handles both request shapes. A failed propagation leaves
// every value untouched, so an error here never means a half-applied write.
func (p *playground) applyWrites(g *cells.Graph, req *setRequest) error {
	switch {
	case len(req.Cells) > 0:
		inputs := map[string]bool{}
		for _, name := range g.Inputs() {
			inputs[name] = true
		}
		names := make([]string, 0, len(req.Cells))
		for name := range req.Cells {
			if !inputs[name] {
				return fmt.Errorf("%q is not an input cell", name)
			}
			names = append(names, name)
		}
		sort.Strings(names)

		err := g.Reactor().Batch(func() {
			for _, name := range names {
				// staging cannot fail, names were checked above
				_ = g.Set(name, req.Cells[name])
			}
		})
		if err != nil {
			return err
		}
		p.metrics.writesTotal.Add(float64(len(names)))
		return nil

	case req.Cell != "":
		if req.Value == nil {
			return errors.New("value is required")
		}
		if err := g.Set(req.Cell, *req.Value); err != nil {
			return err
		}
		p.metrics.writesTotal.Inc()
		return nil

	default:
		return errors.New("cell or cells is required")
	}
}

func (p *playground) watchGraph(w http.ResponseWriter, r *http.Request) {
	g, ok := p.lookup(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "unknown graph", http.StatusNotFound)
		return
	}

	conn, err := p.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}
	defer conn.Close()

	p.metrics.activeWSSessions.Inc()
	defer p.metrics.activeWSSessions.Dec()

	// Callbacks run on whichever goroutine wrote the input, so they hand
	// updates to a single writer goroutine through a channel. A slow
	// client drops frames instead of stalling every writer.
	outbound := make(chan any, 256)
	var subs []*cells.Subscription
	defer func() {
		for _, sub := range subs {
			sub.Cancel()
		}
	}()
	for _, name := range g.Names() {
		name := name
		sub, err := g.OnChange(name, func(v any) {
			p.metrics.callbacksFired.Inc()
			select {
			case outbound <- cellUpdate{Cell: name, Value: v}:
			default:
			}
		})
		if err != nil {
			log.Printf("ws subscribe error: %v", err)
			return
		}
		subs = append(subs, sub)
	}

	// Initial state, sent before the writer goroutine exists so the
	// connection still has a single writer.
	snap := g.Snapshot()
	for _, name := range g.Names() {
		if err := conn.WriteJSON(cellUpdate{Cell: name, Value: snap[name]}); err != nil {
			return
		}
	}

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		for {
			select {
			case u := <-outbound:
				if err := conn.WriteJSON(u); err != nil {
					return
				}
			case <-stop:
				return
			}
		}
	}()

	for {
		var req setRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure) {
				log.Printf("ws read error: %v", err)
			}
			return
		}
		if err := p.applyWrites(g, &req); err != nil {
			p.metrics.writeErrors.Inc()
			select {
			case outbound <- wsError{Error: err.Error()}:
			default:
			}
		}
	}
}

func (p *playground) lookup(id string) (*cells.Graph, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	g, ok := p.graphs[id]
	return g, ok
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("response encode error: %v", err)
	}
}

var playgroundOps = map[string]cells.ComputeFunc{
	"sum": func(args []any) (any, error) {
		sum := 0.0
		for _, a := range args {
			sum += a.(float64)
		}
		return sum, nil
	},
	"diff": func(args []any) (any, error) {
		d := args[0].(float64)
		for _, a := range args[1:] {
			d -= a.(float64)
		}
		return d, nil
	},
	"product": func(args []any) (any, error) {
		prod := 1.0
		for _, a := range args {
			prod *= a.(float64)
		}
		return prod, nil
	},
	"div": func(args []any) (any, error) {
		q := args[0].(float64)
		for _, a := range args[1:] {
			divisor := a.(float64)
			if divisor == 0 {
				return nil, errors.New("division by zero")
			}
			q /= divisor
		}
		return q, nil
	},
	"min": func(args []any) (any, error) {
		m := args[0].(float64)
		for _, a := range args[1:] {
			if v := a.(float64); v < m {
				m = v
			}
		}
		return m, nil
	},
	"max": func(args []any) (any, error) {
		m := args[0].(float64)
		for _, a := range args[1:] {
			if v := a.(float64); v > m {
				m = v
			}
		}
		return m, nil
	},
}

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>cells playground</title>
    <style>
        body { font-family: monospace; margin: 2rem; max-width: 60rem; }
        textarea { width: 100%; }
        input { font-family: monospace; }
        pre { background: #f4f4f4; padding: 1rem; min-height: 8rem; }
    </style>
</head>
<body>
<h1>cells playground</h1>
<p>Define a graph, write inputs, watch it stabilize. Ops: sum, diff, product, div, min, max.</p>
<textarea id="def" rows="12">
{
  "inputs": {"a": 6, "b": 2},
  "computes": [
    {"name": "sum", "op": "sum", "deps": ["a", "b"]},
    {"name": "ratio", "op": "div", "deps": ["a", "b"]},
    {"name": "spread", "op": "diff", "deps": ["sum", "ratio"]}
  ]
}
</textarea>
<p>
    <button id="create">create graph</button>
    graph: <span id="gid">none</span>
</p>
<p>
    cell <input id="cell" value="b" size="8" />
    value <input id="value" value="0" size="8" />
    <button id="set">set</button>
</p>
<pre id="log"></pre>
<script>
    let ws = null;
    const logEl = document.getElementById('log');
    const print = line => { logEl.textContent += line + '\n'; };

    document.getElementById('create').onclick = async () => {
        const res = await fetch('/graphs', { method: 'POST', body: document.getElementById('def').value });
        const text = await res.text();
        if (!res.ok) { print('create failed: ' + text.trim()); return; }
        const body = JSON.parse(text);
        document.getElementById('gid').textContent = body.id + ' (' + body.fingerprint + ')';
        if (ws) ws.close();
        const scheme = location.protocol === 'https:' ? 'wss://' : 'ws://';
        ws = new WebSocket(scheme + location.host + '/graphs/' + body.id + '/ws');
        ws.onmessage = ev => {
            const u = JSON.parse(ev.data);
            if (u.error) { print('error: ' + u.error); return; }
            print(u.cell + ' = ' + u.value);
        };
        ws.onclose = () => print('watch closed');
    };

    document.getElementById('set').onclick = () => {
        if (!ws || ws.readyState !== WebSocket.OPEN) { print('create a graph first'); return; }
        ws.send(JSON.stringify({
            cell: document.getElementById('cell').value,
            value: Number(document.getElementById('value').value)
        }));
    };
</script>
</body>
</html>
`
