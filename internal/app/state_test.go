package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"circuit-sketch/internal/analysis"
	"circuit-sketch/internal/config"
	"circuit-sketch/internal/element"
	"circuit-sketch/internal/image"
	"circuit-sketch/internal/schematic"
)

// fakeAnalyzer answers each netlist from replies; a request whose netlist
// has a gate blocks until the gate is closed.
type fakeAnalyzer struct {
	replies map[string]analysis.Result
	errs    map[string]error
	gates   map[string]chan struct{}
	fetched chan string
}

func newFake() *fakeAnalyzer {
	return &fakeAnalyzer{
		replies: map[string]analysis.Result{},
		errs:    map[string]error{},
		gates:   map[string]chan struct{}{},
		fetched: make(chan string, 4),
	}
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, text string) (analysis.Result, error) {
	if gate, ok := f.gates[text]; ok {
		<-gate
	}
	if err := f.errs[text]; err != nil {
		return analysis.Result{}, err
	}
	return f.replies[text], nil
}

func (f *fakeAnalyzer) FetchDiagram(ctx context.Context, rawURL string) (*image.Layer, error) {
	f.fetched <- rawURL
	return &image.Layer{Source: rawURL}, nil
}

func completions(s *State) <-chan AnalysisResult {
	ch := make(chan AnalysisResult, 4)
	s.On(EventAnalysisComplete, func(data interface{}) {
		ch <- data.(AnalysisResult)
	})
	return ch
}

func waitResult(t *testing.T, ch <-chan AnalysisResult) AnalysisResult {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("analysis did not complete")
		return AnalysisResult{}
	}
}

func resistor(s *State, value string) schematic.ID {
	id := s.AddElement(element.Resistor)
	s.UpdateField(id, schematic.FieldPositive, "1")
	s.UpdateField(id, schematic.FieldNegative, "0")
	s.UpdateField(id, schematic.FieldValue, value)
	return id
}

func TestAnalyzeParsesTranscript(t *testing.T) {
	fake := newFake()
	fake.replies["R1 1 0 100"] = analysis.Result{
		Output:     "Netlist OK\nParsed Element Values:\nR1: 100\n[Eq(V1 - 2*V2)]\n1.2340",
		DiagramURL: "http://svc/static/c.png",
	}
	s := NewState(config.Default(), fake)
	done := completions(s)
	resistor(s, "100")

	tok := s.Analyze(context.Background())
	res := waitResult(t, done)

	assert.Equal(t, tok, res.Token)
	require.NoError(t, res.Err)
	assert.Equal(t, "R1 1 0 100", res.Netlist)
	assert.Equal(t, []string{"V1 - 2×V2"}, res.Report.Equations)
	assert.Equal(t, []string{"1.2340"}, res.Report.Solutions)
	require.NotNil(t, res.Diagram)
	assert.Equal(t, "http://svc/static/c.png", <-fake.fetched)
	assert.Equal(t, res, s.Result())
	assert.False(t, s.Analyzing())
}

func TestAnalyzeErrorBecomesLine(t *testing.T) {
	fake := newFake()
	fake.errs["R1 1 0 1"] = &analysis.BackendError{Message: "singular matrix"}
	s := NewState(config.Default(), fake)
	done := completions(s)
	resistor(s, "1")

	s.Analyze(context.Background())
	res := waitResult(t, done)

	assert.ErrorIs(t, res.Err, analysis.ErrBackend)
	assert.Equal(t, "Error: singular matrix", res.ErrorLine())
	assert.True(t, res.Report.Empty())
}

func TestAnalyzeWithoutService(t *testing.T) {
	s := NewState(config.Default(), nil)
	done := completions(s)

	s.Analyze(context.Background())
	res := waitResult(t, done)
	assert.ErrorIs(t, res.Err, ErrNoAnalyzer)
}

func TestStaleAnalysisIsDiscarded(t *testing.T) {
	fake := newFake()
	slowGate := make(chan struct{})
	fake.gates["R1 1 0 1"] = slowGate
	fake.replies["R1 1 0 1"] = analysis.Result{Output: "old\n1.0000"}
	fake.replies["R1 1 0 2"] = analysis.Result{Output: "new\n2.0000"}

	s := NewState(config.Default(), fake)
	done := completions(s)
	id := resistor(s, "1")

	first := s.Analyze(context.Background())
	s.UpdateField(id, schematic.FieldValue, "2")
	second := s.Analyze(context.Background())
	require.Greater(t, second, first)

	res := waitResult(t, done)
	assert.Equal(t, second, res.Token)
	assert.Equal(t, []string{"2.0000"}, res.Report.Solutions)

	close(slowGate)
	select {
	case r := <-done:
		t.Fatalf("stale result delivered: %+v", r)
	case <-time.After(200 * time.Millisecond):
	}
	assert.Equal(t, second, s.Result().Token)
}

func TestEventsOnEdits(t *testing.T) {
	s := NewState(config.Default(), nil)
	var elements, connections, modes int
	s.On(EventElementsChanged, func(interface{}) { elements++ })
	s.On(EventConnectionsChanged, func(interface{}) { connections++ })
	s.On(EventConnectionModeChanged, func(interface{}) { modes++ })

	a := s.AddElement(element.Resistor)
	s.AddElement(element.Capacitor)
	assert.Equal(t, 2, elements)

	s.UpdateField(a, schematic.FieldOutput, "x")
	assert.Equal(t, 2, elements, "unsupported field must not notify")

	assert.True(t, s.ToggleConnectionMode())
	assert.Equal(t, 1, modes)

	// wire R1 to C1 through the controller
	r, _ := s.Model.Element(a)
	els := s.Model.Elements()
	s.Controller.Press(r.Center())
	s.Controller.Release(els[1].Center())
	assert.Equal(t, 1, connections)

	s.RemoveElement(a)
	assert.Equal(t, 3, elements)
	assert.Equal(t, 2, connections)
	assert.Empty(t, s.Model.Connections())

	assert.Equal(t, schematic.Missing, s.RemoveElement(a))
	assert.Equal(t, 3, elements)
}

func TestRemoveCancelsGesture(t *testing.T) {
	s := NewState(config.Default(), nil)
	id := s.AddElement(element.Resistor)
	e, _ := s.Model.Element(id)

	s.Controller.Press(e.Center())
	s.RemoveElement(id)
	_, busy := s.Controller.Item()
	assert.False(t, busy)
}

func TestClear(t *testing.T) {
	s := NewState(config.Default(), nil)
	resistor(s, "1")

	s.Clear()
	assert.Zero(t, s.Model.Len())
	assert.Equal(t, "", s.Netlist())
	assert.Equal(t, AnalysisResult{}, s.Result())
}

func TestApplyConfig(t *testing.T) {
	s := NewState(config.Default(), nil)
	var got config.Config
	s.On(EventConfigChanged, func(d interface{}) { got = d.(config.Config) })

	cfg := config.Default()
	cfg.Canvas.ElementWidth = 70
	s.ApplyConfig(cfg)

	assert.Equal(t, 70.0, got.Canvas.ElementWidth)
	assert.Equal(t, 70.0, s.Config().Canvas.ElementWidth)
	e, _ := s.Model.Element(s.AddElement(element.Inductor))
	assert.Equal(t, 70.0, e.Bounds.Width)
}

func TestExportNetlist(t *testing.T) {
	s := NewState(config.Default(), nil)
	resistor(s, "10")
	dir := t.TempDir()

	plain := filepath.Join(dir, "plain.net")
	require.NoError(t, s.ExportNetlist(plain, false, ""))
	data, err := os.ReadFile(plain)
	require.NoError(t, err)
	assert.Equal(t, "R1 1 0 10\n", string(data))

	framed := filepath.Join(dir, "framed.net")
	require.NoError(t, s.ExportNetlist(framed, true, "divider"))
	data, err = os.ReadFile(framed)
	require.NoError(t, err)
	assert.Equal(t, "divider\nR1 1 0 10\n.end\n", string(data))

	err = s.ExportNetlist(filepath.Join(dir, "missing", "x.net"), false, "")
	assert.True(t, err != nil && !errors.Is(err, ErrNoAnalyzer))
}

func TestQueuedConfigAppliesOnNextEdit(t *testing.T) {
	s := NewState(config.Default(), nil)
	applied := 0
	s.On(EventConfigChanged, func(interface{}) { applied++ })

	cfg := config.Default()
	cfg.Canvas.ElementWidth = 80
	s.QueueConfig(cfg)

	assert.Equal(t, config.Default().Canvas.ElementWidth, s.Config().Canvas.ElementWidth)
	assert.Zero(t, applied)

	e, _ := s.Model.Element(s.AddElement(element.Resistor))
	assert.Equal(t, 80.0, e.Bounds.Width)
	assert.Equal(t, 1, applied)
	assert.False(t, s.ApplyPending())
}

func TestQueueConfigFromAnotherGoroutine(t *testing.T) {
	s := NewState(config.Default(), nil)
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		cfg := config.Default()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			cfg.Canvas.ElementWidth = float64(40 + i%20)
			cfg.Canvas.DoubleTap.Duration = time.Duration(100+i%50) * time.Millisecond
			s.QueueConfig(cfg)
		}
	}()

	now := time.Now()
	for i := 0; i < 200; i++ {
		id := s.AddElement(element.Capacitor)
		e, _ := s.Model.Element(id)
		s.Controller.Tap(e.Center(), now.Add(time.Duration(i)*time.Millisecond))
		s.ToggleConnectionMode()
	}
	close(stop)
	wg.Wait()

	s.ApplyPending()
	last, _ := s.Model.Element(s.AddElement(element.Capacitor))
	assert.Equal(t, s.Config().Canvas.ElementWidth, last.Bounds.Width)
}

func TestClearDropsInFlightAnalysis(t *testing.T) {
	fake := newFake()
	gate := make(chan struct{})
	fake.gates["R1 1 0 1"] = gate
	fake.replies["R1 1 0 1"] = analysis.Result{Output: "1.0000"}

	s := NewState(config.Default(), fake)
	done := completions(s)
	resistor(s, "1")

	s.Analyze(context.Background())
	s.Clear()
	close(gate)

	select {
	case r := <-done:
		t.Fatalf("result delivered after Clear: %+v", r)
	case <-time.After(200 * time.Millisecond):
	}
	assert.Equal(t, AnalysisResult{}, s.Result())
	assert.False(t, s.Analyzing())
}
