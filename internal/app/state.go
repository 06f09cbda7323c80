// Package app holds the editing session: the schematic, its controller,
// settings, events and the asynchronous analysis round trip.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"circuit-sketch/internal/analysis"
	"circuit-sketch/internal/config"
	"circuit-sketch/internal/element"
	"circuit-sketch/internal/image"
	"circuit-sketch/internal/interaction"
	"circuit-sketch/internal/logging"
	"circuit-sketch/internal/netlist"
	"circuit-sketch/internal/schematic"
	"circuit-sketch/internal/transcript"
)

// Analyzer is the part of analysis.Client the session needs.
type Analyzer interface {
	Analyze(ctx context.Context, netlist string) (analysis.Result, error)
	FetchDiagram(ctx context.Context, rawURL string) (*image.Layer, error)
}

// ErrNoAnalyzer is returned by Analyze when no service is configured.
var ErrNoAnalyzer = errors.New("no analysis service configured")

// EventType identifies different session events.
type EventType int

const (
	EventElementsChanged EventType = iota
	EventConnectionsChanged
	EventConnectionModeChanged
	EventAnalysisStarted
	EventAnalysisComplete
	EventConfigChanged
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// AnalysisResult is the outcome of one Analyze call.
type AnalysisResult struct {
	Token      uint64
	Netlist    string
	Report     transcript.Report
	Err        error
	DiagramURL string
	Diagram    *image.Layer
}

// ErrorLine returns the report line for a failed analysis, or "".
func (r AnalysisResult) ErrorLine() string {
	if r.Err == nil {
		return ""
	}
	return analysis.ErrorLine(r.Err)
}

// State is the session object. The schematic and controller belong to the
// UI goroutine; the mutex guards settings, results and listeners, which the
// analysis goroutine also touches.
type State struct {
	mu sync.RWMutex

	Model      *schematic.Model
	Controller *interaction.Controller

	cfg      config.Config
	analyzer Analyzer
	tokens   analysis.Tokens

	result    AnalysisResult
	analyzing bool
	pending   *config.Config

	listeners map[EventType][]EventListener
	log       *slog.Logger
}

// NewState creates a session with an empty schematic. analyzer may be nil,
// in which case Analyze reports ErrNoAnalyzer.
func NewState(cfg config.Config, analyzer Analyzer) *State {
	model := schematic.New(schematic.WithElementSize(cfg.Canvas.ElementWidth, cfg.Canvas.ElementHeight))
	s := &State{
		Model: model,
		Controller: interaction.New(model,
			interaction.WithDoubleTap(cfg.Canvas.DoubleTap.Duration)),
		cfg:       cfg,
		analyzer:  analyzer,
		listeners: make(map[EventType][]EventListener),
		log:       logging.WithComponent("app"),
	}
	s.Controller.OnConnect = func(start, end schematic.ID) {
		s.Emit(EventConnectionsChanged, [2]schematic.ID{start, end})
	}
	return s
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Config returns the current settings.
func (s *State) Config() config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// QueueConfig stores settings for the UI goroutine to pick up on its next
// edit or pointer event. Safe from any goroutine; a later call replaces an
// earlier one that was not applied yet.
func (s *State) QueueConfig(cfg config.Config) {
	s.mu.Lock()
	s.pending = &cfg
	s.mu.Unlock()
}

// ApplyPending applies settings left by QueueConfig, if any, and reports
// whether it did. The caller must be on the UI goroutine.
func (s *State) ApplyPending() bool {
	s.mu.Lock()
	cfg := s.pending
	s.pending = nil
	s.mu.Unlock()

	if cfg == nil {
		return false
	}
	s.ApplyConfig(*cfg)
	return true
}

// ApplyConfig replaces the settings. Element size and double-tap window
// take effect for subsequent edits. The caller must be on the UI goroutine.
func (s *State) ApplyConfig(cfg config.Config) {
	s.mu.Lock()
	s.cfg = cfg
	s.pending = nil
	s.mu.Unlock()

	s.Model.SetElementSize(cfg.Canvas.ElementWidth, cfg.Canvas.ElementHeight)
	s.Controller.SetDoubleTap(cfg.Canvas.DoubleTap.Duration)
	s.Emit(EventConfigChanged, cfg)
}

// SetAnalyzer swaps the analysis service, for example after the base URL
// changed. Pending requests are discarded.
func (s *State) SetAnalyzer(a Analyzer) {
	s.mu.Lock()
	s.analyzer = a
	s.tokens.Invalidate()
	s.mu.Unlock()
}

// AddElement places a new element and returns its id.
func (s *State) AddElement(kind element.Kind) schematic.ID {
	s.ApplyPending()
	id := s.Model.AddElement(kind)
	s.Emit(EventElementsChanged, id)
	return id
}

// RemoveElement deletes an element and its wires. A gesture involving the
// element is abandoned.
func (s *State) RemoveElement(id schematic.ID) schematic.Outcome {
	s.ApplyPending()
	if item, busy := s.Controller.Item(); busy && item == id {
		s.Controller.Cancel()
	}
	out := s.Model.RemoveElement(id)
	if out.Mutated() {
		s.Emit(EventElementsChanged, id)
		s.Emit(EventConnectionsChanged, nil)
	}
	return out
}

// UpdateField edits one field of an element.
func (s *State) UpdateField(id schematic.ID, field schematic.Field, value string) schematic.Outcome {
	s.ApplyPending()
	out := s.Model.UpdateField(id, field, value)
	if out.Mutated() {
		s.Emit(EventElementsChanged, id)
	}
	return out
}

// SetValue commits a value dialog.
func (s *State) SetValue(id schematic.ID, value, unit string) schematic.Outcome {
	s.ApplyPending()
	out := s.Model.SetValue(id, value, unit)
	if out.Mutated() {
		s.Emit(EventElementsChanged, id)
	}
	return out
}

// Clear empties the schematic and forgets the last result.
func (s *State) Clear() {
	s.ApplyPending()
	s.Controller.Cancel()
	s.Model.Clear()

	s.mu.Lock()
	s.tokens.Invalidate()
	s.result = AnalysisResult{}
	s.analyzing = false
	s.mu.Unlock()

	s.Emit(EventElementsChanged, nil)
	s.Emit(EventConnectionsChanged, nil)
}

// ToggleConnectionMode flips wiring mode and returns the new setting.
func (s *State) ToggleConnectionMode() bool {
	s.ApplyPending()
	on := s.Controller.ToggleConnectionMode()
	s.Emit(EventConnectionModeChanged, on)
	return on
}

// Netlist compiles the current schematic.
func (s *State) Netlist() string {
	return netlist.CompileModel(s.Model)
}

// ExportNetlist writes the compiled netlist to path, framed with title and
// .end when framed is set.
func (s *State) ExportNetlist(path string, framed bool, title string) error {
	text := s.Netlist()
	if framed {
		text = netlist.Frame(title, text)
	}
	if err := os.WriteFile(path, []byte(text+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write netlist: %w", err)
	}
	return nil
}

// Result returns the most recently applied analysis result.
func (s *State) Result() AnalysisResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

// Analyzing reports whether the latest request is still outstanding.
func (s *State) Analyzing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.analyzing
}

// Analyze compiles the schematic on the calling goroutine and sends it to
// the service in the background. EventAnalysisComplete fires with the
// AnalysisResult once the reply arrives, unless a newer Analyze call was
// made in the meantime, in which case the reply is dropped. The returned
// token identifies this request.
func (s *State) Analyze(ctx context.Context) uint64 {
	s.ApplyPending()
	text := s.Netlist()

	s.mu.Lock()
	tok := s.tokens.Next()
	analyzer := s.analyzer
	s.analyzing = true
	s.mu.Unlock()

	s.log.Info("analyze", slog.Uint64("token", tok), slog.Int("elements", s.Model.Len()))
	if issues := netlist.Lint(text); len(issues) > 0 {
		s.log.Warn("netlist lint", slog.Int("issues", len(issues)), slog.String("first", issues[0].String()))
	}
	s.Emit(EventAnalysisStarted, tok)

	go s.run(ctx, analyzer, tok, text)
	return tok
}

func (s *State) run(ctx context.Context, analyzer Analyzer, tok uint64, text string) {
	res := AnalysisResult{Token: tok, Netlist: text}

	if analyzer == nil {
		res.Err = ErrNoAnalyzer
	} else if out, err := analyzer.Analyze(ctx, text); err != nil {
		res.Err = err
	} else {
		res.Report = transcript.Parse(out.Output)
		res.DiagramURL = out.DiagramURL
		if out.DiagramURL != "" && s.tokens.IsLatest(tok) {
			layer, err := analyzer.FetchDiagram(ctx, out.DiagramURL)
			if err != nil {
				s.log.Warn("diagram fetch failed", slog.String("url", out.DiagramURL), slog.Any("err", err))
			}
			res.Diagram = layer
		}
	}

	// tokens only advance under s.mu
	s.mu.Lock()
	if !s.tokens.IsLatest(tok) {
		s.mu.Unlock()
		s.log.Info("discarding stale analysis", slog.Uint64("token", tok))
		return
	}
	s.result = res
	s.analyzing = false
	s.mu.Unlock()

	if res.Err != nil {
		s.log.Error("analysis failed", slog.Any("err", res.Err))
	}

	s.Emit(EventAnalysisComplete, res)
}
