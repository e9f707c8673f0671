package search

import "sync"

// Palette is the command-palette interaction state: an open/closed modal
// with a selection index over the current results.
//
// Protocol: the meta/ctrl+K chord toggles open/closed; up/down move the
// selection, clamped to [-1, len(results)-1] where -1 means nothing
// selected; enter activates the selection; escape closes.
type Palette struct {
	mu       sync.Mutex
	open     bool
	selected int
	results  []Result
}

func NewPalette() *Palette {
	return &Palette{selected: -1}
}

// Toggle flips open/closed and returns the new state. Opening resets the
// selection.
func (p *Palette) Toggle() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = !p.open
	if p.open {
		p.selected = -1
	}
	return p.open
}

// Close closes the palette (escape).
func (p *Palette) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = false
}

// SetResults replaces the visible results and resets the selection.
func (p *Palette) SetResults(results []Result) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.results = results
	p.selected = -1
}

// Move shifts the selection by delta (up = -1, down = +1) and returns the
// new index, clamped to [-1, len(results)-1].
func (p *Palette) Move(delta int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	next := p.selected + delta
	if next < -1 {
		next = -1
	}
	if max := len(p.results) - 1; next > max {
		next = max
	}
	p.selected = next
	return next
}

// Activate returns the selected result (enter) and closes the palette.
// ok is false when nothing is selected.
func (p *Palette) Activate() (Result, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.open || p.selected < 0 || p.selected >= len(p.results) {
		return Result{}, false
	}
	r := p.results[p.selected]
	p.open = false
	return r, true
}

// State is a snapshot for the HTTP surface.
type State struct {
	Open     bool     `json:"open"`
	Selected int      `json:"selected"`
	Results  []Result `json:"results"`
}

// Snapshot returns the current palette state.
func (p *Palette) Snapshot() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	results := p.results
	if results == nil {
		results = []Result{}
	}
	return State{Open: p.open, Selected: p.selected, Results: results}
}

// Palettes keys palettes by operator so two browsers don't fight over one
// selection.
type Palettes struct {
	mu sync.Mutex
	m  map[string]*Palette
}

func NewPalettes() *Palettes {
	return &Palettes{m: make(map[string]*Palette)}
}

// For returns (creating if needed) the palette for an operator.
func (ps *Palettes) For(user string) *Palette {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	p, ok := ps.m[user]
	if !ok {
		p = NewPalette()
		ps.m[user] = p
	}
	return p
}
