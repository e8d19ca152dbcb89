// SPDX-FileCopyrightText: 2025 夕月霞
// SPDX-License-Identifier: AGPL-3.0-or-later
package ingest

import "sync"

// Position is a Center-of-Pressure coordinate pair in centimeters.
type Position struct {
	X, Y float64
}

// VisualizationState holds the single latest sample plus a bounded trail of
// recent COP positions. The poll goroutine writes, the render ticker reads,
// so both paths take the lock.
type VisualizationState struct {
	mu       sync.RWMutex
	latest   Sample
	hasData  bool
	trail    []Position
	trailCap int
}

func NewVisualizationState(trailCap int) *VisualizationState {
	return &VisualizationState{
		trail:    make([]Position, 0, trailCap),
		trailCap: trailCap,
	}
}

// Accept replaces the latest sample wholesale and appends its position to
// the trail, evicting the oldest entry once capacity is reached.
func (vs *VisualizationState) Accept(s Sample) {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	vs.latest = s
	vs.hasData = true

	pos := Position{X: s.CopX, Y: s.CopY}
	if len(vs.trail) < vs.trailCap {
		vs.trail = append(vs.trail, pos)
		return
	}
	copy(vs.trail, vs.trail[1:])
	vs.trail[len(vs.trail)-1] = pos
}

// Snapshot returns the latest sample and a copy of the trail in arrival
// order (oldest first). ok is false until the first sample is accepted.
func (vs *VisualizationState) Snapshot() (latest Sample, trail []Position, ok bool) {
	vs.mu.RLock()
	defer vs.mu.RUnlock()

	trail = make([]Position, len(vs.trail))
	copy(trail, vs.trail)
	return vs.latest, trail, vs.hasData
}

// ForceShares derives each sensor's share of the total force in percent,
// in F1..F4 order. All zeros when the total is zero.
func ForceShares(s Sample) [4]float64 {
	total := s.F1 + s.F2 + s.F3 + s.F4
	if total == 0 {
		return [4]float64{}
	}
	return [4]float64{
		s.F1 / total * 100,
		s.F2 / total * 100,
		s.F3 / total * 100,
		s.F4 / total * 100,
	}
}
