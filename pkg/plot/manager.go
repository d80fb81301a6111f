package plot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/openbeamline/beamplot/pkg/tao"
)

// Manager owns the mapping from display regions to composed graphs. It
// mirrors the engine's placement state: the engine's place buffer feeds
// pending placements, Place pins templates into regions, and UpdateRegion
// recomposes what a region currently shows.
type Manager struct {
	client Client

	// IgnoreInvalid skips graphs the engine marks invalid instead of
	// failing the whole region.
	IgnoreInvalid bool
	// IgnoreUnsupported skips graph types this package cannot compose.
	IgnoreUnsupported bool
	// AllowReuse lets placement fall back to reusing an occupied region
	// when every region is taken.
	AllowReuse bool

	regions      map[string][]Graph
	toPlace      map[string]string
	graphRegions map[string]map[string]bool
}

// NewManager returns a manager over client with the lenient defaults:
// invalid and unsupported graphs are skipped, and regions are reused when
// none are free.
func NewManager(client Client) *Manager {
	return &Manager{
		client:            client,
		IgnoreInvalid:     true,
		IgnoreUnsupported: true,
		AllowReuse:        true,
		regions:           make(map[string][]Graph),
		toPlace:           make(map[string]string),
		graphRegions:      make(map[string]map[string]bool),
	}
}

// Graphs returns the composed graphs currently held for a region.
func (m *Manager) Graphs(regionName string) []Graph { return m.regions[regionName] }

// RegionNames returns the names of regions holding graphs, sorted.
func (m *Manager) RegionNames() []string {
	names := make([]string, 0, len(m.regions))
	for name := range m.regions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// updatePlaceBuffer drains the engine's pending placements into toPlace.
// Graph "none" clears a pending region; region "*" clears them all.
func (m *Manager) updatePlaceBuffer(ctx context.Context) error {
	entries, err := m.client.PlaceBuffer(ctx)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.Graph == "none" {
			if e.Region == "*" {
				m.toPlace = make(map[string]string)
			} else {
				delete(m.toPlace, e.Region)
			}
			continue
		}
		m.toPlace[e.Region] = e.Graph
	}
	return nil
}

// ToPlace returns the pending placements, region name to template name,
// after syncing with the engine's place buffer.
func (m *Manager) ToPlace(ctx context.Context) (map[string]string, error) {
	if err := m.updatePlaceBuffer(ctx); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(m.toPlace))
	for k, v := range m.toPlace {
		out[k] = v
	}
	return out, nil
}

// findUnusedRegion returns the first free region not in skip.
func (m *Manager) findUnusedRegion(ctx context.Context, skip map[string]string) (string, error) {
	listings, err := m.client.Regions(ctx)
	if err != nil {
		return "", err
	}
	for _, l := range listings {
		if _, skipped := skip[l.Region]; skipped {
			continue
		}
		if l.PlotName == "" {
			return l.Region, nil
		}
	}
	return "", ErrAllRegionsInUse
}

// RegionForGraph picks a region for placing a template: a pending region
// already assigned to it, then any free region, then (with AllowReuse) an
// occupied one.
func (m *Manager) RegionForGraph(ctx context.Context, graphName string) (string, error) {
	toPlace, err := m.ToPlace(ctx)
	if err != nil {
		return "", err
	}
	for regionName, pending := range toPlace {
		if pending == graphName {
			return regionName, nil
		}
	}
	regionName, err := m.findUnusedRegion(ctx, toPlace)
	if errors.Is(err, ErrAllRegionsInUse) && m.AllowReuse && len(m.regions) > 0 {
		names := m.RegionNames()
		regionName = names[0]
		log.Printf("plot: all regions in use; reusing %s (%d graphs)", regionName, len(m.regions[regionName]))
		return regionName, nil
	}
	if err != nil {
		return "", err
	}
	return regionName, nil
}

// MakeGraph composes the graph currently placed at region.graph, dispatched
// on its reported type.
func (m *Manager) MakeGraph(ctx context.Context, regionName, graphName string) (Graph, error) {
	fullName := regionName + "." + graphName
	info, err := m.client.PlotGraph(ctx, fullName)
	if err != nil {
		return nil, err
	}
	switch info.Type {
	case "floor_plan":
		return NewFloorPlanGraph(ctx, m.client, regionName, graphName, info, nil)
	case "lat_layout":
		return NewLatticeLayoutGraph(ctx, m.client, regionName, graphName, info, nil)
	case "key_table":
		return nil, &UnsupportedGraphError{Name: fullName, Type: info.Type}
	}
	return NewBasicGraph(ctx, m.client, regionName, graphName, info)
}

// UpdateRegion recomposes every graph in a region after a placement.
func (m *Manager) UpdateRegion(ctx context.Context, regionName, graphName string) ([]Graph, error) {
	m.clearRegion(regionName)

	regionInfo, err := m.client.PlotRegion(ctx, regionName)
	if err != nil {
		return nil, err
	}

	var result []Graph
	for _, plotName := range regionInfo.GraphNames {
		graph, err := m.MakeGraph(ctx, regionName, plotName)
		if err != nil {
			var unsupported *UnsupportedGraphError
			if errors.As(err, &unsupported) && m.IgnoreUnsupported {
				log.Printf("plot: unsupported graph in region %s: %v", regionName, err)
				continue
			}
			var invalid *GraphInvalidError
			if errors.As(err, &invalid) && m.IgnoreInvalid {
				log.Printf("plot: invalid graph in region %s: %v", regionName, err)
				continue
			}
			return nil, err
		}
		result = append(result, graph)
	}

	m.regions[regionName] = result
	if m.graphRegions[graphName] == nil {
		m.graphRegions[graphName] = make(map[string]bool)
	}
	m.graphRegions[graphName][regionName] = true
	return result, nil
}

// Place puts a template into a region (picked automatically when empty)
// and composes the resulting graphs.
func (m *Manager) Place(ctx context.Context, graphName, regionName string) ([]Graph, error) {
	if regionName == "" {
		var err error
		regionName, err = m.RegionForGraph(ctx, graphName)
		if err != nil {
			return nil, err
		}
	}
	delete(m.toPlace, regionName)
	if err := m.client.Place(ctx, regionName, graphName); err != nil {
		return nil, err
	}
	return m.UpdateRegion(ctx, regionName, graphName)
}

// PlaceAll places everything pending in the engine's place buffer.
func (m *Manager) PlaceAll(ctx context.Context) (map[string][]Graph, error) {
	toPlace, err := m.ToPlace(ctx)
	if err != nil {
		return nil, err
	}
	m.toPlace = make(map[string]string)

	result := make(map[string][]Graph)
	for regionName, graphName := range toPlace {
		graphs, err := m.Place(ctx, graphName, regionName)
		if err != nil {
			var unsupported *UnsupportedGraphError
			if errors.As(err, &unsupported) && m.IgnoreUnsupported {
				continue
			}
			return nil, err
		}
		result[regionName] = graphs
	}
	return result, nil
}

// PrepareGraphs places a template, applies optional per-curve settings, and
// returns the composed graphs with the region that was used.
func (m *Manager) PrepareGraphs(ctx context.Context, graphName, regionName string, curves map[int]tao.CurveSettings) ([]Graph, string, error) {
	if regionName == "" {
		var err error
		regionName, err = m.RegionForGraph(ctx, graphName)
		if err != nil {
			return nil, "", err
		}
	}
	delete(m.toPlace, regionName)
	if err := m.client.Place(ctx, regionName, graphName); err != nil {
		return nil, "", err
	}
	if len(curves) > 0 {
		regionInfo, err := m.client.PlotRegion(ctx, regionName)
		if err != nil {
			return nil, "", err
		}
		for _, plotName := range regionInfo.GraphNames {
			if err := m.client.ApplyCurveSettings(ctx, regionName, plotName, curves); err != nil {
				return nil, "", err
			}
		}
	}
	graphs, err := m.UpdateRegion(ctx, regionName, graphName)
	if err != nil {
		return nil, "", err
	}
	return graphs, regionName, nil
}

// LatticeLayoutGraph returns a composed lattice layout, placing one when no
// region holds it yet.
func (m *Manager) LatticeLayoutGraph(ctx context.Context) (*LatticeLayoutGraph, error) {
	for _, graphs := range m.regions {
		for _, g := range graphs {
			if lat, ok := g.(*LatticeLayoutGraph); ok {
				return lat, nil
			}
		}
	}
	graphs, err := m.Place(ctx, "lat_layout", "")
	if err != nil {
		return nil, err
	}
	for _, g := range graphs {
		if lat, ok := g.(*LatticeLayoutGraph); ok {
			return lat, nil
		}
	}
	return nil, fmt.Errorf("%w: placing lat_layout yielded no layout graph", ErrNoLayout)
}

// FloorPlanGraphPlaced returns a composed floor plan, placing one when no
// region holds it yet.
func (m *Manager) FloorPlanGraphPlaced(ctx context.Context) (*FloorPlanGraph, error) {
	for _, graphs := range m.regions {
		for _, g := range graphs {
			if fp, ok := g.(*FloorPlanGraph); ok {
				return fp, nil
			}
		}
	}
	graphs, err := m.Place(ctx, "floor_plan", "")
	if err != nil {
		return nil, err
	}
	for _, g := range graphs {
		if fp, ok := g.(*FloorPlanGraph); ok {
			return fp, nil
		}
	}
	return nil, errors.New("plot: placing floor_plan yielded no floor plan graph")
}

// clearRegion drops composed graphs for one region, or all with "*", which
// also empties the pending-placement buffer.
func (m *Manager) clearRegion(regionName string) {
	if regionName == "*" {
		m.regions = make(map[string][]Graph)
		m.graphRegions = make(map[string]map[string]bool)
		m.toPlace = make(map[string]string)
		return
	}
	delete(m.regions, regionName)
	for _, regions := range m.graphRegions {
		delete(regions, regionName)
	}
}

// Clear unplaces a region on the engine (or all regions with "*") and drops
// the composed graphs. Engine-side failures are logged, not fatal: local
// state is cleared regardless.
func (m *Manager) Clear(ctx context.Context, regionName string) {
	if regionName == "" {
		regionName = "*"
	}
	if err := m.client.Place(ctx, regionName, "none"); err != nil {
		log.Printf("plot: region clear failed for %s: %v", regionName, err)
	}
	m.clearRegion(regionName)
}
