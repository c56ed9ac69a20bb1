package skim

import (
	"fmt"
	"math"

	"git.fiblab.net/general/common/v2/geometry"
	"git.fiblab.net/sim/autoownership/skim/algo"
	"git.fiblab.net/sim/autoownership/uec"
	"github.com/puzpuzpuz/xsync/v3"
)

// TimeModel answers zone-to-zone travel times, in minutes, for one mode.
// A TimeModel is read-only after construction and may be shared by any
// number of goroutines.
type TimeModel struct {
	mode string

	zones map[int32]*Zone
	// 小区在数据sheet中的顺序
	order []int32
	// 为nil时按直线距离和速度计算
	graph *algo.SearchGraph[int32, LinkAttr]

	speed       float64 // m/min
	terminal    float64
	maxDistance float64

	cache *xsync.MapOf[odPair, float64]
}

// New builds the time model of a mode sheet. Zones come from the data sheet.
func New(wb *uec.Workbook, modelSheet, dataSheet int) (*TimeModel, error) {
	model, err := wb.Sheet(modelSheet)
	if err != nil {
		return nil, err
	}
	data, err := wb.Sheet(dataSheet)
	if err != nil {
		return nil, err
	}
	if len(data.Zones) == 0 {
		return nil, fmt.Errorf("%w: sheet %d", ErrNoZones, dataSheet)
	}
	m := &TimeModel{
		mode:        model.Mode,
		zones:       make(map[int32]*Zone, len(data.Zones)),
		speed:       model.Speed * algo.KMH_TO_M_PER_MIN,
		terminal:    model.Terminal,
		maxDistance: model.MaxDistance,
		cache:       xsync.NewMapOf[odPair, float64](),
	}
	for _, z := range data.Zones {
		if _, ok := m.zones[z.ID]; !ok {
			m.order = append(m.order, z.ID)
		}
		m.zones[z.ID] = &Zone{ID: z.ID, Center: geometry.Point{X: z.X, Y: z.Y}, NodeId: -1}
	}
	if len(model.Links) == 0 {
		if m.speed <= 0 {
			return nil, fmt.Errorf("%w: sheet %d (%s)", ErrNoSpeed, modelSheet, model.Mode)
		}
		log.Infof("%s time model: %d zones, straight-line times", m.mode, len(m.zones))
		return m, nil
	}
	if err := m.buildGraph(model.Links); err != nil {
		return nil, fmt.Errorf("sheet %d (%s): %w", modelSheet, model.Mode, err)
	}
	log.Infof("%s time model: %d zones, %d links", m.mode, len(m.zones), len(model.Links))
	return m, nil
}

func (m *TimeModel) buildGraph(links []uec.Link) error {
	// 先计算所有连边的时间，得到最快速度用于A*估计
	type weighted struct {
		link    uec.Link
		minutes float64
	}
	ws := make([]weighted, 0, len(links))
	maxSpeed := m.speed
	for _, l := range links {
		from, ok := m.zones[l.From]
		if !ok {
			return fmt.Errorf("%w: link from %d", ErrZoneNotFound, l.From)
		}
		to, ok := m.zones[l.To]
		if !ok {
			return fmt.Errorf("%w: link to %d", ErrZoneNotFound, l.To)
		}
		length := geometry.Distance(from.Center, to.Center)
		minutes := l.Minutes
		if minutes <= 0 {
			if m.speed <= 0 {
				return fmt.Errorf("%w: link %d->%d", ErrNoSpeed, l.From, l.To)
			}
			minutes = length / m.speed
		}
		if minutes > 0 {
			maxSpeed = math.Max(maxSpeed, length/minutes)
		} else {
			maxSpeed = math.Inf(0)
		}
		ws = append(ws, weighted{link: l, minutes: minutes})
	}
	h := TimeHeuristics{maxSpeed: maxSpeed}
	if math.IsInf(maxSpeed, 0) {
		h.maxSpeed = 0
	}
	g := algo.NewSearchGraph[int32, LinkAttr](h)
	for _, id := range m.order {
		z := m.zones[id]
		z.NodeId = g.InitNode(z.Center, z.ID)
	}
	for _, w := range ws {
		from, to := m.zones[w.link.From], m.zones[w.link.To]
		if err := g.InitEdge(from.NodeId, to.NodeId, w.minutes, LinkAttr{From: from.ID, To: to.ID}); err != nil {
			return err
		}
		if !w.link.Oneway {
			if err := g.InitEdge(to.NodeId, from.NodeId, w.minutes, LinkAttr{From: to.ID, To: from.ID}); err != nil {
				return err
			}
		}
	}
	m.graph = g
	return nil
}

func (m *TimeModel) Mode() string {
	return m.mode
}

func (m *TimeModel) HasZone(id int32) bool {
	_, ok := m.zones[id]
	return ok
}

// Solve returns the travel time from the origin zone to the destination
// zone of index. A time of 0 means the mode is unavailable.
// availability is indexed from 1; a zero at index 1 disables the mode.
func (m *TimeModel) Solve(index uec.IndexValues, _ uec.VariableTable, availability []int) ([]float64, error) {
	if len(availability) > 1 && availability[1] == 0 {
		return []float64{0}, nil
	}
	if !m.HasZone(index.OriginZone) {
		return nil, fmt.Errorf("%w: origin %d (%s)", ErrZoneNotFound, index.OriginZone, m.mode)
	}
	if !m.HasZone(index.DestZone) {
		return nil, fmt.Errorf("%w: destination %d (%s)", ErrZoneNotFound, index.DestZone, m.mode)
	}
	od := odPair{Origin: index.OriginZone, Dest: index.DestZone}
	t, _ := m.cache.LoadOrCompute(od, func() float64 {
		return m.zoneTime(od)
	})
	if index.Debug {
		log.Debugf("hh=%d %s time %d->%d: %.4f", index.HHIndex, m.mode, od.Origin, od.Dest, t)
	}
	return []float64{t}, nil
}

func (m *TimeModel) zoneTime(od odPair) float64 {
	from, to := m.zones[od.Origin], m.zones[od.Dest]
	distance := geometry.Distance(from.Center, to.Center)
	if m.maxDistance > 0 && distance > m.maxDistance {
		return 0
	}
	if m.graph == nil {
		return distance/m.speed + m.terminal
	}
	_, cost := m.graph.ShortestPath(from.NodeId, to.NodeId)
	if math.IsInf(cost, 0) {
		return 0
	}
	return cost + m.terminal
}
