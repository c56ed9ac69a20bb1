package skim

import (
	"git.fiblab.net/general/common/v2/geometry"
)

type Zone struct {
	ID     int32
	Center geometry.Point
	// 在搜索图中的结点编号
	NodeId int
}

// LinkAttr 搜索图中边的属性
type LinkAttr struct {
	From, To int32
}

type odPair struct {
	Origin, Dest int32
}

// TimeHeuristics 以网络中最快的速度估计剩余时间
type TimeHeuristics struct {
	// 米/分钟，<=0时退化为Dijkstra
	maxSpeed float64
}

func (h TimeHeuristics) HeuristicEuclidean(p1 geometry.Point, p2 geometry.Point) float64 {
	if h.maxSpeed <= 0 {
		return 0
	}
	return geometry.Distance(p1, p2) / h.maxSpeed
}
