package algo

import (
	"container/heap"
	"math"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/samber/lo"
)

type node[T any] struct {
	p    geometry.Point
	attr T
}

type edge[T any] struct {
	to   int
	v    float64
	attr T
}

type SearchGraph[NT any, ET any] struct {
	// 邻接表，按加入顺序保存出边，保证搜索结果可复现
	// 构建完成后只读，可被多个goroutine同时搜索
	edges [][]*edge[ET]
	// 点的位置
	nodes []node[NT]
	// A Star距离预估函数
	h IHeuristics
}

type IHeuristics interface {
	HeuristicEuclidean(geometry.Point, geometry.Point) float64
}

func NewSearchGraph[NT any, ET any](h IHeuristics) *SearchGraph[NT, ET] {
	return &SearchGraph[NT, ET]{
		edges: make([][]*edge[ET], 0),
		nodes: make([]node[NT], 0),
		h:     h,
	}
}

func (g *SearchGraph[NT, ET]) InitNode(p geometry.Point, attr NT) int {
	g.nodes = append(g.nodes, node[NT]{p: p, attr: attr})
	g.edges = append(g.edges, nil)
	return len(g.nodes) - 1
}

func (g *SearchGraph[NT, ET]) InitEdge(from, to int, length float64, attr ET) error {
	if from >= len(g.edges) || to >= len(g.edges) || from < 0 || to < 0 {
		return ErrNodeNotFound
	}
	if length < 0 {
		return ErrNegativeLength
	}
	if e := g.find(from, to); e != nil {
		e.v, e.attr = length, attr
		return nil
	}
	g.edges[from] = append(g.edges[from], &edge[ET]{to: to, v: length, attr: attr})
	return nil
}

func (g *SearchGraph[NT, ET]) find(from, to int) *edge[ET] {
	for _, e := range g.edges[from] {
		if e.to == to {
			return e
		}
	}
	return nil
}

type PathItem[NT any, ET any] struct {
	NodeAttr NT
	EdgeAttr ET
}

func (g *SearchGraph[NT, ET]) reconstructPath(cameFrom map[int]int, curNode int) ([]PathItem[NT, ET], float64) {
	pathBeforeReversed := []PathItem[NT, ET]{{NodeAttr: g.nodes[curNode].attr}}
	cost := 0.0
	for {
		from, ok := cameFrom[curNode]
		if !ok {
			break
		}
		e := g.find(from, curNode)
		cost += e.v
		curNode = from
		pathBeforeReversed = append(pathBeforeReversed, PathItem[NT, ET]{
			NodeAttr: g.nodes[curNode].attr,
			EdgeAttr: e.attr,
		})
	}
	return lo.Reverse(pathBeforeReversed), cost
}

// ShortestPath A Star算法求最短路，不可达时返回+Inf
func (g *SearchGraph[NT, ET]) ShortestPath(start, end int) ([]PathItem[NT, ET], float64) {
	if start == end {
		return []PathItem[NT, ET]{{NodeAttr: g.nodes[start].attr}}, 0
	}
	openSet := make(PriorityQueue, 1)
	openSetMap := make(map[int]*Item, 1) // openSet value -> openSet item
	cameFrom := make(map[int]int)
	gScore := map[int]float64{start: 0}
	closed := make(map[int]bool)
	fScore := g.h.HeuristicEuclidean(g.nodes[start].p, g.nodes[end].p)
	openSet[0] = &Item{Value: start, Priority: fScore, Index: 0}
	openSetMap[start] = openSet[0]
	heap.Init(&openSet)
	for openSet.Len() > 0 {
		cur := heap.Pop(&openSet).(*Item).Value
		delete(openSetMap, cur)
		if cur == end {
			return g.reconstructPath(cameFrom, cur)
		}
		closed[cur] = true
		for _, e := range g.edges[cur] {
			neighbor := e.to
			if closed[neighbor] {
				continue
			}
			gScoreTentative := gScore[cur] + e.v
			gScoreNeighbor, ok := gScore[neighbor]
			if !ok {
				gScoreNeighbor = math.Inf(0)
			}
			if gScoreTentative < gScoreNeighbor {
				cameFrom[neighbor] = cur
				gScore[neighbor] = gScoreTentative
				fScore := gScoreTentative + g.h.HeuristicEuclidean(g.nodes[neighbor].p, g.nodes[end].p)
				if item, inOpen := openSetMap[neighbor]; inOpen {
					// 已在堆中的节点，修改其优先级
					item.Priority = fScore
					heap.Fix(&openSet, item.Index)
				} else {
					item := &Item{Value: neighbor, Priority: fScore}
					heap.Push(&openSet, item)
					openSetMap[neighbor] = item
				}
			}
		}
	}
	return nil, math.Inf(0)
}
