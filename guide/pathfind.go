package guide

import (
	"container/heap"
	"fmt"
)

// pqItem is one entry in the pathfinding frontier.
type pqItem struct {
	node     string
	priority float64
	index    int
}

// priorityQueue implements heap.Interface ordered by priority, with the
// node id as tie-breaker so expansion order is deterministic when costs
// are equal.
type priorityQueue []*pqItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].priority != pq[j].priority {
		return pq[i].priority < pq[j].priority
	}
	return pq[i].node < pq[j].node
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x any) {
	item := x.(*pqItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

// AStar finds the cheapest path between two nodes on one floor using the
// straight-line distance to the goal as heuristic. Euclidean distance never
// exceeds edge weight, so the heuristic is admissible and the result is
// optimal. Returns the node ids from start to goal inclusive.
func (g *FloorGraph) AStar(start, goal string) ([]string, error) {
	if g.Empty() {
		return nil, fmt.Errorf("floor %d: %w", g.Floor, ErrEmptyFloorGraph)
	}
	if _, ok := g.nodes[start]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownWaypoint, start)
	}
	goalNode, ok := g.nodes[goal]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownWaypoint, goal)
	}
	if start == goal {
		return []string{start}, nil
	}

	gScore := map[string]float64{start: 0}
	cameFrom := make(map[string]string)
	closed := make(map[string]bool)

	pq := priorityQueue{{node: start, priority: Distance(g.nodes[start].Coordinates, goalNode.Coordinates)}}
	heap.Init(&pq)

	for pq.Len() > 0 {
		current := heap.Pop(&pq).(*pqItem)
		if current.node == goal {
			return reconstructPath(cameFrom, goal), nil
		}
		if closed[current.node] {
			continue
		}
		closed[current.node] = true

		for _, e := range g.Neighbors(current.node) {
			if closed[e.To] {
				continue
			}
			tentative := gScore[current.node] + e.Weight
			if known, seen := gScore[e.To]; seen && tentative >= known {
				continue
			}
			gScore[e.To] = tentative
			cameFrom[e.To] = current.node
			h := Distance(g.nodes[e.To].Coordinates, goalNode.Coordinates)
			heap.Push(&pq, &pqItem{node: e.To, priority: tentative + h})
		}
	}

	return nil, fmt.Errorf("%s -> %s: %w", start, goal, ErrNoPathFound)
}

// Dijkstra finds the cheapest path without a heuristic. It explores more
// nodes than AStar but has no geometric assumptions, which makes it the
// safety net when coordinate data is suspect.
func (g *FloorGraph) Dijkstra(start, goal string) ([]string, error) {
	if g.Empty() {
		return nil, fmt.Errorf("floor %d: %w", g.Floor, ErrEmptyFloorGraph)
	}
	if _, ok := g.nodes[start]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownWaypoint, start)
	}
	if _, ok := g.nodes[goal]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownWaypoint, goal)
	}
	if start == goal {
		return []string{start}, nil
	}

	dist := map[string]float64{start: 0}
	cameFrom := make(map[string]string)
	closed := make(map[string]bool)

	pq := priorityQueue{{node: start, priority: 0}}
	heap.Init(&pq)

	for pq.Len() > 0 {
		current := heap.Pop(&pq).(*pqItem)
		if current.node == goal {
			return reconstructPath(cameFrom, goal), nil
		}
		if closed[current.node] {
			continue
		}
		closed[current.node] = true

		for _, e := range g.Neighbors(current.node) {
			if closed[e.To] {
				continue
			}
			tentative := dist[current.node] + e.Weight
			if known, seen := dist[e.To]; seen && tentative >= known {
				continue
			}
			dist[e.To] = tentative
			cameFrom[e.To] = current.node
			heap.Push(&pq, &pqItem{node: e.To, priority: tentative})
		}
	}

	return nil, fmt.Errorf("%s -> %s: %w", start, goal, ErrNoPathFound)
}

// ShortestPath tries AStar first and falls back to Dijkstra. Both fail only
// when the endpoints are genuinely disconnected.
func (g *FloorGraph) ShortestPath(start, goal string) ([]string, error) {
	path, err := g.AStar(start, goal)
	if err == nil {
		return path, nil
	}
	return g.Dijkstra(start, goal)
}

func reconstructPath(cameFrom map[string]string, goal string) []string {
	path := []string{goal}
	node := goal
	for {
		prev, ok := cameFrom[node]
		if !ok {
			break
		}
		path = append(path, prev)
		node = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
