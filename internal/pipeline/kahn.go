package pipeline

import (
	"container/list"
	"fmt"
	"strings"
)

// ProcessingQueue holds steps whose dependencies are satisfied, ordered by
// registration so the sort is deterministic.
type ProcessingQueue struct {
	queue *list.List
	rank  map[string]int
}

func (g *Graph) newProcessingQueue() *ProcessingQueue {
	return &ProcessingQueue{queue: list.New(), rank: g.index}
}

// InitializeQueue returns a queue holding every step with in-degree 0.
func (g *Graph) InitializeQueue(inDegree map[string]int) *ProcessingQueue {
	pq := g.newProcessingQueue()
	for _, name := range g.order {
		if inDegree[name] == 0 {
			pq.Enqueue(name)
		}
	}
	return pq
}

// Enqueue inserts a step before the first queued step registered after it.
func (pq *ProcessingQueue) Enqueue(node string) {
	for e := pq.queue.Front(); e != nil; e = e.Next() {
		if pq.rank[e.Value.(string)] > pq.rank[node] {
			pq.queue.InsertBefore(node, e)
			return
		}
	}
	pq.queue.PushBack(node)
}

// Dequeue removes and returns the front step.
// Returns empty string and false if queue is empty.
func (pq *ProcessingQueue) Dequeue() (string, bool) {
	if pq.queue.Len() == 0 {
		return "", false
	}
	elem := pq.queue.Front()
	pq.queue.Remove(elem)
	return elem.Value.(string), true
}

// Len returns the number of queued steps.
func (pq *ProcessingQueue) Len() int {
	return pq.queue.Len()
}

// IsEmpty returns true if the queue has no steps.
func (pq *ProcessingQueue) IsEmpty() bool {
	return pq.queue.Len() == 0
}

// CalculateInDegrees returns the number of dependencies of every step.
func (g *Graph) CalculateInDegrees() map[string]int {
	inDegree := make(map[string]int, len(g.order))
	for _, name := range g.order {
		inDegree[name] = 0
	}
	for _, children := range g.Children {
		for _, child := range children {
			inDegree[child]++
		}
	}
	return inDegree
}

// CycleInfo describes the steps left over when sorting stops early.
type CycleInfo struct {
	TotalNodes        int
	ProcessedNodes    int
	UnprocessedNodes  []string // in the cycle or blocked by it
	CycleParticipants []string
	CyclePath         []string // e.g. [a, b, c, a]
}

// CycleError is returned when step dependencies form a cycle.
type CycleError struct {
	Info *CycleInfo
}

func (e *CycleError) Error() string {
	msg := fmt.Sprintf("cycle detected in step dependencies: %d of %d steps could not be ordered",
		len(e.Info.UnprocessedNodes), e.Info.TotalNodes)

	if len(e.Info.CyclePath) > 0 {
		msg += fmt.Sprintf("\nCycle path: %s", strings.Join(e.Info.CyclePath, " -> "))
	}

	if len(e.Info.UnprocessedNodes) > len(e.Info.CycleParticipants) {
		participants := make(map[string]bool)
		for _, p := range e.Info.CycleParticipants {
			participants[p] = true
		}
		var blocked []string
		for _, u := range e.Info.UnprocessedNodes {
			if !participants[u] {
				blocked = append(blocked, u)
			}
		}
		msg += fmt.Sprintf("\nSteps blocked by cycle: %s", strings.Join(blocked, ", "))
	}

	return msg
}

// TopologicalSort returns the steps in dependency order using Kahn's
// algorithm. Among ready steps the earliest registered runs first.
func (g *Graph) TopologicalSort() ([]string, error) {
	inDegree := g.CalculateInDegrees()
	queue := g.InitializeQueue(inDegree)

	result := make([]string, 0, len(g.order))
	for !queue.IsEmpty() {
		node, _ := queue.Dequeue()
		result = append(result, node)

		for _, child := range g.GetChildren(node) {
			inDegree[child]--
			if inDegree[child] == 0 {
				queue.Enqueue(child)
			}
		}
	}

	if len(result) != len(g.order) {
		return nil, &CycleError{Info: g.cycleInfo(result)}
	}
	return result, nil
}

func (g *Graph) cycleInfo(processed []string) *CycleInfo {
	done := make(map[string]bool, len(processed))
	for _, name := range processed {
		done[name] = true
	}

	remaining := make(map[string]bool)
	var unprocessed []string
	for _, name := range g.order {
		if !done[name] {
			unprocessed = append(unprocessed, name)
			remaining[name] = true
		}
	}

	var participants []string
	for _, name := range unprocessed {
		if g.FindCyclePath(name, remaining) != nil {
			participants = append(participants, name)
		}
	}

	var path []string
	if len(participants) > 0 {
		path = g.FindCyclePath(participants[0], remaining)
	}

	return &CycleInfo{
		TotalNodes:        len(g.order),
		ProcessedNodes:    len(processed),
		UnprocessedNodes:  unprocessed,
		CycleParticipants: participants,
		CyclePath:         path,
	}
}

// FindCyclePath returns a path from start back to itself through allowed
// steps, or nil if there is none.
func (g *Graph) FindCyclePath(start string, allowed map[string]bool) []string {
	visited := make(map[string]bool)
	path := []string{start}
	if g.dfsFindPath(start, start, visited, allowed, &path) {
		return path
	}
	return nil
}

func (g *Graph) dfsFindPath(current, target string, visited, allowed map[string]bool, path *[]string) bool {
	for _, child := range g.GetChildren(current) {
		if !allowed[child] {
			continue
		}
		if child == target {
			*path = append(*path, target)
			return true
		}
		if visited[child] {
			continue
		}

		visited[child] = true
		*path = append(*path, child)
		if g.dfsFindPath(child, target, visited, allowed, path) {
			return true
		}
		// Backtrack
		*path = (*path)[:len(*path)-1]
	}
	return false
}
