package fsm

import "container/heap"

// priorityEntry orders destinations by how many transitions target
// them, breaking ties by ascending destination index for reproducible
// output. Synthetic NoOp entries (destination index >= len(tagsList))
// participate in the same ordering as real destinations.
type priorityEntry struct {
	DestIndex      uint32
	NumTransitions uint32
}

// priorityQueue is a max-heap over priorityEntry: Pop always returns the
// entry with the most transitions, ties broken toward the smaller
// destination index. Block construction repeatedly pops the current
// hottest remaining destinations into a fixed-size block.
type priorityQueue struct {
	items []priorityEntry
	seen  map[uint32]bool
}

func newPriorityQueue() *priorityQueue {
	return &priorityQueue{seen: make(map[uint32]bool)}
}

func (q *priorityQueue) Len() int { return len(q.items) }

func (q *priorityQueue) Less(i, j int) bool {
	a, b := q.items[i], q.items[j]
	if a.NumTransitions != b.NumTransitions {
		return a.NumTransitions > b.NumTransitions
	}

	return a.DestIndex < b.DestIndex
}

func (q *priorityQueue) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }

func (q *priorityQueue) Push(x any) {
	e := x.(priorityEntry)
	// Every destination index pushed into a single block-construction
	// pass must be unique: synthetic NoOp entries use indices outside
	// the real tags-list range specifically to guarantee this, and a
	// violation means the block-construction algorithm above has a bug.
	if q.seen[e.DestIndex] {
		panic("fsm: duplicate priority queue key")
	}
	q.seen[e.DestIndex] = true

	q.items = append(q.items, e)
}

func (q *priorityQueue) Pop() any {
	n := len(q.items)
	item := q.items[n-1]
	q.items = q.items[:n-1]

	return item
}

func (q *priorityQueue) push(e priorityEntry) { heap.Push(q, e) }
func (q *priorityQueue) pop() priorityEntry   { return heap.Pop(q).(priorityEntry) }
