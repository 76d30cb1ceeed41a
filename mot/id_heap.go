package mot

// idEntry is a detection of a window keyed for reference selection
type idEntry struct {
	position   int
	trackingID int
	frame      int
}

// Copied from container/heap - https://golang.org/pkg/container/heap/
// Why make copy? Just want to avoid type conversion

// idHeap is min-heap of window detections: smallest tracking ID first, then earliest frame, then table order.
type idHeap []idEntry

func (h idHeap) Len() int { return len(h) }
func (h idHeap) Less(i, j int) bool {
	if h[i].trackingID != h[j].trackingID {
		return h[i].trackingID < h[j].trackingID
	}
	if h[i].frame != h[j].frame {
		return h[i].frame < h[j].frame
	}
	return h[i].position < h[j].position
}
func (h idHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

// Init establishes the heap invariants.
// The complexity is O(n) where n = h.Len().
func (h idHeap) Init() {
	n := h.Len()
	for i := n/2 - 1; i >= 0; i-- {
		h.down(i, n)
	}
}

// Pop removes and returns the minimum element (according to Less) from the heap.
// The complexity is O(log n) where n = h.Len().
func (h *idHeap) Pop() idEntry {
	n := h.Len() - 1
	h.Swap(0, n)
	h.down(0, n)
	heapSize := len(*h)
	lastNode := (*h)[heapSize-1]
	*h = (*h)[0 : heapSize-1]
	return lastNode
}

func (h idHeap) down(i0, n int) bool {
	i := i0
	for {
		j1 := 2*i + 1
		if j1 >= n || j1 < 0 {
			break
		}
		j := j1
		if j2 := j1 + 1; j2 < n && h.Less(j2, j1) {
			j = j2
		}
		if !h.Less(j, i) {
			break
		}
		h.Swap(i, j)
		i = j
	}
	return i > i0
}
