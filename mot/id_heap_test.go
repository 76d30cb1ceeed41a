package mot

import (
	"testing"
)

func TestIDHeapOrder(t *testing.T) {
	pq := idHeap{
		{position: 0, trackingID: 9, frame: 1},
		{position: 1, trackingID: 3, frame: 7},
		{position: 2, trackingID: 3, frame: 2},
		{position: 3, trackingID: 5, frame: 0},
		{position: 4, trackingID: 3, frame: 2},
	}
	pq.Init()

	correctOrder := []int{2, 4, 1, 3, 0}
	for i, pos := range correctOrder {
		if pq.Len() == 0 {
			t.Fatalf("Heap exhausted after %d pops", i)
		}
		entry := pq.Pop()
		if entry.position != pos {
			t.Errorf("Pop #%d: wrong position %d, correct answer: %d", i, entry.position, pos)
		}
	}
	if pq.Len() != 0 {
		t.Errorf("Heap should be empty, got %d entries", pq.Len())
	}
}
