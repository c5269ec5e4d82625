package system

import "testing"

func TestQueue(t *testing.T) {
	q := NewQueue[int](3)
	if !q.IsEmpty() {
		t.Error("new queue is not empty")
	}
	for i := 1; i <= 5; i++ {
		q.Enqueue(i)
	}
	if q.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", q.Len())
	}
	items := q.Items()
	if items[0] != 3 || items[2] != 5 {
		t.Errorf("Items() = %v, want [3 4 5]", items)
	}

	v, err := q.Dequeue()
	if err != nil || v != 3 {
		t.Errorf("Dequeue() = %v, %v, want 3", v, err)
	}
	q.Clear()
	if _, err := q.Dequeue(); err == nil {
		t.Error("Dequeue() on empty queue: expected an error")
	}
}

func TestQueue_ZeroSize(t *testing.T) {
	q := NewQueue[string](0)
	q.Enqueue("x")
	if !q.IsEmpty() {
		t.Error("zero sized queue kept an item")
	}
}
