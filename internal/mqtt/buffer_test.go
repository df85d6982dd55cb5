package mqtt

import (
	"fmt"
	"testing"
)

func TestRingBufferPushDrain(t *testing.T) {
	r := newRingBuffer(4)

	for i := 0; i < 3; i++ {
		r.push(bufferedMsg{topic: Topic, payload: []byte(fmt.Sprintf("m%d", i))})
	}
	if r.len() != 3 {
		t.Fatalf("len: got %d, want 3", r.len())
	}

	msgs := r.drainAll()
	if len(msgs) != 3 {
		t.Fatalf("drained: got %d, want 3", len(msgs))
	}
	for i, m := range msgs {
		if string(m.payload) != fmt.Sprintf("m%d", i) {
			t.Errorf("message %d: got %s, out of order", i, m.payload)
		}
	}

	if r.len() != 0 {
		t.Errorf("len after drain: got %d, want 0", r.len())
	}
	if r.drainAll() != nil {
		t.Error("drain of empty buffer should return nil")
	}
}

func TestRingBufferOverflowDropsOldest(t *testing.T) {
	r := newRingBuffer(3)

	for i := 0; i < 5; i++ {
		r.push(bufferedMsg{payload: []byte(fmt.Sprintf("m%d", i))})
	}
	if r.len() != 3 {
		t.Fatalf("len: got %d, want 3", r.len())
	}

	msgs := r.drainAll()
	want := []string{"m2", "m3", "m4"}
	for i, m := range msgs {
		if string(m.payload) != want[i] {
			t.Errorf("message %d: got %s, want %s", i, m.payload, want[i])
		}
	}
}

func TestRingBufferWrapAround(t *testing.T) {
	r := newRingBuffer(3)

	r.push(bufferedMsg{payload: []byte("a")})
	r.push(bufferedMsg{payload: []byte("b")})
	r.drainAll()

	r.push(bufferedMsg{payload: []byte("c")})
	r.push(bufferedMsg{payload: []byte("d")})
	msgs := r.drainAll()
	if len(msgs) != 2 || string(msgs[0].payload) != "c" || string(msgs[1].payload) != "d" {
		t.Errorf("after wrap: got %v", msgs)
	}
}

func TestRingBufferPreservesMessageFields(t *testing.T) {
	r := newRingBuffer(2)
	r.push(bufferedMsg{topic: TopicSystem, payload: []byte("x"), qos: 1, retained: true})

	msgs := r.drainAll()
	if len(msgs) != 1 {
		t.Fatalf("drained: got %d, want 1", len(msgs))
	}
	m := msgs[0]
	if m.topic != TopicSystem || m.qos != 1 || !m.retained {
		t.Errorf("fields not preserved: %+v", m)
	}
}
