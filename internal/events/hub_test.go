package events

import (
	"reflect"
	"sync"
	"testing"
)

type recordingLogger struct {
	mu   sync.Mutex
	msgs []string
}

func (l *recordingLogger) Error(msg string, _ ...any) {
	l.mu.Lock()
	l.msgs = append(l.msgs, msg)
	l.mu.Unlock()
}

func TestHub_PublishInSubscriptionOrder(t *testing.T) {
	h := NewHub[string]("test")

	var got []string
	h.Subscribe(func(v string) { got = append(got, "a:"+v) })
	h.Subscribe(func(v string) { got = append(got, "b:"+v) })
	h.Subscribe(func(v string) { got = append(got, "c:"+v) })

	if n := h.Publish("x"); n != 3 {
		t.Errorf("Publish() = %d, want 3", n)
	}

	want := []string{"a:x", "b:x", "c:x"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("delivery order = %v, want %v", got, want)
	}
}

func TestHub_PublishIsSynchronous(t *testing.T) {
	h := NewHub[int]("test")

	delivered := false
	h.Subscribe(func(int) { delivered = true })
	h.Publish(1)

	if !delivered {
		t.Error("subscriber did not run before Publish returned")
	}
}

func TestHub_Unsubscribe(t *testing.T) {
	h := NewHub[int]("test")

	calls := 0
	id := h.Subscribe(func(int) { calls++ })

	if !h.Unsubscribe(id) {
		t.Fatal("Unsubscribe() = false for a known subscription")
	}
	if h.Unsubscribe(id) {
		t.Error("Unsubscribe() = true for an already removed subscription")
	}

	h.Publish(1)
	if calls != 0 {
		t.Errorf("unsubscribed handler ran %d times", calls)
	}
	if h.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.Len())
	}
}

func TestHub_PanicIsRecovered(t *testing.T) {
	h := NewHub[int]("test")
	logger := &recordingLogger{}
	h.SetLogger(logger)

	after := false
	h.Subscribe(func(int) { panic("boom") })
	h.Subscribe(func(int) { after = true })

	h.Publish(1)

	if !after {
		t.Error("subscriber after a panicking one did not run")
	}
	if len(logger.msgs) != 1 {
		t.Errorf("logged %d errors, want 1", len(logger.msgs))
	}
}

func TestHub_SubscriberMayPublishAgain(t *testing.T) {
	h := NewHub[int]("test")

	var got []int
	h.Subscribe(func(v int) {
		got = append(got, v)
		if v < 3 {
			h.Publish(v + 1)
		}
	})

	h.Publish(1)

	if !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("got %v, want [1 2 3]", got)
	}
}

func TestHub_SubscribeDuringPublish(t *testing.T) {
	h := NewHub[int]("test")

	late := 0
	h.Subscribe(func(int) {
		h.Subscribe(func(int) { late++ })
	})

	h.Publish(1)
	if late != 0 {
		t.Errorf("subscriber added during Publish ran %d times in the same Publish", late)
	}

	h.Publish(2)
	if late != 1 {
		t.Errorf("late subscriber ran %d times, want 1", late)
	}
}
