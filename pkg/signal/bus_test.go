package signal

import "testing"

func TestBusDeliversToAllSubscribers(t *testing.T) {
	b := NewBus[int]()
	a := b.Subscribe(1)
	c := b.Subscribe(1)

	b.Publish(42)

	if got := <-a; got != 42 {
		t.Errorf("subscriber a got %d, want 42", got)
	}
	if got := <-c; got != 42 {
		t.Errorf("subscriber c got %d, want 42", got)
	}
}

func TestBusPublishNeverBlocksOnFullSubscriber(t *testing.T) {
	b := NewBus[int]()
	full := b.Subscribe(1)
	b.Publish(1) // fills the buffer

	done := make(chan struct{})
	go func() {
		b.Publish(2) // would block if Publish used a blocking send
		close(done)
	}()
	<-done

	if got := <-full; got != 1 {
		t.Errorf("expected the first published value to survive, got %d", got)
	}
}

func TestBusUnsubscribeClosesChannel(t *testing.T) {
	b := NewBus[string]()
	ch := b.Subscribe(1)
	b.Unsubscribe(ch)

	if b.SubscriberCount() != 0 {
		t.Errorf("SubscriberCount() = %d, want 0", b.SubscriberCount())
	}

	if _, ok := <-ch; ok {
		t.Errorf("expected channel to be closed after Unsubscribe")
	}
}

func TestBusSubscriberCount(t *testing.T) {
	b := NewBus[int]()
	if b.SubscriberCount() != 0 {
		t.Fatalf("expected 0 subscribers initially")
	}
	b.Subscribe(1)
	b.Subscribe(1)
	if b.SubscriberCount() != 2 {
		t.Errorf("SubscriberCount() = %d, want 2", b.SubscriberCount())
	}
}
