package chat

import "testing"

func TestBusDeliversInSubscriptionOrder(t *testing.T) {
	bus := NewBus()
	var order []string
	bus.Subscribe(func(Message) { order = append(order, "a") })
	bus.Subscribe(func(Message) { order = append(order, "b") })

	bus.Publish(Message{ChannelID: 1, Text: "hi"})

	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("delivery order = %v, want [a b]", order)
	}
}

func TestBusUnsubscribeIsIdempotent(t *testing.T) {
	bus := NewBus()
	calls := 0
	sub := bus.Subscribe(func(Message) { calls++ })
	other := bus.Subscribe(func(Message) {})

	sub.Unsubscribe()
	sub.Unsubscribe()

	if bus.Len() != 1 {
		t.Fatalf("Len() = %d after unsubscribe, want 1", bus.Len())
	}
	bus.Publish(Message{})
	if calls != 0 {
		t.Fatalf("unsubscribed listener called %d times", calls)
	}
	other.Unsubscribe()
	if bus.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", bus.Len())
	}
}

func TestBusSubscriberAddedDuringDeliveryMissesCurrentMessage(t *testing.T) {
	bus := NewBus()
	var late []string
	var first Subscription
	first = bus.Subscribe(func(msg Message) {
		first.Unsubscribe()
		bus.Subscribe(func(msg Message) { late = append(late, msg.Text) })
	})

	bus.Publish(Message{Text: "answer"})
	if len(late) != 0 {
		t.Fatalf("late subscriber saw %v", late)
	}

	bus.Publish(Message{Text: "next"})
	if len(late) != 1 || late[0] != "next" {
		t.Fatalf("late subscriber saw %v, want [next]", late)
	}
}

func TestBusSkipsListenerRemovedDuringDelivery(t *testing.T) {
	bus := NewBus()
	calls := 0
	var second Subscription
	bus.Subscribe(func(Message) { second.Unsubscribe() })
	second = bus.Subscribe(func(Message) { calls++ })

	bus.Publish(Message{})
	if calls != 0 {
		t.Fatalf("listener removed mid-delivery was called %d times", calls)
	}
}
