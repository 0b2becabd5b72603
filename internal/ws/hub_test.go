package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

// mockClient creates a client for testing without a real WebSocket connection
func mockClient(hub *Hub, topics ...string) *Client {
	return &Client{
		hub:    hub,
		topics: topics,
		send:   make(chan []byte, 256),
	}
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := NewHub()
	go hub.Run(ctx)
	return hub
}

func TestHubRegistration(t *testing.T) {
	hub := startHub(t)

	client := mockClient(hub, TopicOrders, TopicInventory)
	hub.register <- client

	// Give hub time to process
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()

	if !hub.rooms[TopicOrders][client] {
		t.Fatal("client not registered in orders room")
	}
	if !hub.rooms[TopicInventory][client] {
		t.Fatal("client not registered in inventory room")
	}
}

func TestHubUnregistration(t *testing.T) {
	hub := startHub(t)

	client := mockClient(hub, TopicOrders, TopicInventory)
	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	hub.unregister <- client
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()

	// Rooms should be cleaned up when empty
	if hub.rooms[TopicOrders] != nil || hub.rooms[TopicInventory] != nil {
		t.Fatal("rooms not cleaned up after last client unregistered")
	}
	if _, ok := <-client.send; ok {
		t.Fatal("send channel should be closed")
	}
}

func TestHubDoubleUnregisterIsSafe(t *testing.T) {
	hub := startHub(t)

	client := mockClient(hub, TopicOrders)
	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	hub.unregister <- client
	hub.unregister <- client // must not panic on a closed channel
	time.Sleep(10 * time.Millisecond)

	if n := hub.SubscriberCount(TopicOrders); n != 0 {
		t.Fatalf("expected 0 subscribers, got %d", n)
	}
}

func TestPublishToSingleTopic(t *testing.T) {
	hub := startHub(t)

	ordersClient := mockClient(hub, TopicOrders)
	inventoryClient := mockClient(hub, TopicInventory)

	hub.register <- ordersClient
	hub.register <- inventoryClient
	time.Sleep(10 * time.Millisecond)

	hub.Publish(TopicOrders, EventOrderCreated, map[string]string{"order_number": "ORD-1"})

	select {
	case msg := <-ordersClient.send:
		var received Event
		if err := json.Unmarshal(msg, &received); err != nil {
			t.Fatalf("failed to unmarshal message: %v", err)
		}
		if received.Type != EventOrderCreated {
			t.Errorf("expected type %q, got %q", EventOrderCreated, received.Type)
		}
		if string(received.Payload) != `{"order_number":"ORD-1"}` {
			t.Errorf("unexpected payload %s", received.Payload)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("orders client did not receive message")
	}

	select {
	case <-inventoryClient.send:
		t.Fatal("inventory client should not have received an orders event")
	case <-time.After(50 * time.Millisecond):
		// Expected - no message received
	}
}

func TestPublishToMultipleClientsOnSameTopic(t *testing.T) {
	hub := startHub(t)

	clients := []*Client{
		mockClient(hub, TopicInventory),
		mockClient(hub, TopicInventory),
		mockClient(hub, TopicOrders, TopicInventory),
	}
	for _, c := range clients {
		hub.register <- c
	}
	time.Sleep(10 * time.Millisecond)

	hub.Publish(TopicInventory, EventInventoryLowStock, json.RawMessage(`{"name":"Milk"}`))

	for i, client := range clients {
		select {
		case msg := <-client.send:
			var received Event
			if err := json.Unmarshal(msg, &received); err != nil {
				t.Fatalf("client%d: failed to unmarshal: %v", i+1, err)
			}
			if received.Type != EventInventoryLowStock {
				t.Errorf("client%d: expected %q, got %q", i+1, EventInventoryLowStock, received.Type)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("client%d did not receive message", i+1)
		}
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	hub := startHub(t)

	client := mockClient(hub, TopicOrders)
	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	hub.Publish(TopicInventory, EventInventoryAdjusted, map[string]string{"test": "data"})

	select {
	case <-client.send:
		t.Fatal("client should not receive message for another topic")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	// Hub not running: the queue fills and further events are dropped.
	hub := NewHub()

	done := make(chan struct{})
	go func() {
		for i := 0; i < cap(hub.broadcast)+10; i++ {
			hub.Publish(TopicOrders, EventOrderCreated, i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full queue")
	}
}

func TestSlowClientDropped(t *testing.T) {
	hub := startHub(t)

	slow := &Client{hub: hub, topics: []string{TopicOrders}, send: make(chan []byte, 1)}
	hub.register <- slow
	time.Sleep(10 * time.Millisecond)

	hub.Publish(TopicOrders, EventOrderCreated, 1)
	hub.Publish(TopicOrders, EventOrderCreated, 2)
	time.Sleep(20 * time.Millisecond)

	if n := hub.SubscriberCount(TopicOrders); n != 0 {
		t.Fatalf("slow client should be dropped, got %d subscribers", n)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	client := mockClient(hub, TopicOrders)
	hub.register <- client
	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if _, ok := <-client.send; ok {
		t.Fatal("client send channel should be closed on shutdown")
	}
}

func TestParseTopics(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", []string{TopicOrders, TopicInventory}},
		{"orders", []string{TopicOrders}},
		{"inventory, orders", []string{TopicInventory, TopicOrders}},
		{"orders,orders,bogus", []string{TopicOrders}},
		{"bogus", nil},
	}
	for _, tt := range tests {
		got := parseTopics(tt.raw)
		if len(got) != len(tt.want) {
			t.Errorf("parseTopics(%q) = %v, want %v", tt.raw, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseTopics(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		}
	}
}
