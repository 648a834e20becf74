package handler

import (
	"testing"
	"time"
)

func registerClient(t *testing.T, hub *WSHub, client *Client) {
	t.Helper()
	select {
	case hub.register <- client:
	case <-time.After(2 * time.Second):
		t.Fatalf("hub did not accept register for %s", client.ID)
	}
}

func broadcastMessage(t *testing.T, hub *WSHub, msg string) {
	t.Helper()
	select {
	case hub.broadcast <- []byte(msg):
	case <-time.After(2 * time.Second):
		t.Fatalf("hub did not accept broadcast %q", msg)
	}
}

func waitForClientCount(hub *WSHub, want int) int {
	deadline := time.Now().Add(2 * time.Second)
	for {
		got := hub.ClientCount()
		if got == want || time.Now().After(deadline) {
			return got
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// A client that stops draining its send channel must not stall the hub:
// overflowing its buffer drops it, and later registers still go through.
func TestHubDropsSlowConsumerWithoutStalling(t *testing.T) {
	hub := NewWSHub(nil)
	go hub.Run()

	slow := &Client{ID: "slow", Send: make(chan []byte, 1), Hub: hub}
	registerClient(t, hub, slow)

	broadcastMessage(t, hub, "one") // fills the 1-slot buffer
	broadcastMessage(t, hub, "two") // overflows; slow client gets dropped

	fast := &Client{ID: "fast", Send: make(chan []byte, 8), Hub: hub}
	registerClient(t, hub, fast) // a stalled hub would hang here

	if got := waitForClientCount(hub, 1); got != 1 {
		t.Fatalf("ClientCount = %d, want 1 after the slow client is dropped", got)
	}

	if msg := <-slow.Send; string(msg) != "one" {
		t.Fatalf("slow client's queued message = %q, want %q", msg, "one")
	}
	if _, open := <-slow.Send; open {
		t.Fatal("slow client's send channel should be closed after the drop")
	}
}
