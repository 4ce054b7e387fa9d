package ws

import "testing"

func TestWriteIfLatestDropsSupersededResponse(t *testing.T) {
	// No connection behind the stream: an attempted write would panic, so a
	// clean return proves the superseded response never reached the socket.
	client := &reportStream{}
	client.latestSeq.Store(2)

	if err := client.writeIfLatest(1, map[string]any{"type": "report", "seq": 1}); err != nil {
		t.Fatalf("expected superseded response to be dropped silently, got %v", err)
	}
}
