package service

import "testing"

func TestChunkIDs(t *testing.T) {
	ids := make([]uint, 45)
	for i := range ids {
		ids[i] = uint(i + 1)
	}

	chunks := ChunkIDs(ids, 20)
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	if len(chunks[0]) != 20 || len(chunks[1]) != 20 || len(chunks[2]) != 5 {
		t.Fatalf("chunk sizes: %d, %d, %d", len(chunks[0]), len(chunks[1]), len(chunks[2]))
	}
	if chunks[2][4] != 45 {
		t.Fatalf("last element = %d, want 45", chunks[2][4])
	}

	total := 0
	for _, chunk := range chunks {
		total += len(chunk)
	}
	if total != len(ids) {
		t.Fatalf("chunks cover %d ids, want %d", total, len(ids))
	}
}

func TestChunkIDsEdgeCases(t *testing.T) {
	if chunks := ChunkIDs(nil, 20); chunks != nil {
		t.Fatalf("empty input should produce no chunks, got %v", chunks)
	}

	chunks := ChunkIDs([]uint{1, 2}, 50)
	if len(chunks) != 1 || len(chunks[0]) != 2 {
		t.Fatalf("short input should be one chunk: %v", chunks)
	}

	// A non-positive size degrades to one id per chunk.
	chunks = ChunkIDs([]uint{1, 2, 3}, 0)
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
}
