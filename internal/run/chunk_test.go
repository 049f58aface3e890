package run

import "testing"

func TestChunkIdentifiers(t *testing.T) {
	cases := []struct {
		name    string
		n       int
		workers int
		sizes   []int
	}{
		{"Even Split", 9, 3, []int{3, 3, 3}},
		{"Ragged Tail", 10, 3, []int{4, 4, 2}},
		{"More Workers Than Ids", 2, 5, []int{1, 1}},
		{"Single Worker", 5, 1, []int{5}},
		{"Single Identifier", 1, 4, []int{1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ids := make([]string, tc.n)
			for i := range ids {
				ids[i] = string(rune('a' + i))
			}
			chunks := chunkIdentifiers(ids, tc.workers)
			if len(chunks) != len(tc.sizes) {
				t.Fatalf("expected %d chunks, got %d", len(tc.sizes), len(chunks))
			}
			var total int
			for i, chunk := range chunks {
				if len(chunk) != tc.sizes[i] {
					t.Errorf("chunk %d: expected size %d, got %d", i, tc.sizes[i], len(chunk))
				}
				total += len(chunk)
			}
			if total != tc.n {
				t.Errorf("chunks must cover all identifiers: %d != %d", total, tc.n)
			}
			// Contiguity: flattening the chunks restores the input.
			var flat []string
			for _, chunk := range chunks {
				flat = append(flat, chunk...)
			}
			for i := range ids {
				if flat[i] != ids[i] {
					t.Fatalf("chunks are not contiguous at %d", i)
				}
			}
		})
	}
}
