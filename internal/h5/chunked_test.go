package h5

import "testing"

func TestChunkRanges(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		chunkSize int
		want      []Range
	}{
		{
			name:      "even split",
			total:     10,
			chunkSize: 5,
			want:      []Range{{0, 5}, {5, 10}},
		},
		{
			name:      "uneven tail",
			total:     10,
			chunkSize: 4,
			want:      []Range{{0, 4}, {4, 8}, {8, 10}},
		},
		{
			name:      "chunk larger than total",
			total:     3,
			chunkSize: 100,
			want:      []Range{{0, 3}},
		},
		{
			name:      "no chunking requested",
			total:     7,
			chunkSize: 0,
			want:      []Range{{0, 7}},
		},
		{
			name:      "single row chunks",
			total:     3,
			chunkSize: 1,
			want:      []Range{{0, 1}, {1, 2}, {2, 3}},
		},
		{
			name:      "empty input",
			total:     0,
			chunkSize: 4,
			want:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ChunkRanges(tt.total, tt.chunkSize)
			if len(got) != len(tt.want) {
				t.Fatalf("ChunkRanges(%d, %d) = %v, want %v", tt.total, tt.chunkSize, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("ChunkRanges(%d, %d) = %v, want %v", tt.total, tt.chunkSize, got, tt.want)
				}
			}
		})
	}
}

// Windows must cover [0, total) exactly once each, whatever the chunk
// size.
func TestChunkRangesCoverage(t *testing.T) {
	for _, total := range []int{1, 2, 7, 100, 101} {
		for _, chunkSize := range []int{1, 2, 3, 7, 50, 1000, 0, -1} {
			ranges := ChunkRanges(total, chunkSize)

			covered := 0
			prevEnd := 0
			for _, r := range ranges {
				if r.Start != prevEnd {
					t.Fatalf("total=%d chunk=%d: gap or overlap at %d", total, chunkSize, r.Start)
				}
				if r.End <= r.Start {
					t.Fatalf("total=%d chunk=%d: empty range %v", total, chunkSize, r)
				}
				covered += r.End - r.Start
				prevEnd = r.End
			}
			if covered != total {
				t.Fatalf("total=%d chunk=%d: covered %d rows", total, chunkSize, covered)
			}
		}
	}
}
