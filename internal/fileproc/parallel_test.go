package fileproc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatches(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		size  int
		want  [][]string
	}{
		{
			name:  "Even split",
			items: []string{"a", "b", "c", "d"},
			size:  2,
			want:  [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name:  "Remainder tail",
			items: []string{"a", "b", "c"},
			size:  2,
			want:  [][]string{{"a", "b"}, {"c"}},
		},
		{
			name:  "Size larger than input",
			items: []string{"a"},
			size:  10,
			want:  [][]string{{"a"}},
		},
		{
			name:  "Empty input",
			items: nil,
			size:  2,
			want:  nil,
		},
		{
			name:  "Non-positive size falls back to default",
			items: []string{"a", "b"},
			size:  0,
			want:  [][]string{{"a", "b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Batches(tt.items, tt.size))
		})
	}
}

func TestMapBatches(t *testing.T) {
	batches := Batches([]int{1, 2, 3, 4, 5, 6}, 2)
	results, err := MapBatches(context.Background(), batches, 2, func(ctx context.Context, batch []int) (int, error) {
		sum := 0
		for _, n := range batch {
			sum += n
		}
		return sum, nil
	})
	require.NoError(t, err)

	total := 0
	for _, r := range results {
		total += r
	}
	assert.Equal(t, 21, total)
}

func TestMapBatchesSkipsFailingBatch(t *testing.T) {
	batches := [][]int{{1}, {2}, {3}}
	results, err := MapBatches(context.Background(), batches, 2, func(ctx context.Context, batch []int) (int, error) {
		if batch[0] == 2 {
			return 0, errors.New("boom")
		}
		return batch[0], nil
	})
	require.NoError(t, err)
	assert.Len(t, results, 2, "failing batch must be omitted, not retried")
}

func TestMapBatchesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	batches := Batches(make([]int, 100), 10)
	_, err := MapBatches(ctx, batches, 2, func(ctx context.Context, batch []int) (int, error) {
		return 0, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMapBatchesWithResource(t *testing.T) {
	var opened, closed int

	batches := Batches([]string{"a", "b", "c", "d"}, 1)
	results, err := MapBatchesWithResource(context.Background(), batches, 2,
		func() (*int, error) {
			opened++
			v := 0
			return &v, nil
		},
		func(r *int) { closed++ },
		func(ctx context.Context, r *int, batch []string) (string, error) {
			return batch[0], nil
		},
	)
	require.NoError(t, err)
	assert.Len(t, results, 4)
	assert.Equal(t, opened, closed, "every opened resource must be closed")
}

func TestMapBatchesWithResourceInitFailure(t *testing.T) {
	batches := Batches([]string{"a", "b"}, 1)
	results, err := MapBatchesWithResource(context.Background(), batches, 1,
		func() (*int, error) { return nil, errors.New("no repo") },
		func(r *int) {},
		func(ctx context.Context, r *int, batch []string) (string, error) {
			return batch[0], nil
		},
	)
	require.NoError(t, err)
	assert.Empty(t, results, "invalid resources should produce no results")
}
