package presenter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neronlabs/neron/internal/models"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		maxLength     int
		want          string
		wantTruncated bool
	}{
		{
			name:          "short text unchanged",
			text:          "hello world",
			maxLength:     20,
			want:          "hello world",
			wantTruncated: false,
		},
		{
			name:          "exact length unchanged",
			text:          "hello",
			maxLength:     5,
			want:          "hello",
			wantTruncated: false,
		},
		{
			name:          "backs up to word boundary",
			text:          "the quick brown fox jumps",
			maxLength:     12,
			want:          "the quick...",
			wantTruncated: true,
		},
		{
			name:          "hard cut when no space before limit",
			text:          "supercalifragilisticexpialidocious",
			maxLength:     10,
			want:          "supercalif...",
			wantTruncated: true,
		},
		{
			name:          "does not split multibyte runes on hard cut",
			text:          "éééééééééééééééééééé",
			maxLength:     5,
			want:          "ééééé...",
			wantTruncated: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, truncated := Truncate(tt.text, tt.maxLength)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantTruncated, truncated)
		})
	}
}

func TestTruncate_Idempotent(t *testing.T) {
	first, truncated := Truncate("the quick brown fox jumps", 12)
	require.True(t, truncated)
	require.Equal(t, "the quick...", first)

	second, truncated := Truncate(first, 12)
	assert.False(t, truncated)
	assert.Equal(t, first, second)
}

func makeResults(n int) []models.RankedResult {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	results := make([]models.RankedResult, 0, n)

	for i := 0; i < n; i++ {
		results = append(results, models.RankedResult{
			ID:         int64(i + 1),
			Text:       "note number " + string(rune('a'+i)),
			Timestamp:  base.Add(time.Duration(i) * time.Hour),
			Similarity: 1.0 - float64(i)*0.1,
		})
	}

	return results
}

func TestFormatBatch(t *testing.T) {
	t.Run("slices batch and reports has more", func(t *testing.T) {
		results := makeResults(7)

		batch := FormatBatch(results, 0, 3, 100)
		require.Len(t, batch.Items, 3)
		assert.True(t, batch.HasMore)
		assert.Equal(t, 0, batch.Items[0].Index)
		assert.Equal(t, 2, batch.Items[2].Index)
		assert.Equal(t, int64(1), batch.Items[0].ID)
	})

	t.Run("consecutive batches match direct slicing", func(t *testing.T) {
		results := makeResults(7)

		first := FormatBatch(results, 0, 3, 100)
		second := FormatBatch(results, 3, 3, 100)

		require.Len(t, first.Items, 3)
		require.Len(t, second.Items, 3)

		for i, item := range first.Items {
			assert.Equal(t, results[i].ID, item.ID)
		}

		for i, item := range second.Items {
			assert.Equal(t, results[3+i].ID, item.ID)
		}
	})

	t.Run("last partial batch has no more", func(t *testing.T) {
		results := makeResults(7)

		batch := FormatBatch(results, 6, 3, 100)
		require.Len(t, batch.Items, 1)
		assert.False(t, batch.HasMore)
	})

	t.Run("has more is false when batch exactly covers the rest", func(t *testing.T) {
		results := makeResults(6)

		batch := FormatBatch(results, 3, 3, 100)
		require.Len(t, batch.Items, 3)
		assert.False(t, batch.HasMore)
	})

	t.Run("offset past the end yields empty batch", func(t *testing.T) {
		results := makeResults(3)

		batch := FormatBatch(results, 9, 3, 100)
		assert.Empty(t, batch.Items)
		assert.False(t, batch.HasMore)
		assert.Empty(t, batch.DisplayText)
	})

	t.Run("marks truncated items for expansion", func(t *testing.T) {
		results := []models.RankedResult{
			{ID: 1, Text: "a very long note that certainly exceeds the display limit", Timestamp: time.Now()},
			{ID: 2, Text: "short", Timestamp: time.Now()},
		}

		batch := FormatBatch(results, 0, 2, 20)
		require.Len(t, batch.Items, 2)
		assert.True(t, batch.Items[0].Truncated)
		assert.False(t, batch.Items[1].Truncated)
	})

	t.Run("joins items with a blank line", func(t *testing.T) {
		results := makeResults(2)

		batch := FormatBatch(results, 0, 2, 100)
		assert.Contains(t, batch.DisplayText, "\n\n")
	})
}

func TestFormatPage(t *testing.T) {
	t.Run("formats a pre-sliced page with absolute indexes", func(t *testing.T) {
		results := makeResults(7)

		page := FormatPage(results[3:6], 3, true, 100)
		require.Len(t, page.Items, 3)
		assert.True(t, page.HasMore)
		assert.Equal(t, 3, page.Items[0].Index)
		assert.Equal(t, 5, page.Items[2].Index)
		assert.Equal(t, int64(4), page.Items[0].ID)
	})

	t.Run("matches batch slicing over the full sequence", func(t *testing.T) {
		results := makeResults(7)

		sliced := FormatBatch(results, 3, 3, 100)
		paged := FormatPage(results[3:6], 3, true, 100)

		assert.Equal(t, sliced, paged)
	})

	t.Run("empty page renders no text", func(t *testing.T) {
		page := FormatPage(nil, 0, false, 100)
		assert.Empty(t, page.Items)
		assert.Empty(t, page.DisplayText)
		assert.False(t, page.HasMore)
	})
}
