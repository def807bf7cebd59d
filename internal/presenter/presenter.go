// Package presenter formats ranked search results for display: deterministic
// truncation and batch slicing. It performs no I/O; the transport layer
// renders its output.
package presenter

import (
	"strings"

	"github.com/neronlabs/neron/internal/models"
)

// Ellipsis is appended to truncated result text.
const Ellipsis = "..."

// timestampLayout renders result timestamps for humans.
const timestampLayout = "2006-01-02 15:04"

// Item is one formatted result in a batch. Index is the absolute position in
// the session's cached result sequence, so "show full text" can address the
// item without re-querying.
type Item struct {
	Index       int
	ID          int64
	DisplayText string
	Timestamp   string
	Similarity  float64
	Truncated   bool
}

// Batch is a formatted page of results.
type Batch struct {
	DisplayText string
	Items       []Item
	HasMore     bool
}

// Truncate cuts text to at most maxLength characters. When a cut is needed it
// backs up to the nearest preceding space so no word is split, then appends
// the ellipsis marker. If no space precedes the limit the cut is a hard one.
// Counts runes, not bytes, so a hard cut never splits a UTF-8 sequence.
// Returns the display text and whether truncation happened.
func Truncate(text string, maxLength int) (string, bool) {
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text, false
	}

	cut := string(runes[:maxLength])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}

	return strings.TrimRight(cut, " ") + Ellipsis, true
}

// FormatPage truncates each entry of an already-sliced page to maxLength and
// joins them with blank lines. offset is the absolute position of the page's
// first entry in the session's result sequence.
func FormatPage(page []models.RankedResult, offset int, hasMore bool, maxLength int) Batch {
	batch := Batch{HasMore: hasMore}

	var lines []string

	for i, r := range page {
		display, truncated := Truncate(r.Text, maxLength)
		item := Item{
			Index:       offset + i,
			ID:          r.ID,
			DisplayText: display,
			Timestamp:   r.Timestamp.Format(timestampLayout),
			Similarity:  r.Similarity,
			Truncated:   truncated,
		}
		batch.Items = append(batch.Items, item)
		lines = append(lines, item.Timestamp+"\n"+item.DisplayText)
	}

	batch.DisplayText = strings.Join(lines, "\n\n")

	return batch
}

// FormatBatch slices batchSize results starting at offset and formats the
// page. hasMore is true iff results remain past the slice.
func FormatBatch(results []models.RankedResult, offset, batchSize, maxLength int) Batch {
	hasMore := len(results) > offset+batchSize

	if offset < 0 || offset >= len(results) {
		return Batch{HasMore: hasMore}
	}

	end := offset + batchSize
	if end > len(results) {
		end = len(results)
	}

	return FormatPage(results[offset:end], offset, hasMore, maxLength)
}
