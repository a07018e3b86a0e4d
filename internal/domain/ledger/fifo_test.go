package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partstock/internal/core/id"
	"partstock/internal/domain/catalog"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func batchOn(t *testing.T, purchase time.Time) catalog.Batch {
	t.Helper()
	return *catalog.NewBatch(id.New(), purchase, 1000, 10)
}

func TestSortFIFO_OrdersByPurchaseDate(t *testing.T) {
	newest := batchOn(t, date(2026, 3, 10))
	oldest := batchOn(t, date(2026, 1, 5))
	middle := batchOn(t, date(2026, 2, 1))

	sorted := SortFIFO([]catalog.Batch{newest, oldest, middle})

	require.Len(t, sorted, 3)
	assert.Equal(t, oldest.ID, sorted[0].ID)
	assert.Equal(t, middle.ID, sorted[1].ID)
	assert.Equal(t, newest.ID, sorted[2].ID)
}

func TestSortFIFO_TiesKeepInsertionOrder(t *testing.T) {
	day := date(2026, 4, 1)
	first := batchOn(t, day)
	second := batchOn(t, day)
	third := batchOn(t, day)

	sorted := SortFIFO([]catalog.Batch{first, second, third})

	assert.Equal(t, first.ID, sorted[0].ID)
	assert.Equal(t, second.ID, sorted[1].ID)
	assert.Equal(t, third.ID, sorted[2].ID)
}

func TestSortFIFO_IdempotentAndNonMutating(t *testing.T) {
	input := []catalog.Batch{
		batchOn(t, date(2026, 2, 1)),
		batchOn(t, date(2026, 1, 1)),
	}
	originalFirst := input[0].ID

	once := SortFIFO(input)
	twice := SortFIFO(once)

	assert.Equal(t, once, twice)
	assert.Equal(t, originalFirst, input[0].ID, "input slice must not be reordered")
}

func TestSortFIFO_Empty(t *testing.T) {
	assert.Empty(t, SortFIFO(nil))
	assert.Empty(t, SortFIFO([]catalog.Batch{}))
}

func TestPosition(t *testing.T) {
	tests := []struct {
		name  string
		index int
		total int
		want  string
	}{
		{"single batch has no label", 0, 1, ""},
		{"empty", 0, 0, ""},
		{"first of many", 0, 3, "Next in line"},
		{"last of many", 2, 3, "Last to use"},
		{"middle", 1, 3, "Position 2 of 3"},
		{"middle of five", 2, 5, "Position 3 of 5"},
		{"second of two is last", 1, 2, "Last to use"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Position(tt.index, tt.total))
		})
	}
}

func TestAgeInDays(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		purchase time.Time
		want     int
	}{
		{"same instant", now, 0},
		{"partial day rounds up", now.Add(-6 * time.Hour), 1},
		{"exactly ten days", now.AddDate(0, 0, -10), 10},
		{"ten and a half days", now.AddDate(0, 0, -10).Add(-12 * time.Hour), 11},
		{"future date reports positive age", now.AddDate(0, 0, 3), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AgeInDays(tt.purchase, now))
		})
	}
}
