package genome

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildIndex_Empty(t *testing.T) {
	idx := BuildIndex(nil)
	assert.Empty(t, idx.Overlapping(Interval{"chr1", 1, 100}))
	assert.Equal(t, 0, idx.Len())
}

func TestIndex_SingleInterval(t *testing.T) {
	idx := BuildIndex([]Interval{{"chr1", 100, 200}})

	assert.Equal(t, []int{0}, idx.Overlapping(Interval{"chr1", 150, 150}))
	assert.Equal(t, []int{0}, idx.Overlapping(Interval{"chr1", 100, 100}), "left boundary inclusive")
	assert.Equal(t, []int{0}, idx.Overlapping(Interval{"chr1", 200, 200}), "right boundary inclusive")
	assert.Empty(t, idx.Overlapping(Interval{"chr1", 99, 99}), "before left")
	assert.Empty(t, idx.Overlapping(Interval{"chr1", 201, 300}), "after right")
	assert.Empty(t, idx.Overlapping(Interval{"chr2", 150, 150}), "other chromosome")
}

func TestIndex_Overlapping(t *testing.T) {
	idx := BuildIndex([]Interval{
		{"chr1", 100, 300},
		{"chr1", 150, 250},
		{"chr1", 200, 400},
		{"chr2", 100, 300},
	})

	assert.Equal(t, []int{0, 1}, idx.Overlapping(Interval{"chr1", 175, 175}))
	assert.Equal(t, []int{0, 1, 2}, idx.Overlapping(Interval{"chr1", 250, 250}))
	assert.Equal(t, []int{2}, idx.Overlapping(Interval{"chr1", 350, 500}))
	assert.Equal(t, []int{3}, idx.Overlapping(Interval{"chr2", 1, 100}))
	assert.Equal(t, 4, idx.Len())
}

func TestIndex_LongIntervalBeforeShortOnes(t *testing.T) {
	// A long interval that starts first must still be found when later,
	// shorter intervals end before the query.
	idx := BuildIndex([]Interval{
		{"chr1", 10, 1000},
		{"chr1", 20, 30},
		{"chr1", 40, 50},
	})

	assert.Equal(t, []int{0}, idx.Overlapping(Interval{"chr1", 500, 600}))
}

func TestIndex_MatchesBruteForce(t *testing.T) {
	intervals := []Interval{
		{"chr1", 5, 9}, {"chr1", 1, 3}, {"chr1", 8, 20}, {"chr1", 15, 15},
		{"chr1", 2, 30}, {"chr1", 25, 27}, {"chr1", 12, 14},
	}
	idx := BuildIndex(intervals)

	for left := int64(0); left <= 32; left++ {
		for right := left; right <= 32; right += 3 {
			q := Interval{"chr1", left, right}
			var want []int
			for i, iv := range intervals {
				if iv.Overlaps(q) {
					want = append(want, i)
				}
			}
			assert.Equal(t, want, idx.Overlapping(q), q.String())
		}
	}
}
