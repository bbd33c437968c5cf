package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	m, err := ParseClock("18:30")
	require.NoError(t, err)
	assert.Equal(t, 18*60+30, m)

	for _, bad := range []string{"", "7:30", "25:00", "18h30", "18:30:00"} {
		_, err := ParseClock(bad)
		assert.ErrorIs(t, err, ErrInvalidClock, bad)
	}
	assert.Equal(t, "07:05", FormatClock(7*60+5))
}

func TestMinutesBetween(t *testing.T) {
	m, err := MinutesBetween("18:00", "19:30")
	require.NoError(t, err)
	assert.Equal(t, 90, m)

	_, err = MinutesBetween("19:30", "18:00")
	assert.ErrorIs(t, err, ErrInvalidClock)
}

func TestClockRangesOverlap(t *testing.T) {
	assert.True(t, ClockRangesOverlap("18:00", "19:30", "19:00", "20:00"))
	assert.False(t, ClockRangesOverlap("18:00", "19:30", "19:30", "21:00"))
	assert.True(t, ClockRangesOverlap("08:00", "12:00", "09:00", "10:00"))
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("", "anything"))
	assert.True(t, ContainsFold("ielts", "Lớp IELTS 6.5"))
	assert.True(t, ContainsFold("  Phòng ", "P.101", "phòng máy"))
	assert.False(t, ContainsFold("toeic", "IELTS", "Tiếng Anh"))
}

func TestInDateRange(t *testing.T) {
	d := func(s string) time.Time {
		v, err := ParseDate(s)
		require.NoError(t, err)
		return v
	}
	from, to := d("2024-03-01"), d("2024-03-31")

	assert.True(t, InDateRange(d("2024-03-01").Add(20*time.Hour), &from, &to))
	assert.True(t, InDateRange(d("2024-03-31"), &from, &to))
	assert.False(t, InDateRange(d("2024-04-01"), &from, &to))
	assert.True(t, InDateRange(d("1999-01-01"), nil, &to))
}

func TestFilter(t *testing.T) {
	even := Filter([]int{1, 2, 3, 4}, func(n int) bool { return n%2 == 0 })
	assert.Equal(t, []int{2, 4}, even)
	assert.Empty(t, Filter([]int(nil), func(int) bool { return true }))
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	page, info := Paginate(items, 2, 2)
	assert.Equal(t, []int{3, 4}, page)
	assert.Equal(t, 3, info.TotalPages)
	assert.Equal(t, int64(5), info.TotalItems)

	page, _ = Paginate(items, 3, 2)
	assert.Equal(t, []int{5}, page)

	page, _ = Paginate(items, 9, 2)
	assert.Empty(t, page)
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%ielts%", LikePattern(" IELTS "))
	assert.Equal(t, `%50\%%`, LikePattern("50%"))
}

func TestEachDay(t *testing.T) {
	from, _ := ParseDate("2024-02-28")
	to, _ := ParseDate("2024-03-01")
	var days []string
	EachDay(from, to, func(day time.Time) { days = append(days, day.Format(DateLayout)) })
	assert.Equal(t, []string{"2024-02-28", "2024-02-29", "2024-03-01"}, days)
}
