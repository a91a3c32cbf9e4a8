package allocation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourhub-uz/tourhub/modules/contracts/domain/entities/allocation"
)

func day(d int) time.Time {
	return time.Date(2026, time.June, d, 0, 0, 0, 0, time.UTC)
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	t.Run("empty series", func(t *testing.T) {
		t.Parallel()
		s := allocation.Summarize(nil)
		assert.Zero(t, s.TotalAvailable)
		assert.Zero(t, s.TotalBooked)
		assert.Zero(t, s.TotalRemaining)
		assert.Nil(t, s.NextAvailabilityDate)
	})

	t.Run("totals and next open date", func(t *testing.T) {
		t.Parallel()
		rows := []*allocation.Availability{
			{Date: day(3), TotalAvailable: 10, Booked: 4, Available: 6},
			{Date: day(1), TotalAvailable: 10, Booked: 10, Available: 0},
			{Date: day(2), TotalAvailable: 10, Booked: 7, Available: 3},
		}
		s := allocation.Summarize(rows)
		assert.Equal(t, 30, s.TotalAvailable)
		assert.Equal(t, 21, s.TotalBooked)
		assert.Equal(t, 9, s.TotalRemaining)
		require.NotNil(t, s.NextAvailabilityDate)
		// Day 1 is sold out, the next open day wins regardless of input order.
		assert.Equal(t, day(2), *s.NextAvailabilityDate)
	})

	t.Run("sold out falls back to earliest date", func(t *testing.T) {
		t.Parallel()
		rows := []*allocation.Availability{
			{Date: day(5), TotalAvailable: 2, Booked: 2, Available: 0},
			{Date: day(4), TotalAvailable: 2, Booked: 2, Available: 0},
		}
		s := allocation.Summarize(rows)
		require.NotNil(t, s.NextAvailabilityDate)
		assert.Equal(t, day(4), *s.NextAvailabilityDate)
	})

	t.Run("input slice is not reordered", func(t *testing.T) {
		t.Parallel()
		rows := []*allocation.Availability{
			{Date: day(2), Available: 1},
			{Date: day(1), Available: 1},
		}
		allocation.Summarize(rows)
		assert.Equal(t, day(2), rows[0].Date)
	})
}
