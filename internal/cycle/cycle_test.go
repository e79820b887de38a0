package cycle

import (
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/testutil"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveEndDate(t *testing.T) {
	custom := date(2024, 3, 10)

	tests := []struct {
		name      string
		start     time.Time
		cycleType models.CycleType
		customEnd *time.Time
		want      time.Time
		wantCode  string
	}{
		{name: "monthly", start: date(2024, 1, 15), cycleType: models.CycleMonthly, want: date(2024, 2, 14)},
		{name: "monthly_from_first", start: date(2024, 2, 1), cycleType: models.CycleMonthly, want: date(2024, 2, 29)},
		{name: "monthly_overflows_short_month", start: date(2024, 1, 31), cycleType: models.CycleMonthly, want: date(2024, 3, 1)},
		{name: "monthly_across_year", start: date(2024, 12, 20), cycleType: models.CycleMonthly, want: date(2025, 1, 19)},
		{name: "weekly", start: date(2024, 1, 1), cycleType: models.CycleWeekly, want: date(2024, 1, 7)},
		{name: "weekly_across_month", start: date(2024, 2, 27), cycleType: models.CycleWeekly, want: date(2024, 3, 4)},
		{name: "custom", start: date(2024, 3, 1), cycleType: models.CycleCustom, customEnd: &custom, want: custom},
		{name: "custom_without_end", start: date(2024, 3, 1), cycleType: models.CycleCustom, wantCode: "INVALID_INPUT"},
		{name: "unknown_cycle", start: date(2024, 3, 1), cycleType: "yearly", wantCode: "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveEndDate(tt.start, tt.cycleType, tt.customEnd)
			if tt.wantCode != "" {
				testutil.AssertAppError(t, err, tt.wantCode)
				return
			}
			testutil.AssertNoError(t, err)
			if !got.Equal(tt.want) {
				t.Errorf("expected %s, got %s", tt.want.Format("2006-01-02"), got.Format("2006-01-02"))
			}
		})
	}
}

func TestResolveEndDate_CustomDoesNotCheckOrder(t *testing.T) {
	before := date(2024, 2, 1)
	got, err := ResolveEndDate(date(2024, 3, 1), models.CycleCustom, &before)
	testutil.AssertNoError(t, err)
	if !got.Equal(before) {
		t.Errorf("expected custom end to be returned as-is, got %s", got)
	}
}

func TestAdvanceMonth(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{name: "same_day_next_month", in: date(2024, 3, 5), want: date(2024, 4, 5)},
		{name: "jan_31_leap_year_overflows", in: date(2024, 1, 31), want: date(2024, 3, 2)},
		{name: "jan_31_common_year_overflows", in: date(2023, 1, 31), want: date(2023, 3, 3)},
		{name: "december_rolls_year", in: date(2024, 12, 15), want: date(2025, 1, 15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AdvanceMonth(tt.in); !got.Equal(tt.want) {
				t.Errorf("AdvanceMonth(%s) = %s, want %s", tt.in.Format("2006-01-02"), got.Format("2006-01-02"), tt.want.Format("2006-01-02"))
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	t.Run("date_only", func(t *testing.T) {
		got, err := ParseDate("2024-01-15")
		testutil.AssertNoError(t, err)
		if !got.Equal(date(2024, 1, 15)) {
			t.Errorf("unexpected date %s", got)
		}
	})

	t.Run("rfc3339_is_normalized_to_utc", func(t *testing.T) {
		got, err := ParseDate("2024-01-15T02:00:00+02:00")
		testutil.AssertNoError(t, err)
		if got.Location() != time.UTC || got.Hour() != 0 || got.Day() != 15 {
			t.Errorf("unexpected time %s", got)
		}
	})

	t.Run("rejects_garbage", func(t *testing.T) {
		_, err := ParseDate("next tuesday")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("rejects_empty", func(t *testing.T) {
		_, err := ParseDate("")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestDayHelpers(t *testing.T) {
	ts := time.Date(2024, 2, 10, 13, 45, 0, 0, time.UTC)

	if got := StartOfDay(ts); !got.Equal(date(2024, 2, 10)) {
		t.Errorf("StartOfDay = %s", got)
	}
	if got := EndOfDay(ts); got.Day() != 10 || got.Hour() != 23 || !got.Before(date(2024, 2, 11)) {
		t.Errorf("EndOfDay = %s", got)
	}
	if got := DaysInMonth(ts); got != 29 {
		t.Errorf("DaysInMonth = %d, want 29", got)
	}
	if got := DaysInMonth(date(2023, 4, 30)); got != 30 {
		t.Errorf("DaysInMonth = %d, want 30", got)
	}
}
