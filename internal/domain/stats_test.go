package domain

import (
	"testing"
	"time"
)

func TestPeriodStart(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		period StatsPeriod
		want   *time.Time
	}{
		{Period7d, ptrTime(now.AddDate(0, 0, -7))},
		{Period30d, ptrTime(now.AddDate(0, 0, -30))},
		{Period90d, ptrTime(now.AddDate(0, 0, -90))},
		{Period1y, ptrTime(now.AddDate(0, 0, -365))},
		{PeriodAll, nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			t.Parallel()
			got := tt.period.PeriodStart(now)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("PeriodStart(%s): got %v, want %v", tt.period, got, tt.want)
			}
			if got != nil && !got.Equal(*tt.want) {
				t.Errorf("PeriodStart(%s): got %v, want %v", tt.period, got, tt.want)
			}
		})
	}
}

func ptrTime(t time.Time) *time.Time { return &t }

func TestIdeaPatch_IsEmpty(t *testing.T) {
	t.Parallel()

	if !(IdeaPatch{}).IsEmpty() {
		t.Error("zero patch should be empty")
	}

	title := "New title"
	if (IdeaPatch{Title: &title}).IsEmpty() {
		t.Error("patch with title should not be empty")
	}
}
