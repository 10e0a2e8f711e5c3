package journal

import (
	"strings"
	"testing"
	"time"
)

func savedRecord(name, path string, savedAt *time.Time) FileRecord {
	return FileRecord{Name: name, Path: path, State: Saved("s"), SavedAt: savedAt}
}

func localTime(date string, hour, minute int) *time.Time {
	d, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		panic(err)
	}
	t := d.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
	return &t
}

func TestBuildHeatmapData_FixedThresholds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		savedAt *time.Time
		want    HeatmapStatus
	}{
		{"no commit time is gray", nil, StatusGray},
		{"before 10:00 is green", localTime("2024-01-15", 9, 59), StatusGreen},
		{"at 10:00 is orange", localTime("2024-01-15", 10, 0), StatusOrange},
		{"before 14:00 is orange", localTime("2024-01-15", 13, 59), StatusOrange},
		{"at 14:00 is red", localTime("2024-01-15", 14, 0), StatusRed},
		{"evening is red", localTime("2024-01-15", 22, 30), StatusRed},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			records := []FileRecord{savedRecord("2024-01-15.md", "1월/3째주/2024-01-15.md", tt.savedAt)}
			cells := BuildHeatmapData(records, nil)

			if len(cells) != 1 {
				t.Fatalf("cells = %d, want 1", len(cells))
			}
			if cells[0].Status != tt.want {
				t.Errorf("Status = %s, want %s", cells[0].Status, tt.want)
			}
			if cells[0].Date != "2024-01-15" {
				t.Errorf("Date = %q, want 2024-01-15", cells[0].Date)
			}
		})
	}
}

func TestBuildHeatmapData_ConfiguredWindows(t *testing.T) {
	t.Parallel()

	windows := &TimeWindows{
		Green:  TimeWindow{Start: 5 * 60, End: 8 * 60},
		Orange: TimeWindow{Start: 8 * 60, End: 12 * 60},
	}

	tests := []struct {
		name string
		hour int
		want HeatmapStatus
	}{
		{"inside green window", 6, StatusGreen},
		{"inside orange window", 9, StatusOrange},
		{"outside both is red", 13, StatusRed},
		{"before green is red", 4, StatusRed},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			records := []FileRecord{savedRecord("2024-01-15.md", "1월/3째주/2024-01-15.md", localTime("2024-01-15", tt.hour, 0))}
			cells := BuildHeatmapData(records, windows)

			if cells[0].Status != tt.want {
				t.Errorf("Status = %s, want %s", cells[0].Status, tt.want)
			}
		})
	}
}

func TestBuildHeatmapData_DifferentDayCommit(t *testing.T) {
	t.Parallel()

	// Committed the morning after the entry's date: gray, with the commit
	// time annotated in the tooltip.
	records := []FileRecord{savedRecord("2024-01-15.md", "1월/3째주/2024-01-15.md", localTime("2024-01-16", 7, 0))}
	cells := BuildHeatmapData(records, nil)

	if cells[0].Status != StatusGray {
		t.Errorf("Status = %s, want %s", cells[0].Status, StatusGray)
	}
	if !strings.Contains(cells[0].Title, "다른 날") {
		t.Errorf("Title = %q, want the different-day annotation", cells[0].Title)
	}
	if !strings.Contains(cells[0].Title, "2024-01-16 07:00") {
		t.Errorf("Title = %q, want the commit time", cells[0].Title)
	}
}

func TestBuildHeatmapData_SkipsUndatedNames(t *testing.T) {
	t.Parallel()

	records := []FileRecord{
		savedRecord("notes.md", "notes.md", nil),
		savedRecord("2024-01-15.md", "1월/3째주/2024-01-15.md", nil),
	}

	cells := BuildHeatmapData(records, nil)
	if len(cells) != 1 {
		t.Fatalf("cells = %d, want 1 (undated names skipped)", len(cells))
	}
}

func TestBuildHeatmapData_TitledEntryTooltip(t *testing.T) {
	t.Parallel()

	records := []FileRecord{savedRecord("2024-01-15 회고.md", "1월/3째주/2024-01-15 회고.md", localTime("2024-01-15", 7, 30))}
	cells := BuildHeatmapData(records, nil)

	if !strings.HasPrefix(cells[0].Title, "2024-01-15 회고") {
		t.Errorf("Title = %q, want the humanized name prefix", cells[0].Title)
	}
	if !strings.Contains(cells[0].Title, "07:30") {
		t.Errorf("Title = %q, want the commit time", cells[0].Title)
	}
}
