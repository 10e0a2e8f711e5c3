package journal

import "testing"

func TestStatsSnapshot_ApplyWrite(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		start       StatsSnapshot
		date        string
		want        StatsSnapshot
		wantChanged bool
	}{
		{
			name:        "first write initializes both counters",
			start:       StatsSnapshot{},
			date:        "2024-01-15",
			want:        StatsSnapshot{TotalDays: 1, Streak: 1, LastDate: "2024-01-15"},
			wantChanged: true,
		},
		{
			name:        "same day is a no-op",
			start:       StatsSnapshot{TotalDays: 3, Streak: 2, LastDate: "2024-01-15"},
			date:        "2024-01-15",
			want:        StatsSnapshot{TotalDays: 3, Streak: 2, LastDate: "2024-01-15"},
			wantChanged: false,
		},
		{
			name:        "next day extends the streak",
			start:       StatsSnapshot{TotalDays: 3, Streak: 2, LastDate: "2024-01-15"},
			date:        "2024-01-16",
			want:        StatsSnapshot{TotalDays: 4, Streak: 3, LastDate: "2024-01-16"},
			wantChanged: true,
		},
		{
			name:        "gap resets the streak",
			start:       StatsSnapshot{TotalDays: 3, Streak: 2, LastDate: "2024-01-15"},
			date:        "2024-01-20",
			want:        StatsSnapshot{TotalDays: 4, Streak: 1, LastDate: "2024-01-20"},
			wantChanged: true,
		},
		{
			name:        "next day across a month boundary",
			start:       StatsSnapshot{TotalDays: 10, Streak: 5, LastDate: "2024-01-31"},
			date:        "2024-02-01",
			want:        StatsSnapshot{TotalDays: 11, Streak: 6, LastDate: "2024-02-01"},
			wantChanged: true,
		},
		{
			name:        "earlier date counts as a gap",
			start:       StatsSnapshot{TotalDays: 3, Streak: 2, LastDate: "2024-01-15"},
			date:        "2024-01-10",
			want:        StatsSnapshot{TotalDays: 4, Streak: 1, LastDate: "2024-01-10"},
			wantChanged: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, changed := tt.start.ApplyWrite(tt.date)
			if changed != tt.wantChanged {
				t.Errorf("changed = %v, want %v", changed, tt.wantChanged)
			}
			if got != tt.want {
				t.Errorf("ApplyWrite(%q) = %+v, want %+v", tt.date, got, tt.want)
			}
		})
	}
}
