package journal

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

const (
	commitMsgCreateMorningTime = "chore: 아침 시간 설정 생성"
	commitMsgUpdateMorningTime = "chore: 아침 시간 설정 업데이트"
)

// TimeWindow is a half-open [Start, End) interval in minutes since local
// midnight.
type TimeWindow struct {
	Start int
	End   int
}

// String renders the window as "HH:MM-HH:MM".
func (w TimeWindow) String() string {
	return formatMinute(w.Start) + "-" + formatMinute(w.End)
}

// Contains reports whether the minute-of-day falls inside the window.
func (w TimeWindow) Contains(minute int) bool {
	return minute >= w.Start && minute < w.End
}

// TimeWindows is the user-configured write-time classification: membership
// in Green wins over Orange; everything else is Red.
type TimeWindows struct {
	Green  TimeWindow
	Orange TimeWindow
}

// morningTimeDoc is the wire shape of the morning-time document.
type morningTimeDoc struct {
	Green  windowDoc `json:"green"`
	Orange windowDoc `json:"orange"`
}

type windowDoc struct {
	Start string `json:"start"` // "HH:MM"
	End   string `json:"end"`
}

// MorningTime reads and writes the morning-time configuration document.
type MorningTime struct {
	backend Backend
	logger  Logger
}

// NewMorningTime creates a MorningTime service over the given backend.
func NewMorningTime(backend Backend, logger Logger) *MorningTime {
	return &MorningTime{backend: backend, logger: logger}
}

// Load returns the configured windows and the document version id. An
// absent document is KindConfigNotFound; the heatmap then falls back to the
// fixed thresholds.
func (m *MorningTime) Load(ctx context.Context) (*TimeWindows, string, error) {
	var doc morningTimeDoc
	sha, err := readDocument(ctx, m.backend, MorningTimeDocPath, &doc)
	if err != nil {
		return nil, "", err
	}

	windows, err := doc.parse()
	if err != nil {
		m.logger.Warn("morning-time document malformed", "error", err)
		return nil, "", newError(KindConfigNotFound, "", err)
	}
	return windows, sha, nil
}

// Save writes the windows, creating or updating by presence of sha.
func (m *MorningTime) Save(ctx context.Context, windows TimeWindows, sha string) error {
	message := commitMsgCreateMorningTime
	if sha != "" {
		message = commitMsgUpdateMorningTime
	}

	doc := morningTimeDoc{
		Green:  windowDoc{Start: formatMinute(windows.Green.Start), End: formatMinute(windows.Green.End)},
		Orange: windowDoc{Start: formatMinute(windows.Orange.Start), End: formatMinute(windows.Orange.End)},
	}
	if err := writeDocument(ctx, m.backend, MorningTimeDocPath, message, doc, sha); err != nil {
		return err
	}
	m.logger.Info("morning-time config saved")
	return nil
}

func (d morningTimeDoc) parse() (*TimeWindows, error) {
	green, err := parseWindow(d.Green)
	if err != nil {
		return nil, fmt.Errorf("green window: %w", err)
	}
	orange, err := parseWindow(d.Orange)
	if err != nil {
		return nil, fmt.Errorf("orange window: %w", err)
	}
	return &TimeWindows{Green: green, Orange: orange}, nil
}

// ParseWindowSpec parses a "HH:MM-HH:MM" range into a TimeWindow.
func ParseWindowSpec(s string) (TimeWindow, error) {
	start, end, ok := strings.Cut(s, "-")
	if !ok {
		return TimeWindow{}, fmt.Errorf("invalid window %q, want HH:MM-HH:MM", s)
	}
	return parseWindow(windowDoc{Start: start, End: end})
}

func parseWindow(d windowDoc) (TimeWindow, error) {
	start, err := parseMinute(d.Start)
	if err != nil {
		return TimeWindow{}, err
	}
	end, err := parseMinute(d.End)
	if err != nil {
		return TimeWindow{}, err
	}
	return TimeWindow{Start: start, End: end}, nil
}

// parseMinute converts "HH:MM" to minutes since midnight.
func parseMinute(s string) (int, error) {
	h, m, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour*60 + minute, nil
}

func formatMinute(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}
