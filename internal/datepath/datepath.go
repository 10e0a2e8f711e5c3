// Package datepath maps calendar dates to their canonical repository paths
// and back. Entries live at "{month}월/{week}째주/{YYYY-MM-DD}.md"; the week
// number is a Sunday-first, non-ISO convention that must stay byte-compatible
// with repositories written by earlier clients.
package datepath

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Filename patterns for journal entries. A valid entry is named either
// "YYYY-MM-DD.md" or "YYYY-MM-DD <title>.md".
var (
	entryPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}(\s+.+)?\.md$`)
	datePrefix   = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})`)
	titleSuffix  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}\s+(.+)\.md$`)
)

// EntryLocation is the decomposed repository location of one entry.
type EntryLocation struct {
	MonthFolder string // e.g. "11월"
	WeekFolder  string // e.g. "2째주"
	ISODate     string // e.g. "2025-11-08"
	Path        string // e.g. "11월/2째주/2025-11-08.md"
}

// ForDate returns the canonical location of the entry for the given date.
func ForDate(date time.Time) EntryLocation {
	month := int(date.Month())
	iso := FormatDate(date)

	monthFolder := fmt.Sprintf("%d월", month)
	weekFolder := fmt.Sprintf("%d째주", weekOfMonth(date))

	return EntryLocation{
		MonthFolder: monthFolder,
		WeekFolder:  weekFolder,
		ISODate:     iso,
		Path:        monthFolder + "/" + weekFolder + "/" + iso + ".md",
	}
}

// weekOfMonth computes the 1-indexed week number using the Sunday-first
// convention: ceil((dayOfMonth + weekdayOfFirst) / 7). This is deliberately
// not ISO week numbering.
func weekOfMonth(date time.Time) int {
	first := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
	firstWeekday := int(first.Weekday()) // Sunday == 0
	dayOfMonth := date.Day()
	return (dayOfMonth + firstWeekday + 6) / 7
}

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(date time.Time) string {
	return date.Format("2006-01-02")
}

// IsEntryName reports whether name is a date-patterned markdown filename.
func IsEntryName(name string) bool {
	return entryPattern.MatchString(name)
}

// ExtractDate returns the leading YYYY-MM-DD segment of a filename, or ""
// if the name does not start with one. It never fails loudly: non-conforming
// names simply yield "".
func ExtractDate(name string) string {
	m := datePrefix.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	return m[1]
}

// ExtractTitle returns the free-text title portion of a filename
// ("2025-11-08 회고.md" → "회고"), or "" if the name carries no title.
func ExtractTitle(name string) string {
	m := titleSuffix.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	return m[1]
}

// FileName builds an entry filename from a date string and an optional title.
func FileName(isoDate, title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return isoDate + ".md"
	}
	return isoDate + " " + title + ".md"
}

// HumanizeTitle turns a repository path into an editable title by stripping
// the ".md" suffix.
func HumanizeTitle(path string) string {
	return strings.TrimSuffix(path, ".md")
}
