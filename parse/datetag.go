package parse

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// monthShort maps long month names to the three-letter form used in tags.
func monthShort() map[string]string {
	return map[string]string{
		"January":   "Jan",
		"February":  "Feb",
		"March":     "Mar",
		"April":     "Apr",
		"May":       "May",
		"June":      "Jun",
		"July":      "Jul",
		"August":    "Aug",
		"September": "Sep",
		"October":   "Oct",
		"November":  "Nov",
		"December":  "Dec",
	}
}

var monthByShort = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// DateTagger turns long-form dates into compact DateTags and back. The
// month table is injected at construction so tests can substitute it.
type DateTagger struct {
	months map[string]string
}

func NewDateTagger(months map[string]string) *DateTagger {
	if months == nil {
		months = monthShort()
	}
	return &DateTagger{months: months}
}

// FormatDateTag converts "February 7, 2026" into the compact sortable tag
// "7Feb2026". The input must split into exactly month, day and year after
// commas are removed; anything else is a hard parse failure for the caller,
// not a skippable row.
func (t *DateTagger) FormatDateTag(longDate string) (string, error) {
	parts := strings.Fields(strings.ReplaceAll(longDate, ",", ""))
	if len(parts) != 3 {
		return "", fmt.Errorf("date parse failed: %q", longDate)
	}

	month, ok := t.months[parts[0]]
	if !ok {
		return "", fmt.Errorf("date parse failed: unknown month in %q", longDate)
	}

	return parts[1] + month + parts[2], nil
}

var dateTagRe = regexp.MustCompile(`^(\d{1,2})([A-Za-z]{3})(\d{4})$`)

// ParseDateTag converts a tag like "7Feb2026" back into a calendar date.
// Used to sort tags by real date, since the tag itself is not lexically
// ordered.
func ParseDateTag(tag string) (time.Time, error) {
	m := dateTagRe.FindStringSubmatch(tag)
	if m == nil {
		return time.Time{}, fmt.Errorf("invalid date tag: %q", tag)
	}

	day, _ := strconv.Atoi(m[1])
	month, ok := monthByShort[strings.ToLower(m[2])]
	if !ok {
		return time.Time{}, fmt.Errorf("invalid date tag: unknown month in %q", tag)
	}
	year, _ := strconv.Atoi(m[3])

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}

// TagBefore reports whether tag a's calendar date precedes b's. Unparseable
// tags sort last, so malformed index entries never shadow real dates.
func TagBefore(a, b string) bool {
	ta, errA := ParseDateTag(a)
	tb, errB := ParseDateTag(b)
	if errA != nil {
		return false
	}
	if errB != nil {
		return true
	}
	return ta.Before(tb)
}

// SortTagsDesc orders date tags newest first, in place.
func SortTagsDesc(tags []string) {
	sort.Slice(tags, func(i, j int) bool {
		return TagBefore(tags[j], tags[i])
	})
}

// DayTag formats a calendar date the way the site tags its data, e.g.
// "7Feb2026". Day is unpadded to match the source convention.
func DayTag(t time.Time) string {
	return fmt.Sprintf("%d%s%d", t.Day(), t.Month().String()[:3], t.Year())
}
