package datemath

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const isoDate = "2006-01-02"

// Parser resolves natural-language due-date phrases to calendar dates.
// All resolution happens against a caller-supplied reference instant, so
// results are deterministic and testable.
type Parser struct {
	location *time.Location
}

// NewParser creates a new date parser for the given IANA timezone string.
// e.g. "Asia/Kolkata"
func NewParser(timezone string) (*Parser, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return &Parser{location: loc}, nil
}

// Now returns the current instant in the parser's timezone.
func (p *Parser) Now() time.Time {
	return time.Now().In(p.location)
}

// dateRule matches one phrase shape against the reference day.
// Rules are independent; DueDate applies them in order, first match wins.
type dateRule func(text string, today time.Time) (time.Time, bool)

var rules = []dateRule{
	literalRule,
	isoDateRule,
	monthDayRule,
	weekdayRule,
	inDurationRule,
}

// DueDate extracts a due date from free text, resolved against ref.
// Returns the date as "YYYY-MM-DD", or false when no rule matches.
func (p *Parser) DueDate(text string, ref time.Time) (string, bool) {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return "", false
	}

	today := p.startOfDay(ref)
	for _, rule := range rules {
		if d, ok := rule(t, today); ok {
			return d.Format(isoDate), true
		}
	}
	return "", false
}

var (
	reToday      = regexp.MustCompile(`\btoday\b`)
	reTomorrow   = regexp.MustCompile(`\btomorrow\b`)
	reISODate    = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	reMonthDay   = regexp.MustCompile(`\b([a-z]{3,9})\s+(\d{1,2})\b`)
	reWeekday    = regexp.MustCompile(`\b(next\s+)?(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)
	reInDuration = regexp.MustCompile(`\bin (\d+) (day|days|week|weeks)\b`)
)

var months = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

var weekdayIndex = map[string]int{
	"monday": 0, "tuesday": 1, "wednesday": 2, "thursday": 3,
	"friday": 4, "saturday": 5, "sunday": 6,
}

// literalRule handles the words "today" and "tomorrow".
func literalRule(text string, today time.Time) (time.Time, bool) {
	if reToday.MatchString(text) {
		return today, true
	}
	if reTomorrow.MatchString(text) {
		return today.AddDate(0, 0, 1), true
	}
	return time.Time{}, false
}

// isoDateRule handles explicit YYYY-MM-DD tokens. Invalid calendar values
// (e.g. month 13, Feb 30) fall through to the next rule.
func isoDateRule(text string, today time.Time) (time.Time, bool) {
	m := reISODate.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])

	return civilDate(year, time.Month(month), day, today.Location())
}

// monthDayRule handles "<month-name> <day>" (e.g. "Oct 26", "october 5"),
// resolved against the reference year. A date already in the past rolls
// forward to the next year; if the rolled-forward date is invalid
// (Feb 29 in a non-leap year) the rule falls through.
func monthDayRule(text string, today time.Time) (time.Time, bool) {
	m := reMonthDay.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}

	mon, ok := months[m[1]]
	if !ok {
		mon, ok = months[m[1][:3]]
	}
	if !ok {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[2])

	cand, ok := civilDate(today.Year(), mon, day, today.Location())
	if !ok {
		return time.Time{}, false
	}
	if cand.Before(today) {
		return civilDate(today.Year()+1, mon, day, today.Location())
	}
	return cand, true
}

// weekdayRule handles "<weekday>" and "next <weekday>". A bare weekday
// never resolves to today: when the reference day is that weekday, the
// result is next week's occurrence. The "next" qualifier adds a further
// seven days.
func weekdayRule(text string, today time.Time) (time.Time, bool) {
	m := reWeekday.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}

	target := weekdayIndex[m[2]]
	todayIdx := (int(today.Weekday()) + 6) % 7 // Monday=0

	delta := (target - todayIdx + 7) % 7
	if delta == 0 {
		delta = 7
	}
	if m[1] != "" {
		delta += 7
	}
	return today.AddDate(0, 0, delta), true
}

// inDurationRule handles "in N days" and "in N weeks".
func inDurationRule(text string, today time.Time) (time.Time, bool) {
	m := reInDuration.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	amount, _ := strconv.Atoi(m[1])
	if strings.HasPrefix(m[2], "week") {
		amount *= 7
	}
	return today.AddDate(0, 0, amount), true
}

// civilDate builds a date and rejects values time.Date would normalize
// away (Feb 30 becomes Mar 2; such inputs are invalid here).
func civilDate(year int, month time.Month, day int, loc *time.Location) (time.Time, bool) {
	if month < time.January || month > time.December {
		return time.Time{}, false
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, loc)
	if d.Year() != year || d.Month() != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

// startOfDay returns midnight at the start of the given day in the
// parser's timezone.
func (p *Parser) startOfDay(t time.Time) time.Time {
	t = t.In(p.location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, p.location)
}
