// Package datetoken converts calendar dates into locale-aware named
// tokens (YYYY, MM, dddd, ...) and substitutes them into path patterns
// such as "Notes/YYYY/MM/YYYY-MM-DD-dddd".
package datetoken

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/goodsign/monday"
)

// DefaultLocale is the fallback when a configured locale cannot be resolved.
const DefaultLocale = string(monday.LocaleEnUS)

// Token names matched in patterns, longest first so that e.g. MMM is
// never pre-empted by a stray M inside an already-substituted name.
// Substitution happens in one pass over all tokens simultaneously;
// sequential per-token passes would re-substitute inside earlier
// replacements ("Dec" -> "2ec").
var tokenRe = regexp.MustCompile(`YYYY|MMMM|dddd|MMM|ddd|DD|MM|YY|dd|D|M`)

// referenceMonday anchors weekday probing on a known Monday so weekday
// names are independent of the input date's year.
var referenceMonday = time.Date(2023, time.January, 2, 0, 0, 0, 0, time.UTC)

// LocaleError reports a locale string the runtime cannot resolve.
type LocaleError struct {
	Locale string
}

func (e *LocaleError) Error() string {
	return fmt.Sprintf("datetoken: unsupported locale %q", e.Locale)
}

// Names holds localized calendar names, Monday-first for weekdays.
type Names struct {
	WeekdaysLong  [7]string  // Monday
	WeekdaysShort [7]string  // Mon
	WeekdaysMin   [7]string  // Mo — first two characters of the short name
	MonthsLong    [12]string // January
	MonthsShort   [12]string // Jan
}

// CalendarNames resolves localized weekday and month names. It exists
// so the backing date/locale library can be swapped in tests.
type CalendarNames interface {
	Names(locale string) (*Names, error)
}

// MondayNames derives calendar names by probing goodsign/monday's
// locale-aware formatter with reference dates.
type MondayNames struct{}

// Names implements CalendarNames. Unresolvable locales yield a *LocaleError.
func (MondayNames) Names(locale string) (*Names, error) {
	loc, err := resolveLocale(locale)
	if err != nil {
		return nil, err
	}

	var n Names
	for i := 0; i < 7; i++ {
		d := referenceMonday.AddDate(0, 0, i)
		n.WeekdaysLong[i] = monday.Format(d, "Monday", loc)
		n.WeekdaysShort[i] = monday.Format(d, "Mon", loc)
		// "Very short" weekday is a documented heuristic, not a true
		// localized form.
		n.WeekdaysMin[i] = firstRunes(n.WeekdaysShort[i], 2)
	}
	for i := 0; i < 12; i++ {
		d := time.Date(2023, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC)
		n.MonthsLong[i] = monday.Format(d, "January", loc)
		n.MonthsShort[i] = monday.Format(d, "Jan", loc)
	}
	return &n, nil
}

// resolveLocale maps tags like "de-DE" or "de_DE" onto a supported
// monday.Locale, falling back to a language-prefix match.
func resolveLocale(locale string) (monday.Locale, error) {
	normalized := strings.ReplaceAll(locale, "-", "_")
	lang := strings.SplitN(normalized, "_", 2)[0]

	var prefixMatch monday.Locale
	for _, loc := range monday.ListLocales() {
		if string(loc) == normalized {
			return loc, nil
		}
		if prefixMatch == "" && strings.HasPrefix(string(loc), lang+"_") {
			prefixMatch = loc
		}
	}
	if prefixMatch != "" {
		return prefixMatch, nil
	}
	return "", &LocaleError{Locale: locale}
}

// Engine generates date tokens and applies them to patterns.
type Engine struct {
	names CalendarNames
}

// NewEngine creates an Engine backed by the given name provider.
func NewEngine(names CalendarNames) *Engine {
	return &Engine{names: names}
}

// NewDefaultEngine creates an Engine backed by goodsign/monday.
func NewDefaultEngine() *Engine {
	return NewEngine(MondayNames{})
}

// Tokens returns the full token map for a date in the given locale.
func (e *Engine) Tokens(date time.Time, locale string) (map[string]string, error) {
	n, err := e.names.Names(locale)
	if err != nil {
		return nil, err
	}

	year := date.Year()
	month := int(date.Month()) - 1
	weekday := (int(date.Weekday()) + 6) % 7

	return map[string]string{
		"YYYY": fmt.Sprintf("%04d", year),
		"YY":   fmt.Sprintf("%02d", year%100),
		"MM":   fmt.Sprintf("%02d", month+1),
		"M":    fmt.Sprintf("%d", month+1),
		"DD":   fmt.Sprintf("%02d", date.Day()),
		"D":    fmt.Sprintf("%d", date.Day()),
		"dddd": n.WeekdaysLong[weekday],
		"ddd":  n.WeekdaysShort[weekday],
		"dd":   n.WeekdaysMin[weekday],
		"MMMM": n.MonthsLong[month],
		"MMM":  n.MonthsShort[month],
	}, nil
}

// ApplyPattern substitutes every token occurrence in pattern for the
// given date. Unknown tokens are left verbatim.
func (e *Engine) ApplyPattern(pattern string, date time.Time, locale string) (string, error) {
	tokens, err := e.Tokens(date, locale)
	if err != nil {
		return "", err
	}
	return tokenRe.ReplaceAllStringFunc(pattern, func(m string) string {
		if v, ok := tokens[m]; ok {
			return v
		}
		return m
	}), nil
}

func firstRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
