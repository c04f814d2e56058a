package txtt

import (
	"fmt"
	"sort"
	"time"

	"golang.org/x/text/language"
)

// Reserved meta-constant identifiers
const (
	MetaYear       = "Year"
	MetaMonthNum   = "MonthNum"
	MetaMonth      = "Month"
	MetaMonthName  = "MonthName"
	MetaMonthAbbr  = "MonthAbbr"
	MetaMonthShort = "MonthShort"
	MetaDayNum     = "DayNum"
	MetaWeek       = "Week"
	MetaDay        = "Day"
	MetaDayName    = "DayName"
	MetaDayAbbr    = "DayAbbr"
	MetaDayShort   = "DayShort"
	MetaHour       = "Hour"
	MetaMinute     = "Minute"
	MetaSecond     = "Second"
	MetaDate       = "Date"
	MetaNow        = "Now"
)

// Meta value formats
const (
	metaFmtTwoDigits  = "%02d"
	metaFmtDate       = "2006-01-02"
	metaAbbrevLen     = 3
	daysPerWeek       = 7
	metaFmtYearDigits = "%04d"
)

// metaFunc computes a meta-constant literal for a resolution instant.
type metaFunc func(now time.Time, locale language.Tag, tr *MetaTranslator) string

var metaFuncs = map[string]metaFunc{
	MetaYear: func(now time.Time, _ language.Tag, _ *MetaTranslator) string {
		return fmt.Sprintf(metaFmtYearDigits, now.Year())
	},
	MetaMonthNum: func(now time.Time, _ language.Tag, _ *MetaTranslator) string {
		return fmt.Sprintf(metaFmtTwoDigits, int(now.Month()))
	},
	MetaMonth:      monthName,
	MetaMonthName:  monthName,
	MetaMonthAbbr:  monthAbbr,
	MetaMonthShort: monthAbbr,
	MetaDayNum: func(now time.Time, _ language.Tag, _ *MetaTranslator) string {
		return fmt.Sprintf(metaFmtTwoDigits, now.Day())
	},
	MetaWeek: func(now time.Time, _ language.Tag, _ *MetaTranslator) string {
		return fmt.Sprintf(metaFmtTwoDigits, sundayWeek(now))
	},
	MetaDay:      dayName,
	MetaDayName:  dayName,
	MetaDayAbbr:  dayAbbr,
	MetaDayShort: dayAbbr,
	MetaHour: func(now time.Time, _ language.Tag, _ *MetaTranslator) string {
		return fmt.Sprintf(metaFmtTwoDigits, now.Hour())
	},
	MetaMinute: func(now time.Time, _ language.Tag, _ *MetaTranslator) string {
		return fmt.Sprintf(metaFmtTwoDigits, now.Minute())
	},
	MetaSecond: func(now time.Time, _ language.Tag, _ *MetaTranslator) string {
		return fmt.Sprintf(metaFmtTwoDigits, now.Second())
	},
	MetaDate: func(now time.Time, _ language.Tag, _ *MetaTranslator) string {
		return now.Format(metaFmtDate)
	},
	MetaNow: func(now time.Time, _ language.Tag, _ *MetaTranslator) string {
		return now.Format(time.RFC3339)
	},
}

func monthName(now time.Time, locale language.Tag, tr *MetaTranslator) string {
	return tr.MonthName(locale, now.Month())
}

func monthAbbr(now time.Time, locale language.Tag, tr *MetaTranslator) string {
	return abbreviate(monthName(now, locale, tr))
}

func dayName(now time.Time, locale language.Tag, tr *MetaTranslator) string {
	return tr.DayName(locale, now.Weekday())
}

func dayAbbr(now time.Time, locale language.Tag, tr *MetaTranslator) string {
	return abbreviate(dayName(now, locale, tr))
}

// abbreviate keeps the first three letters, counted in runes.
func abbreviate(name string) string {
	runes := []rune(name)
	if len(runes) <= metaAbbrevLen {
		return name
	}
	return string(runes[:metaAbbrevLen])
}

// sundayWeek is the week of the year with Sunday as the first day of the week.
// Days before the first Sunday of January are in week 0.
func sundayWeek(t time.Time) int {
	return (t.YearDay() - 1 + daysPerWeek - int(t.Weekday())) / daysPerWeek
}

// MetaIdentifiers returns the reserved meta-constant identifiers in sorted order.
func MetaIdentifiers() []string {
	ids := make([]string, 0, len(metaFuncs))
	for id := range metaFuncs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// IsMetaIdentifier reports whether id names a meta-constant.
func IsMetaIdentifier(id string) bool {
	_, ok := metaFuncs[id]
	return ok
}

// MetaRegistry computes meta-constant literals from a clock.
// All values are rendered in UTC.
type MetaRegistry struct {
	clock      func() time.Time
	translator *MetaTranslator
}

// NewMetaRegistry creates a registry. A nil clock uses time.Now and a nil
// translator renders English names.
func NewMetaRegistry(clock func() time.Time, translator *MetaTranslator) *MetaRegistry {
	if clock == nil {
		clock = time.Now
	}
	return &MetaRegistry{
		clock:      clock,
		translator: translator,
	}
}

// Has reports whether id is a meta-constant.
func (r *MetaRegistry) Has(id string) bool {
	return IsMetaIdentifier(id)
}

// Lookup computes the literal of a meta-constant at the current clock instant.
func (r *MetaRegistry) Lookup(id string, locale language.Tag) (string, bool) {
	return r.lookupAt(id, r.now(), locale)
}

// now reads the clock once; a resolution uses a single instant throughout.
func (r *MetaRegistry) now() time.Time {
	return r.clock().UTC()
}

func (r *MetaRegistry) lookupAt(id string, now time.Time, locale language.Tag) (string, bool) {
	fn, ok := metaFuncs[id]
	if !ok {
		return "", false
	}
	return fn(now.UTC(), locale, r.translator), true
}
