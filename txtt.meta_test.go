package txtt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestMetaRegistry_Lookup(t *testing.T) {
	registry := NewMetaRegistry(fixedClock, MustNewMetaTranslator(nil))

	tests := []struct {
		id       string
		expected string
	}{
		{MetaYear, "2024"},
		{MetaMonthNum, "03"},
		{MetaMonth, "March"},
		{MetaMonthName, "March"},
		{MetaMonthAbbr, "Mar"},
		{MetaMonthShort, "Mar"},
		{MetaDayNum, "05"},
		{MetaWeek, "09"},
		{MetaDay, "Tuesday"},
		{MetaDayName, "Tuesday"},
		{MetaDayAbbr, "Tue"},
		{MetaDayShort, "Tue"},
		{MetaHour, "14"},
		{MetaMinute, "07"},
		{MetaSecond, "09"},
		{MetaDate, "2024-03-05"},
		{MetaNow, "2024-03-05T14:07:09Z"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, ok := registry.Lookup(tt.id, language.AmericanEnglish)
			require.True(t, ok)
			assert.Equal(t, tt.expected, got)
		})
	}

	assert.Len(t, MetaIdentifiers(), len(tests))
}

func TestMetaRegistry_UnknownIdentifier(t *testing.T) {
	registry := NewMetaRegistry(fixedClock, nil)
	_, ok := registry.Lookup("year", language.English)
	assert.False(t, ok, "identifiers are case sensitive")
	assert.False(t, registry.Has("signature"))
	assert.True(t, registry.Has(MetaYear))
}

func TestMetaRegistry_HasMatchesLookup(t *testing.T) {
	registry := NewMetaRegistry(fixedClock, nil)

	for _, id := range append(MetaIdentifiers(), "year", "YEAR", "signature", "") {
		t.Run(id, func(t *testing.T) {
			_, ok := registry.Lookup(id, language.English)
			assert.Equal(t, ok, registry.Has(id))
		})
	}
}

func TestMetaRegistry_Localized(t *testing.T) {
	registry := NewMetaRegistry(fixedClock, MustNewMetaTranslator(nil))

	tests := []struct {
		locale string
		month  string
		abbr   string
		day    string
	}{
		{locale: "de-DE", month: "März", abbr: "Mär", day: "Dienstag"},
		{locale: "de", month: "März", abbr: "Mär", day: "Dienstag"},
		{locale: "fr-FR", month: "mars", abbr: "mar", day: "mardi"},
		{locale: "en-GB", month: "March", abbr: "Mar", day: "Tuesday"},
		{locale: "ja-JP", month: "March", abbr: "Mar", day: "Tuesday"},
	}

	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			tag := language.MustParse(tt.locale)
			month, _ := registry.Lookup(MetaMonthName, tag)
			abbr, _ := registry.Lookup(MetaMonthAbbr, tag)
			day, _ := registry.Lookup(MetaDayName, tag)
			assert.Equal(t, tt.month, month)
			assert.Equal(t, tt.abbr, abbr)
			assert.Equal(t, tt.day, day)
		})
	}
}

func TestMetaRegistry_NilTranslatorUsesEnglish(t *testing.T) {
	registry := NewMetaRegistry(fixedClock, nil)
	got, ok := registry.Lookup(MetaMonthName, language.German)
	require.True(t, ok)
	assert.Equal(t, "March", got)
}

func TestMetaRegistry_UsesUTC(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	registry := NewMetaRegistry(func() time.Time {
		return time.Date(2024, time.January, 1, 3, 0, 0, 0, tokyo)
	}, nil)

	year, _ := registry.Lookup(MetaYear, language.English)
	hour, _ := registry.Lookup(MetaHour, language.English)
	assert.Equal(t, "2023", year)
	assert.Equal(t, "18", hour)
}

func TestSundayWeek(t *testing.T) {
	tests := []struct {
		date     time.Time
		expected int
	}{
		{time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC), 1},    // Sunday
		{time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), 0},    // Monday before the first Sunday
		{time.Date(2024, time.January, 7, 0, 0, 0, 0, time.UTC), 1},    // first Sunday
		{time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC), 52}, // Tuesday
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, sundayWeek(tt.date), tt.date.Format(time.DateOnly))
	}
}

func TestTemplate_LocalizedMetaConstants(t *testing.T) {
	engine := newTestEngine(t)

	out, err := engine.Compile("locale: de-DE\n$DayName, $DayNum. $MonthName $Year", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Dienstag, 05. März 2024", out)

	out, err = engine.Compile("$DayName, $MonthName $DayNum", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Tuesday, March 05", out)
}
