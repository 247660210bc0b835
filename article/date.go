package article

import (
	"strings"
	"time"

	"golang.org/x/text/language"
)

// dateLayouts holds the numeric date layout of each supported UI locale.
var dateLayouts = []struct {
	tag    language.Tag
	layout string
}{
	{language.AmericanEnglish, "1/2/2006, "},
	{language.SimplifiedChinese, "2006/1/2 "},
	{language.French, "02/01/2006 "},
	{language.German, "2.1.2006, "},
	{language.Spanish, "2/1/2006, "},
	{language.Turkish, "02.01.2006 "},
}

var dateMatcher = func() language.Matcher {
	tags := make([]language.Tag, len(dateLayouts))
	for i, d := range dateLayouts {
		tags[i] = d.tag
	}
	return language.NewMatcher(tags)
}()

// FormatDate renders t as a numeric date and time for locale. Chinese
// locales ("zh", "zh-CN", ...) use a 24-hour clock, every other locale a
// 12-hour one. Unknown locales fall back to American English.
func FormatDate(t time.Time, locale string) string {
	layout := dateLayouts[0].layout
	if tag, err := language.Parse(locale); err == nil {
		_, idx, conf := dateMatcher.Match(tag)
		if conf != language.No {
			layout = dateLayouts[idx].layout
		}
	}
	if Uses24Hour(locale) {
		layout += "15:04:05"
	} else {
		layout += "3:04:05 PM"
	}
	return t.Format(layout)
}

// Uses24Hour reports whether locale gets a 24-hour clock.
func Uses24Hour(locale string) bool {
	return strings.HasPrefix(locale, "zh")
}
