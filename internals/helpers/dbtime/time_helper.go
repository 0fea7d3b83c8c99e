// file: internals/helpers/dbtime/time_helper.go
package dbtime

import (
	"strings"
	"time"
)

// WeekdayNames in the order time.Weekday defines them (Sunday first).
var WeekdayNames = []string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

var spanishWeekdays = map[string]string{
	"Monday":    "Lunes",
	"Tuesday":   "Martes",
	"Wednesday": "Miércoles",
	"Thursday":  "Jueves",
	"Friday":    "Viernes",
	"Saturday":  "Sábado",
	"Sunday":    "Domingo",
}

// IsWeekdayName reports whether s is one of the English weekday names (case-sensitive).
func IsWeekdayName(s string) bool {
	_, ok := spanishWeekdays[s]
	return ok
}

// LocalizeWeekday maps "Monday" to "Lunes"; unknown names are returned as-is.
func LocalizeWeekday(name string) string {
	if es, ok := spanishWeekdays[name]; ok {
		return es
	}
	return name
}

func LocalizeWeekdays(names []string) string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, LocalizeWeekday(n))
	}
	return strings.Join(out, ", ")
}

// SpanishDayName of a date, e.g. "Martes".
func SpanishDayName(d Date) string { return LocalizeWeekday(d.WeekdayName()) }

// Today is the current calendar day in loc. Only the HTTP layer reads the clock;
// services receive the result as a parameter.
func Today(loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	return DateOf(time.Now().In(loc))
}
