package providers

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ActionLabel turns an API action name such as "pushed_to" into the
// display label "Pushed To".
func ActionLabel(name string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}

// MatchesAction reports whether label contains filter, ignoring case.
// An empty filter matches everything.
func MatchesAction(label, filter string) bool {
	return filter == "" || strings.Contains(strings.ToLower(label), strings.ToLower(filter))
}
