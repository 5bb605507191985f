package common

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// InterfaceTypeStr is the spelling of the empty interface in generated code.
const InterfaceTypeStr = "any"

// Exported upper-cases the first letter of an identifier and leaves the rest intact:
// "userRead" -> "UserRead", "ID" -> "ID".
func Exported(s string) string {
	if s == "" {
		return ""
	}

	// A Caser keeps state between calls, so one is built per use.
	return cases.Title(language.Und, cases.NoLower).String(s)
}
