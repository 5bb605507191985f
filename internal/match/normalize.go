package match

import (
	"strings"
	"unicode"

	"mapper-generator/internal/common"
)

// NormalizeIdent folds an identifier for fuzzy comparison: CamelCase is
// tokenized, separators are dropped and everything is lower-cased.
// "OrderID", "order_id" and "orderId" all normalize to "orderid".
func NormalizeIdent(s string) string {
	return strings.ToLower(strings.Join(tokenizeCamelCase(s), ""))
}

// LowerCamel turns an identifier into the canonical property spelling used
// across schemas: the leading token is lower-cased, later tokens keep their
// case with an upper-case first letter.
//
//   - "ID" -> "id"
//   - "UserID" -> "userID"
//   - "URLPath" -> "urlPath"
//   - "full_name" -> "fullName"
func LowerCamel(s string) string {
	tokens := tokenizeCamelCase(s)
	if len(tokens) == 0 {
		return ""
	}

	var sb strings.Builder

	sb.WriteString(strings.ToLower(tokens[0]))

	for _, t := range tokens[1:] {
		sb.WriteString(common.Exported(t))
	}

	return sb.String()
}

// SnakeCase joins the lower-cased tokens of s with underscores:
// "UserReadMapper" -> "user_read_mapper".
func SnakeCase(s string) string {
	return strings.Join(TokenizeIdent(s), "_")
}

// TokenizeIdent splits an identifier into normalized lowercase tokens.
func TokenizeIdent(s string) []string {
	tokens := tokenizeCamelCase(s)
	for i, t := range tokens {
		tokens[i] = strings.ToLower(t)
	}

	return tokens
}

// tokenizeCamelCase splits a CamelCase or camelCase string into tokens.
// Examples:
//   - "OrderID" -> ["Order", "ID"]
//   - "customerName" -> ["customer", "Name"]
//   - "XMLParser" -> ["XML", "Parser"]
//   - "getHTTPResponse" -> ["get", "HTTP", "Response"]
func tokenizeCamelCase(s string) []string {
	if s == "" {
		return nil
	}

	var (
		tokens  []string
		current strings.Builder
	)

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()

			continue
		}

		if i > 0 && shouldStartNewToken(runes, i) {
			flush()
		}

		current.WriteRune(r)
	}

	flush()

	return tokens
}

// isSeparator returns true if the rune is a common separator.
func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}

// shouldStartNewToken determines if a new token should start at position i.
func shouldStartNewToken(runes []rune, i int) bool {
	r := runes[i]
	prev := runes[i-1]

	if !unicode.IsUpper(r) || isSeparator(prev) {
		return false
	}

	// "orderID": split before 'I'
	if !unicode.IsUpper(prev) {
		return true
	}

	// "XMLParser": split before 'P'
	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
