package services

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrEmptyStatement      = errors.New("statement is empty")
	ErrMultipleStatements  = errors.New("only one statement may be sent at a time")
	ErrUnguardedDelete     = errors.New("DELETE needs a WHERE clause")
	ErrStatementNotAllowed = errors.New("statement is not allowed")

	// Leftmost match wins, so quotes inside comments and comment markers
	// inside literals are both handled.
	literalsAndComments = regexp.MustCompile(`'(?:[^']|'')*'|"(?:[^"]|"")*"|--[^\n]*|/\*[\s\S]*?\*/`)
	whitespace          = regexp.MustCompile(`\s+`)
	deleteFrom          = regexp.MustCompile(`\bDELETE\s+FROM\b`)
	where               = regexp.MustCompile(`\bWHERE\b`)
)

// blocked statements touch more than the catalog and programmer rows.
var blocked = []*regexp.Regexp{
	regexp.MustCompile(`\bDROP\s+DATABASE\b`),
	regexp.MustCompile(`\bDROP\s+SCHEMA\b`),
	regexp.MustCompile(`\bDROP\s+TABLE\b`),
	regexp.MustCompile(`\bTRUNCATE\b`),
	regexp.MustCompile(`\bALTER\s+DATABASE\b`),
	regexp.MustCompile(`\bCREATE\s+DATABASE\b`),
	regexp.MustCompile(`\bCREATE\s+SCHEMA\b`),
}

// ValidateStatement rejects literal SQL that the sql command should not
// run: empty text, more than one statement, schema-level DDL and any
// DELETE, including one nested in a WITH clause, without its own WHERE.
// Quoted literals and identifiers are ignored by every check. Values must
// travel as positional arguments, so the text itself is never rewritten.
func ValidateStatement(statement string) error {
	normalized := literalsAndComments.ReplaceAllStringFunc(statement, func(m string) string {
		switch m[0] {
		case '\'':
			return "''"
		case '"':
			return `""`
		default:
			return " "
		}
	})
	normalized = strings.ToUpper(whitespace.ReplaceAllString(normalized, " "))
	normalized = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(normalized), ";"))

	if normalized == "" {
		return ErrEmptyStatement
	}
	if strings.Contains(normalized, ";") {
		return ErrMultipleStatements
	}
	for _, re := range blocked {
		if kw := re.FindString(normalized); kw != "" {
			return errors.Wrap(ErrStatementNotAllowed, kw)
		}
	}
	for _, loc := range deleteFrom.FindAllStringIndex(normalized, -1) {
		if !where.MatchString(sameLevel(normalized[loc[1]:])) {
			return ErrUnguardedDelete
		}
	}
	return nil
}

// sameLevel returns s up to the parenthesis that closes its enclosing
// group, with nested parenthesised text blanked out.
func sameLevel(s string) string {
	var b strings.Builder
	depth := 0
	for _, r := range s {
		switch {
		case r == '(':
			depth++
			b.WriteRune(' ')
		case r == ')':
			if depth == 0 {
				return b.String()
			}
			depth--
			b.WriteRune(' ')
		case depth > 0:
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
