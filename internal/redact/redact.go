// Package redact strips sensitive fragments from error messages before they
// are logged: connection-string credentials for PostgreSQL and Redis,
// password/secret parameters, SQL statements, file paths and stack traces.
//
// Client responses never contain raw error text; redaction only protects logs.
package redact

import (
	"log/slog"
	"regexp"
)

// Placeholders substituted for each kind of sensitive fragment.
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedSQLPlaceholder        = "[REDACTED_SQL]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedStackPlaceholder      = "[STACK_TRACE_REDACTED]"
)

type rule struct {
	pattern     *regexp.Regexp
	placeholder string
}

// rules are applied in order; stack traces go first so their file paths are
// swallowed whole.
var rules = []rule{
	{
		regexp.MustCompile(`(?:goroutine \d+|panic:)[\s\S]*?(\n\t.*)+`),
		RedactedStackPlaceholder,
	},
	{
		// userinfo of postgres://, redis:// and rediss:// URLs
		regexp.MustCompile(`(?i)\b(?:postgres|postgresql|redis|rediss)://[^@\s/]+@`),
		RedactedCredentialPlaceholder,
	},
	{
		regexp.MustCompile(`(?i)\b(?:password|passwd|pwd)\s*[=:]\s*['"]?[^'"&\s]+`),
		RedactedCredentialPlaceholder,
	},
	{
		regexp.MustCompile(`(?i)\b(?:secret|token|api[_-]?key)\s*[=:]\s*['"]?[^'"&\s]+`),
		RedactedKeyPlaceholder,
	},
	{
		// statements are matched case-sensitively so prose such as
		// "failed to update account" is left alone
		regexp.MustCompile(`\b(?:SELECT|INSERT INTO|UPDATE|DELETE FROM)\s[^;]*`),
		RedactedSQLPlaceholder,
	},
	{
		regexp.MustCompile(`(/[\w.-]+){2,}`),
		RedactedPathPlaceholder,
	},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.placeholder)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}

// Attr returns the redacted error as an "error" log attribute.
func Attr(err error) slog.Attr {
	return slog.String("error", Error(err))
}
