package migrations

import "strings"

// splitStatements splits SQL content into individual statements by semicolon,
// dropping blank lines and -- comments first.
//
// The splitter is intentionally simple and does NOT handle semicolons inside
// string literals or block comments. Schema files here must follow two rules:
// no semicolons inside string literals, and -- style comments only.
func splitStatements(input string) []string {
	var filtered []string
	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		filtered = append(filtered, line)
	}
	joined := strings.Join(filtered, "\n")

	var stmts []string
	for _, part := range strings.Split(joined, ";") {
		stmt := strings.TrimSpace(part)
		if stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}
