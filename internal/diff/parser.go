package diff

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/statematch/statematch/internal/ir"
)

// Structural patterns for the three recognized statement grammars.
// Table names follow SQL identifier rules (alphanumeric and underscore).
var (
	insertPattern = regexp.MustCompile(`^INSERT\s+INTO\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(([^)]*)\)\s*VALUES\s*\((.*)\)$`)
	updatePattern = regexp.MustCompile(`^UPDATE\s+([A-Za-z_][A-Za-z0-9_]*)\s+SET\s+(.+?)\s+WHERE\s+(.+)$`)
	deletePattern = regexp.MustCompile(`^DELETE\s+FROM\s+([A-Za-z_][A-Za-z0-9_]*)\s+WHERE\s+(.+)$`)

	// WHERE conditions are joined by the literal token AND.
	andSplitter = regexp.MustCompile(`\s+AND\s+`)
)

// ParseResult is the outcome of parsing one statement stream.
type ParseResult struct {
	// Mutations holds the parsed records in statement order. Order matters:
	// the validator's first-match search depends on it.
	Mutations []Mutation

	// Dropped counts non-empty statements that matched no grammar or
	// failed their structural pattern. Dropping is policy, not an error:
	// the stream is best-effort and unparseable statements are invisible
	// to matching.
	Dropped int
}

// Parse converts the external tool's textual statement stream into ordered
// mutation records. Statements are delimited by a semicolon; empty
// fragments are discarded.
func Parse(text string) ParseResult {
	var result ParseResult

	for _, stmt := range strings.Split(text, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}

		m, ok := parseStatement(stmt)
		if !ok {
			result.Dropped++
			continue
		}
		result.Mutations = append(result.Mutations, m)
	}

	return result
}

// parseStatement classifies one statement by its leading keyword and
// applies the per-kind structural pattern.
func parseStatement(stmt string) (Mutation, bool) {
	switch {
	case strings.HasPrefix(stmt, "INSERT INTO"):
		return parseInsert(stmt)
	case strings.HasPrefix(stmt, "UPDATE"):
		return parseUpdate(stmt)
	case strings.HasPrefix(stmt, "DELETE FROM"):
		return parseDelete(stmt)
	}
	return Mutation{}, false
}

// parseInsert handles INSERT INTO <table>(<col,...>) VALUES(<val,...>).
// Column names pair positionally with values; surplus entries on either
// side are ignored, zip-style.
func parseInsert(stmt string) (Mutation, bool) {
	groups := insertPattern.FindStringSubmatch(stmt)
	if groups == nil {
		return Mutation{}, false
	}

	cols := splitColumns(groups[2])
	vals := splitValues(groups[3])

	record := make(ir.Object, len(cols))
	for i, col := range cols {
		if i >= len(vals) {
			break
		}
		record[col] = parseValueToken(vals[i])
	}

	return Mutation{
		Table:  groups[1],
		Method: MethodInsert,
		Record: record,
	}, true
}

// parseUpdate handles UPDATE <table> SET <col=val,...> WHERE <cond AND ...>.
//
// The SET and WHERE clauses split naively on "," and "AND"; unlike the
// VALUES list they are not quote-aware, so a quoted string containing a
// comma or the token AND will misparse. The asymmetry matches what
// downstream consumers of the diff stream already depend on.
func parseUpdate(stmt string) (Mutation, bool) {
	groups := updatePattern.FindStringSubmatch(stmt)
	if groups == nil {
		return Mutation{}, false
	}

	record, ok := parseAssignments(strings.Split(groups[2], ","))
	if !ok {
		return Mutation{}, false
	}
	where, ok := parseAssignments(andSplitter.Split(groups[3], -1))
	if !ok {
		return Mutation{}, false
	}

	return Mutation{
		Table:  groups[1],
		Method: MethodUpdate,
		Where:  where,
		Record: record,
	}, true
}

// parseDelete handles DELETE FROM <table> WHERE <cond AND ...>.
func parseDelete(stmt string) (Mutation, bool) {
	groups := deletePattern.FindStringSubmatch(stmt)
	if groups == nil {
		return Mutation{}, false
	}

	where, ok := parseAssignments(andSplitter.Split(groups[2], -1))
	if !ok {
		return Mutation{}, false
	}

	return Mutation{
		Table:  groups[1],
		Method: MethodDelete,
		Where:  where,
	}, true
}

// parseAssignments turns "col=val" fragments into a field map.
// A fragment without "=" fails the whole statement's structural pattern.
func parseAssignments(pairs []string) (ir.Object, bool) {
	fields := make(ir.Object, len(pairs))
	for _, pair := range pairs {
		col, val, found := strings.Cut(pair, "=")
		if !found {
			return nil, false
		}
		fields[strings.TrimSpace(col)] = parseValueToken(val)
	}
	return fields, true
}

// splitColumns splits a column list on commas and trims each name.
func splitColumns(list string) []string {
	parts := strings.Split(list, ",")
	cols := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			cols = append(cols, p)
		}
	}
	return cols
}

// splitValues splits a VALUES list on commas, honoring single-quoted
// substrings so that a quoted string containing a comma stays intact.
func splitValues(list string) []string {
	var parts []string
	var cur strings.Builder
	inQuote := false

	for _, r := range list {
		switch {
		case r == '\'':
			inQuote = !inQuote
			cur.WriteRune(r)
		case r == ',' && !inQuote:
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	parts = append(parts, cur.String())
	return parts
}

// parseValueToken applies the value-token rules to a raw right-hand-side
// token: NULL, single-quoted string (quotes stripped, no escape
// processing), number, or the raw token as a string. Never fails.
func parseValueToken(token string) ir.Value {
	tok := strings.TrimSpace(token)

	if tok == "NULL" {
		return ir.Null{}
	}

	if len(tok) >= 2 && tok[0] == '\'' && tok[len(tok)-1] == '\'' {
		return ir.String(tok[1 : len(tok)-1])
	}

	if n, err := strconv.ParseFloat(tok, 64); err == nil {
		return ir.Number(n)
	}

	return ir.String(tok)
}
