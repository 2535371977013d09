// Package diff defines the structured mutation records observed against a
// database and the best-effort parser that extracts them from the textual
// statement stream produced by the external diffing tool.
//
// The parser is deliberately lenient: a statement that does not match one
// of the three recognized grammars contributes no record and is only
// counted, never reported as an error. Callers that care can inspect
// ParseResult.Dropped.
package diff
