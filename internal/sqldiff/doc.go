// Package sqldiff shells out to the external sqldiff tool and turns its
// output into parsed mutations.
//
// Computing the diff between two SQLite files is left to the tool; this
// package owns the boundary around it: checking that both inputs are
// readable databases before execing, capturing the tool's output, and
// feeding it through the statement parser.
package sqldiff
