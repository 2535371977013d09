// Package verifier defines the declarative expectation format: the
// ValueSpec tagged union, per-mutation verifiers, and the enclosing spec.
//
// Two wire shapes are accepted. The canonical shape wraps mutations under
// a "state" envelope and may carry scalar expectations for return_value,
// final_url, and agent_error; the legacy shape is a bare mutation list.
// Both decode through the same path, with the legacy shape simply leaving
// the scalar fields absent.
package verifier
