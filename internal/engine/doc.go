// Package engine implements the matching core: the per-value matcher,
// the per-mutation matcher, and the validator that aggregates check
// results into a report.
//
// The whole engine is pure functions over immutable inputs. Validation
// performs no I/O, holds no state between runs, and is deterministic:
// the same spec and observed state always produce the same report.
// Any latency lives in the boundaries (file loading, the external diff
// tool), which hand the engine already-resolved data.
package engine
