// Package harness runs fixture-driven validation tests.
//
// A fixture is a YAML file pairing a verifier spec with an observed
// outcome (either a ready-made observed document or raw diff SQL to
// parse) and the expected report counts. Fixtures decode strictly, so a
// typo in a field name fails loudly instead of silently weakening the
// test. Golden helpers snapshot the canonical report JSON with goldie.
package harness
