// Package ir provides the loosely-typed value representation shared by
// diff records and verifier literals.
//
// This package contains value types only. All other internal packages
// import ir; ir imports nothing internal. This keeps the value layer
// foundational with no circular dependencies.
//
// Values mirror the JSON scalar domain that SQL diff statements and
// verifier specs live in: null, string, number, bool, plus array and
// object for scalar fields that carry structured JSON. Equality is
// type-significant: Number(1) never equals String("1").
package ir
