// Package config holds process-wide switches read by String() methods that
// need to produce deterministic output in tests and tooling.
package config

// NormalizeNames collapses the display name of an anonymous metavariable
// (otherwise the first characters of its uuid) to m? when printing terms.
// Bound-variable names are printed as they are. Set by tests so output
// doesn't depend on allocation order.
var NormalizeNames = false
