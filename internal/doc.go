// Package internal provides the linting engine behind dlint.
//
// The engine reads resolved unit documents (see package syntax), applies
// the enabled lint rules to each unit in a single traversal and turns the
// diagnostics they report into issues carrying positions, severity and the
// note configured for the rule.
//
// Key components:
//
// Engine: coordinates the run. It owns the rule set, the ignored rules and
// paths, the optional result cache and the watch mode.
//
// LintRule: the contract every rule implements. A rule subscribes node
// callbacks to a syntax.Registry and reports through a types.Reporter.
//
// Cache: persists the issues of a unit keyed by the hashes of the unit
// document and its source.
//
// Suppression comments (`// ignore:` and `// ignore_for_file:`) are applied
// after the traversal by package nolint.
package internal
