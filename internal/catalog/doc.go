// Package catalog holds the static reference data of the editor: the
// supported languages with the execution-service runtime each one maps to,
// and the selectable editor themes.
//
// The data is read-only. Lookups return copies, so callers cannot mutate the
// registry.
package catalog
