// Package aggregates persists contract aggregates.
//
// The store composes the table-level repos from internal/data/repos and owns
// the transaction boundary for every aggregate write. Concurrent writers are
// detected with a version compare-and-set on the contract row.
package aggregates
