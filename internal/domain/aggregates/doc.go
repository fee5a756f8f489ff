// Package aggregates defines the shared error taxonomy and persistence policy
// for aggregate writes.
//
// Nothing here depends on persistence or transport; data-layer code maps its
// failures onto these codes and the HTTP layer maps the codes onto statuses.
package aggregates
