// Package records holds the gorm table models for contracts and their owned rows.
package records
