// Package authz implements the row-level ownership policy shared by every
// mutating operation: reads are unrestricted, inserts must set the owner to
// the acting principal, and updates/deletes require the acting principal to
// match the existing owner.
package authz

import "atrium/internal/models"

// Op is a row operation subject to the ownership policy.
type Op string

const (
	OpRead   Op = "read"
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Check evaluates the policy for one row. actingID is the authenticated
// principal; ownerID is the row's owning profile id (for inserts, the owner
// the row is about to be created with). Returns nil when allowed, an
// AppError otherwise.
func Check(op Op, actingID, ownerID uint) error {
	if op == OpRead {
		return nil
	}
	if actingID == 0 {
		return models.NewUnauthenticatedError("Authentication required")
	}
	if actingID != ownerID {
		switch op {
		case OpInsert:
			return models.NewForbiddenError("Rows must be created with yourself as owner")
		default:
			return models.NewForbiddenError("You can only modify your own content")
		}
	}
	return nil
}
