// Package settlement converts deferred (on-hold or credit) transactions
// into paid ones, linked by reference number, with an exactly-once
// guarantee enforced through a create-if-absent repository contract.
package settlement

import (
	"time"

	"partstock/internal/core/id"
	"partstock/internal/core/types"
)

// Type enumerates the transaction kinds the settlement flow touches.
type Type string

const (
	TypeOnHold     Type = "ON_HOLD"
	TypeCredit     Type = "CREDIT"
	TypeOnHoldPaid Type = "ON_HOLD_PAID"
	TypeCreditPaid Type = "CREDIT_PAID"
)

// IsDeferred reports whether the type is still awaiting settlement.
func (t Type) IsDeferred() bool {
	return t == TypeOnHold || t == TypeCredit
}

// SettledType returns the paid counterpart of a deferred type.
func (t Type) SettledType() Type {
	switch t {
	case TypeOnHold:
		return TypeOnHoldPaid
	case TypeCredit:
		return TypeCreditPaid
	default:
		return t
	}
}

// Transaction is the minimal transaction view the settlement flow
// needs; the point-of-sale system owns the full record.
type Transaction struct {
	ID              id.ID       `db:"id" json:"id"`
	BranchID        string      `db:"branch_id" json:"branchId"`
	ReferenceNumber string      `db:"reference_number" json:"referenceNumber"`
	Type            Type        `db:"type" json:"type"`
	Total           types.Cents `db:"total" json:"total"`

	// OriginalReferenceNumber links a settlement back to the deferred
	// transaction it pays off. Exactly one settlement may exist per
	// original reference.
	OriginalReferenceNumber *string `db:"original_reference_number" json:"originalReferenceNumber,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
