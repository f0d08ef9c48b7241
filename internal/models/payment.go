package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentType is the direction of money movement.
type PaymentType string

const (
	PaymentSend    PaymentType = "SEND"
	PaymentReceive PaymentType = "RECEIVE"
)

// PaymentState indicates the lifecycle state of a payment row.
type PaymentState string

const (
	PaymentDraft  PaymentState = "DRAFT"
	PaymentPosted PaymentState = "POSTED"
	PaymentVoided PaymentState = "VOIDED"
)

// Payment is a payment header row.
type Payment struct {
	PaymentID       string          `db:"payment_id"`
	PaymentType     PaymentType     `db:"payment_type"`
	ContactID       string          `db:"contact_id"`
	Amount          decimal.Decimal `db:"amount"`
	PaymentDate     time.Time       `db:"payment_date"`
	Status          PaymentState    `db:"status"`
	ReferenceNumber string          `db:"reference_number"` // Nullable
	Notes           string          `db:"notes"`            // Nullable
	AuditFields
}

// PaymentAllocation applies part of a payment to one transaction. Rows are
// flagged reversed on void, never deleted.
type PaymentAllocation struct {
	AllocationID    string          `db:"allocation_id"`
	PaymentID       string          `db:"payment_id"`
	TransactionID   string          `db:"transaction_id"`
	AllocatedAmount decimal.Decimal `db:"allocated_amount"`
	IsReversed      bool            `db:"is_reversed"`
	AuditFields
}
