package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentType is the direction of money movement.
type PaymentType string

const (
	PaymentSend    PaymentType = "SEND"    // Money out, settles vendor bills
	PaymentReceive PaymentType = "RECEIVE" // Money in, settles customer invoices
)

// PaymentState is the lifecycle state of a payment.
// DRAFT -> POSTED -> VOIDED; DRAFT payments may be deleted, POSTED only voided.
type PaymentState string

const (
	PaymentDraft  PaymentState = "DRAFT"
	PaymentPosted PaymentState = "POSTED"
	PaymentVoided PaymentState = "VOIDED"
)

// Payment is a customer/vendor payment distributed across one or more
// transactions via allocations.
type Payment struct {
	PaymentID       string              `json:"paymentID"` // Primary Key (UUID)
	PaymentType     PaymentType         `json:"paymentType"`
	ContactID       string              `json:"contactID"`
	Amount          decimal.Decimal     `json:"amount"`
	PaymentDate     time.Time           `json:"paymentDate"`
	Status          PaymentState        `json:"status"`
	ReferenceNumber string              `json:"referenceNumber"` // Nullable, e.g. UTR / cheque number
	Notes           string              `json:"notes"`           // Nullable
	Allocations     []PaymentAllocation `json:"allocations,omitempty"`
	AuditFields
}

// AllocatedTotal sums the non-reversed allocation amounts.
func (p *Payment) AllocatedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, a := range p.Allocations {
		if !a.IsReversed {
			total = total.Add(a.AllocatedAmount)
		}
	}
	return total
}

// SettlesType returns the document type this payment direction settles.
func (t PaymentType) SettlesType() TransactionType {
	if t == PaymentSend {
		return VendorBill
	}
	return CustomerInvoice
}

// PaymentAllocation applies part of a payment against one transaction.
// Allocations are marked reversed when the payment is voided, never removed,
// so the ledger stays auditable.
type PaymentAllocation struct {
	AllocationID    string          `json:"allocationID"` // Primary Key (UUID)
	PaymentID       string          `json:"paymentID"`
	TransactionID   string          `json:"transactionID"`
	AllocatedAmount decimal.Decimal `json:"allocatedAmount"` // > 0
	IsReversed      bool            `json:"isReversed"`
	// PaymentState mirrors the owning payment's state on reads that join
	// payments. Allocations of DRAFT payments are pending: they have not
	// touched any paid amount yet.
	PaymentState PaymentState `json:"paymentState,omitempty"`
	AuditFields
}

// BlocksCancellation reports whether this allocation pins its target
// transaction. Only a non-reversed allocation whose payment has moved money
// blocks; DRAFT payment allocations are pending and never do.
func (a *PaymentAllocation) BlocksCancellation() bool {
	return !a.IsReversed && a.PaymentState != PaymentDraft
}
