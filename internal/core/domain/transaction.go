package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType identifies the kind of business document.
type TransactionType string

const (
	PurchaseOrder   TransactionType = "PURCHASE_ORDER"
	VendorBill      TransactionType = "VENDOR_BILL"
	SalesOrder      TransactionType = "SALES_ORDER"
	CustomerInvoice TransactionType = "CUSTOMER_INVOICE"
)

// IsPurchaseSide reports whether the document belongs to a vendor.
func (t TransactionType) IsPurchaseSide() bool {
	return t == PurchaseOrder || t == VendorBill
}

// IsPayable reports whether the document carries a payment obligation
// (bills and invoices, as opposed to orders).
func (t TransactionType) IsPayable() bool {
	return t == VendorBill || t == CustomerInvoice
}

// DerivedType returns the document type created from this one
// (PO turns into a vendor bill, SO into a customer invoice).
// ok is false for types that have no derived document.
func (t TransactionType) DerivedType() (TransactionType, bool) {
	switch t {
	case PurchaseOrder:
		return VendorBill, true
	case SalesOrder:
		return CustomerInvoice, true
	default:
		return "", false
	}
}

// TransactionStatus is the lifecycle state of a transaction.
// DRAFT -> CONFIRMED -> CANCELLED; CONFIRMED may also move straight to
// CANCELLED; CANCELLED is terminal.
type TransactionStatus string

const (
	TransactionDraft     TransactionStatus = "DRAFT"
	TransactionConfirmed TransactionStatus = "CONFIRMED"
	TransactionCancelled TransactionStatus = "CANCELLED"
)

// PaymentStatus is derived from paidAmount vs totalAmount, never set directly.
type PaymentStatus string

const (
	NotPaid       PaymentStatus = "NOT_PAID"
	PartiallyPaid PaymentStatus = "PARTIALLY_PAID"
	Paid          PaymentStatus = "PAID"
)

// DerivePaymentStatus computes the payment status for the given amounts.
func DerivePaymentStatus(paid, total decimal.Decimal) PaymentStatus {
	if paid.LessThanOrEqual(decimal.Zero) {
		return NotPaid
	}
	if paid.GreaterThanOrEqual(total) {
		return Paid
	}
	return PartiallyPaid
}

// ApplyPaymentAmount applies a signed allocation delta to a document's paid
// amount and recomputes the payment status. Posting sends a positive delta,
// voiding a negative one; the result never drops below zero.
func ApplyPaymentAmount(paid, delta, total decimal.Decimal) (decimal.Decimal, PaymentStatus) {
	newPaid := paid.Add(delta)
	if newPaid.IsNegative() {
		newPaid = decimal.Zero
	}
	return newPaid, DerivePaymentStatus(newPaid, total)
}

// Transaction is a purchase/sales document with its lines.
// SubTotal, TaxAmount, TotalAmount, PaidAmount and PaymentStatus are all
// derived values and never hand-edited.
type Transaction struct {
	TransactionID        string            `json:"transactionID"` // Primary Key (UUID)
	TransactionType      TransactionType   `json:"transactionType"`
	Status               TransactionStatus `json:"status"`
	ContactID            string            `json:"contactID"` // Vendor or customer depending on type
	TransactionDate      time.Time         `json:"transactionDate"`
	DueDate              *time.Time        `json:"dueDate"` // Bills and invoices only
	SubTotal             decimal.Decimal   `json:"subTotal"`
	TaxAmount            decimal.Decimal   `json:"taxAmount"`
	TotalAmount          decimal.Decimal   `json:"totalAmount"`
	PaidAmount           decimal.Decimal   `json:"paidAmount"`
	PaymentStatus        PaymentStatus     `json:"paymentStatus"`
	SourceTransactionID  *string           `json:"sourceTransactionID"`  // Parent document (e.g. the PO a bill came from)
	DerivedTransactionID *string           `json:"derivedTransactionID"` // Child document created from this one
	Lines                []TransactionLine `json:"lines,omitempty"`
	AuditFields
}

// Outstanding is the unpaid remainder of the document total.
func (t *Transaction) Outstanding() decimal.Decimal {
	return t.TotalAmount.Sub(t.PaidAmount)
}

// TransactionLine is a single product line owned by its transaction.
type TransactionLine struct {
	LineID              string          `json:"lineID"` // Primary Key (UUID)
	TransactionID       string          `json:"transactionID"`
	ProductID           string          `json:"productID"`
	Quantity            decimal.Decimal `json:"quantity"`  // > 0
	UnitPrice           decimal.Decimal `json:"unitPrice"` // >= 0
	GSTRate             decimal.Decimal `json:"gstRate"`   // Percent, >= 0
	AnalyticalAccountID *string         `json:"analyticalAccountID"`
	LineTotal           decimal.Decimal `json:"lineTotal"` // quantity * unitPrice * (1 + gstRate/100)
}

// NetAmount is the line amount before tax.
func (l TransactionLine) NetAmount() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// ComputeLineTotal is the tax-inclusive line amount.
func (l TransactionLine) ComputeLineTotal() decimal.Decimal {
	rate := decimal.NewFromInt(1).Add(l.GSTRate.Div(decimal.NewFromInt(100)))
	return l.Quantity.Mul(l.UnitPrice).Mul(rate)
}
