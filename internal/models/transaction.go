package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType identifies the business document kind.
type TransactionType string

const (
	PurchaseOrder   TransactionType = "PURCHASE_ORDER"
	VendorBill      TransactionType = "VENDOR_BILL"
	SalesOrder      TransactionType = "SALES_ORDER"
	CustomerInvoice TransactionType = "CUSTOMER_INVOICE"
)

// TransactionStatus indicates the lifecycle state of a transaction row.
type TransactionStatus string

const (
	TransactionDraft     TransactionStatus = "DRAFT"
	TransactionConfirmed TransactionStatus = "CONFIRMED"
	TransactionCancelled TransactionStatus = "CANCELLED"
)

// PaymentStatus of a transaction row, derived from paid_amount.
type PaymentStatus string

const (
	NotPaid       PaymentStatus = "NOT_PAID"
	PartiallyPaid PaymentStatus = "PARTIALLY_PAID"
	Paid          PaymentStatus = "PAID"
)

// Transaction is a document header row.
type Transaction struct {
	TransactionID        string            `db:"transaction_id"`
	TransactionType      TransactionType   `db:"transaction_type"`
	Status               TransactionStatus `db:"status"`
	ContactID            string            `db:"contact_id"`
	TransactionDate      time.Time         `db:"transaction_date"`
	DueDate              *time.Time        `db:"due_date"` // Nullable
	SubTotal             decimal.Decimal   `db:"sub_total"`
	TaxAmount            decimal.Decimal   `db:"tax_amount"`
	TotalAmount          decimal.Decimal   `db:"total_amount"`
	PaidAmount           decimal.Decimal   `db:"paid_amount"`
	PaymentStatus        PaymentStatus     `db:"payment_status"`
	SourceTransactionID  *string           `db:"source_transaction_id"`  // Nullable
	DerivedTransactionID *string           `db:"derived_transaction_id"` // Nullable
	AuditFields
}

// TransactionLine is a product line row owned by its transaction.
type TransactionLine struct {
	LineID              string          `db:"line_id"`
	TransactionID       string          `db:"transaction_id"`
	ProductID           string          `db:"product_id"`
	Quantity            decimal.Decimal `db:"quantity"`
	UnitPrice           decimal.Decimal `db:"unit_price"`
	GSTRate             decimal.Decimal `db:"gst_rate"`
	AnalyticalAccountID *string         `db:"analytical_account_id"` // Nullable
	LineTotal           decimal.Decimal `db:"line_total"`
}
