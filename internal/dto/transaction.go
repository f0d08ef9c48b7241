package dto

import (
	"time"

	"github.com/anayki/biz_erp_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionLineRequest is one product line of a create/update request.
// AnalyticalAccountID may be left nil to let the auto-analytical resolver
// pick one.
type TransactionLineRequest struct {
	ProductID           string          `json:"productID" binding:"required"`
	Quantity            decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice           decimal.Decimal `json:"unitPrice"`
	GSTRate             decimal.Decimal `json:"gstRate"`
	AnalyticalAccountID *string         `json:"analyticalAccountID"`
}

// CreateTransactionRequest creates a DRAFT transaction.
type CreateTransactionRequest struct {
	TransactionType domain.TransactionType   `json:"transactionType" binding:"required,transactiontype"`
	ContactID       string                   `json:"contactID" binding:"required"`
	TransactionDate time.Time                `json:"transactionDate" binding:"required"`
	DueDate         *time.Time               `json:"dueDate"`
	Lines           []TransactionLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// UpdateTransactionRequest replaces the header and lines of a DRAFT
// transaction. The document type is fixed at creation.
type UpdateTransactionRequest struct {
	ContactID       string                   `json:"contactID" binding:"required"`
	TransactionDate time.Time                `json:"transactionDate" binding:"required"`
	DueDate         *time.Time               `json:"dueDate"`
	Lines           []TransactionLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ListTransactionsParams filters and paginates transaction listings.
type ListTransactionsParams struct {
	TransactionType *domain.TransactionType `form:"type"`
	Status          *domain.TransactionStatus `form:"status"`
	ContactID       *string                 `form:"contactID"`
	Limit           int                     `form:"limit"`
	NextToken       *string                 `form:"nextToken"`
}

// TransactionLineResponse mirrors a persisted line.
type TransactionLineResponse struct {
	LineID              string          `json:"lineID"`
	ProductID           string          `json:"productID"`
	Quantity            decimal.Decimal `json:"quantity"`
	UnitPrice           decimal.Decimal `json:"unitPrice"`
	GSTRate             decimal.Decimal `json:"gstRate"`
	AnalyticalAccountID *string         `json:"analyticalAccountID"`
	LineTotal           decimal.Decimal `json:"lineTotal"`
}

// TransactionResponse mirrors a persisted transaction.
type TransactionResponse struct {
	TransactionID        string                    `json:"transactionID"`
	TransactionType      domain.TransactionType    `json:"transactionType"`
	Status               domain.TransactionStatus  `json:"status"`
	ContactID            string                    `json:"contactID"`
	TransactionDate      time.Time                 `json:"transactionDate"`
	DueDate              *time.Time                `json:"dueDate,omitempty"`
	SubTotal             decimal.Decimal           `json:"subTotal"`
	TaxAmount            decimal.Decimal           `json:"taxAmount"`
	TotalAmount          decimal.Decimal           `json:"totalAmount"`
	PaidAmount           decimal.Decimal           `json:"paidAmount"`
	PaymentStatus        domain.PaymentStatus      `json:"paymentStatus"`
	SourceTransactionID  *string                   `json:"sourceTransactionID,omitempty"`
	DerivedTransactionID *string                   `json:"derivedTransactionID,omitempty"`
	Lines                []TransactionLineResponse `json:"lines,omitempty"`
	CreatedAt            time.Time                 `json:"createdAt"`
	CreatedBy            string                    `json:"createdBy"`
}

// BudgetWarningResponse is one non-blocking overage warning.
type BudgetWarningResponse struct {
	LineID              string          `json:"lineID"`
	AnalyticalAccountID string          `json:"analyticalAccountID"`
	Year                int             `json:"year"`
	Month               *int            `json:"month,omitempty"`
	BudgetedAmount      decimal.Decimal `json:"budgetedAmount"`
	Remaining           decimal.Decimal `json:"remaining"`
	Message             string          `json:"message"`
}

// ConfirmTransactionResponse returns the confirmed document together with
// any overage warnings for the caller to act on.
type ConfirmTransactionResponse struct {
	Transaction TransactionResponse     `json:"transaction"`
	Warnings    []BudgetWarningResponse `json:"warnings"`
}

// ListTransactionsResponse is one page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionLineResponse converts a domain line to its response DTO.
func ToTransactionLineResponse(l domain.TransactionLine) TransactionLineResponse {
	return TransactionLineResponse{
		LineID:              l.LineID,
		ProductID:           l.ProductID,
		Quantity:            l.Quantity,
		UnitPrice:           l.UnitPrice,
		GSTRate:             l.GSTRate,
		AnalyticalAccountID: l.AnalyticalAccountID,
		LineTotal:           l.LineTotal,
	}
}

// ToTransactionResponse converts a domain transaction to its response DTO.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		TransactionID:        t.TransactionID,
		TransactionType:      t.TransactionType,
		Status:               t.Status,
		ContactID:            t.ContactID,
		TransactionDate:      t.TransactionDate,
		DueDate:              t.DueDate,
		SubTotal:             t.SubTotal,
		TaxAmount:            t.TaxAmount,
		TotalAmount:          t.TotalAmount,
		PaidAmount:           t.PaidAmount,
		PaymentStatus:        t.PaymentStatus,
		SourceTransactionID:  t.SourceTransactionID,
		DerivedTransactionID: t.DerivedTransactionID,
		CreatedAt:            t.CreatedAt,
		CreatedBy:            t.CreatedBy,
	}
	for _, l := range t.Lines {
		resp.Lines = append(resp.Lines, ToTransactionLineResponse(l))
	}
	return resp
}

// ToTransactionResponses converts a slice of domain transactions.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}

// ToBudgetWarningResponses converts domain overage warnings.
func ToBudgetWarningResponses(warnings []domain.OverageWarning) []BudgetWarningResponse {
	responses := make([]BudgetWarningResponse, len(warnings))
	for i, w := range warnings {
		responses[i] = BudgetWarningResponse{
			LineID:              w.LineID,
			AnalyticalAccountID: w.AnalyticalAccountID,
			Year:                w.Year,
			Month:               w.Month,
			BudgetedAmount:      w.BudgetedAmount,
			Remaining:           w.Remaining,
			Message:             w.Message,
		}
	}
	return responses
}
