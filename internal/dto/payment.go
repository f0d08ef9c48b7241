package dto

import (
	"time"

	"github.com/anayki/biz_erp_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PaymentAllocationRequest applies part of the payment to one transaction.
type PaymentAllocationRequest struct {
	TransactionID string          `json:"transactionID" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
}

// CreatePaymentRequest creates a payment with its allocations. With
// PostImmediately set the payment is posted in the same call, which is the
// single-shot create-and-allocate contract the UI uses.
type CreatePaymentRequest struct {
	PaymentType     domain.PaymentType         `json:"paymentType" binding:"required,paymenttype"`
	ContactID       string                     `json:"contactID" binding:"required"`
	Amount          decimal.Decimal            `json:"amount" binding:"required"`
	PaymentDate     time.Time                  `json:"paymentDate" binding:"required"`
	ReferenceNumber string                     `json:"referenceNumber"`
	Notes           string                     `json:"notes"`
	Allocations     []PaymentAllocationRequest `json:"allocations" binding:"dive"`
	PostImmediately bool                       `json:"postImmediately"`
}

// ListPaymentsParams filters and paginates payment listings.
type ListPaymentsParams struct {
	PaymentType *domain.PaymentType  `form:"type"`
	Status      *domain.PaymentState `form:"status"`
	Limit       int                  `form:"limit"`
	NextToken   *string              `form:"nextToken"`
}

// PaymentAllocationResponse mirrors a persisted allocation.
type PaymentAllocationResponse struct {
	AllocationID    string          `json:"allocationID"`
	TransactionID   string          `json:"transactionID"`
	AllocatedAmount decimal.Decimal `json:"allocatedAmount"`
	IsReversed      bool            `json:"isReversed"`
}

// PaymentResponse mirrors a persisted payment.
type PaymentResponse struct {
	PaymentID       string                      `json:"paymentID"`
	PaymentType     domain.PaymentType          `json:"paymentType"`
	ContactID       string                      `json:"contactID"`
	Amount          decimal.Decimal             `json:"amount"`
	PaymentDate     time.Time                   `json:"paymentDate"`
	Status          domain.PaymentState         `json:"status"`
	ReferenceNumber string                      `json:"referenceNumber,omitempty"`
	Notes           string                      `json:"notes,omitempty"`
	Allocations     []PaymentAllocationResponse `json:"allocations,omitempty"`
	CreatedAt       time.Time                   `json:"createdAt"`
	CreatedBy       string                      `json:"createdBy"`
}

// ListPaymentsResponse is one page of payments.
type ListPaymentsResponse struct {
	Payments  []PaymentResponse `json:"payments"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToPaymentResponse converts a domain payment to its response DTO.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	resp := PaymentResponse{
		PaymentID:       p.PaymentID,
		PaymentType:     p.PaymentType,
		ContactID:       p.ContactID,
		Amount:          p.Amount,
		PaymentDate:     p.PaymentDate,
		Status:          p.Status,
		ReferenceNumber: p.ReferenceNumber,
		Notes:           p.Notes,
		CreatedAt:       p.CreatedAt,
		CreatedBy:       p.CreatedBy,
	}
	for _, a := range p.Allocations {
		resp.Allocations = append(resp.Allocations, PaymentAllocationResponse{
			AllocationID:    a.AllocationID,
			TransactionID:   a.TransactionID,
			AllocatedAmount: a.AllocatedAmount,
			IsReversed:      a.IsReversed,
		})
	}
	return resp
}

// ToPaymentResponses converts a slice of domain payments.
func ToPaymentResponses(payments []domain.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = ToPaymentResponse(&payments[i])
	}
	return responses
}
