package mapping

import (
	"github.com/anayki/biz_erp_app/internal/core/domain"
	"github.com/anayki/biz_erp_app/internal/models"
)

// ToModelPayment converts a domain Payment header to its model
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:       d.PaymentID,
		PaymentType:     models.PaymentType(d.PaymentType),
		ContactID:       d.ContactID,
		Amount:          d.Amount,
		PaymentDate:     d.PaymentDate,
		Status:          models.PaymentState(d.Status),
		ReferenceNumber: d.ReferenceNumber,
		Notes:           d.Notes,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayment converts a model Payment header to its domain form.
// Allocations are loaded and attached separately.
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:       m.PaymentID,
		PaymentType:     domain.PaymentType(m.PaymentType),
		ContactID:       m.ContactID,
		Amount:          m.Amount,
		PaymentDate:     m.PaymentDate,
		Status:          domain.PaymentState(m.Status),
		ReferenceNumber: m.ReferenceNumber,
		Notes:           m.Notes,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPaymentSlice converts a slice of model Payments
func ToDomainPaymentSlice(ms []models.Payment) []domain.Payment {
	ds := make([]domain.Payment, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPayment(m)
	}
	return ds
}

// ToModelPaymentAllocation converts a domain allocation to its model
func ToModelPaymentAllocation(d domain.PaymentAllocation) models.PaymentAllocation {
	return models.PaymentAllocation{
		AllocationID:    d.AllocationID,
		PaymentID:       d.PaymentID,
		TransactionID:   d.TransactionID,
		AllocatedAmount: d.AllocatedAmount,
		IsReversed:      d.IsReversed,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPaymentAllocation converts a model allocation to its domain form
func ToDomainPaymentAllocation(m models.PaymentAllocation) domain.PaymentAllocation {
	return domain.PaymentAllocation{
		AllocationID:    m.AllocationID,
		PaymentID:       m.PaymentID,
		TransactionID:   m.TransactionID,
		AllocatedAmount: m.AllocatedAmount,
		IsReversed:      m.IsReversed,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPaymentAllocationSlice converts a slice of model allocations
func ToDomainPaymentAllocationSlice(ms []models.PaymentAllocation) []domain.PaymentAllocation {
	ds := make([]domain.PaymentAllocation, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPaymentAllocation(m)
	}
	return ds
}
