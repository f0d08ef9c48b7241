package mapping

import (
	"github.com/anayki/biz_erp_app/internal/core/domain"
	"github.com/anayki/biz_erp_app/internal/models"
)

// ToModelTransaction converts a domain Transaction header to its model
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:        d.TransactionID,
		TransactionType:      models.TransactionType(d.TransactionType),
		Status:               models.TransactionStatus(d.Status),
		ContactID:            d.ContactID,
		TransactionDate:      d.TransactionDate,
		DueDate:              d.DueDate,
		SubTotal:             d.SubTotal,
		TaxAmount:            d.TaxAmount,
		TotalAmount:          d.TotalAmount,
		PaidAmount:           d.PaidAmount,
		PaymentStatus:        models.PaymentStatus(d.PaymentStatus),
		SourceTransactionID:  d.SourceTransactionID,
		DerivedTransactionID: d.DerivedTransactionID,
		AuditFields:          ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction header to its domain form.
// Lines are loaded and attached separately.
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:        m.TransactionID,
		TransactionType:      domain.TransactionType(m.TransactionType),
		Status:               domain.TransactionStatus(m.Status),
		ContactID:            m.ContactID,
		TransactionDate:      m.TransactionDate,
		DueDate:              m.DueDate,
		SubTotal:             m.SubTotal,
		TaxAmount:            m.TaxAmount,
		TotalAmount:          m.TotalAmount,
		PaidAmount:           m.PaidAmount,
		PaymentStatus:        domain.PaymentStatus(m.PaymentStatus),
		SourceTransactionID:  m.SourceTransactionID,
		DerivedTransactionID: m.DerivedTransactionID,
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}

// ToModelTransactionLine converts a domain line to its model
func ToModelTransactionLine(d domain.TransactionLine) models.TransactionLine {
	return models.TransactionLine{
		LineID:              d.LineID,
		TransactionID:       d.TransactionID,
		ProductID:           d.ProductID,
		Quantity:            d.Quantity,
		UnitPrice:           d.UnitPrice,
		GSTRate:             d.GSTRate,
		AnalyticalAccountID: d.AnalyticalAccountID,
		LineTotal:           d.LineTotal,
	}
}

// ToDomainTransactionLine converts a model line to its domain form
func ToDomainTransactionLine(m models.TransactionLine) domain.TransactionLine {
	return domain.TransactionLine{
		LineID:              m.LineID,
		TransactionID:       m.TransactionID,
		ProductID:           m.ProductID,
		Quantity:            m.Quantity,
		UnitPrice:           m.UnitPrice,
		GSTRate:             m.GSTRate,
		AnalyticalAccountID: m.AnalyticalAccountID,
		LineTotal:           m.LineTotal,
	}
}

// ToDomainTransactionLineSlice converts a slice of model lines
func ToDomainTransactionLineSlice(ms []models.TransactionLine) []domain.TransactionLine {
	ds := make([]domain.TransactionLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransactionLine(m)
	}
	return ds
}
