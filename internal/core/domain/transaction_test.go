package domain_test

import (
	"testing"

	"github.com/anayki/biz_erp_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransactionLine_ComputeLineTotal(t *testing.T) {
	tests := []struct {
		name string
		line domain.TransactionLine
		want string
	}{
		{
			name: "no tax",
			line: domain.TransactionLine{
				Quantity:  decimal.NewFromInt(3),
				UnitPrice: decimal.NewFromInt(100),
				GSTRate:   decimal.Zero,
			},
			want: "300",
		},
		{
			name: "18 percent gst",
			line: domain.TransactionLine{
				Quantity:  decimal.NewFromInt(2),
				UnitPrice: decimal.NewFromInt(500),
				GSTRate:   decimal.NewFromInt(18),
			},
			want: "1180",
		},
		{
			name: "fractional quantity",
			line: domain.TransactionLine{
				Quantity:  decimal.RequireFromString("1.5"),
				UnitPrice: decimal.NewFromInt(200),
				GSTRate:   decimal.NewFromInt(5),
			},
			want: "315",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.line.ComputeLineTotal()
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got.String(), tt.want)
		})
	}
}

func TestDerivePaymentStatus(t *testing.T) {
	total := decimal.NewFromInt(10000)

	tests := []struct {
		name string
		paid decimal.Decimal
		want domain.PaymentStatus
	}{
		{"nothing paid", decimal.Zero, domain.NotPaid},
		{"partially paid", decimal.NewFromInt(4000), domain.PartiallyPaid},
		{"exactly paid", decimal.NewFromInt(10000), domain.Paid},
		{"overpaid still PAID", decimal.NewFromInt(10001), domain.Paid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.DerivePaymentStatus(tt.paid, total))
		})
	}
}

func TestApplyPaymentAmount_PostAndVoidSequence(t *testing.T) {
	total := decimal.NewFromInt(10000)

	// Two payments posted against a 10,000 invoice, then the second voided.
	paid, status := domain.ApplyPaymentAmount(decimal.Zero, decimal.NewFromInt(4000), total)
	assert.True(t, paid.Equal(decimal.NewFromInt(4000)))
	assert.Equal(t, domain.PartiallyPaid, status)

	paid, status = domain.ApplyPaymentAmount(paid, decimal.NewFromInt(6000), total)
	assert.True(t, paid.Equal(decimal.NewFromInt(10000)))
	assert.Equal(t, domain.Paid, status)

	paid, status = domain.ApplyPaymentAmount(paid, decimal.NewFromInt(6000).Neg(), total)
	assert.True(t, paid.Equal(decimal.NewFromInt(4000)))
	assert.Equal(t, domain.PartiallyPaid, status)

	paid, status = domain.ApplyPaymentAmount(paid, decimal.NewFromInt(4000).Neg(), total)
	assert.True(t, paid.Equal(decimal.Zero))
	assert.Equal(t, domain.NotPaid, status)
}

func TestApplyPaymentAmount_ClampsAtZero(t *testing.T) {
	total := decimal.NewFromInt(10000)

	paid, status := domain.ApplyPaymentAmount(decimal.NewFromInt(1000), decimal.NewFromInt(2000).Neg(), total)
	assert.True(t, paid.Equal(decimal.Zero))
	assert.Equal(t, domain.NotPaid, status)
}

func TestPaymentAllocation_BlocksCancellation(t *testing.T) {
	tests := []struct {
		name  string
		alloc domain.PaymentAllocation
		want  bool
	}{
		{"posted and active", domain.PaymentAllocation{PaymentState: domain.PaymentPosted}, true},
		{"posted but reversed", domain.PaymentAllocation{PaymentState: domain.PaymentPosted, IsReversed: true}, false},
		{"draft payment pending", domain.PaymentAllocation{PaymentState: domain.PaymentDraft}, false},
		{"voided and reversed", domain.PaymentAllocation{PaymentState: domain.PaymentVoided, IsReversed: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.alloc.BlocksCancellation())
		})
	}
}

func TestTransaction_Outstanding(t *testing.T) {
	txn := domain.Transaction{
		TotalAmount: decimal.NewFromInt(10000),
		PaidAmount:  decimal.NewFromInt(4000),
	}
	assert.True(t, txn.Outstanding().Equal(decimal.NewFromInt(6000)))
}

func TestAutoAnalyticalModel_SpecificityAndMatch(t *testing.T) {
	cat := "cat-5"
	prod := "prod-9"

	r1 := domain.AutoAnalyticalModel{CategoryID: &cat}
	r2 := domain.AutoAnalyticalModel{CategoryID: &cat, ProductID: &prod}

	assert.Equal(t, 1, r1.Specificity())
	assert.Equal(t, 2, r2.Specificity())

	attrs := domain.LineMatchAttributes{CategoryID: "cat-5", ProductID: "prod-9"}
	assert.True(t, r1.Matches(attrs))
	assert.True(t, r2.Matches(attrs))

	other := domain.LineMatchAttributes{CategoryID: "cat-5", ProductID: "prod-1"}
	assert.True(t, r1.Matches(other))
	assert.False(t, r2.Matches(other))
}
