package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/anayki/biz_erp_app/internal/core/domain"
)

// RegisterCustomValidators installs enum validators used by the binding
// tags above on gin's validator engine. Call once at startup.
func RegisterCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	_ = v.RegisterValidation("transactiontype", func(fl validator.FieldLevel) bool {
		switch domain.TransactionType(fl.Field().String()) {
		case domain.PurchaseOrder, domain.VendorBill, domain.SalesOrder, domain.CustomerInvoice:
			return true
		}
		return false
	})

	_ = v.RegisterValidation("paymenttype", func(fl validator.FieldLevel) bool {
		switch domain.PaymentType(fl.Field().String()) {
		case domain.PaymentSend, domain.PaymentReceive:
			return true
		}
		return false
	})
}
