package utils

import "github.com/shopspring/decimal"

// amountPrecision is the number of decimal places carried on all monetary
// amounts (INR).
const amountPrecision = 2

// FormatAmount formats a monetary amount at standard precision.
// Example: 12.3456 returns "12.35".
func FormatAmount(amount decimal.Decimal) string {
	return amount.Round(amountPrecision).StringFixed(amountPrecision)
}

// FormatINR formats an amount with the rupee sign for user-facing messages.
func FormatINR(amount decimal.Decimal) string {
	return "₹" + FormatAmount(amount)
}
