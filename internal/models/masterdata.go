package models

// ContactType distinguishes customers from vendors.
type ContactType string

const (
	ContactCustomer ContactType = "CUSTOMER"
	ContactVendor   ContactType = "VENDOR"
)

// Contact is a customer or vendor row.
type Contact struct {
	ContactID   string      `db:"contact_id"`
	Name        string      `db:"name"`
	ContactType ContactType `db:"contact_type"`
	Tag         string      `db:"tag"` // Nullable
	IsActive    bool        `db:"is_active"`
	AuditFields
}

// Product is an item row.
type Product struct {
	ProductID  string `db:"product_id"`
	Name       string `db:"name"`
	CategoryID string `db:"category_id"` // Nullable
	IsActive   bool   `db:"is_active"`
	AuditFields
}

// Category groups products.
type Category struct {
	CategoryID string `db:"category_id"`
	Name       string `db:"name"`
	AuditFields
}
