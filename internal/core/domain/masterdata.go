package domain

// ContactType distinguishes the two partner directions.
type ContactType string

const (
	ContactCustomer ContactType = "CUSTOMER"
	ContactVendor   ContactType = "VENDOR"
)

// Contact is a customer or vendor. Master-data CRUD lives outside this
// engine; contacts are read-only lookups used for validation and rule
// matching.
type Contact struct {
	ContactID   string      `json:"contactID"` // Primary Key (UUID)
	Name        string      `json:"name"`
	ContactType ContactType `json:"contactType"`
	Tag         string      `json:"tag"` // Nullable grouping tag used by auto-analytical rules
	IsActive    bool        `json:"isActive"`
	AuditFields
}

// Product is a sellable/purchasable item, read-only in this engine.
type Product struct {
	ProductID  string `json:"productID"` // Primary Key (UUID)
	Name       string `json:"name"`
	CategoryID string `json:"categoryID"` // Nullable FK -> categories
	IsActive   bool   `json:"isActive"`
	AuditFields
}

// Category groups products, read-only in this engine.
type Category struct {
	CategoryID string `json:"categoryID"` // Primary Key (UUID)
	Name       string `json:"name"`
	AuditFields
}
