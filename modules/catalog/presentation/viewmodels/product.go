package viewmodels

import (
	"encoding/json"
	"time"

	auditvm "github.com/tourhub-uz/tourhub/modules/audit/presentation/viewmodels"
)

type ProductType struct {
	ID         string `json:"id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	CodePrefix string `json:"code_prefix"`
}

type Location struct {
	AddressLine string `json:"address_line,omitempty"`
	City        string `json:"city,omitempty"`
	Country     string `json:"country,omitempty"`
	Latitude    string `json:"latitude,omitempty"`
	Longitude   string `json:"longitude,omitempty"`
}

type Product struct {
	ID            string          `json:"id"`
	ProductTypeID string          `json:"product_type_id"`
	Name          string          `json:"name"`
	Code          string          `json:"code"`
	Description   string          `json:"description,omitempty"`
	Location      *Location       `json:"location,omitempty"`
	Attributes    json.RawMessage `json:"attributes,omitempty"`
	EventID       string          `json:"event_id,omitempty"`
	Tags          []string        `json:"tags,omitempty"`
	Media         []string        `json:"media,omitempty"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type OptionCounts struct {
	SellingRates     int `json:"selling_rates"`
	SupplierRates    int `json:"supplier_rates"`
	Allocations      int `json:"allocations"`
	UpcomingBookings int `json:"upcoming_bookings"`
}

type ProductOption struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	OptionName  string          `json:"option_name"`
	OptionCode  string          `json:"option_code"`
	Description string          `json:"description,omitempty"`
	Attributes  json.RawMessage `json:"attributes,omitempty"`
	IsActive    bool            `json:"is_active"`
	SortOrder   int             `json:"sort_order"`
	Counts      *OptionCounts   `json:"counts,omitempty"`
}

type SellingRate struct {
	ID              string          `json:"id"`
	RateName        string          `json:"rate_name"`
	ProductID       string          `json:"product_id,omitempty"`
	ProductOptionID string          `json:"product_option_id,omitempty"`
	ValidFrom       time.Time       `json:"valid_from"`
	ValidTo         time.Time       `json:"valid_to"`
	RateBasis       string          `json:"rate_basis,omitempty"`
	PricingModel    string          `json:"pricing_model"`
	BasePrice       string          `json:"base_price"`
	Currency        string          `json:"currency"`
	MarkupType      string          `json:"markup_type,omitempty"`
	MarkupAmount    string          `json:"markup_amount,omitempty"`
	PricingDetails  json.RawMessage `json:"pricing_details,omitempty"`
	TargetCost      string          `json:"target_cost,omitempty"`
	IsActive        bool            `json:"is_active"`
}

type SupplierRate struct {
	ID           string    `json:"id"`
	ContractID   string    `json:"contract_id,omitempty"`
	RateName     string    `json:"rate_name"`
	ValidFrom    time.Time `json:"valid_from"`
	ValidTo      time.Time `json:"valid_to"`
	BaseCost     string    `json:"base_cost"`
	Currency     string    `json:"currency"`
	MarkupType   string    `json:"markup_type,omitempty"`
	MarkupAmount string    `json:"markup_amount,omitempty"`
	IsActive     bool      `json:"is_active"`
}

type Allocation struct {
	ID            string    `json:"id"`
	ContractID    string    `json:"contract_id"`
	TotalQuantity int       `json:"total_quantity"`
	ValidFrom     time.Time `json:"valid_from"`
	ValidTo       time.Time `json:"valid_to"`
	Notes         string    `json:"notes,omitempty"`
}

type EventSummary struct {
	ID       string    `json:"id"`
	Code     string    `json:"code"`
	Name     string    `json:"name"`
	DateFrom time.Time `json:"date_from"`
	DateTo   time.Time `json:"date_to"`
	Status   string    `json:"status"`
}

// ProductDetail nests the product with its type, options and pricing.
// Attributes carries the payload decoded per product-type code; LoadErrors
// names the sections that failed to load.
type ProductDetail struct {
	Product       *Product              `json:"product"`
	ProductType   *ProductType          `json:"product_type"`
	Event         *EventSummary         `json:"event,omitempty"`
	Attributes    any                   `json:"attributes,omitempty"`
	Options       []*ProductOption      `json:"options"`
	SellingRates  []*SellingRate        `json:"selling_rates"`
	SupplierRates []*SupplierRate       `json:"supplier_rates"`
	Allocations   []*Allocation         `json:"allocations"`
	AuditTrail    []*auditvm.AuditEntry `json:"audit_trail"`
	LoadErrors    map[string]bool       `json:"load_errors,omitempty"`
}

type SuggestedCode struct {
	Code string `json:"code"`
}
