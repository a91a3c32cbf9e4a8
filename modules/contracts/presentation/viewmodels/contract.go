package viewmodels

import (
	"encoding/json"
	"time"

	auditvm "github.com/tourhub-uz/tourhub/modules/audit/presentation/viewmodels"
)

type Contract struct {
	ID                 string    `json:"id"`
	ContractNumber     string    `json:"contract_number"`
	Name               string    `json:"name"`
	Type               string    `json:"type,omitempty"`
	SupplierID         string    `json:"supplier_id,omitempty"`
	EventID            string    `json:"event_id,omitempty"`
	ValidFrom          time.Time `json:"valid_from"`
	ValidTo            time.Time `json:"valid_to"`
	Currency           string    `json:"currency"`
	TotalCost          string    `json:"total_cost,omitempty"`
	CommissionRate     string    `json:"commission_rate,omitempty"`
	Status             string    `json:"status"`
	PaymentTerms       string    `json:"payment_terms,omitempty"`
	CancellationPolicy string    `json:"cancellation_policy,omitempty"`
	Terms              string    `json:"terms,omitempty"`
	Files              []string  `json:"files,omitempty"`
	Notes              string    `json:"notes,omitempty"`
	OwnerID            string    `json:"owner_id,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type AvailabilitySummary struct {
	TotalAvailable       int        `json:"total_available"`
	TotalBooked          int        `json:"total_booked"`
	TotalRemaining       int        `json:"total_remaining"`
	NextAvailabilityDate *time.Time `json:"next_availability_date,omitempty"`
}

type AvailabilityRow struct {
	Date           time.Time `json:"date"`
	TotalAvailable int       `json:"total_available"`
	Booked         int       `json:"booked"`
	Available      int       `json:"available"`
	IsClosed       bool      `json:"is_closed"`
}

type Release struct {
	ReleaseDate   time.Time `json:"release_date"`
	Quantity      *int      `json:"quantity,omitempty"`
	Percentage    string    `json:"percentage,omitempty"`
	PenaltyAmount string    `json:"penalty_amount,omitempty"`
	Notes         string    `json:"notes,omitempty"`
}

type Allocation struct {
	ID              string              `json:"id"`
	ContractID      string              `json:"contract_id"`
	ProductID       string              `json:"product_id,omitempty"`
	ProductName     string              `json:"product_name,omitempty"`
	ProductOptionID string              `json:"product_option_id,omitempty"`
	OptionName      string              `json:"option_name,omitempty"`
	TotalQuantity   int                 `json:"total_quantity"`
	ValidFrom       time.Time           `json:"valid_from"`
	ValidTo         time.Time           `json:"valid_to"`
	Notes           string              `json:"notes,omitempty"`
	Summary         AvailabilitySummary `json:"summary"`
	Availability    []*AvailabilityRow  `json:"availability,omitempty"`
	Releases        []*Release          `json:"releases,omitempty"`
}

type SupplierRate struct {
	ID              string          `json:"id"`
	RateName        string          `json:"rate_name"`
	ProductID       string          `json:"product_id,omitempty"`
	ProductName     string          `json:"product_name,omitempty"`
	ProductOptionID string          `json:"product_option_id,omitempty"`
	OptionName      string          `json:"option_name,omitempty"`
	ValidFrom       time.Time       `json:"valid_from"`
	ValidTo         time.Time       `json:"valid_to"`
	BaseCost        string          `json:"base_cost"`
	Currency        string          `json:"currency"`
	MarkupType      string          `json:"markup_type,omitempty"`
	MarkupAmount    string          `json:"markup_amount,omitempty"`
	PricingDetails  json.RawMessage `json:"pricing_details,omitempty"`
	IsActive        bool            `json:"is_active"`
}

type BookingItem struct {
	ID               string    `json:"id"`
	BookingReference string    `json:"booking_reference,omitempty"`
	CustomerName     string    `json:"customer_name,omitempty"`
	ServiceDateFrom  time.Time `json:"service_date_from"`
	ServiceDateTo    time.Time `json:"service_date_to"`
	Quantity         int       `json:"quantity"`
	TotalPrice       string    `json:"total_price"`
	Currency         string    `json:"currency,omitempty"`
	Status           string    `json:"status,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// ContractDetail is the nested detail payload. LoadErrors flags sections
// that failed to load and were rendered empty.
type ContractDetail struct {
	Contract       *Contract             `json:"contract"`
	SupplierName   string                `json:"supplier_name,omitempty"`
	Allocations    []*Allocation         `json:"allocations"`
	SupplierRates  []*SupplierRate       `json:"supplier_rates"`
	RecentBookings []*BookingItem        `json:"recent_bookings"`
	AuditTrail     []*auditvm.AuditEntry `json:"audit_trail"`
	LoadErrors     map[string]bool       `json:"load_errors,omitempty"`
}
