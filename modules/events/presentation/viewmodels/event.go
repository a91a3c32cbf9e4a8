package viewmodels

import "time"

type Event struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Type        string    `json:"type,omitempty"`
	Venue       string    `json:"venue,omitempty"`
	City        string    `json:"city,omitempty"`
	Country     string    `json:"country,omitempty"`
	DateFrom    time.Time `json:"date_from"`
	DateTo      time.Time `json:"date_to"`
	Status      string    `json:"status"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ProductSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	IsActive bool   `json:"is_active"`
}

type ContractSummary struct {
	ID             string    `json:"id"`
	ContractNumber string    `json:"contract_number"`
	Name           string    `json:"name"`
	Status         string    `json:"status"`
	ValidFrom      time.Time `json:"valid_from"`
	ValidTo        time.Time `json:"valid_to"`
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
}

// EventDetail nests the event with capped product and contract rows; the
// count fields carry the true totals. Revenue covers every booking item
// attached to the event's products, not just the displayed rows.
type EventDetail struct {
	Event            *Event             `json:"event"`
	Products         []*ProductSummary  `json:"products"`
	ProductTotal     int64              `json:"product_total"`
	ProductActive    int64              `json:"product_active"`
	Contracts        []*ContractSummary `json:"contracts"`
	ContractTotal    int64              `json:"contract_total"`
	ContractActive   int64              `json:"contract_active"`
	RecentBookings   []*BookingItem     `json:"recent_bookings"`
	UpcomingBookings int                `json:"upcoming_bookings"`
	Revenue          string             `json:"revenue"`
	RevenueCurrency  string             `json:"revenue_currency,omitempty"`
	LoadErrors       map[string]bool    `json:"load_errors,omitempty"`
}
