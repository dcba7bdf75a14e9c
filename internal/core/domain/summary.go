package domain

import "time"

// SummaryItem is one unread document in the vendor flat summary. Exactly one
// of the forecast, order or invoice groups is filled per item.
type SummaryItem struct {
	NumberForecast string    `json:"number_forecast,omitempty"`
	StatusForecast string    `json:"status_forecast,omitempty"`
	ReadForecast   *bool     `json:"read_forecast,omitempty"`
	VendorCode     string    `json:"vendor_code,omitempty"`
	CreatedAt      time.Time `json:"created_at"`

	NumberOrder string `json:"number_order,omitempty"`
	StatusOrder string `json:"status_order,omitempty"`
	ReadOrder   *bool  `json:"read_order,omitempty"`

	NumberInvoice string `json:"number_invoice,omitempty"`
	StatusInvoice string `json:"status_invoice,omitempty"`
	ReadInvoice   *bool  `json:"read_invoice,omitempty"`
}

// Document types as shown in the notification list.
const (
	DocForecast = "Forecast"
	DocOrder    = "Order"
	DocInvoice  = "Invoice"
)

// Document returns the type and number of the document the item points to.
func (s SummaryItem) Document() (docType, number string) {
	switch {
	case s.NumberForecast != "":
		return DocForecast, s.NumberForecast
	case s.NumberOrder != "":
		return DocOrder, s.NumberOrder
	case s.NumberInvoice != "":
		return DocInvoice, s.NumberInvoice
	}
	return "", ""
}

// Status returns the status of the document the item points to.
func (s SummaryItem) Status() string {
	switch {
	case s.NumberForecast != "":
		return s.StatusForecast
	case s.NumberOrder != "":
		return s.StatusOrder
	case s.NumberInvoice != "":
		return s.StatusInvoice
	}
	return ""
}

// DetailPath returns the portal page for a document, or "" for unknown types.
func DetailPath(lang, docType, number string) string {
	switch docType {
	case DocForecast:
		return "/" + lang + "/forecast-form/" + number
	case DocOrder:
		return "/" + lang + "/order-form/" + number
	case DocInvoice:
		return "/" + lang + "/invoice-form/" + number
	}
	return ""
}
