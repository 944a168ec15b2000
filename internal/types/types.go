// Package types provides common type definitions for the portfolio insights service.
package types

// UserTier represents the service tier level
type UserTier string

const (
	// TierFree represents the free service tier with limited features
	TierFree UserTier = "free"
	// TierPaid represents the paid service tier with full features
	TierPaid UserTier = "paid"
)

// PeriodType distinguishes quarterly from annual reporting intervals
type PeriodType string

const (
	// PeriodQuarterly represents fiscal-quarter observations
	PeriodQuarterly PeriodType = "Quarterly"
	// PeriodAnnual represents fiscal-year observations
	PeriodAnnual PeriodType = "Annual"
)

// ViewType represents the kind of saved dashboard view
type ViewType string

const (
	// ViewChart is a saved chart view
	ViewChart ViewType = "CHART"
	// ViewTable is a saved table view
	ViewTable ViewType = "TABLE"
)

// ViewSource records which surface produced a saved view
type ViewSource string

const (
	// SourceDashboard marks views saved from the portfolio dashboard
	SourceDashboard ViewSource = "DASHBOARD"
	// SourceAssistant marks views saved from the chat assistant
	SourceAssistant ViewSource = "AI"
)

// ConversionDirection selects which way the currency annotator converts
type ConversionDirection string

const (
	// DirectionINRToUSD converts INR amounts into USD
	DirectionINRToUSD ConversionDirection = "inr_to_usd"
	// DirectionUSDToINR converts USD amounts into INR
	DirectionUSDToINR ConversionDirection = "usd_to_inr"
)

// Base returns the source currency code for the direction.
func (d ConversionDirection) Base() string {
	if d == DirectionUSDToINR {
		return "USD"
	}
	return "INR"
}

// Target returns the destination currency code for the direction.
func (d ConversionDirection) Target() string {
	if d == DirectionUSDToINR {
		return "INR"
	}
	return "USD"
}

// MetricRecord is one observation from the metrics warehouse. Records are
// immutable once produced; currency conversion returns new records.
type MetricRecord struct {
	Period        string     `json:"period"`
	PeriodType    PeriodType `json:"periodType"`
	PeriodTitle   string     `json:"Chart_Period_Title,omitempty"`
	Value         string     `json:"value"`
	OriginalValue string     `json:"original_value,omitempty"`
	CurrencyCode  string     `json:"Currency_Code"`
	Unit          string     `json:"Chart_Metric_Unit,omitempty"`
}

// AssetMetrics maps asset name -> metric name -> ordered observations.
type AssetMetrics map[string]map[string][]MetricRecord

// Row is a single table row: column key -> scalar. An explicitly present
// nil value is the "no observation" sentinel, distinct from a missing key.
type Row map[string]interface{}

// ServiceError represents a structured error response
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}

// ProgressEvent is one ingestion progress notification from the backend feed.
type ProgressEvent struct {
	Endpoint  string `json:"endpoint"`
	Current   int    `json:"current"`
	Total     int    `json:"total"`
	AssetName string `json:"asset_name,omitempty"`
}
