package models

import (
	"github.com/shopspring/decimal"
)

// Data Quality Tracking Structures
type FieldQuality struct {
	IsValid       bool        `json:"is_valid"`
	Description   string      `json:"description"`
	OriginalValue interface{} `json:"original_value,omitempty"`
}

type RecordQuality struct {
	RecordID    string                  `json:"record_id"`
	IsValid     bool                    `json:"is_valid"`
	FieldErrors map[string]FieldQuality `json:"field_errors"`
	ErrorCount  int                     `json:"error_count"`
}

// Upstream API envelopes
type APIResponse[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message"`
	Success bool   `json:"success"`
}

type PaginatedResponse[T any] struct {
	Data        []T `json:"data"`
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

// Raw upstream records
type BackendUnit struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"is_active"`
	CreatedAt   string `json:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

type BackendPayment struct {
	ID          int             `json:"id"`
	DealID      int             `json:"deal_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate string          `json:"payment_date"`
	Notes       string          `json:"notes,omitempty"`
}

type BackendDeal struct {
	ID                int              `json:"id"`
	UnitID            int              `json:"unit_id"`
	Unit              *BackendUnit     `json:"unit"`
	ProductName       string           `json:"product_name"`
	CustomerName      *string          `json:"customer_name"`
	TotalAmount       decimal.Decimal  `json:"total_amount"`
	DPAmount          decimal.Decimal  `json:"dp_amount"`
	DateDeal          string           `json:"date_deal"`
	DateDealFormatted string           `json:"date_deal_formatted,omitempty"`
	DueDate           string           `json:"due_date"`
	DueDateFormatted  string           `json:"due_date_formatted,omitempty"`
	Status            string           `json:"status"`
	Outstanding       decimal.Decimal  `json:"outstanding"`
	Notes             string           `json:"notes,omitempty"`
	Payments          []BackendPayment `json:"payments,omitempty"`
}

type BackendTarget struct {
	ID           int             `json:"id"`
	UnitID       int             `json:"unit_id"`
	Unit         *BackendUnit    `json:"unit"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	PeriodType   string          `json:"period_type"`
	PeriodStart  string          `json:"period_start"`
	PeriodEnd    string          `json:"period_end"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// Deal status
type DealStatus string

const (
	StatusOpen    DealStatus = "open"
	StatusPartial DealStatus = "partial"
	StatusPaid    DealStatus = "paid"
)

// Deal is the canonical record every aggregation reads.
type Deal struct {
	ID                int        `json:"id"`
	Unit              string     `json:"unit"`
	Product           string     `json:"product"`
	Customer          string     `json:"customer"`
	Total             float64    `json:"total"`
	DP                float64    `json:"dp"`
	DateDeal          string     `json:"dateDeal"`
	DateDealFormatted string     `json:"date_deal_formatted,omitempty"`
	DueDate           string     `json:"dueDate"`
	DueDateFormatted  string     `json:"due_date_formatted,omitempty"`
	Status            DealStatus `json:"status"`
}

// NormalizedDeal is a Deal together with the checks it went through.
type NormalizedDeal struct {
	Deal    Deal          `json:"deal"`
	Quality RecordQuality `json:"quality"`
}

// TargetMap maps a unit name to its monthly target.
type TargetMap map[string]float64

// Period selector
type Period string

const (
	PeriodDay         Period = "day"
	PeriodWeek        Period = "week"
	PeriodMonth       Period = "month"
	PeriodThreeMonths Period = "3m"
	PeriodSixMonths   Period = "6m"
	PeriodYear        Period = "1y"
)

// AllUnits is the unit filter value that selects every unit.
const AllUnits = "all"

// FilterState is the dashboard selection passed into every aggregation.
type FilterState struct {
	Period Period `json:"period"`
	Unit   string `json:"unit"`
	Search string `json:"search"`
}

// DefaultFilterState mirrors the dashboard's initial selection.
func DefaultFilterState() FilterState {
	return FilterState{Period: PeriodMonth, Unit: AllUnits}
}

// Business metrics
type KPIData struct {
	ScaledTarget    float64    `json:"scaledTarget"`
	ActualCollected float64    `json:"actualCollected"`
	ProgressPct     int        `json:"progressPct"`
	Outstanding     float64    `json:"outstanding"`
	AgingBuckets    [3]float64 `json:"agingBuckets"`
	CollectionRate  int        `json:"collectionRate"`
}

type PerformanceStatus string

const (
	PerformanceOn   PerformanceStatus = "on"
	PerformanceRisk PerformanceStatus = "risk"
	PerformanceOff  PerformanceStatus = "off"
)

type UnitPerformance struct {
	Unit       string            `json:"unit"`
	Target     float64           `json:"target"`
	Actual     float64           `json:"actual"`
	Percentage int               `json:"percentage"`
	Status     PerformanceStatus `json:"status"`
}

type NotificationItem struct {
	Deal                  Deal    `json:"deal"`
	DaysUntilDue          int     `json:"daysUntilDue"`
	DaysUntilDueFormatted string  `json:"daysUntilDueFormatted"`
	OutstandingAmount     float64 `json:"outstandingAmount"`
}

type TrendDataPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type AgingBucketSummary struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// Data Quality Report Structures
type DataQualityReport struct {
	Summary    QualitySummary  `json:"summary"`
	DealReport []RecordQuality `json:"deal_quality"`
	Timestamp  string          `json:"timestamp"`
}

type QualitySummary struct {
	TotalDeals       int      `json:"total_deals"`
	ValidDeals       int      `json:"valid_deals"`
	DuplicateDeals   int      `json:"duplicate_deals"`
	DealQualityScore float64  `json:"deal_quality_score"`
	TotalTargets     int      `json:"total_targets"`
	UsableTargets    int      `json:"usable_targets"`
	CommonIssues     []string `json:"common_issues"`
}

// API response structures
type PagedResponse struct {
	Data    interface{} `json:"data"`
	Total   int         `json:"total"`
	Page    int         `json:"page"`
	PerPage int         `json:"per_page"`
	HasMore bool        `json:"has_more"`
}

type IngestResponse struct {
	Status      string `json:"status"`
	Deals       int    `json:"deals"`
	Targets     int    `json:"targets"`
	Units       int    `json:"units"`
	ProcessedAt string `json:"processed_at"`
	Message     string `json:"message"`

	QualitySummary QualitySummary `json:"quality_summary"`
}

// DashboardSummary bundles every view for one filter state.
type DashboardSummary struct {
	Filter        FilterState                   `json:"filter"`
	PeriodLabel   string                        `json:"periodLabel"`
	KPIs          KPIData                       `json:"kpis"`
	Units         []UnitPerformance             `json:"unitPerformance"`
	Trend         []TrendDataPoint              `json:"trend"`
	Notifications []NotificationItem            `json:"notifications"`
	Aging         map[string]AgingBucketSummary `json:"agingAnalysis"`
	Deals         []Deal                        `json:"deals"`
	GeneratedAt   string                        `json:"generatedAt"`
}
