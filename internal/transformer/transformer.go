package transformer

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"sales-monitor/internal/analytics"
	"sales-monitor/internal/models"
)

const UnknownUnit = "Unknown"

type Transformer struct {
	loc *time.Location
	now func() time.Time
}

func New(loc *time.Location) *Transformer {
	if loc == nil {
		loc = time.Local
	}
	return &Transformer{loc: loc, now: time.Now}
}

// NormalizeDeals maps upstream deals onto the dashboard shape. The first
// occurrence of an id wins; later ones come back as duplicates.
func (t *Transformer) NormalizeDeals(records []models.BackendDeal) (unique, duplicates []models.NormalizedDeal) {
	seen := make(map[int]int)

	for i, record := range records {
		quality := models.RecordQuality{
			RecordID:    fmt.Sprintf("deal_%d", record.ID),
			IsValid:     true,
			FieldErrors: make(map[string]models.FieldQuality),
		}

		total := t.validateAmount(record.TotalAmount, "total_amount", &quality)
		deal := models.Deal{
			ID:                t.validateID(record.ID, "id", &quality),
			Unit:              t.validateUnit(record.Unit, "unit", &quality),
			Product:           t.validateProduct(record.ProductName, "product_name", &quality),
			Customer:          t.validateCustomer(record.CustomerName, "customer_name", &quality),
			Total:             total,
			DP:                t.validateDP(record.DPAmount, total, "dp_amount", &quality),
			DateDeal:          t.validateDate(record.DateDeal, "date_deal", &quality),
			DateDealFormatted: t.formatted(record.DateDealFormatted, record.DateDeal),
			DueDate:           t.validateDate(record.DueDate, "due_date", &quality),
			DueDateFormatted:  t.formatted(record.DueDateFormatted, record.DueDate),
			Status:            t.validateStatus(record.Status, "status", &quality),
		}

		// Final record validation
		quality.IsValid = quality.ErrorCount == 0
		normalized := models.NormalizedDeal{Deal: deal, Quality: quality}

		if first, exists := seen[record.ID]; exists {
			normalized.Quality.FieldErrors["duplicate"] = models.FieldQuality{
				IsValid:       false,
				Description:   fmt.Sprintf("Duplicate deal ID found (original at index %d)", first),
				OriginalValue: record.ID,
			}
			normalized.Quality.ErrorCount++
			normalized.Quality.IsValid = false
			duplicates = append(duplicates, normalized)
			continue
		}
		seen[record.ID] = i
		unique = append(unique, normalized)
	}

	return unique, duplicates
}

// Deals strips the quality records.
func Deals(normalized []models.NormalizedDeal) []models.Deal {
	deals := make([]models.Deal, 0, len(normalized))
	for _, n := range normalized {
		deals = append(deals, n.Deal)
	}
	return deals
}

func (t *Transformer) validateID(id int, fieldName string, quality *models.RecordQuality) int {
	if id <= 0 {
		t.fail(quality, fieldName, "Missing - Deal ID is not positive", id)
	}
	return id
}

func (t *Transformer) validateUnit(unit *models.BackendUnit, fieldName string, quality *models.RecordQuality) string {
	if unit == nil || strings.TrimSpace(unit.Name) == "" {
		t.fail(quality, fieldName, "Missing - Unit is empty, using 'Unknown'", unit)
		return UnknownUnit
	}
	return strings.TrimSpace(unit.Name)
}

func (t *Transformer) validateProduct(name string, fieldName string, quality *models.RecordQuality) string {
	name = strings.TrimSpace(name)
	if name == "" {
		t.fail(quality, fieldName, "Missing - Product name is empty", name)
	}
	return name
}

func (t *Transformer) validateCustomer(name *string, fieldName string, quality *models.RecordQuality) string {
	if name == nil || strings.TrimSpace(*name) == "" {
		t.fail(quality, fieldName, "Missing - Customer name is empty", name)
		return ""
	}
	return strings.TrimSpace(*name)
}

func (t *Transformer) validateAmount(amount decimal.Decimal, fieldName string, quality *models.RecordQuality) float64 {
	if amount.IsNegative() {
		t.fail(quality, fieldName, "Invalid amount - Negative value, setting to 0", amount.String())
		return 0
	}
	return amount.InexactFloat64()
}

func (t *Transformer) validateDP(dp decimal.Decimal, total float64, fieldName string, quality *models.RecordQuality) float64 {
	v := t.validateAmount(dp, fieldName, quality)
	if v > total {
		t.fail(quality, fieldName, "Inconsistent - DP exceeds total amount", dp.String())
	}
	return v
}

// validateDate keeps the raw value; the dashboard re-reads it with its own
// fallback, so the check only records whether it will parse.
func (t *Transformer) validateDate(raw string, fieldName string, quality *models.RecordQuality) string {
	if strings.TrimSpace(raw) == "" {
		t.fail(quality, fieldName, "Missing - Date field is empty", raw)
		return raw
	}
	if !analytics.ParseDate(raw, t.loc).Valid {
		t.fail(quality, fieldName, "Invalid date format - Expected ISO-8601, YYYY-MM-DD or DD/MM/YYYY", raw)
	}
	return raw
}

func (t *Transformer) formatted(upstream, raw string) string {
	if strings.TrimSpace(upstream) != "" {
		return upstream
	}
	return analytics.FormatDate(raw, t.loc)
}

func (t *Transformer) validateStatus(status string, fieldName string, quality *models.RecordQuality) models.DealStatus {
	st, ok := analytics.ParseStatus(strings.ToLower(strings.TrimSpace(status)))
	if !ok {
		t.fail(quality, fieldName, "Invalid status - Unknown value, using 'open'", status)
		return models.StatusOpen
	}
	return st
}

func (t *Transformer) fail(quality *models.RecordQuality, fieldName, description string, original interface{}) {
	quality.FieldErrors[fieldName] = models.FieldQuality{
		IsValid:       false,
		Description:   description,
		OriginalValue: original,
	}
	quality.ErrorCount++
}

// NormalizeTargets keeps monthly targets only and, per unit, the one with
// the latest period start. Targets without a resolvable unit are skipped.
func (t *Transformer) NormalizeTargets(records []models.BackendTarget, units []models.BackendUnit) (models.TargetMap, int) {
	names := make(map[int]string, len(units))
	for _, u := range units {
		names[u.ID] = u.Name
	}

	type pick struct {
		start  time.Time
		amount float64
	}
	latest := make(map[string]pick)

	for _, record := range records {
		period := strings.ToLower(strings.TrimSpace(record.PeriodType))
		if period != "" && period != "monthly" && period != "month" {
			continue
		}
		if record.TargetAmount.IsNegative() {
			continue
		}

		name := ""
		if record.Unit != nil {
			name = strings.TrimSpace(record.Unit.Name)
		}
		if name == "" {
			name = names[record.UnitID]
		}
		if name == "" {
			continue
		}

		start := analytics.ParseDate(record.PeriodStart, t.loc).OrEpoch()
		if prev, ok := latest[name]; ok && start.Before(prev.start) {
			continue
		}
		latest[name] = pick{start: start, amount: record.TargetAmount.InexactFloat64()}
	}

	targets := make(models.TargetMap, len(latest))
	for name, p := range latest {
		targets[name] = p.amount
	}
	return targets, len(latest)
}

// UnitNames lists active unit names in upstream order.
func UnitNames(units []models.BackendUnit) []string {
	names := make([]string, 0, len(units))
	for _, u := range units {
		if u.IsActive && strings.TrimSpace(u.Name) != "" {
			names = append(names, strings.TrimSpace(u.Name))
		}
	}
	return names
}

// Generate Quality Report
func (t *Transformer) GenerateQualityReport(deals, duplicates []models.NormalizedDeal, totalTargets, usableTargets int) models.DataQualityReport {
	dealQuality := make([]models.RecordQuality, 0, len(deals)+len(duplicates))

	validDeals := 0
	for _, d := range deals {
		dealQuality = append(dealQuality, d.Quality)
		if d.Quality.IsValid {
			validDeals++
		}
	}
	for _, d := range duplicates {
		dealQuality = append(dealQuality, d.Quality)
	}

	score := 0.0
	if total := len(deals) + len(duplicates); total > 0 {
		score = float64(validDeals) / float64(total) * 100
	}

	return models.DataQualityReport{
		Summary: models.QualitySummary{
			TotalDeals:       len(deals) + len(duplicates),
			ValidDeals:       validDeals,
			DuplicateDeals:   len(duplicates),
			DealQualityScore: score,
			TotalTargets:     totalTargets,
			UsableTargets:    usableTargets,
			CommonIssues:     identifyCommonIssues(dealQuality),
		},
		DealReport: dealQuality,
		Timestamp:  t.now().Format(time.RFC3339),
	}
}

// identifyCommonIssues lists issues seen more than once, most frequent first.
func identifyCommonIssues(records []models.RecordQuality) []string {
	issueCount := make(map[string]int)
	for _, record := range records {
		for _, fieldError := range record.FieldErrors {
			if !fieldError.IsValid {
				issueCount[fieldError.Description]++
			}
		}
	}

	issues := make([]string, 0, len(issueCount))
	for issue, count := range issueCount {
		if count > 1 {
			issues = append(issues, issue)
		}
	}
	sort.Slice(issues, func(i, j int) bool {
		if issueCount[issues[i]] != issueCount[issues[j]] {
			return issueCount[issues[i]] > issueCount[issues[j]]
		}
		return issues[i] < issues[j]
	})

	commonIssues := make([]string, len(issues))
	for i, issue := range issues {
		commonIssues[i] = fmt.Sprintf("%s (occurs %d times)", issue, issueCount[issue])
	}
	return commonIssues
}
