package decision

import (
	"sort"
	"strings"

	"tradedash/internal/models"
)

// Status filter values accepted by the pipeline.
const (
	StatusAll      = "all"
	StatusExecuted = "executed"
	StatusRejected = "rejected"
	StatusPending  = "pending"
)

// Sort fields accepted by the pipeline.
const (
	SortByTimestamp  = "timestamp"
	SortByConfidence = "confidence"
	SortBySymbol     = "symbol"
)

// DefaultPageSize matches the decisions list panel.
const DefaultPageSize = 8

// PipelineParams drives one filter → sort → paginate pass.
type PipelineParams struct {
	Status    string `json:"status"`
	Search    string `json:"search"`
	SortField string `json:"sort_by"`
	SortOrder string `json:"order"`
	Page      int    `json:"page"`
	PageSize  int    `json:"page_size"`
}

// Page is one visible slice plus the counts the pagination UI needs.
type Page struct {
	Items      []models.Decision `json:"items"`
	Total      int               `json:"total"`
	TotalPages int               `json:"total_pages"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
}

// ApplyPipeline narrows a decision list for display: status and search
// filters first, then a stable sort, then the page slice. The input slice
// is never mutated. An out-of-range page yields an empty Items slice;
// callers that must keep the page valid use ClampPage on TotalPages.
func ApplyPipeline(ds []models.Decision, p PipelineParams) Page {
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.Page <= 0 {
		p.Page = 1
	}

	filtered := Filter(ds, p.Status, p.Search)
	sorted := Sort(filtered, p.SortField, p.SortOrder)

	total := len(sorted)
	totalPages := (total + p.PageSize - 1) / p.PageSize

	start := (p.Page - 1) * p.PageSize
	end := start + p.PageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page{
		Items:      sorted[start:end],
		Total:      total,
		TotalPages: totalPages,
		Page:       p.Page,
		PageSize:   p.PageSize,
	}
}

// Filter keeps decisions matching the status filter and the free-text
// search term. Search is a case-insensitive substring match over symbol,
// decision type, and reasoning summary; an empty term matches everything.
// Status and search commute, so the order here is only a convention.
func Filter(ds []models.Decision, status, search string) []models.Decision {
	status = strings.ToLower(strings.TrimSpace(status))
	term := strings.ToLower(strings.TrimSpace(search))

	out := make([]models.Decision, 0, len(ds))
	for _, d := range ds {
		if !matchesStatus(d, status) {
			continue
		}
		if term != "" && !matchesSearch(d, term) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func matchesStatus(d models.Decision, status string) bool {
	switch status {
	case "", StatusAll:
		return true
	case StatusExecuted:
		return d.ExecutionStatus() == models.ExecutionExecuted
	case StatusRejected:
		return d.ExecutionStatus() == models.ExecutionRejected
	case StatusPending:
		return d.ExecutionStatus() == models.ExecutionPending
	default:
		return true
	}
}

func matchesSearch(d models.Decision, term string) bool {
	if strings.Contains(strings.ToLower(d.Symbol), term) {
		return true
	}
	if strings.Contains(strings.ToLower(d.DecisionType), term) {
		return true
	}
	return strings.Contains(strings.ToLower(d.ReasoningSummary()), term)
}

// Sort returns a stably sorted copy keyed by the selected field. Unknown
// fields fall back to timestamp; any order other than "asc" means
// descending. Ties keep their incoming order.
func Sort(ds []models.Decision, field, order string) []models.Decision {
	out := make([]models.Decision, len(ds))
	copy(out, ds)

	asc := strings.EqualFold(strings.TrimSpace(order), "asc")

	var less func(a, b models.Decision) bool
	switch strings.ToLower(strings.TrimSpace(field)) {
	case SortByConfidence:
		less = func(a, b models.Decision) bool { return a.Confidence < b.Confidence }
	case SortBySymbol:
		less = func(a, b models.Decision) bool { return a.Symbol < b.Symbol }
	default:
		less = func(a, b models.Decision) bool { return a.Timestamp.Before(b.Timestamp) }
	}

	sort.SliceStable(out, func(i, j int) bool {
		if asc {
			return less(out[i], out[j])
		}
		return less(out[j], out[i])
	})
	return out
}

// ClampPage pulls an out-of-range page back into [1, totalPages]. A zero
// totalPages clamps to page 1 so the UI never shows page 0.
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		return 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}
