package entity

// WindowFilter is a domain-level filter for querying availability windows.
// Used by repository layer to avoid coupling with delivery DTOs.
type WindowFilter struct {
	StartAt      string // Format: YYYY-MM-DD
	EndAt        string // Format: YYYY-MM-DD
	ApprovedOnly bool
}
