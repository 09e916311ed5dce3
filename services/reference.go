package services

import (
	"fmt"
	"time"
)

// GetFiscalYear returns the Indian fiscal year string for a given date.
// Indian fiscal year runs April to March.
// Jan 2026 → "25-26", May 2026 → "26-27"
func GetFiscalYear(t time.Time) string {
	startYear := t.Year()
	if t.Month() < time.April {
		startYear--
	}
	return fmt.Sprintf("%02d-%02d", startYear%100, (startYear+1)%100)
}

// ReportReference builds the reference printed on reconciliation reports:
// REC-{project_ref}-{fiscal_year}. boqID is used when the project has no
// reference number.
func ReportReference(projectRef, boqID string, now time.Time) string {
	if projectRef == "" {
		projectRef = boqID
	}
	return fmt.Sprintf("REC-%s-%s", projectRef, GetFiscalYear(now))
}
