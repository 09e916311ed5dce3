package workflow

import "fmt"

// ChangeRequest is a request to add or modify BOQ materials or labour.
type ChangeRequest struct {
	ID                    string          `json:"id"`
	BOQID                 string          `json:"boq_id"`
	Title                 string          `json:"title"`
	Category              string          `json:"category"`
	Status                Status          `json:"status"`
	VendorSelectionStatus VendorSelection `json:"vendor_selection_status"`
	BuyerID               string          `json:"buyer_id,omitempty"`
	SubRequests           []SubRequest    `json:"sub_requests,omitempty"`
}

// SubRequest is a per-material split of a change request; each carries its
// own vendor selection.
type SubRequest struct {
	ID                    string          `json:"id"`
	Description           string          `json:"description"`
	VendorSelectionStatus VendorSelection `json:"vendor_selection_status"`
}

func (cr ChangeRequest) State() State {
	return State{Status: cr.Status, VendorSelection: cr.VendorSelectionStatus}
}

// IsPendingVendorApproval is true when the request itself, or any of its
// sub-requests, has a vendor selection awaiting approval. Only the explicit
// vendor_selection_status fields are consulted.
func IsPendingVendorApproval(cr ChangeRequest) bool {
	if cr.VendorSelectionStatus == VendorPendingApproval {
		return true
	}
	for _, sub := range cr.SubRequests {
		if sub.VendorSelectionStatus == VendorPendingApproval {
			return true
		}
	}
	return false
}

type Tab string

const (
	TabPending       Tab = "pending"
	TabVendorPending Tab = "vendor_pending"
	TabApproved      Tab = "approved"
	TabRejected      Tab = "rejected"
	TabAll           Tab = "all"
)

var Tabs = []Tab{TabPending, TabVendorPending, TabApproved, TabRejected, TabAll}

// ParseTab maps a query value to a tab; empty means TabAll.
func ParseTab(s string) (Tab, error) {
	if s == "" {
		return TabAll, nil
	}
	for _, t := range Tabs {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown tab %q", s)
}

// InTab decides which tab a change request is listed under. A request
// waiting on vendor approval is only listed under TabVendorPending.
func InTab(cr ChangeRequest, tab Tab) bool {
	vendorPending := IsPendingVendorApproval(cr)
	switch tab {
	case TabAll:
		return true
	case TabVendorPending:
		return vendorPending
	case TabPending:
		return !vendorPending && (cr.Status == StatusPendingReview || cr.Status == StatusPendingApproval)
	case TabApproved:
		return !vendorPending && (cr.Status == StatusApproved || cr.Status == StatusAssignedToBuyer || cr.Status == StatusVendorApproved)
	case TabRejected:
		return !vendorPending && cr.Status == StatusRejected
	}
	return false
}

// FilterChangeRequests keeps the requests listed under tab, preserving order.
func FilterChangeRequests(crs []ChangeRequest, tab Tab) []ChangeRequest {
	out := make([]ChangeRequest, 0, len(crs))
	for _, cr := range crs {
		if InTab(cr, tab) {
			out = append(out, cr)
		}
	}
	return out
}

// CountByTab returns the badge count of every tab.
func CountByTab(crs []ChangeRequest) map[Tab]int {
	counts := make(map[Tab]int, len(Tabs))
	for _, t := range Tabs {
		counts[t] = 0
	}
	for _, cr := range crs {
		for _, t := range Tabs {
			if InTab(cr, t) {
				counts[t]++
			}
		}
	}
	return counts
}
