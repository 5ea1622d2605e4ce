package checklist

import (
	"sort"

	types "github.com/visabuddy/visabuddy-backend/internal/domain"
)

// Category baselines used when an item carries no usable priority.
const (
	priorityRequired    = 1
	priorityRecommended = 3
	priorityOptional    = 5
)

// Prioritize assigns final ordering. Items without a model-given priority get
// their category baseline; risk-relevant groups are then bumped one step more
// urgent, at most once per item. Sort is stable ascending so equal-priority
// items keep their rule order.
func Prioritize(items []types.ChecklistItem, cctx types.CanonicalContext) []types.ChecklistItem {
	for i := range items {
		if items[i].Priority < 1 {
			items[i].Priority = baselinePriority(items[i].Category)
		}
		if shouldBump(items[i], cctx) && items[i].Priority > 1 {
			items[i].Priority--
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Priority < items[j].Priority
	})
	return items
}

func baselinePriority(category string) int {
	switch category {
	case types.CategoryRequired:
		return priorityRequired
	case types.CategoryHighlyRecommended:
		return priorityRecommended
	default:
		return priorityOptional
	}
}

func shouldBump(item types.ChecklistItem, cctx types.CanonicalContext) bool {
	group := item.Group
	riskGroup := group == types.GroupFinancial || group == types.GroupTies || group == types.GroupEmployment

	if cctx.Risk.Level == types.RiskLevelHigh && riskGroup {
		return true
	}
	fin := cctx.Profile.Financial.FinancialSufficiencyRatio
	if fin != nil && *fin < 1.0 && group == types.GroupFinancial {
		return true
	}
	ties := cctx.Profile.Ties.TiesStrengthScore
	if ties != nil && *ties < 0.5 && group == types.GroupTies {
		return true
	}
	if cctx.Profile.TravelHistory.PreviousVisaRejections &&
		(group == types.GroupFinancial || group == types.GroupTies) {
		return true
	}
	return false
}
