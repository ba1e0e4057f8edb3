package template

import (
	"fmt"
	"math"
	"sort"
)

// round2 rounds to two-decimal currency precision.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// chargesAssets reports whether the billing model includes per-asset charges.
func (m BillingModel) chargesAssets() bool {
	return m == BillingPerAsset || m == BillingTiered || m == BillingHybrid
}

// chargesContacts reports whether the billing model includes per-contact charges.
func (m BillingModel) chargesContacts() bool {
	return m == BillingPerContact || m == BillingTiered || m == BillingHybrid
}

// applyRates computes the rate-based charge categories gated by the billing
// model and totals the breakdown. The base amount and usage charges are
// whatever the formula evaluator seeded (or the configured base price).
// Unknown asset types and contact tiers price at zero with a warning; that
// documents a gap in the template's rate tables rather than blocking the
// calculation.
func (t *Template) applyRates(usage UsageData, bd *Breakdown) {
	model := t.Billing.Model

	if model.chargesAssets() {
		for _, assetType := range sortedKeys(usage.Assets) {
			count := usage.Assets[assetType]
			rate, ok := t.Billing.AssetRates[assetType]
			if !ok {
				rate = t.Billing.DefaultAssetRate
			}
			if !ok && rate == 0 {
				bd.Warnings = append(bd.Warnings, fmt.Sprintf("no rate configured for asset type %q, charged at 0", assetType))
			}
			bd.AssetCharges += rate * float64(count)
		}
		bd.AssetCharges = round2(bd.AssetCharges)
	}

	if model.chargesContacts() {
		for _, tier := range sortedKeys(usage.Contacts) {
			count := usage.Contacts[tier]
			rate, ok := t.Billing.ContactRates[tier]
			if !ok {
				rate = t.Billing.DefaultContactRate
			}
			if !ok && rate == 0 {
				bd.Warnings = append(bd.Warnings, fmt.Sprintf("no rate configured for contact tier %q, charged at 0", tier))
			}
			bd.ContactCharges += rate * float64(count)
		}
		bd.ContactCharges = round2(bd.ContactCharges)
	}

	bd.Total = round2(bd.Base + bd.AssetCharges + bd.ContactCharges + bd.UsageCharges)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
