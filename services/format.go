package services

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// FormatVND formats an amount in Vietnamese dong: rounded to whole dong,
// grouped with dots, suffixed with the currency sign (e.g. "3.179.400 ₫").
func FormatVND(amount float64) string {
	amount = finiteOrZero(amount)
	return humanize.FormatFloat("#.###,", math.Round(amount)) + " ₫"
}

// FormatVNDCode is FormatVND with the ISO code instead of the currency sign,
// for output whose fonts lack "₫".
func FormatVNDCode(amount float64) string {
	amount = finiteOrZero(amount)
	return humanize.FormatFloat("#.###,", math.Round(amount)) + " VND"
}

// FormatMandays renders an effort figure with at most two decimals.
func FormatMandays(v float64) string {
	return formatQty(math.Round(finiteOrZero(v)*100) / 100)
}

// FormatResources renders a parsed configuration as "8 vCPU / 16 GB RAM / 100 GB".
func FormatResources(r ResourceQuantity) string {
	return fmt.Sprintf("%d vCPU / %d GB RAM / %d GB", r.CPUCores, r.RAMGigabytes, r.StorageGigabytes)
}

// formatQty returns a string representation of the quantity value.
// Whole numbers are formatted without decimals; fractional values get 2 decimal places.
func formatQty(qty float64) string {
	if qty == math.Trunc(qty) {
		return fmt.Sprintf("%.0f", qty)
	}
	return fmt.Sprintf("%.2f", qty)
}
