package services

// InfraExportRow is one infrastructure line of a quotation.
type InfraExportRow struct {
	Index           string
	Category        string
	Name            string
	OperatingSystem string
	Configuration   string
	Resources       ResourceQuantity
	StorageTier     string
	Quantity        int
	UnitPrice       float64
	TotalPrice      float64
	Note            string
}

// LaborExportRow is one labor line of a quotation. Auto marks effort derived
// from the staffing ratio rather than entered by hand.
type LaborExportRow struct {
	Index    string
	TaskName string
	Role     string
	Mandays  float64
	Rate     float64
	Cost     float64
	Auto     bool
}

// ExportData holds all data needed for a quotation export.
type ExportData struct {
	Title            string
	ClientName       string
	ReferenceNumber  string
	CreatedDate      string
	InfraRows        []InfraExportRow
	LaborRows        []LaborExportRow
	InfraMonthly     float64
	ManualLabor      float64
	AutoStaffingCost float64
	LaborTotal       float64
	GrandTotal       float64
}

// BuildExportData flattens an estimate into quotation rows. Auto staffing
// lines are appended after the manual labor items.
func BuildExportData(est ProjectEstimate, prices LaborPriceTable) ExportData {
	data := ExportData{
		Title:            est.Name,
		InfraMonthly:     est.InfraMonthly,
		ManualLabor:      est.ManualLabor,
		AutoStaffingCost: est.AutoStaffingCost,
		LaborTotal:       est.LaborTotal,
		GrandTotal:       est.GrandTotal,
	}

	for i, l := range est.InfraLines {
		name := l.Item.DisplayName
		if name == "" {
			name = string(l.Item.Category)
		}
		data.InfraRows = append(data.InfraRows, InfraExportRow{
			Index:           itoa(i + 1),
			Category:        string(l.Item.Category),
			Name:            name,
			OperatingSystem: l.Item.OperatingSystem,
			Configuration:   l.Item.ConfigurationText,
			Resources:       l.Breakdown.Resources,
			StorageTier:     StorageTierLabel(l.Item.StorageTier),
			Quantity:        l.Item.EffectiveQuantity(),
			UnitPrice:       l.Result.UnitPrice,
			TotalPrice:      l.Result.TotalPrice,
			Note:            l.Item.Note,
		})
	}

	for i, l := range est.LaborLines {
		data.LaborRows = append(data.LaborRows, LaborExportRow{
			Index:    itoa(i + 1),
			TaskName: l.Item.TaskName,
			Role:     RoleLabel(l.Item.Role),
			Mandays:  l.Item.Mandays,
			Rate:     l.Rate,
			Cost:     l.Cost,
		})
	}

	if est.AutoStaffing.DevTotalMandays > 0 {
		for _, a := range AutoStaffingLines(est.AutoStaffing) {
			data.LaborRows = append(data.LaborRows, LaborExportRow{
				Index:    "*",
				TaskName: a.TaskName,
				Role:     RoleLabel(a.Role),
				Mandays:  a.Mandays,
				Rate:     prices.Rate(a.Role),
				Cost:     CalcLaborCost(a, prices),
				Auto:     true,
			})
		}
	}

	return data
}
