package services

// Role is the job function a labor item is billed as.
type Role string

const (
	RolePM              Role = "PM"
	RoleBA              Role = "BA"
	RoleSeniorDeveloper Role = "SeniorDeveloper"
	RoleJuniorDeveloper Role = "JuniorDeveloper"
	RoleTester          Role = "Tester"
	RoleDesigner        Role = "Designer"
)

// Roles lists every role in display order.
var Roles = []Role{RolePM, RoleBA, RoleSeniorDeveloper, RoleJuniorDeveloper, RoleTester, RoleDesigner}

// RoleLabel returns the human-readable name of a role.
func RoleLabel(r Role) string {
	switch r {
	case RolePM:
		return "Project Manager"
	case RoleBA:
		return "Business Analyst"
	case RoleSeniorDeveloper:
		return "Senior Developer"
	case RoleJuniorDeveloper:
		return "Junior Developer"
	case RoleTester:
		return "Tester/QA"
	case RoleDesigner:
		return "Designer"
	}
	return string(r)
}

// IsDeveloper reports whether effort on r drives auto staffing.
func IsDeveloper(r Role) bool {
	return r == RoleSeniorDeveloper || r == RoleJuniorDeveloper
}

// LaborItem is one task of a project's labor estimate. Status, priority,
// assignee and due date are workflow metadata and do not affect cost.
type LaborItem struct {
	ID          string  `json:"id"`
	TaskName    string  `json:"taskName"`
	Role        Role    `json:"role"`
	Mandays     float64 `json:"mandays"`
	Description string  `json:"description"`
	Status      string  `json:"status,omitempty"`
	Priority    string  `json:"priority,omitempty"`
	Assignee    string  `json:"assignee,omitempty"`
	DueDate     string  `json:"dueDate,omitempty"`
}

// LaborPriceTable maps each role to its daily rate.
type LaborPriceTable map[Role]float64

// Rate returns the daily rate of r, or 0 if the role is not priced.
func (t LaborPriceTable) Rate(r Role) float64 {
	return finiteOrZero(t[r])
}

// CalcLaborCost returns mandays × daily rate for a labor item. Unknown roles
// and non-numeric mandays cost 0.
func CalcLaborCost(item LaborItem, prices LaborPriceTable) float64 {
	return finiteOrZero(item.Mandays) * prices.Rate(item.Role)
}

// CalcManualLaborTotal sums CalcLaborCost over every labor item.
func CalcManualLaborTotal(labors []LaborItem, prices LaborPriceTable) float64 {
	var sum float64
	for _, l := range labors {
		sum += CalcLaborCost(l, prices)
	}
	return sum
}

// AutoStaffingRatio is the PM, BA and Tester effort implied per developer
// manday. The same ratio applies to all three roles.
const AutoStaffingRatio = 1.0 / 3.0

// AutoStaffingStats is the overhead effort derived from developer effort.
type AutoStaffingStats struct {
	DevTotalMandays float64 `json:"devTotalMandays"`
	PMMandays       float64 `json:"pmMandays"`
	BAMandays       float64 `json:"baMandays"`
	TesterMandays   float64 `json:"testerMandays"`
}

// ComputeAutoStaffing sums senior and junior developer mandays and derives
// PM, BA and Tester effort from it using AutoStaffingRatio.
func ComputeAutoStaffing(labors []LaborItem) AutoStaffingStats {
	var dev float64
	for _, l := range labors {
		if IsDeveloper(l.Role) {
			dev += finiteOrZero(l.Mandays)
		}
	}
	return AutoStaffingStats{
		DevTotalMandays: dev,
		PMMandays:       dev * AutoStaffingRatio,
		BAMandays:       dev * AutoStaffingRatio,
		TesterMandays:   dev * AutoStaffingRatio,
	}
}

// AutoStaffingLines returns the derived effort as priceable labor items, in
// PM, BA, Tester order.
func AutoStaffingLines(stats AutoStaffingStats) []LaborItem {
	return []LaborItem{
		{TaskName: "Project management (auto)", Role: RolePM, Mandays: stats.PMMandays},
		{TaskName: "Business analysis (auto)", Role: RoleBA, Mandays: stats.BAMandays},
		{TaskName: "Testing/QA (auto)", Role: RoleTester, Mandays: stats.TesterMandays},
	}
}

// PriceAutoStaffing prices derived PM, BA and Tester effort with the labor
// rate table. Missing rates count as 0.
func PriceAutoStaffing(stats AutoStaffingStats, prices LaborPriceTable) float64 {
	return CalcManualLaborTotal(AutoStaffingLines(stats), prices)
}
