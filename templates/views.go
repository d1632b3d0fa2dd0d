// Package templates holds the HTML views of the dashboard. Components are
// written in the .templ files next to this one; run `templ generate` after
// editing them.
package templates

import (
	"github.com/a-h/templ"

	"costdashboard/services"
)

// NavProject is one entry of the project switcher in the page header.
type NavProject struct {
	ID       string
	Name     string
	IsActive bool
}

// HeaderData is shared by every full page.
type HeaderData struct {
	Projects []NavProject
}

// Option is one <option> of a select.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// ProjectRow is one project in the project list.
type ProjectRow struct {
	ID           string
	Name         string
	ClientName   string
	Reference    string
	Status       string
	InfraMonthly string
	LaborTotal   string
	GrandTotal   string
}

// ProjectListData is the view model of the project list page.
type ProjectListData struct {
	Projects []ProjectRow
	// Create form state, refilled after a failed submit.
	Name            string
	ClientName      string
	ReferenceNumber string
	Status          string
	StatusOptions   []Option
	Errors          map[string]string
}

// InfraRowView is one infrastructure item on the dashboard. Raw values feed
// the edit form; formatted values are for display.
type InfraRowView struct {
	ID                string
	Category          string
	Name              string
	OS                string
	Configuration     string
	Quantity          string
	StorageTier       string
	BandwidthIntl     string
	BandwidthInternal string
	Note              string
	Resources         string
	UnitPrice         string
	TotalPrice        string
}

// LaborRowView is one labor item on the dashboard.
type LaborRowView struct {
	ID          string
	TaskName    string
	Role        string
	Mandays     string
	Description string
	Status      string
	Priority    string
	Assignee    string
	DueDate     string
	Rate        string
	Cost        string
}

// PriceFieldView is one editable price of a price table.
type PriceFieldView struct {
	Name  string
	Label string
	Value string
}

// SubtotalView is a labelled amount.
type SubtotalView struct {
	Label  string
	Amount string
}

// DashboardData is the view model of a project's estimate page.
type DashboardData struct {
	ProjectID       string
	Name            string
	ClientName      string
	Reference       string
	Status          string
	StatusOptions   []Option
	Infra           []InfraRowView
	InfraByCategory []SubtotalView
	InfraMonthly    string
	Labor           []LaborRowView
	ManualLabor     string
	AutoStaffing    []SubtotalView
	DevMandays      string
	AutoStaffingSum string
	LaborTotal      string
	GrandTotal      string
	UnitPrices      []PriceFieldView
	LaborPrices     []PriceFieldView
	CategoryOptions []Option
	TierOptions     []Option
	RoleOptions     []Option
	ProjectErrors   map[string]string
	InfraErrors     map[string]string
	LaborErrors     map[string]string
}

// ImportResultData is the view model of the import validation page.
type ImportResultData struct {
	ProjectID   string
	ProjectName string
	Result      *services.ImportResult
	// Serialized valid items and errors, posted back by the commit and
	// error report forms.
	ItemsJSON  string
	ErrorsJSON string
}

func (d ImportResultData) validRows() int {
	return len(d.Result.Infra) + len(d.Result.Labor)
}

// selected returns opts with the option whose value is v marked selected.
func selected(opts []Option, v string) []Option {
	out := make([]Option, len(opts))
	for i, o := range opts {
		o.Selected = o.Value == v
		out[i] = o
	}
	return out
}

// formAttr binds a control to a form elsewhere in the document. An empty
// form leaves the control in its enclosing form.
func formAttr(form string) templ.Attributes {
	if form == "" {
		return templ.Attributes{}
	}
	return templ.Attributes{"form": form}
}

func inputAttrs(form, typ string) templ.Attributes {
	attrs := formAttr(form)
	if typ == "number" {
		attrs["step"] = "any"
		attrs["min"] = "0"
	}
	return attrs
}

func navClass(p NavProject) string {
	if p.IsActive {
		return "nav-project active"
	}
	return "nav-project"
}

func autoRowClass(r services.LaborExportRow) string {
	if r.Auto {
		return "auto"
	}
	return ""
}
