package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cast"

	"costdashboard/collections"
	"costdashboard/services"
	"costdashboard/templates"
)

// laborPriceField is the form field name of a role's daily rate.
func laborPriceField(r services.Role) string {
	return "rate_" + string(r)
}

func formatPrice(v float64) string {
	return cast.ToString(v)
}

// buildDashboardData turns a priced project into the dashboard view model.
func buildDashboardData(project *core.Record, in services.ProjectInput, est services.ProjectEstimate) templates.DashboardData {
	data := templates.DashboardData{
		ProjectID:       project.Id,
		Name:            project.GetString("name"),
		ClientName:      project.GetString("client_name"),
		Reference:       project.GetString("reference_number"),
		Status:          project.GetString("status"),
		StatusOptions:   statusOptions(project.GetString("status")),
		InfraMonthly:    services.FormatVND(est.InfraMonthly),
		ManualLabor:     services.FormatVND(est.ManualLabor),
		DevMandays:      services.FormatMandays(est.AutoStaffing.DevTotalMandays),
		AutoStaffingSum: services.FormatVND(est.AutoStaffingCost),
		LaborTotal:      services.FormatVND(est.LaborTotal),
		GrandTotal:      services.FormatVND(est.GrandTotal),
		CategoryOptions: categoryOptions(),
		TierOptions:     storageTierOptions(),
		RoleOptions:     roleOptions(),
	}

	for _, l := range est.InfraLines {
		it := l.Item
		data.Infra = append(data.Infra, templates.InfraRowView{
			ID:                it.ID,
			Category:          string(it.Category),
			Name:              it.DisplayName,
			OS:                it.OperatingSystem,
			Configuration:     it.ConfigurationText,
			Quantity:          cast.ToString(it.Quantity),
			StorageTier:       string(it.StorageTier),
			BandwidthIntl:     formatPrice(it.InternationalBandwidthMbps),
			BandwidthInternal: formatPrice(it.InternalBandwidthMbps),
			Note:              it.Note,
			Resources:         services.FormatResources(l.Breakdown.Resources),
			UnitPrice:         services.FormatVND(l.Result.UnitPrice),
			TotalPrice:        services.FormatVND(l.Result.TotalPrice),
		})
	}
	for _, c := range services.Categories {
		if amount, ok := est.InfraByCategory[c]; ok {
			data.InfraByCategory = append(data.InfraByCategory, templates.SubtotalView{
				Label:  string(c),
				Amount: services.FormatVND(amount),
			})
		}
	}

	for _, l := range est.LaborLines {
		it := l.Item
		data.Labor = append(data.Labor, templates.LaborRowView{
			ID:          it.ID,
			TaskName:    it.TaskName,
			Role:        string(it.Role),
			Mandays:     formatPrice(it.Mandays),
			Description: it.Description,
			Status:      it.Status,
			Priority:    it.Priority,
			Assignee:    it.Assignee,
			DueDate:     it.DueDate,
			Rate:        services.FormatVND(l.Rate),
			Cost:        services.FormatVND(l.Cost),
		})
	}

	for _, a := range services.AutoStaffingLines(est.AutoStaffing) {
		data.AutoStaffing = append(data.AutoStaffing, templates.SubtotalView{
			Label:  fmt.Sprintf("%s: %s mandays", services.RoleLabel(a.Role), services.FormatMandays(a.Mandays)),
			Amount: services.FormatVND(services.CalcLaborCost(a, in.LaborPrices)),
		})
	}

	for _, k := range services.PriceKeys {
		data.UnitPrices = append(data.UnitPrices, templates.PriceFieldView{
			Name:  string(k),
			Label: unitPriceLabel(k),
			Value: formatPrice(in.UnitPrices.Price(k)),
		})
	}
	for _, r := range services.Roles {
		data.LaborPrices = append(data.LaborPrices, templates.PriceFieldView{
			Name:  laborPriceField(r),
			Label: services.RoleLabel(r),
			Value: formatPrice(in.LaborPrices.Rate(r)),
		})
	}
	return data
}

func unitPriceLabel(k services.PriceKey) string {
	switch k {
	case services.PriceCPU:
		return "CPU (per core)"
	case services.PriceRAM:
		return "RAM (per GB)"
	case services.PriceDiskSanAllFlash, services.PriceDiskSanHDD, services.PriceObjectStorage:
		return services.StorageTierLabel(services.StorageTier(k)) + " (per GB)"
	case services.PriceBandwidthInternational:
		return "International bandwidth (per Mbps)"
	case services.PriceBandwidthInternal:
		return "Internal bandwidth (per Mbps)"
	case services.PriceOSWindows:
		return "Windows licence"
	case services.PriceOSLinux:
		return "Linux licence"
	}
	return string(k)
}

// dashboardErrors holds the field errors of a rejected dashboard form.
type dashboardErrors struct {
	Project map[string]string
	Infra   map[string]string
	Labor   map[string]string
}

// renderDashboard estimates a project and renders its dashboard. Form errors
// from a rejected submit are shown next to the form that caused them.
func renderDashboard(e *core.RequestEvent, app core.App, project *core.Record, errs dashboardErrors) error {
	in, err := collections.LoadProjectInput(app, project)
	if err != nil {
		log.Printf("project_view: %v", err)
		return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
	est := services.EstimateProject(in)

	data := buildDashboardData(project, in, est)
	data.ProjectErrors = errs.Project
	data.InfraErrors = errs.Infra
	data.LaborErrors = errs.Labor

	var component templ.Component
	if e.Request.Header.Get("HX-Request") == "true" {
		component = templates.DashboardContent(data)
	} else {
		component = templates.DashboardPage(data, GetHeaderData(e.Request))
	}
	return component.Render(e.Request.Context(), e.Response)
}

// HandleProjectView renders a project's estimate dashboard.
// Route: GET /projects/{id}
func HandleProjectView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		if projectID == "" {
			return e.String(http.StatusBadRequest, "Missing project ID")
		}

		record, err := app.FindRecordById("projects", projectID)
		if err != nil {
			log.Printf("project_view: could not find project %s: %v", projectID, err)
			return e.String(http.StatusNotFound, "Project not found")
		}
		return renderDashboard(e, app, record, dashboardErrors{})
	}
}

// estimateResponse is the JSON form of a project estimate.
type estimateResponse struct {
	Project          string                        `json:"project"`
	Infra            []estimateInfraLine           `json:"infra"`
	InfraByCategory  map[services.Category]float64 `json:"infraByCategory"`
	InfraMonthly     float64                       `json:"infraMonthly"`
	Labor            []estimateLaborLine           `json:"labor"`
	ManualLabor      float64                       `json:"manualLabor"`
	AutoStaffing     services.AutoStaffingStats    `json:"autoStaffing"`
	AutoStaffingCost float64                       `json:"autoStaffingCost"`
	LaborTotal       float64                       `json:"laborTotal"`
	GrandTotal       float64                       `json:"grandTotal"`
}

type estimateInfraLine struct {
	services.InfrastructureItem
	Resources services.ResourceQuantity `json:"resources"`
	UnitPrice float64                   `json:"unitPrice"`
	Total     float64                   `json:"totalPrice"`
}

type estimateLaborLine struct {
	services.LaborItem
	Rate float64 `json:"rate"`
	Cost float64 `json:"cost"`
}

// HandleProjectEstimate returns a project's priced estimate as JSON.
// Route: GET /projects/{id}/estimate
func HandleProjectEstimate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		record, err := app.FindRecordById("projects", projectID)
		if err != nil {
			return e.JSON(http.StatusNotFound, map[string]string{"error": "project not found"})
		}

		in, err := collections.LoadProjectInput(app, record)
		if err != nil {
			log.Printf("project_estimate: %v", err)
			return e.JSON(http.StatusInternalServerError, map[string]string{"error": "could not load project"})
		}
		est := services.EstimateProject(in)

		resp := estimateResponse{
			Project:          est.Name,
			InfraByCategory:  est.InfraByCategory,
			InfraMonthly:     est.InfraMonthly,
			ManualLabor:      est.ManualLabor,
			AutoStaffing:     est.AutoStaffing,
			AutoStaffingCost: est.AutoStaffingCost,
			LaborTotal:       est.LaborTotal,
			GrandTotal:       est.GrandTotal,
			Infra:            []estimateInfraLine{},
			Labor:            []estimateLaborLine{},
		}
		for _, l := range est.InfraLines {
			resp.Infra = append(resp.Infra, estimateInfraLine{
				InfrastructureItem: l.Item,
				Resources:          l.Breakdown.Resources,
				UnitPrice:          l.Result.UnitPrice,
				Total:              l.Result.TotalPrice,
			})
		}
		for _, l := range est.LaborLines {
			resp.Labor = append(resp.Labor, estimateLaborLine{LaborItem: l.Item, Rate: l.Rate, Cost: l.Cost})
		}
		return e.JSON(http.StatusOK, resp)
	}
}
