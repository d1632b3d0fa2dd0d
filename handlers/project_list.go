package handlers

import (
	"log"
	"net/http"
	"runtime"
	"slices"
	"strings"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"costdashboard/collections"
	"costdashboard/services"
	"costdashboard/templates"
)

// loadAllProjects returns every project ordered by name.
func loadAllProjects(app core.App) ([]*core.Record, error) {
	projectsCol, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		return nil, err
	}
	records, err := app.FindAllRecords(projectsCol)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(records, func(a, b *core.Record) int {
		return strings.Compare(strings.ToLower(a.GetString("name")), strings.ToLower(b.GetString("name")))
	})
	return records, nil
}

// buildProjectRows estimates every project and returns one list row each.
// Projects whose data cannot be loaded are listed with zero totals.
func buildProjectRows(e *core.RequestEvent, app core.App, records []*core.Record) ([]templates.ProjectRow, error) {
	inputs := make([]services.ProjectInput, len(records))
	for i, rec := range records {
		in, err := collections.LoadProjectInput(app, rec)
		if err != nil {
			log.Printf("project_list: %v", err)
			in = services.ProjectInput{Name: rec.GetString("name")}
		}
		inputs[i] = in
	}

	estimates, err := services.EstimateProjects(e.Request.Context(), inputs, runtime.GOMAXPROCS(0))
	if err != nil {
		return nil, err
	}

	rows := make([]templates.ProjectRow, len(records))
	for i, rec := range records {
		est := estimates[i]
		rows[i] = templates.ProjectRow{
			ID:           rec.Id,
			Name:         rec.GetString("name"),
			ClientName:   rec.GetString("client_name"),
			Reference:    rec.GetString("reference_number"),
			Status:       rec.GetString("status"),
			InfraMonthly: services.FormatVND(est.InfraMonthly),
			LaborTotal:   services.FormatVND(est.LaborTotal),
			GrandTotal:   services.FormatVND(est.GrandTotal),
		}
	}
	return rows, nil
}

func renderProjectList(e *core.RequestEvent, app core.App, data templates.ProjectListData) error {
	records, err := loadAllProjects(app)
	if err != nil {
		log.Printf("project_list: could not query projects: %v", err)
		return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}

	data.Projects, err = buildProjectRows(e, app, records)
	if err != nil {
		log.Printf("project_list: estimate projects: %v", err)
		return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
	if data.StatusOptions == nil {
		data.StatusOptions = statusOptions(data.Status)
	}

	var component templ.Component
	if e.Request.Header.Get("HX-Request") == "true" {
		component = templates.ProjectListContent(data)
	} else {
		component = templates.ProjectListPage(data, GetHeaderData(e.Request))
	}
	return component.Render(e.Request.Context(), e.Response)
}

// HandleProjectList renders all projects with their estimated totals.
// Route: GET /projects
func HandleProjectList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return renderProjectList(e, app, templates.ProjectListData{Status: "draft"})
	}
}
