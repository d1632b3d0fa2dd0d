package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"costdashboard/collections"
	"costdashboard/templates"
)

var ProjectStatusOptions = collections.ProjectStatuses

// HandleProjectSave creates a project priced with the default tables.
// Route: POST /projects
func HandleProjectSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		name := strings.TrimSpace(e.Request.FormValue("name"))
		clientName := strings.TrimSpace(e.Request.FormValue("client_name"))
		refNumber := strings.TrimSpace(e.Request.FormValue("reference_number"))
		status := strings.TrimSpace(e.Request.FormValue("status"))

		errors := make(map[string]string)
		if name == "" {
			errors["name"] = "Project name is required"
		}

		validStatus := false
		for _, s := range ProjectStatusOptions {
			if status == s {
				validStatus = true
				break
			}
		}
		if !validStatus {
			status = "draft"
		}

		if name != "" {
			existing, _ := app.FindRecordsByFilter(
				"projects",
				"name = {:name}",
				"", 1, 0,
				map[string]any{"name": name},
			)
			if len(existing) > 0 {
				errors["name"] = "A project with this name already exists"
			}
		}

		if len(errors) > 0 {
			SetToast(e, ToastWarning, "Please fix the errors below")
			return renderProjectList(e, app, templates.ProjectListData{
				Name:            name,
				ClientName:      clientName,
				ReferenceNumber: refNumber,
				Status:          status,
				StatusOptions:   statusOptions(status),
				Errors:          errors,
			})
		}

		projectsCol, err := app.FindCollectionByNameOrId("projects")
		if err != nil {
			log.Printf("project_create: could not find projects collection: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(projectsCol)
		record.Set("name", name)
		record.Set("client_name", clientName)
		record.Set("reference_number", refNumber)
		record.Set("status", status)
		record.Set("unit_prices", collections.DefaultUnitPrices())
		record.Set("labor_prices", collections.DefaultLaborPrices())

		if err := app.Save(record); err != nil {
			log.Printf("project_create: could not save project: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, ToastSuccess, "Project created successfully")

		target := "/projects/" + record.Id
		if e.Request.Header.Get("HX-Request") == "true" {
			e.Response.Header().Set("HX-Redirect", target)
			return e.String(http.StatusOK, "")
		}
		return e.Redirect(http.StatusFound, target)
	}
}
