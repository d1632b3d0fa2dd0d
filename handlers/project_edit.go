package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// HandleProjectUpdate saves a project's name, client, reference and status.
// Price tables are saved separately by HandlePricesSave.
// Route: POST /projects/{id}/save
func HandleProjectUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		if projectID == "" {
			return e.String(http.StatusBadRequest, "Missing project ID")
		}

		if err := e.Request.ParseForm(); err != nil {
			return e.String(http.StatusBadRequest, "Invalid form data")
		}

		record, err := app.FindRecordById("projects", projectID)
		if err != nil {
			log.Printf("project_update: could not find project %s: %v", projectID, err)
			return e.String(http.StatusNotFound, "Project not found")
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
			status = record.GetString("status")
		}

		if name != "" {
			existing, _ := app.FindRecordsByFilter(
				"projects",
				"name = {:name} && id != {:id}",
				"", 1, 0,
				map[string]any{"name": name, "id": projectID},
			)
			if len(existing) > 0 {
				errors["name"] = "A project with this name already exists"
			}
		}

		if len(errors) > 0 {
			SetToast(e, ToastWarning, "Please fix the errors below")
			return renderDashboard(e, app, record, dashboardErrors{Project: errors})
		}

		record.Set("name", name)
		record.Set("client_name", clientName)
		record.Set("reference_number", refNumber)
		record.Set("status", status)

		if err := app.Save(record); err != nil {
			log.Printf("project_update: could not save project %s: %v", projectID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, ToastSuccess, "Project updated")
		return redirectToProject(e, projectID)
	}
}
