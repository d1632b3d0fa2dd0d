package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// HandleProjectDelete removes a project; its items go with it through the
// cascading relations.
// Route: DELETE /projects/{id}
func HandleProjectDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		if projectID == "" {
			return e.String(http.StatusBadRequest, "Missing project ID")
		}

		projectRecord, err := app.FindRecordById("projects", projectID)
		if err != nil {
			log.Printf("project_delete: could not find project %s: %v", projectID, err)
			return e.String(http.StatusNotFound, "Project not found")
		}

		if err := app.Delete(projectRecord); err != nil {
			log.Printf("project_delete: failed to delete project %s: %v", projectID, err)
			return e.String(http.StatusInternalServerError, "Failed to delete project")
		}

		log.Printf("project_delete: deleted project %s (%s)\n", projectID, projectRecord.GetString("name"))

		if e.Request.Header.Get("HX-Request") == "true" {
			e.Response.Header().Set("HX-Redirect", "/projects")
			return e.String(http.StatusOK, "")
		}
		return e.Redirect(http.StatusFound, "/projects")
	}
}
