package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"costdashboard/collections"
	"costdashboard/services"
	"costdashboard/templates"
)

// importPayload is the set of validated items carried from the upload step
// to the commit step.
type importPayload struct {
	Infra []services.InfrastructureItem `json:"infra"`
	Labor []services.LaborItem          `json:"labor"`
}

// commitImport appends the items to a project in one transaction. Items are
// validated again because the payload comes back from the client.
func commitImport(app core.App, projectID string, p importPayload) (int, error) {
	for i, it := range p.Infra {
		if err := it.Validate(); err != nil {
			return 0, fmt.Errorf("infrastructure row %d: %w", i+1, err)
		}
	}
	for i, l := range p.Labor {
		if err := l.Validate(); err != nil {
			return 0, fmt.Errorf("labor row %d: %w", i+1, err)
		}
	}

	infraCol, err := app.FindCollectionByNameOrId("infra_items")
	if err != nil {
		return 0, fmt.Errorf("find infra_items collection: %w", err)
	}
	laborCol, err := app.FindCollectionByNameOrId("labor_items")
	if err != nil {
		return 0, fmt.Errorf("find labor_items collection: %w", err)
	}

	infraOrder := collections.NextSortOrder(app, "infra_items", projectID)
	laborOrder := collections.NextSortOrder(app, "labor_items", projectID)

	err = app.RunInTransaction(func(txApp core.App) error {
		for i, it := range p.Infra {
			r := core.NewRecord(infraCol)
			r.Set("project", projectID)
			r.Set("sort_order", infraOrder+i)
			collections.ApplyInfra(r, it)
			if err := txApp.Save(r); err != nil {
				return fmt.Errorf("save infrastructure row %d: %w", i+1, err)
			}
		}
		for i, l := range p.Labor {
			r := core.NewRecord(laborCol)
			r.Set("project", projectID)
			r.Set("sort_order", laborOrder+i)
			collections.ApplyLabor(r, l)
			if err := txApp.Save(r); err != nil {
				return fmt.Errorf("save labor row %d: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(p.Infra) + len(p.Labor), nil
}

// HandleImportTemplate downloads an empty import workbook.
// Route: GET /projects/{id}/import/template
func HandleImportTemplate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		xlsxBytes, err := services.GenerateImportTemplate()
		if err != nil {
			log.Printf("import_template: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		return writeAttachment(e, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			"Estimate_Import_Template.xlsx", xlsxBytes)
	}
}

// HandleImportUpload parses an uploaded workbook. A clean file (or one
// submitted with skip_errors) is imported straight away; otherwise the row
// errors are shown with the option to import only the valid rows.
// Route: POST /projects/{id}/import
func HandleImportUpload(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		project, err := app.FindRecordById("projects", projectID)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}

		// Parse multipart form (max 10MB)
		if err := e.Request.ParseMultipartForm(10 << 20); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "File too large or invalid form data")
		}
		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Please select a file to upload")
		}
		defer file.Close()

		result, err := services.ImportFile(file, header.Filename)
		if err != nil {
			log.Printf("import_upload: %v", err)
			return ErrorToast(e, http.StatusBadRequest, err.Error())
		}

		payload := importPayload{Infra: result.Infra, Labor: result.Labor}
		skipErrors := e.Request.FormValue("skip_errors") == "true"
		if len(result.Errors) == 0 || skipErrors {
			n, err := commitImport(app, projectID, payload)
			if err != nil {
				log.Printf("import_upload: commit: %v", err)
				return ErrorToast(e, http.StatusInternalServerError, "Import failed: "+err.Error())
			}
			log.Printf("import_upload: imported %d rows into project %s (%d skipped)\n", n, projectID, result.ErrorRows)
			SetToast(e, ToastSuccess, fmt.Sprintf("%d rows imported", n))
			return redirectToProject(e, projectID)
		}

		itemsJSON, err := json.Marshal(payload)
		if err != nil {
			log.Printf("import_upload: marshal items: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		errorsJSON, err := json.Marshal(result.Errors)
		if err != nil {
			log.Printf("import_upload: marshal errors: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, ToastWarning, fmt.Sprintf("%d rows have errors", result.ErrorRows))
		data := templates.ImportResultData{
			ProjectID:   projectID,
			ProjectName: project.GetString("name"),
			Result:      result,
			ItemsJSON:   string(itemsJSON),
			ErrorsJSON:  string(errorsJSON),
		}
		var component templ.Component
		if e.Request.Header.Get("HX-Request") == "true" {
			component = templates.ImportResultContent(data)
		} else {
			component = templates.ImportResultPage(data, GetHeaderData(e.Request))
		}
		return component.Render(e.Request.Context(), e.Response)
	}
}

// HandleImportCommit imports the valid rows carried over from the results page.
// Route: POST /projects/{id}/import/commit
func HandleImportCommit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		if _, err := app.FindRecordById("projects", projectID); err != nil {
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		raw := e.Request.FormValue("items_json")
		if raw == "" {
			return ErrorToast(e, http.StatusBadRequest, "File data missing. Please re-upload and try again.")
		}
		var payload importPayload
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid import data")
		}

		n, err := commitImport(app, projectID, payload)
		if err != nil {
			log.Printf("import_commit: %v", err)
			return ErrorToast(e, http.StatusBadRequest, "Import failed: "+err.Error())
		}

		SetToast(e, ToastSuccess, fmt.Sprintf("%d rows imported", n))
		return redirectToProject(e, projectID)
	}
}

// HandleImportErrorReport downloads the row errors of an upload as a workbook.
// Route: POST /projects/{id}/import/errors
func HandleImportErrorReport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		var errors []services.ValidationError
		if err := json.Unmarshal([]byte(e.Request.FormValue("errors_json")), &errors); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid error data")
		}

		xlsxBytes, err := services.GenerateErrorReport(errors)
		if err != nil {
			log.Printf("error_report: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		filename := fmt.Sprintf("Import_Errors_%s.xlsx", time.Now().Format("2006-01-02"))
		return writeAttachment(e, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", filename, xlsxBytes)
	}
}
