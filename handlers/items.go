package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"costdashboard/collections"
	"costdashboard/services"
)

// redirectToProject sends the browser back to a project's dashboard.
func redirectToProject(e *core.RequestEvent, projectID string) error {
	target := fmt.Sprintf("/projects/%s", projectID)
	if e.Request.Header.Get("HX-Request") == "true" {
		e.Response.Header().Set("HX-Redirect", target)
		return e.String(http.StatusOK, "")
	}
	return e.Redirect(http.StatusFound, target)
}

// findProjectItem loads an item and checks that it belongs to the project.
func findProjectItem(app core.App, collection, projectID, itemID string) (*core.Record, error) {
	item, err := app.FindRecordById(collection, itemID)
	if err != nil {
		return nil, err
	}
	if item.GetString("project") != projectID {
		return nil, fmt.Errorf("%s %s does not belong to project %s", collection, itemID, projectID)
	}
	return item, nil
}

// ── Infrastructure items ────────────────────────────────────────────────

// HandleInfraAdd appends an infrastructure item to a project.
// Route: POST /projects/{id}/infra
func HandleInfraAdd(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		project, err := app.FindRecordById("projects", projectID)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		item, errs := infraFromForm(e)
		if len(errs) > 0 {
			SetToast(e, ToastWarning, "Please fix the errors below")
			return renderDashboard(e, app, project, dashboardErrors{Infra: errs})
		}

		col, err := app.FindCollectionByNameOrId("infra_items")
		if err != nil {
			log.Printf("infra_add: could not find infra_items collection: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		record := core.NewRecord(col)
		record.Set("project", projectID)
		record.Set("sort_order", collections.NextSortOrder(app, "infra_items", projectID))
		collections.ApplyInfra(record, item)
		if err := app.Save(record); err != nil {
			log.Printf("infra_add: could not save item: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, ToastSuccess, "Server added")
		return redirectToProject(e, projectID)
	}
}

// HandleInfraUpdate replaces an infrastructure item with the submitted values.
// Route: POST /projects/{id}/infra/{itemId}
func HandleInfraUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		project, err := app.FindRecordById("projects", projectID)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}
		record, err := findProjectItem(app, "infra_items", projectID, e.Request.PathValue("itemId"))
		if err != nil {
			log.Printf("infra_update: %v", err)
			return ErrorToast(e, http.StatusNotFound, "Server not found")
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		item, errs := infraFromForm(e)
		if len(errs) > 0 {
			SetToast(e, ToastWarning, "Please fix the errors below")
			return renderDashboard(e, app, project, dashboardErrors{Infra: errs})
		}

		collections.ApplyInfra(record, item)
		if err := app.Save(record); err != nil {
			log.Printf("infra_update: could not save item %s: %v", record.Id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, ToastSuccess, "Server updated")
		return redirectToProject(e, projectID)
	}
}

// HandleInfraDelete removes an infrastructure item.
// Route: DELETE /projects/{id}/infra/{itemId}
func HandleInfraDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return deleteProjectItem(e, app, "infra_items", "Server removed")
	}
}

// ── Labor items ─────────────────────────────────────────────────────────

// HandleLaborAdd appends a labor item to a project.
// Route: POST /projects/{id}/labor
func HandleLaborAdd(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		project, err := app.FindRecordById("projects", projectID)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		item, errs := laborFromForm(e)
		if len(errs) > 0 {
			SetToast(e, ToastWarning, "Please fix the errors below")
			return renderDashboard(e, app, project, dashboardErrors{Labor: errs})
		}

		col, err := app.FindCollectionByNameOrId("labor_items")
		if err != nil {
			log.Printf("labor_add: could not find labor_items collection: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		record := core.NewRecord(col)
		record.Set("project", projectID)
		record.Set("sort_order", collections.NextSortOrder(app, "labor_items", projectID))
		collections.ApplyLabor(record, item)
		if err := app.Save(record); err != nil {
			log.Printf("labor_add: could not save item: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, ToastSuccess, "Task added")
		return redirectToProject(e, projectID)
	}
}

// HandleLaborUpdate replaces a labor item with the submitted values.
// Route: POST /projects/{id}/labor/{itemId}
func HandleLaborUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		project, err := app.FindRecordById("projects", projectID)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}
		record, err := findProjectItem(app, "labor_items", projectID, e.Request.PathValue("itemId"))
		if err != nil {
			log.Printf("labor_update: %v", err)
			return ErrorToast(e, http.StatusNotFound, "Task not found")
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		item, errs := laborFromForm(e)
		if len(errs) > 0 {
			SetToast(e, ToastWarning, "Please fix the errors below")
			return renderDashboard(e, app, project, dashboardErrors{Labor: errs})
		}

		collections.ApplyLabor(record, item)
		if err := app.Save(record); err != nil {
			log.Printf("labor_update: could not save item %s: %v", record.Id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, ToastSuccess, "Task updated")
		return redirectToProject(e, projectID)
	}
}

// HandleLaborDelete removes a labor item.
// Route: DELETE /projects/{id}/labor/{itemId}
func HandleLaborDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return deleteProjectItem(e, app, "labor_items", "Task removed")
	}
}

func deleteProjectItem(e *core.RequestEvent, app core.App, collection, message string) error {
	projectID := e.Request.PathValue("id")
	itemID := e.Request.PathValue("itemId")

	record, err := findProjectItem(app, collection, projectID, itemID)
	if err != nil {
		log.Printf("item_delete: %v", err)
		return ErrorToast(e, http.StatusNotFound, "Item not found")
	}
	if err := app.Delete(record); err != nil {
		log.Printf("item_delete: failed to delete %s %s: %v", collection, itemID, err)
		return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}

	SetToast(e, ToastSuccess, message)
	return redirectToProject(e, projectID)
}

// ── Price tables ────────────────────────────────────────────────────────

// HandlePricesSave stores a project's unit price and labor rate tables.
// Route: POST /projects/{id}/prices
func HandlePricesSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		project, err := app.FindRecordById("projects", projectID)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		var unit services.UnitPriceTable
		for _, k := range services.PriceKeys {
			v, err := formNumber(e.Request.FormValue(string(k)))
			if err != nil || v < 0 {
				return ErrorToast(e, http.StatusBadRequest, unitPriceLabel(k)+" must be a non-negative number")
			}
			unit.SetPrice(k, v)
		}

		labor := services.LaborPriceTable{}
		for _, r := range services.Roles {
			v, err := formNumber(e.Request.FormValue(laborPriceField(r)))
			if err != nil || v < 0 {
				return ErrorToast(e, http.StatusBadRequest, services.RoleLabel(r)+" rate must be a non-negative number")
			}
			labor[r] = v
		}

		project.Set("unit_prices", unit)
		project.Set("labor_prices", labor)
		if err := app.Save(project); err != nil {
			log.Printf("prices_save: could not save project %s: %v", projectID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, ToastSuccess, "Prices saved")
		return redirectToProject(e, projectID)
	}
}
