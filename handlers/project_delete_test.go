package handlers

import (
	"net/http"
	"testing"

	"costdashboard/services"
	"costdashboard/testhelpers"
)

func TestHandleProjectDelete_CascadesItems(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Doomed")
	infra := testhelpers.CreateTestInfraItem(t, app, project.Id, "CPU: 2 core; RAM 4GB", 1)
	labor := testhelpers.CreateTestLaborItem(t, app, project.Id, "API", services.RoleSeniorDeveloper, 3)

	req := newFormRequest(http.MethodDelete, "/projects/"+project.Id, nil, "id", project.Id)
	req.Header.Set("HX-Request", "true")
	rec := runHandler(t, app, HandleProjectDelete(app), req)

	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/projects")

	if _, err := app.FindRecordById("projects", project.Id); err == nil {
		t.Error("expected project to be deleted")
	}
	if _, err := app.FindRecordById("infra_items", infra.Id); err == nil {
		t.Error("expected infra item to be deleted with its project")
	}
	if _, err := app.FindRecordById("labor_items", labor.Id); err == nil {
		t.Error("expected labor item to be deleted with its project")
	}
}

func TestHandleProjectDelete_LeavesOtherProjects(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	doomed := testhelpers.CreateTestProject(t, app, "Doomed")
	keep := testhelpers.CreateTestProject(t, app, "Keep")
	kept := testhelpers.CreateTestInfraItem(t, app, keep.Id, "CPU: 2 core", 1)

	runHandler(t, app, HandleProjectDelete(app),
		newFormRequest(http.MethodDelete, "/projects/"+doomed.Id, nil, "id", doomed.Id))

	if _, err := app.FindRecordById("infra_items", kept.Id); err != nil {
		t.Errorf("expected other project's item to survive: %v", err)
	}
}

func TestHandleProjectDelete_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	rec := runHandler(t, app, HandleProjectDelete(app),
		newFormRequest(http.MethodDelete, "/projects/nonexistent", nil, "id", "nonexistent"))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}
