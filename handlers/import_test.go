package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/xuri/excelize/v2"

	"costdashboard/collections"
	"costdashboard/services"
	"costdashboard/testhelpers"
)

// newUploadRequest builds a multipart import request for a project.
func newUploadRequest(t *testing.T, projectID, fileName, content string, skipErrors bool) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	part.Write([]byte(content))
	if skipErrors {
		w.WriteField("skip_errors", "true")
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/projects/"+projectID+"/import", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("HX-Request", "true")
	req.SetPathValue("id", projectID)
	return req
}

const laborCSV = "Task,Role,Mandays\n" +
	"Build API,Senior Developer,5\n" +
	"Regression,QC,2\n"

func TestHandleImportUpload_CleanFileCommits(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Import Project")
	testhelpers.CreateTestLaborItem(t, app, project.Id, "Existing", services.RolePM, 1)

	csv := "Task,Role,Mandays\nBuild API,Senior Developer,5\nWrite tests,Tester/QA,2\n"
	rec := runHandler(t, app, HandleImportUpload(app), newUploadRequest(t, project.Id, "labor.csv", csv, false))

	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/projects/"+project.Id)

	records, _ := collections.FindProjectItems(app, "labor_items", project.Id)
	if len(records) != 3 {
		t.Fatalf("expected 3 labor items, got %d", len(records))
	}
	// Imported rows are appended after existing items.
	if got := records[1].GetString("task_name"); got != "Build API" {
		t.Errorf("second item = %q, want 'Build API'", got)
	}
	if got := records[2].GetInt("sort_order"); got != 3 {
		t.Errorf("last sort_order = %d, want 3", got)
	}
}

func TestHandleImportUpload_ErrorsShowResults(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Import Project")

	rec := runHandler(t, app, HandleImportUpload(app), newUploadRequest(t, project.Id, "labor.csv", laborCSV, false))

	if rec.Header().Get("HX-Redirect") != "" {
		t.Error("expected no HX-Redirect when rows have errors")
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		"QC is not a supported role",
		`name="items_json"`,
		`name="errors_json"`,
	)

	records, _ := collections.FindProjectItems(app, "labor_items", project.Id)
	if len(records) != 0 {
		t.Errorf("expected nothing imported yet, got %d items", len(records))
	}
}

func TestHandleImportUpload_SkipErrors(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Import Project")

	rec := runHandler(t, app, HandleImportUpload(app), newUploadRequest(t, project.Id, "labor.csv", laborCSV, true))

	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/projects/"+project.Id)

	records, _ := collections.FindProjectItems(app, "labor_items", project.Id)
	if len(records) != 1 {
		t.Fatalf("expected 1 labor item, got %d", len(records))
	}
	if got := records[0].GetString("role"); got != string(services.RoleSeniorDeveloper) {
		t.Errorf("role = %q", got)
	}
}

func TestHandleImportUpload_UnsupportedFile(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Import Project")

	rec := runHandler(t, app, HandleImportUpload(app), newUploadRequest(t, project.Id, "notes.txt", "hello", false))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}

func TestHandleImportCommit(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Import Project")

	payload, _ := json.Marshal(importPayload{
		Infra: []services.InfrastructureItem{{
			Category: services.CategoryAppServer, ConfigurationText: "CPU: 2 core", Quantity: 1,
			StorageTier: services.StorageSanAllFlash,
		}},
		Labor: []services.LaborItem{{TaskName: "API", Role: services.RoleBA, Mandays: 2}},
	})
	form := url.Values{}
	form.Set("items_json", string(payload))

	req := newFormRequest(http.MethodPost, "/projects/"+project.Id+"/import/commit", form, "id", project.Id)
	req.Header.Set("HX-Request", "true")
	rec := runHandler(t, app, HandleImportCommit(app), req)

	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/projects/"+project.Id)

	infra, _ := collections.FindProjectItems(app, "infra_items", project.Id)
	labor, _ := collections.FindProjectItems(app, "labor_items", project.Id)
	if len(infra) != 1 || len(labor) != 1 {
		t.Errorf("expected 1 infra and 1 labor item, got %d and %d", len(infra), len(labor))
	}
}

func TestHandleImportCommit_RejectsTamperedPayload(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Import Project")

	payload, _ := json.Marshal(importPayload{
		Labor: []services.LaborItem{
			{TaskName: "Fine", Role: services.RoleBA, Mandays: 1},
			{TaskName: "Bad", Role: services.Role("QC"), Mandays: 1},
		},
	})
	form := url.Values{}
	form.Set("items_json", string(payload))

	rec := runHandler(t, app, HandleImportCommit(app),
		newFormRequest(http.MethodPost, "/projects/"+project.Id+"/import/commit", form, "id", project.Id))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
	labor, _ := collections.FindProjectItems(app, "labor_items", project.Id)
	if len(labor) != 0 {
		t.Errorf("expected nothing imported, got %d items", len(labor))
	}
}

func TestHandleImportCommit_MissingData(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Import Project")

	rec := runHandler(t, app, HandleImportCommit(app),
		newFormRequest(http.MethodPost, "/projects/"+project.Id+"/import/commit", url.Values{}, "id", project.Id))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}

func TestHandleImportErrorReport(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Import Project")

	errs, _ := json.Marshal([]services.ValidationError{{Sheet: "Labor", Row: 3, Field: "Role", Message: "unknown role"}})
	form := url.Values{}
	form.Set("errors_json", string(errs))

	rec := runHandler(t, app, HandleImportErrorReport(app),
		newFormRequest(http.MethodPost, "/projects/"+project.Id+"/import/errors", form, "id", project.Id))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	f, err := excelize.OpenReader(rec.Body)
	if err != nil {
		t.Fatalf("response is not valid Excel: %v", err)
	}
	defer f.Close()
	if msg, _ := f.GetCellValue("Errors", "D2"); msg != "unknown role" {
		t.Errorf("D2 = %q, want 'unknown role'", msg)
	}
}

func TestHandleImportTemplate(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/projects/x/import/template", nil)
	rec := runHandler(t, app, HandleImportTemplate(app), req)

	f, err := excelize.OpenReader(rec.Body)
	if err != nil {
		t.Fatalf("response is not valid Excel: %v", err)
	}
	defer f.Close()
	if header, _ := f.GetCellValue("Labor", "B1"); header != "Role *" {
		t.Errorf("Labor B1 = %q, want 'Role *'", header)
	}
}
