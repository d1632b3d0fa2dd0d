package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"costdashboard/templates"
	"costdashboard/testhelpers"
)

func TestGetHeaderData_FromContext(t *testing.T) {
	expected := templates.HeaderData{
		Projects: []templates.NavProject{{ID: "p1", Name: "Proj", IsActive: true}},
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), HeaderDataKey, expected)
	req = req.WithContext(ctx)

	got := GetHeaderData(req)
	if len(got.Projects) != 1 || got.Projects[0].ID != "p1" {
		t.Errorf("expected project p1 in header data, got %+v", got.Projects)
	}
}

func TestGetHeaderData_NotInContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	got := GetHeaderData(req)
	if len(got.Projects) != 0 {
		t.Errorf("expected no projects, got %+v", got.Projects)
	}
}

func TestActiveProjectID(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/projects/abc123", "abc123"},
		{"/projects/abc123/export/pdf", "abc123"},
		{"/projects", ""},
		{"/projects/", ""},
		{"/", ""},
		{"/static/app.css", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := activeProjectID(tt.path); got != tt.want {
				t.Errorf("activeProjectID(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestHeaderDataMiddleware_MarksActiveProject(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	active := testhelpers.CreateTestProject(t, app, "Active Project")
	testhelpers.CreateTestProject(t, app, "Other Project")

	req := httptest.NewRequest(http.MethodGet, "/projects/"+active.Id, nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	// e.Next() with no handler set is a no-op
	if err := HeaderDataMiddleware(app)(e); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}

	header := GetHeaderData(e.Request)
	if len(header.Projects) != 2 {
		t.Fatalf("expected 2 projects in header data, got %d", len(header.Projects))
	}
	for _, p := range header.Projects {
		if p.IsActive != (p.ID == active.Id) {
			t.Errorf("project %q IsActive = %v", p.Name, p.IsActive)
		}
	}
}

func TestHeaderDataMiddleware_SkipsStatic(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestProject(t, app, "Any")

	req := httptest.NewRequest(http.MethodGet, "/static/app.css", nil)
	e := newTestRequestEvent(app, req, httptest.NewRecorder())

	if err := HeaderDataMiddleware(app)(e); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	if got := GetHeaderData(e.Request); len(got.Projects) != 0 {
		t.Errorf("expected no header data for static assets, got %+v", got.Projects)
	}
}
