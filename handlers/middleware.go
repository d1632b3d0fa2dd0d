package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"costdashboard/templates"
)

type contextKey string

const HeaderDataKey contextKey = "headerData"

// GetHeaderData extracts the pre-built HeaderData from the request context.
func GetHeaderData(r *http.Request) templates.HeaderData {
	if val, ok := r.Context().Value(HeaderDataKey).(templates.HeaderData); ok {
		return val
	}
	return templates.HeaderData{}
}

// activeProjectID returns the project a /projects/{id}/... path refers to.
func activeProjectID(path string) string {
	rest, ok := strings.CutPrefix(path, "/projects/")
	if !ok {
		return ""
	}
	id, _, _ := strings.Cut(rest, "/")
	return id
}

// HeaderDataMiddleware builds the project switcher shown in the page header
// and stores it in the request context. Static assets are skipped.
func HeaderDataMiddleware(app *pocketbase.PocketBase) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if strings.HasPrefix(e.Request.URL.Path, "/static/") {
			return e.Next()
		}

		active := activeProjectID(e.Request.URL.Path)
		var nav []templates.NavProject
		records, err := loadAllProjects(app)
		if err == nil {
			for _, rec := range records {
				nav = append(nav, templates.NavProject{
					ID:       rec.Id,
					Name:     rec.GetString("name"),
					IsActive: rec.Id == active,
				})
			}
		}

		ctx := context.WithValue(e.Request.Context(), HeaderDataKey, templates.HeaderData{Projects: nav})
		e.Request = e.Request.WithContext(ctx)
		return e.Next()
	}
}
