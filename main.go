package main

import (
	"log"
	"net/http"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"costdashboard/collections"
	"costdashboard/handlers"
)

func main() {
	app := pocketbase.New()

	app.RootCmd.AddCommand(newEstimateCmd(app))

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.GET("/static/{path...}", apis.Static(os.DirFS("./static"), false))

		// Project switcher for the page header
		se.Router.BindFunc(handlers.HeaderDataMiddleware(app))

		// ── Projects ─────────────────────────────────────────────
		se.Router.GET("/projects", handlers.HandleProjectList(app))
		se.Router.POST("/projects", handlers.HandleProjectSave(app))
		se.Router.POST("/projects/{id}/save", handlers.HandleProjectUpdate(app))
		se.Router.DELETE("/projects/{id}", handlers.HandleProjectDelete(app))
		se.Router.GET("/projects/{id}/estimate", handlers.HandleProjectEstimate(app))
		se.Router.POST("/projects/{id}/prices", handlers.HandlePricesSave(app))

		// ── Infrastructure items ─────────────────────────────────
		se.Router.POST("/projects/{id}/infra", handlers.HandleInfraAdd(app))
		se.Router.POST("/projects/{id}/infra/{itemId}", handlers.HandleInfraUpdate(app))
		se.Router.DELETE("/projects/{id}/infra/{itemId}", handlers.HandleInfraDelete(app))

		// ── Labor items ──────────────────────────────────────────
		se.Router.POST("/projects/{id}/labor", handlers.HandleLaborAdd(app))
		se.Router.POST("/projects/{id}/labor/{itemId}", handlers.HandleLaborUpdate(app))
		se.Router.DELETE("/projects/{id}/labor/{itemId}", handlers.HandleLaborDelete(app))

		// ── Export ───────────────────────────────────────────────
		se.Router.GET("/projects/{id}/export/excel", handlers.HandleExportExcel(app))
		se.Router.GET("/projects/{id}/export/pdf", handlers.HandleExportPDF(app))
		se.Router.GET("/projects/{id}/quotation", handlers.HandleQuotation(app))
		se.Router.GET("/projects/{id}/deploy-script", handlers.HandleDeployScript(app))

		// ── Import ───────────────────────────────────────────────
		se.Router.GET("/projects/{id}/import/template", handlers.HandleImportTemplate(app))
		se.Router.POST("/projects/{id}/import", handlers.HandleImportUpload(app))
		se.Router.POST("/projects/{id}/import/commit", handlers.HandleImportCommit(app))
		se.Router.POST("/projects/{id}/import/errors", handlers.HandleImportErrorReport(app))

		// Dashboard (after specific /projects/{id}/* routes)
		se.Router.GET("/projects/{id}", handlers.HandleProjectView(app))

		// Redirect home to projects list
		se.Router.GET("/", func(e *core.RequestEvent) error {
			return e.Redirect(http.StatusFound, "/projects")
		})

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
