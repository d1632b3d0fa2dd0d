package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"costdashboard/collections"
	"costdashboard/services"
	"costdashboard/templates"
)

// buildExportData loads and prices a project, returning the quotation rows
// together with the input they were priced from.
func buildExportData(app core.App, projectID string) (services.ExportData, services.ProjectInput, error) {
	project, err := app.FindRecordById("projects", projectID)
	if err != nil {
		return services.ExportData{}, services.ProjectInput{}, fmt.Errorf("project not found: %w", err)
	}

	in, err := collections.LoadProjectInput(app, project)
	if err != nil {
		return services.ExportData{}, in, err
	}

	data := services.BuildExportData(services.EstimateProject(in), in.LaborPrices)
	data.ClientName = project.GetString("client_name")
	data.ReferenceNumber = project.GetString("reference_number")
	data.CreatedDate = "-"
	if dt := project.GetDateTime("created"); !dt.IsZero() {
		data.CreatedDate = dt.Time().Format("02 Jan 2006")
	}
	return data, in, nil
}

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	s = strings.ReplaceAll(s, `"`, "")
	return s
}

func writeAttachment(e *core.RequestEvent, contentType, filename string, body []byte) error {
	e.Response.Header().Set("Content-Type", contentType)
	e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	_, err := e.Response.Write(body)
	return err
}

// HandleExportExcel downloads a project's estimate as an Excel workbook.
// Route: GET /projects/{id}/export/excel
func HandleExportExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, _, err := buildExportData(app, e.Request.PathValue("id"))
		if err != nil {
			log.Printf("export_excel: %v", err)
			return e.String(http.StatusNotFound, "Project not found")
		}

		xlsxBytes, err := services.GenerateExcel(data)
		if err != nil {
			log.Printf("export_excel: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate Excel file")
		}

		filename := fmt.Sprintf("Estimate_%s_%d.xlsx", sanitizeFilename(data.Title), time.Now().Year())
		return writeAttachment(e, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", filename, xlsxBytes)
	}
}

// HandleExportPDF downloads a project's quotation as a PDF.
// Route: GET /projects/{id}/export/pdf
func HandleExportPDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, _, err := buildExportData(app, e.Request.PathValue("id"))
		if err != nil {
			log.Printf("export_pdf: %v", err)
			return e.String(http.StatusNotFound, "Project not found")
		}

		pdfBytes, err := services.GeneratePDF(data)
		if err != nil {
			log.Printf("export_pdf: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate PDF file")
		}

		filename := fmt.Sprintf("Quotation_%s_%d.pdf", sanitizeFilename(data.Title), time.Now().Year())
		return writeAttachment(e, "application/pdf", filename, pdfBytes)
	}
}

// HandleQuotation renders the printable HTML quotation.
// Route: GET /projects/{id}/quotation
func HandleQuotation(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		data, _, err := buildExportData(app, projectID)
		if err != nil {
			log.Printf("quotation: %v", err)
			return e.String(http.StatusNotFound, "Project not found")
		}
		return templates.QuotationPage(projectID, data).Render(e.Request.Context(), e.Response)
	}
}

// HandleDeployScript downloads a bash script that provisions every server
// of a project.
// Route: GET /projects/{id}/deploy-script
func HandleDeployScript(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, in, err := buildExportData(app, e.Request.PathValue("id"))
		if err != nil {
			log.Printf("deploy_script: %v", err)
			return e.String(http.StatusNotFound, "Project not found")
		}

		script, err := services.GenerateDeployScript(services.DeployScriptData{
			Project:     data.Title,
			GeneratedAt: time.Now().Format(time.RFC3339),
			Hosts:       services.BuildDeployHosts(in.Infra),
		})
		if err != nil {
			log.Printf("deploy_script: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate deployment script")
		}

		filename := fmt.Sprintf("provision_%s.sh", sanitizeFilename(data.Title))
		return writeAttachment(e, "text/x-shellscript; charset=utf-8", filename, script)
	}
}
