package collections

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pocketbase/pocketbase/core"

	"costdashboard/services"
)

// InfraFromRecord converts an infra_items record into the pricing model.
func InfraFromRecord(r *core.Record) services.InfrastructureItem {
	return services.InfrastructureItem{
		ID:                         r.Id,
		Category:                   services.Category(r.GetString("category")),
		OperatingSystem:            r.GetString("operating_system"),
		ConfigurationText:          r.GetString("configuration"),
		Quantity:                   r.GetInt("quantity"),
		DisplayName:                r.GetString("display_name"),
		Note:                       r.GetString("note"),
		StorageTier:                services.StorageTier(r.GetString("storage_tier")),
		InternationalBandwidthMbps: r.GetFloat("bandwidth_international"),
		InternalBandwidthMbps:      r.GetFloat("bandwidth_internal"),
	}
}

// ApplyInfra copies an item's fields onto a record.
func ApplyInfra(r *core.Record, it services.InfrastructureItem) {
	r.Set("category", string(it.Category))
	r.Set("display_name", it.DisplayName)
	r.Set("operating_system", it.OperatingSystem)
	r.Set("configuration", it.ConfigurationText)
	r.Set("quantity", it.Quantity)
	r.Set("storage_tier", string(it.StorageTier))
	r.Set("bandwidth_international", it.InternationalBandwidthMbps)
	r.Set("bandwidth_internal", it.InternalBandwidthMbps)
	r.Set("note", it.Note)
}

// LaborFromRecord converts a labor_items record into the pricing model.
func LaborFromRecord(r *core.Record) services.LaborItem {
	return services.LaborItem{
		ID:          r.Id,
		TaskName:    r.GetString("task_name"),
		Role:        services.Role(r.GetString("role")),
		Mandays:     r.GetFloat("mandays"),
		Description: r.GetString("description"),
		Status:      r.GetString("status"),
		Priority:    r.GetString("priority"),
		Assignee:    r.GetString("assignee"),
		DueDate:     r.GetString("due_date"),
	}
}

// ApplyLabor copies a labor item's fields onto a record.
func ApplyLabor(r *core.Record, l services.LaborItem) {
	r.Set("task_name", l.TaskName)
	r.Set("role", string(l.Role))
	r.Set("mandays", l.Mandays)
	r.Set("description", l.Description)
	r.Set("status", l.Status)
	r.Set("priority", l.Priority)
	r.Set("assignee", l.Assignee)
	r.Set("due_date", l.DueDate)
}

// UnitPricesFromRecord decodes projects.unit_prices. An unset field yields a
// nil table, which prices everything at 0.
func UnitPricesFromRecord(r *core.Record) (*services.UnitPriceTable, error) {
	raw := strings.TrimSpace(r.GetString("unit_prices"))
	if raw == "" || raw == "null" {
		return nil, nil
	}
	var table *services.UnitPriceTable
	if err := json.Unmarshal([]byte(raw), &table); err != nil {
		return nil, fmt.Errorf("decode unit prices of project %s: %w", r.Id, err)
	}
	return table, nil
}

// LaborPricesFromRecord decodes projects.labor_prices. An unset field yields
// an empty table.
func LaborPricesFromRecord(r *core.Record) (services.LaborPriceTable, error) {
	table := services.LaborPriceTable{}
	raw := strings.TrimSpace(r.GetString("labor_prices"))
	if raw == "" || raw == "null" {
		return table, nil
	}
	if err := json.Unmarshal([]byte(raw), &table); err != nil {
		return nil, fmt.Errorf("decode labor prices of project %s: %w", r.Id, err)
	}
	return table, nil
}

// FindProjectItems returns the records of collection belonging to a project,
// in display order.
func FindProjectItems(app core.App, collection, projectID string) ([]*core.Record, error) {
	records, err := app.FindRecordsByFilter(
		collection,
		"project = {:projectId}",
		"sort_order",
		0, 0,
		map[string]any{"projectId": projectID},
	)
	if err != nil {
		return nil, fmt.Errorf("load %s of project %s: %w", collection, projectID, err)
	}
	return records, nil
}

// LoadProjectInput reads a project's items and price tables.
func LoadProjectInput(app core.App, project *core.Record) (services.ProjectInput, error) {
	in := services.ProjectInput{Name: project.GetString("name")}

	var err error
	if in.UnitPrices, err = UnitPricesFromRecord(project); err != nil {
		return in, err
	}
	if in.LaborPrices, err = LaborPricesFromRecord(project); err != nil {
		return in, err
	}

	infraRecords, err := FindProjectItems(app, "infra_items", project.Id)
	if err != nil {
		return in, err
	}
	for _, r := range infraRecords {
		in.Infra = append(in.Infra, InfraFromRecord(r))
	}

	laborRecords, err := FindProjectItems(app, "labor_items", project.Id)
	if err != nil {
		return in, err
	}
	for _, r := range laborRecords {
		in.Labor = append(in.Labor, LaborFromRecord(r))
	}
	return in, nil
}

// NextSortOrder returns one past the highest sort_order of a project's items.
func NextSortOrder(app core.App, collection, projectID string) int {
	records, err := FindProjectItems(app, collection, projectID)
	if err != nil {
		return 1
	}
	highest := 0
	for _, r := range records {
		if n := r.GetInt("sort_order"); n > highest {
			highest = n
		}
	}
	return highest + 1
}

// LoadProjectInputByName finds a project by its unique name and loads it.
func LoadProjectInputByName(app core.App, name string) (services.ProjectInput, error) {
	project, err := app.FindFirstRecordByData("projects", "name", name)
	if err != nil {
		return services.ProjectInput{}, fmt.Errorf("project %q not found: %w", name, err)
	}
	return LoadProjectInput(app, project)
}
