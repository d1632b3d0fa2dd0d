package handlers

import (
	"fmt"
	"math"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cast"

	"costdashboard/services"
	"costdashboard/templates"
)

// formNumber parses an optional numeric form value; empty means 0. A decimal
// comma is accepted.
func formNumber(raw string) (float64, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if raw == "" {
		return 0, nil
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("must be a number")
	}
	return v, nil
}

// infraFromForm reads an infrastructure item from a submitted form. Number
// parse failures are reported per field alongside validation errors.
func infraFromForm(e *core.RequestEvent) (services.InfrastructureItem, map[string]string) {
	f := e.Request.FormValue
	item := services.InfrastructureItem{
		Category:          services.Category(strings.TrimSpace(f("category"))),
		DisplayName:       strings.TrimSpace(f("display_name")),
		OperatingSystem:   strings.TrimSpace(f("operating_system")),
		ConfigurationText: strings.TrimSpace(f("configuration")),
		StorageTier:       services.StorageTier(strings.TrimSpace(f("storage_tier"))),
		Note:              strings.TrimSpace(f("note")),
	}
	if item.StorageTier == "" {
		item.StorageTier = services.StorageSanAllFlash
	}

	errs := make(map[string]string)
	qty, err := formNumber(f("quantity"))
	switch {
	case err != nil:
		errs["quantity"] = err.Error()
	case qty != math.Trunc(qty):
		errs["quantity"] = "must be a whole number"
	case qty > services.MaxQuantity:
		errs["quantity"] = fmt.Sprintf("must be no greater than %d", services.MaxQuantity)
	default:
		item.Quantity = int(qty)
	}
	if item.InternationalBandwidthMbps, err = formNumber(f("bandwidth_international")); err != nil {
		errs["bandwidthInternational"] = err.Error()
	}
	if item.InternalBandwidthMbps, err = formNumber(f("bandwidth_internal")); err != nil {
		errs["bandwidthInternal"] = err.Error()
	}

	for k, v := range services.FieldErrors(item.Validate()) {
		if _, ok := errs[k]; !ok {
			errs[k] = v
		}
	}
	return item, errs
}

// laborFromForm reads a labor item from a submitted form.
func laborFromForm(e *core.RequestEvent) (services.LaborItem, map[string]string) {
	f := e.Request.FormValue
	item := services.LaborItem{
		TaskName:    strings.TrimSpace(f("task_name")),
		Description: strings.TrimSpace(f("description")),
		Status:      strings.TrimSpace(f("status")),
		Priority:    strings.TrimSpace(f("priority")),
		Assignee:    strings.TrimSpace(f("assignee")),
		DueDate:     strings.TrimSpace(f("due_date")),
	}

	errs := make(map[string]string)
	if role := strings.TrimSpace(f("role")); role != "" {
		r, err := services.ParseRole(role)
		if err != nil {
			errs["role"] = err.Error()
		}
		item.Role = r
	}
	var err error
	if item.Mandays, err = formNumber(f("mandays")); err != nil {
		errs["mandays"] = err.Error()
	}

	for k, v := range services.FieldErrors(item.Validate()) {
		if _, ok := errs[k]; !ok {
			errs[k] = v
		}
	}
	return item, errs
}

func categoryOptions() []templates.Option {
	opts := make([]templates.Option, len(services.Categories))
	for i, c := range services.Categories {
		opts[i] = templates.Option{Value: string(c), Label: string(c)}
	}
	return opts
}

func storageTierOptions() []templates.Option {
	opts := make([]templates.Option, len(services.StorageTiers))
	for i, t := range services.StorageTiers {
		opts[i] = templates.Option{Value: string(t), Label: services.StorageTierLabel(t)}
	}
	return opts
}

func roleOptions() []templates.Option {
	opts := make([]templates.Option, len(services.Roles))
	for i, r := range services.Roles {
		opts[i] = templates.Option{Value: string(r), Label: services.RoleLabel(r)}
	}
	return opts
}

func statusOptions(selected string) []templates.Option {
	opts := make([]templates.Option, 0, len(ProjectStatusOptions))
	for _, s := range ProjectStatusOptions {
		opts = append(opts, templates.Option{Value: s, Label: s, Selected: s == selected})
	}
	return opts
}
