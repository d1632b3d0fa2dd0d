package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"

	"costdashboard/services"
)

// ProjectStatuses lists the allowed values of projects.status.
var ProjectStatuses = []string{"draft", "sent", "approved", "archived"}

// Setup programmatically creates/ensures the projects, infra_items and
// labor_items collections exist.
func Setup(app *pocketbase.PocketBase) {
	projects := ensureCollection(app, "projects", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true, Max: 200})
		c.Fields.Add(&core.TextField{Name: "client_name"})
		c.Fields.Add(&core.TextField{Name: "reference_number"})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    ProjectStatuses,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.JSONField{Name: "unit_prices"})
		c.Fields.Add(&core.JSONField{Name: "labor_prices"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_projects_name", true, "name", "")
	})

	ensureCollection(app, "infra_items", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "project",
			Required:      true,
			CollectionId:  projects.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "sort_order"})
		c.Fields.Add(&core.SelectField{
			Name:      "category",
			Required:  true,
			Values:    stringValues(services.Categories),
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "display_name"})
		c.Fields.Add(&core.TextField{Name: "operating_system"})
		c.Fields.Add(&core.TextField{Name: "configuration", Required: true})
		c.Fields.Add(&core.NumberField{
			Name:    "quantity",
			OnlyInt: true,
			Max:     types.Pointer(float64(services.MaxQuantity)),
		})
		c.Fields.Add(&core.SelectField{
			Name:      "storage_tier",
			Required:  true,
			Values:    stringValues(services.StorageTiers),
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "bandwidth_international"})
		c.Fields.Add(&core.NumberField{Name: "bandwidth_internal"})
		c.Fields.Add(&core.TextField{Name: "note"})
	})

	ensureCollection(app, "labor_items", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "project",
			Required:      true,
			CollectionId:  projects.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "sort_order"})
		c.Fields.Add(&core.TextField{Name: "task_name", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "role",
			Required:  true,
			Values:    stringValues(services.Roles),
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "mandays"})
		c.Fields.Add(&core.TextField{Name: "description"})
		c.Fields.Add(&core.TextField{Name: "status"})
		c.Fields.Add(&core.TextField{Name: "priority"})
		c.Fields.Add(&core.TextField{Name: "assignee"})
		c.Fields.Add(&core.TextField{Name: "due_date"})
	})
}

func stringValues[T ~string](in []T) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
