package services

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// FieldErrors converts an ozzo-validation result into a field → message map
// suitable for re-rendering a form. A nil error gives an empty map.
func FieldErrors(err error) map[string]string {
	out := make(map[string]string)
	if err == nil {
		return out
	}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for field, e := range verrs {
			out[field] = e.Error()
		}
		return out
	}
	out["_"] = err.Error()
	return out
}

func categoryValues() []any {
	out := make([]any, len(Categories))
	for i, c := range Categories {
		out[i] = c
	}
	return out
}

func storageTierValues() []any {
	out := make([]any, len(StorageTiers))
	for i, t := range StorageTiers {
		out[i] = t
	}
	return out
}

func roleValues() []any {
	out := make([]any, len(Roles))
	for i, r := range Roles {
		out[i] = r
	}
	return out
}

var notBlank = validation.By(func(v any) error {
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
})

// Validate checks an infrastructure item submitted from a form or import.
func (it InfrastructureItem) Validate() error {
	return validation.ValidateStruct(&it,
		validation.Field(&it.Category, validation.Required, validation.In(categoryValues()...)),
		validation.Field(&it.ConfigurationText, validation.Required, notBlank, validation.Length(1, 500)),
		validation.Field(&it.Quantity, validation.Min(1), validation.Max(MaxQuantity)),
		validation.Field(&it.StorageTier, validation.Required, validation.In(storageTierValues()...)),
		validation.Field(&it.InternationalBandwidthMbps, validation.Min(0.0)),
		validation.Field(&it.InternalBandwidthMbps, validation.Min(0.0)),
		validation.Field(&it.DisplayName, validation.Length(0, 200)),
	)
}

// Validate checks a labor item submitted from a form or import.
func (l LaborItem) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.TaskName, validation.Required, notBlank, validation.Length(1, 300)),
		validation.Field(&l.Role, validation.Required, validation.In(roleValues()...)),
		validation.Field(&l.Mandays, validation.Min(0.0)),
	)
}
