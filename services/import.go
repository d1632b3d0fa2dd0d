package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
)

// ValidationError represents a single field-level error on one row.
type ValidationError struct {
	Sheet   string `json:"sheet"`
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportResult is returned after parsing and validating an uploaded file.
// Rows with errors are reported and left out of Infra and Labor.
type ImportResult struct {
	FileName  string            `json:"-"`
	TotalRows int               `json:"total_rows"`
	ErrorRows int               `json:"error_rows"`
	Errors    []ValidationError `json:"errors"`
	Infra     []InfrastructureItem
	Labor     []LaborItem
}

// ImportColumn describes one recognised spreadsheet column.
type ImportColumn struct {
	Key      string
	Label    string
	Aliases  []string
	Required bool
}

// InfraImportColumns are the columns read from an Infrastructure sheet.
func InfraImportColumns() []ImportColumn {
	return []ImportColumn{
		{Key: "index", Label: "#"},
		{Key: "category", Label: "Category"},
		{Key: "name", Label: "Name", Aliases: []string{"Display Name", "Server"}},
		{Key: "os", Label: "Operating System", Aliases: []string{"OS"}},
		{Key: "configuration", Label: "Configuration", Aliases: []string{"Config"}, Required: true},
		{Key: "quantity", Label: "Qty", Aliases: []string{"Quantity"}},
		{Key: "storage_tier", Label: "Storage Tier", Aliases: []string{"Storage Type"}},
		{Key: "bandwidth_international", Label: "International Bandwidth (Mbps)", Aliases: []string{"Intl Bandwidth"}},
		{Key: "bandwidth_internal", Label: "Internal Bandwidth (Mbps)", Aliases: []string{"Internal Bandwidth"}},
		{Key: "note", Label: "Note", Aliases: []string{"Notes"}},
	}
}

// LaborImportColumns are the columns read from a Labor sheet.
func LaborImportColumns() []ImportColumn {
	return []ImportColumn{
		{Key: "index", Label: "#"},
		{Key: "task", Label: "Task", Aliases: []string{"Task Name"}, Required: true},
		{Key: "role", Label: "Role", Required: true},
		{Key: "mandays", Label: "Mandays", Aliases: []string{"Man-days", "Effort"}, Required: true},
		{Key: "description", Label: "Description"},
		{Key: "status", Label: "Status"},
		{Key: "priority", Label: "Priority"},
		{Key: "assignee", Label: "Assignee"},
		{Key: "due_date", Label: "Due Date"},
	}
}

// legacyRoleLabels maps role spellings found in older spreadsheets to roles.
// QC is deliberately absent: it is reported as an error, not folded into Tester.
var legacyRoleLabels = map[string]Role{
	"pm":               RolePM,
	"project manager":  RolePM,
	"ba":               RoleBA,
	"business analyst": RoleBA,
	"seniordeveloper":  RoleSeniorDeveloper,
	"senior developer": RoleSeniorDeveloper,
	"senior dev":       RoleSeniorDeveloper,
	"sr developer":     RoleSeniorDeveloper,
	"juniordeveloper":  RoleJuniorDeveloper,
	"junior developer": RoleJuniorDeveloper,
	"junior dev":       RoleJuniorDeveloper,
	"jr developer":     RoleJuniorDeveloper,
	"tester":           RoleTester,
	"qa":               RoleTester,
	"tester/qa":        RoleTester,
	"tester / qa":      RoleTester,
	"designer":         RoleDesigner,
	"ui/ux designer":   RoleDesigner,
}

// ParseRole resolves a role label from a spreadsheet or form.
func ParseRole(label string) (Role, error) {
	norm := strings.Join(strings.Fields(strings.ToLower(label)), " ")
	if r, ok := legacyRoleLabels[norm]; ok {
		return r, nil
	}
	if norm == "qc" {
		return "", fmt.Errorf("QC is not a supported role; use Tester/QA or remove the row")
	}
	return "", fmt.Errorf("unknown role %q", label)
}

// ParseCategory resolves a category label. Empty means Other.
func ParseCategory(label string) (Category, error) {
	switch strings.Join(strings.Fields(strings.ToLower(label)), " ") {
	case "appserver", "app server", "application server", "app":
		return CategoryAppServer, nil
	case "dbserver", "db server", "database server", "database", "db":
		return CategoryDbServer, nil
	case "other", "":
		return CategoryOther, nil
	}
	return "", fmt.Errorf("unknown category %q", label)
}

// ParseStorageTier resolves a tier key or label. Empty means SAN all-flash.
func ParseStorageTier(label string) (StorageTier, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return StorageSanAllFlash, nil
	}
	for _, t := range StorageTiers {
		if strings.EqualFold(label, string(t)) || strings.EqualFold(label, StorageTierLabel(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown storage tier %q", label)
}

// ImportFile parses an uploaded .xlsx workbook or .csv file. A workbook is
// read from its Infrastructure and Labor sheets; a CSV file holds labor rows
// when it has a Role column and infrastructure rows otherwise.
func ImportFile(r io.Reader, fileName string) (*ImportResult, error) {
	result := &ImportResult{FileName: fileName}

	lowerName := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lowerName, ".csv"):
		rows, err := parseCSV(r)
		if err != nil {
			return nil, err
		}
		sheet := infraSheet
		if hasRoleHeader(rows) {
			sheet = laborSheet
		}
		importRows(result, sheet, rows)
	case strings.HasSuffix(lowerName, ".xlsx"):
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open Excel file: %w", err)
		}
		defer f.Close()

		found := false
		for _, sheet := range []string{infraSheet, laborSheet} {
			idx, err := f.GetSheetIndex(sheet)
			if err != nil || idx < 0 {
				continue
			}
			rows, err := f.GetRows(sheet)
			if err != nil {
				return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
			}
			found = true
			importRows(result, sheet, rows)
		}
		if !found {
			return nil, fmt.Errorf("workbook must contain an %q or %q sheet", infraSheet, laborSheet)
		}
	default:
		return nil, fmt.Errorf("unsupported file format: must be .csv or .xlsx")
	}

	errorRowSet := make(map[string]bool)
	for _, e := range result.Errors {
		errorRowSet[fmt.Sprintf("%s:%d", e.Sheet, e.Row)] = true
	}
	result.ErrorRows = len(errorRowSet)
	return result, nil
}

// parseCSV reads a CSV file and returns all rows.
func parseCSV(file io.Reader) ([][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return rows, nil
}

func hasRoleHeader(rows [][]string) bool {
	for _, row := range rows {
		for _, c := range row {
			if strings.EqualFold(strings.TrimSpace(c), "role") {
				return true
			}
		}
	}
	return false
}

func importRows(result *ImportResult, sheet string, rows [][]string) {
	columns := InfraImportColumns()
	if sheet == laborSheet {
		columns = LaborImportColumns()
	}

	headerIdx, keys := findHeaderRow(rows, columns)
	if headerIdx < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Sheet: sheet, Row: 1, Field: "Header",
			Message: "no header row with recognised column names found",
		})
		return
	}

	for i := headerIdx + 1; i < len(rows); i++ {
		rowNum := i + 1
		data := make(map[string]string, len(keys))
		empty := true
		for colIdx, key := range keys {
			if key == "" || colIdx >= len(rows[i]) {
				continue
			}
			v := strings.TrimSpace(rows[i][colIdx])
			data[key] = v
			if v != "" {
				empty = false
			}
		}
		// Blank rows and the derived auto-staffing rows of our own export.
		if empty || data["index"] == "*" {
			continue
		}

		result.TotalRows++
		var errs []ValidationError
		for _, c := range columns {
			if c.Required && data[c.Key] == "" {
				errs = append(errs, ValidationError{Sheet: sheet, Row: rowNum, Field: c.Label, Message: c.Label + " is required"})
			}
		}

		if sheet == laborSheet {
			item, rowErrs := laborFromRow(data)
			errs = append(errs, rowErrs...)
			if len(errs) == 0 {
				result.Labor = append(result.Labor, item)
			}
		} else {
			item, rowErrs := infraFromRow(data)
			errs = append(errs, rowErrs...)
			if len(errs) == 0 {
				result.Infra = append(result.Infra, item)
			}
		}

		for j := range errs {
			errs[j].Sheet = sheet
			errs[j].Row = rowNum
		}
		result.Errors = append(result.Errors, errs...)
	}
}

// findHeaderRow returns the index of the first row that names at least one
// required column, with the column key for each cell.
func findHeaderRow(rows [][]string, columns []ImportColumn) (int, []string) {
	labelToKey := make(map[string]string)
	for _, c := range columns {
		labelToKey[normalizeHeader(c.Label)] = c.Key
		for _, a := range c.Aliases {
			labelToKey[normalizeHeader(a)] = c.Key
		}
	}

	for i, row := range rows {
		keys := make([]string, len(row))
		hit := false
		for j, h := range row {
			key := labelToKey[normalizeHeader(h)]
			keys[j] = key
			for _, c := range columns {
				if c.Required && c.Key == key {
					hit = true
				}
			}
		}
		if hit {
			return i, keys
		}
	}
	return -1, nil
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	// Strip trailing " *" that our template adds for required fields
	h = strings.TrimSuffix(h, " *")
	return strings.TrimSpace(h)
}

func infraFromRow(data map[string]string) (InfrastructureItem, []ValidationError) {
	var errs []ValidationError
	item := InfrastructureItem{
		DisplayName:       data["name"],
		OperatingSystem:   data["os"],
		ConfigurationText: data["configuration"],
		Note:              data["note"],
		Quantity:          1,
	}

	cat, err := ParseCategory(data["category"])
	if err != nil {
		errs = append(errs, ValidationError{Field: "Category", Message: err.Error()})
	}
	item.Category = cat

	tier, err := ParseStorageTier(data["storage_tier"])
	if err != nil {
		errs = append(errs, ValidationError{Field: "Storage Tier", Message: err.Error()})
	}
	item.StorageTier = tier

	if v := data["quantity"]; v != "" {
		q, err := parseNumber(v)
		if err != nil || q < 1 || q > MaxQuantity || q != math.Trunc(q) {
			errs = append(errs, ValidationError{Field: "Qty", Message: fmt.Sprintf("Qty must be a whole number from 1 to %d", MaxQuantity)})
		} else {
			item.Quantity = int(q)
		}
	}

	for _, bw := range []struct {
		key, label string
		dst        *float64
	}{
		{"bandwidth_international", "International Bandwidth (Mbps)", &item.InternationalBandwidthMbps},
		{"bandwidth_internal", "Internal Bandwidth (Mbps)", &item.InternalBandwidthMbps},
	} {
		v := data[bw.key]
		if v == "" {
			continue
		}
		n, err := parseNumber(v)
		if err != nil || n < 0 {
			errs = append(errs, ValidationError{Field: bw.label, Message: bw.label + " must be a non-negative number"})
			continue
		}
		*bw.dst = n
	}

	return item, errs
}

func laborFromRow(data map[string]string) (LaborItem, []ValidationError) {
	var errs []ValidationError
	item := LaborItem{
		TaskName:    data["task"],
		Description: data["description"],
		Status:      data["status"],
		Priority:    data["priority"],
		Assignee:    data["assignee"],
		DueDate:     data["due_date"],
	}

	if v := data["role"]; v != "" {
		role, err := ParseRole(v)
		if err != nil {
			errs = append(errs, ValidationError{Field: "Role", Message: err.Error()})
		}
		item.Role = role
	}

	if v := data["mandays"]; v != "" {
		n, err := parseNumber(v)
		if err != nil || n < 0 {
			errs = append(errs, ValidationError{Field: "Mandays", Message: "Mandays must be a non-negative number"})
		} else {
			item.Mandays = n
		}
	}

	return item, errs
}

// parseNumber accepts plain numbers and a decimal comma ("2,5").
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	n, err := cast.ToFloat64E(s)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("not a finite number: %q", s)
	}
	return n, nil
}

// GenerateImportTemplate creates an empty workbook with the Infrastructure
// and Labor sheets ImportFile expects. Required headers carry a " *" suffix.
func GenerateImportTemplate() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), infraSheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}
	if _, err := f.NewSheet(laborSheet); err != nil {
		return nil, fmt.Errorf("create labor sheet: %w", err)
	}

	requiredStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1D4ED8"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create required header style: %w", err)
	}
	optionalStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E5E7EB"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create optional header style: %w", err)
	}

	write := func(sheet string, cols []ImportColumn, sample []string) {
		// The index column is only meaningful on exported workbooks.
		cols = cols[1:]
		for i, c := range cols {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			colName, _ := excelize.ColumnNumberToName(i + 1)
			label := c.Label
			style := optionalStyle
			if c.Required {
				label += " *"
				style = requiredStyle
			}
			f.SetCellValue(sheet, cell, label)
			f.SetCellStyle(sheet, cell, cell, style)
			f.SetColWidth(sheet, colName, colName, 22)
			if i < len(sample) {
				sampleCell, _ := excelize.CoordinatesToCellName(i+1, 2)
				f.SetCellValue(sheet, sampleCell, sample[i])
			}
		}
	}
	write(infraSheet, InfraImportColumns(), []string{
		"AppServer", "Web 01", "Ubuntu Linux (64 bit)", "CPU: 8 core; RAM 16GB; storage: 100GB", "2", "SAN All-Flash", "10", "100", "",
	})
	write(laborSheet, LaborImportColumns(), []string{
		"Build login API", "Senior Developer", "5", "", "todo", "high", "", "",
	})

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write import template: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateErrorReport creates a downloadable .xlsx file from validation errors.
func GenerateErrorReport(errors []ValidationError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Errors"
	defaultSheet := f.GetSheetName(0)
	f.SetSheetName(defaultSheet, sheet)

	// Header style
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DC2626"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})

	f.SetCellValue(sheet, "A1", "Sheet")
	f.SetCellValue(sheet, "B1", "Row #")
	f.SetCellValue(sheet, "C1", "Field")
	f.SetCellValue(sheet, "D1", "Error")
	f.SetCellStyle(sheet, "A1", "D1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 16)
	f.SetColWidth(sheet, "B", "B", 8)
	f.SetColWidth(sheet, "C", "C", 22)
	f.SetColWidth(sheet, "D", "D", 55)

	for i, e := range errors {
		row := itoa(i + 2)
		f.SetCellValue(sheet, "A"+row, e.Sheet)
		f.SetCellValue(sheet, "B"+row, e.Row)
		f.SetCellValue(sheet, "C"+row, e.Field)
		f.SetCellValue(sheet, "D"+row, e.Message)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write error report: %w", err)
	}
	return buf.Bytes(), nil
}
