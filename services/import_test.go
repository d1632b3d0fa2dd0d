package services

import (
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		label   string
		want    Role
		wantErr bool
	}{
		{"PM", RolePM, false},
		{"Project Manager", RolePM, false},
		{"business analyst", RoleBA, false},
		{"SeniorDeveloper", RoleSeniorDeveloper, false},
		{"Senior  Dev", RoleSeniorDeveloper, false},
		{"Jr Developer", RoleJuniorDeveloper, false},
		{"Tester/QA", RoleTester, false},
		{"QA", RoleTester, false},
		{"UI/UX Designer", RoleDesigner, false},
		{"QC", "", true},
		{"Intern", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, err := ParseRole(tt.label)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRole(%q) error = %v, wantErr %v", tt.label, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseRole(%q) = %q, want %q", tt.label, got, tt.want)
			}
		})
	}
}

func TestParseRole_QCMessage(t *testing.T) {
	_, err := ParseRole("qc")
	if err == nil || !strings.Contains(err.Error(), "QC is not a supported role") {
		t.Errorf("ParseRole(qc) error = %v, want QC message", err)
	}
}

func TestParseCategoryAndTier(t *testing.T) {
	if c, err := ParseCategory("Database Server"); err != nil || c != CategoryDbServer {
		t.Errorf("ParseCategory(Database Server) = %q, %v", c, err)
	}
	if c, err := ParseCategory(""); err != nil || c != CategoryOther {
		t.Errorf("ParseCategory(empty) = %q, %v", c, err)
	}
	if _, err := ParseCategory("Mainframe"); err == nil {
		t.Error("ParseCategory(Mainframe) should fail")
	}

	if tier, err := ParseStorageTier("san hdd"); err != nil || tier != StorageSanHDD {
		t.Errorf("ParseStorageTier(san hdd) = %q, %v", tier, err)
	}
	if tier, err := ParseStorageTier("objectStorage"); err != nil || tier != StorageObject {
		t.Errorf("ParseStorageTier(objectStorage) = %q, %v", tier, err)
	}
	if tier, err := ParseStorageTier(" "); err != nil || tier != StorageSanAllFlash {
		t.Errorf("ParseStorageTier(blank) = %q, %v", tier, err)
	}
	if _, err := ParseStorageTier("tape"); err == nil {
		t.Error("ParseStorageTier(tape) should fail")
	}
}

func TestImportFile_LaborCSV(t *testing.T) {
	csv := "Task,Role,Mandays,Assignee\n" +
		"Build API,Senior Dev,\"2,5\",Lan\n" +
		"Regression,QC,2,\n" +
		",,,\n" +
		"Docs,Designer,-1,\n"

	result, err := ImportFile(strings.NewReader(csv), "labor.csv")
	if err != nil {
		t.Fatalf("ImportFile() error = %v", err)
	}
	if result.TotalRows != 3 {
		t.Errorf("TotalRows = %d, want 3", result.TotalRows)
	}
	if result.ErrorRows != 2 {
		t.Errorf("ErrorRows = %d, want 2", result.ErrorRows)
	}
	if len(result.Labor) != 1 {
		t.Fatalf("got %d labor items, want 1", len(result.Labor))
	}
	got := result.Labor[0]
	if got.Role != RoleSeniorDeveloper || got.Mandays != 2.5 || got.Assignee != "Lan" {
		t.Errorf("unexpected labor item: %+v", got)
	}
	if result.Errors[0].Row != 3 || result.Errors[0].Field != "Role" {
		t.Errorf("first error = %+v, want Role on row 3", result.Errors[0])
	}
}

func TestImportFile_InfraCSV(t *testing.T) {
	csv := "Category,Config,Quantity,Storage Type\n" +
		"App,CPU: 2 core; RAM 4GB,3,SAN HDD\n" +
		"App,CPU: 2 core,1.5,\n" +
		"Db,,1,\n"

	result, err := ImportFile(strings.NewReader(csv), "infra.CSV")
	if err != nil {
		t.Fatalf("ImportFile() error = %v", err)
	}
	if len(result.Infra) != 1 {
		t.Fatalf("got %d infra items, want 1", len(result.Infra))
	}
	it := result.Infra[0]
	if it.Category != CategoryAppServer || it.Quantity != 3 || it.StorageTier != StorageSanHDD {
		t.Errorf("unexpected infra item: %+v", it)
	}
	if result.ErrorRows != 2 {
		t.Errorf("ErrorRows = %d, want 2", result.ErrorRows)
	}
}

func TestImportFile_QuantityOverCap(t *testing.T) {
	csv := "Category,Config,Quantity\n" +
		"App,CPU: 2 core,1000\n" +
		"App,CPU: 2 core,1001\n" +
		"App,CPU: 2 core,1000000000000\n"

	result, err := ImportFile(strings.NewReader(csv), "infra.csv")
	if err != nil {
		t.Fatalf("ImportFile() error = %v", err)
	}
	if len(result.Infra) != 1 || result.Infra[0].Quantity != MaxQuantity {
		t.Fatalf("infra = %+v, want one item with quantity %d", result.Infra, MaxQuantity)
	}
	if result.ErrorRows != 2 {
		t.Errorf("ErrorRows = %d, want 2", result.ErrorRows)
	}
}

func TestImportFile_NoHeader(t *testing.T) {
	result, err := ImportFile(strings.NewReader("a,b\n1,2\n"), "x.csv")
	if err != nil {
		t.Fatalf("ImportFile() error = %v", err)
	}
	if len(result.Errors) != 1 || result.Errors[0].Field != "Header" {
		t.Errorf("errors = %+v, want one header error", result.Errors)
	}
}

func TestImportFile_UnsupportedFormat(t *testing.T) {
	if _, err := ImportFile(strings.NewReader(""), "data.json"); err == nil {
		t.Error("expected an error for .json")
	}
}

func TestImportFile_WorkbookWithoutSheets(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer() error = %v", err)
	}
	if _, err := ImportFile(buf, "empty.xlsx"); err == nil {
		t.Error("expected an error for a workbook without Infrastructure or Labor sheets")
	}
}

func TestImportFile_Template(t *testing.T) {
	tmpl, err := GenerateImportTemplate()
	if err != nil {
		t.Fatalf("GenerateImportTemplate() error = %v", err)
	}

	result, err := ImportFile(bytesReader(tmpl), "template.xlsx")
	if err != nil {
		t.Fatalf("ImportFile() error = %v", err)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %+v", result.Errors)
	}
	if len(result.Infra) != 1 || len(result.Labor) != 1 {
		t.Fatalf("got %d infra and %d labor, want 1 and 1", len(result.Infra), len(result.Labor))
	}
	if result.Infra[0].Quantity != 2 || result.Infra[0].InternalBandwidthMbps != 100 {
		t.Errorf("unexpected sample infra item: %+v", result.Infra[0])
	}
	if result.Labor[0].Role != RoleSeniorDeveloper || result.Labor[0].Mandays != 5 {
		t.Errorf("unexpected sample labor item: %+v", result.Labor[0])
	}
}

func TestImportFile_ExportRoundTrip(t *testing.T) {
	xlsx, err := GenerateExcel(sampleExportData())
	if err != nil {
		t.Fatalf("GenerateExcel() error = %v", err)
	}

	result, err := ImportFile(bytesReader(xlsx), "estimate.xlsx")
	if err != nil {
		t.Fatalf("ImportFile() error = %v", err)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %+v", result.Errors)
	}

	in := sampleInput()
	if len(result.Infra) != len(in.Infra) {
		t.Fatalf("got %d infra items, want %d", len(result.Infra), len(in.Infra))
	}
	// Auto staffing rows are derived and must not come back as manual effort.
	if len(result.Labor) != len(in.Labor) {
		t.Fatalf("got %d labor items, want %d", len(result.Labor), len(in.Labor))
	}

	in.Infra, in.Labor = result.Infra, result.Labor
	if got, want := EstimateProject(in).GrandTotal, EstimateProject(sampleInput()).GrandTotal; got != want {
		t.Errorf("re-imported GrandTotal = %v, want %v", got, want)
	}
}

func TestGenerateErrorReport(t *testing.T) {
	report, err := GenerateErrorReport([]ValidationError{
		{Sheet: "Labor", Row: 3, Field: "Role", Message: "unknown role"},
	})
	if err != nil {
		t.Fatalf("GenerateErrorReport() error = %v", err)
	}

	f, err := excelize.OpenReader(bytesReader(report))
	if err != nil {
		t.Fatalf("report is not valid Excel: %v", err)
	}
	defer f.Close()

	for cell, want := range map[string]string{"A1": "Sheet", "A2": "Labor", "B2": "3", "D2": "unknown role"} {
		got, _ := f.GetCellValue("Errors", cell)
		if got != want {
			t.Errorf("%s = %q, want %q", cell, got, want)
		}
	}
}
