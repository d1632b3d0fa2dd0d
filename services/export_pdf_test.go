package services

import "testing"

func TestGeneratePDF(t *testing.T) {
	result, err := GeneratePDF(sampleExportData())
	if err != nil {
		t.Fatalf("GeneratePDF() error = %v", err)
	}
	if len(result) < 5 {
		t.Fatal("GeneratePDF() returned too few bytes")
	}
	if string(result[:5]) != "%PDF-" {
		t.Errorf("result does not start with PDF header, got %q", string(result[:5]))
	}
}

func TestGeneratePDF_Empty(t *testing.T) {
	result, err := GeneratePDF(ExportData{Title: "Empty", CreatedDate: "-"})
	if err != nil {
		t.Fatalf("GeneratePDF() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GeneratePDF() returned empty bytes")
	}
}

func TestGeneratePDF_ManyRows(t *testing.T) {
	data := ExportData{Title: "Large", CreatedDate: "-"}
	for i := 0; i < 120; i++ {
		data.LaborRows = append(data.LaborRows, LaborExportRow{
			Index: itoa(i + 1), TaskName: "Task", Role: "Tester/QA", Mandays: 1, Rate: 1000000, Cost: 1000000,
		})
	}
	result, err := GeneratePDF(data)
	if err != nil {
		t.Fatalf("GeneratePDF() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GeneratePDF() returned empty bytes")
	}
}
