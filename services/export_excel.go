package services

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const (
	infraSheet   = "Infrastructure"
	laborSheet   = "Labor"
	summarySheet = "Summary"
)

// excelStyles holds the style IDs shared by every sheet of a quotation workbook.
type excelStyles struct {
	title   int
	header  int
	cell    int
	money   int
	auto    int
	label   int
	total   int
	subText int
}

// GenerateExcel creates a quotation workbook with Infrastructure, Labor and
// Summary sheets and returns the file contents.
func GenerateExcel(data ExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), infraSheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}
	if _, err := f.NewSheet(laborSheet); err != nil {
		return nil, fmt.Errorf("create labor sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("create summary sheet: %w", err)
	}

	st, err := newExcelStyles(f)
	if err != nil {
		return nil, err
	}

	if err := writeInfraSheet(f, st, data); err != nil {
		return nil, err
	}
	if err := writeLaborSheet(f, st, data); err != nil {
		return nil, err
	}
	if err := writeSummarySheet(f, st, data); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

func newExcelStyles(f *excelize.File) (excelStyles, error) {
	var st excelStyles
	var err error

	// Title style: bold, 16pt.
	if st.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	}); err != nil {
		return st, fmt.Errorf("create title style: %w", err)
	}

	if st.subText, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 11, Color: "#555555"},
	}); err != nil {
		return st, fmt.Errorf("create subtitle style: %w", err)
	}

	// Column header style: bold, white text, charcoal background, centered.
	if st.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	}); err != nil {
		return st, fmt.Errorf("create header style: %w", err)
	}

	if st.cell, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 10},
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
		Border:    thinBorders(),
	}); err != nil {
		return st, fmt.Errorf("create cell style: %w", err)
	}

	// Money cells keep numeric values so the sheet can be re-summed.
	if st.money, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		NumFmt: 3, // #,##0
		Border: thinBorders(),
	}); err != nil {
		return st, fmt.Errorf("create money style: %w", err)
	}

	if st.auto, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10, Italic: true, Color: "#555555"},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#F2F2F2"}, Pattern: 1},
		Border: thinBorders(),
	}); err != nil {
		return st, fmt.Errorf("create auto row style: %w", err)
	}

	if st.label, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	}); err != nil {
		return st, fmt.Errorf("create summary label style: %w", err)
	}

	if st.total, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		NumFmt: 3,
	}); err != nil {
		return st, fmt.Errorf("create summary value style: %w", err)
	}

	return st, nil
}

// writeTableHeader writes a title row and a header row, and sets column widths.
func writeTableHeader(f *excelize.File, st excelStyles, sheet, title string, headers []string, widths []float64) error {
	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return fmt.Errorf("column name: %w", err)
	}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	if err := f.MergeCell(sheet, "A1", lastCol+"1"); err != nil {
		return fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheet, "A1", sanitizeExcelCell(title))
	f.SetCellStyle(sheet, "A1", lastCol+"1", st.title)

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		f.SetCellValue(sheet, cell, h)
	}
	f.SetCellStyle(sheet, "A3", lastCol+"3", st.header)
	return nil
}

func writeInfraSheet(f *excelize.File, st excelStyles, data ExportData) error {
	headers := []string{"#", "Category", "Name", "Operating System", "Configuration", "vCPU", "RAM (GB)", "Storage (GB)", "Storage Tier", "Qty", "Unit Price", "Total", "Note"}
	widths := []float64{5, 12, 24, 24, 40, 7, 9, 12, 16, 6, 16, 16, 24}
	if err := writeTableHeader(f, st, infraSheet, "Infrastructure: "+data.Title, headers, widths); err != nil {
		return err
	}

	row := 4
	for _, r := range data.InfraRows {
		rs := strconv.Itoa(row)
		f.SetCellValue(infraSheet, "A"+rs, r.Index)
		f.SetCellValue(infraSheet, "B"+rs, r.Category)
		f.SetCellValue(infraSheet, "C"+rs, sanitizeExcelCell(r.Name))
		f.SetCellValue(infraSheet, "D"+rs, sanitizeExcelCell(r.OperatingSystem))
		f.SetCellValue(infraSheet, "E"+rs, sanitizeExcelCell(r.Configuration))
		f.SetCellValue(infraSheet, "F"+rs, r.Resources.CPUCores)
		f.SetCellValue(infraSheet, "G"+rs, r.Resources.RAMGigabytes)
		f.SetCellValue(infraSheet, "H"+rs, r.Resources.StorageGigabytes)
		f.SetCellValue(infraSheet, "I"+rs, r.StorageTier)
		f.SetCellValue(infraSheet, "J"+rs, r.Quantity)
		f.SetCellValue(infraSheet, "K"+rs, r.UnitPrice)
		f.SetCellValue(infraSheet, "L"+rs, r.TotalPrice)
		f.SetCellValue(infraSheet, "M"+rs, sanitizeExcelCell(r.Note))
		f.SetCellStyle(infraSheet, "A"+rs, "J"+rs, st.cell)
		f.SetCellStyle(infraSheet, "K"+rs, "L"+rs, st.money)
		f.SetCellStyle(infraSheet, "M"+rs, "M"+rs, st.cell)
		row++
	}

	row++
	rs := strconv.Itoa(row)
	f.SetCellValue(infraSheet, "K"+rs, "Monthly total:")
	f.SetCellStyle(infraSheet, "K"+rs, "K"+rs, st.label)
	f.SetCellValue(infraSheet, "L"+rs, data.InfraMonthly)
	f.SetCellStyle(infraSheet, "L"+rs, "L"+rs, st.total)
	return nil
}

func writeLaborSheet(f *excelize.File, st excelStyles, data ExportData) error {
	headers := []string{"#", "Task", "Role", "Mandays", "Daily Rate", "Cost"}
	widths := []float64{5, 40, 20, 10, 16, 16}
	if err := writeTableHeader(f, st, laborSheet, "Labor: "+data.Title, headers, widths); err != nil {
		return err
	}

	row := 4
	for _, r := range data.LaborRows {
		rs := strconv.Itoa(row)
		f.SetCellValue(laborSheet, "A"+rs, r.Index)
		f.SetCellValue(laborSheet, "B"+rs, sanitizeExcelCell(r.TaskName))
		f.SetCellValue(laborSheet, "C"+rs, r.Role)
		f.SetCellValue(laborSheet, "D"+rs, r.Mandays)
		f.SetCellValue(laborSheet, "E"+rs, r.Rate)
		f.SetCellValue(laborSheet, "F"+rs, r.Cost)
		if r.Auto {
			f.SetCellStyle(laborSheet, "A"+rs, "F"+rs, st.auto)
		} else {
			f.SetCellStyle(laborSheet, "A"+rs, "D"+rs, st.cell)
			f.SetCellStyle(laborSheet, "E"+rs, "F"+rs, st.money)
		}
		row++
	}

	row++
	rs := strconv.Itoa(row)
	f.SetCellValue(laborSheet, "E"+rs, "Labor total:")
	f.SetCellStyle(laborSheet, "E"+rs, "E"+rs, st.label)
	f.SetCellValue(laborSheet, "F"+rs, data.LaborTotal)
	f.SetCellStyle(laborSheet, "F"+rs, "F"+rs, st.total)
	return nil
}

func writeSummarySheet(f *excelize.File, st excelStyles, data ExportData) error {
	if err := f.SetColWidth(summarySheet, "A", "A", 32); err != nil {
		return fmt.Errorf("set col width A: %w", err)
	}
	if err := f.SetColWidth(summarySheet, "B", "B", 20); err != nil {
		return fmt.Errorf("set col width B: %w", err)
	}

	f.SetCellValue(summarySheet, "A1", sanitizeExcelCell(data.Title))
	f.SetCellStyle(summarySheet, "A1", "A1", st.title)
	if data.ClientName != "" {
		f.SetCellValue(summarySheet, "A2", "Client: "+sanitizeExcelCell(data.ClientName))
		f.SetCellStyle(summarySheet, "A2", "A2", st.subText)
	}
	if data.ReferenceNumber != "" {
		f.SetCellValue(summarySheet, "A3", "Ref: "+sanitizeExcelCell(data.ReferenceNumber))
		f.SetCellStyle(summarySheet, "A3", "A3", st.subText)
	}
	f.SetCellValue(summarySheet, "A4", "Date: "+data.CreatedDate)
	f.SetCellStyle(summarySheet, "A4", "A4", st.subText)

	lines := []struct {
		label string
		value float64
	}{
		{"Infrastructure (monthly)", data.InfraMonthly},
		{"Labor (manual)", data.ManualLabor},
		{"Auto staffing (PM/BA/QA)", data.AutoStaffingCost},
		{"Labor total", data.LaborTotal},
		{"Grand total", data.GrandTotal},
	}
	for i, l := range lines {
		rs := strconv.Itoa(6 + i)
		f.SetCellValue(summarySheet, "A"+rs, l.label)
		f.SetCellStyle(summarySheet, "A"+rs, "A"+rs, st.label)
		f.SetCellValue(summarySheet, "B"+rs, l.value)
		f.SetCellStyle(summarySheet, "B"+rs, "B"+rs, st.total)
	}
	return nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
