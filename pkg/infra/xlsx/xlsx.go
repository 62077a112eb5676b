// Package xlsx reads postal codes from and writes lookup results to Excel workbooks.
package xlsx

import (
	"io"
	"strings"

	"github.com/m-mizutani/ceplookup/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/xuri/excelize/v2"
)

const (
	// ContentType is the MIME type of .xlsx workbooks
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// TemplateFileName is the download name of the input template
	TemplateFileName = "planilha_modelo_cep.xlsx"

	// ResultFileName is the download name of exported results
	ResultFileName = "enderecos_resultados.xlsx"

	// InputSheet is the sheet holding postal codes in input workbooks
	InputSheet = "CEP"

	// InputColumn is the header of the postal code column in input workbooks
	InputColumn = "CEP"

	// FoundSheet is the sheet holding resolved codes in exported workbooks
	FoundSheet = "CEPs encontrados"

	// InvalidSheet is the sheet holding unresolved codes in exported workbooks
	InvalidSheet = "CEPs inválidos"

	cepDigits = 8
)

var (
	foundHeader   = []string{"CEP", "Logradouro", "Bairro", "Localidade", "UF"}
	invalidHeader = []string{"CEP"}

	// TemplateCodes are the sample codes written to the input template
	TemplateCodes = []model.CEP{"01001-000", "20040-020"}
)

// ReadCodes returns the non-blank postal codes of the CEP column of the CEP
// sheet in row order
func ReadCodes(r io.Reader) ([]model.CEP, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open workbook")
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(InputSheet); err != nil || idx < 0 {
		return nil, goerr.Wrap(model.ErrSheetNotFound, "missing input sheet",
			goerr.V("sheet", InputSheet),
			goerr.V("sheets", f.GetSheetList()),
		)
	}

	rows, err := f.GetRows(InputSheet)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read rows", goerr.V("sheet", InputSheet))
	}

	if len(rows) == 0 {
		return nil, goerr.Wrap(model.ErrColumnNotFound, "input sheet is empty", goerr.V("column", InputColumn))
	}

	col := -1
	for i, cell := range rows[0] {
		if strings.TrimSpace(cell) == InputColumn {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, goerr.Wrap(model.ErrColumnNotFound, "missing input column",
			goerr.V("column", InputColumn),
			goerr.V("header", rows[0]),
		)
	}

	var codes []model.CEP
	for _, row := range rows[1:] {
		if col >= len(row) {
			continue
		}
		value := strings.TrimSpace(row[col])
		if value == "" {
			continue
		}
		codes = append(codes, model.CEP(restoreLeadingZeros(value)))
	}

	return codes, nil
}

// restoreLeadingZeros pads codes stored as numbers, e.g. 1001000 for 01001000
func restoreLeadingZeros(value string) string {
	if len(value) >= cepDigits {
		return value
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return value
		}
	}
	return strings.Repeat("0", cepDigits-len(value)) + value
}

// WriteReport writes a workbook with one sheet per non-empty category of the report
func WriteReport(w io.Writer, report *model.BatchReport) error {
	if report == nil || report.Empty() {
		return goerr.Wrap(model.ErrEmptyReport, "nothing to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	first := true
	addSheet := func(name string) error {
		if first {
			first = false
			return f.SetSheetName(f.GetSheetName(0), name)
		}
		_, err := f.NewSheet(name)
		return err
	}

	if len(report.Found) > 0 {
		if err := addSheet(FoundSheet); err != nil {
			return goerr.Wrap(err, "failed to create sheet", goerr.V("sheet", FoundSheet))
		}
		rows := make([][]string, 0, len(report.Found))
		for _, result := range report.Found {
			addr := result.Address
			if addr == nil {
				addr = &model.Address{}
			}
			rows = append(rows, []string{
				result.CEP.String(),
				addr.Street,
				addr.Neighborhood,
				addr.City,
				addr.StateCode,
			})
		}
		if err := writeTable(f, FoundSheet, foundHeader, rows); err != nil {
			return err
		}
	}

	if len(report.Invalid) > 0 {
		if err := addSheet(InvalidSheet); err != nil {
			return goerr.Wrap(err, "failed to create sheet", goerr.V("sheet", InvalidSheet))
		}
		rows := make([][]string, 0, len(report.Invalid))
		for _, result := range report.Invalid {
			rows = append(rows, []string{result.CEP.String()})
		}
		if err := writeTable(f, InvalidSheet, invalidHeader, rows); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return goerr.Wrap(err, "failed to write workbook")
	}
	return nil
}

// WriteResult writes a workbook holding a single lookup result
func WriteResult(w io.Writer, result *model.LookupResult) error {
	report := model.NewBatchReport()
	report.Add(result)
	return WriteReport(w, report)
}

// WriteTemplate writes an example input workbook
func WriteTemplate(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), InputSheet); err != nil {
		return goerr.Wrap(err, "failed to rename sheet", goerr.V("sheet", InputSheet))
	}

	rows := make([][]string, 0, len(TemplateCodes))
	for _, cep := range TemplateCodes {
		rows = append(rows, []string{cep.String()})
	}
	if err := writeTable(f, InputSheet, []string{InputColumn}, rows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return goerr.Wrap(err, "failed to write workbook")
	}
	return nil
}

// writeTable writes a header row followed by data rows starting at A1. Values
// are stored as text so codes keep their leading zeros.
func writeTable(f *excelize.File, sheet string, header []string, rows [][]string) error {
	all := append([][]string{header}, rows...)
	for i, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return goerr.Wrap(err, "invalid cell coordinates", goerr.V("row", i+1))
		}

		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return goerr.Wrap(err, "failed to write row",
				goerr.V("sheet", sheet),
				goerr.V("row", i+1),
			)
		}
	}
	return nil
}
