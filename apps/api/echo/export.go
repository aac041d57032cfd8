package echoapi

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/kasozi/gpatrack/core/gpa"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (api *gpaApi) export(ctx echo.Context) error {
	sid, err := sessionID(ctx)
	if err != nil {
		return err
	}
	snap, err := api.svc.Get(ctx.Request().Context(), sid)
	if err != nil {
		return errors.Wrap(err, "getting snapshot")
	}

	file, err := BuildWorkbook(snap)
	if err != nil {
		return errors.Wrap(err, "building workbook")
	}
	var buf bytes.Buffer
	if _, err = file.WriteTo(&buf); err != nil {
		return errors.Wrap(err, "writing workbook")
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="gpa-report.xlsx"`)
	return ctx.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

// BuildWorkbook renders a session snapshot as a spreadsheet: the GPA record
// plus one sheet per course table. Shared with the admin CLI's export command.
func BuildWorkbook(snap gpa.Snapshot) (*excelize.File, error) {
	file := excelize.NewFile()

	const recordSheet = "GPA Record"
	if err := file.SetSheetName(file.GetSheetName(0), recordSheet); err != nil {
		return nil, err
	}
	recordRows := [][]interface{}{
		{"", "Grade Points", "Attempted Credits", "C.GPA"},
		{"Current", snap.Record.CurrentGradePoints, snap.Record.CurrentAttemptedCredits, snap.Record.CurrentCGPA},
		{"Expected", snap.Record.ExpectedGradePoints, snap.Record.ExpectedAttemptedCredits, snap.Record.ExpectedCGPA},
		{},
		{"Sem GPA (Repeat)", snap.Record.SemGpaRepeat},
		{"Sem GPA (New)", snap.Record.SemGpaNew},
		{"Overall Sem GPA", snap.Record.OverallSemGpa},
	}
	if err := writeRows(file, recordSheet, recordRows); err != nil {
		return nil, err
	}

	const repeatSheet = "Repeating Courses"
	if _, err := file.NewSheet(repeatSheet); err != nil {
		return nil, err
	}
	repeatRows := [][]interface{}{
		{"Code", "Old Grade", "New Grade", "Credit", "Points", "Sem Points"},
	}
	for _, c := range snap.RepeatCourses {
		repeatRows = append(repeatRows, []interface{}{c.Code, c.OldGrade, c.NewGrade, c.Credit, c.Points, c.SemPoints})
	}
	if err := writeRows(file, repeatSheet, repeatRows); err != nil {
		return nil, err
	}

	const newSheet = "New Courses"
	if _, err := file.NewSheet(newSheet); err != nil {
		return nil, err
	}
	newRows := [][]interface{}{
		{"Code", "Grade", "Credit", "Sem Points"},
	}
	for _, c := range snap.NewCourses {
		newRows = append(newRows, []interface{}{c.Code, c.Grade, c.Credit, c.SemPoints})
	}
	if err := writeRows(file, newSheet, newRows); err != nil {
		return nil, err
	}

	return file, nil
}

func writeRows(file *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err = file.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrapf(err, "setting %s row %d", sheet, i+1)
		}
	}
	return nil
}
