/*
Package letters renders fulfilled letter requests into PDF documents: a
Certificate of Employment built from the chosen template, or a BIR 2316
release cover. Rendering reads the profile and the validated request; it
never mutates either.
*/
package letters

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/employeecare/selfserve/engine"
)

// ErrNotLetterRequest is returned when the record is not a letter request.
var ErrNotLetterRequest = fmt.Errorf("record is not a letter request")

// Render produces the PDF for a letter request.
func Render(profile engine.EmployeeProfile, req engine.Request, issuedOn time.Time) ([]byte, error) {
	if req.Type != engine.FormLetter || req.Letter == nil {
		return nil, ErrNotLetterRequest
	}

	switch req.Letter.LetterType {
	case engine.LetterCOE:
		return renderCOE(profile, *req.Letter, issuedOn)
	case engine.LetterBIR2316:
		return renderBIR2316(profile, *req.Letter, issuedOn)
	default:
		return nil, fmt.Errorf("unknown letter type %q", req.Letter.LetterType)
	}
}

func renderCOE(profile engine.EmployeeProfile, letter engine.LetterDetails, issuedOn time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Certificate of Employment")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 12)
	pdf.MultiCell(0, 7, fmt.Sprintf(
		"This certifies that %s is employed with the company as %s (%s) in the %s department, %s team.",
		profile.Name, profile.Position, profile.EmploymentType, profile.Department, profile.Team), "", "L", false)
	pdf.Ln(4)
	pdf.Cell(0, 8, fmt.Sprintf("Purpose: %s", letter.TemplateName))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Date needed: %s", letter.DateNeeded))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Issued on: %s", issuedOn.Format("January 2, 2006")))
	pdf.Ln(16)
	pdf.Cell(0, 8, "Human Resources Department")

	return output(pdf)
}

func renderBIR2316(profile engine.EmployeeProfile, letter engine.LetterDetails, issuedOn time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "BIR Form 2316 - Release")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 12)
	pdf.MultiCell(0, 7, fmt.Sprintf(
		"Certificate of Compensation Payment/Tax Withheld prepared for %s, %s.",
		profile.Name, profile.Position), "", "L", false)
	pdf.Ln(4)
	pdf.Cell(0, 8, fmt.Sprintf("Date needed: %s", letter.DateNeeded))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Issued on: %s", issuedOn.Format("January 2, 2006")))
	pdf.Ln(16)
	pdf.Cell(0, 8, "Human Resources Department")

	return output(pdf)
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
