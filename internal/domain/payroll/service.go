package payroll

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"kiwihr/internal/domain/core"
)

type Service struct {
	store *Store
	core  *core.Store
}

func NewService(store *Store, coreStore *core.Store) *Service {
	return &Service{store: store, core: coreStore}
}

func (s *Service) Store() *Store {
	return s.store
}

// GenerateProfilePDF renders a payroll metadata summary for one employee.
// The caller has already authorized payroll access for the employee's
// organization.
func (s *Service) GenerateProfilePDF(ctx context.Context, employeeID string) ([]byte, error) {
	profile, err := s.store.GetByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	emp, err := s.core.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payroll Profile")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s %s", emp.FirstName, emp.LastName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Email: %s", emp.Email))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Pay cycle: %s", profile.PayCycle))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Salary: %.2f NZD", profile.Salary))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Tax code: %s", profile.TaxCode))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("KiwiSaver rate: %.1f%%", profile.KiwiSaverRate*100))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
