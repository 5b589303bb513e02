package reports

import (
	"context"

	"kiwihr/internal/domain/core"
	"kiwihr/internal/domain/leave"
	"kiwihr/internal/domain/payroll"
)

// Service aggregates counts for the dashboard views. It composes the
// domain stores rather than running its own queries so every figure is
// consistent with what the list endpoints return.
type Service struct {
	Core    *core.Store
	Leave   *leave.Store
	Payroll *payroll.Store
}

func NewService(coreStore *core.Store, leaveStore *leave.Store, payrollStore *payroll.Store) *Service {
	return &Service{Core: coreStore, Leave: leaveStore, Payroll: payrollStore}
}

type Overview struct {
	EmployeeCount int `json:"employeeCount"`
	TeamCount     int `json:"teamCount"`
	PendingLeave  int `json:"pendingLeave"`
}

func (s *Service) OrganizationOverview(ctx context.Context, organizationID string) (Overview, error) {
	var out Overview

	employees, err := s.Core.CountEmployees(ctx, organizationID)
	if err != nil {
		return out, err
	}
	teams, err := s.Core.ListTeams(ctx, organizationID)
	if err != nil {
		return out, err
	}
	pending, err := s.Leave.CountPending(ctx, organizationID)
	if err != nil {
		return out, err
	}

	out.EmployeeCount = employees
	out.TeamCount = len(teams)
	out.PendingLeave = pending
	return out, nil
}

type FinancialOverview struct {
	ProfileCount int                `json:"profileCount"`
	TotalSalary  float64            `json:"totalSalary"`
	ByPayCycle   map[string]int     `json:"byPayCycle"`
	AverageByTax map[string]float64 `json:"averageByTaxCode"`
}

func (s *Service) FinancialOverview(ctx context.Context, organizationID string) (FinancialOverview, error) {
	profiles, err := s.Payroll.ListByOrganization(ctx, organizationID)
	if err != nil {
		return FinancialOverview{}, err
	}
	return SummarizeProfiles(profiles), nil
}

// SummarizeProfiles folds a set of payroll profiles into the financial
// dashboard figures. Split out so the aggregation is testable without a
// database.
func SummarizeProfiles(profiles []payroll.Profile) FinancialOverview {
	out := FinancialOverview{
		ByPayCycle:   make(map[string]int),
		AverageByTax: make(map[string]float64),
	}
	taxTotals := make(map[string]float64)
	taxCounts := make(map[string]int)

	for _, p := range profiles {
		out.ProfileCount++
		out.TotalSalary += p.Salary
		out.ByPayCycle[p.PayCycle]++
		taxTotals[p.TaxCode] += p.Salary
		taxCounts[p.TaxCode]++
	}
	for code, total := range taxTotals {
		out.AverageByTax[code] = total / float64(taxCounts[code])
	}
	return out
}
