package reports

import (
	"testing"

	"kiwihr/internal/domain/payroll"
)

func TestSummarizeProfiles(t *testing.T) {
	profiles := []payroll.Profile{
		{EmployeeID: "e1", PayCycle: "monthly", Salary: 90000, TaxCode: "M"},
		{EmployeeID: "e2", PayCycle: "monthly", Salary: 70000, TaxCode: "M"},
		{EmployeeID: "e3", PayCycle: "fortnightly", Salary: 60000, TaxCode: "ME"},
	}

	got := SummarizeProfiles(profiles)

	if got.ProfileCount != 3 {
		t.Fatalf("expected 3 profiles, got %d", got.ProfileCount)
	}
	if got.TotalSalary != 220000 {
		t.Fatalf("expected total 220000, got %v", got.TotalSalary)
	}
	if got.ByPayCycle["monthly"] != 2 || got.ByPayCycle["fortnightly"] != 1 {
		t.Fatalf("unexpected pay cycle counts: %v", got.ByPayCycle)
	}
	if got.AverageByTax["M"] != 80000 {
		t.Fatalf("expected M average 80000, got %v", got.AverageByTax["M"])
	}
	if got.AverageByTax["ME"] != 60000 {
		t.Fatalf("expected ME average 60000, got %v", got.AverageByTax["ME"])
	}
}

func TestSummarizeProfilesEmpty(t *testing.T) {
	got := SummarizeProfiles(nil)
	if got.ProfileCount != 0 || got.TotalSalary != 0 {
		t.Fatalf("expected zero overview, got %+v", got)
	}
}
