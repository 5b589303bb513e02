package payroll

import "time"

var PayCycles = []string{"weekly", "fortnightly", "monthly"}

// Profile is payroll metadata for one employee: how they are paid, not a pay
// run. Salary figures stay encrypted at rest alongside the employee record's
// bank details.
type Profile struct {
	ID             string    `json:"id"`
	EmployeeID     string    `json:"employeeId"`
	OrganizationID string    `json:"organizationId"`
	PayCycle       string    `json:"payCycle"`
	Salary         float64   `json:"salary"`
	TaxCode        string    `json:"taxCode"`
	KiwiSaverRate  float64   `json:"kiwiSaverRate"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
