package leave

import "time"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusDeclined = "declined"
)

var LeaveTypes = []string{"annual", "sick", "bereavement", "parental", "unpaid"}

type Request struct {
	ID             string    `json:"id"`
	EmployeeID     string    `json:"employeeId"`
	OrganizationID string    `json:"organizationId"`
	TeamID         string    `json:"teamId,omitempty"`
	Type           string    `json:"type"`
	StartDate      time.Time `json:"startDate"`
	EndDate        time.Time `json:"endDate"`
	Days           float64   `json:"days"`
	Reason         string    `json:"reason,omitempty"`
	Status         string    `json:"status"`
	DecidedBy      string    `json:"decidedBy,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
