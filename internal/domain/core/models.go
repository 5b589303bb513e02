package core

import "time"

type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	NZBN      string    `json:"nzbn,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Team struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organizationId"`
	Name           string    `json:"name"`
	LeaderID       string    `json:"leaderId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

type Employee struct {
	ID             string     `json:"id"`
	UserID         string     `json:"userId"`
	OrganizationID string     `json:"organizationId"`
	TeamID         string     `json:"teamId,omitempty"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Email          string     `json:"email"`
	Position       string     `json:"position"`
	EmploymentType string     `json:"employmentType"`
	IRDNumber      string     `json:"irdNumber,omitempty"`
	BankAccount    string     `json:"bankAccount,omitempty"`
	StartDate      *time.Time `json:"startDate,omitempty"`
	EndDate        *time.Time `json:"endDate,omitempty"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}
