package handler

import (
	"time"

	"github.com/msomdec/timeclock/internal/domain"
	"github.com/msomdec/timeclock/internal/service"
)

// UserDTO is the JSON representation of a user.
type UserDTO struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Type      string `json:"type"`
	CompanyID string `json:"companyId,omitempty"`
	CreatedAt string `json:"createdAt"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Type:      string(u.Type),
		CompanyID: u.CompanyID,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

func toUserDTOs(users []domain.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i := range users {
		dtos[i] = toUserDTO(&users[i])
	}
	return dtos
}

// TimeEntryDTO is the JSON representation of a time entry. Unset clock
// times and hours are null.
type TimeEntryDTO struct {
	ID         int64    `json:"id"`
	EmployeeID int64    `json:"employeeId"`
	Date       string   `json:"date"`
	CheckIn    *string  `json:"checkIn"`
	CheckOut   *string  `json:"checkOut"`
	Latitude   float64  `json:"latitude"`
	Longitude  float64  `json:"longitude"`
	Address    string   `json:"address"`
	TotalHours *float64 `json:"totalHours"`
	CreatedAt  string   `json:"createdAt"`
	UpdatedAt  string   `json:"updatedAt"`
}

func toTimeEntryDTO(e *domain.TimeEntry) TimeEntryDTO {
	return TimeEntryDTO{
		ID:         e.ID,
		EmployeeID: e.EmployeeID,
		Date:       e.Date,
		CheckIn:    optional(e.CheckIn),
		CheckOut:   optional(e.CheckOut),
		Latitude:   e.Location.Latitude,
		Longitude:  e.Location.Longitude,
		Address:    e.Location.Address,
		TotalHours: e.TotalHours,
		CreatedAt:  e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  e.UpdatedAt.Format(time.RFC3339),
	}
}

func toTimeEntryDTOs(entries []domain.TimeEntry) []TimeEntryDTO {
	dtos := make([]TimeEntryDTO, len(entries))
	for i := range entries {
		dtos[i] = toTimeEntryDTO(&entries[i])
	}
	return dtos
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// EmployeeHoursDTO is one row of a summary's per-employee breakdown.
type EmployeeHoursDTO struct {
	EmployeeID  int64   `json:"employeeId"`
	Name        string  `json:"name"`
	TotalHours  float64 `json:"totalHours"`
	WorkingDays int     `json:"workingDays"`
}

// SummaryDTO is the JSON representation of an attendance summary.
type SummaryDTO struct {
	From             string             `json:"from,omitempty"`
	To               string             `json:"to,omitempty"`
	TotalHours       float64            `json:"totalHours"`
	WorkingDays      int                `json:"workingDays"`
	ActiveEmployees  int                `json:"activeEmployees"`
	AverageHours     float64            `json:"averageHours"`
	CompletedEntries int                `json:"completedEntries"`
	PartialEntries   int                `json:"partialEntries"`
	ByEmployee       []EmployeeHoursDTO `json:"byEmployee"`
}

func toSummaryDTO(s service.Summary) SummaryDTO {
	rows := make([]EmployeeHoursDTO, len(s.ByEmployee))
	for i, e := range s.ByEmployee {
		rows[i] = EmployeeHoursDTO{
			EmployeeID:  e.EmployeeID,
			Name:        e.Name,
			TotalHours:  e.TotalHours,
			WorkingDays: e.WorkingDays,
		}
	}
	return SummaryDTO{
		From:             s.From,
		To:               s.To,
		TotalHours:       s.TotalHours,
		WorkingDays:      s.WorkingDays,
		ActiveEmployees:  s.Employees,
		AverageHours:     s.AverageHours,
		CompletedEntries: s.CompletedEntries,
		PartialEntries:   s.PartialEntries,
		ByEmployee:       rows,
	}
}
