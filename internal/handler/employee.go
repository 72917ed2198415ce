package handler

import (
	"net/http"

	"github.com/msomdec/timeclock/internal/service"
)

// EmployeeHandler lets employers manage the employees of their company.
type EmployeeHandler struct {
	auth *service.AuthService
}

// NewEmployeeHandler creates a new EmployeeHandler.
func NewEmployeeHandler(auth *service.AuthService) *EmployeeHandler {
	return &EmployeeHandler{auth: auth}
}

// HandleList returns the employer's employees.
// GET /api/employees
// Response: {"employees": [...]}
func (h *EmployeeHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	employees, err := h.auth.ListEmployees(r.Context(), UserFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, err, "list employees")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"employees": toUserDTOs(employees),
	})
}

// HandleCreate adds an employee account to the employer's company.
// POST /api/employees
// Request:  {"name":"...","email":"...","password":"..."}
// Response: {"employee": {...}}
func (h *EmployeeHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	employee, err := h.auth.AddEmployee(r.Context(), UserFromContext(r.Context()), req.Name, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err, "add employee")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"employee": toUserDTO(employee),
	})
}
