package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"homecare-app-server/internal/models"
	"homecare-app-server/internal/utils"
)

// AdminUser is one row of an admin roster.
type AdminUser struct {
	ID       string      `json:"id"`
	FullName string      `json:"fullName"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
}

// AdminHandler serves the admin rosters.
type AdminHandler struct {
	Store AccountStore
	Log   zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(store AccountStore, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{Store: store, Log: logger}
}

// GetPatients lists every user in the Patient role.
func (h *AdminHandler) GetPatients(c *gin.Context) {
	h.roster(c, models.RolePatient, "Patients retrieved successfully")
}

// GetPersonnel lists every user in the Personnel role.
func (h *AdminHandler) GetPersonnel(c *gin.Context) {
	h.roster(c, models.RolePersonnel, "Personnel retrieved successfully")
}

func (h *AdminHandler) roster(c *gin.Context, role models.Role, message string) {
	users, err := h.Store.ListUsersByRole(c.Request.Context(), role)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	out := make([]AdminUser, 0, len(users))
	for _, u := range users {
		name := u.FullName
		if name == "" {
			name = "(No name)"
		}
		out = append(out, AdminUser{ID: u.ID, FullName: name, Email: u.Email, Role: role})
	}
	utils.Success(c, message, out)
}
