package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Saipreetham0/ksp-project-sub001/models"
	"github.com/Saipreetham0/ksp-project-sub001/utils"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Email    string `json:"email"`
	College  string `json:"college"`
}

// POST /v1/register
func (c *Controller) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Not valid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Name == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Name is required"})
		return
	}
	if !rePhone.MatchString(req.Phone) {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Enter a valid 10-digit mobile number"})
		return
	}
	if len(req.Password) < 6 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Password must be at least 6 characters"})
		return
	}

	var existing models.User
	err := c.db.Where("phone = ?", req.Phone).First(&existing).Error
	if err == nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "This number is already registered"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Something went wrong, please try again"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Something went wrong, please try again"})
		return
	}

	user := models.User{
		Name:     req.Name,
		Phone:    req.Phone,
		Password: string(hashed),
	}
	if req.Email != "" {
		user.Email = &req.Email
	}
	if req.College != "" {
		user.College = &req.College
	}

	if err := c.db.Create(&user).Error; err != nil {
		utils.Log.Errorw("user registration failed", "error", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Something went wrong, please try again"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{Success: true, Message: "Registration successful", Data: user})
}
