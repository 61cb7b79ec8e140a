package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Saipreetham0/ksp-project-sub001/middleware"
	"github.com/Saipreetham0/ksp-project-sub001/models"
	"github.com/Saipreetham0/ksp-project-sub001/utils"
)

type LoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// POST /v1/login
//
// Issues the API access token and sets the session cookie the page guard
// keys off.
func (c *Controller) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Not valid JSON"})
		return
	}

	req.Phone = strings.TrimSpace(req.Phone)
	if req.Phone == "" || req.Password == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Phone and password are required"})
		return
	}

	var user models.User
	if err := c.db.Where("phone = ?", req.Phone).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Invalid phone number or password"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Something went wrong, please try again"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Invalid phone number or password"})
		return
	}
	if user.Status != "Active" {
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Account is suspended"})
		return
	}

	token, err := utils.GenerateAccessToken(user.ID, accessTokenTTL)
	if err != nil {
		utils.Log.Errorw("token generation failed", "error", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Something went wrong, please try again"})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(accessTokenTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Login successful", Data: map[string]interface{}{
		"token": token,
		"user":  user,
	}})
}
