package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Saipreetham0/ksp-project-sub001/middleware"
	"github.com/Saipreetham0/ksp-project-sub001/models"
	"github.com/Saipreetham0/ksp-project-sub001/utils"
)

type OTPRequest struct {
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
}

func (c *Controller) otpPrechecks(w http.ResponseWriter, r *http.Request, phone string) bool {
	if !c.otp.Configured() {
		utils.WriteJSON(w, http.StatusServiceUnavailable, utils.APIResponse{Success: false, Message: "OTP service is not configured"})
		return false
	}

	if ok, wait, msg := c.otpLimiter.CheckPhone(phone); !ok {
		utils.WriteJSON(w, http.StatusTooManyRequests, utils.APIResponse{Success: false, Message: msg, Data: map[string]interface{}{
			"retry_after_seconds": int(wait.Seconds()),
		}})
		return false
	}

	ip := middleware.RequestIP(r, c.trustedProxies)
	if ok, wait, msg := c.otpLimiter.CheckIP(ip); !ok {
		utils.WriteJSON(w, http.StatusTooManyRequests, utils.APIResponse{Success: false, Message: msg, Data: map[string]interface{}{
			"retry_after_seconds": int(wait.Seconds()),
		}})
		return false
	}
	return true
}

// POST /v1/auth/otp/send
func (c *Controller) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req OTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Not valid JSON"})
		return
	}
	req.Phone = strings.TrimSpace(req.Phone)
	if !rePhone.MatchString(req.Phone) {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Enter a valid 10-digit mobile number"})
		return
	}

	if !c.otpPrechecks(w, r, req.Phone) {
		return
	}

	requestID, err := c.otp.SendOTP(r.Context(), "91"+req.Phone)
	if err != nil {
		c.writeOTPError(w, err, "Failed to send OTP")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "OTP sent", Data: map[string]interface{}{
		"request_id": requestID,
	}})
}

// POST /v1/auth/otp/resend
func (c *Controller) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req OTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Not valid JSON"})
		return
	}
	req.Phone = strings.TrimSpace(req.Phone)
	if !rePhone.MatchString(req.Phone) {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Enter a valid 10-digit mobile number"})
		return
	}

	if !c.otpPrechecks(w, r, req.Phone) {
		return
	}

	if err := c.otp.ResendOTP(r.Context(), "91"+req.Phone); err != nil {
		c.writeOTPError(w, err, "Failed to resend OTP")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "OTP resent"})
}

// POST /v1/auth/otp/verify
func (c *Controller) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req OTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Not valid JSON"})
		return
	}
	req.Phone = strings.TrimSpace(req.Phone)
	req.OTP = strings.TrimSpace(req.OTP)
	if !rePhone.MatchString(req.Phone) || req.OTP == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Phone and OTP are required"})
		return
	}
	if !c.otp.Configured() {
		utils.WriteJSON(w, http.StatusServiceUnavailable, utils.APIResponse{Success: false, Message: "OTP service is not configured"})
		return
	}

	if err := c.otp.VerifyOTP(r.Context(), "91"+req.Phone, req.OTP); err != nil {
		var msgErr *utils.MSG91Error
		if errors.As(err, &msgErr) && msgErr.HTTPCode < 500 {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid or expired OTP"})
			return
		}
		utils.Log.Errorw("otp verification failed", "error", err)
		utils.WriteJSON(w, http.StatusBadGateway, utils.APIResponse{Success: false, Message: "OTP service is temporarily unavailable"})
		return
	}

	c.otpLimiter.Reset(req.Phone)

	// Flag the account verified when it exists; verification before signup is fine too.
	if err := c.db.Model(&models.User{}).Where("phone = ?", req.Phone).Update("phone_verified", true).Error; err != nil {
		utils.Log.Warnw("failed to flag phone verified", "error", err)
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Phone number verified"})
}

func (c *Controller) writeOTPError(w http.ResponseWriter, err error, fallback string) {
	var msgErr *utils.MSG91Error
	if errors.As(err, &msgErr) && msgErr.HTTPCode < 500 && msgErr.Message != "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: msgErr.Message})
		return
	}
	utils.Log.Errorw("otp send failed", "error", err)
	utils.WriteJSON(w, http.StatusBadGateway, utils.APIResponse{Success: false, Message: fallback})
}
