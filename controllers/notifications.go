package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/Saipreetham0/ksp-project-sub001/models"
	"github.com/Saipreetham0/ksp-project-sub001/utils"
)

type NotificationsController struct {
	db *gorm.DB
}

func NewNotificationsController(db *gorm.DB) *NotificationsController {
	return &NotificationsController{db: db}
}

// GET /v1/notifications
func (c *NotificationsController) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var notifications []models.Notification
	if err := c.db.Where("user_id = ?", uid).Order("read ASC, id DESC").Limit(100).Find(&notifications).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to load notifications"})
		return
	}

	var unread int64
	_ = c.db.Model(&models.Notification{}).Where("user_id = ? AND read = ?", uid, false).Count(&unread).Error

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: map[string]interface{}{
		"notifications": notifications,
		"unread":        unread,
	}})
}

// PUT /v1/notifications/{id}/read
//
// Only the owner can mark a notification read; anyone else sees 404.
func (c *NotificationsController) MarkRead(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	idStr := mux.Vars(r)["id"]
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || id == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid notification id"})
		return
	}

	var notification models.Notification
	if err := c.db.Where("id = ? AND user_id = ?", id, uid).First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Notification not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Something went wrong, please try again"})
		return
	}

	if !notification.Read {
		notification.Read = true
		if err := c.db.Save(&notification).Error; err != nil {
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Something went wrong, please try again"})
			return
		}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Notification marked as read", Data: notification})
}

// PUT /v1/notifications/read-all
func (c *NotificationsController) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	res := c.db.Model(&models.Notification{}).Where("user_id = ? AND read = ?", uid, false).Update("read", true)
	if res.Error != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Something went wrong, please try again"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "All notifications marked as read", Data: map[string]interface{}{
		"updated": res.RowsAffected,
	}})
}
