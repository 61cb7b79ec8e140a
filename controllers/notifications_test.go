package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Saipreetham0/ksp-project-sub001/models"
)

func seedNotification(t *testing.T, db *gorm.DB, userID uint, read bool) models.Notification {
	t.Helper()
	n := models.Notification{UserID: userID, Type: "payment", Title: "Payment successful", Message: "hello", Read: read}
	require.NoError(t, db.Create(&n).Error)
	return n
}

func markReadRequest(id string, userID uint) *http.Request {
	req := authedRequest(http.MethodPut, "/v1/notifications/"+id+"/read", nil, userID)
	return mux.SetURLVars(req, map[string]string{"id": id})
}

func TestMarkRead_Owner(t *testing.T) {
	db := testDB(t)
	n := seedNotification(t, db, 1, false)

	ctrl := NewNotificationsController(db)
	rec := httptest.NewRecorder()
	ctrl.MarkRead(rec, markReadRequest("1", 1))

	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Success bool                `json:"success"`
		Data    models.Notification `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.Success)
	assert.True(t, got.Data.Read)

	require.NoError(t, db.First(&n, n.ID).Error)
	assert.True(t, n.Read)
}

func TestMarkRead_Idempotent(t *testing.T) {
	db := testDB(t)
	seedNotification(t, db, 1, true)

	ctrl := NewNotificationsController(db)
	rec := httptest.NewRecorder()
	ctrl.MarkRead(rec, markReadRequest("1", 1))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMarkRead_OtherUsersNotificationIsNotFound(t *testing.T) {
	db := testDB(t)
	n := seedNotification(t, db, 1, false)

	ctrl := NewNotificationsController(db)
	rec := httptest.NewRecorder()
	ctrl.MarkRead(rec, markReadRequest("1", 2))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	// The row must be untouched.
	require.NoError(t, db.First(&n, n.ID).Error)
	assert.False(t, n.Read)
}

func TestMarkRead_InvalidID(t *testing.T) {
	ctrl := NewNotificationsController(testDB(t))
	for _, id := range []string{"abc", "0", "-5", ""} {
		rec := httptest.NewRecorder()
		ctrl.MarkRead(rec, markReadRequest(id, 1))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "id: %q", id)
	}
}

func TestMarkRead_MissingRow(t *testing.T) {
	ctrl := NewNotificationsController(testDB(t))
	rec := httptest.NewRecorder()
	ctrl.MarkRead(rec, markReadRequest("99", 1))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestList_ReturnsOwnNotificationsWithUnreadCount(t *testing.T) {
	db := testDB(t)
	seedNotification(t, db, 1, false)
	seedNotification(t, db, 1, true)
	seedNotification(t, db, 2, false)

	ctrl := NewNotificationsController(db)
	rec := httptest.NewRecorder()
	ctrl.List(rec, authedRequest(http.MethodGet, "/v1/notifications", nil, 1))

	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Data struct {
			Notifications []models.Notification `json:"notifications"`
			Unread        int64                 `json:"unread"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got.Data.Notifications, 2)
	assert.Equal(t, int64(1), got.Data.Unread)
	for _, n := range got.Data.Notifications {
		assert.Equal(t, uint(1), n.UserID)
	}
}

func TestMarkAllRead(t *testing.T) {
	db := testDB(t)
	seedNotification(t, db, 1, false)
	seedNotification(t, db, 1, false)
	seedNotification(t, db, 2, false)

	ctrl := NewNotificationsController(db)
	rec := httptest.NewRecorder()
	ctrl.MarkAllRead(rec, authedRequest(http.MethodPut, "/v1/notifications/read-all", nil, 1))

	require.Equal(t, http.StatusOK, rec.Code)

	var unread int64
	require.NoError(t, db.Model(&models.Notification{}).Where("user_id = ? AND read = ?", 1, false).Count(&unread).Error)
	assert.Zero(t, unread)

	// Other users' notifications stay unread.
	require.NoError(t, db.Model(&models.Notification{}).Where("user_id = ? AND read = ?", 2, false).Count(&unread).Error)
	assert.Equal(t, int64(1), unread)
}

func TestNotifications_Unauthenticated(t *testing.T) {
	ctrl := NewNotificationsController(testDB(t))

	rec := httptest.NewRecorder()
	ctrl.List(rec, authedRequest(http.MethodGet, "/v1/notifications", nil, 0))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	ctrl.MarkRead(rec, markReadRequest("1", 0))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
