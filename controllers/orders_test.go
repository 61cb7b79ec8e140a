package controllers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Saipreetham0/ksp-project-sub001/models"
	"github.com/Saipreetham0/ksp-project-sub001/utils"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Payment{},
		&models.Notification{},
	))
	return db
}

type stubGateway struct {
	calls      int
	lastParams utils.OrderParams
	order      map[string]interface{}
	err        error
}

func (s *stubGateway) CreateOrder(ctx context.Context, params utils.OrderParams) (map[string]interface{}, error) {
	s.calls++
	s.lastParams = params
	if s.err != nil {
		return nil, s.err
	}
	return s.order, nil
}

func authedRequest(method, target string, body []byte, userID uint) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if userID != 0 {
		req = req.WithContext(context.WithValue(req.Context(), utils.UserIDKey, userID))
	}
	return req
}

func TestCreateOrder_RejectsBadAmountsWithoutGatewayCall(t *testing.T) {
	gw := &stubGateway{order: map[string]interface{}{"id": "order_x"}}
	ctrl := NewOrdersController(testDB(t), gw, "key_secret", "")

	bodies := []string{
		`{"project_id":"p1","user_id":"u1"}`,
		`{"amount":0,"project_id":"p1","user_id":"u1"}`,
		`{"amount":-500,"project_id":"p1","user_id":"u1"}`,
		`{"amount":"lots","project_id":"p1","user_id":"u1"}`,
		`{"amount":500,"user_id":"u1"}`,
		`{"amount":500,"project_id":"p1"}`,
	}
	for _, body := range bodies {
		rec := httptest.NewRecorder()
		ctrl.CreateOrder(rec, authedRequest(http.MethodPost, "/v1/payments/order", []byte(body), 1))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
	}
	assert.Zero(t, gw.calls, "gateway must not be called for invalid input")
}

func TestCreateOrder_Success(t *testing.T) {
	db := testDB(t)
	gw := &stubGateway{order: map[string]interface{}{
		"id":       "order_N5lxAO3OVcSWbA",
		"amount":   float64(50000),
		"currency": "INR",
		"status":   "created",
	}}
	ctrl := NewOrdersController(db, gw, "key_secret", "")

	rec := httptest.NewRecorder()
	body := []byte(`{"amount":49999.6,"project_id":"proj-abc-123","user_id":"42"}`)
	ctrl.CreateOrder(rec, authedRequest(http.MethodPost, "/v1/payments/order", body, 42))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, gw.calls)

	// Amount is rounded to the nearest integer minor unit.
	assert.Equal(t, int64(50000), gw.lastParams.Amount)
	assert.Equal(t, "INR", gw.lastParams.Currency)
	assert.False(t, gw.lastParams.PartialPayment)
	assert.LessOrEqual(t, len(gw.lastParams.Receipt), 40)
	assert.Equal(t, "proj-abc-123", gw.lastParams.Notes["project_id"])

	// Gateway order object returned verbatim.
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "order_N5lxAO3OVcSWbA", got["id"])

	// Local payment row recorded.
	var payment models.Payment
	require.NoError(t, db.Where("order_id = ?", "order_N5lxAO3OVcSWbA").First(&payment).Error)
	assert.Equal(t, uint(42), payment.UserID)
	assert.Equal(t, models.PaymentStatusCreated, payment.Status)
}

func TestCreateOrder_GatewayBadRequestForwarded(t *testing.T) {
	gw := &stubGateway{err: &utils.RazorpayError{
		HTTPCode:    http.StatusBadRequest,
		Code:        "BAD_REQUEST_ERROR",
		Description: "amount too small",
		Detail:      map[string]interface{}{"code": "BAD_REQUEST_ERROR", "description": "amount too small"},
	}}
	ctrl := NewOrdersController(testDB(t), gw, "key_secret", "")

	rec := httptest.NewRecorder()
	body := []byte(`{"amount":1,"project_id":"p1","user_id":"u1"}`)
	ctrl.CreateOrder(rec, authedRequest(http.MethodPost, "/v1/payments/order", body, 1))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.NotEmpty(t, got["message"])
	assert.NotNil(t, got["error"], "gateway detail should be passed through")
}

func TestCreateOrder_GatewayFailureIsInternal(t *testing.T) {
	gw := &stubGateway{err: &utils.RazorpayError{HTTPCode: http.StatusBadGateway, Description: "upstream down"}}
	ctrl := NewOrdersController(testDB(t), gw, "key_secret", "")

	rec := httptest.NewRecorder()
	body := []byte(`{"amount":500,"project_id":"p1","user_id":"u1"}`)
	ctrl.CreateOrder(rec, authedRequest(http.MethodPost, "/v1/payments/order", body, 1))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	// The upstream cause stays server-side.
	assert.NotContains(t, rec.Body.String(), "upstream down")
}

func TestCreateOrder_Unauthenticated(t *testing.T) {
	gw := &stubGateway{}
	ctrl := NewOrdersController(testDB(t), gw, "key_secret", "")

	rec := httptest.NewRecorder()
	body := []byte(`{"amount":500,"project_id":"p1","user_id":"u1"}`)
	ctrl.CreateOrder(rec, authedRequest(http.MethodPost, "/v1/payments/order", body, 0))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, gw.calls)
}

func paymentSignature(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyPayment_MarksPaidAndNotifies(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.Create(&models.Payment{
		UserID: 7, ProjectID: "p1", OrderID: "order_1", Receipt: "rcpt_p1", Amount: 50000, Currency: "INR",
		Status: models.PaymentStatusCreated,
	}).Error)

	ctrl := NewOrdersController(db, &stubGateway{}, "sekret", "")

	sig := paymentSignature("order_1", "pay_1", "sekret")
	body := []byte(`{"razorpay_order_id":"order_1","razorpay_payment_id":"pay_1","razorpay_signature":"` + sig + `"}`)
	rec := httptest.NewRecorder()
	ctrl.VerifyPayment(rec, authedRequest(http.MethodPost, "/v1/payments/verify", body, 7))

	require.Equal(t, http.StatusOK, rec.Code)

	var payment models.Payment
	require.NoError(t, db.Where("order_id = ?", "order_1").First(&payment).Error)
	assert.Equal(t, models.PaymentStatusPaid, payment.Status)
	require.NotNil(t, payment.PaymentID)
	assert.Equal(t, "pay_1", *payment.PaymentID)

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Where("user_id = ?", 7).Count(&count).Error)
	assert.Equal(t, int64(1), count, "payment success should create a notification")
}

func TestVerifyPayment_RejectsBadSignature(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.Create(&models.Payment{
		UserID: 7, ProjectID: "p1", OrderID: "order_1", Receipt: "rcpt_p1", Amount: 50000, Currency: "INR",
		Status: models.PaymentStatusCreated,
	}).Error)

	ctrl := NewOrdersController(db, &stubGateway{}, "sekret", "")

	body := []byte(`{"razorpay_order_id":"order_1","razorpay_payment_id":"pay_1","razorpay_signature":"deadbeef"}`)
	rec := httptest.NewRecorder()
	ctrl.VerifyPayment(rec, authedRequest(http.MethodPost, "/v1/payments/verify", body, 7))

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var payment models.Payment
	require.NoError(t, db.Where("order_id = ?", "order_1").First(&payment).Error)
	assert.Equal(t, models.PaymentStatusCreated, payment.Status, "status must not change on bad signature")
}

func TestWebhook_CapturedEventMarksPaid(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.Create(&models.Payment{
		UserID: 3, ProjectID: "p2", OrderID: "order_9", Receipt: "rcpt_p2", Amount: 120000, Currency: "INR",
		Status: models.PaymentStatusCreated,
	}).Error)

	ctrl := NewOrdersController(db, &stubGateway{}, "key_secret", "whsec")

	payload := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_9","order_id":"order_9","status":"captured"}}}}`)
	mac := hmac.New(sha256.New, []byte("whsec"))
	mac.Write(payload)
	sig := hex.EncodeToString(mac.Sum(nil))

	req := httptest.NewRequest(http.MethodPost, "/v1/callback/razorpay", bytes.NewReader(payload))
	req.Header.Set("X-Razorpay-Signature", sig)
	rec := httptest.NewRecorder()
	ctrl.Webhook(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var payment models.Payment
	require.NoError(t, db.Where("order_id = ?", "order_9").First(&payment).Error)
	assert.Equal(t, models.PaymentStatusPaid, payment.Status)
}

func TestWebhook_RejectsInvalidSignature(t *testing.T) {
	ctrl := NewOrdersController(testDB(t), &stubGateway{}, "key_secret", "whsec")

	payload := []byte(`{"event":"payment.captured"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/callback/razorpay", bytes.NewReader(payload))
	req.Header.Set("X-Razorpay-Signature", "deadbeef")
	rec := httptest.NewRecorder()
	ctrl.Webhook(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
