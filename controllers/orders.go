package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"

	"gorm.io/gorm"

	"github.com/Saipreetham0/ksp-project-sub001/models"
	"github.com/Saipreetham0/ksp-project-sub001/utils"
)

// OrderGateway is the slice of the payment gateway the order flow needs.
// Satisfied by *utils.RazorpayClient; stubbed in tests.
type OrderGateway interface {
	CreateOrder(ctx context.Context, params utils.OrderParams) (map[string]interface{}, error)
}

type OrdersController struct {
	db            *gorm.DB
	gateway       OrderGateway
	keySecret     string
	webhookSecret string
}

func NewOrdersController(db *gorm.DB, gateway OrderGateway, keySecret, webhookSecret string) *OrdersController {
	return &OrdersController{
		db:            db,
		gateway:       gateway,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
	}
}

type CreateOrderRequest struct {
	Amount    *float64 `json:"amount"`
	ProjectID string   `json:"project_id"`
	UserID    string   `json:"user_id"`
}

// POST /v1/payments/order
//
// Creates a gateway order for a project purchase. On success the gateway's
// order object is returned verbatim; failures use {message, error?}.
func (c *OrdersController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteRaw(w, http.StatusUnauthorized, map[string]interface{}{"message": "Unauthorized"})
		return
	}

	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteRaw(w, http.StatusBadRequest, map[string]interface{}{"message": "Invalid request body"})
		return
	}

	if req.Amount == nil || math.IsNaN(*req.Amount) || *req.Amount <= 0 {
		utils.WriteRaw(w, http.StatusBadRequest, map[string]interface{}{"message": "Amount must be a positive number"})
		return
	}
	if req.ProjectID == "" || req.UserID == "" {
		utils.WriteRaw(w, http.StatusBadRequest, map[string]interface{}{"message": "project_id and user_id are required"})
		return
	}

	// Gateways require integer minor-unit amounts.
	amount := int64(math.Round(*req.Amount))
	receipt := utils.GenerateReceipt(req.ProjectID)

	order, err := c.gateway.CreateOrder(r.Context(), utils.OrderParams{
		Amount:         amount,
		Currency:       "INR",
		Receipt:        receipt,
		PartialPayment: false,
		Notes: map[string]string{
			"project_id": req.ProjectID,
			"user_id":    req.UserID,
		},
	})
	if err != nil {
		var rzErr *utils.RazorpayError
		if errors.As(err, &rzErr) && rzErr.HTTPCode == http.StatusBadRequest {
			utils.WriteRaw(w, http.StatusBadRequest, map[string]interface{}{
				"message": "Payment gateway rejected the request",
				"error":   rzErr.Detail,
			})
			return
		}
		utils.Log.Errorw("order creation failed", "project_id", req.ProjectID, "error", err)
		utils.WriteRaw(w, http.StatusInternalServerError, map[string]interface{}{"message": "Unable to create payment order"})
		return
	}

	orderID, _ := order["id"].(string)
	payment := models.Payment{
		UserID:    uid,
		ProjectID: req.ProjectID,
		OrderID:   orderID,
		Receipt:   receipt,
		Amount:    amount,
		Currency:  "INR",
		Status:    models.PaymentStatusCreated,
	}
	if err := c.db.Create(&payment).Error; err != nil {
		// The gateway order exists either way; record the mismatch and move on.
		utils.Log.Errorw("failed to record payment", "order_id", orderID, "error", err)
	}

	utils.WriteRaw(w, http.StatusOK, order)
}

type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

// POST /v1/payments/verify
//
// Authenticates the gateway checkout callback before the payment is trusted.
func (c *OrdersController) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var req VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid request body"})
		return
	}
	if req.RazorpayOrderID == "" || req.RazorpayPaymentID == "" || req.RazorpaySignature == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "razorpay_order_id, razorpay_payment_id and razorpay_signature are required"})
		return
	}

	if !utils.VerifyPaymentSignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature, c.keySecret) {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid payment signature"})
		return
	}

	var payment models.Payment
	if err := c.db.Where("order_id = ? AND user_id = ?", req.RazorpayOrderID, uid).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Payment not found"})
			return
		}
		utils.Log.Errorw("payment lookup failed", "order_id", req.RazorpayOrderID, "error", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Something went wrong, please try again"})
		return
	}

	payment.Status = models.PaymentStatusPaid
	payment.PaymentID = &req.RazorpayPaymentID
	if err := c.db.Save(&payment).Error; err != nil {
		utils.Log.Errorw("payment update failed", "order_id", req.RazorpayOrderID, "error", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Something went wrong, please try again"})
		return
	}

	c.notify(payment.UserID, "payment", "Payment successful",
		"Your payment of "+utils.FormatINR(payment.Amount)+" for project "+payment.ProjectID+" was received.")

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Payment verified", Data: payment})
}

// GET /v1/payments
func (c *OrdersController) ListPayments(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var payments []models.Payment
	if err := c.db.Where("user_id = ?", uid).Order("id DESC").Limit(100).Find(&payments).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to load payments"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: payments})
}

type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
				Status  string `json:"status"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// POST /v1/callback/razorpay
//
// Gateway webhook. The signature covers the raw body, so it is verified
// before any parsing.
func (c *OrdersController) Webhook(w http.ResponseWriter, r *http.Request) {
	if c.webhookSecret == "" {
		utils.WriteJSON(w, http.StatusServiceUnavailable, utils.APIResponse{Success: false, Message: "Webhook is not configured"})
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Unable to read body"})
		return
	}

	signature := r.Header.Get("X-Razorpay-Signature")
	if signature == "" || !utils.VerifyWebhookSignature(body, signature, c.webhookSecret) {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid webhook signature"})
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid webhook payload"})
		return
	}

	entity := event.Payload.Payment.Entity
	switch event.Event {
	case "payment.captured":
		c.applyWebhookStatus(entity.OrderID, entity.ID, models.PaymentStatusPaid)
	case "payment.failed":
		c.applyWebhookStatus(entity.OrderID, entity.ID, models.PaymentStatusFailed)
	default:
		// Unhandled event types are acknowledged so the gateway stops retrying.
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "ok"})
}

func (c *OrdersController) applyWebhookStatus(orderID, paymentID, status string) {
	if orderID == "" {
		return
	}
	var payment models.Payment
	if err := c.db.Where("order_id = ?", orderID).First(&payment).Error; err != nil {
		utils.Log.Warnw("webhook for unknown order", "order_id", orderID)
		return
	}
	// A verified checkout may already have marked it Paid; failure never
	// overrides success.
	if payment.Status == models.PaymentStatusPaid && status == models.PaymentStatusFailed {
		return
	}
	payment.Status = status
	if paymentID != "" {
		payment.PaymentID = &paymentID
	}
	if err := c.db.Save(&payment).Error; err != nil {
		utils.Log.Errorw("webhook payment update failed", "order_id", orderID, "error", err)
		return
	}

	if status == models.PaymentStatusPaid {
		c.notify(payment.UserID, "payment", "Payment successful",
			"Your payment of "+utils.FormatINR(payment.Amount)+" for project "+payment.ProjectID+" was received.")
	} else {
		c.notify(payment.UserID, "payment", "Payment failed",
			"Your payment for project "+payment.ProjectID+" failed. Please try again.")
	}
}

func (c *OrdersController) notify(userID uint, kind, title, message string) {
	n := models.Notification{UserID: userID, Type: kind, Title: title, Message: message}
	if err := c.db.Create(&n).Error; err != nil {
		utils.Log.Errorw("failed to create notification", "user_id", userID, "error", err)
	}
}
