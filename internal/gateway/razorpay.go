// Package gateway integrates the Razorpay Orders API and webhook contract.
package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"service-booking/internal/apperr"
	"service-booking/pkg/utils"

	"go.uber.org/zap"
)

// Webhook event types this core reconciles; everything else is acked and
// ignored per the gateway's retry contract.
const (
	EventPaymentCaptured = "payment.captured"
	EventPaymentFailed   = "payment.failed"
)

// Order is a payment order created at the gateway. Amount is in minor
// units (paise).
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// PaymentEntity is the payment object inside a webhook payload.
type PaymentEntity struct {
	ID      string `json:"id"`
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Amount  int64  `json:"amount"`
}

// WebhookEvent is the envelope Razorpay posts to the webhook endpoint.
type WebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity PaymentEntity `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// Razorpay is the HTTP client for the Orders API plus the webhook
// signature verifier.
type Razorpay struct {
	keyID         string
	keySecret     string
	webhookSecret string
	baseURL       string
	client        *http.Client
	log           *zap.Logger
}

func NewRazorpay(config utils.RazorpayConfig, log *zap.Logger) *Razorpay {
	return &Razorpay{
		keyID:         config.KeyID,
		keySecret:     config.KeySecret,
		webhookSecret: config.WebhookSecret,
		baseURL:       config.BaseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With(zap.String("gateway", "razorpay")),
	}
}

// CreateOrder opens a payment order for an amount in major currency units.
// The amount is converted to paise, rounded to the nearest integer.
func (r *Razorpay) CreateOrder(ctx context.Context, amount float64) (*Order, error) {
	orderReq := createOrderRequest{
		Amount:   int64(math.Round(amount * 100)),
		Currency: "INR",
		Receipt:  utils.GenerateReceiptID(),
	}

	jsonData, err := json.Marshal(orderReq)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindGateway, "Error creating Razorpay order", err)
	}

	url := fmt.Sprintf("%s/v1/orders", r.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindGateway, "Error creating Razorpay order", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(r.keyID, r.keySecret)

	resp, err := r.client.Do(req)
	if err != nil {
		r.log.Error("Order request failed", zap.Error(err))
		return nil, apperr.Wrap(apperr.KindGateway, "Error creating Razorpay order", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindGateway, "Error creating Razorpay order", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		r.log.Error("Order request rejected",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body),
		)
		return nil, apperr.Newf(apperr.KindGateway, "Error creating Razorpay order: gateway returned %d", resp.StatusCode)
	}

	var order Order
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, apperr.Wrap(apperr.KindGateway, "Error creating Razorpay order", err)
	}

	if order.ID == "" {
		return nil, apperr.New(apperr.KindGateway, "Error creating Razorpay order: empty order id")
	}

	r.log.Info("Razorpay order created",
		zap.String("order_id", order.ID),
		zap.Int64("amount_paise", order.Amount),
		zap.String("receipt", order.Receipt),
	)

	return &order, nil
}

// VerifySignature recomputes the HMAC-SHA256 digest of the raw webhook body
// and compares it to the x-razorpay-signature header value.
func (r *Razorpay) VerifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(r.webhookSecret))
	mac.Write(body)
	digest := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(digest), []byte(signature))
}
