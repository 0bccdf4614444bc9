package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"equitymd-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type WebhookHandler struct {
	DB            *gorm.DB
	WebhookSecret string
}

type stripeEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

type billingObject struct {
	ID       string `json:"id"`
	Customer string `json:"customer"`
	Status   string `json:"status"`
}

// HandleWebhook POST /api/v1/stripe/webhook. Reads the raw body, verifies
// the signature, then records the event. Domain errors still return 200 so
// Stripe does not retry indefinitely.
func (wh *WebhookHandler) HandleWebhook(c *fiber.Ctx) error {
	rawBody := c.BodyRaw()
	// Stripe sends "Stripe-Signature"; Fiber's Get is case-insensitive
	sig := c.Get("Stripe-Signature")

	if len(rawBody) == 0 {
		log.Warn().Msg("Stripe webhook received empty body (ensure no global body parser consumes the webhook body)")
		return c.Status(400).SendString("Webhook Error: empty body")
	}

	if err := verifyStripeSignature(rawBody, sig, wh.WebhookSecret); err != nil {
		log.Warn().Err(err).Bool("has_sig", sig != "").Bool("has_secret", wh.WebhookSecret != "").Msg("Stripe webhook signature verification failed")
		return c.Status(400).SendString(fmt.Sprintf("Webhook Error: %s", err.Error()))
	}

	var event stripeEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		log.Warn().Err(err).Msg("Stripe webhook JSON parse failed")
		return c.Status(400).SendString(fmt.Sprintf("Webhook Error: %s", err.Error()))
	}

	if err := wh.recordEvent(event, rawBody); err != nil {
		log.Error().Err(err).Str("event_id", event.ID).Str("event_type", event.Type).Msg("Stripe webhook processing failed")
		return c.Status(200).SendString("ok")
	}
	return c.Status(200).SendString("ok")
}

// recordEvent persists the event keyed by the Stripe event id, which makes
// redeliveries idempotent, then applies any side effects for the event type.
func (wh *WebhookHandler) recordEvent(event stripeEvent, rawBody []byte) error {
	var obj billingObject
	_ = json.Unmarshal(event.Data.Object, &obj)

	return wh.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.BillingEvent
		if err := tx.Where("event_id = ?", event.ID).First(&existing).Error; err == nil {
			return nil // already processed
		}

		record := models.BillingEvent{
			EventID:    event.ID,
			Type:       event.Type,
			ObjectID:   obj.ID,
			CustomerID: obj.Customer,
			RawEvent:   datatypes.JSON(rawBody),
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		switch event.Type {
		case "customer.subscription.deleted":
			// Nothing to unwind locally yet; the profile keeps its customer id.
			return nil
		case "customer.deleted":
			if obj.ID == "" {
				return nil
			}
			return tx.Model(&models.Profile{}).
				Where("stripe_customer_id = ?", obj.ID).
				Update("stripe_customer_id", "").Error
		default:
			return nil
		}
	})
}

// verifyStripeSignature verifies the Stripe-Signature header using the webhook secret.
func verifyStripeSignature(payload []byte, sigHeader, secret string) error {
	if sigHeader == "" || secret == "" {
		return errors.New("missing signature or secret")
	}

	var timestamp string
	var signatures []string

	parts := strings.Split(sigHeader, ",")
	for _, part := range parts {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}

	if timestamp == "" || len(signatures) == 0 {
		return errors.New("invalid signature format")
	}

	signedPayload := timestamp + "." + string(payload)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(signedPayload))
	expectedSig := hex.EncodeToString(mac.Sum(nil))

	for _, sig := range signatures {
		if hmac.Equal([]byte(sig), []byte(expectedSig)) {
			// Check tolerance (5 minutes)
			ts, err := strconv.ParseInt(timestamp, 10, 64)
			if err != nil {
				return errors.New("invalid timestamp")
			}
			diff := time.Now().Unix() - ts
			if diff < 0 {
				diff = -diff
			}
			if diff > 300 {
				return errors.New("timestamp too old")
			}
			return nil
		}
	}

	return errors.New("signature mismatch")
}
