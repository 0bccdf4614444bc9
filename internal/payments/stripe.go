package payments

import (
	"errors"

	"equitymd-backend/internal/middleware"
	"equitymd-backend/internal/models"
	"equitymd-backend/internal/pkg/response"
	"equitymd-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v76"
	portalsession "github.com/stripe/stripe-go/v76/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/customer"
	"github.com/stripe/stripe-go/v76/subscription"
	"gorm.io/gorm"
)

// StripeGateway abstracts the Stripe SDK calls for testability.
type StripeGateway interface {
	CreateCustomer(email, name string) (*stripe.Customer, error)
	CreateSubscription(customerID, priceID string) (*stripe.Subscription, error)
	CreatePortalSession(customerID, returnURL string) (*stripe.BillingPortalSession, error)
	CreateCheckoutSession(customerID, priceID, successURL, cancelURL string) (*stripe.CheckoutSession, error)
}

// LiveGateway calls the real Stripe API through stripe-go.
type LiveGateway struct{}

// NewLiveGateway sets the global SDK key and returns a gateway.
func NewLiveGateway(secretKey string) *LiveGateway {
	stripe.Key = secretKey
	return &LiveGateway{}
}

func (g *LiveGateway) CreateCustomer(email, name string) (*stripe.Customer, error) {
	return customer.New(&stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	})
}

func (g *LiveGateway) CreateSubscription(customerID, priceID string) (*stripe.Subscription, error) {
	return subscription.New(&stripe.SubscriptionParams{
		Customer: stripe.String(customerID),
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(priceID)},
		},
		PaymentBehavior: stripe.String("default_incomplete"),
		PaymentSettings: &stripe.SubscriptionPaymentSettingsParams{
			SaveDefaultPaymentMethod: stripe.String("on_subscription"),
		},
		Expand: []*string{stripe.String("latest_invoice.payment_intent")},
	})
}

func (g *LiveGateway) CreatePortalSession(customerID, returnURL string) (*stripe.BillingPortalSession, error) {
	return portalsession.New(&stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	})
}

func (g *LiveGateway) CreateCheckoutSession(customerID, priceID, successURL, cancelURL string) (*stripe.CheckoutSession, error) {
	return checkoutsession.New(&stripe.CheckoutSessionParams{
		Customer: stripe.String(customerID),
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(priceID), Quantity: stripe.Int64(1)},
		},
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
	})
}

type Handlers struct {
	DB      *gorm.DB
	Gateway StripeGateway
}

// actionRequest is the single billing endpoint shape: an action name plus
// action-specific data.
type actionRequest struct {
	Action string            `json:"action"`
	Data   map[string]string `json:"data"`
}

// Action POST /api/v1/payments: multiplexes billing operations.
func (h *Handlers) Action(c *fiber.Ctx) error {
	var req actionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	if h.Gateway == nil {
		return response.Error(c, "Stripe not configured", 500, nil)
	}
	get := func(key string) string {
		if req.Data == nil {
			return ""
		}
		return req.Data[key]
	}

	switch req.Action {
	case "create_customer":
		return h.createCustomer(c, get("email"), get("name"))
	case "create_subscription":
		return h.createSubscription(c, get("price_id"))
	case "create_portal_session":
		return h.createPortalSession(c, get("return_url"))
	case "create_checkout_session":
		return h.createCheckoutSession(c, get("price_id"), get("success_url"), get("cancel_url"))
	default:
		return response.Error(c, "Unknown payment action", 400, nil)
	}
}

func (h *Handlers) createCustomer(c *fiber.Ctx, email, name string) error {
	profile, err := h.sessionProfile(c)
	if err != nil {
		return response.Error(c, err.Error(), 403, nil)
	}
	if validation.IsBlank(email) {
		email = profile.Email
	}
	if validation.IsBlank(name) {
		name = profile.FullName
	}
	if profile.StripeCustomerID != "" {
		return response.Success(c, "Customer already exists", fiber.Map{
			"customer_id": profile.StripeCustomerID,
		}, nil)
	}

	cust, err := h.Gateway.CreateCustomer(email, name)
	if err != nil {
		log.Error().Err(err).Msg("Stripe customer creation failed")
		return response.Error(c, "Failed to create Stripe customer", 502, nil)
	}
	if err := h.DB.Model(&models.Profile{}).
		Where("user_id = ?", profile.UserID).
		Update("stripe_customer_id", cust.ID).Error; err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.SuccessCreated(c, "Customer created successfully", fiber.Map{
		"customer_id": cust.ID,
	}, nil)
}

func (h *Handlers) createSubscription(c *fiber.Ctx, priceID string) error {
	if validation.IsBlank(priceID) {
		return response.Error(c, "price_id is required", 400, nil)
	}
	customerID, err := h.requireCustomer(c)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	sub, err := h.Gateway.CreateSubscription(customerID, priceID)
	if err != nil {
		log.Error().Err(err).Msg("Stripe subscription creation failed")
		return response.Error(c, "Failed to create subscription", 502, nil)
	}
	out := fiber.Map{
		"subscription_id": sub.ID,
		"status":          string(sub.Status),
	}
	if sub.LatestInvoice != nil && sub.LatestInvoice.PaymentIntent != nil {
		out["client_secret"] = sub.LatestInvoice.PaymentIntent.ClientSecret
	}
	return response.SuccessCreated(c, "Subscription created successfully", out, nil)
}

func (h *Handlers) createPortalSession(c *fiber.Ctx, returnURL string) error {
	if validation.IsBlank(returnURL) {
		returnURL = "https://equitymd.com/dashboard"
	}
	customerID, err := h.requireCustomer(c)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	sess, err := h.Gateway.CreatePortalSession(customerID, returnURL)
	if err != nil {
		log.Error().Err(err).Msg("Stripe portal session creation failed")
		return response.Error(c, "Failed to create portal session", 502, nil)
	}
	return response.Success(c, "Portal session created", fiber.Map{"url": sess.URL}, nil)
}

func (h *Handlers) createCheckoutSession(c *fiber.Ctx, priceID, successURL, cancelURL string) error {
	if validation.IsBlank(priceID) {
		return response.Error(c, "price_id is required", 400, nil)
	}
	if validation.IsBlank(successURL) {
		successURL = "https://equitymd.com/billing/success"
	}
	if validation.IsBlank(cancelURL) {
		cancelURL = "https://equitymd.com/billing/cancel"
	}
	customerID, err := h.requireCustomer(c)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	sess, err := h.Gateway.CreateCheckoutSession(customerID, priceID, successURL, cancelURL)
	if err != nil {
		log.Error().Err(err).Msg("Stripe checkout session creation failed")
		return response.Error(c, "Failed to create checkout session", 502, nil)
	}
	return response.SuccessCreated(c, "Checkout session created", fiber.Map{
		"session_id": sess.ID,
		"url":        sess.URL,
	}, nil)
}

func (h *Handlers) sessionProfile(c *fiber.Ctx) (*models.Profile, error) {
	userID := middleware.UserIDFromSession(c)
	if userID == uuid.Nil {
		return nil, errors.New("User not found in session")
	}
	var profile models.Profile
	if err := h.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("User not found in session")
		}
		return nil, err
	}
	return &profile, nil
}

func (h *Handlers) requireCustomer(c *fiber.Ctx) (string, error) {
	profile, err := h.sessionProfile(c)
	if err != nil {
		return "", err
	}
	if profile.StripeCustomerID == "" {
		return "", errors.New("No Stripe customer for this account. Call create_customer first")
	}
	return profile.StripeCustomerID, nil
}
