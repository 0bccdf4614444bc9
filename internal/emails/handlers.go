package emails

import (
	"equitymd-backend/internal/config"
	"equitymd-backend/internal/pkg/response"
	"equitymd-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Sender Sender
	Config *config.Config
}

// sendEmailRequest covers both shapes the endpoint accepts. Typed sends
// set Type and Data; raw sends set To, Subject and Content directly.
type sendEmailRequest struct {
	Type    string            `json:"type"`
	Data    map[string]string `json:"data"`
	To      string            `json:"to"`
	Subject string            `json:"subject"`
	Content string            `json:"content"`
}

type sendEmailResult struct {
	MessageID string `json:"message_id"`
}

// Send POST /api/v1/emails/send
func (h *Handlers) Send(c *fiber.Ctx) error {
	var req sendEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}

	to, subject, html, err := h.resolve(&req)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	if !validation.IsValidEmail(to) {
		return response.Error(c, "Invalid recipient email address", 400, nil)
	}

	id, err := h.Sender.Send(c.Context(), to, subject, html)
	if err != nil {
		log.Error().Err(err).Str("type", req.Type).Msg("Email send failed")
		return response.Error(c, "Failed to send email", 502, nil)
	}
	return response.Success(c, "Email sent successfully", sendEmailResult{MessageID: id}, nil)
}

// resolve maps a typed request onto a recipient, subject and rendered body.
// Signup notices always go to the configured admin address.
func (h *Handlers) resolve(req *sendEmailRequest) (to, subject, html string, err error) {
	get := func(key string) string {
		if req.Data == nil {
			return ""
		}
		return req.Data[key]
	}

	switch req.Type {
	case "":
		if validation.IsBlank(req.To) || validation.IsBlank(req.Subject) || validation.IsBlank(req.Content) {
			return "", "", "", fiber.NewError(400, "to, subject and content are required")
		}
		return req.To, req.Subject, EmailLayout(req.Content), nil

	case "new_investor_signup":
		return h.Config.AdminEmail,
			"New Investor Signup - EquityMD",
			EmailLayout(newInvestorSignupContent(get("name"), get("email"))),
			nil

	case "new_syndicator_signup":
		return h.Config.AdminEmail,
			"New Syndicator Signup - EquityMD",
			EmailLayout(newSyndicatorSignupContent(get("name"), get("email"), get("company"))),
			nil

	case "welcome":
		if validation.IsBlank(get("email")) {
			return "", "", "", fiber.NewError(400, "data.email is required")
		}
		return get("email"),
			"Welcome to EquityMD",
			EmailLayout(welcomeContent(get("name"))),
			nil

	case "investment_interest":
		if validation.IsBlank(get("syndicator_email")) {
			return "", "", "", fiber.NewError(400, "data.syndicator_email is required")
		}
		return get("syndicator_email"),
			"New Investment Interest - EquityMD",
			EmailLayout(investmentInterestContent(get("investor_name"), get("deal_title"), get("amount"))),
			nil

	case "new_message":
		if validation.IsBlank(get("email")) {
			return "", "", "", fiber.NewError(400, "data.email is required")
		}
		return get("email"),
			"New Message on EquityMD",
			EmailLayout(newMessageContent(get("sender_name"), get("preview"))),
			nil

	case "custom":
		if validation.IsBlank(get("email")) || validation.IsBlank(get("subject")) || validation.IsBlank(get("content")) {
			return "", "", "", fiber.NewError(400, "data.email, data.subject and data.content are required")
		}
		return get("email"), get("subject"), EmailLayout(get("content")), nil

	default:
		return "", "", "", fiber.NewError(400, "Unknown email type")
	}
}
