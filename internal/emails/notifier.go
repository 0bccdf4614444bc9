package emails

import (
	"context"

	"github.com/rs/zerolog/log"
)

// AdminNotifier sends signup notices to the fixed admin address. Failures are
// logged, never surfaced to the signup flow.
type AdminNotifier struct {
	Sender     Sender
	AdminEmail string
}

func (n *AdminNotifier) NotifySignup(ctx context.Context, role, name, email, company string) {
	if n.Sender == nil || n.AdminEmail == "" {
		return
	}
	var subject, html string
	switch role {
	case "syndicator":
		subject = "New Syndicator Signup - EquityMD"
		html = EmailLayout(newSyndicatorSignupContent(name, email, company))
	default:
		subject = "New Investor Signup - EquityMD"
		html = EmailLayout(newInvestorSignupContent(name, email))
	}
	if _, err := n.Sender.Send(ctx, n.AdminEmail, subject, html); err != nil {
		log.Warn().Err(err).Str("role", role).Msg("Signup admin notice failed")
	}
}
