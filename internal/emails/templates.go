package emails

import (
	"fmt"
	"strings"
	"time"
)

// Brand colors for the shared layout.
const (
	themePrimary   = "#1E40AF"
	themeTextMain  = "#1F2937"
	themeTextMuted = "#6B7280"
	themeBgBody    = "#F3F4F6"
	themeWhite     = "#FFFFFF"
)

// EscapeHTML escapes user-supplied strings interpolated into templates.
func EscapeHTML(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	return r.Replace(s)
}

// EmailLayout wraps content in the shared EquityMD HTML shell.
func EmailLayout(contentHTML string) string {
	year := time.Now().Year()
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <style>
    body { margin: 0; padding: 0; background-color: %s; font-family: Helvetica, Arial, sans-serif; color: %s; }
    .container { max-width: 600px; margin: 0 auto; background-color: %s; }
    .header { background-color: %s; padding: 24px; text-align: center; }
    .header h2 { color: %s; margin: 0; }
    .content { padding: 32px 24px; }
    .content h1 { font-size: 22px; }
    .equitymd-button { display: inline-block; background-color: %s; color: %s; padding: 12px 28px; border-radius: 6px; text-decoration: none; font-weight: bold; }
    .footer { padding: 20px 24px; text-align: center; font-size: 12px; color: %s; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header"><h2>EquityMD</h2></div>
    <div class="content">%s</div>
    <div class="footer">
      &copy; %d EquityMD. All rights reserved.<br>
      Connecting physicians with vetted real estate investments.
    </div>
  </div>
</body>
</html>`, themeBgBody, themeTextMain, themeWhite, themePrimary, themeWhite, themePrimary, themeWhite, themeTextMuted, contentHTML, year)
}

func newInvestorSignupContent(name, email string) string {
	return fmt.Sprintf(`
    <h1>New Investor Signup</h1>
    <p>A new investor just created an account:</p>
    <p><strong>Name:</strong> %s<br>
    <strong>Email:</strong> %s</p>
    <p>EquityMD notifications</p>
`, EscapeHTML(name), EscapeHTML(email))
}

func newSyndicatorSignupContent(name, email, company string) string {
	if company == "" {
		company = "(none provided)"
	}
	return fmt.Sprintf(`
    <h1>New Syndicator Signup</h1>
    <p>A new syndicator just created an account:</p>
    <p><strong>Name:</strong> %s<br>
    <strong>Email:</strong> %s<br>
    <strong>Company:</strong> %s</p>
    <p>EquityMD notifications</p>
`, EscapeHTML(name), EscapeHTML(email), EscapeHTML(company))
}

func welcomeContent(name string) string {
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf(`
    <h1>Welcome to EquityMD, %s!</h1>
    <p>Your account has been created. You can now browse vetted commercial real
    estate offerings from experienced sponsors, or list your own.</p>
    <center>
      <a href="https://equitymd.com/" class="equitymd-button">Browse Deals</a>
    </center>
    <p style="margin-top: 20px; font-size: 14px; color: #666;">
      If you did not sign up for this account, please contact our support team immediately.
    </p>
    <p>The EquityMD Team</p>
`, EscapeHTML(name))
}

func investmentInterestContent(investorName, dealTitle, amount string) string {
	line := ""
	if amount != "" {
		line = fmt.Sprintf("<p><strong>Indicated amount:</strong> %s</p>", EscapeHTML(amount))
	}
	return fmt.Sprintf(`
    <h1>New Investment Interest</h1>
    <p><strong>%s</strong> expressed interest in <strong>%s</strong>.</p>
    %s
    <center>
      <a href="https://equitymd.com/dashboard" class="equitymd-button">View in Dashboard</a>
    </center>
    <p>EquityMD notifications</p>
`, EscapeHTML(investorName), EscapeHTML(dealTitle), line)
}

func newMessageContent(senderName, preview string) string {
	return fmt.Sprintf(`
    <h1>You Have a New Message</h1>
    <p><strong>%s</strong> sent you a message on EquityMD:</p>
    <blockquote style="border-left: 3px solid #ccc; padding-left: 12px; color: #555;">%s</blockquote>
    <center>
      <a href="https://equitymd.com/messages" class="equitymd-button">Read &amp; Reply</a>
    </center>
    <p>EquityMD notifications</p>
`, EscapeHTML(senderName), EscapeHTML(preview))
}
