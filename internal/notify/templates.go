package notify

import (
	"fmt"
	"html"
	"strings"
)

const footer = `<hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
<p style="color: #666; font-size: 12px;">This is an automated message from Community Safety Platform.</p>`

// Message - письмо, готовое к отправке
type Message struct {
	ToEmail string
	ToName  string
	Subject string
	HTML    string
	Text    string
}

// humanType превращает road_hazard в "road hazard"
func humanType(t string) string {
	return strings.ReplaceAll(t, "_", " ")
}

// Render формирует письмо для события. Пользовательские данные экранируются.
func Render(event Event, userName string) (Message, error) {
	name := html.EscapeString(userName)
	typ := humanType(string(event.IncidentType))
	safeType := html.EscapeString(typ)

	var subject, heading, color, body, text string
	switch event.Kind {
	case KindReported:
		subject = "Incident Report Submitted Successfully"
		heading, color = "Thank You for Reporting!", "#333"
		body = fmt.Sprintf(`<p>Your incident report for <strong>%s</strong> has been successfully submitted.</p>
<p>Our team will review it shortly and you'll be notified once it's verified.</p>
<p>Thank you for helping keep our community safe!</p>`, safeType)
		text = fmt.Sprintf("Hello %s,\n\nYour incident report for %s has been successfully submitted. Our team will review it shortly.", userName, typ)
	case KindVerified:
		subject = "Your Incident Report Has Been Verified"
		heading, color = "Incident Verified!", "#28a745"
		body = fmt.Sprintf(`<p>Great news! Your incident report for <strong>%s</strong> has been verified by our moderation team.</p>
<p>The incident is now visible to the community and appropriate action is being taken.</p>`, safeType)
		text = fmt.Sprintf("Hello %s,\n\nYour incident report for %s has been verified and is now visible to the community.", userName, typ)
	case KindRejected:
		subject = "Incident Report Update"
		heading, color = "Incident Report Status Update", "#dc3545"
		reasonHTML, reasonText := "", ""
		if event.Reason != "" {
			reasonHTML = fmt.Sprintf("<p><strong>Reason:</strong> %s</p>\n", html.EscapeString(event.Reason))
			reasonText = " Reason: " + event.Reason
		}
		body = fmt.Sprintf(`<p>Your incident report for <strong>%s</strong> has been reviewed by our moderation team.</p>
<p>Unfortunately, the report could not be verified at this time.</p>
%s<p>If you believe this is an error, please contact our support team.</p>`, safeType, reasonHTML)
		text = fmt.Sprintf("Hello %s,\n\nYour incident report for %s has been rejected.%s", userName, typ, reasonText)
	case KindResolved:
		subject = "Incident Resolved"
		heading, color = "Incident Resolved!", "#17a2b8"
		body = fmt.Sprintf(`<p>Good news! The incident you reported for <strong>%s</strong> has been resolved.</p>
<p>Thank you for reporting it and helping keep our community safe!</p>`, safeType)
		text = fmt.Sprintf("Hello %s,\n\nThe incident you reported for %s has been resolved. Thank you!", userName, typ)
	default:
		return Message{}, fmt.Errorf("unknown notification kind %q", event.Kind)
	}

	htmlBody := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
<h2 style="color: %s;">%s</h2>
<p>Hello %s,</p>
%s
%s
</div>`, color, heading, name, body, footer)

	return Message{Subject: subject, HTML: htmlBody, Text: text}, nil
}
