package services

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"unihub/internal/models"
)

// Notifier sends transactional emails off the request path. Delivery is best
// effort: failures are logged and never surfaced to the caller.
type Notifier interface {
	SendLoginOtp(email, code string)
	SendUniversityOtp(email, code string)
	SendNewApplication(client *models.User, job *models.Job, freelancer *models.User)
	SendBuyerInterest(seller *models.User, product *models.Product, buyer *models.User, message, phone string)
}

type notifier struct {
	email EmailService
}

func NewNotifier(email EmailService) Notifier {
	return &notifier{email: email}
}

func (n *notifier) send(to, subject, body string) {
	go func() {
		if err := n.email.SendEmail(to, subject, body); err != nil {
			log.Error().Err(err).Str("to", to).Str("subject", subject).Msg("Failed to send email")
		}
	}()
}

func (n *notifier) SendLoginOtp(email, code string) {
	body := fmt.Sprintf(`<div style="font-family:sans-serif">
		<h2>Your UniHub login code</h2>
		<p>Use this code to sign in. It expires in 5 minutes.</p>
		<h1 style="letter-spacing:4px">%s</h1>
		<p>If you did not request this, you can ignore this email.</p>
	</div>`, code)
	n.send(email, "Your UniHub login code", body)
}

func (n *notifier) SendUniversityOtp(email, code string) {
	body := fmt.Sprintf(`<div style="font-family:sans-serif">
		<h2>Verify your university email</h2>
		<p>Enter this code to confirm your university email address. It expires in 5 minutes.</p>
		<h1 style="letter-spacing:4px">%s</h1>
	</div>`, code)
	n.send(email, "Verify your university email", body)
}

func (n *notifier) SendNewApplication(client *models.User, job *models.Job, freelancer *models.User) {
	name := freelancer.Name
	if name == "" {
		name = freelancer.Email
	}
	body := fmt.Sprintf(`<div style="font-family:sans-serif">
		<h2>New proposal on your job</h2>
		<p><strong>%s</strong> applied to <strong>%s</strong>.</p>
		<p>Open your dashboard to review the proposal.</p>
	</div>`, name, job.Title)
	n.send(client.Email, fmt.Sprintf("New proposal for \"%s\"", job.Title), body)
}

func (n *notifier) SendBuyerInterest(seller *models.User, product *models.Product, buyer *models.User, message, phone string) {
	name := buyer.Name
	if name == "" {
		name = buyer.Email
	}
	contact := buyer.Email
	if phone != "" {
		contact = fmt.Sprintf("%s / %s", buyer.Email, phone)
	}
	body := fmt.Sprintf(`<div style="font-family:sans-serif">
		<h2>Someone is interested in your listing</h2>
		<p><strong>%s</strong> wants to buy <strong>%s</strong>.</p>
		<p>Message: %s</p>
		<p>Contact: %s</p>
	</div>`, name, product.Title, message, contact)
	n.send(seller.Email, fmt.Sprintf("Buyer interest in \"%s\"", product.Title), body)
}
