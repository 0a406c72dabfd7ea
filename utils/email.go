package utils

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/raushankrgupta/vape-catalog-scraper/models"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	log "github.com/sirupsen/logrus"
)

// SendEmail sends an email using SendGrid
func SendEmail(apiKey string, from, to *mail.Email, subject, textContent, htmlContent string) error {
	if apiKey == "" {
		return fmt.Errorf("SENDGRID_API_KEY is not set in environment variables")
	}

	message := mail.NewSingleEmail(from, subject, to, textContent, htmlContent)
	client := sendgrid.NewSendClient(apiKey)

	response, err := client.Send(message)
	if err != nil {
		log.WithError(err).Errorf("Error sending email to %s", to.Address)
		return err
	}

	if response.StatusCode >= 400 {
		log.Errorf("SendGrid API Error: Status Code %d, Body: %s", response.StatusCode, response.Body)
		return fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}

	log.Infof("Email sent successfully to %s. Status Code: %d", to.Address, response.StatusCode)
	return nil
}

// DigestMailer emails a summary of newly found products
type DigestMailer struct {
	APIKey string
	From   string
	To     string
}

// NotifyNewProducts sends the digest for run. Runs without products send nothing.
func (m *DigestMailer) NotifyNewProducts(ctx context.Context, run *models.ScrapeRun) error {
	if len(run.Products) == 0 {
		return nil
	}
	subject, text, htmlContent := BuildDigest(run)
	return SendEmail(m.APIKey,
		mail.NewEmail("Vape Catalog Scraper", m.From),
		mail.NewEmail("", m.To),
		subject, text, htmlContent)
}

// BuildDigest renders the subject and the text and HTML bodies of a new-product digest
func BuildDigest(run *models.ScrapeRun) (subject, text, htmlContent string) {
	source := run.URL
	if run.SearchKeyword != "" {
		source = fmt.Sprintf("search %q", run.SearchKeyword)
	}
	subject = fmt.Sprintf("%d new product(s) from %s", len(run.Products), source)

	var t, h strings.Builder
	fmt.Fprintf(&t, "New products found for %s:\n\n", source)
	fmt.Fprintf(&h, "<p>New products found for %s:</p><ul>", html.EscapeString(source))
	for _, p := range run.Products {
		fmt.Fprintf(&t, "- %s (%s)\n", p.Name, p.Link)
		fmt.Fprintf(&h, `<li><a href="%s">%s</a>%s</li>`,
			html.EscapeString(p.Link), html.EscapeString(p.Name), html.EscapeString(attributeSummary(p)))
		if s := attributeSummary(p); s != "" {
			fmt.Fprintf(&t, "  %s\n", strings.TrimPrefix(s, " - "))
		}
	}
	h.WriteString("</ul>")
	if len(run.FailedProducts) > 0 {
		fmt.Fprintf(&t, "\nCould not read %d product(s): %s\n", len(run.FailedProducts), strings.Join(run.FailedProducts, ", "))
		fmt.Fprintf(&h, "<p>Could not read %d product(s): %s</p>", len(run.FailedProducts), html.EscapeString(strings.Join(run.FailedProducts, ", ")))
	}
	return subject, t.String(), h.String()
}

func attributeSummary(p models.ProductDetails) string {
	var parts []string
	add := func(label string, v *string) {
		if v != nil {
			parts = append(parts, label+": "+*v)
		}
	}
	add("Battery", p.Battery)
	add("Max puffs", p.MaxPuff)
	add("Display", p.Display)
	add("Nicotine", p.Nicotine)
	add("E-liquid", p.ELiquidCapacity)
	if len(parts) == 0 {
		return ""
	}
	return " - " + strings.Join(parts, ", ")
}
