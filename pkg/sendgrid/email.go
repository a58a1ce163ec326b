// Package sendgrid delivers exported quotation documents by email. It is one
// implementation of the document sink; the engine's responsibility ends at
// producing the record sequence it is handed.
package sendgrid

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sebagonz91/promo-storefront/internal/models"
)

type QuoteMailer interface {
	Deliver(ctx context.Context, doc *models.QuoteDocument) error
}

type quoteMailer struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewQuoteMailer(apiKey, fromEmail, fromName string) QuoteMailer {
	return &quoteMailer{client: sendgrid.NewSendClient(apiKey), fromEmail: fromEmail, fromName: fromName}
}

// Deliver emails the rendered quotation to the company contact.
func (m *quoteMailer) Deliver(ctx context.Context, doc *models.QuoteDocument) error {

	from := mail.NewEmail(m.fromName, m.fromEmail)
	to := mail.NewEmail(doc.Company.Name, doc.Company.Email)

	message := mail.NewV3Mail()
	message.SetFrom(from)

	personalization := mail.NewPersonalization()
	personalization.AddTos(to)
	personalization.Subject = fmt.Sprintf("Cotización - %s", doc.Company.Name)
	message.AddPersonalizations(personalization)

	message.AddContent(mail.NewContent("text/plain", RenderPlainText(doc)))

	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return err
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send quotation email, status code: %d", response.StatusCode)
	}

	return nil
}

// RenderPlainText flattens the document into the quotation text layout:
// header, one numbered line per item, grand total.
func RenderPlainText(doc *models.QuoteDocument) string {

	var b strings.Builder

	b.WriteString("Cotización\n")
	fmt.Fprintf(&b, "Empresa: %s\n", doc.Company.Name)
	fmt.Fprintf(&b, "Email: %s\n", doc.Company.Email)
	fmt.Fprintf(&b, "RUT: %s\n\n", doc.Company.TaxID)
	b.WriteString("Productos:\n")

	for i, line := range doc.Lines {
		fmt.Fprintf(&b, "%d. %s x %d - %s\n", i+1, line.Name, line.Quantity, line.FormattedTotal)
	}

	fmt.Fprintf(&b, "\nTotal: %s\n", doc.FormattedTotal)

	return b.String()
}
