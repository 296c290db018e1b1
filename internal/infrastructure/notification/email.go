package notification

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"mime"
	"net/smtp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"solstice_leads/internal/config"
	"solstice_leads/internal/domain/entities"
	"solstice_leads/internal/usecase/interfaces"
)

const companyName = "SolsTice Agro Exports"

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type mail struct {
	to      string
	subject string
	html    string
}

// SMTPNotifier sends the admin alert and the customer auto-reply for every
// submission. Both mails go out concurrently.
type SMTPNotifier struct {
	cfg         config.SMTPConfig
	adminEmail  string
	frontendURL string
	send        sendFunc
}

var _ interfaces.INotifier = (*SMTPNotifier)(nil)

func NewSMTPNotifier(cfg config.SMTPConfig, adminEmail, frontendURL string) *SMTPNotifier {
	return &SMTPNotifier{
		cfg:         cfg,
		adminEmail:  adminEmail,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		send:        smtp.SendMail,
	}
}

func (n *SMTPNotifier) NotifyContact(ctx context.Context, c entities.Contact) error {
	data := contactMailData{Contact: c, FrontendURL: n.frontendURL, Submitted: formatSubmitted(c.CreatedAt)}
	admin, err := render(contactAdminTmpl, data)
	if err != nil {
		return deliveryError("smtp", err)
	}
	reply, err := render(contactReplyTmpl, data)
	if err != nil {
		return deliveryError("smtp", err)
	}
	return n.deliver(ctx,
		mail{to: n.adminEmail, subject: "New Contact Form Submission - " + c.Subject, html: admin},
		mail{to: c.Email, subject: "Thank you for contacting " + companyName, html: reply},
	)
}

func (n *SMTPNotifier) NotifyInquiry(ctx context.Context, i entities.Inquiry) error {
	data := inquiryMailData{
		Inquiry:     i,
		Reference:   i.ReferenceNumber(),
		Quantity:    i.FormattedQuantity(),
		Value:       "N/A",
		FrontendURL: n.frontendURL,
		Submitted:   formatSubmitted(i.CreatedAt),
	}
	if i.EstimatedValue != nil {
		data.Value = "$" + i.EstimatedValue.StringFixed(2)
	}
	admin, err := render(inquiryAdminTmpl, data)
	if err != nil {
		return deliveryError("smtp", err)
	}
	reply, err := render(inquiryReplyTmpl, data)
	if err != nil {
		return deliveryError("smtp", err)
	}
	return n.deliver(ctx,
		mail{to: n.adminEmail, subject: "New Bulk Order Inquiry - " + i.Product, html: admin},
		mail{to: i.Email, subject: "Your Bulk Order Inquiry - " + companyName, html: reply},
	)
}

func (n *SMTPNotifier) deliver(ctx context.Context, mails ...mail) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, m := range mails {
		if m.to == "" {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return n.sendOne(m)
		})
	}
	if err := g.Wait(); err != nil {
		return deliveryError("smtp", err)
	}
	return nil
}

func (n *SMTPNotifier) sendOne(m mail) error {
	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	if err := n.send(addr, auth, n.cfg.From, []string{m.to}, buildMessage(n.cfg.From, m)); err != nil {
		return fmt.Errorf("send to %s: %w", m.to, err)
	}
	return nil
}

func buildMessage(from string, m mail) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + m.to + "\r\n")
	b.WriteString("Subject: " + headerValue(m.subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(m.html)
	return []byte(b.String())
}

// headerValue folds submitter text into a single header line. Line breaks
// become spaces and non-ASCII text is sent as an RFC 2047 encoded word.
func headerValue(s string) string {
	s = strings.Join(strings.FieldsFunc(s, func(r rune) bool { return r == '\r' || r == '\n' }), " ")
	return mime.QEncoding.Encode("utf-8", s)
}

func formatSubmitted(t time.Time) string {
	return t.UTC().Format("2 Jan 2006 15:04 MST")
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type contactMailData struct {
	entities.Contact
	FrontendURL string
	Submitted   string
}

type inquiryMailData struct {
	entities.Inquiry
	Reference   string
	Quantity    string
	Value       string
	FrontendURL string
	Submitted   string
}

var funcs = template.FuncMap{
	"orDefault": func(v, def string) string {
		if strings.TrimSpace(v) == "" {
			return def
		}
		return v
	},
	"humanize": func(v string) string { return strings.Replace(v, "-", " ", 1) },
	"upper":    strings.ToUpper,
}

var contactAdminTmpl = template.Must(template.New("contact_admin").Funcs(funcs).Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2d5016;">New Contact Form Submission</h2>
  <h3>Contact Details</h3>
  <p><strong>Name:</strong> {{.Name}}</p>
  <p><strong>Email:</strong> {{.Email}}</p>
  <p><strong>Phone:</strong> {{orDefault .Phone "Not provided"}}</p>
  <p><strong>Company:</strong> {{orDefault .Company "Not provided"}}</p>
  <p><strong>Country:</strong> {{orDefault .Country "Not provided"}}</p>
  <h3>Message</h3>
  <p><strong>Subject:</strong> {{.Subject}}</p>
  <p style="white-space: pre-wrap;">{{.Message}}</p>
  <p style="font-size: 14px; color: #666;">
    <strong>Submitted:</strong> {{.Submitted}}<br>
    <strong>Contact ID:</strong> {{.ID}}
  </p>
</div>`))

var contactReplyTmpl = template.Must(template.New("contact_reply").Funcs(funcs).Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1 style="color: #2d5016;">SolsTice Agro Exports</h1>
  <p>Dear {{.Name}},</p>
  <p>Thank you for contacting us. We have received your message regarding "{{.Subject}}" and our team will review it within 24 hours.</p>
  {{if .FrontendURL}}<p>Meanwhile, browse our <a href="{{.FrontendURL}}/products">product catalog</a>.</p>{{end}}
  <p style="font-size: 14px; color: #666;">
    <strong>Reference Number:</strong> {{.ID}}<br>
    <strong>Submitted:</strong> {{.Submitted}}
  </p>
  <p>Best regards,<br><strong>The SolsTice Team</strong></p>
</div>`))

var inquiryAdminTmpl = template.Must(template.New("inquiry_admin").Funcs(funcs).Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2d5016;">New Bulk Order Inquiry</h2>
  <p style="font-weight: bold;">Priority: {{upper (print .Priority)}} | Estimated Value: {{.Value}}</p>
  <h3>Customer Details</h3>
  <p><strong>Name:</strong> {{.Name}}</p>
  <p><strong>Email:</strong> {{.Email}}</p>
  <p><strong>Company:</strong> {{orDefault .Company "Not provided"}}</p>
  <p><strong>Phone:</strong> {{orDefault .Phone "Not provided"}}</p>
  <p><strong>Country:</strong> {{orDefault .Country "Not provided"}}</p>
  <h3>Order Details</h3>
  <p><strong>Product:</strong> {{.Product}}</p>
  <p><strong>Quantity:</strong> {{.Quantity}}</p>
  <p><strong>Delivery Port:</strong> {{orDefault .DeliveryPort "Not specified"}}</p>
  <p><strong>Urgency:</strong> {{humanize (print .Urgency)}}</p>
  <p><strong>Budget Range:</strong> {{humanize (print .Budget)}}</p>
  {{if .Message}}<h3>Additional Message</h3><p style="white-space: pre-wrap;">{{.Message}}</p>{{end}}
  <p style="font-size: 14px; color: #666;">
    <strong>Submitted:</strong> {{.Submitted}}<br>
    <strong>Inquiry ID:</strong> {{.ID}}<br>
    <strong>Reference:</strong> {{.Reference}}
  </p>
  {{if .FrontendURL}}<p><a href="{{.FrontendURL}}/admin/inquiries/{{.ID}}">View in Admin Panel</a></p>{{end}}
</div>`))

var inquiryReplyTmpl = template.Must(template.New("inquiry_reply").Funcs(funcs).Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1 style="color: #2d5016;">SolsTice Agro Exports</h1>
  <p>Dear {{.Name}},</p>
  <p>Thank you for your interest in our {{.Product}}. We have received your bulk order inquiry and our team is preparing a quote.</p>
  <h3>Your Inquiry Summary</h3>
  <p><strong>Product:</strong> {{.Product}}</p>
  <p><strong>Quantity:</strong> {{if .Inquiry.Quantity}}{{.Quantity}}{{else}}To be discussed{{end}}</p>
  <p><strong>Reference Number:</strong> {{.Reference}}</p>
  <p>Our sales team will contact you within 24 hours.</p>
  <p>Best regards,<br><strong>The SolsTice Sales Team</strong></p>
</div>`))
