package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/osteele/liquid"

	"github.com/iliyamo/buildrr-backend/internal/logger"
	"github.com/iliyamo/buildrr-backend/internal/mailer"
	"github.com/iliyamo/buildrr-backend/internal/model"
)

type mailTemplate struct {
	subject *liquid.Template
	body    *liquid.Template
}

const (
	tplQuoteSubmitted    = "quote_submitted"
	tplContactSubmitted  = "contact_submitted"
	tplQuoteAnswerMember = "quote_answer_member"
	tplQuoteAnswerGuest  = "quote_answer_guest"
	tplQuoteClientReply  = "quote_client_reply"
)

var mailSources = map[string][2]string{
	tplQuoteSubmitted: {
		`New quote request - {{ company }}`,
		`New quote request received on Buildrr

Request type: {{ account_info }}

Client:
- Company: {{ company }}
- Email: {{ email }}
- Phone: {{ phone | default: "not provided" }}

Project:
- Type: {{ project_type }}
- Budget: {{ budget }}
- Timeline: {{ timeline }}
- Features: {{ features | join: ", " }}

Description:
{{ description }}

Automatic estimate: {{ estimated_price }} EUR

---
Received: {{ created_at }}
Request id: {{ id }}

{% if has_account %}The client has an account and can follow this request from the dashboard.{% else %}The client has no account; reply by email only.{% endif %}
`,
	},
	tplContactSubmitted: {
		`New contact message - {{ subject }}`,
		`New contact message received on Buildrr

- Name: {{ name }}
- Email: {{ email }}
- Company: {{ company | default: "not provided" }}
- Phone: {{ phone | default: "not provided" }}
- Subject: {{ subject }}

Message:
{{ message }}

---
Received: {{ created_at }}
Message id: {{ id }}
`,
	},
	tplQuoteAnswerMember: {
		`Answer to your quote request - {{ company }}`,
		`Hello,

We have reviewed your quote request for your "{{ project_type }}" project.

Our proposal:
- Price: {{ price }} EUR
- Timeline: {{ timeline }}

Message:
{{ response }}

You can read the full proposal and accept or decline it from your dashboard: {{ dashboard_url }}

The Buildrr team
`,
	},
	tplQuoteAnswerGuest: {
		`Your custom quote - {{ company }}`,
		`Hello,

Thank you for your quote request for your "{{ project_type }}" project.

Price: {{ price }} EUR
Timeline: {{ timeline }}

Details of our proposal:
{{ response }}

To accept this proposal or discuss it, reply to this email.

The Buildrr team
{{ admin_email }}
`,
	},
	tplQuoteClientReply: {
		`Answer to quote #{{ id }} - {{ company }}`,
		`The client answered quote #{{ id }}

Answer: {{ verdict }}

Client:
- Company: {{ company }}
- Email: {{ email }}
- Phone: {{ phone | default: "not provided" }}

Project: {{ project_type }}
Proposed price: {{ price }} EUR

Client message:
{{ message }}

---
Answered: {{ answered_at }}
`,
	},
}

// Notifier renders and sends the business notification emails. Delivery is
// best-effort: a failure is logged at warn and reported as false, never as
// an error.
type Notifier struct {
	mailer       mailer.Mailer
	log          logger.Logger
	adminEmail   string
	dashboardURL string
	templates    map[string]mailTemplate
}

func NewNotifier(m mailer.Mailer, log logger.Logger, adminEmail, dashboardURL string) (*Notifier, error) {
	engine := liquid.NewEngine()
	templates := make(map[string]mailTemplate, len(mailSources))
	for name, src := range mailSources {
		subject, err := engine.ParseString(src[0])
		if err != nil {
			return nil, fmt.Errorf("parse %s subject: %w", name, err)
		}
		body, err := engine.ParseString(src[1])
		if err != nil {
			return nil, fmt.Errorf("parse %s body: %w", name, err)
		}
		templates[name] = mailTemplate{subject: subject, body: body}
	}
	return &Notifier{
		mailer:       m,
		log:          log,
		adminEmail:   adminEmail,
		dashboardURL: dashboardURL,
		templates:    templates,
	}, nil
}

func (n *Notifier) render(name string, data map[string]interface{}) (mailer.Message, error) {
	tpl := n.templates[name]
	subject, err := tpl.subject.RenderString(data)
	if err != nil {
		return mailer.Message{}, fmt.Errorf("render %s subject: %w", name, err)
	}
	body, err := tpl.body.RenderString(data)
	if err != nil {
		return mailer.Message{}, fmt.Errorf("render %s body: %w", name, err)
	}
	return mailer.Message{Subject: strings.TrimSpace(subject), Body: body}, nil
}

func (n *Notifier) send(ctx context.Context, to, name string, data map[string]interface{}) bool {
	msg, err := n.render(name, data)
	if err == nil {
		msg.To = to
		err = n.mailer.Send(ctx, msg)
	}
	if err != nil {
		n.log.WithFields(map[string]interface{}{
			"to":       to,
			"template": name,
			"error":    err.Error(),
		}).Warn("notification not sent")
		return false
	}
	return true
}

func money(v float64) string { return fmt.Sprintf("%.2f", v) }

func stamp(t time.Time) string { return t.UTC().Format("02/01/2006 15:04") }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// QuoteSubmitted tells the admin mailbox about a new quote request.
func (n *Notifier) QuoteSubmitted(ctx context.Context, q *model.Quote) bool {
	info := "Guest (no account)"
	if q.HasAccount {
		info = "With user account"
	}
	return n.send(ctx, n.adminEmail, tplQuoteSubmitted, map[string]interface{}{
		"id":              q.ID,
		"account_info":    info,
		"has_account":     q.HasAccount,
		"company":         q.Company,
		"email":           q.Email,
		"phone":           q.Phone,
		"project_type":    q.ProjectType,
		"budget":          q.Budget,
		"timeline":        q.Timeline,
		"features":        q.Features,
		"description":     q.Description,
		"estimated_price": money(q.EstimatedPrice),
		"created_at":      stamp(q.CreatedAt),
	})
}

// ContactSubmitted tells the admin mailbox about a contact form message.
func (n *Notifier) ContactSubmitted(ctx context.Context, c *model.Contact) bool {
	return n.send(ctx, n.adminEmail, tplContactSubmitted, map[string]interface{}{
		"id":         c.ID,
		"name":       c.Name,
		"email":      c.Email,
		"company":    c.Company,
		"phone":      c.Phone,
		"subject":    c.Subject,
		"message":    c.Message,
		"created_at": stamp(c.CreatedAt),
	})
}

// QuoteAnswered sends the admin proposal to the requester. Account holders
// are pointed at the dashboard; guests are asked to reply by email.
func (n *Notifier) QuoteAnswered(ctx context.Context, q *model.Quote) bool {
	name := tplQuoteAnswerGuest
	if q.HasAccount {
		name = tplQuoteAnswerMember
	}
	price := 0.0
	if q.AdminPrice != nil {
		price = *q.AdminPrice
	}
	return n.send(ctx, q.Email, name, map[string]interface{}{
		"company":       q.Company,
		"project_type":  q.ProjectType,
		"price":         money(price),
		"timeline":      deref(q.AdminTimeline),
		"response":      deref(q.AdminResponse),
		"dashboard_url": n.dashboardURL,
		"admin_email":   n.adminEmail,
	})
}

// QuoteClientReplied tells the admin mailbox how the requester answered.
func (n *Notifier) QuoteClientReplied(ctx context.Context, q *model.Quote) bool {
	verdict := "REJECTED"
	if q.Status == model.QuoteAccepted {
		verdict = "ACCEPTED"
	}
	price := 0.0
	if q.AdminPrice != nil {
		price = *q.AdminPrice
	}
	answered := time.Now()
	if q.ClientResponseAt != nil {
		answered = *q.ClientResponseAt
	}
	return n.send(ctx, n.adminEmail, tplQuoteClientReply, map[string]interface{}{
		"id":           q.ID,
		"verdict":      verdict,
		"company":      q.Company,
		"email":        q.Email,
		"phone":        q.Phone,
		"project_type": q.ProjectType,
		"price":        money(price),
		"message":      deref(q.ClientMessage),
		"answered_at":  stamp(answered),
	})
}
