package mailer

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/polkiloo/letterdesk/internal/domain/model"
)

//go:embed templates.yaml
var defaultTemplates []byte

type templateSpec struct {
	Subject string `yaml:"subject"`
	Body    string `yaml:"body"`
}

type compiled struct {
	subject *template.Template
	body    *template.Template
}

// Templates renders notification emails per email type.
type Templates struct {
	byType map[model.EmailType]compiled
}

// Message is a rendered email ready for a transport.
type Message struct {
	To      string
	Subject string
	Body    string
}

var requiredTypes = []model.EmailType{
	model.EmailOrderStatusChange,
	model.EmailProofReady,
	model.EmailInvoiceGenerated,
	model.EmailInvoiceOverdue,
	model.EmailCustom,
}

var templateFuncs = template.FuncMap{
	"status": StatusLabel,
}

// DefaultTemplates parses the embedded template set.
func DefaultTemplates() (*Templates, error) {
	return ParseTemplates(defaultTemplates)
}

// ParseTemplates compiles a YAML document keyed by email type.
func ParseTemplates(raw []byte) (*Templates, error) {
	var specs map[string]templateSpec
	if err := yaml.Unmarshal(raw, &specs); err != nil {
		return nil, fmt.Errorf("decode templates: %w", err)
	}

	t := &Templates{byType: make(map[model.EmailType]compiled, len(specs))}
	for name, spec := range specs {
		subject, err := template.New(name + ".subject").Funcs(templateFuncs).Option("missingkey=error").Parse(spec.Subject)
		if err != nil {
			return nil, fmt.Errorf("parse %s subject: %w", name, err)
		}
		body, err := template.New(name + ".body").Funcs(templateFuncs).Option("missingkey=error").Parse(spec.Body)
		if err != nil {
			return nil, fmt.Errorf("parse %s body: %w", name, err)
		}
		t.byType[model.EmailType(name)] = compiled{subject: subject, body: body}
	}

	for _, typ := range requiredTypes {
		if _, ok := t.byType[typ]; !ok {
			return nil, fmt.Errorf("template %q is missing", typ)
		}
	}
	return t, nil
}

// Render fills the template of n.Type with n.
func (t *Templates) Render(n model.Notification) (Message, error) {
	tpl, ok := t.byType[n.Type]
	if !ok {
		return Message{}, fmt.Errorf("no template for %q", n.Type)
	}

	var subject, body bytes.Buffer
	if err := tpl.subject.Execute(&subject, n); err != nil {
		return Message{}, fmt.Errorf("render %s subject: %w", n.Type, err)
	}
	if err := tpl.body.Execute(&body, n); err != nil {
		return Message{}, fmt.Errorf("render %s body: %w", n.Type, err)
	}

	return Message{
		To:      n.Recipient,
		Subject: headerLine(subject.String()),
		Body:    body.String(),
	}, nil
}

// headerLine flattens s to a single line safe for a mail header.
func headerLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var statusLabels = map[model.OrderStatus]string{
	model.OrderStatusDraft:            "draft",
	model.OrderStatusPending:          "pending review",
	model.OrderStatusApproved:         "approved",
	model.OrderStatusChangesRequested: "changes requested",
	model.OrderStatusInProgress:       "in production",
	model.OrderStatusCompleted:        "completed",
	model.OrderStatusDelivered:        "delivered",
	model.OrderStatusCancelled:        "cancelled",
}

// StatusLabel turns a status into customer-facing wording.
func StatusLabel(s model.OrderStatus) string {
	if rev, ok := s.Revision(); ok {
		return fmt.Sprintf("awaiting your approval (revision %d)", rev)
	}
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}
