// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package entity

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/orgsynth/internal/generate"
)

// Email is a message between two employees. From and To are not
// serialized; the account addresses are, and persistence re-links the
// employees from them on load.
type Email struct {
	Subject     string `json:"Subject" yaml:"subject"`
	Body        string `json:"Body" yaml:"body"`
	Attachment  string `json:"Attachment,omitempty" yaml:"attachment,omitempty"`
	FromAccount string `json:"FromAccount" yaml:"from_account"`
	ToAccount   string `json:"ToAccount" yaml:"to_account"`

	// RecipientKey locates the recipient in a saved forest as
	// "company.unit.employee", 1-based. Addresses alone are ambiguous when
	// two employees of a company share a name.
	RecipientKey string `json:"RecipientKey,omitempty" yaml:"recipient_key,omitempty"`

	From *Employee `json:"-" yaml:"-"`
	To   *Employee `json:"-" yaml:"-"`
}

func (m *Email) String() string {
	return fmt.Sprintf("%s TO %s - %s", m.FromAccount, m.ToAccount, m.Subject)
}

// Describe implements Describable.
func (m *Email) Describe() string {
	return fmt.Sprintf("An email from %s to %s with the subject line %q.", nameOf(m.From), nameOf(m.To), m.Subject)
}

// Internal reports whether sender and recipient work for the same company.
func Internal(from, to *Employee) bool {
	return from.Company != nil && to.Company != nil &&
		(from.Company == to.Company || from.Company.Name == to.Company.Name)
}

const emailStyle = `Sign off the email with the sender's first name only.
Emails should be at most two paragraphs long. Internal emails are informal, external ones formal.
Don't mention a person's job title unless it is relevant to the email.`

const internalStyle = `This is an internal email: add a reasonable frequency of human errors such as spelling or grammatical mistakes, typos or missing apostrophes.
It may use nicknames or briefly mention events outside of work.`

const externalStyle = `This is an external email between two companies: keep it formal and free of typos.`

// NewEmail generates an email from sender to recipient. Every entry in refs
// must be mentioned in the body; topic, when set, steers the subject matter.
// With attachment set the email refers to an attached document whose file
// name is read from the second line of the generated text.
func NewEmail(ctx context.Context, b generate.Backend, from, to *Employee, refs []Describable, attachment bool, topic string) (*Email, error) {
	if from == nil || to == nil {
		return nil, invalid("email", "both a sender and a recipient are required")
	}
	if from == to {
		return nil, invalid("email", "%s cannot email themselves", from.FullName())
	}

	internal := Internal(from, to)
	kind := "an external"
	if internal {
		kind = "an internal"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Write %s email from %s to %s.\n", kind, from.FullName(), to.FullName())
	sb.WriteString(from.Describe() + "\n")
	sb.WriteString(to.Describe() + "\n")
	if from.Company != nil {
		sb.WriteString(from.Company.Describe() + "\n")
	}
	if !internal && to.Company != nil {
		sb.WriteString(to.Company.Describe() + "\n")
	}
	sb.WriteString(emailStyle + "\n")
	if internal {
		sb.WriteString(internalStyle + "\n")
	} else {
		sb.WriteString(externalStyle + "\n")
	}

	for _, ref := range refs {
		switch r := ref.(type) {
		case *Product:
			fmt.Fprintf(&sb, "The email must refer to a product called %q. Its price may not matter to the message. %s\n", r.Name, r.Describe())
		case *Employee:
			fmt.Fprintf(&sb, "The email must refer to %s. %s\n", r.FullName(), r.Describe())
		default:
			fmt.Fprintf(&sb, "The email must refer to the following. %s\n", r.Describe())
		}
	}

	if topic = strings.TrimSpace(topic); topic != "" {
		fmt.Fprintf(&sb, "The email topic should be about %s.\n", topic)
	}
	if attachment {
		sb.WriteString("The email must refer to an attached document. The first line must be the email subject. " +
			"The second line must be the file name of the attachment in the format 'Attachment: <filename>'. " +
			"The remainder must be the email body.")
	} else {
		sb.WriteString("The first line must be the email subject. The remainder must be the email body.")
	}

	raw, err := b.Text(ctx, generate.Request{
		Prompt:     sb.String(),
		Location:   from.Location,
		Attachment: attachment,
	})
	if err != nil {
		return nil, fmt.Errorf("generating email: %w", err)
	}

	parsed, err := ParseEmailText(raw, attachment)
	if err != nil {
		return nil, err
	}
	return send(parsed, from, to), nil
}

const replyPrompt = `%s has sent you an email. Write a short reply from %s.
%s
Add a reasonable frequency of human errors such as spelling or grammatical mistakes, typos or missing apostrophes.
The first line must be the email subject. The remainder must be the body.
The email you are replying to follows:
%s
%s`

// Reply generates a reply to m sent by from to to. Callers answering the
// original correspondence pass from = m.To and to = m.From. The reply is
// appended to the sender's sent messages.
func (m *Email) Reply(ctx context.Context, b generate.Backend, from, to *Employee) (*Email, error) {
	if from == nil || to == nil {
		return nil, invalid("email", "reply needs both correspondents of the original email")
	}
	if from == to {
		return nil, invalid("email", "%s cannot reply to themselves", from.FullName())
	}

	raw, err := b.Text(ctx, generate.Request{
		Prompt:   fmt.Sprintf(replyPrompt, to.FullName(), from.FullName(), from.Describe(), m.Subject, m.Body),
		Location: from.Location,
	})
	if err != nil {
		return nil, fmt.Errorf("generating reply: %w", err)
	}

	parsed, err := ParseEmailText(raw, false)
	if err != nil {
		return nil, err
	}
	return send(parsed, from, to), nil
}

func send(m *Email, from, to *Employee) *Email {
	m.From, m.To = from, to
	m.FromAccount, m.ToAccount = from.EmailAddress(), to.EmailAddress()
	from.SentMessages = append(from.SentMessages, m)
	return m
}

// ParseEmailText splits generated email text into subject, attachment and
// body. Leading blank lines are skipped; the first line is the subject with
// any "Subject:" prefix removed. When attachment is set and the next line
// has the form "Attachment: <file>", the file name is extracted; otherwise
// that line stays in the body.
func ParseEmailText(raw string, attachment bool) (*Email, error) {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("parsing email: empty text")
	}

	m := &Email{Subject: CleanSubjectLine(lines[0])}
	lines = lines[1:]

	if attachment {
		for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
			lines = lines[1:]
		}
		if len(lines) > 0 {
			if name, ok := cutPrefixFold(strings.TrimSpace(lines[0]), "Attachment:"); ok {
				m.Attachment = strings.TrimSpace(name)
				lines = lines[1:]
			}
		}
	}

	m.Body = strings.TrimSpace(strings.Join(lines, "\n"))
	return m, nil
}

// CleanSubjectLine removes a leading "Subject:" (or "Subject :") label.
func CleanSubjectLine(raw string) string {
	s := strings.TrimSpace(raw)
	for _, prefix := range []string{"Subject:", "Subject :"} {
		if rest, ok := cutPrefixFold(s, prefix); ok {
			return strings.TrimSpace(rest)
		}
	}
	return s
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return s, false
}

func nameOf(e *Employee) string {
	if e == nil {
		return "someone"
	}
	return e.FullName()
}
