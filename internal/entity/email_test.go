// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package entity

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/orgsynth/internal/generate"
)

func TestParseEmailText(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		attachment bool
		want       Email
	}{
		{
			name:       "attachment line",
			raw:        "Subject line\nAttachment: report.pdf\nBody line one\nBody line two",
			attachment: true,
			want:       Email{Subject: "Subject line", Attachment: "report.pdf", Body: "Body line one\nBody line two"},
		},
		{
			name: "subject label and crlf",
			raw:  "Subject: Lunch?\r\n\r\nAre you free at noon?\r\nSam",
			want: Email{Subject: "Lunch?", Body: "Are you free at noon?\nSam"},
		},
		{
			name: "spaced subject label",
			raw:  "Subject : Q3 numbers\nSee below.",
			want: Email{Subject: "Q3 numbers", Body: "See below."},
		},
		{
			name:       "attachment after blank line",
			raw:        "\n\nBudget\n\nattachment:  budget-2026.xlsx \nHi,\n\nNumbers attached.",
			attachment: true,
			want:       Email{Subject: "Budget", Attachment: "budget-2026.xlsx", Body: "Hi,\n\nNumbers attached."},
		},
		{
			name:       "missing attachment line stays in body",
			raw:        "Budget\nHi team,\nsee the numbers.",
			attachment: true,
			want:       Email{Subject: "Budget", Body: "Hi team,\nsee the numbers."},
		},
		{
			name: "attachment line ignored when not requested",
			raw:  "Hello\nAttachment: x.pdf\nBody",
			want: Email{Subject: "Hello", Body: "Attachment: x.pdf\nBody"},
		},
		{
			name: "subject only",
			raw:  "Just a subject",
			want: Email{Subject: "Just a subject"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEmailText(tt.raw, tt.attachment)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestParseEmailText_Empty(t *testing.T) {
	_, err := ParseEmailText(" \n\n", false)
	assert.Error(t, err)
}

func TestCleanSubjectLine(t *testing.T) {
	assert.Equal(t, "Hello", CleanSubjectLine("Subject: Hello"))
	assert.Equal(t, "Hello", CleanSubjectLine("  Subject :Hello "))
	assert.Equal(t, "Hello", CleanSubjectLine("SUBJECT: Hello"))
	assert.Equal(t, "Re: Subjects of interest", CleanSubjectLine("Re: Subjects of interest"))
}

func newCorrespondents() (alice, bob, carol *Employee) {
	acme := testCompany("Acme", "acme.com")
	globex := testCompany("Globex", "globex.io")
	alice = testEmployee(acme, acme.Units[0], "Alice", "Ng")
	bob = testEmployee(acme, acme.Units[1], "Bob", "Frost")
	carol = testEmployee(globex, globex.Units[0], "Carol", "Diaz")
	return alice, bob, carol
}

func TestNewEmail_Internal(t *testing.T) {
	alice, bob, _ := newCorrespondents()
	b := &cannedBackend{text: "Subject: Friday\nHey Bob,\ndrinks after werk?\nAlice"}

	m, err := NewEmail(context.Background(), b, alice, bob, nil, false, "team drinks")
	require.NoError(t, err)

	assert.Equal(t, "Friday", m.Subject)
	assert.Equal(t, "Hey Bob,\ndrinks after werk?\nAlice", m.Body)
	assert.Empty(t, m.Attachment)
	assert.Same(t, alice, m.From)
	assert.Same(t, bob, m.To)
	assert.Equal(t, "alice.ng@acme.com", m.FromAccount)
	assert.Equal(t, "bob.frost@acme.com", m.ToAccount)
	assert.Equal(t, []*Email{m}, alice.SentMessages)
	assert.Empty(t, bob.SentMessages)

	prompt := b.lastPrompt()
	assert.True(t, strings.HasPrefix(prompt, "Write an internal email from Alice Ng to Bob Frost."))
	assert.Contains(t, prompt, internalStyle)
	assert.NotContains(t, prompt, externalStyle)
	assert.Equal(t, 1, strings.Count(prompt, alice.Company.Describe()), "shared company described once")
	assert.Contains(t, prompt, "The email topic should be about team drinks.")
	assert.Contains(t, prompt, "The first line must be the email subject.")
}

func TestNewEmail_ExternalWithReferences(t *testing.T) {
	alice, bob, carol := newCorrespondents()
	product := &Product{Name: "Widget", Price: "10 USD", Company: alice.Company}
	b := &cannedBackend{text: "Widget pricing\nAttachment: widget-quote.pdf\nDear Carol,\nPlease find the quote attached.\nAlice"}

	m, err := NewEmail(context.Background(), b, alice, carol, []Describable{product, bob}, true, "")
	require.NoError(t, err)

	assert.Equal(t, "Widget pricing", m.Subject)
	assert.Equal(t, "widget-quote.pdf", m.Attachment)
	assert.Equal(t, "Dear Carol,\nPlease find the quote attached.\nAlice", m.Body)

	req := b.requests[0]
	assert.True(t, req.Attachment)
	assert.Contains(t, req.Prompt, "Write an external email")
	assert.Contains(t, req.Prompt, externalStyle)
	assert.Contains(t, req.Prompt, alice.Company.Describe())
	assert.Contains(t, req.Prompt, carol.Company.Describe())
	assert.Contains(t, req.Prompt, `a product called "Widget"`)
	assert.Contains(t, req.Prompt, product.Describe())
	assert.Contains(t, req.Prompt, "The email must refer to Bob Frost.")
	assert.Contains(t, req.Prompt, "'Attachment: <filename>'")
	assert.NotContains(t, req.Prompt, "topic should be about")
}

func TestNewEmail_SenderIsRecipient(t *testing.T) {
	alice, _, _ := newCorrespondents()
	b := &cannedBackend{text: "x\ny"}

	_, err := NewEmail(context.Background(), b, alice, alice, nil, false, "")
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Empty(t, b.requests)
	assert.Empty(t, alice.SentMessages)
}

func TestReply_Directionality(t *testing.T) {
	alice, _, carol := newCorrespondents()
	b := &cannedBackend{text: "Re: Widget pricing\nThanks Alice, looks good."}

	original, err := NewEmail(context.Background(), &cannedBackend{text: "Widget pricing\nHi Carol"}, alice, carol, nil, false, "")
	require.NoError(t, err)

	reply, err := original.Reply(context.Background(), b, original.To, original.From)
	require.NoError(t, err)

	assert.Same(t, carol, reply.From)
	assert.Same(t, alice, reply.To)
	assert.Equal(t, "carol.diaz@globex.io", reply.FromAccount)
	assert.Equal(t, "alice.ng@acme.com", reply.ToAccount)
	assert.Equal(t, "Re: Widget pricing", reply.Subject)
	assert.Equal(t, "Thanks Alice, looks good.", reply.Body)

	assert.Equal(t, []*Email{reply}, carol.SentMessages, "reply goes to the replier's sent list")
	assert.Equal(t, []*Email{original}, alice.SentMessages, "original sender's list is unchanged")

	prompt := b.lastPrompt()
	assert.True(t, strings.HasPrefix(prompt, "Alice Ng has sent you an email. Write a short reply from Carol Diaz."))
	assert.Contains(t, prompt, "Widget pricing\nHi Carol")
}

func TestReply_LocalBackend(t *testing.T) {
	alice, bob, _ := newCorrespondents()
	local := generate.NewLocalBackend(3)

	original, err := NewEmail(context.Background(), local, alice, bob, nil, true, "")
	require.NoError(t, err)
	assert.NotEmpty(t, original.Subject)
	assert.NotEmpty(t, original.Attachment)
	assert.NotEmpty(t, original.Body)

	reply, err := original.Reply(context.Background(), local, bob, alice)
	require.NoError(t, err)
	assert.Same(t, bob, reply.From)
	assert.Len(t, bob.SentMessages, 1)
}

func TestEmailDescribe(t *testing.T) {
	alice, bob, _ := newCorrespondents()
	m := &Email{Subject: "Hi", From: alice, To: bob, FromAccount: alice.EmailAddress(), ToAccount: bob.EmailAddress()}
	assert.Equal(t, `An email from Alice Ng to Bob Frost with the subject line "Hi".`, m.Describe())
	assert.Equal(t, "alice.ng@acme.com TO bob.frost@acme.com - Hi", m.String())
}
