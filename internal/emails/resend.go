package emails

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const resendAPI = "https://api.resend.com/emails"

// ResendSendRequest matches the Resend API send-email body.
type ResendSendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Sender sends transactional emails. A nil Sender or empty API key is a no-op;
// email failure must never abort the mutation that triggered it.
type Sender interface {
	SendInvitation(ctx context.Context, toEmail, guestName, eventTitle, inviteLink string) error
	SendCancellation(ctx context.Context, toEmail, guestName, eventTitle string) error
	SendAnnouncement(ctx context.Context, toEmail, title, content string) error
	SendPollInvite(ctx context.Context, toEmail, pollTitle string, voteLinks []VoteLink) error
}

// VoteLink is one option's one-click vote URL for poll emails.
type VoteLink struct {
	Label string
	URL   string
}

// ResendClient sends emails via the Resend API (RESEND_API_KEY, MAIL_FROM).
type ResendClient struct {
	APIKey   string
	MailFrom string
	Client   *http.Client
}

func (c *ResendClient) from() string {
	if c.MailFrom != "" {
		return c.MailFrom
	}
	return "EventHost <noreply@eventhost.app>"
}

func (c *ResendClient) send(ctx context.Context, toEmail, subject, html string) error {
	if c.APIKey == "" {
		return nil
	}
	body := ResendSendRequest{
		From:    c.from(),
		To:      []string{toEmail},
		Subject: subject,
		HTML:    html,
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendAPI, bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 15 * time.Second}
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("resend send failed: status %d", resp.StatusCode)
	}
	return nil
}

// SendInvitation sends the guest invitation with the tokenized event link.
func (c *ResendClient) SendInvitation(ctx context.Context, toEmail, guestName, eventTitle, inviteLink string) error {
	if c.APIKey == "" {
		return nil
	}
	if guestName == "" {
		guestName = "there"
	}
	subject := fmt.Sprintf("You're invited: %s", eventTitle)
	return c.send(ctx, toEmail, subject, Layout(invitationContent(guestName, eventTitle, inviteLink)))
}

// SendCancellation notifies a confirmed guest that the event was cancelled.
func (c *ResendClient) SendCancellation(ctx context.Context, toEmail, guestName, eventTitle string) error {
	if c.APIKey == "" {
		return nil
	}
	if guestName == "" {
		guestName = "there"
	}
	subject := fmt.Sprintf("Cancelled: %s", eventTitle)
	return c.send(ctx, toEmail, subject, Layout(cancellationContent(guestName, eventTitle)))
}

// SendAnnouncement delivers a published announcement.
func (c *ResendClient) SendAnnouncement(ctx context.Context, toEmail, title, content string) error {
	if c.APIKey == "" {
		return nil
	}
	return c.send(ctx, toEmail, title, Layout(announcementContent(title, content)))
}

// SendPollInvite sends a poll with one-click vote links per option.
func (c *ResendClient) SendPollInvite(ctx context.Context, toEmail, pollTitle string, voteLinks []VoteLink) error {
	if c.APIKey == "" {
		return nil
	}
	subject := fmt.Sprintf("Vote: %s", pollTitle)
	return c.send(ctx, toEmail, subject, Layout(pollInviteContent(pollTitle, voteLinks)))
}
