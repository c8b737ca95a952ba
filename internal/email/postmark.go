package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/dukerupert/travelx/internal/model"
)

const defaultAPIURL = "https://api.postmarkapp.com/email"

type Client struct {
	serverToken  string
	fromEmail    string
	contactEmail string
	apiURL       string
	httpClient   *http.Client
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithAPIURL points the client at a different Postmark-compatible endpoint.
func WithAPIURL(u string) Option {
	return func(cl *Client) {
		cl.apiURL = u
	}
}

// NewClient builds a Postmark client. contactEmail is the inbox that
// receives contact form submissions; it defaults to fromEmail.
func NewClient(serverToken, fromEmail, contactEmail string, opts ...Option) *Client {
	if contactEmail == "" {
		contactEmail = fromEmail
	}
	c := &Client{
		serverToken:  serverToken,
		fromEmail:    fromEmail,
		contactEmail: contactEmail,
		apiURL:       defaultAPIURL,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured returns true if the server token is set.
func (c *Client) Configured() bool {
	return c.serverToken != ""
}

type postmarkEmail struct {
	From     string `json:"From"`
	To       string `json:"To"`
	ReplyTo  string `json:"ReplyTo,omitempty"`
	Subject  string `json:"Subject"`
	HtmlBody string `json:"HtmlBody"`
	TextBody string `json:"TextBody"`
}

// SendPasswordReset mails an absolute reset link.
func (c *Client) SendPasswordReset(toEmail, link string) error {
	textBody := fmt.Sprintf("We received a request to reset your TravelX password.\n\nOpen the link below to choose a new one:\n\n%s\n\nThis link expires in 24 hours. If you did not ask for a reset you can ignore this email.", link)
	htmlBody := fmt.Sprintf(
		`<p>We received a request to reset your TravelX password.</p><p><a href="%s">Choose a new password</a></p><p>This link expires in 24 hours. If you did not ask for a reset you can ignore this email.</p>`,
		html.EscapeString(link),
	)
	return c.send(postmarkEmail{
		From:     c.fromEmail,
		To:       toEmail,
		Subject:  "Reset your TravelX password",
		HtmlBody: htmlBody,
		TextBody: textBody,
	})
}

// SendContactMessage forwards a contact form submission to the site inbox
// with Reply-To set to the sender.
func (c *Client) SendContactMessage(msg model.ContactMessage) error {
	subject := msg.Subject
	if subject == "" {
		subject = "New contact message"
	}
	if msg.Category != "" {
		subject = fmt.Sprintf("[%s] %s", msg.Category, subject)
	}

	var text strings.Builder
	fmt.Fprintf(&text, "From: %s <%s>\n", msg.Name, msg.Email)
	if msg.Phone != "" {
		fmt.Fprintf(&text, "Phone: %s\n", msg.Phone)
	}
	fmt.Fprintf(&text, "\n%s\n", msg.Message)

	htmlBody := fmt.Sprintf(
		`<p><strong>From:</strong> %s &lt;%s&gt;</p><p><strong>Phone:</strong> %s</p><p>%s</p>`,
		html.EscapeString(msg.Name), html.EscapeString(msg.Email),
		html.EscapeString(msg.Phone), html.EscapeString(msg.Message),
	)

	return c.send(postmarkEmail{
		From:     c.fromEmail,
		To:       c.contactEmail,
		ReplyTo:  msg.Email,
		Subject:  subject,
		HtmlBody: htmlBody,
		TextBody: text.String(),
	})
}

func (c *Client) send(payload postmarkEmail) error {
	if !c.Configured() {
		return fmt.Errorf("email client not configured: missing server token")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequest("POST", c.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Postmark-Server-Token", c.serverToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("postmark API error: status %d", resp.StatusCode)
	}

	return nil
}
