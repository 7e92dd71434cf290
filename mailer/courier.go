package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/facteam/blog-api/config"
)

// Recipient carries one subscriber's address and template data for a bulk send.
type Recipient struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
	PostURL string `json:"postUrl"`
}

// Sender submits mail to the provider. Satisfied by Courier; tests use stubs.
type Sender interface {
	Send(ctx context.Context, email string, content Template, data map[string]string) error
	SendBulk(ctx context.Context, content Template, recipients []Recipient) (string, error)
}

// Courier talks to the Courier REST API: single sends plus the bulk job
// flow (create job, ingest users, run job).
type Courier struct {
	baseURL   string
	token     string
	bulkEvent string
	client    *http.Client
}

// NewCourier builds a client from configuration. The 45 second timeout
// matches what the platform has always allowed the provider.
func NewCourier(cfg config.AppConfig) *Courier {
	return &Courier{
		baseURL:   cfg.CourierBaseURL,
		token:     cfg.CourierToken,
		bulkEvent: cfg.CourierBulkEvent,
		client:    &http.Client{Timeout: 45 * time.Second},
	}
}

// Send delivers a single templated mail to one address.
func (c *Courier) Send(ctx context.Context, email string, content Template, data map[string]string) error {
	body := map[string]interface{}{
		"message": map[string]interface{}{
			"to":      map[string]string{"email": email},
			"content": content,
			"data":    data,
			"routing": map[string]interface{}{
				"method":   "single",
				"channels": []string{"email"},
			},
		},
	}
	var out struct {
		RequestID string `json:"requestId"`
	}
	if err := c.post(ctx, "/send", body, &out); err != nil {
		return err
	}
	return nil
}

// SendBulk submits one batch of recipients as a Courier bulk job and returns
// the job id. The caller is responsible for keeping batches at or below the
// provider's per-request recipient ceiling.
func (c *Courier) SendBulk(ctx context.Context, content Template, recipients []Recipient) (string, error) {
	if len(recipients) == 0 {
		return "", fmt.Errorf("recipient list is empty")
	}

	createBody := map[string]interface{}{
		"message": map[string]interface{}{
			"event":   c.bulkEvent,
			"content": content,
			"routing": map[string]interface{}{
				"method":   "single",
				"channels": []string{"email"},
			},
		},
	}
	var created struct {
		JobID string `json:"jobId"`
	}
	if err := c.post(ctx, "/bulk", createBody, &created); err != nil {
		return "", fmt.Errorf("create bulk job: %w", err)
	}

	users := make([]map[string]interface{}, 0, len(recipients))
	for _, r := range recipients {
		users = append(users, map[string]interface{}{
			"recipientId": uuid.NewString(),
			"profile":     map[string]string{"email": r.Email},
			"data": map[string]string{
				"name":    r.Name,
				"title":   r.Title,
				"excerpt": r.Excerpt,
				"postUrl": r.PostURL,
			},
		})
	}
	ingestBody := map[string]interface{}{"users": users}
	if err := c.post(ctx, "/bulk/"+created.JobID, ingestBody, nil); err != nil {
		return "", fmt.Errorf("ingest users: %w", err)
	}

	if err := c.post(ctx, "/bulk/"+created.JobID+"/run", struct{}{}, nil); err != nil {
		return "", fmt.Errorf("run bulk job: %w", err)
	}
	return created.JobID, nil
}

func (c *Courier) post(ctx context.Context, path string, body, out interface{}) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("courier %s: status %d: %s", path, resp.StatusCode, msg)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
