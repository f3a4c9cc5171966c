package relay

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"whiskd-backend/internal/domain"

	"github.com/goccy/go-json"
)

// Form field names expected by the automation webhook
const (
	FieldOrderData    = "orderData"
	FieldPaymentProof = "paymentProof"
)

// WebhookClient delivers finalized orders to the external automation endpoint.
type WebhookClient struct {
	url        string
	httpClient *http.Client
}

// NewWebhookClient creates a webhook client. An empty URL is allowed and
// makes every delivery fail with domain.ErrRelayNotConfigured.
func NewWebhookClient(url string, timeout time.Duration) *WebhookClient {
	return &WebhookClient{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *WebhookClient) Configured() bool {
	return c != nil && c.url != ""
}

// Submit sends the order as multipart form data: the JSON payload under
// orderData and the optional proof file under paymentProof.
func (c *WebhookClient) Submit(ctx context.Context, order *domain.SubmittedOrder, proof *domain.Attachment) error {
	if !c.Configured() {
		return domain.ErrRelayNotConfigured
	}

	payload, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField(FieldOrderData, string(payload)); err != nil {
		return fmt.Errorf("failed to write order field: %w", err)
	}

	if proof != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, FieldPaymentProof, escapeQuotes(proof.Filename)))
		contentType := proof.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h.Set("Content-Type", contentType)

		part, err := mw.CreatePart(h)
		if err != nil {
			return fmt.Errorf("failed to create proof part: %w", err)
		}
		if _, err := part.Write(proof.Data); err != nil {
			return fmt.Errorf("failed to write proof part: %w", err)
		}
	}

	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to finalize form: %w", err)
	}

	return c.Forward(ctx, mw.FormDataContentType(), &buf)
}

// Forward posts an already encoded body unchanged. Any 2xx counts as delivered.
func (c *WebhookClient) Forward(ctx context.Context, contentType string, body io.Reader) error {
	if !c.Configured() {
		return domain.ErrRelayNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("webhook error (status %d): %s", resp.StatusCode, string(msg))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func escapeQuotes(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '"' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
