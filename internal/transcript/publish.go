package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/soyeahso/tickethelper/internal/logging"
)

const defaultGistAPI = "https://api.github.com/gists"

// Publisher uploads transcripts to GitHub Gist as unlisted documents
// and returns a browser-viewable link. Running without a token is a
// supported mode: Publish then reports no link without error.
type Publisher struct {
	token  string
	apiURL string
	client *retryablehttp.Client
	log    *logging.Logger
}

// NewPublisher creates a gist publisher. An empty token disables
// publishing.
func NewPublisher(token string, log *logging.Logger) *Publisher {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 3 * time.Second
	client.HTTPClient.Timeout = 15 * time.Second
	client.Logger = nil

	return &Publisher{
		token:  token,
		apiURL: defaultGistAPI,
		client: client,
		log:    log.Sub("publisher"),
	}
}

// Enabled reports whether a publishing credential is configured.
func (p *Publisher) Enabled() bool {
	return p.token != ""
}

type gistFile struct {
	Content string `json:"content"`
	RawURL  string `json:"raw_url,omitempty"`
}

type gistRequest struct {
	Description string              `json:"description"`
	Public      bool                `json:"public"`
	Files       map[string]gistFile `json:"files"`
}

type gistResponse struct {
	Files map[string]gistFile `json:"files"`
}

// Publish uploads the document and returns a preview link, or "" when
// publishing is disabled or fails. The error return is informational;
// callers degrade to a link-free transcript either way.
func (p *Publisher) Publish(ctx context.Context, filename, content string) (string, error) {
	if !p.Enabled() {
		return "", nil
	}

	body, err := json.Marshal(gistRequest{
		Description: "Ticket transcript - " + filename,
		Public:      false, // unlisted, reachable only via link
		Files:       map[string]gistFile{filename: {Content: content}},
	})
	if err != nil {
		return "", fmt.Errorf("encoding gist request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building gist request: %w", err)
	}
	req.Header.Set("Authorization", "token "+p.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "TicketHelperBot")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("uploading gist: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gist upload returned %s", resp.Status)
	}

	var gist gistResponse
	if err := json.NewDecoder(resp.Body).Decode(&gist); err != nil {
		return "", fmt.Errorf("decoding gist response: %w", err)
	}
	for _, f := range gist.Files {
		if f.RawURL != "" {
			// htmlpreview renders the raw HTML instead of showing source.
			return "https://htmlpreview.github.io/?" + f.RawURL, nil
		}
	}
	return "", fmt.Errorf("no raw URL in gist response")
}
