package suno

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/casualjim/muse/config"
	"github.com/casualjim/muse/content"
	"github.com/casualjim/muse/fault"
	"github.com/casualjim/muse/provider"
	"github.com/fogfish/opts"
	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

const (
	defaultBaseURL = "https://studio-api.suno.ai"
	streamPath     = "/v1/music/stream"
	readBufferSize = 32 * 1024
)

type Provider struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

var (
	// WithHTTPClient replaces the transport, mainly for tests and proxies.
	WithHTTPClient = opts.ForName[Provider, *http.Client]("httpClient")
)

// New creates the music provider from its configuration section.
func New(cfg config.Suno, options ...opts.Option[Provider]) *Provider {
	p := &Provider{
		// No client timeout: streams run as long as the track takes,
		// the request context bounds them instead.
		httpClient: &http.Client{},
		baseURL:    defaultBaseURL,
		apiKey:     cfg.APIKey,
	}
	if cfg.BaseURL != "" {
		p.baseURL = cfg.BaseURL
	}
	if err := opts.Apply(p, options); err != nil {
		panic(err)
	}
	return p
}

// Descriptor describes this adapter for registry registration.
func Descriptor(cfg config.Suno, options ...opts.Option[Provider]) provider.Descriptor {
	return provider.Descriptor{
		Name: "suno",
		Kind: content.Music,
		Capabilities: provider.Capabilities{
			Mode:     provider.Streaming,
			Vocals:   true,
			Realtime: true,
		},
		Provider: New(cfg, options...),
	}
}

type generateRequest struct {
	Prompt          string `json:"prompt"`
	Model           string `json:"model,omitempty"`
	Style           string `json:"style,omitempty"`
	DurationSeconds int    `json:"duration_seconds,omitempty"`
	Instrumental    bool   `json:"instrumental"`
	Realtime        bool   `json:"realtime,omitempty"`
}

func (p *Provider) Generate(ctx context.Context, inv provider.Invocation) (provider.Outcome, error) {
	if p.apiKey == "" {
		return nil, fault.New(fault.ConfigurationMissing, "suno api key is not configured")
	}

	body, err := json.Marshal(generateRequest{
		Prompt:          inv.Prompt,
		Model:           inv.Options.Model,
		Style:           inv.Options.Style,
		DurationSeconds: inv.Options.DurationSeconds,
		Instrumental:    !inv.Options.Vocals,
		Realtime:        inv.Options.Realtime,
	})
	if err != nil {
		return nil, fault.Wrap(fmt.Errorf("encode request: %w", err), fault.ProviderFailure)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+streamPath, bytes.NewReader(body))
	if err != nil {
		return nil, fault.Wrap(err, fault.ProviderFailure)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fault.Wrap(err, fault.TransientAPI)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, classify(resp)
	}

	mime := resp.Header.Get("Content-Type")
	if mime == "" {
		mime = "audio/mpeg"
	}

	chunks := make(chan provider.Chunk, 10)
	go pump(ctx, resp.Body, chunks)
	return provider.Stream{C: chunks, MIME: mime}, nil
}

// pump forwards body reads as chunks until EOF, a read error or an
// abandoned consumer.
func pump(ctx context.Context, body io.ReadCloser, chunks chan<- provider.Chunk) {
	defer close(chunks)
	defer body.Close()

	buf := make([]byte, readBufferSize)
	for {
		n, err := body.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			if !send(ctx, chunks, provider.Chunk{Data: data}) {
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				send(ctx, chunks, provider.Chunk{Err: err})
			}
			return
		}
	}
}

func send(ctx context.Context, chunks chan<- provider.Chunk, chunk provider.Chunk) bool {
	select {
	case chunks <- chunk:
		return true
	case <-ctx.Done():
		return false
	}
}

// classify maps API failures onto the taxonomy: 402/429 quota, 401/403
// configuration, 5xx transient, remaining 4xx provider reported.
func classify(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	message := gjson.GetBytes(body, "error.message").String()
	if message == "" {
		message = gjson.GetBytes(body, "detail").String()
	}
	if message == "" {
		message = resp.Status
	}
	err := fmt.Errorf("suno: %s", message)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusPaymentRequired:
		return fault.Wrap(err, fault.QuotaExceeded)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fault.Wrap(err, fault.ConfigurationMissing)
	case resp.StatusCode >= http.StatusInternalServerError:
		return fault.Wrap(err, fault.TransientAPI)
	default:
		return fault.Wrap(err, fault.ProviderFailure)
	}
}
