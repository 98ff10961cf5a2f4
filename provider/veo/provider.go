package veo

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"

	"github.com/casualjim/muse/config"
	"github.com/casualjim/muse/content"
	"github.com/casualjim/muse/fault"
	"github.com/casualjim/muse/provider"
	"github.com/fogfish/opts"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "veo-3.0-generate-001"
	fastModel      = "veo-3.0-fast-generate-001"

	defaultAspectRatio     = "16:9"
	defaultDurationSeconds = 5
	maxDurationSeconds     = 8

	// Inline image limit of the generativelanguage API.
	maxReferenceBytes = 20 << 20
)

// Provider generates video through the Veo long-running operations API.
type Provider struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// WithHTTPClient replaces the HTTP client used for API calls, reference
// image fetches and video downloads.
var WithHTTPClient = opts.ForName[Provider, *http.Client]("httpClient")

// New builds a Veo provider from the google config section.
func New(cfg config.Google, options ...opts.Option[Provider]) *Provider {
	p := &Provider{
		httpClient: http.DefaultClient,
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

// Descriptor returns the registry entry for this provider.
func Descriptor(cfg config.Google, options ...opts.Option[Provider]) provider.Descriptor {
	return provider.Descriptor{
		Name: "veo",
		Kind: content.Video,
		Capabilities: provider.Capabilities{
			Mode:           provider.Polling,
			ReferenceInput: true,
		},
		Provider: New(cfg, options...),
	}
}

// Generate submits a long-running video generation and returns the pending
// job that tracks it.
func (p *Provider) Generate(ctx context.Context, inv provider.Invocation) (provider.Outcome, error) {
	if p.apiKey == "" {
		return nil, fault.New(fault.ConfigurationMissing, "google api key is not configured")
	}

	model := modelFor(inv.Options.Model)
	aspect := inv.Options.AspectRatio
	if aspect == "" {
		aspect = defaultAspectRatio
	}

	body, err := p.buildRequest(ctx, &inv, aspect)
	if err != nil {
		return nil, err
	}

	resp, err := p.post(ctx, fmt.Sprintf("%s/v1beta/models/%s:predictLongRunning", p.baseURL, model), body)
	if err != nil {
		return nil, fault.Wrap(err, fault.TransientAPI)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, classify(resp)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fault.Wrap(err, fault.TransientAPI)
	}
	name := gjson.GetBytes(payload, "name").String()
	if name == "" {
		return nil, fault.New(fault.ProviderFailure, "operation name missing from response")
	}

	return provider.Pending{Job: &job{
		p:      p,
		name:   name,
		model:  model,
		aspect: aspect,
	}}, nil
}

// modelFor resolves the model option: empty selects the default, the
// shorthand "fast" selects the fast variant, anything else is a full id.
func modelFor(model string) string {
	switch model {
	case "":
		return defaultModel
	case "fast":
		return fastModel
	default:
		return model
	}
}

func (p *Provider) buildRequest(ctx context.Context, inv *provider.Invocation, aspect string) ([]byte, error) {
	duration := inv.Options.DurationSeconds
	if duration <= 0 {
		duration = defaultDurationSeconds
	}
	if duration > maxDurationSeconds {
		duration = maxDurationSeconds
	}

	body := []byte(`{}`)
	body, _ = sjson.SetBytes(body, "instances.0.prompt", inv.Prompt)
	if ref := inv.Options.ReferenceURL; ref != "" {
		img, err := p.fetchReference(ctx, ref)
		if err != nil {
			return nil, err
		}
		body, _ = sjson.SetBytes(body, "instances.0.image.bytesBase64Encoded", base64.StdEncoding.EncodeToString(img))
		body, _ = sjson.SetBytes(body, "instances.0.image.mimeType", http.DetectContentType(img))
	}
	body, _ = sjson.SetBytes(body, "parameters.aspectRatio", aspect)
	body, _ = sjson.SetBytes(body, "parameters.durationSeconds", duration)
	body, _ = sjson.SetBytes(body, "parameters.numberOfVideos", 1)
	body, _ = sjson.SetBytes(body, "parameters.personGeneration", "allow_adult")
	return body, nil
}

// fetchReference downloads the first frame image for image-to-video.
func (p *Provider) fetchReference(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fault.Wrap(fmt.Errorf("reference image url: %w", err), fault.ProviderFailure)
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fault.Wrap(fmt.Errorf("fetch reference image: %w", err), fault.TransientAPI)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fault.Newf(fault.ProviderFailure, "reference image fetch returned %s", resp.Status)
	}
	img, err := io.ReadAll(io.LimitReader(resp.Body, maxReferenceBytes))
	if err != nil {
		return nil, fault.Wrap(fmt.Errorf("fetch reference image: %w", err), fault.TransientAPI)
	}
	return img, nil
}

func (p *Provider) post(ctx context.Context, url string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", p.apiKey)
	return p.httpClient.Do(req)
}

func (p *Provider) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-goog-api-key", p.apiKey)
	return p.httpClient.Do(req)
}

// job tracks one Veo long-running operation.
type job struct {
	p      *Provider
	name   string
	model  string
	aspect string

	// uri is recorded when Status observes the operation succeed.
	uri string
}

func (j *job) ID() string { return j.name }

// Status reads the operation resource. The operations API only exposes a
// done flag, so an unfinished operation always reports JobRunning.
func (j *job) Status(ctx context.Context) (provider.JobStatus, error) {
	resp, err := j.p.get(ctx, fmt.Sprintf("%s/v1beta/%s", j.p.baseURL, j.name))
	if err != nil {
		return provider.JobStatus{}, fault.Wrap(err, fault.TransientAPI)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return provider.JobStatus{}, classify(resp)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return provider.JobStatus{}, fault.Wrap(err, fault.TransientAPI)
	}

	if !gjson.GetBytes(payload, "done").Bool() {
		return provider.JobStatus{State: provider.JobRunning}, nil
	}
	if opErr := gjson.GetBytes(payload, "error"); opErr.Exists() {
		return provider.JobStatus{State: provider.JobFailed, Reason: operationFailure(opErr)}, nil
	}

	uri := gjson.GetBytes(payload, "response.generateVideoResponse.generatedSamples.0.video.uri").String()
	if uri == "" {
		return provider.JobStatus{State: provider.JobFailed, Reason: "no video generated"}, nil
	}
	j.uri = uri
	return provider.JobStatus{State: provider.JobSucceeded}, nil
}

// Fetch downloads the finished video from the URI the operation reported.
func (j *job) Fetch(ctx context.Context) (provider.Blob, error) {
	if j.uri == "" {
		return provider.Blob{}, fault.New(fault.ProviderFailure, "no video uri recorded for this operation")
	}
	resp, err := j.p.get(ctx, j.uri)
	if err != nil {
		return provider.Blob{}, fault.Wrap(err, fault.TransientAPI)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return provider.Blob{}, classify(resp)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return provider.Blob{}, fault.Wrap(err, fault.TransientAPI)
	}
	return provider.Blob{
		Data:     data,
		MIME:     "video/mp4",
		Location: j.uri,
		Meta:     j.metadata(),
	}, nil
}

// Cancel asks Google to abandon the operation. The backend may still
// finish the generation.
func (j *job) Cancel(ctx context.Context) error {
	resp, err := j.p.post(ctx, fmt.Sprintf("%s/v1beta/%s:cancel", j.p.baseURL, j.name), []byte(`{}`))
	if err != nil {
		return fault.Wrap(err, fault.TransientAPI)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return classify(resp)
	}
	return nil
}

func (j *job) metadata() gjson.Result {
	meta := []byte(`{}`)
	meta, _ = sjson.SetBytes(meta, "model", j.model)
	meta, _ = sjson.SetBytes(meta, "aspect_ratio", j.aspect)
	meta, _ = sjson.SetBytes(meta, "operation", j.name)
	return gjson.ParseBytes(meta)
}

func operationFailure(opErr gjson.Result) string {
	if msg := opErr.Get("message").String(); msg != "" {
		return msg
	}
	if status := opErr.Get("status").String(); status != "" {
		return status
	}
	return "operation failed"
}

// classify maps an API error response onto the taxonomy: 402/429 quota,
// 401/403 configuration, 5xx transient, remaining 4xx provider reported.
// A RESOURCE_EXHAUSTED status in the body wins over the HTTP code.
func classify(resp *http.Response) error {
	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	status := gjson.GetBytes(payload, "error.status").String()
	message := gjson.GetBytes(payload, "error.message").String()
	if message == "" {
		message = resp.Status
	}
	err := fmt.Errorf("veo: %s", message)

	switch {
	case status == "RESOURCE_EXHAUSTED",
		resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode == http.StatusPaymentRequired:
		return fault.Wrap(err, fault.QuotaExceeded)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fault.Wrap(err, fault.ConfigurationMissing)
	case resp.StatusCode >= http.StatusInternalServerError:
		return fault.Wrap(err, fault.TransientAPI)
	default:
		return fault.Wrap(err, fault.ProviderFailure)
	}
}
