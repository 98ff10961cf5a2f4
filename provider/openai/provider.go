package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/casualjim/muse/config"
	"github.com/casualjim/muse/content"
	"github.com/casualjim/muse/fault"
	"github.com/casualjim/muse/provider"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const defaultModel = openai.ImageModelDallE3

type Provider struct {
	client *openai.Client
	apiKey string
}

// New creates the image provider from its configuration section. Extra
// request options are passed through to the SDK client.
func New(cfg config.OpenAI, options ...option.RequestOption) *Provider {
	reqOpts := make([]option.RequestOption, 0, len(options)+2)
	if cfg.APIKey != "" {
		reqOpts = append(reqOpts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.BaseURL))
	}
	reqOpts = append(reqOpts, options...)
	return &Provider{
		client: openai.NewClient(reqOpts...),
		apiKey: cfg.APIKey,
	}
}

// Descriptor describes this adapter for registry registration.
func Descriptor(cfg config.OpenAI, options ...option.RequestOption) provider.Descriptor {
	return provider.Descriptor{
		Name:         "openai",
		Kind:         content.Image,
		Capabilities: provider.Capabilities{Mode: provider.Direct},
		Provider:     New(cfg, options...),
	}
}

func (p *Provider) Generate(ctx context.Context, inv provider.Invocation) (provider.Outcome, error) {
	if p.apiKey == "" {
		return nil, fault.New(fault.ConfigurationMissing, "openai api key is not configured")
	}

	img, err := p.client.Images.Generate(ctx, buildRequest(&inv))
	if err != nil {
		return nil, classify(err)
	}
	if len(img.Data) == 0 {
		return nil, fault.New(fault.ProviderFailure, "image response contained no data")
	}

	raw, err := base64.StdEncoding.DecodeString(img.Data[0].B64JSON)
	if err != nil {
		return nil, fault.Wrap(fmt.Errorf("decode image payload: %w", err), fault.ProviderFailure)
	}

	return provider.Blob{
		Data: raw,
		MIME: "image/png",
		Meta: metadata(&img.Data[0]),
	}, nil
}

func buildRequest(inv *provider.Invocation) openai.ImageGenerateParams {
	model := defaultModel
	if inv.Options.Model != "" {
		model = openai.ImageModel(inv.Options.Model)
	}

	prompt := inv.Prompt
	params := openai.ImageGenerateParams{
		Model:          openai.F(model),
		N:              openai.Int(1),
		ResponseFormat: openai.F(openai.ImageGenerateParamsResponseFormatB64JSON),
		Size:           openai.F(sizeFor(inv.Options.AspectRatio)),
	}

	switch inv.Options.Style {
	case "":
	case "vivid":
		params.Style = openai.F(openai.ImageGenerateParamsStyleVivid)
	case "natural":
		params.Style = openai.F(openai.ImageGenerateParamsStyleNatural)
	default:
		prompt = fmt.Sprintf("%s, in the style of %s", prompt, inv.Options.Style)
	}
	params.Prompt = openai.String(prompt)

	return params
}

func sizeFor(aspectRatio string) openai.ImageGenerateParamsSize {
	switch aspectRatio {
	case "16:9":
		return openai.ImageGenerateParamsSize1792x1024
	case "9:16":
		return openai.ImageGenerateParamsSize1024x1792
	default:
		return openai.ImageGenerateParamsSize1024x1024
	}
}

// classify maps API failures onto the taxonomy: 402/429 quota, 401/403
// configuration, 5xx transient, remaining 4xx provider reported. Transport
// level errors count as transient.
func classify(err error) error {
	var apierr *openai.Error
	if !errors.As(err, &apierr) {
		return fault.Wrap(err, fault.TransientAPI)
	}
	switch {
	case apierr.StatusCode == http.StatusTooManyRequests || apierr.StatusCode == http.StatusPaymentRequired:
		return fault.Wrap(err, fault.QuotaExceeded)
	case apierr.StatusCode == http.StatusUnauthorized || apierr.StatusCode == http.StatusForbidden:
		return fault.Wrap(err, fault.ConfigurationMissing)
	case apierr.StatusCode >= http.StatusInternalServerError:
		return fault.Wrap(err, fault.TransientAPI)
	default:
		return fault.Wrap(err, fault.ProviderFailure)
	}
}

func metadata(img *openai.Image) gjson.Result {
	meta := []byte(`{}`)
	if img.RevisedPrompt != "" {
		meta, _ = sjson.SetBytes(meta, "revised_prompt", img.RevisedPrompt)
	}
	return gjson.ParseBytes(meta)
}
