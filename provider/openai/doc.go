/*
Package openai implements the provider.Provider interface for OpenAI's
image models. It is a direct completion provider: one API call, one blob
back, no intermediate job state.

# Design Decisions

  - Direct completion: the Images API is synchronous, so the adapter
    declares Direct and returns a provider.Blob
  - Base64 transport: responses are requested as b64_json so the artifact
    bytes never require a second download round trip
  - Lazy credential check: a missing API key fails the call with
    configuration_missing, it does not prevent construction or registration
  - Status mapping: API errors are classified by HTTP status, documented on
    classify

# Configuration

The adapter receives its config.OpenAI section and accepts extra request
options from the underlying SDK:

	img := openai.New(settings.OpenAI,
		option.WithTimeout(30*time.Second),
	)

# Options

Recognized generation options:

  - Model: image model name, defaults to dall-e-3
  - AspectRatio: 1:1, 16:9 or 9:16, translated to the API's size values
  - Style: vivid and natural map to the API style parameter, anything else
    is folded into the prompt

For registration the package provides a ready Descriptor:

	_ = provider.Register(openai.Descriptor(settings.OpenAI))
*/
package openai
