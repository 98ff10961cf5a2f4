/*
Package veo implements the provider.Provider interface for Google's Veo
video models. It is a polling completion provider: generation runs as a
long-running operation on Google's side, so Generate submits the request
and hands back a provider.Pending job for the polling engine to drive.

# Design Decisions

  - Polling completion: predictLongRunning returns an operation name, the
    job polls that operation until done and downloads the video by URI
  - Raw REST: there is no Veo SDK to lean on, requests are built with sjson
    and responses read with gjson against the generativelanguage API
  - Quota detection by status string: RESOURCE_EXHAUSTED in an error body
    maps to quota_exceeded regardless of the HTTP status code
  - Lazy credential check: a missing API key fails the call with
    configuration_missing, it does not prevent construction or registration
  - Best-effort cancel: Cancel posts to the operation's :cancel endpoint,
    Google may still finish the generation

# Options

Recognized generation options:

  - Model: full model id, or the shorthand "fast" for the fast variant
  - AspectRatio: passed through, defaults to 16:9
  - DurationSeconds: defaults to 5, clamped to the 8 second model limit
  - ReferenceURL: fetched and submitted as the first frame (image-to-video)

For registration the package provides a ready Descriptor:

	_ = provider.Register(veo.Descriptor(settings.Google))
*/
package veo
