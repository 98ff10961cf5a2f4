/*
Package suno implements the provider.Provider interface for the Suno music
API. It is a streaming completion provider: the backend writes the audio as
a chunked response body and the adapter forwards each read as an ordered
provider.Chunk.

# Design Decisions

  - Streaming first: audio arrives while it is generated, the adapter never
    buffers the whole track
  - Chunk ownership: every chunk carries its own copy of the bytes, the
    read buffer is reused
  - Lazy credential check: a missing API key fails the call with
    configuration_missing, never the construction
  - Error bodies are JSON: classification reads the message with gjson and
    maps the HTTP status onto the taxonomy

# Options

Recognized generation options:

  - Model, Style, DurationSeconds: passed through in the request body
  - Vocals: the API flag is inverted, instrumental=true when no vocals
  - Realtime: requests delivery paced for live playback

Registration:

	_ = provider.Register(suno.Descriptor(settings.Suno))
*/
package suno
