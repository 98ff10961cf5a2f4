// Package provider implements an abstraction layer for interacting with media
// generation backends (like OpenAI images, Suno, Google Veo) in a consistent
// way. It defines the capability contract providers declare, the sealed outcome
// union they produce, and the process wide registry that maps a (content kind,
// name) pair to a registered provider.
//
// Design decisions:
//   - Provider abstraction: a single one-method interface every backend adapter
//     implements, regardless of how the backend completes work
//   - Capability typed: each provider declares exactly one completion mode
//     (direct, streaming, polling) plus optional feature flags; the declaration
//     is validated once at registration so malformed providers fail at startup
//   - Sealed outcomes: Blob, Stream and Pending are the only Outcome variants;
//     the orchestrator consumes them by declared mode and they never cross the
//     public boundary
//   - Fail fast registration: duplicate (kind, name) registration is a
//     programming error surfaced loudly, never silently tolerated
//   - Ordered discovery: listing providers preserves registration order so CLI
//     help output is stable
//
// Key concepts:
//   - Provider: the contract for one backend adapter, fixed to one content kind
//   - Capabilities: the declared completion mode and optional feature flags
//   - Descriptor: the registry entry binding name, kind, capabilities and
//     implementation together
//   - Outcome: the raw provider result (complete blob, chunk stream, or a
//     pending job handle)
//   - Job: an asynchronous unit of backend work tracked by id and status until
//     it reaches a terminal state
//
// Example usage:
//
//	err := provider.Register(provider.Descriptor{
//	    Name: "veo",
//	    Kind: content.Video,
//	    Capabilities: provider.Capabilities{
//	        Mode:           provider.Polling,
//	        ReferenceInput: true,
//	    },
//	    Provider: veo.New(settings.Google),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	desc, err := provider.Resolve(content.Video, "veo")
//	if err != nil {
//	    // fault.ProviderNotFound
//	}
//
//	outcome, err := desc.Provider.Generate(ctx, provider.Invocation{
//	    RunID:  uuidx.New(),
//	    Prompt: "a lighthouse in a storm",
//	})
//
// New backends are added by implementing the Provider interface and registering
// a Descriptor during program initialization; the orchestration layer picks the
// completion strategy from the declared capabilities.
package provider
