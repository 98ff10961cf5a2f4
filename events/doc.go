// Package events defines the progress events a generation run emits,
// together with the hook interface subscribers implement and a JSON codec
// for carrying events over a wire transport.
//
// Design decisions:
//   - Sealed union: Requested, Chunk, JobUpdate, Completed and Failed are
//     the only event variants, dispatch is an exhaustive type switch
//   - Rich metadata: every event carries the run id, the provider name and
//     a timestamp
//   - No artifact data: Chunk and Completed report sizes and locations,
//     never the generated bytes themselves, so events stay cheap to fan out
//   - Efficient JSON: custom marshaling with pre-allocated type markers
//   - Stable failure codes: Failed carries the fault code so subscribers
//     can branch without string matching
//
// Event hierarchy:
//   - Event: base interface for all progress events
//     ├── Requested: a generation run was accepted and dispatched
//     ├── Chunk: one streamed fragment arrived (index and size only)
//     ├── JobUpdate: a polled job changed or reported its state
//     ├── Completed: the run produced an artifact
//     └── Failed: the run resolved to a failure
//
// Example usage:
//
//	event, err := events.FromJSON(data)
//	if err != nil {
//	    return err
//	}
//	switch e := event.(type) {
//	case events.Completed:
//	    fmt.Printf("%s produced %d bytes\n", e.Provider, e.Size)
//	case events.Failed:
//	    fmt.Printf("%s failed: %s\n", e.Provider, e.Code)
//	}
//
// Subscribers implement Hook; the pubsub package delivers published events
// to every hook subscribed to the run's topic.
package events
