package events

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// ToJSON serializes event for a wire transport.
func ToJSON(event Event) ([]byte, error) {
	switch event := event.(type) {
	case Requested:
		return event.MarshalJSON()
	case Chunk:
		return event.MarshalJSON()
	case JobUpdate:
		return event.MarshalJSON()
	case Completed:
		return event.MarshalJSON()
	case Failed:
		return event.MarshalJSON()
	default:
		return nil, fmt.Errorf("unknown event type %T", event)
	}
}

// FromJSON reconstructs the event serialized by ToJSON, dispatching on the
// embedded type marker.
func FromJSON(data []byte) (Event, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid json: %s", data)
	}

	switch kind := gjson.GetBytes(data, "type").String(); kind {
	case "requested":
		var e Requested
		if err := e.UnmarshalJSON(data); err != nil {
			return nil, err
		}
		return e, nil
	case "chunk":
		var e Chunk
		if err := e.UnmarshalJSON(data); err != nil {
			return nil, err
		}
		return e, nil
	case "job_update":
		var e JobUpdate
		if err := e.UnmarshalJSON(data); err != nil {
			return nil, err
		}
		return e, nil
	case "completed":
		var e Completed
		if err := e.UnmarshalJSON(data); err != nil {
			return nil, err
		}
		return e, nil
	case "failed":
		var e Failed
		if err := e.UnmarshalJSON(data); err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", kind)
	}
}
