// Package content defines the kinds of generated media the orchestration
// layer can produce. The set is fixed at compile time; providers register
// for exactly one kind.
package content

// Kind tags a generation request and its provider with the media type
// being produced.
type Kind string

const (
	Music Kind = "music"
	Video Kind = "video"
	Image Kind = "image"
)

// Kinds returns every known content kind. The result is a fresh slice,
// callers may mutate it freely.
func Kinds() []Kind {
	return []Kind{Music, Video, Image}
}

// Valid reports whether k is one of the known content kinds.
func (k Kind) Valid() bool {
	switch k {
	case Music, Video, Image:
		return true
	default:
		return false
	}
}

func (k Kind) String() string {
	return string(k)
}
