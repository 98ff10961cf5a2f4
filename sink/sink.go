// Package sink persists finished artifacts to disk. The orchestration core
// never calls it; binaries hand it the Result after a successful run.
package sink

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/casualjim/muse"
	"github.com/google/renameio/v2"
)

// Write stores the result's bytes under dir and returns the artifact path.
// The filename combines provider and timestamp, e.g. veo_20250102_150405.mp4.
// Results that carry only a remote location are reported as-is, nothing is
// downloaded. Writes are atomic, a crash never leaves a partial artifact.
func Write(dir string, res muse.Result) (string, error) {
	if !res.Success() {
		return "", errors.New("result carries no artifact")
	}

	payload := res.Payload
	if len(payload.Data) == 0 {
		if payload.Location != "" {
			return payload.Location, nil
		}
		return "", errors.New("result carries neither bytes nor a location")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create artifact dir: %w", err)
	}

	name := fmt.Sprintf("%s_%s%s", res.Provider, time.Now().Format("20060102_150405"), extensionFor(payload.MIME))
	path := filepath.Join(dir, name)
	if err := renameio.WriteFile(path, payload.Data, 0o644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	return path, nil
}

func extensionFor(mime string) string {
	switch mime {
	case "audio/mpeg":
		return ".mp3"
	case "audio/wav", "audio/x-wav":
		return ".wav"
	case "audio/ogg":
		return ".ogg"
	case "video/mp4":
		return ".mp4"
	case "video/webm":
		return ".webm"
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".bin"
	}
}
