package extraction

import (
	"context"
	"fmt"
	"os"
)

// Extractor turns a stored document into a structured payload.
type Extractor interface {
	Extract(ctx context.Context, storagePath string) (*Payload, error)
}

// SidecarExtractor reads the payload written by an external parser as
// a ".extraction.json" sidecar next to the stored document.
type SidecarExtractor struct{}

var _ Extractor = SidecarExtractor{}

// SidecarPath returns the sidecar location for a stored document.
func SidecarPath(storagePath string) string {
	return storagePath + ".extraction.json"
}

func (SidecarExtractor) Extract(_ context.Context, storagePath string) (*Payload, error) {
	data, err := os.ReadFile(SidecarPath(storagePath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no extraction payload found for %s", storagePath)
		}
		return nil, fmt.Errorf("failed to read extraction payload: %w", err)
	}
	return ParsePayload(data)
}
