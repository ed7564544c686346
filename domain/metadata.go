package domain

import (
	"github.com/bazaarx/goclient/base/ctx"
)

// Metadata is the descriptive payload behind a token uri
type Metadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// MetadataResolver fetches and decodes metadata for an opaque locator.
// Fallible, no retry mandated.
type MetadataResolver interface {
	Resolve(ctx.Ctx, string) (*Metadata, error)
}

type WebResourceReaderRepository interface {
	Get(ctx.Ctx, string) ([]byte, error)
}
