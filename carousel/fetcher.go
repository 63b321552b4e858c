package carousel

import (
	"context"
	"log/slog"
)

// DefaultPerPage is the number of images requested per mount.
const DefaultPerPage = 10

// Source lists one page of images from a photo provider.
type Source interface {
	ListImages(ctx context.Context, perPage int) ([]ImageRecord, error)
}

// Fetcher produces the image list for a mount. Implementations never fail;
// any problem degrades to an empty list.
type Fetcher interface {
	FetchImages(ctx context.Context) []ImageRecord
}

// SourceFetcher adapts a Source into a Fetcher, logging and absorbing errors.
type SourceFetcher struct {
	source  Source
	perPage int
}

func NewSourceFetcher(source Source, perPage int) *SourceFetcher {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	return &SourceFetcher{
		source:  source,
		perPage: perPage,
	}
}

// FetchImages makes exactly one call to the source. Errors are logged and
// turned into an empty list.
func (f *SourceFetcher) FetchImages(ctx context.Context) []ImageRecord {
	images, err := f.source.ListImages(ctx, f.perPage)
	if err != nil {
		slog.Error("error fetching images", "error", err)
		return []ImageRecord{}
	}
	if images == nil {
		return []ImageRecord{}
	}
	slog.Info("fetched images", "count", len(images))
	return images
}

// FetcherFunc lets a plain function act as a Fetcher.
type FetcherFunc func(ctx context.Context) []ImageRecord

func (f FetcherFunc) FetchImages(ctx context.Context) []ImageRecord {
	return f(ctx)
}
