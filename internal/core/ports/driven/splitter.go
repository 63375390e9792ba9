package driven

import "context"

// PageSplitter turns a multi-page document into single-page artifacts.
type PageSplitter interface {
	// Split writes one document per page into a fresh directory scoped to the
	// input's base name, wiping any previous contents, and returns a map from
	// zero-based page index to the written artifact path.
	//
	// Returns a KindNotFound error if inputPath does not exist and a
	// KindCorruptInput error if the document cannot be parsed.
	Split(ctx context.Context, inputPath string) (map[int]string, error)
}

// PageInspector reads document metadata without splitting it.
type PageInspector interface {
	// PageCount returns the number of pages in the document.
	PageCount(content []byte) (int, error)
}
