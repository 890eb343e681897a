package sync

import "context"

// Workspace is the remote page store the driver mutates. Handles are opaque
// page identifiers owned by the implementation; the driver only stores and
// echoes them. *notion.Client implements this interface, and driver tests
// substitute a recording fake.
type Workspace interface {
	// Resolve turns a browseable page URL into a page handle.
	Resolve(ctx context.Context, pageURL string) (string, error)

	// CreateChild creates an empty child page under the parent and
	// returns the new page's handle.
	CreateChild(ctx context.Context, parentHandle, title string) (string, error)

	// ImportContent replaces the page's body with markdown content. The
	// name should carry the source file's extension.
	ImportContent(ctx context.Context, handle, name string, content []byte) error

	// SetTitle replaces the page's title.
	SetTitle(ctx context.Context, handle, title string) error

	// Move re-parents the page as the first child of the new parent.
	Move(ctx context.Context, handle, newParentHandle string) error

	// BrowseableURL returns the page's browser address. Pure, no network.
	BrowseableURL(handle string) string
}
