// Package notion implements a client for the Notion v3 RPC API.
//
// # Architecture
//
// The package is designed around the Client type, which authenticates with a
// token_v2 session token and exposes the small set of workspace operations the
// exporter needs: resolving a page URL to its block ID, creating child pages,
// importing markdown content, retitling, and re-parenting.
//
// Design decision: We talk to the v3 RPC endpoints directly rather than the
// public integration API because:
//  1. Markdown import (getUploadFileUrl + enqueueTask) only exists on v3
//  2. Block moves with positional placement are a single transaction on v3
//  3. A token_v2 session token works on any page the user can browse,
//     without per-page integration sharing
//
// # Components
//
//   - Client: authenticated RPC caller with retry-free, context-aware methods
//   - transactions: submitTransaction operation builders for create/move/title
//   - importer: upload-and-enqueue flow that replaces a page's content
//
// # Usage
//
//	client, err := notion.NewClient(token, notion.WithImportTimeout(90*time.Second))
//	if err != nil {
//		return err
//	}
//	id, err := client.Resolve(ctx, "https://www.notion.so/acme/Home-0123...")
//
// The package is designed to be used with dependency injection - create a
// Client and pass it to components that need workspace access rather than
// using global state.
package notion
