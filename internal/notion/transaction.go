package notion

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Record tables and operation commands used by submitTransaction.
const (
	tableBlock = "block"

	commandSet        = "set"
	commandUpdate     = "update"
	commandListAfter  = "listAfter"
	commandListBefore = "listBefore"
	commandListRemove = "listRemove"
)

// operation is a single mutation inside a submitTransaction call.
//
// Path must encode as an empty JSON list rather than null when the
// operation targets the record root, so builders always allocate it.
type operation struct {
	ID      string   `json:"id"`
	Table   string   `json:"table"`
	Path    []string `json:"path"`
	Command string   `json:"command"`
	Args    any      `json:"args"`
}

// transactionRequest is the submitTransaction request body.
type transactionRequest struct {
	RequestID    string        `json:"requestId"`
	Transactions []transaction `json:"transactions"`
}

// transaction groups operations that are applied atomically.
type transaction struct {
	ID         string      `json:"id"`
	Operations []operation `json:"operations"`
}

// submitTransaction applies the operations as one atomic transaction.
func (c *Client) submitTransaction(ctx context.Context, ops []operation) error {
	request := transactionRequest{
		RequestID: uuid.NewString(),
		Transactions: []transaction{
			{ID: uuid.NewString(), Operations: ops},
		},
	}
	return c.post(ctx, "submitTransaction", request, nil)
}

// titleOperation sets a page's title property. Titles are stored as segment
// lists; a plain string is a single segment.
func titleOperation(id, title string) operation {
	return operation{
		ID:      id,
		Table:   tableBlock,
		Path:    []string{"properties", "title"},
		Command: commandSet,
		Args:    [][]string{{title}},
	}
}

// CreateChild creates an empty page under the given parent and returns the
// new page's block ID.
//
// The page is appended at the end of the parent's content list. Hierarchy
// placement is corrected later by Move, after all pages exist.
func (c *Client) CreateChild(ctx context.Context, parentID, title string) (string, error) {
	childID := uuid.NewString()

	ops := []operation{
		{
			ID:      childID,
			Table:   tableBlock,
			Path:    []string{},
			Command: commandSet,
			Args: map[string]any{
				"id":      childID,
				"type":    "page",
				"version": 1,
			},
		},
		{
			ID:      childID,
			Table:   tableBlock,
			Path:    []string{},
			Command: commandUpdate,
			Args: map[string]any{
				"parent_id":    parentID,
				"parent_table": tableBlock,
				"alive":        true,
			},
		},
		{
			ID:      parentID,
			Table:   tableBlock,
			Path:    []string{"content"},
			Command: commandListAfter,
			Args:    map[string]any{"id": childID},
		},
		titleOperation(childID, title),
	}

	if err := c.submitTransaction(ctx, ops); err != nil {
		return "", fmt.Errorf("failed to create page %q under %s: %w", title, parentID, err)
	}

	c.logger.DebugContext(ctx, "created page", "id", childID, "parent", parentID, "title", title)
	return childID, nil
}

// SetTitle replaces the page's title. Content imports overwrite the title
// with the source file's first heading, so callers reassert it afterwards.
func (c *Client) SetTitle(ctx context.Context, id, title string) error {
	if err := c.submitTransaction(ctx, []operation{titleOperation(id, title)}); err != nil {
		return fmt.Errorf("failed to set title of %s: %w", id, err)
	}
	return nil
}

// Move re-parents the page as the first child of newParentID.
//
// The current parent is looked up first because detaching requires a
// listRemove against the old parent's content list. listBefore with no
// anchor prepends, which yields first-child placement.
func (c *Client) Move(ctx context.Context, id, newParentID string) error {
	record, err := c.getRecord(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to look up current parent of %s: %w", id, err)
	}

	ops := []operation{
		{
			ID:      record.ParentID,
			Table:   record.ParentTable,
			Path:    []string{"content"},
			Command: commandListRemove,
			Args:    map[string]any{"id": id},
		},
		{
			ID:      id,
			Table:   tableBlock,
			Path:    []string{},
			Command: commandUpdate,
			Args: map[string]any{
				"parent_id":    newParentID,
				"parent_table": tableBlock,
				"alive":        true,
			},
		},
		{
			ID:      newParentID,
			Table:   tableBlock,
			Path:    []string{"content"},
			Command: commandListBefore,
			Args:    map[string]any{"id": id},
		},
	}

	if err := c.submitTransaction(ctx, ops); err != nil {
		return fmt.Errorf("failed to move %s under %s: %w", id, newParentID, err)
	}

	c.logger.DebugContext(ctx, "moved page", "id", id, "from", record.ParentID, "to", newParentID)
	return nil
}
