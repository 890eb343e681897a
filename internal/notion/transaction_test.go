package notion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

// captureTransactions returns a handler that decodes submitTransaction
// bodies into the given slice.
func captureTransactions(t *testing.T, captured *[]transactionRequest) http.HandlerFunc {
	t.Helper()

	return func(w http.ResponseWriter, r *http.Request) {
		var request transactionRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			t.Errorf("failed to decode transaction: %v", err)
		}
		*captured = append(*captured, request)
		_, _ = w.Write([]byte(`{}`))
	}
}

// opArgs asserts that an operation's args decoded as a JSON object.
func opArgs(t *testing.T, op operation) map[string]any {
	t.Helper()

	args, ok := op.Args.(map[string]any)
	if !ok {
		t.Fatalf("expected object args, got %T", op.Args)
	}
	return args
}

// TestClientCreateChild tests child page creation transactions.
func TestClientCreateChild(t *testing.T) {
	t.Parallel()

	const parentID = "aaaaaaaa-0000-0000-0000-000000000001"

	var captured []transactionRequest
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/submitTransaction", captureTransactions(t, &captured))
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(t, server)
	childID, err := client.CreateChild(context.Background(), parentID, "Getting Started")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uuid.Parse(childID); err != nil {
		t.Fatalf("expected a valid block ID, got %q", childID)
	}

	if len(captured) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(captured))
	}
	if len(captured[0].Transactions) != 1 {
		t.Fatalf("expected 1 transaction group, got %d", len(captured[0].Transactions))
	}

	ops := captured[0].Transactions[0].Operations
	if len(ops) != 4 {
		t.Fatalf("expected 4 operations, got %d", len(ops))
	}

	if ops[0].Command != commandSet || ops[0].ID != childID {
		t.Errorf("expected set on new block, got %+v", ops[0])
	}
	if args := opArgs(t, ops[0]); args["type"] != "page" {
		t.Errorf("expected page block, got %v", args["type"])
	}

	if ops[1].Command != commandUpdate || ops[1].ID != childID {
		t.Errorf("expected update on new block, got %+v", ops[1])
	}
	if args := opArgs(t, ops[1]); args["parent_id"] != parentID || args["alive"] != true {
		t.Errorf("unexpected parent args: %v", args)
	}

	if ops[2].Command != commandListAfter || ops[2].ID != parentID {
		t.Errorf("expected listAfter on parent, got %+v", ops[2])
	}
	if len(ops[2].Path) != 1 || ops[2].Path[0] != "content" {
		t.Errorf("expected content path, got %v", ops[2].Path)
	}
	if args := opArgs(t, ops[2]); args["id"] != childID {
		t.Errorf("expected child appended to parent content, got %v", args)
	}

	if ops[3].Command != commandSet || len(ops[3].Path) != 2 || ops[3].Path[1] != "title" {
		t.Errorf("expected title set, got %+v", ops[3])
	}
}

// TestClientSetTitle tests title replacement transactions.
func TestClientSetTitle(t *testing.T) {
	t.Parallel()

	const pageID = "aaaaaaaa-0000-0000-0000-000000000002"

	var captured []transactionRequest
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/submitTransaction", captureTransactions(t, &captured))
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(t, server)
	if err := client.SetTitle(context.Background(), pageID, "guide.md"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(captured) != 1 || len(captured[0].Transactions[0].Operations) != 1 {
		t.Fatal("expected exactly one title operation")
	}

	op := captured[0].Transactions[0].Operations[0]
	if op.ID != pageID || op.Command != commandSet {
		t.Errorf("unexpected operation: %+v", op)
	}
	if len(op.Path) != 2 || op.Path[0] != "properties" || op.Path[1] != "title" {
		t.Errorf("expected properties.title path, got %v", op.Path)
	}

	segments, ok := op.Args.([]any)
	if !ok || len(segments) != 1 {
		t.Fatalf("expected one title segment, got %v", op.Args)
	}
	segment, ok := segments[0].([]any)
	if !ok || len(segment) != 1 || segment[0] != "guide.md" {
		t.Errorf("expected title segment [guide.md], got %v", segments[0])
	}
}

// TestClientMove tests re-parenting transactions.
func TestClientMove(t *testing.T) {
	t.Parallel()

	const (
		pageID      = "aaaaaaaa-0000-0000-0000-000000000003"
		oldParentID = "aaaaaaaa-0000-0000-0000-000000000004"
		newParentID = "aaaaaaaa-0000-0000-0000-000000000005"
	)

	t.Run("detaches from old parent and prepends to new", func(t *testing.T) {
		t.Parallel()

		var captured []transactionRequest
		mux := http.NewServeMux()
		mux.HandleFunc("/api/v3/getRecordValues", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"results":[{"role":"editor","value":{"id":"` + pageID + `","parent_id":"` + oldParentID + `","parent_table":"block","alive":true}}]}`))
		})
		mux.HandleFunc("/api/v3/submitTransaction", captureTransactions(t, &captured))
		server := httptest.NewServer(mux)
		defer server.Close()

		client := newTestClient(t, server)
		if err := client.Move(context.Background(), pageID, newParentID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(captured) != 1 {
			t.Fatalf("expected 1 transaction, got %d", len(captured))
		}
		ops := captured[0].Transactions[0].Operations
		if len(ops) != 3 {
			t.Fatalf("expected 3 operations, got %d", len(ops))
		}

		if ops[0].Command != commandListRemove || ops[0].ID != oldParentID {
			t.Errorf("expected listRemove on old parent, got %+v", ops[0])
		}
		if args := opArgs(t, ops[0]); args["id"] != pageID {
			t.Errorf("expected page removed from old parent, got %v", args)
		}

		if ops[1].Command != commandUpdate || ops[1].ID != pageID {
			t.Errorf("expected update on page, got %+v", ops[1])
		}
		if args := opArgs(t, ops[1]); args["parent_id"] != newParentID {
			t.Errorf("expected new parent recorded, got %v", args)
		}

		if ops[2].Command != commandListBefore || ops[2].ID != newParentID {
			t.Errorf("expected listBefore on new parent, got %+v", ops[2])
		}
		if args := opArgs(t, ops[2]); args["id"] != pageID {
			t.Errorf("expected page prepended to new parent, got %v", args)
		}
	})

	t.Run("missing page fails before any transaction", func(t *testing.T) {
		t.Parallel()

		var captured []transactionRequest
		mux := http.NewServeMux()
		mux.HandleFunc("/api/v3/getRecordValues", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"results":[]}`))
		})
		mux.HandleFunc("/api/v3/submitTransaction", captureTransactions(t, &captured))
		server := httptest.NewServer(mux)
		defer server.Close()

		client := newTestClient(t, server)
		if err := client.Move(context.Background(), pageID, newParentID); err == nil {
			t.Fatal("expected error, got nil")
		}
		if len(captured) != 0 {
			t.Errorf("expected no transactions, got %d", len(captured))
		}
	})
}
