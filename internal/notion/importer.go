package notion

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// importContentType is the MIME type used for uploaded markdown files.
const importContentType = "text/markdown"

// Task states reported by getTasks. Anything else means the task is still
// queued or running.
const (
	taskStateSuccess = "success"
	taskStateFailure = "failure"
)

// uploadTarget is the getUploadFileUrl response: a URL the import task
// reads from and a pre-signed URL the client uploads to.
type uploadTarget struct {
	URL          string `json:"url"`
	SignedPutURL string `json:"signedPutUrl"`
}

// ImportContent replaces the page's body with the given markdown content.
//
// The flow mirrors the web client's file import: request a signed upload
// target, PUT the bytes there, enqueue an importFile task pointed at the
// page, and poll the task until it reaches a terminal state. The name
// should carry a .md extension because the importer picks its parser from
// it. ReplaceBlock keeps the page block itself and swaps its children.
func (c *Client) ImportContent(ctx context.Context, id, name string, content []byte) error {
	started := time.Now()

	target, err := c.requestUploadTarget(ctx, name)
	if err != nil {
		return err
	}
	if err := c.uploadFile(ctx, target.SignedPutURL, content); err != nil {
		return err
	}

	taskID, err := c.enqueueImport(ctx, id, name, target.URL)
	if err != nil {
		return err
	}
	if err := c.awaitImport(ctx, id, taskID); err != nil {
		return err
	}

	c.logger.DebugContext(ctx, "imported content",
		"page", id,
		"name", name,
		"bytes", len(content),
		"elapsed", time.Since(started))
	return nil
}

// requestUploadTarget asks the API for a temporary upload location.
func (c *Client) requestUploadTarget(ctx context.Context, name string) (*uploadTarget, error) {
	request := map[string]string{
		"bucket":      "temporary",
		"name":        name,
		"contentType": importContentType,
	}

	var target uploadTarget
	if err := c.post(ctx, "getUploadFileUrl", request, &target); err != nil {
		return nil, err
	}
	if target.URL == "" || target.SignedPutURL == "" {
		return nil, fmt.Errorf("getUploadFileUrl returned no upload target for %q", name)
	}
	return &target, nil
}

// uploadFile PUTs the content to the pre-signed upload URL.
func (c *Client) uploadFile(ctx context.Context, signedPutURL string, content []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, signedPutURL, bytes.NewReader(content))
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}
	// The signature covers the content type, so it must match the
	// getUploadFileUrl request exactly. No session cookie here: the
	// upload host is not the API and the URL itself carries authorization.
	req.Header.Set("Content-Type", importContentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close errors are not actionable

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upload returned status %d", resp.StatusCode)
	}
	return nil
}

// enqueueTaskRequest is the enqueueTask request body.
type enqueueTaskRequest struct {
	Task importFileTask `json:"task"`
}

// importFileTask describes a server-side markdown import.
type importFileTask struct {
	EventName string            `json:"eventName"`
	Request   importTaskRequest `json:"request"`
}

// importTaskRequest points the import task at the uploaded file and the
// page to replace.
type importTaskRequest struct {
	FileURL    string `json:"fileURL"`
	FileName   string `json:"fileName"`
	ImportType string `json:"importType"`
	PageID     string `json:"pageId"`
}

// enqueueImport starts a server-side import task and returns its ID.
func (c *Client) enqueueImport(ctx context.Context, pageID, name, fileURL string) (string, error) {
	request := enqueueTaskRequest{
		Task: importFileTask{
			EventName: "importFile",
			Request: importTaskRequest{
				FileURL:    fileURL,
				FileName:   name,
				ImportType: "ReplaceBlock",
				PageID:     pageID,
			},
		},
	}

	var response struct {
		TaskID string `json:"taskId"`
	}
	if err := c.post(ctx, "enqueueTask", request, &response); err != nil {
		return "", err
	}
	if response.TaskID == "" {
		return "", fmt.Errorf("enqueueTask returned no task ID for page %s", pageID)
	}
	return response.TaskID, nil
}

// taskStatus is one entry of the getTasks response.
type taskStatus struct {
	ID    string `json:"id"`
	State string `json:"state"`
	Error string `json:"error"`
}

// awaitImport polls the task until it succeeds, fails, or the import
// timeout elapses.
func (c *Client) awaitImport(ctx context.Context, pageID, taskID string) error {
	ctx, cancel := context.WithTimeout(ctx, c.importTimeout)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("%w: page %s task %s", ErrImportTimeout, pageID, taskID)
			}
			return ctx.Err()
		case <-ticker.C:
		}

		var response struct {
			Results []taskStatus `json:"results"`
		}
		if err := c.post(ctx, "getTasks", map[string][]string{"taskIds": {taskID}}, &response); err != nil {
			// The deadline can expire mid-request, so a failed poll after
			// expiry is still a timeout, not a transport error.
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("%w: page %s task %s", ErrImportTimeout, pageID, taskID)
			}
			return err
		}
		if len(response.Results) == 0 {
			continue
		}

		switch response.Results[0].State {
		case taskStateSuccess:
			return nil
		case taskStateFailure:
			if msg := response.Results[0].Error; msg != "" {
				return fmt.Errorf("%w: page %s: %s", ErrImportFailed, pageID, msg)
			}
			return fmt.Errorf("%w: page %s", ErrImportFailed, pageID)
		}
	}
}
