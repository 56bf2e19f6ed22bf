package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/gonote/gonote/internal/models"
)

func queryEscape(s string) string { return url.QueryEscape(s) }

// ListNotes fetches the user's own notes, newest first. An empty folderID
// lists every folder.
func (c *Client) ListNotes(ctx context.Context, folderID string) ([]models.Note, error) {
	path := "/notes"
	if folderID != "" {
		path += "?folderId=" + queryEscape(folderID)
	}
	return c.listNotes(ctx, path)
}

func (c *Client) listNotes(ctx context.Context, path string) ([]models.Note, error) {
	var resp []wireNote
	if err := c.do(ctx, "GET", path, nil, &resp); err != nil {
		return nil, err
	}
	out := make([]models.Note, 0, len(resp))
	for _, w := range resp {
		out = append(out, w.toModel())
	}
	return out, nil
}

// CreateNote persists a new note and returns the server's copy.
func (c *Client) CreateNote(ctx context.Context, n *models.Note) (*models.Note, error) {
	var resp wireNote
	if err := c.do(ctx, "POST", "/notes", noteToWire(n), &resp); err != nil {
		return nil, err
	}
	out := resp.toModel()
	return &out, nil
}

// UpdateNote replaces a note on the server.
func (c *Client) UpdateNote(ctx context.Context, n *models.Note) (*models.Note, error) {
	var resp wireNote
	if err := c.do(ctx, "PUT", "/notes/"+url.PathEscape(n.ID), noteToWire(n), &resp); err != nil {
		return nil, err
	}
	out := resp.toModel()
	return &out, nil
}

// DeleteNote removes a note on the server.
func (c *Client) DeleteNote(ctx context.Context, id string) error {
	return c.do(ctx, "DELETE", "/notes/"+url.PathEscape(id), nil, nil)
}

// AddComment posts a comment. The server snapshots the username.
func (c *Client) AddComment(ctx context.Context, noteID, content, quotedText string) (*models.Comment, error) {
	body := map[string]string{"content": content, "quotedText": quotedText}
	var resp wireComment
	if err := c.do(ctx, "POST", "/notes/"+url.PathEscape(noteID)+"/comments", body, &resp); err != nil {
		return nil, err
	}
	out := resp.toModel()
	return &out, nil
}

// UploadResult is the server's record of an uploaded file.
type UploadResult struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Type     string `json:"type"`
	Size     int64  `json:"size"`
}

// Upload sends a file as multipart form field "file".
func (c *Client) Upload(ctx context.Context, name string, data []byte) (*UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/upload", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var resp UploadResult
	if err := c.send(req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
