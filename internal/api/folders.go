package api

import (
	"context"
	"net/http"

	"github.com/notegenius/notegenius/internal/model"
)

// ListFolders returns the server-authoritative folder counts in display order.
func (c *Client) ListFolders(ctx context.Context) ([]model.FolderSummary, error) {
	var folders []model.FolderSummary
	if err := c.do(ctx, http.MethodGet, "/folders", nil, nil, &folders); err != nil {
		return nil, err
	}
	return folders, nil
}
