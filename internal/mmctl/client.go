// Package mmctl implements the operator command-line tool: minting bearer
// tokens for local testing and uploading listing images through the API.
package mmctl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/motomarket/internal/common"
	"github.com/dmitrijs2005/motomarket/internal/netx"
)

// Client talks to the marketplace HTTP API on behalf of one caller.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    hc,
	}
}

type apiError struct {
	Error string `json:"error"`
	Field string `json:"field"`
}

// RequestUploadURL asks the API for a fresh image key and a presigned PUT
// URL bound to contentType.
func (c *Client) RequestUploadURL(ctx context.Context, contentType string) (string, string, error) {
	body, err := json.Marshal(map[string]string{"content_type": contentType})
	if err != nil {
		return "", "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/images/upload-url", bytes.NewReader(body))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e apiError
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return "", "", fmt.Errorf("api: %s: %s", resp.Status, e.Error)
	}

	var out struct {
		Key       string `json:"key"`
		UploadURL string `json:"upload_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", "", fmt.Errorf("decode upload url: %w", err)
	}
	return out.Key, out.UploadURL, nil
}

// UploadImage stores data under a new key and returns the key, ready to be
// put in a listing's images. The content type is derived from name.
func (c *Client) UploadImage(ctx context.Context, name string, data []byte) (string, error) {
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%s: not an image", name)
	}

	key, url, err := c.RequestUploadURL(ctx, contentType)
	if err != nil {
		return "", err
	}

	if err := netx.UploadToPresignedURL(ctx, c.http, url, contentType, data); err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return key, nil
}
