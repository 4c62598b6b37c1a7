// Package apiclient talks to the pressroom HTTP API. A Client satisfies the
// authoring Publisher and the attachment uploader interfaces.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/abduss/pressroom/internal/announcement"
	"github.com/abduss/pressroom/internal/attachment"
)

const (
	defaultHTTPTimeout = 30 * time.Second
	httpTimeoutEnvKey  = "PRESSROOM_HTTP_TIMEOUT"
)

// Client is a simple HTTP client for the pressroom API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a new API client.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: httpTimeoutFromEnv()},
	}
}

type mutationRequest struct {
	announcement.Input
	Password string `json:"password"`
}

type passwordRequest struct {
	Password string `json:"password"`
}

type removeRequest struct {
	Password string `json:"password"`
	FileName string `json:"fileName"`
}

// Ping checks whether the API server is alive.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health/live", nil, nil, nil)
}

// Verify checks the admin password against the server.
func (c *Client) Verify(ctx context.Context, secret string) error {
	return c.do(ctx, http.MethodPost, "/auth/verify", nil, passwordRequest{Password: secret}, nil)
}

func (c *Client) List(ctx context.Context) ([]announcement.Announcement, error) {
	var resp []announcement.Announcement
	err := c.do(ctx, http.MethodGet, "/announcements", nil, nil, &resp)
	return resp, err
}

func (c *Client) Get(ctx context.Context, id string) (announcement.Announcement, error) {
	var resp announcement.Announcement
	err := c.do(ctx, http.MethodGet, "/announcements/"+url.PathEscape(id), nil, nil, &resp)
	return resp, err
}

func (c *Client) Create(ctx context.Context, secret string, in announcement.Input) (announcement.Announcement, error) {
	var resp announcement.Announcement
	err := c.do(ctx, http.MethodPost, "/announcements", nil, mutationRequest{Input: in, Password: secret}, &resp)
	return resp, err
}

func (c *Client) Update(ctx context.Context, secret, id string, in announcement.Input) (announcement.Announcement, error) {
	var resp announcement.Announcement
	err := c.do(ctx, http.MethodPut, "/announcements/"+url.PathEscape(id), nil, mutationRequest{Input: in, Password: secret}, &resp)
	return resp, err
}

func (c *Client) Delete(ctx context.Context, secret, id string) error {
	return c.do(ctx, http.MethodDelete, "/announcements/"+url.PathEscape(id), nil, passwordRequest{Password: secret}, nil)
}

// Upload sends f to the generic attachment endpoint.
func (c *Client) Upload(ctx context.Context, secret string, f attachment.File) (attachment.Meta, error) {
	return c.upload(ctx, "/upload", secret, f)
}

// UploadImage sends f to the image endpoint.
func (c *Client) UploadImage(ctx context.Context, secret string, f attachment.File) (attachment.Meta, error) {
	return c.upload(ctx, "/upload/image", secret, f)
}

// RemoveUpload deletes a stored blob by its storedName.
func (c *Client) RemoveUpload(ctx context.Context, secret, storedName string) error {
	return c.do(ctx, http.MethodDelete, "/upload", nil, removeRequest{Password: secret, FileName: storedName}, nil)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func (c *Client) upload(ctx context.Context, path, secret string, f attachment.File) (attachment.Meta, error) {
	var meta attachment.Meta
	if f.Body == nil {
		return meta, attachment.ErrMissingFile
	}

	pr, pw := io.Pipe()
	defer pr.Close()
	writer := multipart.NewWriter(pw)

	go func() {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(f.Name)))
		if f.Type != "" {
			header.Set("Content-Type", f.Type)
		}
		part, err := writer.CreatePart(header)
		if err == nil {
			_, err = io.Copy(part, f.Body)
		}
		if err == nil {
			err = writer.Close()
		}
		_ = pw.CloseWithError(err)
	}()

	endpoint := c.baseURL + path + "?" + url.Values{"password": {secret}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, pr)
	if err != nil {
		return meta, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return meta, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return meta, decodeError(resp)
	}
	err = json.NewDecoder(resp.Body).Decode(&meta)
	return meta, err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func httpTimeoutFromEnv() time.Duration {
	value := strings.TrimSpace(os.Getenv(httpTimeoutEnvKey))
	if value == "" {
		return defaultHTTPTimeout
	}

	if duration, err := time.ParseDuration(value); err == nil && duration > 0 {
		return duration
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	return defaultHTTPTimeout
}
