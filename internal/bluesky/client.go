package bluesky

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/bilgisen/skypost/internal/models"
)

// Publisher is the boundary the bot publishes through. The concrete client
// speaks the AT protocol; tests substitute a fake.
type Publisher interface {
	Publish(ctx context.Context, post Post) (Result, error)
}

// Image is one attachment, already fetched and size-checked.
type Image struct {
	Data []byte
	Mime string
	Alt  string
}

// Post is one outgoing post. RKey is the idempotency key: retries with the
// same RKey never create a second record.
type Post struct {
	RKey   string
	Text   string
	Images []Image
}

// Result reports the created record. AlreadyExists means a record with this
// RKey was created by an earlier attempt; callers treat it as success.
type Result struct {
	URI           string
	CID           string
	AlreadyExists bool
}

type Client struct {
	client     *resty.Client
	baseURL    string
	identifier string
	password   string

	accessJwt string
	did       string
}

type sessionResponse struct {
	AccessJwt string `json:"accessJwt"`
	Did       string `json:"did"`
	Handle    string `json:"handle"`
}

type uploadBlobResponse struct {
	Blob json.RawMessage `json:"blob"`
}

type createRecordResponse struct {
	URI string `json:"uri"`
	CID string `json:"cid"`
}

type xrpcError struct {
	ErrorCode string `json:"error"`
	Message   string `json:"message"`
}

func NewClient(baseURL, identifier, password string) *Client {
	return &Client{
		client: resty.New().
			SetTimeout(30 * time.Second).
			SetRetryCount(3).
			SetRetryWaitTime(2 * time.Second).
			SetRetryMaxWaitTime(10 * time.Second),
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		identifier: identifier,
		password:   password,
	}
}

// Publish logs in, uploads every image blob, and creates the post record
// under the given record key.
func (c *Client) Publish(ctx context.Context, post Post) (Result, error) {
	if err := c.login(ctx); err != nil {
		return Result{}, err
	}

	blobs := make([]json.RawMessage, 0, len(post.Images))
	for i, img := range post.Images {
		if int64(len(img.Data)) > models.MaxImageBytes {
			return Result{}, fmt.Errorf("image %d is %d bytes, upload limit is %d", i, len(img.Data), models.MaxImageBytes)
		}
		blob, err := c.uploadBlob(ctx, img)
		if err != nil {
			return Result{}, fmt.Errorf("failed to upload image %d: %w", i, err)
		}
		blobs = append(blobs, blob)
	}

	return c.createRecord(ctx, post, blobs)
}

func (c *Client) login(ctx context.Context) error {
	var session sessionResponse
	var xerr xrpcError
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{
			"identifier": c.identifier,
			"password":   c.password,
		}).
		SetResult(&session).
		SetError(&xerr).
		Post(c.baseURL + "/xrpc/com.atproto.server.createSession")

	if err != nil {
		return fmt.Errorf("login request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("login failed with status %d: %s", resp.StatusCode(), xerr.Message)
	}
	if session.AccessJwt == "" || session.Did == "" {
		return fmt.Errorf("login response missing session fields")
	}

	c.accessJwt = session.AccessJwt
	c.did = session.Did
	return nil
}

func (c *Client) uploadBlob(ctx context.Context, img Image) (json.RawMessage, error) {
	var out uploadBlobResponse
	var xerr xrpcError
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", img.Mime).
		SetHeader("Authorization", "Bearer "+c.accessJwt).
		SetBody(img.Data).
		SetResult(&out).
		SetError(&xerr).
		Post(c.baseURL + "/xrpc/com.atproto.repo.uploadBlob")

	if err != nil {
		return nil, fmt.Errorf("blob upload request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("blob upload failed with status %d: %s", resp.StatusCode(), xerr.Message)
	}
	if len(out.Blob) == 0 {
		return nil, fmt.Errorf("blob upload response missing blob ref")
	}
	return out.Blob, nil
}

func (c *Client) createRecord(ctx context.Context, post Post, blobs []json.RawMessage) (Result, error) {
	record := map[string]any{
		"$type":     "app.bsky.feed.post",
		"text":      post.Text,
		"createdAt": time.Now().UTC().Format(time.RFC3339),
	}
	if len(blobs) > 0 {
		imgs := make([]map[string]any, 0, len(blobs))
		for i, blob := range blobs {
			imgs = append(imgs, map[string]any{
				"image": blob,
				"alt":   post.Images[i].Alt,
			})
		}
		record["embed"] = map[string]any{
			"$type":  "app.bsky.embed.images",
			"images": imgs,
		}
	}

	var out createRecordResponse
	var xerr xrpcError
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "Bearer "+c.accessJwt).
		SetBody(map[string]any{
			"repo":       c.did,
			"collection": "app.bsky.feed.post",
			"rkey":       post.RKey,
			"record":     record,
		}).
		SetResult(&out).
		SetError(&xerr).
		Post(c.baseURL + "/xrpc/com.atproto.repo.createRecord")

	if err != nil {
		return Result{}, fmt.Errorf("create record request failed: %w", err)
	}
	if resp.IsError() {
		// A duplicate record key means an earlier attempt already went
		// through. That is the idempotency guarantee working, not a failure.
		if resp.StatusCode() == http.StatusConflict || strings.Contains(strings.ToLower(xerr.Message), "already exists") {
			return Result{AlreadyExists: true}, nil
		}
		return Result{}, fmt.Errorf("create record failed with status %d: %s", resp.StatusCode(), xerr.Message)
	}

	return Result{URI: out.URI, CID: out.CID}, nil
}

var rkeyInvalid = regexp.MustCompile(`[^a-zA-Z0-9.\-_~]`)

// SanitizeRKey turns a queue item id into a valid AT-proto record key.
func SanitizeRKey(id string) string {
	key := rkeyInvalid.ReplaceAllString(strings.ToLower(id), "-")
	if len(key) > 512 {
		key = key[:512]
	}
	return key
}
