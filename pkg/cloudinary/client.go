package cloudinary

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/wangpython/gogroupbuy-backend/pkg/errors"
)

const (
	defaultBaseURL              = "https://api.cloudinary.com/v1_1"
	responseBodyReadLimit int64 = 1024
)

var (
	errCredentialsRequired = errors.New("cloudinary cloud name, api key and api secret are required")
)

// Client wraps Cloudinary's signed image upload API. Product pictures are
// uploaded before the catalog row is written so a failed upload aborts the
// listing.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cloudName  string
	apiKey     string
	apiSecret  string
	now        func() time.Time
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured upload base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithClock overrides the timestamp source used for signing.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// NewClient builds the Cloudinary client from account credentials.
func NewClient(cloudName, apiKey, apiSecret string, opts ...Option) (*Client, error) {
	cloudName = strings.TrimSpace(cloudName)
	apiKey = strings.TrimSpace(apiKey)
	apiSecret = strings.TrimSpace(apiSecret)
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, errCredentialsRequired
	}

	client := &Client{
		cloudName:  cloudName,
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		now:        time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}
	if client.now == nil {
		client.now = time.Now
	}

	return client, nil
}

// UploadImage uploads the image content under the given filename and returns
// the hosted HTTPS URL.
func (c *Client) UploadImage(ctx context.Context, filename string, content io.Reader) (string, error) {
	if c == nil {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "cloudinary client not configured")
	}
	if strings.TrimSpace(filename) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "image filename is required")
	}
	if content == nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "image content is required")
	}

	timestamp := strconv.FormatInt(c.now().UTC().Unix(), 10)
	publicID := uuid.NewString()
	signature := c.sign(map[string]string{
		"public_id": publicID,
		"timestamp": timestamp,
	})

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	fields := map[string]string{
		"api_key":   c.apiKey,
		"public_id": publicID,
		"timestamp": timestamp,
		"signature": signature,
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write upload field")
		}
	}

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create upload part")
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "copy upload content")
	}
	if err := writer.Close(); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "finalize upload body")
	}

	url := fmt.Sprintf("%s/%s/image/upload", strings.TrimRight(c.baseURL, "/"), c.cloudName)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build upload request")
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute upload request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "upload request failed")
	}

	var apiResp struct {
		SecureURL string `json:"secure_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode upload response")
	}
	if apiResp.SecureURL == "" {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "upload response missing secure url")
	}

	return apiResp.SecureURL, nil
}

// sign produces the SHA-1 signature over the sorted signing params plus the
// API secret, per Cloudinary's signed-upload scheme.
func (c *Client) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + c.apiSecret))
	return hex.EncodeToString(sum[:])
}
