package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tfkr-ae/souk"
	"github.com/tfkr-ae/souk/domain"
)

// Client talks to the marketplace HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for the marketplace at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// statusResponse is the envelope the write endpoints answer with.
type statusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// GetPackage fetches a single catalog record's public fields.
// It returns domain.ErrNotFound for unknown packages.
func (c *Client) GetPackage(ctx context.Context, name string) (*souk.PublicPackage, error) {
	endpoint := fmt.Sprintf("%s/api/packages/%s", c.baseURL, url.PathEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request : %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("getting package %s : %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("getting package %s : %w", name, domain.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("getting package %s : unexpected status %s", name, resp.Status)
	}

	var pkg souk.PublicPackage
	if err := json.NewDecoder(resp.Body).Decode(&pkg); err != nil {
		return nil, fmt.Errorf("decoding package %s : %w", name, err)
	}
	return &pkg, nil
}

// ListPage fetches one catalog page.
func (c *Client) ListPage(ctx context.Context, page int) (*souk.CatalogPage, error) {
	endpoint := fmt.Sprintf("%s/api/catalog-assets/?page=%d", c.baseURL, page)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request : %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("listing page %d : %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing page %d : unexpected status %s", page, resp.Status)
	}

	var catalogPage souk.CatalogPage
	if err := json.NewDecoder(resp.Body).Decode(&catalogPage); err != nil {
		return nil, fmt.Errorf("decoding page %d : %w", page, err)
	}
	return &catalogPage, nil
}

// CreatePackage publishes a catalog record through the gated write endpoint.
func (c *Client) CreatePackage(ctx context.Context, psk string, pkg *domain.Package) error {
	body, err := json.Marshal(map[string]any{
		"uuid":             pkg.Name,
		"title":            pkg.Title,
		"description":      pkg.Description,
		"author":           pkg.Author,
		"image":            pkg.Image,
		"tags":             pkg.Tags,
		"version":          pkg.Version,
		"background_image": pkg.BackgroundImage,
		"background_video": pkg.BackgroundVideo,
		"payload":          pkg.Payload,
		"type":             string(pkg.Type),
	})
	if err != nil {
		return fmt.Errorf("marshalling package %s : %w", pkg.Name, err)
	}

	endpoint := fmt.Sprintf("%s/api/create-package", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request : %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("psk", psk)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("creating package %s : %w", pkg.Name, err)
	}
	defer resp.Body.Close()

	return checkWriteStatus(resp, fmt.Sprintf("creating package %s", pkg.Name))
}

// UploadAsset streams a local file into the package's asset directory through
// the gated multipart endpoint.
func (c *Client) UploadAsset(ctx context.Context, psk string, packageName string, filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("opening %s : %w", filePath, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return fmt.Errorf("creating form file : %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("reading %s : %w", filePath, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing multipart writer : %w", err)
	}

	endpoint := fmt.Sprintf("%s/api/upload-asset", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return fmt.Errorf("creating request : %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("psk", psk)
	req.Header.Set("packagename", packageName)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("uploading %s to %s : %w", filePath, packageName, err)
	}
	defer resp.Body.Close()

	return checkWriteStatus(resp, fmt.Sprintf("uploading %s to %s", filePath, packageName))
}

// checkWriteStatus translates write endpoint responses back into the shared
// error taxonomy.
func checkWriteStatus(resp *http.Response, op string) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}

	var status statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return fmt.Errorf("%s : unexpected status %s", op, resp.Status)
	}

	message := status.Status
	if message == "" {
		message = status.Error
	}

	switch resp.StatusCode {
	case http.StatusConflict:
		return fmt.Errorf("%s : %w", op, domain.ErrConflict)
	case http.StatusForbidden:
		return fmt.Errorf("%s : %w", op, domain.ErrUnauthorized)
	default:
		return fmt.Errorf("%s : %s (%s)", op, message, resp.Status)
	}
}
