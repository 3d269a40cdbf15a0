package souk

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tfkr-ae/souk/domain"
	"gopkg.in/yaml.v3"
)

// GitHubAsset represents an asset attached to a GitHub release.
type GitHubAsset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
	Size               int64  `json:"size"`
	ContentType        string `json:"content_type"`
}

// GitHubRelease represents a GitHub release.
type GitHubRelease struct {
	TagName     string        `json:"tag_name"`
	Name        string        `json:"name"`
	PublishedAt time.Time     `json:"published_at"`
	URL         string        `json:"html_url"`
	Assets      []GitHubAsset `json:"assets"` // Assets attached to the release
}

// PackageManifest is the souk.yaml manifest a package repository publishes
// alongside its release assets. It carries the catalog fields for the record
// the publisher wants created.
type PackageManifest struct {
	Name            string   `yaml:"name"`
	Title           string   `yaml:"title"`
	Author          string   `yaml:"author"`
	Description     string   `yaml:"description"`
	Version         string   `yaml:"version"`
	Type            string   `yaml:"type"`
	Image           string   `yaml:"image"`
	Tags            []string `yaml:"tags"`
	BackgroundImage string   `yaml:"background_image"`
	BackgroundVideo string   `yaml:"background_video"`
	Payload         string   `yaml:"payload"`
}

// ToPackage converts the manifest to a catalog record using the supplied
// identifier as the package name.
func (m PackageManifest) ToPackage(name string) *domain.Package {
	return &domain.Package{
		Name:            name,
		Title:           m.Title,
		Description:     m.Description,
		Author:          m.Author,
		Image:           m.Image,
		Tags:            m.Tags,
		Version:         m.Version,
		BackgroundImage: m.BackgroundImage,
		BackgroundVideo: m.BackgroundVideo,
		Payload:         m.Payload,
		Type:            domain.PackageType(m.Type),
	}
}

func getAsset(assets []GitHubAsset, name string) (GitHubAsset, error) {
	for _, asset := range assets {
		if name == asset.Name {
			return asset, nil
		}
	}
	return GitHubAsset{}, fmt.Errorf("finding asset with name %s", name)
}

// Get fetches a URL and returns its body as a string.
func Get(url string) (string, error) {
	res, err := http.Get(url)
	if err != nil {
		return "", fmt.Errorf("getting %s : %w", url, err)
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("reading resp body : %w", err)
	}
	return string(body), nil
}

// ExtractAuthorRepo extracts the author/repo format from a GitHub URL.
func ExtractAuthorRepo(githubURL string) (string, error) {
	parsedURL, err := url.Parse(githubURL)
	if err != nil {
		return "", err
	}

	// Ensure the host is GitHub
	if parsedURL.Host != "github.com" {
		return "", fmt.Errorf("not a valid GitHub URL")
	}

	// Split the path and extract the author/repo part
	parts := strings.Split(strings.Trim(parsedURL.Path, "/"), "/")
	if len(parts) < 2 {
		return "", fmt.Errorf("URL path is not in the expected format")
	}

	authorRepo := fmt.Sprintf("%s/%s", parts[0], parts[1])
	return authorRepo, nil
}

// GetManifest fetches and decodes a souk.yaml package manifest from a URL.
func GetManifest(url string) (manifest PackageManifest, err error) {
	res, err := http.Get(url)
	if err != nil {
		return manifest, fmt.Errorf("getting %s : %w", url, err)
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return manifest, fmt.Errorf("reading resp body : %w", err)
	}
	err = yaml.Unmarshal(body, &manifest)
	if err != nil {
		return manifest, fmt.Errorf("unmarshalling yaml : %w", err)
	}
	return manifest, nil
}

// GetLatestRelease fetches the most recent GitHub release of a package
// repository along with its souk.yaml manifest.
func GetLatestRelease(repo string) (release GitHubRelease, manifest PackageManifest, err error) {
	authorRepo, err := ExtractAuthorRepo(repo)
	if err != nil {
		return release, manifest, fmt.Errorf("parsing author/repo from url %s : %w", repo, err)
	}
	url := fmt.Sprintf("https://api.github.com/repos/%s/releases", authorRepo)
	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return release, manifest, fmt.Errorf("creating request : %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := client.Do(req)
	if err != nil {
		return release, manifest, fmt.Errorf("getting release for %s : %w", repo, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return release, manifest, fmt.Errorf("github api failed with status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return release, manifest, fmt.Errorf("reading body : %w", err)
	}

	var releases []GitHubRelease
	if err := json.Unmarshal(body, &releases); err != nil {
		return release, manifest, fmt.Errorf("unmarshalling release: %w", err)
	}

	if len(releases) == 0 {
		return release, manifest, fmt.Errorf("no releases found for %s", repo)
	}

	release = releases[0]
	manifestAsset, err := getAsset(release.Assets, "souk.yaml")
	if err != nil {
		return release, manifest, fmt.Errorf("no manifest found for release : %w", err)
	}
	manifest, err = GetManifest(manifestAsset.BrowserDownloadURL)
	if err != nil {
		return release, manifest, fmt.Errorf("error fetching manifest from url %s : %w", manifestAsset.BrowserDownloadURL, err)
	}
	return release, manifest, nil
}
