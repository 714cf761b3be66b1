package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/user/energy-chart-go/internal/models"
	"github.com/user/energy-chart-go/pkg/gitutil"
)

// DefaultSourceURL is the published yearly consumption dataset.
const DefaultSourceURL = "https://raw.githubusercontent.com/Amy0Shen/energy/main/Yearly%20Consumption.csv"

// Source yields the raw CSV payload of a dataset.
type Source interface {
	// Open returns the payload and a description of where it came from.
	Open(ctx context.Context) (io.ReadCloser, models.SourceMetadata, error)
	// String names the source in error messages.
	String() string
}

// HTTPSource fetches the dataset with a single GET request.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s *HTTPSource) String() string { return s.URL }

// Open performs the request. Any non-2xx status is an error.
func (s *HTTPSource) Open(ctx context.Context) (io.ReadCloser, models.SourceMetadata, error) {
	meta := models.SourceMetadata{Kind: "http", Location: s.URL}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, meta, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, text/plain, */*")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, meta, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, meta, fmt.Errorf("unexpected status %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	meta.FetchedAt = time.Now().UTC()
	return resp.Body, meta, nil
}

// FileSource reads the dataset from the local filesystem.
type FileSource struct {
	Path string
}

func (s *FileSource) String() string { return s.Path }

func (s *FileSource) Open(_ context.Context) (io.ReadCloser, models.SourceMetadata, error) {
	meta := models.SourceMetadata{Kind: "file", Location: s.Path}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, meta, err
	}
	meta.FetchedAt = time.Now().UTC()
	return f, meta, nil
}

// GitSource reads the dataset from a file at a revision of a git repository.
// Repository may be a local path or a clone URL.
type GitSource struct {
	Repository string
	Path       string
	Revision   string
}

func (s *GitSource) String() string {
	rev := s.Revision
	if rev == "" {
		rev = "HEAD"
	}
	return fmt.Sprintf("%s@%s:%s", s.Repository, rev, s.Path)
}

func (s *GitSource) Open(ctx context.Context) (io.ReadCloser, models.SourceMetadata, error) {
	meta := models.SourceMetadata{Kind: "git", Location: s.Repository, Path: s.Path}

	repo, err := gitutil.OpenOrClone(ctx, s.Repository, s.Revision)
	if err != nil {
		return nil, meta, err
	}
	commit, err := gitutil.ResolveCommit(repo, s.Revision)
	if err != nil {
		return nil, meta, err
	}
	reader, err := gitutil.OpenFileAtCommit(commit, filepath.ToSlash(s.Path))
	if err != nil {
		return nil, meta, err
	}
	meta.Revision = gitutil.GetCommitDetails(commit).SHA
	meta.FetchedAt = time.Now().UTC()
	return reader, meta, nil
}

// NewSource picks a Source for a command line argument. With a repository
// the argument is a path inside it; otherwise existing local paths are read
// from disk and anything else is fetched over HTTP.
func NewSource(location, repository, revision string, client *http.Client) Source {
	if location == "" {
		location = DefaultSourceURL
	}
	if repository != "" {
		return &GitSource{Repository: repository, Path: location, Revision: revision}
	}
	if path, ok := strings.CutPrefix(location, "file://"); ok {
		return &FileSource{Path: path}
	}
	if _, err := os.Stat(location); err == nil {
		return &FileSource{Path: location}
	}
	return &HTTPSource{URL: location, Client: client}
}
