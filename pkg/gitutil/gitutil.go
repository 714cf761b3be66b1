package gitutil

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
)

// CommitDetails is a short description of the commit a file was read from.
type CommitDetails struct {
	SHA     string
	Date    time.Time
	Author  string // Format: "Name (email)"
	Message string
}

// OpenRepository opens a git repository at the given path.
func OpenRepository(path string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %s: %w", path, err)
	}
	return repo, nil
}

// CloneRepository clones a remote repository into memory. No worktree is
// checked out; files are read straight from the object store.
func CloneRepository(ctx context.Context, url string, shallow bool) (*git.Repository, error) {
	opts := &git.CloneOptions{URL: url}
	if shallow {
		opts.Depth = 1
	}
	repo, err := git.CloneContext(ctx, memory.NewStorage(), nil, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to clone repository %s: %w", url, err)
	}
	return repo, nil
}

// OpenOrClone opens location as a local repository when it exists on disk,
// and clones it otherwise.
func OpenOrClone(ctx context.Context, location, revision string) (*git.Repository, error) {
	if stat, err := os.Stat(location); err == nil && stat.IsDir() {
		return OpenRepository(location)
	}
	// Only HEAD is reachable from a shallow clone.
	return CloneRepository(ctx, location, revision == "")
}

// GetHeadCommit retrieves the commit object for the repository's HEAD.
func GetHeadCommit(repo *git.Repository) (*object.Commit, error) {
	headRef, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD reference: %w", err)
	}

	commit, err := repo.CommitObject(headRef.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to get commit object for HEAD (%s): %w", headRef.Hash(), err)
	}
	return commit, nil
}

// ResolveCommit resolves a revision (branch, tag, SHA, "HEAD~1", ...) to a
// commit. An empty revision means HEAD.
func ResolveCommit(repo *git.Repository, revision string) (*object.Commit, error) {
	if revision == "" {
		return GetHeadCommit(repo)
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		// Remote clones only carry remote-tracking refs for non-default branches.
		remoteHash, errRemote := repo.ResolveRevision(plumbing.Revision("refs/remotes/origin/" + revision))
		if errRemote != nil {
			return nil, fmt.Errorf("failed to resolve revision %q: %w", revision, err)
		}
		hash = remoteHash
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("failed to get commit object for %s: %w", hash, err)
	}
	return commit, nil
}

// OpenFileAtCommit returns a reader for the contents of path as of commit.
func OpenFileAtCommit(commit *object.Commit, path string) (io.ReadCloser, error) {
	file, err := commit.File(path)
	if err != nil {
		return nil, fmt.Errorf("file %s not found at commit %s: %w", path, commit.Hash.String(), err)
	}
	reader, err := file.Reader()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s at commit %s: %w", path, commit.Hash.String(), err)
	}
	return reader, nil
}

// GetCommitDetails extracts the fields reported alongside a dataset.
func GetCommitDetails(commit *object.Commit) CommitDetails {
	return CommitDetails{
		SHA:     commit.Hash.String(),
		Date:    commit.Committer.When,
		Author:  fmt.Sprintf("%s (%s)", commit.Author.Name, commit.Author.Email),
		Message: strings.Split(commit.Message, "\n")[0], // Typically the first line
	}
}
