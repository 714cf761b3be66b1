package gitutil

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

var testSignature = &object.Signature{
	Name:  "Test User",
	Email: "test@example.com",
	When:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
}

// createTestRepo initializes a repository in a temp dir.
func createTestRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()
	repoPath := t.TempDir()
	repo, err := git.PlainInit(repoPath, false)
	if err != nil {
		t.Fatalf("Failed to init repo: %v", err)
	}
	return repoPath, repo
}

// commitFile writes content to name and commits it.
func commitFile(t *testing.T, repoPath string, repo *git.Repository, name, content, msg string) plumbing.Hash {
	t.Helper()
	if err := os.WriteFile(filepath.Join(repoPath, name), []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to get worktree: %v", err)
	}
	if _, err := wt.Add(name); err != nil {
		t.Fatalf("Failed to add %s: %v", name, err)
	}
	hash, err := wt.Commit(msg, &git.CommitOptions{Author: testSignature, Committer: testSignature})
	if err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}
	return hash
}

func readAll(t *testing.T, rc io.ReadCloser) string {
	t.Helper()
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("Failed to read: %v", err)
	}
	return string(b)
}

func TestOpenRepository(t *testing.T) {
	repoPath, _ := createTestRepo(t)

	repo, err := OpenRepository(repoPath)
	if err != nil {
		t.Errorf("OpenRepository() error = %v, wantErr %v", err, false)
	}
	if repo == nil {
		t.Errorf("OpenRepository() repo is nil")
	}

	// Subdirectories resolve to the enclosing repository.
	sub := filepath.Join(repoPath, "data")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenRepository(sub); err != nil {
		t.Errorf("OpenRepository(subdir) error = %v", err)
	}

	if _, err := OpenRepository(t.TempDir()); err == nil {
		t.Errorf("OpenRepository() on a non-repository should fail")
	}
}

func TestGetHeadCommit(t *testing.T) {
	repoPath, repo := createTestRepo(t)
	if _, err := GetHeadCommit(repo); err == nil {
		t.Errorf("GetHeadCommit() on an empty repository should fail")
	}

	want := commitFile(t, repoPath, repo, "data.csv", "Year\n", "Initial commit")
	commit, err := GetHeadCommit(repo)
	if err != nil {
		t.Fatalf("GetHeadCommit() error = %v", err)
	}
	if commit.Hash != want {
		t.Errorf("GetHeadCommit() = %s, want %s", commit.Hash, want)
	}
}

func TestResolveCommit(t *testing.T) {
	repoPath, repo := createTestRepo(t)
	first := commitFile(t, repoPath, repo, "data.csv", "v1\n", "First")
	second := commitFile(t, repoPath, repo, "data.csv", "v2\n", "Second")
	if _, err := repo.CreateTag("v1", first, nil); err != nil {
		t.Fatalf("Failed to tag: %v", err)
	}

	tests := []struct {
		revision string
		want     plumbing.Hash
		wantErr  bool
	}{
		{"", second, false},
		{"HEAD", second, false},
		{"HEAD~1", first, false},
		{"v1", first, false},
		{first.String(), first, false},
		{"no-such-branch", plumbing.ZeroHash, true},
	}
	for _, tt := range tests {
		t.Run(tt.revision, func(t *testing.T) {
			commit, err := ResolveCommit(repo, tt.revision)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveCommit(%q) error = %v, wantErr %v", tt.revision, err, tt.wantErr)
			}
			if err == nil && commit.Hash != tt.want {
				t.Errorf("ResolveCommit(%q) = %s, want %s", tt.revision, commit.Hash, tt.want)
			}
		})
	}
}

func TestOpenFileAtCommit(t *testing.T) {
	repoPath, repo := createTestRepo(t)
	first := commitFile(t, repoPath, repo, "data.csv", "Year,Consumption\n2000,1\n", "First")
	commitFile(t, repoPath, repo, "data.csv", "Year,Consumption\n2001,2\n", "Second")

	commit, err := repo.CommitObject(first)
	if err != nil {
		t.Fatal(err)
	}
	rc, err := OpenFileAtCommit(commit, "data.csv")
	if err != nil {
		t.Fatalf("OpenFileAtCommit() error = %v", err)
	}
	if got := readAll(t, rc); !strings.Contains(got, "2000,1") {
		t.Errorf("OpenFileAtCommit() content = %q, want the first revision", got)
	}

	if _, err := OpenFileAtCommit(commit, "missing.csv"); err == nil {
		t.Errorf("OpenFileAtCommit() for a missing file should fail")
	}
}

func TestOpenOrClone_LocalPath(t *testing.T) {
	repoPath, repo := createTestRepo(t)
	want := commitFile(t, repoPath, repo, "data.csv", "Year\n", "Initial commit")

	opened, err := OpenOrClone(context.Background(), repoPath, "")
	if err != nil {
		t.Fatalf("OpenOrClone() error = %v", err)
	}
	head, err := GetHeadCommit(opened)
	if err != nil {
		t.Fatal(err)
	}
	if head.Hash != want {
		t.Errorf("OpenOrClone() HEAD = %s, want %s", head.Hash, want)
	}
}

func TestCloneRepository(t *testing.T) {
	repoPath, repo := createTestRepo(t)
	want := commitFile(t, repoPath, repo, "data.csv", "Year\n", "Initial commit")

	cloned, err := CloneRepository(context.Background(), repoPath, false)
	if err != nil {
		t.Fatalf("CloneRepository() error = %v", err)
	}
	head, err := GetHeadCommit(cloned)
	if err != nil {
		t.Fatal(err)
	}
	if head.Hash != want {
		t.Errorf("cloned HEAD = %s, want %s", head.Hash, want)
	}
}

func TestGetCommitDetails(t *testing.T) {
	repoPath, repo := createTestRepo(t)
	hash := commitFile(t, repoPath, repo, "data.csv", "Year\n", "Add dataset\n\nLonger body.")
	commit, err := repo.CommitObject(hash)
	if err != nil {
		t.Fatal(err)
	}

	details := GetCommitDetails(commit)
	if details.SHA != hash.String() {
		t.Errorf("SHA = %s, want %s", details.SHA, hash)
	}
	if details.Author != "Test User (test@example.com)" {
		t.Errorf("Author = %q", details.Author)
	}
	if details.Message != "Add dataset" {
		t.Errorf("Message = %q, want first line only", details.Message)
	}
	if !details.Date.Equal(testSignature.When) {
		t.Errorf("Date = %v, want %v", details.Date, testSignature.When)
	}
}
