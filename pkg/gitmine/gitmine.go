// Package gitmine streams commit history out of a local git repository for
// the history analyzers. It wraps go-git: no git binary is required.
package gitmine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// ErrBadSince indicates a since value that is neither a duration nor a date.
var ErrBadSince = errors.New("since must be a duration (720h) or a date (2024-01-01)")

// FileChange is one touched path of a commit with its line-level delta.
type FileChange struct {
	Path    string `json:"path"`
	Added   int    `json:"added"`
	Removed int    `json:"removed"`
}

// CommitRecord is the flattened view of one commit that analyzers consume.
// Merge commits carry no stats, matching the numstat convention.
type CommitRecord struct {
	Hash          string       `json:"hash"`
	Message       string       `json:"message"`
	AuthorName    string       `json:"author_name"`
	AuthorEmail   string       `json:"author_email"`
	AuthorWhen    time.Time    `json:"author_when"`
	CommitterWhen time.Time    `json:"committer_when"`
	Insertions    int          `json:"insertions"`
	Deletions     int          `json:"deletions"`
	FilesChanged  int          `json:"files_changed"`
	Files         []FileChange `json:"files,omitempty"`
	Parents       int          `json:"parents"`
	Merge         bool         `json:"merge"`
}

// CollectOptions bound a history walk.
type CollectOptions struct {
	// Branch is any revision go-git can resolve (branch, tag, hash).
	// Empty means HEAD.
	Branch string

	// Since drops commits committed before it. Zero means no lower bound.
	Since time.Time

	// MaxCommits caps the walk. Zero means unbounded.
	MaxCommits int

	// FirstParent walks only the first-parent chain, the mainline view.
	FirstParent bool
}

// ParseSince resolves a user-facing since value into the walk's lower bound:
// a Go duration ("720h") counts back from now, otherwise the value must be a
// "2006-01-02" date or an RFC 3339 timestamp.
func ParseSince(raw string, now time.Time) (time.Time, error) {
	if dur, err := time.ParseDuration(raw); err == nil {
		return now.Add(-dur), nil
	}

	if ts, err := time.Parse("2006-01-02", raw); err == nil {
		return ts, nil
	}

	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, nil
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrBadSince, raw)
}

// Repository is an open git repository.
type Repository struct {
	inner *git.Repository
}

// Open opens the repository containing path, walking up to find the .git
// directory the way the git CLI does.
func Open(path string) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository at %s: %w", path, err)
	}

	return &Repository{inner: repo}, nil
}

// Collect streams commit records in reverse-chronological order through fn.
// A non-nil error from fn aborts the walk; per-commit stat failures only drop
// that commit's stats.
func (r *Repository) Collect(ctx context.Context, opts CollectOptions, fn func(*CommitRecord) error) error {
	start, err := r.resolveStart(opts.Branch)
	if err != nil {
		return err
	}

	if opts.FirstParent {
		return r.collectFirstParent(ctx, start, opts, fn)
	}

	logOpts := &git.LogOptions{From: start, Order: git.LogOrderCommitterTime}
	if !opts.Since.IsZero() {
		since := opts.Since
		logOpts.Since = &since
	}

	iter, err := r.inner.Log(logOpts)
	if err != nil {
		return fmt.Errorf("log from %s: %w", start, err)
	}
	defer iter.Close()

	seen := 0

	err = iter.ForEach(func(commit *object.Commit) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if opts.MaxCommits > 0 && seen >= opts.MaxCommits {
			return storer.ErrStop
		}

		seen++

		return fn(r.record(ctx, commit))
	})
	if err != nil {
		return fmt.Errorf("walk history: %w", err)
	}

	return nil
}

// collectFirstParent walks the mainline by following parent zero only.
// A missing parent object (shallow clone) ends the walk quietly.
func (r *Repository) collectFirstParent(ctx context.Context, start plumbing.Hash, opts CollectOptions, fn func(*CommitRecord) error) error {
	commit, err := r.inner.CommitObject(start)
	if err != nil {
		return fmt.Errorf("resolve commit %s: %w", start, err)
	}

	seen := 0

	for {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if opts.MaxCommits > 0 && seen >= opts.MaxCommits {
			return nil
		}

		if !opts.Since.IsZero() && commit.Committer.When.Before(opts.Since) {
			return nil
		}

		seen++

		if err := fn(r.record(ctx, commit)); err != nil {
			return fmt.Errorf("walk history: %w", err)
		}

		if commit.NumParents() == 0 {
			return nil
		}

		commit, err = commit.Parent(0)
		if err != nil {
			return nil
		}
	}
}

func (r *Repository) resolveStart(branch string) (plumbing.Hash, error) {
	if branch == "" {
		head, err := r.inner.Head()
		if err != nil {
			return plumbing.ZeroHash, fmt.Errorf("resolve HEAD: %w", err)
		}

		return head.Hash(), nil
	}

	hash, err := r.inner.ResolveRevision(plumbing.Revision(branch))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolve revision %q: %w", branch, err)
	}

	return *hash, nil
}

// record flattens a commit. Stats are best-effort: any failure leaves them
// zero rather than aborting the walk.
func (r *Repository) record(ctx context.Context, commit *object.Commit) *CommitRecord {
	rec := &CommitRecord{
		Hash:          commit.Hash.String(),
		Message:       commit.Message,
		AuthorName:    commit.Author.Name,
		AuthorEmail:   commit.Author.Email,
		AuthorWhen:    commit.Author.When,
		CommitterWhen: commit.Committer.When,
		Parents:       commit.NumParents(),
		Merge:         commit.NumParents() > 1,
	}

	if rec.Merge {
		return rec
	}

	files, err := r.fileChanges(ctx, commit)
	if err != nil {
		return rec
	}

	rec.Files = files
	rec.FilesChanged = len(files)

	for _, file := range files {
		rec.Insertions += file.Added
		rec.Deletions += file.Removed
	}

	return rec
}
