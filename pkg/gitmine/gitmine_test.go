package gitmine_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowstack/gitglow/pkg/gitmine"
)

var testEpoch = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

type testRepo struct {
	t    *testing.T
	repo *git.Repository
	dir  string
}

func initTestRepo(t *testing.T) *testRepo {
	t.Helper()

	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	return &testRepo{t: t, repo: repo, dir: dir}
}

func (tr *testRepo) write(name string, content []byte) {
	tr.t.Helper()

	path := filepath.Join(tr.dir, name)
	require.NoError(tr.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(tr.t, os.WriteFile(path, content, 0o644))

	wt, err := tr.repo.Worktree()
	require.NoError(tr.t, err)

	_, err = wt.Add(name)
	require.NoError(tr.t, err)
}

func (tr *testRepo) remove(name string) {
	tr.t.Helper()

	wt, err := tr.repo.Worktree()
	require.NoError(tr.t, err)

	_, err = wt.Remove(name)
	require.NoError(tr.t, err)
}

func (tr *testRepo) commit(msg string, when time.Time, parents ...plumbing.Hash) plumbing.Hash {
	tr.t.Helper()

	wt, err := tr.repo.Worktree()
	require.NoError(tr.t, err)

	sig := &object.Signature{Name: "Ada Lovelace", Email: "ada@example.com", When: when}

	hash, err := wt.Commit(msg, &git.CommitOptions{
		Author:    sig,
		Committer: sig,
		Parents:   parents,
	})
	require.NoError(tr.t, err)

	return hash
}

func collectAll(t *testing.T, repo *gitmine.Repository, opts gitmine.CollectOptions) []*gitmine.CommitRecord {
	t.Helper()

	var records []*gitmine.CommitRecord

	err := repo.Collect(context.Background(), opts, func(rec *gitmine.CommitRecord) error {
		records = append(records, rec)

		return nil
	})
	require.NoError(t, err)

	return records
}

func TestOpenDetectsDotGitInParent(t *testing.T) {
	t.Parallel()

	tr := initTestRepo(t)
	tr.write("a.txt", []byte("one\n"))
	tr.commit("feat: start", testEpoch)

	sub := filepath.Join(tr.dir, "nested", "dir")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	repo, err := gitmine.Open(sub)
	require.NoError(t, err)
	assert.NotNil(t, repo)
}

func TestOpenFailsOutsideRepository(t *testing.T) {
	t.Parallel()

	_, err := gitmine.Open(t.TempDir())
	require.Error(t, err)
}

func TestCollectStreamsNewestFirstWithLineStats(t *testing.T) {
	t.Parallel()

	tr := initTestRepo(t)

	tr.write("a.txt", []byte("one\ntwo\nthree\n"))
	c1 := tr.commit("feat: initial import", testEpoch)

	tr.write("a.txt", []byte("one\ntwo\nthree\nfour\nfive\n"))
	c2 := tr.commit("fix: extend contents", testEpoch.Add(time.Hour))

	tr.remove("a.txt")
	tr.write("blob.bin", []byte{0x00, 0x01, 0x02})
	c3 := tr.commit("chore: swap for binary", testEpoch.Add(2*time.Hour))

	repo, err := gitmine.Open(tr.dir)
	require.NoError(t, err)

	records := collectAll(t, repo, gitmine.CollectOptions{})
	require.Len(t, records, 3)

	assert.Equal(t, c3.String(), records[0].Hash)
	assert.Equal(t, c2.String(), records[1].Hash)
	assert.Equal(t, c1.String(), records[2].Hash)

	first := records[2]
	assert.Equal(t, "feat: initial import", first.Message)
	assert.Equal(t, "Ada Lovelace", first.AuthorName)
	assert.Equal(t, "ada@example.com", first.AuthorEmail)
	assert.Equal(t, testEpoch.Unix(), first.AuthorWhen.Unix())
	assert.Equal(t, 3, first.Insertions)
	assert.Equal(t, 0, first.Deletions)
	assert.Equal(t, 1, first.FilesChanged)
	require.Len(t, first.Files, 1)
	assert.Equal(t, gitmine.FileChange{Path: "a.txt", Added: 3}, first.Files[0])

	second := records[1]
	assert.Equal(t, 2, second.Insertions)
	assert.Equal(t, 0, second.Deletions)

	// Deleted text file counts its lines; the binary keeps zero counts.
	third := records[0]
	assert.Equal(t, 0, third.Insertions)
	assert.Equal(t, 5, third.Deletions)
	assert.Equal(t, 2, third.FilesChanged)

	byPath := map[string]gitmine.FileChange{}
	for _, file := range third.Files {
		byPath[file.Path] = file
	}

	assert.Equal(t, gitmine.FileChange{Path: "a.txt", Removed: 5}, byPath["a.txt"])
	assert.Equal(t, gitmine.FileChange{Path: "blob.bin"}, byPath["blob.bin"])
}

func TestCollectMaxCommits(t *testing.T) {
	t.Parallel()

	tr := initTestRepo(t)
	tr.write("a.txt", []byte("one\n"))
	tr.commit("feat: one", testEpoch)
	tr.write("a.txt", []byte("one\ntwo\n"))
	newest := tr.commit("feat: two", testEpoch.Add(time.Hour))

	repo, err := gitmine.Open(tr.dir)
	require.NoError(t, err)

	records := collectAll(t, repo, gitmine.CollectOptions{MaxCommits: 1})
	require.Len(t, records, 1)
	assert.Equal(t, newest.String(), records[0].Hash)
}

func TestCollectSinceFiltersOldCommits(t *testing.T) {
	t.Parallel()

	tr := initTestRepo(t)
	tr.write("a.txt", []byte("one\n"))
	tr.commit("feat: old", testEpoch)
	tr.write("a.txt", []byte("one\ntwo\n"))
	recent := tr.commit("feat: recent", testEpoch.Add(time.Hour))

	repo, err := gitmine.Open(tr.dir)
	require.NoError(t, err)

	records := collectAll(t, repo, gitmine.CollectOptions{Since: testEpoch.Add(30 * time.Minute)})
	require.Len(t, records, 1)
	assert.Equal(t, recent.String(), records[0].Hash)
}

func TestCollectBranchRevision(t *testing.T) {
	t.Parallel()

	tr := initTestRepo(t)
	tr.write("a.txt", []byte("one\n"))
	c1 := tr.commit("feat: one", testEpoch)
	tr.write("a.txt", []byte("one\ntwo\n"))
	tr.commit("feat: two", testEpoch.Add(time.Hour))

	repo, err := gitmine.Open(tr.dir)
	require.NoError(t, err)

	records := collectAll(t, repo, gitmine.CollectOptions{Branch: c1.String()})
	require.Len(t, records, 1)
	assert.Equal(t, c1.String(), records[0].Hash)
}

func TestCollectUnresolvableBranchFails(t *testing.T) {
	t.Parallel()

	tr := initTestRepo(t)
	tr.write("a.txt", []byte("one\n"))
	tr.commit("feat: one", testEpoch)

	repo, err := gitmine.Open(tr.dir)
	require.NoError(t, err)

	err = repo.Collect(context.Background(), gitmine.CollectOptions{Branch: "no-such-branch"}, func(*gitmine.CommitRecord) error {
		return nil
	})
	require.Error(t, err)
}

func TestCollectFirstParentSkipsSideBranch(t *testing.T) {
	t.Parallel()

	tr := initTestRepo(t)

	tr.write("base.txt", []byte("v1\n"))
	c1 := tr.commit("feat: base", testEpoch)

	tr.write("base.txt", []byte("v1\nv2\n"))
	c2 := tr.commit("feat: mainline", testEpoch.Add(time.Hour))

	tr.write("side.txt", []byte("s\n"))
	side := tr.commit("feat: side work", testEpoch.Add(90*time.Minute), c1)

	tr.write("merged.txt", []byte("m\n"))
	merge := tr.commit("chore: merge side", testEpoch.Add(2*time.Hour), c2, side)

	repo, err := gitmine.Open(tr.dir)
	require.NoError(t, err)

	full := collectAll(t, repo, gitmine.CollectOptions{})
	require.Len(t, full, 4)
	assert.True(t, full[0].Merge)
	assert.Equal(t, 2, full[0].Parents)
	assert.Zero(t, full[0].Insertions)
	assert.Empty(t, full[0].Files)

	mainline := collectAll(t, repo, gitmine.CollectOptions{FirstParent: true})
	require.Len(t, mainline, 3)
	assert.Equal(t, merge.String(), mainline[0].Hash)
	assert.Equal(t, c2.String(), mainline[1].Hash)
	assert.Equal(t, c1.String(), mainline[2].Hash)
}

func TestCollectHonorsContextCancellation(t *testing.T) {
	t.Parallel()

	tr := initTestRepo(t)
	tr.write("a.txt", []byte("one\n"))
	tr.commit("feat: one", testEpoch)

	repo, err := gitmine.Open(tr.dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = repo.Collect(ctx, gitmine.CollectOptions{}, func(*gitmine.CommitRecord) error {
		return nil
	})
	require.Error(t, err)
}

func TestParseSince(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{name: "duration", raw: "24h", want: now.Add(-24 * time.Hour)},
		{name: "date", raw: "2024-01-01", want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{name: "rfc3339", raw: "2024-03-01T10:30:00Z", want: time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := gitmine.ParseSince(tc.raw, now)
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "want %s, got %s", tc.want, got)
		})
	}
}

func TestParseSinceRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := gitmine.ParseSince("yesterday", time.Now())
	require.ErrorIs(t, err, gitmine.ErrBadSince)
}
