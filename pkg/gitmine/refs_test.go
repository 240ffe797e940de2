package gitmine_test

import (
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowstack/gitglow/pkg/gitmine"
)

func TestTagsSortedByTimeWithAnnotations(t *testing.T) {
	t.Parallel()

	tr := initTestRepo(t)

	tr.write("a.txt", []byte("one\n"))
	c1 := tr.commit("feat: one", testEpoch)

	tr.write("a.txt", []byte("one\ntwo\n"))
	c2 := tr.commit("feat: two", testEpoch.Add(time.Hour))

	_, err := tr.repo.CreateTag("v0.1.0", c1, nil)
	require.NoError(t, err)

	_, err = tr.repo.CreateTag("v0.2.0", c2, &git.CreateTagOptions{
		Tagger:  &object.Signature{Name: "Release Bot", Email: "rel@example.com", When: testEpoch.Add(2 * time.Hour)},
		Message: "second release\n",
	})
	require.NoError(t, err)

	repo, err := gitmine.Open(tr.dir)
	require.NoError(t, err)

	tags, err := repo.Tags()
	require.NoError(t, err)
	require.Len(t, tags, 2)

	lightweight := tags[0]
	assert.Equal(t, "v0.1.0", lightweight.Name)
	assert.Equal(t, c1.String(), lightweight.Hash)
	assert.Equal(t, testEpoch.Unix(), lightweight.When.Unix())
	assert.Empty(t, lightweight.Tagger)

	annotated := tags[1]
	assert.Equal(t, "v0.2.0", annotated.Name)
	assert.Equal(t, c2.String(), annotated.Hash)
	assert.Equal(t, testEpoch.Add(2*time.Hour).Unix(), annotated.When.Unix())
	assert.Equal(t, "Release Bot", annotated.Tagger)
	assert.Equal(t, "second release", annotated.Message)
}

func TestTagsEmptyRepository(t *testing.T) {
	t.Parallel()

	tr := initTestRepo(t)
	tr.write("a.txt", []byte("one\n"))
	tr.commit("feat: one", testEpoch)

	repo, err := gitmine.Open(tr.dir)
	require.NoError(t, err)

	tags, err := repo.Tags()
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestBranchesSortedByName(t *testing.T) {
	t.Parallel()

	tr := initTestRepo(t)

	tr.write("a.txt", []byte("one\n"))
	head := tr.commit("feat: one", testEpoch)

	devRef := plumbing.NewHashReference(plumbing.NewBranchReferenceName("dev"), head)
	require.NoError(t, tr.repo.Storer.SetReference(devRef))

	repo, err := gitmine.Open(tr.dir)
	require.NoError(t, err)

	branches, err := repo.Branches()
	require.NoError(t, err)
	require.Len(t, branches, 2)

	assert.Equal(t, "dev", branches[0].Name)
	assert.Equal(t, "master", branches[1].Name)
	assert.Equal(t, head.String(), branches[0].Hash)
	assert.Equal(t, testEpoch.Unix(), branches[0].When.Unix())
}
