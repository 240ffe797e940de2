package gitmine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
)

// TagRef is one tag resolved to the commit it points at. Annotated tags
// carry their tagger and message; lightweight tags fall back to the commit's
// committer time.
type TagRef struct {
	Name    string    `json:"name"`
	Hash    string    `json:"hash"`
	When    time.Time `json:"when"`
	Tagger  string    `json:"tagger,omitempty"`
	Message string    `json:"message,omitempty"`
}

// BranchRef is one local branch head.
type BranchRef struct {
	Name string    `json:"name"`
	Hash string    `json:"hash"`
	When time.Time `json:"when"`
}

// Tags returns all tags sorted by time ascending, name as tie-break. Tags
// that do not resolve to a commit are skipped.
func (r *Repository) Tags() ([]TagRef, error) {
	iter, err := r.inner.Tags()
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer iter.Close()

	var tags []TagRef

	err = iter.ForEach(func(ref *plumbing.Reference) error {
		tag, resolveErr := r.resolveTag(ref)
		if resolveErr != nil {
			return nil
		}

		tags = append(tags, tag)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate tags: %w", err)
	}

	sort.Slice(tags, func(i, j int) bool {
		if !tags[i].When.Equal(tags[j].When) {
			return tags[i].When.Before(tags[j].When)
		}

		return tags[i].Name < tags[j].Name
	})

	return tags, nil
}

func (r *Repository) resolveTag(ref *plumbing.Reference) (TagRef, error) {
	tag := TagRef{Name: ref.Name().Short()}

	if tagObj, err := r.inner.TagObject(ref.Hash()); err == nil {
		commit, commitErr := tagObj.Commit()
		if commitErr != nil {
			return TagRef{}, commitErr
		}

		tag.Hash = commit.Hash.String()
		tag.When = tagObj.Tagger.When
		tag.Tagger = tagObj.Tagger.Name
		tag.Message = strings.TrimSpace(tagObj.Message)

		return tag, nil
	}

	commit, err := r.inner.CommitObject(ref.Hash())
	if err != nil {
		return TagRef{}, err
	}

	tag.Hash = commit.Hash.String()
	tag.When = commit.Committer.When

	return tag, nil
}

// Branches returns all local branch heads sorted by name.
func (r *Repository) Branches() ([]BranchRef, error) {
	iter, err := r.inner.Branches()
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	defer iter.Close()

	var branches []BranchRef

	err = iter.ForEach(func(ref *plumbing.Reference) error {
		branch := BranchRef{Name: ref.Name().Short(), Hash: ref.Hash().String()}

		if commit, commitErr := r.inner.CommitObject(ref.Hash()); commitErr == nil {
			branch.When = commit.Committer.When
		}

		branches = append(branches, branch)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate branches: %w", err)
	}

	sort.Slice(branches, func(i, j int) bool { return branches[i].Name < branches[j].Name })

	return branches, nil
}
