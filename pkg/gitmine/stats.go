package gitmine

import (
	"bytes"
	"context"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// diffTimeout caps a single file diff; pathological inputs degrade to a
// coarser diff instead of stalling the walk.
const diffTimeout = time.Second

// fileChanges diffs a commit against its first parent (or the empty tree for
// root commits) and returns per-file line deltas.
func (r *Repository) fileChanges(ctx context.Context, commit *object.Commit) ([]FileChange, error) {
	toTree, err := commit.Tree()
	if err != nil {
		return nil, err
	}

	var fromTree *object.Tree

	if commit.NumParents() > 0 {
		parent, parentErr := commit.Parent(0)
		if parentErr != nil {
			return nil, parentErr
		}

		fromTree, err = parent.Tree()
		if err != nil {
			return nil, err
		}
	}

	changes, err := object.DiffTreeWithOptions(ctx, fromTree, toTree, object.DefaultDiffTreeOptions)
	if err != nil {
		return nil, err
	}

	files := make([]FileChange, 0, len(changes))

	for _, change := range changes {
		file, ok := r.lineStats(change)
		if !ok {
			continue
		}

		files = append(files, file)
	}

	return files, nil
}

// lineStats computes the line delta of one change. Binary blobs keep the
// path with zero counts, like numstat's "-" columns.
func (r *Repository) lineStats(change *object.Change) (FileChange, bool) {
	action, err := change.Action()
	if err != nil {
		return FileChange{}, false
	}

	switch action {
	case merkletrie.Insert:
		content, text := r.blobText(change.To.TreeEntry.Hash)
		if !text {
			return FileChange{Path: change.To.Name}, true
		}

		return FileChange{Path: change.To.Name, Added: countLines(content)}, true

	case merkletrie.Delete:
		content, text := r.blobText(change.From.TreeEntry.Hash)
		if !text {
			return FileChange{Path: change.From.Name}, true
		}

		return FileChange{Path: change.From.Name, Removed: countLines(content)}, true

	case merkletrie.Modify:
		from, fromText := r.blobText(change.From.TreeEntry.Hash)
		to, toText := r.blobText(change.To.TreeEntry.Hash)

		if !fromText || !toText {
			return FileChange{Path: change.To.Name}, true
		}

		added, removed := diffLineCounts(from, to)

		return FileChange{Path: change.To.Name, Added: added, Removed: removed}, true
	}

	return FileChange{}, false
}

// blobText loads a blob and reports whether it is text. Blobs containing a
// NUL byte count as binary.
func (r *Repository) blobText(hash plumbing.Hash) (string, bool) {
	blob, err := r.inner.BlobObject(hash)
	if err != nil {
		return "", false
	}

	reader, err := blob.Reader()
	if err != nil {
		return "", false
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", false
	}

	if bytes.IndexByte(data, 0) >= 0 {
		return "", false
	}

	return string(data), true
}

// diffLineCounts runs a line-mode diff: DiffLinesToRunes maps each line to
// one rune, so rune counts of insert/delete edits are line counts.
func diffLineCounts(from, to string) (added, removed int) {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = diffTimeout

	src, dst, _ := dmp.DiffLinesToRunes(from, to)

	for _, edit := range dmp.DiffMainRunes(src, dst, false) {
		switch edit.Type {
		case diffmatchpatch.DiffInsert:
			added += utf8.RuneCountInString(edit.Text)
		case diffmatchpatch.DiffDelete:
			removed += utf8.RuneCountInString(edit.Text)
		case diffmatchpatch.DiffEqual:
		}
	}

	return added, removed
}

func countLines(content string) int {
	if content == "" {
		return 0
	}

	lines := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		lines++
	}

	return lines
}
