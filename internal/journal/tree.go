package journal

import (
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// TreeNode is one node of the derived file tree: either a folder with
// children or a leaf referencing a cached record. The tree is rebuilt from
// the full record set on every cache change and is never authoritative.
type TreeNode struct {
	Name     string
	Path     string
	Folder   bool
	Children []*TreeNode

	// Leaf fields, mirrored from the record.
	State   RemoteState
	SavedAt *time.Time
}

// BuildTree derives a nested folder/file tree from the flat record set.
// Folder nodes are shared across records via a cumulative-path lookup, so
// the result is O(n · depth). Input records are not mutated.
func BuildTree(records []FileRecord) []*TreeNode {
	var tree []*TreeNode
	folders := make(map[string]*TreeNode)

	for _, rec := range records {
		segments := splitPath(rec.Path)
		fileName := segments[len(segments)-1]
		parents := segments[:len(segments)-1]

		level := &tree
		currentPath := ""

		for _, folderName := range parents {
			if currentPath == "" {
				currentPath = folderName
			} else {
				currentPath = currentPath + "/" + folderName
			}

			folder, ok := folders[currentPath]
			if !ok {
				folder = &TreeNode{Name: folderName, Path: currentPath, Folder: true}
				folders[currentPath] = folder
				*level = append(*level, folder)
			}
			level = &folder.Children
		}

		*level = append(*level, &TreeNode{
			Name:    fileName,
			Path:    rec.Path,
			State:   rec.State,
			SavedAt: rec.SavedAt,
		})
	}

	return tree
}

// SortDescending returns a copy of the tree with siblings at every level
// ordered by name descending under Korean collation, so the newest
// month/week/day sorts first. Sorting an already-sorted tree is a no-op.
func SortDescending(nodes []*TreeNode) []*TreeNode {
	c := collate.New(language.Korean)
	return sortDescending(c, nodes)
}

func sortDescending(c *collate.Collator, nodes []*TreeNode) []*TreeNode {
	sorted := make([]*TreeNode, len(nodes))
	copy(sorted, nodes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return c.CompareString(sorted[j].Name, sorted[i].Name) < 0
	})

	for i, node := range sorted {
		if node.Children == nil {
			continue
		}
		clone := *node
		clone.Children = sortDescending(c, node.Children)
		sorted[i] = &clone
	}
	return sorted
}

func splitPath(path string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(path); i++ {
		if path[i] == '/' {
			parts = append(parts, path[start:i])
			start = i + 1
		}
	}
	return append(parts, path[start:])
}
