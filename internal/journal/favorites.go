package journal

import "context"

const (
	commitMsgUpdateFavorites = "chore: 즐겨찾기 업데이트"
)

// favoritesDoc is the wire shape of the favorites document.
type favoritesDoc struct {
	Paths []string `json:"paths"`
}

// Favorites manages the bookmarked-entry list persisted in the repository.
type Favorites struct {
	backend Backend
	logger  Logger
}

// NewFavorites creates a Favorites service over the given backend.
func NewFavorites(backend Backend, logger Logger) *Favorites {
	return &Favorites{backend: backend, logger: logger}
}

// List returns the favorite paths. An absent document is KindConfigNotFound.
func (f *Favorites) List(ctx context.Context) ([]string, error) {
	paths, _, err := f.load(ctx)
	return paths, err
}

// Add bookmarks an entry path. Duplicates and paths unknown to the cache are
// rejected as validation errors.
func (f *Favorites) Add(ctx context.Context, cache *Cache, path string) error {
	if _, ok := cache.Get(path); !ok {
		return rejectEdit(msgNonExistentFile)
	}

	paths, sha, err := f.load(ctx)
	if err != nil && !IsKind(err, KindConfigNotFound) {
		return err
	}

	for _, p := range paths {
		if p == path {
			return rejectEdit(msgAlreadyFavorite)
		}
	}

	paths = append(paths, path)
	if err := writeDocument(ctx, f.backend, FavoritesDocPath, commitMsgUpdateFavorites, favoritesDoc{Paths: paths}, sha); err != nil {
		return err
	}
	f.logger.Info("favorite added", "path", path)
	return nil
}

// Remove drops an entry path from the favorites, if present.
func (f *Favorites) Remove(ctx context.Context, path string) error {
	paths, sha, err := f.load(ctx)
	if err != nil {
		return err
	}

	kept := paths[:0]
	for _, p := range paths {
		if p != path {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(paths) {
		return nil
	}

	if err := writeDocument(ctx, f.backend, FavoritesDocPath, commitMsgUpdateFavorites, favoritesDoc{Paths: kept}, sha); err != nil {
		return err
	}
	f.logger.Info("favorite removed", "path", path)
	return nil
}

func (f *Favorites) load(ctx context.Context) ([]string, string, error) {
	var doc favoritesDoc
	sha, err := readDocument(ctx, f.backend, FavoritesDocPath, &doc)
	if err != nil {
		return nil, "", err
	}
	return doc.Paths, sha, nil
}
