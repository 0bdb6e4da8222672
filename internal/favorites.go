package internal

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/sirupsen/logrus"
)

const maxRecentFolders = 10

// FavoriteFolder is one saved location.
type FavoriteFolder struct {
	Path     string `json:"path"`
	Name     string `json:"name"`
	LastUsed int64  `json:"last_used"`
}

// FavoritesStore persists favorite and recently used folders as one
// small JSON document. Writes are flock-guarded and go through a temp
// file + rename, so concurrent instances never clobber each other or
// leave a half-written document behind. The search engine does not
// depend on this store.
type FavoritesStore struct {
	path string

	Favorites     []FavoriteFolder `json:"favorites"`
	RecentFolders []FavoriteFolder `json:"recent_folders"`
}

// DefaultFavoritesPath places the document in the user config dir.
func DefaultFavoritesPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "quickfindr", "favorites.json"), nil
}

// LoadFavorites reads the document at path. A missing or corrupt file
// yields a fresh empty store.
func LoadFavorites(path string) *FavoritesStore {
	store := &FavoritesStore{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		return store
	}
	if err := json.Unmarshal(data, store); err != nil {
		logrus.WithError(err).WithField("file", path).Warn("corrupt favorites file, starting fresh")
		return &FavoritesStore{path: path}
	}
	return store
}

// Save writes the document atomically under a file lock.
func (s *FavoritesStore) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	lock := flock.New(s.path + ".lock")
	if err := lock.Lock(); err != nil {
		return err
	}
	defer lock.Unlock()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

// AddFavorite stores a folder once; duplicates by path are ignored.
func (s *FavoritesStore) AddFavorite(path, name string) error {
	for _, f := range s.Favorites {
		if f.Path == path {
			return nil
		}
	}
	s.Favorites = append(s.Favorites, FavoriteFolder{
		Path:     path,
		Name:     name,
		LastUsed: time.Now().Unix(),
	})
	return s.Save()
}

func (s *FavoritesStore) RemoveFavorite(path string) error {
	kept := s.Favorites[:0]
	for _, f := range s.Favorites {
		if f.Path != path {
			kept = append(kept, f)
		}
	}
	s.Favorites = kept
	return s.Save()
}

// AddRecent pushes a folder to the front of the recents list, dropping
// any earlier entry for the same path and keeping the newest
// maxRecentFolders.
func (s *FavoritesStore) AddRecent(path string) error {
	kept := make([]FavoriteFolder, 0, len(s.RecentFolders)+1)
	kept = append(kept, FavoriteFolder{
		Path:     path,
		Name:     folderName(path),
		LastUsed: time.Now().Unix(),
	})
	for _, f := range s.RecentFolders {
		if f.Path != path {
			kept = append(kept, f)
		}
	}
	if len(kept) > maxRecentFolders {
		kept = kept[:maxRecentFolders]
	}
	s.RecentFolders = kept
	return s.Save()
}

// UpdateLastUsed stamps the entry in both lists.
func (s *FavoritesStore) UpdateLastUsed(path string) error {
	now := time.Now().Unix()
	for i := range s.Favorites {
		if s.Favorites[i].Path == path {
			s.Favorites[i].LastUsed = now
		}
	}
	for i := range s.RecentFolders {
		if s.RecentFolders[i].Path == path {
			s.RecentFolders[i].LastUsed = now
		}
	}
	return s.Save()
}

func folderName(path string) string {
	if name := filepath.Base(path); name != "." && name != string(filepath.Separator) {
		return name
	}
	return path
}
