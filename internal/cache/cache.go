// Package cache keeps a local copy of the last-synced binder so the app can
// open instantly and survive the server being unreachable.
package cache

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/peterbourgon/diskv/v3"

	"github.com/cardbinder/cardbinder/pkg/domain"
)

// ErrMiss is returned by LoadDocument when no snapshot exists for the user.
var ErrMiss = errors.New("cache: no snapshot")

// Cache stores one binder document per user id under a diskv base path.
type Cache struct {
	d *diskv.Diskv
}

// Open creates the cache under dir, typically ~/.cache/cardbinder.
func Open(dir string) (*Cache, error) {
	if dir == "" {
		return nil, errors.New("cache.Open: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache.Open: %w", err)
	}
	return &Cache{d: diskv.New(diskv.Options{
		BasePath:     dir,
		Transform:    func(string) []string { return nil },
		CacheSizeMax: 1024 * 1024, // 1MB
	})}, nil
}

// DefaultDir returns the cache directory for the current user.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("cache.DefaultDir: %w", err)
	}
	return filepath.Join(base, "cardbinder"), nil
}

// LoadDocument reads the cached snapshot for userID. Returns ErrMiss when
// the user has never synced on this machine.
func (c *Cache) LoadDocument(userID string) (domain.Document, error) {
	data, err := c.d.Read(userKey(userID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Document{}, ErrMiss
		}
		return domain.Document{}, fmt.Errorf("cache.LoadDocument: %w", err)
	}
	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.Document{}, fmt.Errorf("cache.LoadDocument: %w", err)
	}
	return doc, nil
}

// SaveDocument writes doc as the cached snapshot for userID.
func (c *Cache) SaveDocument(userID string, doc domain.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("cache.SaveDocument: %w", err)
	}
	if err := c.d.Write(userKey(userID), data); err != nil {
		return fmt.Errorf("cache.SaveDocument: %w", err)
	}
	return nil
}

// Delete removes the cached snapshot for userID. Missing snapshots are not
// an error; logout calls this unconditionally.
func (c *Cache) Delete(userID string) error {
	err := c.d.Erase(userKey(userID))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("cache.Delete: %w", err)
	}
	return nil
}

// profileKey holds the last authenticated profile so startup can resolve
// the user while the API is unreachable.
const profileKey = "profile.json"

// LoadProfile reads the cached user profile. Returns ErrMiss when no
// login has completed on this machine.
func (c *Cache) LoadProfile() (domain.User, error) {
	data, err := c.d.Read(profileKey)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.User{}, ErrMiss
		}
		return domain.User{}, fmt.Errorf("cache.LoadProfile: %w", err)
	}
	var u domain.User
	if err := json.Unmarshal(data, &u); err != nil {
		return domain.User{}, fmt.Errorf("cache.LoadProfile: %w", err)
	}
	return u, nil
}

// SaveProfile writes the authenticated user profile.
func (c *Cache) SaveProfile(u domain.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("cache.SaveProfile: %w", err)
	}
	if err := c.d.Write(profileKey, data); err != nil {
		return fmt.Errorf("cache.SaveProfile: %w", err)
	}
	return nil
}

// DeleteProfile removes the cached user profile.
func (c *Cache) DeleteProfile() error {
	err := c.d.Erase(profileKey)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("cache.DeleteProfile: %w", err)
	}
	return nil
}

// userKey encodes the user id so arbitrary provider ids stay filename-safe.
func userKey(userID string) string {
	return base64.URLEncoding.EncodeToString([]byte(userID)) + ".json"
}
