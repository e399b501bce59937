// Package avatars stores user profile images on the local filesystem.
package avatars

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Storage manages avatar filesystem operations.
// Thread-safe for concurrent operations.
type Storage struct {
	basePath string
	mu       sync.RWMutex // Protects file operations
}

// maxAvatarBytes caps uploads at 2 MiB.
const maxAvatarBytes = 2 << 20

// NewStorage creates a Storage rooted at {basePath}/avatars/.
func NewStorage(basePath string) (*Storage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}

	storagePath := filepath.Join(basePath, "avatars")
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create avatars directory: %w", err)
	}

	return &Storage{basePath: storagePath}, nil
}

// Save stores avatar data for a user, replacing any previous avatar.
// Returns the URL path the image is served from.
func (s *Storage) Save(userID string, imgData []byte) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("user ID cannot be empty")
	}
	if len(imgData) == 0 {
		return "", fmt.Errorf("image data cannot be empty")
	}
	if len(imgData) > maxAvatarBytes {
		return "", fmt.Errorf("image exceeds %d byte limit", maxAvatarBytes)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.Path(userID), imgData, 0644); err != nil {
		return "", fmt.Errorf("failed to write avatar file: %w", err)
	}

	return URLPath(userID), nil
}

// Get retrieves avatar data for a user.
func (s *Storage) Get(userID string) ([]byte, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.Path(userID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("avatar not found for %s: %w", userID, err)
		}
		return nil, fmt.Errorf("failed to read avatar file: %w", err)
	}

	return data, nil
}

// Exists checks if an avatar exists for a user.
func (s *Storage) Exists(userID string) bool {
	if userID == "" {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(s.Path(userID))
	return err == nil
}

// Delete removes a user's avatar. Idempotent.
func (s *Storage) Delete(userID string) error {
	if userID == "" {
		return fmt.Errorf("user ID cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path(userID)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete avatar file: %w", err)
	}

	return nil
}

// Hash computes the SHA256 hash of a user's avatar.
// Returns a hex-encoded string for ETag/cache validation.
func (s *Storage) Hash(userID string) (string, error) {
	data, err := s.Get(userID)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}

// Path returns the full filesystem path for a user's avatar.
func (s *Storage) Path(userID string) string {
	return filepath.Join(s.basePath, fmt.Sprintf("%s.jpg", userID))
}

// URLPath returns the API path an avatar is served from.
func URLPath(userID string) string {
	return "/api/v1/users/" + userID + "/avatar"
}
