package edgar

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FilingCache is file-based caching for downloaded submissions. Complete
// submissions run to tens of megabytes, so they are cached on disk rather
// than in memory, keyed by CIK and accession number.
type FilingCache struct {
	cacheDir string
}

// NewFilingCache creates a cache under .cache/edgar/filings in the current
// working directory.
func NewFilingCache() *FilingCache {
	return NewFilingCacheWithDir(filepath.Join(".cache", "edgar", "filings"))
}

// NewFilingCacheWithDir creates a cache with a custom directory.
func NewFilingCacheWithDir(dir string) *FilingCache {
	os.MkdirAll(dir, 0755)
	return &FilingCache{cacheDir: dir}
}

func (c *FilingCache) cacheKey(cik, accession string) string {
	accession = strings.ReplaceAll(accession, "-", "")
	return fmt.Sprintf("%s_%s", strings.TrimLeft(cik, "0"), accession)
}

func (c *FilingCache) filePath(key string) string {
	return filepath.Join(c.cacheDir, key+".txt")
}

// Get retrieves a cached submission. The second return reports a hit.
func (c *FilingCache) Get(cik, accession string) (string, bool) {
	data, err := os.ReadFile(c.filePath(c.cacheKey(cik, accession)))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Set stores a submission in the cache.
func (c *FilingCache) Set(cik, accession, content string) error {
	return os.WriteFile(c.filePath(c.cacheKey(cik, accession)), []byte(content), 0644)
}

// Has checks whether a submission is cached.
func (c *FilingCache) Has(cik, accession string) bool {
	_, err := os.Stat(c.filePath(c.cacheKey(cik, accession)))
	return err == nil
}

// Dir returns the cache directory path.
func (c *FilingCache) Dir() string {
	return c.cacheDir
}

// Clear removes all cached submissions.
func (c *FilingCache) Clear() error {
	entries, err := os.ReadDir(c.cacheDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(c.cacheDir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}
