package middleware

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// DashboardAssets are the static files referenced by the page templates,
// relative to the static directory.
var DashboardAssets = []string{
	"css/dashboard.css",
	"js/dashboard.js",
}

var (
	assetVersions   = map[string]string{}
	assetVersionsMu sync.RWMutex
)

// InitAssetVersions computes file hashes for cache busting at startup
func InitAssetVersions(staticDir string) {
	versions := make(map[string]string, len(DashboardAssets))
	for _, name := range DashboardAssets {
		if version := computeFileHash(filepath.Join(staticDir, name)); version != "" {
			versions[name] = version
		}
	}

	assetVersionsMu.Lock()
	assetVersions = versions
	assetVersionsMu.Unlock()

	log.Printf("[INFO] Asset versions initialized: %d files", len(versions))
}

// computeFileHash returns the first 8 characters of the MD5 hash of a file
func computeFileHash(path string) string {
	file, err := os.Open(path)
	if err != nil {
		log.Printf("[WARNING] Failed to open file for hashing %s: %v", path, err)
		return ""
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		log.Printf("[WARNING] Failed to hash file %s: %v", path, err)
		return ""
	}

	return hex.EncodeToString(hash.Sum(nil))[:8]
}

// AssetVersion returns the version hash of a static file, "1" if unknown
func AssetVersion(name string) string {
	assetVersionsMu.RLock()
	defer assetVersionsMu.RUnlock()
	if v, ok := assetVersions[name]; ok {
		return v
	}
	return "1"
}

// AssetURL returns the public URL of a static file with its version query
func AssetURL(name string) string {
	return "/static/" + name + "?v=" + AssetVersion(name)
}
