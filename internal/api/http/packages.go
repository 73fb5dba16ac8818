package http

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adi-os/plugin-registry/internal/domain/registry"
	"github.com/adi-os/plugin-registry/internal/shared/types"
	"github.com/adi-os/plugin-registry/internal/shared/utils"
)

// GetPackageVersion serves one package version document. The version
// route parameter is either "latest.json" or "<version>.json".
func (h *Handlers) GetPackageVersion(c *gin.Context) {
	id := c.Param("id")
	version := c.Param("version")

	if version == "latest.json" {
		info, err := h.store.GetPackageLatest(id)
		if err != nil {
			h.fail(c, "get package latest", err)
			return
		}
		c.JSON(http.StatusOK, info)
		return
	}

	info, err := h.store.GetPackageInfo(id, strings.TrimSuffix(version, ".json"))
	if err != nil {
		h.fail(c, "get package info", err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// DownloadPackageArtifact streams a stored package build and records
// the download asynchronously.
func (h *Handlers) DownloadPackageArtifact(c *gin.Context) {
	h.serveArtifact(c, types.KindPackage)
}

// PublishPackage accepts one platform build for a package version.
// The artifact arrives as multipart field "file" or as the raw body.
func (h *Handlers) PublishPackage(c *gin.Context) {
	id := c.Param("id")
	version := c.Param("version")
	platform := c.Param("platform")

	data, err := readUpload(c)
	if err != nil {
		h.recordPublish(types.KindPackage, "rejected", 0)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pub := registry.PackagePublication{
		ID:          id,
		Name:        c.DefaultQuery("name", id),
		Description: c.Query("description"),
		Version:     version,
		Platform:    platform,
		Author:      c.Query("author"),
		Tags:        splitTags(c.Query("tags")),
		Data:        data,
	}

	if err := h.store.PublishPackage(pub); err != nil {
		h.recordPublish(types.KindPackage, "failed", 0)
		h.failPublish(c, "publish package", err)
		return
	}

	h.recordPublish(types.KindPackage, "ok", int64(len(data)))
	c.JSON(http.StatusCreated, gin.H{
		"status":   "published",
		"id":       id,
		"version":  version,
		"platform": platform,
	})
}

// serveArtifact streams a platform build for either kind. The platform
// route parameter carries a ".tar.gz" suffix.
func (h *Handlers) serveArtifact(c *gin.Context, kind types.Kind) {
	id := c.Param("id")
	version := c.Param("version")
	platform := c.Param("platform")

	if kind == types.KindPlugin && platform == "web.js" {
		h.serveWebAsset(c, id, version)
		return
	}
	platform = strings.TrimSuffix(platform, ".tar.gz")

	if err := validateArtifactParams(id, version, platform); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	path := h.store.ArtifactPath(kind, id, version, platform)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		h.fail(c, "open artifact", err)
		return
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		h.fail(c, "stat artifact", err)
		return
	}

	if h.counter != nil {
		h.counter.Record(kind, id)
	}
	if h.metrics != nil {
		h.metrics.RecordDownload(kind.URLSegment())
	}

	disposition := fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("%s-%s-%s.tar.gz", id, version, platform))
	c.DataFromReader(http.StatusOK, st.Size(), "application/gzip", f, map[string]string{
		"Content-Disposition": disposition,
	})
}

// readUpload extracts the artifact payload from a publish request.
func readUpload(c *gin.Context) ([]byte, error) {
	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("open upload: %w", err)
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("read upload: %w", err)
		}
		return data, nil
	}

	// Raw body fallback for clients that skip multipart.
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return data, nil
}

// failPublish maps publish errors, treating validation faults as 400.
func (h *Handlers) failPublish(c *gin.Context, op string, err error) {
	if utils.IsValidationError(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.fail(c, op, err)
}

func (h *Handlers) recordPublish(kind types.Kind, status string, size int64) {
	if h.metrics != nil {
		h.metrics.RecordPublish(kind.URLSegment(), status, size)
	}
}

func validateArtifactParams(id, version, platform string) error {
	if err := utils.ValidateID(id, "id"); err != nil {
		return err
	}
	if err := utils.ValidateVersion(version); err != nil {
		return err
	}
	return utils.ValidatePlatform(platform)
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
