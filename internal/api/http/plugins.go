package http

import (
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adi-os/plugin-registry/internal/domain/registry"
	"github.com/adi-os/plugin-registry/internal/shared/types"
	"github.com/adi-os/plugin-registry/internal/shared/utils"
)

// webAssetCacheControl matches the published-once, content-addressed
// nature of versioned assets.
const webAssetCacheControl = "public, max-age=31536000, immutable"

// GetPluginVersion serves one plugin version document. The version
// route parameter is either "latest.json" or "<version>.json".
func (h *Handlers) GetPluginVersion(c *gin.Context) {
	id := c.Param("id")
	version := c.Param("version")

	if version == "latest.json" {
		info, err := h.store.GetPluginLatest(id)
		if err != nil {
			h.fail(c, "get plugin latest", err)
			return
		}
		c.JSON(http.StatusOK, info)
		return
	}

	info, err := h.store.GetPluginInfo(id, strings.TrimSuffix(version, ".json"))
	if err != nil {
		h.fail(c, "get plugin info", err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// DownloadPluginArtifact streams a stored plugin build, or the web
// asset when the platform parameter is "web.js".
func (h *Handlers) DownloadPluginArtifact(c *gin.Context) {
	h.serveArtifact(c, types.KindPlugin)
}

// PublishPlugin accepts one platform build for a plugin version, or the
// web asset when the platform parameter is "web".
func (h *Handlers) PublishPlugin(c *gin.Context) {
	id := c.Param("id")
	version := c.Param("version")
	platform := c.Param("platform")

	if platform == "web" {
		h.publishWebAsset(c, id, version)
		return
	}

	data, err := readUpload(c)
	if err != nil {
		h.recordPublish(types.KindPlugin, "rejected", 0)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pub := registry.PluginPublication{
		ID:          id,
		Name:        c.DefaultQuery("name", id),
		Description: c.Query("description"),
		PluginType:  c.DefaultQuery("plugin_type", "extension"),
		Version:     version,
		Platform:    platform,
		Author:      c.Query("author"),
		Tags:        splitTags(c.Query("tags")),
		Data:        data,
	}

	if err := h.store.PublishPlugin(pub); err != nil {
		h.recordPublish(types.KindPlugin, "failed", 0)
		h.failPublish(c, "publish plugin", err)
		return
	}

	h.recordPublish(types.KindPlugin, "ok", int64(len(data)))
	c.JSON(http.StatusCreated, gin.H{
		"status":   "published",
		"id":       id,
		"version":  version,
		"platform": platform,
	})
}

// publishWebAsset stores the raw JS body as the version's web entry point.
func (h *Handlers) publishWebAsset(c *gin.Context, id, version string) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "read body: " + err.Error()})
		return
	}

	if err := h.store.PublishPluginWebAsset(id, version, data); err != nil {
		h.failPublish(c, "publish web asset", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "published",
		"id":      id,
		"version": version,
		"asset":   "web.js",
	})
}

// serveWebAsset delivers a plugin's browser entry point with long-lived
// caching headers. Web assets are public by contract.
func (h *Handlers) serveWebAsset(c *gin.Context, id, version string) {
	if err := utils.ValidateID(id, "plugin id"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateVersion(version); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	path := h.store.PluginWebAssetPath(id, version)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		h.fail(c, "open web asset", err)
		return
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		h.fail(c, "stat web asset", err)
		return
	}

	c.DataFromReader(http.StatusOK, st.Size(), "application/javascript", f, map[string]string{
		"Cache-Control":               webAssetCacheControl,
		"Access-Control-Allow-Origin": "*",
	})
}
