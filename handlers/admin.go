package handlers

import (
	"log"
	"net/http"

	"traffic-hotspot-api/bundle"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	registry *bundle.Registry
	store    bundle.Store
}

func NewAdminHandler(registry *bundle.Registry, store bundle.Store) *AdminHandler {
	return &AdminHandler{registry: registry, store: store}
}

// Reload loads the bundle again from the configured store. On failure the
// bundle already being served stays current.
func (h *AdminHandler) Reload(c *gin.Context) {
	log.Printf("reload requested by %s", c.GetString("subject"))

	b, err := h.registry.Reload(c.Request.Context(), h.store)
	if err != nil {
		resp := gin.H{"error": err.Error()}
		if cur := h.registry.Current(); cur != nil {
			resp["model_version"] = cur.Version
		}
		c.JSON(http.StatusInternalServerError, resp)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"model_version": b.Version,
		"source":        b.Source,
		"loaded_at":     b.LoadedAt,
		"categories":    b.Schema.Len(),
	})
}
