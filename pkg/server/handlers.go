package server

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/timeglass/tfoods/pkg/common/errors"
	"github.com/timeglass/tfoods/pkg/game"
	"github.com/timeglass/tfoods/pkg/registry"
	"github.com/timeglass/tfoods/pkg/search"
	"github.com/timeglass/tfoods/pkg/service"
)

// handleInstances returns the list of available game instances.
func (s *Server) handleInstances(c *gin.Context) {
	instances, err := s.manager.ListInstances()
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, instances)
}

// instanceService resolves the ?instance= parameter, falling back to the
// first available instance when omitted.
func (s *Server) instanceService(c *gin.Context) (*service.BuffService, error) {
	instanceID := c.Query("instance")
	if instanceID == "" {
		instances, err := s.manager.ListInstances()
		if err == nil && len(instances) > 0 {
			instanceID = instances[0].ID
		}
	}
	if instanceID == "" {
		return nil, errors.NewAppError(http.StatusBadRequest, "No instance available", nil)
	}
	svc, err := s.manager.GetService(instanceID)
	if err != nil {
		return nil, errors.NewAppError(http.StatusNotFound, err.Error(), err)
	}
	return svc, nil
}

// handleNodes provides node id search/autocomplete over the index.
func (s *Server) handleNodes(c *gin.Context) {
	svc, err := s.instanceService(c)
	if err != nil {
		handleError(c, err)
		return
	}

	ids := svc.Index().NodeIDs
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusOK, gin.H{"nodes": ids})
		return
	}

	limit := 25
	if l, err := strconv.Atoi(c.DefaultQuery("limit", "")); err == nil && l > 0 {
		limit = l
	}
	if limit > 100 {
		limit = 100
	}

	matches := search.Suggest(query, ids, limit)
	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

// handleNode returns the raw stored node for a given id.
func (s *Server) handleNode(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		handleError(c, errors.NewAppError(http.StatusBadRequest, "Missing id parameter", nil))
		return
	}

	svc, err := s.instanceService(c)
	if err != nil {
		handleError(c, err)
		return
	}

	node, err := svc.Resolver().Source().GetNode(id)
	if err != nil {
		if stderrors.Is(err, registry.ErrNodeAbsent) {
			handleError(c, errors.NewAppError(http.StatusNotFound, err.Error(), err))
			return
		}
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, node)
}

// handleResolve returns the effective buff map for an item id, direct and
// tag contributions merged.
func (s *Server) handleResolve(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		handleError(c, errors.NewAppError(http.StatusBadRequest, "Missing id parameter", nil))
		return
	}

	svc, err := s.instanceService(c)
	if err != nil {
		handleError(c, err)
		return
	}

	buffs := svc.EffectiveBuffsForItem(game.Item{ID: id, Count: 1})
	c.JSON(http.StatusOK, gin.H{"id": id, "buffs": buffs})
}

// handleEat simulates the consume hook and returns the applications the
// game bridge would roll chances for.
func (s *Server) handleEat(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		handleError(c, errors.NewAppError(http.StatusBadRequest, "Missing id parameter", nil))
		return
	}

	count := 1
	if n, err := strconv.Atoi(c.DefaultQuery("count", "1")); err == nil && n > 0 {
		count = n
	}

	svc, err := s.instanceService(c)
	if err != nil {
		handleError(c, err)
		return
	}

	apps := svc.OnItemEaten(game.Item{ID: id, Count: count})
	if apps == nil {
		apps = []game.EffectApplication{}
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "effects": apps})
}

// handleIndexStats returns startup index diagnostics for an instance.
func (s *Server) handleIndexStats(c *gin.Context) {
	svc, err := s.instanceService(c)
	if err != nil {
		handleError(c, err)
		return
	}

	idx := svc.Index()
	c.JSON(http.StatusOK, gin.H{
		"node_count":      len(idx.NodeIDs),
		"manifest_source": idx.ManifestSource,
		"tag_rules":       len(idx.TagRules),
		"excluded_tags":   idx.ExcludedTags,
		"resolved_nodes":  svc.Resolver().CachedIDs(),
	})
}

// handleError helper
func handleError(c *gin.Context, err error) {
	appErr := errors.MapError(err)
	c.JSON(appErr.Code, gin.H{"error": appErr.Message})
}
