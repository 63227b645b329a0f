package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/thanhnp/explorer-apis/internal/rpc"
	"github.com/thanhnp/explorer-apis/internal/service"
)

// BlockHandler handles block-related API requests
type BlockHandler struct {
	blocks *service.BlockService
}

// NewBlockHandler creates a new BlockHandler
func NewBlockHandler(blocks *service.BlockService) *BlockHandler {
	return &BlockHandler{
		blocks: blocks,
	}
}

// GetBlock returns the full block record by hash
// GET /api/block/:hash
func (h *BlockHandler) GetBlock(c *gin.Context) {
	hash := c.Param("hash")

	detail, err := h.blocks.GetBlockDetail(hash)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Block not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, detail)
}

// GetRawBlock returns the hex-encoded raw block by hash or height
// GET /api/rawblock/:hashOrHeight
func (h *BlockHandler) GetRawBlock(c *gin.Context) {
	raw, err := h.blocks.GetRawBlock(c.Param("hashOrHeight"))
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Block not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, raw)
}

// GetBlockIndex returns the block hash at a height
// GET /api/block-index/:height
func (h *BlockHandler) GetBlockIndex(c *gin.Context) {
	height, err := strconv.ParseInt(c.Param("height"), 10, 64)
	if err != nil || height < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid height"})
		return
	}

	index, err := h.blocks.GetBlockIndex(height)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Block not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, index)
}

// List returns the blocks of one UTC day with a pagination cursor
// GET /api/blocks?limit=&blockDate=&startTimestamp=
func (h *BlockHandler) List(c *gin.Context) {
	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}

	var startTs int64
	if tsStr := c.Query("startTimestamp"); tsStr != "" {
		ts, err := strconv.ParseInt(tsStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid startTimestamp"})
			return
		}
		startTs = ts
	}

	list, err := h.blocks.ListBlocks(c.Query("blockDate"), startTs, limit)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, list)
}
