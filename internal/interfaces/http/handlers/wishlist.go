// internal/interfaces/http/handlers/wishlist.go
package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/dj044/jasleen-wishlist/internal/config"
	"github.com/dj044/jasleen-wishlist/internal/domain/listcode"
	"github.com/dj044/jasleen-wishlist/internal/domain/wishlist"
	"github.com/gin-gonic/gin"
)

// WishlistHandler handles wishlist endpoints
type WishlistHandler struct {
	wishlistService *wishlist.Service
	config          *config.Config
}

// NewWishlistHandler creates a new wishlist handler
func NewWishlistHandler(service *wishlist.Service, cfg *config.Config) *WishlistHandler {
	return &WishlistHandler{
		wishlistService: service,
		config:          cfg,
	}
}

// OpenListRequest carries the user-entered list code.
type OpenListRequest struct {
	Code string `json:"code"`
}

// OpenList handles POST /lists
//
// Normalizes the entered code and returns it with the shareable link. The
// list itself exists implicitly once an item is written under the code.
func (h *WishlistHandler) OpenList(c *gin.Context) {
	var req OpenListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	code := listcode.Normalize(req.Code)
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "List code is required",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "List opened successfully",
		"data": gin.H{
			"code":      code,
			"shareLink": listcode.ShareLink(h.config.List.ShareBaseURL, code),
		},
	})
}

// GetItems handles GET /lists/:code/items
//
// Returns the list sorted newest first, filtered by the q and tab query
// parameters, plus aggregate counts over the whole list.
func (h *WishlistHandler) GetItems(c *gin.Context) {
	code := listcode.Normalize(c.Param("code"))
	tab := wishlist.ParseTab(c.Query("tab"))

	items, counts, err := h.wishlistService.List(c.Request.Context(), code, c.Query("q"), tab)
	if err != nil {
		if errors.Is(err, wishlist.ErrEmptyListCode) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "List code is required",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve wishlist items",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Wishlist items retrieved successfully",
		"data": gin.H{
			"code":   code,
			"items":  items,
			"counts": counts,
		},
	})
}

// AddItem handles POST /lists/:code/items
func (h *WishlistHandler) AddItem(c *gin.Context) {
	code := listcode.Normalize(c.Param("code"))

	var draft wishlist.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	item, err := h.wishlistService.AddItem(c.Request.Context(), code, draft)
	if err != nil {
		switch {
		case errors.Is(err, wishlist.ErrEmptyTitle):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Title is required",
			})
		case errors.Is(err, wishlist.ErrEmptyListCode):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "List code is required",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to add wishlist item",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Item added to wishlist successfully",
		"data":    item,
	})
}

// SetStatusRequest names the target status of an item.
type SetStatusRequest struct {
	Status wishlist.Status `json:"status"`
}

// SetStatus handles PUT /lists/:code/items/:id/status
func (h *WishlistHandler) SetStatus(c *gin.Context) {
	code := listcode.Normalize(c.Param("code"))

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	err := h.wishlistService.SetStatus(c.Request.Context(), code, c.Param("id"), req.Status)
	if err != nil {
		h.writeCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item status updated successfully",
	})
}

// ToggleRequest carries the caller's current view of the item, mirroring the
// optimistic toggle semantics: the command flips relative to what the user
// was looking at.
type ToggleRequest struct {
	CurrentStatus     wishlist.Status `json:"currentStatus"`
	CurrentReservedBy string          `json:"currentReservedBy"`
}

// ToggleReserve handles POST /lists/:code/items/:id/reserve
func (h *WishlistHandler) ToggleReserve(c *gin.Context) {
	code := listcode.Normalize(c.Param("code"))

	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	err := h.wishlistService.ToggleReserve(c.Request.Context(), code, c.Param("id"), req.CurrentStatus, req.CurrentReservedBy)
	if err != nil {
		h.writeCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item reservation toggled successfully",
	})
}

// TogglePurchased handles POST /lists/:code/items/:id/purchase
func (h *WishlistHandler) TogglePurchased(c *gin.Context) {
	code := listcode.Normalize(c.Param("code"))

	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	err := h.wishlistService.TogglePurchased(c.Request.Context(), code, c.Param("id"), req.CurrentStatus)
	if err != nil {
		h.writeCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item purchase state toggled successfully",
	})
}

// EditItem handles PATCH /lists/:code/items/:id
//
// Accepts a flat field→value object for inline edits (reservedBy text,
// notes, price and so on).
func (h *WishlistHandler) EditItem(c *gin.Context) {
	code := listcode.Normalize(c.Param("code"))

	var fields map[string]string
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	err := h.wishlistService.EditFields(c.Request.Context(), code, c.Param("id"), fields)
	if err != nil {
		h.writeCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item updated successfully",
	})
}

// DeleteItem handles DELETE /lists/:code/items/:id
//
// The delete only happens with confirm=true; anything else is the user
// declining the confirmation prompt, which is a normal no-op.
func (h *WishlistHandler) DeleteItem(c *gin.Context) {
	code := listcode.Normalize(c.Param("code"))
	confirmed := c.Query("confirm") == "true"

	err := h.wishlistService.DeleteItem(c.Request.Context(), code, c.Param("id"), confirmed)
	if err != nil {
		h.writeCommandError(c, err)
		return
	}

	if !confirmed {
		c.JSON(http.StatusOK, gin.H{
			"message": "Delete not confirmed, item kept",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item deleted successfully",
	})
}

// StreamItems handles GET /lists/:code/stream
//
// Server-sent events: an "items" event with the full id→item mapping is sent
// on connect and after every change, until the client disconnects. The store
// subscription is detached before the handler returns, so a client switching
// lists can never receive a stale snapshot on its new stream.
func (h *WishlistHandler) StreamItems(c *gin.Context) {
	code := listcode.Normalize(c.Param("code"))

	sub, err := h.wishlistService.Watch(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, wishlist.ErrEmptyListCode) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "List code is required",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to subscribe to wishlist",
		})
		return
	}
	defer sub.Close()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.Stream(func(w io.Writer) bool {
		select {
		case snapshot, ok := <-sub.Items():
			if !ok {
				return false
			}
			c.SSEvent("items", snapshot)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// writeCommandError maps mutation command errors onto HTTP responses.
func (h *WishlistHandler) writeCommandError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, wishlist.ErrEmptyListCode):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "List code is required",
		})
	case errors.Is(err, wishlist.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Unknown status",
		})
	case errors.Is(err, wishlist.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Item not found",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update wishlist item",
		})
	}
}
