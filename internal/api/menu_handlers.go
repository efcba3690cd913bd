package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Fidelio1234/qrcode-finale/internal/menu"
)

func (s *Server) handleListMenu(c *gin.Context) {
	c.JSON(http.StatusOK, s.menu.Products())
}

func (s *Server) handleAddProduct(c *gin.Context) {
	var req struct {
		Name     string   `json:"name"`
		Price    *float64 `json:"price"`
		Category string   `json:"category"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" || req.Price == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and price are required"})
		return
	}

	product, ok := s.menu.Add(menu.Product{
		Name:     req.Name,
		Price:    *req.Price,
		Category: req.Category,
	})
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save menu"})
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (s *Server) handleUpdateProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	var patch menu.ProductPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product payload"})
		return
	}

	product, err := s.menu.Update(id, patch)
	if err != nil {
		if errors.Is(err, menu.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (s *Server) handleDeleteProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	if !s.menu.Delete(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (s *Server) handleDeleteCategory(c *gin.Context) {
	category := c.Param("category")
	removed := s.menu.DeleteCategory(category)
	c.JSON(http.StatusOK, gin.H{"category": category, "removed": removed})
}
