package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Fidelio1234/qrcode-finale/internal/license"
)

func (s *Server) handleLicenseStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.licenses.Verify())
}

func (s *Server) handleLicenseTypes(c *gin.Context) {
	c.JSON(http.StatusOK, license.Catalog)
}

// handleLicenseDebug exposes the raw license state for support calls.
func (s *Server) handleLicenseDebug(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"fileExists": s.licenses.FileExists(),
		"machineId":  s.licenses.MachineID(),
		"record":     s.licenses.Info(),
		"status":     s.licenses.Verify(),
	})
}

func (s *Server) handleLicenseActivate(c *gin.Context) {
	var req struct {
		Type     license.Type     `json:"type"`
		Customer license.Customer `json:"customer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid activation payload"})
		return
	}

	record, err := s.licenses.ActivatePaid(req.Type, req.Customer)
	if err != nil {
		if errors.Is(err, license.ErrInvalidLicenseType) || errors.Is(err, license.ErrMissingCustomerInfo) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"license": record,
		"message": license.Catalog[record.Type].Message,
	})
}

func (s *Server) handleLicenseTrial(c *gin.Context) {
	var req struct {
		Customer license.Customer `json:"customer"`
	}
	// empty body is fine, the trial fills in placeholder customer data
	_ = c.ShouldBindJSON(&req)

	record, err := s.licenses.IssueTrial(req.Customer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "license": record})
}

func (s *Server) handleLicenseReset(c *gin.Context) {
	record, err := s.licenses.Reset()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "license reset, previous record backed up",
		"license": record,
	})
}
