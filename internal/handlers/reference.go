package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-service/internal/models"
)

// RegisterReferenceRoutes wires the static lookup data used by listing forms.
func RegisterReferenceRoutes(r gin.IRoutes) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "PhoneFlip API v2.0"})
	})
	r.GET("/cities", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"cities": models.Cities})
	})
	r.GET("/phone-brands", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"brands": models.PhoneBrands})
	})
	r.GET("/storage-options", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"storage_options": models.StorageOptions})
	})
	r.GET("/condition-options", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"condition_options": models.ConditionOptions})
	})
}
