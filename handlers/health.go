package handlers

import (
	"net/http"

	"github.com/joelbobai/Manzo-BE/utils"

	"github.com/gin-gonic/gin"
)

// Health reports the latest dependency health snapshot.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, utils.GetHealthStatus())
}
