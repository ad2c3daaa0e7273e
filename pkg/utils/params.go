package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParseIDParam reads a positive numeric path parameter.
// On failure it writes a 400 and returns false.
func ParseIDParam(c *gin.Context, name, label string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		BadRequestResponse(c, "Invalid "+label+" ID")
		return 0, false
	}
	return uint(id), true
}
