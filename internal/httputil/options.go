package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OptionsGet returns the appropriate response for an OPTIONS request that
// allows GET.
func OptionsGet(c *gin.Context) {
	c.Header("allow", "OPTIONS, GET")
	c.Status(http.StatusNoContent)
}

// OptionsGetPost returns the appropriate response for an OPTIONS request
// that allows GET and POST.
func OptionsGetPost(c *gin.Context) {
	c.Header("allow", "OPTIONS, GET, POST")
	c.Status(http.StatusNoContent)
}

// OptionsGetPatchDelete returns the appropriate response for an OPTIONS
// request that allows GET, PATCH and DELETE.
func OptionsGetPatchDelete(c *gin.Context) {
	c.Header("allow", "OPTIONS, GET, PATCH, DELETE")
	c.Status(http.StatusNoContent)
}

// OptionsPost returns the appropriate response for an OPTIONS request that
// allows POST.
func OptionsPost(c *gin.Context) {
	c.Header("allow", "OPTIONS, POST")
	c.Status(http.StatusNoContent)
}
