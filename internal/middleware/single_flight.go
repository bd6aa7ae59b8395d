package middleware

import (
	"sync"

	"github.com/gin-gonic/gin"
)

// SingleFlight serializes the analytics operations behind one process-wide
// mutex. Uploads, chart renders and report builds mutate or read the shared
// in-memory store, and the rendering stack is not safe for concurrent use,
// so requests take turns instead of interleaving.
func SingleFlight() gin.HandlerFunc {
	var mu sync.Mutex
	return func(c *gin.Context) {
		mu.Lock()
		defer mu.Unlock()
		c.Next()
	}
}
