package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes payload with status. Errors go through Error instead so they
// share the envelope and the http.error log line.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// OK is JSON with 200.
func OK(c *gin.Context, payload any) {
	JSON(c, http.StatusOK, payload)
}

// Created answers 201 and points Location at the new resource.
func Created(c *gin.Context, location string, payload any) {
	if location != "" {
		c.Header("Location", location)
	}
	JSON(c, http.StatusCreated, payload)
}

// Accepted answers 202 for work that finishes asynchronously, such as
// feedback scoring after an interview is completed.
func Accepted(c *gin.Context, payload any) {
	JSON(c, http.StatusAccepted, payload)
}
