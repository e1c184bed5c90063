package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// invalidParameters reports a missing or malformed request parameter. No
// retry will help, so this is a client error.
func invalidParameters(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"text": "invalid request parameters"})
}

func internalError(c *gin.Context, err error) {
	log.Printf("Request failed: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"text": "internal error"})
}

// multiParameter splits a delimiter-separated parameter, dropping empty
// entries. A missing parameter yields an empty list.
func multiParameter(value, symbol string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, symbol)
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}
	return values
}

// intListParameter parses a delimiter-separated integer list. Any entry
// failing to parse invalidates the whole parameter.
func intListParameter(value, symbol string) ([]int, error) {
	parts := multiParameter(value, symbol)
	ints := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		ints[i] = n
	}
	return ints, nil
}

// categoryPathsParameter parses the category filter shape: semicolon
// separated paths of comma separated levels, e.g. "1,2;3".
func categoryPathsParameter(value string) ([][]int, error) {
	paths := multiParameter(value, ";")
	parsed := make([][]int, 0, len(paths))
	for _, path := range paths {
		levels, err := intListParameter(path, ",")
		if err != nil {
			return nil, err
		}
		if len(levels) > 0 {
			parsed = append(parsed, levels)
		}
	}
	return parsed, nil
}
