package middleware

import (
	"compress/gzip"
	"compress/zlib"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/letterdesk/internal/server/http/dto"
)

// DecompressRequest unwraps gzip and deflate encoded request bodies.
// The decoded body is capped at limit bytes; limit <= 0 disables the cap.
// Other encodings are rejected with 415.
func DecompressRequest(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		encoding := strings.ToLower(strings.TrimSpace(c.GetHeader("Content-Encoding")))
		if encoding == "" || encoding == "identity" {
			c.Next()
			return
		}

		originalBody := c.Request.Body
		var (
			reader io.ReadCloser
			err    error
		)
		switch encoding {
		case "gzip", "x-gzip":
			reader, err = gzip.NewReader(originalBody)
		case "deflate":
			reader, err = zlib.NewReader(originalBody)
		default:
			c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, dto.ErrorResponse{Error: "unsupported content encoding " + encoding})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: "malformed " + encoding + " body"})
			return
		}
		defer reader.Close()
		defer originalBody.Close()

		body := io.ReadCloser(reader)
		if limit > 0 {
			body = http.MaxBytesReader(c.Writer, reader, limit)
		}
		c.Request.Body = body
		c.Request.Header.Del("Content-Encoding")
		c.Request.ContentLength = -1
		c.Next()
	}
}
