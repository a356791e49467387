package handlers

import (
	"fmt"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/letterdesk/internal/server/http/dto"
	"github.com/polkiloo/letterdesk/internal/usecase"
)

const (
	maxUploadSize   = 32 << 20
	uploadFormField = "file"
)

// FileHandler serves proofs and customer uploads.
type FileHandler struct {
	files  FileFacade
	orders OrderFacade
}

// NewFileHandler constructs FileHandler.
func NewFileHandler(files FileFacade, orders OrderFacade) *FileHandler {
	return &FileHandler{files: files, orders: orders}
}

// UploadProof handles POST /api/orders/:id/proofs (multipart: file, notes).
func (h *FileHandler) UploadProof(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	upload, closeFn, ok := readUpload(c)
	if !ok {
		return
	}
	defer closeFn()

	order, err := h.files.UploadProof(c.Request.Context(), CurrentActor(c), id, upload, c.PostForm("notes"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(*order))
}

// Attach handles POST /api/orders/:id/files.
func (h *FileHandler) Attach(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	upload, closeFn, ok := readUpload(c)
	if !ok {
		return
	}
	defer closeFn()

	file, err := h.files.AttachFile(c.Request.Context(), CurrentActor(c), id, upload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toFileResponse(*file))
}

// List handles GET /api/orders/:id/files.
func (h *FileHandler) List(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.orders.Order(c.Request.Context(), CurrentActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	files := make([]dto.FileResponse, 0, len(order.Files))
	for _, f := range order.Files {
		files = append(files, toFileResponse(f))
	}
	c.JSON(http.StatusOK, files)
}

// Download handles GET /api/orders/:id/files/:fileID.
func (h *FileHandler) Download(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	fileID, ok := pathID(c, "fileID")
	if !ok {
		return
	}

	file, rc, err := h.files.OpenFile(c.Request.Context(), CurrentActor(c), orderID, fileID)
	if err != nil {
		respondError(c, err)
		return
	}
	defer rc.Close()

	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, file.Size, contentType, rc, map[string]string{
		"Content-Disposition": attachment(file.Name),
	})
}

// readUpload extracts the multipart file. On failure it writes the response and returns false.
func readUpload(c *gin.Context) (usecase.Upload, func(), bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)
	header, err := c.FormFile(uploadFormField)
	if err != nil {
		badRequest(c, fmt.Sprintf("multipart field %q is required", uploadFormField))
		return usecase.Upload{}, nil, false
	}
	f, err := header.Open()
	if err != nil {
		badRequest(c, "cannot read uploaded file")
		return usecase.Upload{}, nil, false
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	upload := usecase.Upload{Name: header.Filename, ContentType: contentType, Content: f}
	return upload, func() { _ = f.Close() }, true
}

func attachment(name string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": name})
}
