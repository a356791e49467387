package dto

import "time"

// FileResponse describes an order artifact without its content.
type FileResponse struct {
	ID          int64     `json:"id"`
	Type        string    `json:"type"`
	Revision    int       `json:"revision,omitempty"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	Notes       string    `json:"notes,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at"`
}
