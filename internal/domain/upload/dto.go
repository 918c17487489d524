package upload

// PresignRequest for POST /uploads/presign
type PresignRequest struct {
	FileName    string `json:"file_name" validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"required,oneof=image/jpeg image/png image/webp"`
	Purpose     string `json:"purpose" validate:"required,oneof=avatar reference portfolio chat_image"`
}

// PresignResponse carries the direct-upload URL
type PresignResponse struct {
	Key       string `json:"key"`
	UploadURL string `json:"upload_url"`
	PublicURL string `json:"public_url"`
	ExpiresAt string `json:"expires_at"`
}
