package models

// Image is an uploaded file at the media host: its public URL and the
// opaque handle needed to delete it.
type Image struct {
	URL      string `json:"url" validate:"required,url"`
	PublicID string `json:"publicId" validate:"required"`
}

type DeleteImageRequest struct {
	PublicID string `json:"publicId"`
}

type DestroyResult struct {
	PublicID string `json:"publicId"`
	Result   string `json:"result"`
}

type UploadSignature struct {
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
	APIKey    string `json:"apiKey"`
	CloudName string `json:"cloudName"`
	Folder    string `json:"folder"`
}
