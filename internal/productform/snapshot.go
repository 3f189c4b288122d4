package productform

import (
	"github.com/chucuoi/flower-storefront/internal/models"
	"github.com/google/uuid"
)

// Snapshot is the serialisable form state kept between requests.
type Snapshot struct {
	ID        uuid.UUID      `json:"id"`
	Version   int64          `json:"version"`
	State     State          `json:"state"`
	Fields    Fields         `json:"fields"`
	Images    []models.Image `json:"images"`
	Uploads   int            `json:"pendingUploads,omitempty"`
	ProductID *uuid.UUID     `json:"productId,omitempty"`
	LastError string         `json:"lastError,omitempty"`
}

func (f *Form) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	fields := f.fields
	fields.Tags = append([]string(nil), f.fields.Tags...)

	return Snapshot{
		ID:        f.id,
		Version:   f.version,
		State:     f.state,
		Fields:    fields,
		Images:    append([]models.Image{}, f.images...),
		Uploads:   f.uploads,
		ProductID: f.productID,
		LastError: f.lastError,
	}
}

// Restore rebuilds a form from a snapshot. A submitting snapshot stays
// submitting: another request owns the draft until its create call ends.
func Restore(s Snapshot) *Form {
	state := s.State
	switch state {
	case StateEditing, StateUploading, StateSubmitting, StateSubmitted, StateFailed, StateAbandoned:
	default:
		state = StateEditing
	}

	return &Form{
		id:        s.ID,
		version:   s.Version,
		state:     state,
		fields:    s.Fields,
		images:    append([]models.Image(nil), s.Images...),
		uploads:   s.Uploads,
		productID: s.ProductID,
		lastError: s.LastError,
	}
}
