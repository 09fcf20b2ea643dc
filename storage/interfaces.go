package storage

import "airbnb-reviews/models"

// ResultWriter is the interface any export backend must satisfy.
// Exports are write-only; nothing in the acquisition path reads them back.
type ResultWriter interface {
	WriteResults(results []*models.AcquisitionResult) error
	Close() error
}
