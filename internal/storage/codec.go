package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/silentstreak/internal/constants"
	"github.com/julianstephens/silentstreak/internal/models"
)

// ErrUnsupportedVersion is returned for blobs written by a newer release
// or carrying a negative version.
var ErrUnsupportedVersion = errors.New("unsupported blob version")

// Blob is the persisted form of the day-record collection.
type Blob struct {
	Version int                `json:"version"`
	Days    []models.DayRecord `json:"days"`
}

// EncodeDays serializes days with the current blob version.
func EncodeDays(days []models.DayRecord) ([]byte, error) {
	if days == nil {
		days = []models.DayRecord{}
	}
	data, err := json.Marshal(Blob{Version: constants.BlobVersion, Days: days})
	if err != nil {
		return nil, fmt.Errorf("failed to encode day records: %w", err)
	}
	return data, nil
}

// DecodeDays parses a blob. Unversioned blobs (a bare JSON array of
// records) are read as version 0.
func DecodeDays(data []byte) ([]models.DayRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("failed to decode day records: empty blob")
	}

	if trimmed[0] == '[' {
		var days []models.DayRecord
		if err := json.Unmarshal(trimmed, &days); err != nil {
			return nil, fmt.Errorf("failed to decode legacy day records: %w", err)
		}
		return days, nil
	}

	var blob Blob
	if err := json.Unmarshal(trimmed, &blob); err != nil {
		return nil, fmt.Errorf("failed to decode day records: %w", err)
	}
	if blob.Version < 0 || blob.Version > constants.BlobVersion {
		return nil, fmt.Errorf("%w: %d (supported 0 to %d)", ErrUnsupportedVersion, blob.Version, constants.BlobVersion)
	}
	return blob.Days, nil
}
