package domain

// IsComplete reports whether every field needed to place and classify the
// record is present.
func IsComplete(r NormalizedRecord) bool {
	return r.Latitude != nil &&
		r.Longitude != nil &&
		r.ReturnPercent != nil &&
		r.ProductKey != "" &&
		r.ClassLabel != ""
}

// FilterComplete keeps the complete records in input order and returns how
// many were dropped. Dropping is expected data-quality filtering, not an error.
func FilterComplete(records []NormalizedRecord) ([]NormalizedRecord, int) {
	kept := make([]NormalizedRecord, 0, len(records))
	for _, r := range records {
		if IsComplete(r) {
			kept = append(kept, r)
		}
	}
	return kept, len(records) - len(kept)
}
