package dataset

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"github.com/ecospirit/greenmap/internal/core/model"
)

var pointPattern = regexp.MustCompile(`(?i)POINT\s*\(\s*(-?\d+\.?\d*)\s+(-?\d+\.?\d*)\s*\)`)

// ImportStats reports what an import kept and dropped.
type ImportStats struct {
	Records int `json:"records"`
	Kept    int `json:"kept"`
	Dropped int `json:"dropped"`
}

// ParsePoint reads a WKT "POINT (lon lat)" string.
func ParsePoint(s string) (orb.Point, bool) {
	m := pointPattern.FindStringSubmatch(s)
	if m == nil {
		return orb.Point{}, false
	}
	lon, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return orb.Point{}, false
	}
	lat, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return orb.Point{}, false
	}
	return orb.Point{lon, lat}, true
}

// Import converts the raw vacant-storefront export (a JSON array of flat
// records) into a building collection. Ids are 1-based positions in the raw
// array and are assigned before records without coordinates are dropped, so
// they stay stable when the source is re-imported.
func Import(raw []byte) (*model.FeatureCollection, ImportStats, error) {
	var records []map[string]any
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, ImportStats{}, fmt.Errorf("failed to parse source records: %w", err)
	}

	fc := model.NewFeatureCollection()
	stats := ImportStats{Records: len(records)}

	for i, rec := range records {
		pt, ok := ParsePoint(text(rec["Coordinates for Mapping"]))
		if !ok {
			stats.Dropped++
			continue
		}

		formerTenant := text(rec["Former Tenant/Current Business"])
		if formerTenant == "" {
			formerTenant = text(rec["Former Tenant"])
		}

		b := model.Building{
			ID:              i + 1,
			District:        text(rec["Commercial District"]),
			Address:         text(rec["Address"]),
			City:            text(rec["City"]),
			State:           text(rec["State"]),
			SquareFootage:   text(rec["Square Footage"]),
			VacancyDate:     model.ParseYear(rec["Vacancy Date"]),
			LengthOfVacancy: text(rec["Length of Vacancy"]),
			OwnershipType:   text(rec["Ownership Type"]),
			FormerTenant:    formerTenant,
			LeasingActivity: text(rec["Leasing Activity"]),
			RecordedOwner:   text(rec["Recorded Owner"]),
			LeasingContact:  text(rec["Leasing Contact"]),
			DatasetDate:     text(rec["Dataset Date"]),
			Image:           text(rec["Image"]),
		}
		fc.Features = append(fc.Features, model.NewFeature(pt, b))
		stats.Kept++
	}

	return fc, stats, nil
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
