package model

import (
	"encoding/json"
	"regexp"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

const (
	FeatureType           = "Feature"
	FeatureCollectionType = "FeatureCollection"
)

// Building holds the properties of one vacant building. Property names match
// the source dataset because the map UI reads them verbatim.
type Building struct {
	ID              int    `json:"id"`
	District        string `json:"Commercial District"`
	Address         string `json:"Address"`
	City            string `json:"City"`
	State           string `json:"State"`
	SquareFootage   string `json:"Square Footage"`
	VacancyDate     *int   `json:"Vacancy Date"`
	LengthOfVacancy string `json:"Length of Vacancy"`
	OwnershipType   string `json:"Ownership Type"`
	FormerTenant    string `json:"Former Tenant"`
	LeasingActivity string `json:"Leasing Activity"`
	RecordedOwner   string `json:"Recorded Owner"`
	LeasingContact  string `json:"Leasing Contact"`
	DatasetDate     string `json:"Dataset Date"`
	Image           string `json:"Image"`

	GreenScore    *int     `json:"greenScore,omitempty"`
	Emissions     *int     `json:"emissions,omitempty"`
	TreeCoverage  *float64 `json:"treeCoverage,omitempty"`
	Walkability   *float64 `json:"walkability,omitempty"`
	SolarExposure *float64 `json:"solarExposure,omitempty"`
	TransitAccess *float64 `json:"transitAccess,omitempty"`
	Bikeability   *float64 `json:"bikeability,omitempty"`

	Recommended          bool     `json:"recommended"`
	RecommendationReason string   `json:"recommendationReason"`
	RecommendationScore  *float64 `json:"recommendationScore,omitempty"`
}

// UnmarshalJSON accepts the vacancy year as a number or as text holding a
// four-digit year, as older exports store the raw source value.
func (b *Building) UnmarshalJSON(data []byte) error {
	type plain Building
	aux := struct {
		*plain
		VacancyDate any `json:"Vacancy Date"`
	}{plain: (*plain)(b)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	b.VacancyDate = ParseYear(aux.VacancyDate)
	return nil
}

var yearPattern = regexp.MustCompile(`\b(\d{4})\b`)

// ParseYear reads a decoded JSON value as a year. Numbers are truncated and
// strings yield their first four-digit run. Zero and anything else give nil.
func ParseYear(v any) *int {
	switch t := v.(type) {
	case float64:
		y := int(t)
		if y == 0 {
			return nil
		}
		return &y
	case string:
		m := yearPattern.FindStringSubmatch(t)
		if m == nil {
			return nil
		}
		y, err := strconv.Atoi(m[1])
		if err != nil {
			return nil
		}
		return &y
	}
	return nil
}

// IsScored reports whether the scoring engine has run over this building.
func (b *Building) IsScored() bool {
	return b.GreenScore != nil
}

// ClearRecommendation resets the recommendation state to its defaults.
func (b *Building) ClearRecommendation() {
	b.Recommended = false
	b.RecommendationReason = ""
	b.RecommendationScore = nil
}

// BuildingPatch is a partial update of the mutable building attributes.
// Nil fields are left untouched.
type BuildingPatch struct {
	GreenScore    *int
	Emissions     *int
	TreeCoverage  *float64
	Walkability   *float64
	SolarExposure *float64
	TransitAccess *float64
	Bikeability   *float64

	Recommended          *bool
	RecommendationReason *string
	RecommendationScore  *float64
}

func (p BuildingPatch) Apply(b *Building) {
	if p.GreenScore != nil {
		b.GreenScore = p.GreenScore
	}
	if p.Emissions != nil {
		b.Emissions = p.Emissions
	}
	if p.TreeCoverage != nil {
		b.TreeCoverage = p.TreeCoverage
	}
	if p.Walkability != nil {
		b.Walkability = p.Walkability
	}
	if p.SolarExposure != nil {
		b.SolarExposure = p.SolarExposure
	}
	if p.TransitAccess != nil {
		b.TransitAccess = p.TransitAccess
	}
	if p.Bikeability != nil {
		b.Bikeability = p.Bikeability
	}
	if p.Recommended != nil {
		b.Recommended = *p.Recommended
	}
	if p.RecommendationReason != nil {
		b.RecommendationReason = *p.RecommendationReason
	}
	if p.RecommendationScore != nil {
		b.RecommendationScore = p.RecommendationScore
	}
}

type Feature struct {
	Type       string            `json:"type"`
	Geometry   *geojson.Geometry `json:"geometry"`
	Properties Building          `json:"properties"`
}

func NewFeature(pt orb.Point, b Building) *Feature {
	return &Feature{
		Type:       FeatureType,
		Geometry:   geojson.NewGeometry(pt),
		Properties: b,
	}
}

// Point returns the feature's coordinates as (longitude, latitude).
func (f *Feature) Point() (orb.Point, bool) {
	if f.Geometry == nil {
		return orb.Point{}, false
	}
	pt, ok := f.Geometry.Coordinates.(orb.Point)
	return pt, ok
}

type FeatureCollection struct {
	Type     string     `json:"type"`
	Features []*Feature `json:"features"`
}

func NewFeatureCollection() *FeatureCollection {
	return &FeatureCollection{
		Type:     FeatureCollectionType,
		Features: []*Feature{},
	}
}

// Find returns the feature with the given building id, or nil.
func (fc *FeatureCollection) Find(id int) *Feature {
	for _, f := range fc.Features {
		if f.Properties.ID == id {
			return f
		}
	}
	return nil
}

// Filter returns a new collection holding the features for which keep is true.
func (fc *FeatureCollection) Filter(keep func(*Feature) bool) *FeatureCollection {
	out := NewFeatureCollection()
	for _, f := range fc.Features {
		if keep(f) {
			out.Features = append(out.Features, f)
		}
	}
	return out
}
