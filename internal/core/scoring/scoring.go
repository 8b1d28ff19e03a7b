// Package scoring derives sustainability metrics for vacant buildings.
//
// The metrics are heuristics over a building's size, vacancy age, district
// and coordinates. Every constant here is fixed policy: changing one changes
// every stored score on the next scoring run.
package scoring

import (
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"github.com/ecospirit/greenmap/internal/core/model"
)

const (
	DefaultSquareFootage = 5000
	DefaultVacancyYear   = 2020

	defaultDistrictRatio = 0.70
)

var greenDistricts = map[string]bool{
	"Fresh Pond":     true,
	"Alewife":        true,
	"Harvard Square": true,
}

var walkabilityByDistrict = map[string]float64{
	"Harvard Square": 0.95,
	"Central Square": 0.92,
	"Porter Square":  0.88,
	"Kendall Square": 0.90,
	"Alewife":        0.70,
	"Fresh Pond":     0.65,
}

var transitByDistrict = map[string]float64{
	"Harvard Square": 0.98,
	"Central Square": 0.95,
	"Porter Square":  0.92,
	"Kendall Square": 0.96,
	"Alewife":        0.85,
	"Fresh Pond":     0.60,
}

// Composite weights; they sum to 1.
const (
	weightEmissions     = 0.25
	weightTreeCoverage  = 0.15
	weightWalkability   = 0.20
	weightSolarExposure = 0.15
	weightTransitAccess = 0.15
	weightBikeability   = 0.10
)

type Metrics struct {
	Emissions     int
	TreeCoverage  float64
	Walkability   float64
	SolarExposure float64
	TransitAccess float64
	Bikeability   float64
	GreenScore    int
}

// Apply copies the metrics onto the building's derived attributes.
func (m Metrics) Apply(b *model.Building) {
	emissions, score := m.Emissions, m.GreenScore
	tree, walk, solar, transit, bike := m.TreeCoverage, m.Walkability, m.SolarExposure, m.TransitAccess, m.Bikeability

	b.Emissions = &emissions
	b.TreeCoverage = &tree
	b.Walkability = &walk
	b.SolarExposure = &solar
	b.TransitAccess = &transit
	b.Bikeability = &bike
	b.GreenScore = &score
}

// Score computes the metrics for one building located at pt (lon, lat).
// currentYear is passed in so the result depends on its arguments only.
func Score(b model.Building, pt orb.Point, currentYear int) Metrics {
	sqft := ParseSquareFootage(b.SquareFootage)
	vacancyYear := DefaultVacancyYear
	if b.VacancyDate != nil && *b.VacancyDate != 0 {
		vacancyYear = *b.VacancyDate
	}

	m := Metrics{
		Emissions:     Emissions(sqft, currentYear-vacancyYear),
		TreeCoverage:  TreeCoverage(pt, b.District),
		Walkability:   Walkability(b.District),
		SolarExposure: SolarExposure(pt, sqft),
		TransitAccess: TransitAccess(b.District),
	}
	m.Bikeability = Bikeability(m.Walkability)
	m.GreenScore = GreenScore(m)
	return m
}

// Emissions is lower-is-better; it has no floor or ceiling.
func Emissions(squareFootage, vacancyYears int) int {
	return round(float64(squareFootage)*0.05 + float64(vacancyYears)*10)
}

func TreeCoverage(pt orb.Point, district string) float64 {
	base := 0.3
	if greenDistricts[district] {
		base = 0.6
	}
	variation := (math.Sin(pt.Lon()*100) + math.Sin(pt.Lat()*100)) * 0.15
	return clamp01(base + variation)
}

func Walkability(district string) float64 {
	if v, ok := walkabilityByDistrict[district]; ok {
		return v
	}
	return defaultDistrictRatio
}

func SolarExposure(pt orb.Point, squareFootage int) float64 {
	sizeFactor := math.Min(float64(squareFootage)/10000, 1) * 0.15
	latitudeBonus := (42.4 - pt.Lat()) * 0.5
	return clamp01(0.65 + sizeFactor + latitudeBonus)
}

func TransitAccess(district string) float64 {
	if v, ok := transitByDistrict[district]; ok {
		return v
	}
	return defaultDistrictRatio
}

func Bikeability(walkability float64) float64 {
	return math.Min(1, walkability*0.95)
}

// GreenScore folds the six metrics into a 0-100 rating.
func GreenScore(m Metrics) int {
	emissionsScore := math.Max(0, 100-float64(m.Emissions)/10)

	score := emissionsScore*weightEmissions +
		m.TreeCoverage*100*weightTreeCoverage +
		m.Walkability*100*weightWalkability +
		m.SolarExposure*100*weightSolarExposure +
		m.TransitAccess*100*weightTransitAccess +
		m.Bikeability*100*weightBikeability

	r := round(score)
	if r < 0 {
		return 0
	}
	if r > 100 {
		return 100
	}
	return r
}

// ParseSquareFootage reads the leading integer of a free-text square footage
// such as "12,500" or "2400 sq ft". Missing, unparseable and non-positive
// values fall back to DefaultSquareFootage.
func ParseSquareFootage(s string) int {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n <= 0 {
		return DefaultSquareFootage
	}
	return n
}

// Summary describes one scoring run.
type Summary struct {
	Total    int `json:"total"`
	AvgScore int `json:"avgScore"`
}

// ScoreCollection scores every feature in place. Features without a point
// geometry are scored at (0, 0); the importer never stores such features.
func ScoreCollection(fc *model.FeatureCollection, currentYear int) Summary {
	sum := 0
	for _, f := range fc.Features {
		pt, _ := f.Point()
		m := Score(f.Properties, pt, currentYear)
		m.Apply(&f.Properties)
		sum += m.GreenScore
	}

	s := Summary{Total: len(fc.Features)}
	if s.Total > 0 {
		s.AvgScore = round(float64(sum) / float64(s.Total))
	}
	return s
}

// round rounds half up, so 2.5 -> 3 and -2.5 -> -2.
func round(x float64) int {
	return int(math.Floor(x + 0.5))
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
