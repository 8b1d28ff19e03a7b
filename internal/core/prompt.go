package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ecospirit/greenmap/internal/core/model"
)

const followUpInstruction = "Respond in under 200 characters. Be conversational and to the point. " +
	"Do NOT include JSON, metrics, or any data block. Just short human-friendly text."

func buildSystemPrompt(buildingCount int) string {
	return fmt.Sprintf(`You are an AI assistant helping businesses find sustainable vacant commercial spaces in Cambridge, MA.

You have access to %d vacant buildings with sustainability metrics including:
- Green Score (0-100): Overall sustainability rating
- Emissions: CO2 impact (lower is better)
- Tree Coverage: Green space around building (0-1)
- Walkability: Pedestrian accessibility (0-1)
- Solar Exposure: Renewable energy potential (0-1)
- Transit Access: Public transportation proximity (0-1)
- Bikeability: Bike-friendly infrastructure (0-1)

When a user asks about finding a location for their business, analyze their needs and recommend 5-6 most suitable buildings. Consider:
1. Business type (retail, cafe, office, etc.)
2. Sustainability priorities
3. Location preferences
4. Building characteristics

Always follow this exact format:
1. Provide a short conversational reply (max 150 chars).
2. On a new line, include a JSON block named "recommendations", always plural, even if only one.
3. Do not include any prose before or after the JSON block.

Example:
"Got it! Here are 5 great fits."
`+"```json"+`
{
  "recommendations": [
    { "buildingId": 1, "score": 92, "reason": "Reason in around 30 words" }
  ]
}
`+"```"+`

Answer follow-up questions about why you chose specific buildings or how options compare in 3-4 sentences, under 200 characters.`, buildingCount)
}

// buildBuildingContext renders one line per building.
func buildBuildingContext(buildings []model.Building) string {
	var sb strings.Builder
	sb.WriteString("Available buildings:\n")
	for i, b := range buildings {
		if i > 0 {
			sb.WriteByte('\n')
		}
		score := "N/A"
		if b.GreenScore != nil {
			score = strconv.Itoa(*b.GreenScore)
		}
		fmt.Fprintf(&sb, "Building %d: %s in %s - %s sqft, Former: %s, Green Score: %s, Walkability: %s, Transit: %s, Solar: %s",
			b.ID, b.Address, b.District, b.SquareFootage, b.FormerTenant, score,
			percent(b.Walkability), percent(b.TransitAccess), percent(b.SolarExposure))
	}
	return sb.String()
}

func percent(ratio *float64) string {
	if ratio == nil {
		return "0%"
	}
	return strconv.Itoa(int(math.Floor(*ratio*100+0.5))) + "%"
}
