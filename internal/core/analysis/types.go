package analysis

type Location struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// Analysis is the location report consumed by the map UI.
type Analysis struct {
	PopulationData              *PopulationData              `json:"populationData"`
	BusinessAnalysis            *BusinessAnalysis            `json:"businessAnalysis"`
	EnvironmentalImpact         *EnvironmentalImpact         `json:"environmentalImpact,omitempty"`
	CommunityBenefits           *CommunityBenefits           `json:"communityBenefits,omitempty"`
	SustainabilityMetrics       *SustainabilityMetrics       `json:"sustainabilityMetrics,omitempty"`
	PolicySimulation            *PolicySimulation            `json:"policySimulation,omitempty"`
	CollaborativeDecisionMaking *CollaborativeDecisionMaking `json:"collaborativeDecisionMaking,omitempty"`
	Recommendations             []string                     `json:"recommendations,omitempty"`
	RiskAssessment              *RiskAssessment              `json:"riskAssessment,omitempty"`
}

type PopulationData struct {
	PeopleWithinHalfMile string `json:"peopleWithinHalfMile"`
	NeighborhoodType     string `json:"neighborhoodType"`
	PopulationDensity    string `json:"populationDensity"`
	Demographics         string `json:"demographics"`
	HousingType          string `json:"housingType"`
}

type BusinessAnalysis struct {
	LocalPopulationDensity string `json:"localPopulationDensity"`
	EstimatedFootTraffic   string `json:"estimatedFootTraffic"`
	EstimatedRevenue       string `json:"estimatedRevenue"`
	TargetDemographics     string `json:"targetDemographics"`
	CompetitionLevel       string `json:"competitionLevel"`
	NeighborhoodType       string `json:"neighborhoodType"`
	TransportationAccess   string `json:"transportationAccess"`
	SeasonalVariations     string `json:"seasonalVariations"`
	GrowthPotential        string `json:"growthPotential"`
	EconomicMultiplier     string `json:"economicMultiplier"`
	SupplyChainImpact      string `json:"supplyChainImpact"`
}

type EnvironmentalImpact struct {
	LocalCarbonReduction              string `json:"localCarbonReduction"`
	NeighborhoodAirQualityImprovement string `json:"neighborhoodAirQualityImprovement"`
	LocalBiodiversityEnhancement      string `json:"localBiodiversityEnhancement"`
	WalkabilityImprovement            string `json:"walkabilityImprovement"`
	LocalWasteDiversion               string `json:"localWasteDiversion"`
	CommunityGreenSpace               string `json:"communityGreenSpace"`
	NeighborhoodNoiseReduction        string `json:"neighborhoodNoiseReduction"`
	LocalWaterConservation            string `json:"localWaterConservation"`
	TransportationEfficiency          string `json:"transportationEfficiency"`
	CommunityEnvironmentalEducation   string `json:"communityEnvironmentalEducation"`
}

type CommunityBenefits struct {
	JobCreation                    string `json:"jobCreation"`
	LocalEconomicImpact            string `json:"localEconomicImpact"`
	CommunityEngagement            string `json:"communityEngagement"`
	AccessibilityImprovements      string `json:"accessibilityImprovements"`
	CulturalContribution           string `json:"culturalContribution,omitempty"`
	CommunityEnvironmentalPrograms string `json:"communityEnvironmentalPrograms,omitempty"`
	NeighborhoodHealthBenefits     string `json:"neighborhoodHealthBenefits,omitempty"`
	LocalSocialEquity              string `json:"localSocialEquity,omitempty"`
	NeighborhoodRevitalization     string `json:"neighborhoodRevitalization,omitempty"`
	LocalPartnerships              string `json:"localPartnerships,omitempty"`
}

type SustainabilityMetrics struct {
	LeedCertificationPotential string `json:"leedCertificationPotential"`
	BreeamScore                string `json:"breeamScore"`
	CarbonNeutralTimeline      string `json:"carbonNeutralTimeline"`
	WasteDiversionRate         string `json:"wasteDiversionRate"`
	EnergyStarRating           string `json:"energyStarRating"`
	LivingBuildingChallenge    string `json:"livingBuildingChallenge"`
	WellBuildingStandard       string `json:"wellBuildingStandard"`
	NetZeroEnergy              string `json:"netZeroEnergy"`
	NetZeroWater               string `json:"netZeroWater"`
	RegenerativeDesign         string `json:"regenerativeDesign"`
}

type PolicySimulation struct {
	ClimateResilience       string `json:"climateResilience"`
	GreenBuildingIncentives string `json:"greenBuildingIncentives"`
	ZoningCompliance        string `json:"zoningCompliance"`
	EnvironmentalPermits    string `json:"environmentalPermits"`
	SustainabilityStandards string `json:"sustainabilityStandards"`
	CarbonPricing           string `json:"carbonPricing"`
	RenewableEnergyMandates string `json:"renewableEnergyMandates"`
}

type CollaborativeDecisionMaking struct {
	StakeholderEngagement    string `json:"stakeholderEngagement"`
	CommunityInput           string `json:"communityInput"`
	PartnershipOpportunities string `json:"partnershipOpportunities"`
	FundingSources           string `json:"fundingSources"`
	ImplementationTimeline   string `json:"implementationTimeline"`
	MonitoringMetrics        string `json:"monitoringMetrics"`
}

type RiskAssessment struct {
	EnvironmentalRisks   string `json:"environmentalRisks"`
	RegulatoryRisks      string `json:"regulatoryRisks"`
	MarketRisks          string `json:"marketRisks"`
	MitigationStrategies string `json:"mitigationStrategies"`
	ContingencyPlans     string `json:"contingencyPlans"`
}
