package config

import "github.com/jonathan/gig-directory-audit/internal/types"

// Default detector names, shared with the detection package and used by
// Remediation.ConclusiveDetectors.
const (
	DetectorPayRealism  = "pay_realism"
	DetectorContact     = "contact_completeness"
	DetectorGenericName = "generic_name"
	DetectorLicensing   = "licensing_inconsistency"
	DetectorPlaceholder = "placeholder_name"
	DetectorVertical    = "vague_vertical"
)

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Workers: 8,
		TopN:    10,
		Detectors: Detectors{
			PayRealism: PayRealism{
				Threshold:        100,
				Weight:           30,
				ExtremeThreshold: 150,
				ExtremeWeight:    20,
			},
			Contact: Contact{Weight: 20},
			GenericName: GenericName{
				Weight: 15,
				Terms: []string{
					"best", "top", "premium", "elite", "vip", "pro", "max", "super",
					"easy", "fast", "quick", "instant", "guarantee", "make money", "earn now",
				},
			},
			Licensing: Licensing{
				PayFloor:          50,
				Weight:            20,
				InsurancePayFloor: 40,
				InsuranceWeight:   20,
			},
			Placeholder: Placeholder{
				Weight:       50,
				Tokens:       []string{"test", "dummy", "fake", "placeholder", "lorem", "sample"},
				MinRepeatRun: 4,
			},
			VagueVertical: VagueVertical{
				Weight: 0,
				Terms:  []string{"general", "other", "various"},
			},
		},
		Tiers: Tiers{Medium: 25, High: 50},
		Verifier: Verifier{
			Enabled:                true,
			ModelTier:              "lite",
			MaxEscalations:         5,
			Concurrency:            1,
			TimeoutSeconds:         20,
			RequestsPerSecond:      1,
			MaxConsecutiveFailures: 3,
		},
		Remediation: Remediation{
			HardRemovalFloor:    70,
			ConclusiveDetectors: []string{DetectorPlaceholder},
			OracleMinConfidence: 80,
		},
		Quality: defaultQuality(),
	}
}

func defaultQuality() Quality {
	return Quality{
		MinWebsiteLength:     5,
		MinDescriptionLength: 20,
		CheckProfile:         true,
		Rules: []MismatchRule{
			{
				Category:         "MEDICAL_FOOD_MISMATCH",
				NamePatterns:     []string{"rx", "med", "health", "lab", "pharma", "bio", "clinic", "hospital"},
				DescriptionTerms: []string{"grocery", "food", "restaurant", "woolworths", "supermarket", "cafe"},
			},
			{
				Category:         "COURIER_MISMATCH",
				NamePatterns:     []string{"courier", "delivery", "express", "logistics", "transport"},
				DescriptionTerms: []string{"grocery", "australian", "retail", "fashion", "software"},
			},
			{
				Category:         "GEOGRAPHIC_MISMATCH",
				NamePatterns:     []string{"usa", "america", "us "},
				DescriptionTerms: []string{"australian", "canada", "uk ", "europe", "asia"},
			},
		},
		Targets: []CoverageTarget{
			{
				Focus:       "Medical Couriers",
				Priority:    types.SeverityHigh,
				Field:       "vertical",
				Match:       "medical",
				Minimum:     100,
				TargetCount: "20-30 new companies",
				Rationale:   "Currently have {{.Count}} medical companies, should expand coverage",
				SearchTerms: []string{
					"medical courier services",
					"pharmacy delivery companies",
					"lab specimen transport",
					"healthcare logistics providers",
					"pharmaceutical distribution",
					"medical supply delivery",
					"radiology courier services",
					"blood bank transport",
					"organ transport services",
					"medical device delivery",
				},
			},
			{
				Focus:       "General Couriers",
				Priority:    types.SeverityMedium,
				Field:       "name",
				Match:       "courier",
				Minimum:     200,
				TargetCount: "15-25 new companies",
				Rationale:   "Currently have {{.Count}} courier companies, room for growth",
				SearchTerms: []string{
					"same day delivery services",
					"express courier companies",
					"local delivery services",
					"package delivery companies",
					"freight courier services",
					"document delivery services",
					"time critical delivery",
					"rush delivery services",
				},
			},
		},
		MinStates:        40,
		StateSearchTerms: []string{"state specific courier services", "regional delivery companies"},
		Leaders: []types.IndustryLeader{
			{Name: "STAT-Logix", Website: "stat-logix.com", Vertical: "Medical"},
			{Name: "Quest Diagnostics", Website: "questdiagnostics.com", Vertical: "Medical"},
			{Name: "LabCorp", Website: "labcorp.com", Vertical: "Medical"},
			{Name: "BioReference Laboratories", Website: "bioreference.com", Vertical: "Medical"},
			{Name: "Sonic Healthcare", Website: "sonichealthcareusa.com", Vertical: "Medical"},
			{Name: "Diligent Delivery Systems", Website: "diligentusa.com", Vertical: "Medical"},
			{Name: "MedSpeed", Website: "medspeed.com", Vertical: "Medical"},
			{Name: "PathGroup", Website: "pathgroup.com", Vertical: "Medical"},
			{Name: "Reliable Couriers", Website: "reliablecouriers.com", Vertical: "Medical"},
		},
		NamingPatterns: []string{
			"stat", "med", "medical", "bio", "lab", "specimen", "pharma", "health",
			"clinic", "hospital", "urgent", "rush", "express", "logix", "logistics",
		},
	}
}
