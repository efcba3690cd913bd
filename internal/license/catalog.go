package license

// Type identifies a license tier.
type Type string

const (
	TypeTrial     Type = "TRIAL"
	TypeSemestral Type = "SEMESTRAL"
	TypeAnnual    Type = "ANNUAL"
)

// Plan describes a purchasable (or trial) license tier.
type Plan struct {
	Type         Type     `json:"type"`
	Name         string   `json:"name"`
	DurationDays int      `json:"duration"`
	Price        float64  `json:"price"`
	Features     []string `json:"features"`
	Message      string   `json:"message"`
}

// Catalog is the static table of available license tiers.
var Catalog = map[Type]Plan{
	TypeTrial: {
		Type:         TypeTrial,
		Name:         "Trial License",
		DurationDays: 15,
		Price:        0,
		Features:     []string{"full_access", "basic_support"},
		Message:      "Trial license - 15 days",
	},
	TypeSemestral: {
		Type:         TypeSemestral,
		Name:         "Semestral License",
		DurationDays: 180,
		Price:        299,
		Features:     []string{"full_access", "priority_support", "updates", "backup"},
		Message:      "Semestral license - 6 months",
	},
	TypeAnnual: {
		Type:         TypeAnnual,
		Name:         "Annual License",
		DurationDays: 365,
		Price:        499,
		Features:     []string{"full_access", "priority_support", "all_updates", "backup", "phone_support"},
		Message:      "Annual license - 12 months",
	},
}
