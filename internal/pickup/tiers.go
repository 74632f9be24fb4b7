package pickup

// Category is the kind of stat a pickup restores.
type Category string

const (
	Ammo   Category = "ammo"
	Health Category = "health"
)

// Tier is a fixed pickup magnitude. Probability weights the tier only when
// choosing within its category.
type Tier struct {
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Value       float64  `json:"value"`
	Probability float64  `json:"probability"`
}

// Tiers lists every pickup type.
var Tiers = []Tier{
	{Name: "ammoSmall", Category: Ammo, Value: 25, Probability: 0.5},
	{Name: "ammoMedium", Category: Ammo, Value: 50, Probability: 0.3},
	{Name: "ammoLarge", Category: Ammo, Value: 75, Probability: 0.2},
	{Name: "healthSmall", Category: Health, Value: 10, Probability: 0.5},
	{Name: "healthMedium", Category: Health, Value: 25, Probability: 0.3},
	{Name: "healthLarge", Category: Health, Value: 45, Probability: 0.2},
}

// TierByName looks up a tier.
func TierByName(name string) (Tier, bool) {
	for _, t := range Tiers {
		if t.Name == name {
			return t, true
		}
	}
	return Tier{}, false
}

// PickTier draws a tier of cat by weight. r is uniform in [0,1).
func PickTier(cat Category, r float64) Tier {
	var sum float64
	var in []Tier
	for _, t := range Tiers {
		if t.Category == cat {
			in = append(in, t)
			sum += t.Probability
		}
	}
	x := r * sum
	var cum float64
	for _, t := range in {
		cum += t.Probability
		if x < cum {
			return t
		}
	}
	return in[len(in)-1]
}
