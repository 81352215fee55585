package subscription

import "github.com/shopspring/decimal"

var catalog = []Plan{
	{
		ID:           PlanStarter,
		Name:         "Starter",
		Description:  "Entry plan, 30 days",
		Price:        decimal.NewFromInt(99),
		DurationDays: 30,
	},
	{
		ID:           PlanGrowth,
		Name:         "Growth",
		Description:  "Extended plan, 90 days",
		Price:        decimal.NewFromInt(499),
		DurationDays: 90,
	},
	{
		ID:           PlanPro,
		Name:         "Pro",
		Description:  "Full access, 365 days",
		Price:        decimal.NewFromInt(1499),
		DurationDays: 365,
	},
}

func Plans() []Plan {
	out := make([]Plan, len(catalog))
	copy(out, catalog)
	return out
}

func FindPlan(id PlanID) (Plan, bool) {
	for _, p := range catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}
