package bench

import (
	"math"

	"github.com/HartBrook/promptbench/internal/config"
)

// Projection scales per-task savings to a project of Phases phases.
type Projection struct {
	Phases      int     `json:"phases"`
	Tasks       int     `json:"tasks"`
	SimpleTasks int     `json:"simple_tasks"`
	TokensSaved int     `json:"tokens_saved"`
	Cost        float64 `json:"cost_usd"`
}

// Project computes one Projection per configured phase count. Only simple
// tasks (those that load the optimized file alone) realise the savings.
func Project(savingsPerTask int, proj config.ProjectionConfig, pricing config.PricingConfig) []Projection {
	out := make([]Projection, 0, len(proj.Phases))
	for _, phases := range proj.Phases {
		tasks := phases * proj.PlansPerPhase
		simple := int(math.Round(float64(tasks) * proj.SimpleShare()))
		saved := simple * savingsPerTask
		out = append(out, Projection{
			Phases:      phases,
			Tasks:       tasks,
			SimpleTasks: simple,
			TokensSaved: saved,
			Cost:        float64(saved) / 1_000_000 * pricing.PerMTok(),
		})
	}
	return out
}
