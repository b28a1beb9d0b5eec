package report

import (
	"encoding/json"

	"github.com/tidwall/pretty"

	"rebalancer/pkg/allocation"
	"rebalancer/pkg/pipeline"
	"rebalancer/pkg/rebalance"
)

type preview struct {
	Mode      string                 `json:"mode"`
	TotalCash string                 `json:"total_cash"`
	Target    allocation.Target      `json:"target"`
	Plan      rebalance.Plan         `json:"plan"`
	Skipped   []rebalance.DeltaOrder `json:"skipped,omitempty"`
	Withheld  []rebalance.DeltaOrder `json:"withheld,omitempty"`
}

// PreviewJSON renders the target and plan of r as indented JSON.
func PreviewJSON(r *pipeline.Report) ([]byte, error) {
	data, err := json.Marshal(preview{
		Mode:      string(r.Mode),
		TotalCash: r.TotalCash.StringFixed(2),
		Target:    r.Target,
		Plan:      r.Plan,
		Skipped:   r.Skipped,
		Withheld:  r.Withheld,
	})
	if err != nil {
		return nil, err
	}
	return pretty.Pretty(data), nil
}
