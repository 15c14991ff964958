package orchestration

import (
	"github.com/agbru/rangesum/internal/config"
	"github.com/agbru/rangesum/internal/partition"
)

// Plan is the immutable input of a run.
type Plan struct {
	DataSize uint64
	Workers  int
	Policy   partition.Policy
}

// PlanFromConfig builds a Plan from a validated configuration.
func PlanFromConfig(cfg config.AppConfig) Plan {
	return Plan{
		DataSize: cfg.DataSize,
		Workers:  cfg.Workers,
		Policy:   cfg.Policy(),
	}
}

// Ranges partitions the plan's data range among its workers.
func (p Plan) Ranges() []partition.WorkRange {
	return partition.Split(p.DataSize, p.Workers, p.Policy)
}
