package pipeline

import (
	"logisticsprep/internal/dataprocessing"
	"logisticsprep/internal/validation"
	"logisticsprep/pkg/contracts/domain"
)

// Stage identifiers, in execution order
const (
	StageLoad      = "load"
	StageClean     = "clean"
	StageJoin      = "join"
	StageAggregate = "aggregate"
	StageValidate  = "validate"
	StageExport    = "export"
)

// Stages lists every stage in the order Run executes them
var Stages = []string{StageLoad, StageClean, StageJoin, StageAggregate, StageValidate, StageExport}

// State is everything a run has produced so far. Stages never modify the
// State they receive; each returns a copy with its own results filled in.
type State struct {
	TraceID string

	Raw        domain.Sources
	Cleaned    domain.Sources
	CleanStats []dataprocessing.CleanStats
	Master     *domain.Table
	JoinStats  dataprocessing.JoinStats
	Aggregates domain.Aggregates
	Quality    *validation.QualityReport

	// Written lists the files produced by the export stage
	Written []string
}

// Completed reports whether the run got as far as writing its outputs
func (s State) Completed() bool {
	return len(s.Written) > 0
}
