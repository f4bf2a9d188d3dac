package models

// RepsAMRAP is the sentinel target-rep value for "as many reps as possible".
const RepsAMRAP = -1

// BlockKind distinguishes training stations from equipment transitions.
type BlockKind string

const (
	BlockWarmup     BlockKind = "warmup"
	BlockStation    BlockKind = "station"
	BlockTransition BlockKind = "transition"
)

// SetPlan is a single planned set. TargetReps may be RepsAMRAP. WeightPct is
// the fraction of training max for percent-based work; nil means fixed-load
// or bodyweight.
type SetPlan struct {
	TargetReps int      `json:"target_reps"`
	WeightPct  *float64 `json:"weight_pct,omitempty"`
	Completed  bool     `json:"completed"`
	IsPRZone   bool     `json:"is_pr_zone,omitempty"`
	Tier       string   `json:"tier,omitempty"`
}

// Exercise is an ordered group of sets within a block.
type Exercise struct {
	ExerciseID string    `json:"exercise_id"`
	Name       string    `json:"name"`
	Cues       []string  `json:"cues,omitempty"`
	Sets       []SetPlan `json:"sets"`
}

// Block is one segment of a session: a warm-up, a station with exercises, or
// a transition carrying only equipment-change instructions.
type Block struct {
	Kind         BlockKind  `json:"kind"`
	Name         string     `json:"name"`
	Instructions []string   `json:"instructions,omitempty"`
	Exercises    []Exercise `json:"exercises,omitempty"`
}

// SessionTemplate is a workout definition: an ordered list of blocks.
type SessionTemplate struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	Blocks      []Block `json:"blocks"`
}

// Clone returns a structurally independent copy of the template. Mutating the
// copy never alters the original, so the auto-regulator can rewrite a session
// without the caller's source template being observed mid-change.
func (t SessionTemplate) Clone() SessionTemplate {
	out := t
	out.Blocks = make([]Block, len(t.Blocks))
	for i, b := range t.Blocks {
		out.Blocks[i] = b.clone()
	}
	return out
}

func (b Block) clone() Block {
	out := b
	if b.Instructions != nil {
		out.Instructions = append([]string(nil), b.Instructions...)
	}
	if b.Exercises != nil {
		out.Exercises = make([]Exercise, len(b.Exercises))
		for i, e := range b.Exercises {
			out.Exercises[i] = e.clone()
		}
	}
	return out
}

func (e Exercise) clone() Exercise {
	out := e
	if e.Cues != nil {
		out.Cues = append([]string(nil), e.Cues...)
	}
	if e.Sets != nil {
		out.Sets = make([]SetPlan, len(e.Sets))
		for i, s := range e.Sets {
			out.Sets[i] = s.clone()
		}
	}
	return out
}

func (s SetPlan) clone() SetPlan {
	out := s
	if s.WeightPct != nil {
		pct := *s.WeightPct
		out.WeightPct = &pct
	}
	return out
}
