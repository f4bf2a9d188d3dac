package engine

import (
	"errors"
	"fmt"

	"github.com/claude/ironquest/internal/models"
)

const (
	fatiguedNamePrefix = "Fatigued: "
	fatiguedCue        = "Reduced intensity today — move well, leave plenty in reserve."
	cappedNameSuffix   = " (volume capped)"

	regulatedMaxSets      = 3
	regulatedIntensityCap = 0.6
	regulatedFallbackReps = 5
)

// ErrEmptySession is returned when a template with no blocks is passed to the
// auto-regulator.
var ErrEmptySession = errors.New("session template has no blocks")

// RegulateSession rewrites a session for a compromised athlete: working-set
// intensity capped at 60% of training max, PR attempts stripped, percent-based
// exercises truncated to three sets. It operates on a deep copy and returns
// it; the caller's template is never touched.
//
// Applying the regulator twice compounds the fatigued prefix — callers apply
// it at most once per session instance.
func RegulateSession(t models.SessionTemplate) (models.SessionTemplate, error) {
	if len(t.Blocks) == 0 {
		return models.SessionTemplate{}, ErrEmptySession
	}
	if err := validateSession(t); err != nil {
		return models.SessionTemplate{}, err
	}

	out := t.Clone()
	for bi := range out.Blocks {
		block := &out.Blocks[bi]
		if block.Kind == models.BlockTransition {
			continue
		}
		for ei := range block.Exercises {
			regulateExercise(&block.Exercises[ei])
		}
	}
	out.DisplayName += cappedNameSuffix
	return out, nil
}

func regulateExercise(ex *models.Exercise) {
	if !usesPercentLoading(*ex) {
		return
	}

	ex.Name = fatiguedNamePrefix + ex.Name
	ex.Cues = append([]string{fatiguedCue}, ex.Cues...)

	if len(ex.Sets) > regulatedMaxSets {
		ex.Sets = ex.Sets[:regulatedMaxSets]
	}
	for si := range ex.Sets {
		set := &ex.Sets[si]
		if set.WeightPct != nil && *set.WeightPct > regulatedIntensityCap {
			capped := regulatedIntensityCap
			set.WeightPct = &capped
			set.Tier = string(RarityPoor)
		}
		if set.IsPRZone {
			set.IsPRZone = false
			set.TargetReps = regulatedFallbackReps
		}
	}
}

func usesPercentLoading(ex models.Exercise) bool {
	for _, s := range ex.Sets {
		if s.WeightPct != nil {
			return true
		}
	}
	return false
}

// validateSession rejects structurally invalid templates the engine cannot
// default around.
func validateSession(t models.SessionTemplate) error {
	for _, b := range t.Blocks {
		for _, ex := range b.Exercises {
			for _, s := range ex.Sets {
				if s.WeightPct != nil && *s.WeightPct < 0 {
					return fmt.Errorf("exercise %q: negative weight percent", ex.Name)
				}
				if s.TargetReps < 0 && s.TargetReps != models.RepsAMRAP {
					return fmt.Errorf("exercise %q: negative target reps", ex.Name)
				}
			}
		}
	}
	return nil
}
