package config

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"math"
	"reflect"

	"github.com/cockroachdb/errors"
)

// Validate reports the first problem that makes the engine configuration
// unusable. The returned error matches ErrInvalidConfig.
func (e Engine) Validate() error {
	switch {
	case e.LookbackDays <= 0:
		return invalidf("lookback_days must be positive, got %d", e.LookbackDays)
	case !positive(e.HalfLifeDays):
		return invalidf("half_life_days must be positive, got %v", e.HalfLifeDays)
	case !nonNegative(e.ScoreThreshold):
		return invalidf("score_threshold must be non-negative, got %v", e.ScoreThreshold)
	case !unit(e.ConfidenceThreshold):
		return invalidf("confidence_threshold must lie in [0,1], got %v", e.ConfidenceThreshold)
	case e.PeopleRankCutoff < 0:
		return invalidf("people_rank_cutoff must be non-negative, got %d", e.PeopleRankCutoff)
	case !nonNegative(e.PeopleRankStep):
		return invalidf("people_rank_step must be non-negative, got %v", e.PeopleRankStep)
	case e.MinInteractions < 0:
		return invalidf("min_interactions must be non-negative, got %d", e.MinInteractions)
	case e.BroadcastAttendeeLimit < 2:
		return invalidf("broadcast_attendee_limit must be at least 2, got %d", e.BroadcastAttendeeLimit)
	case e.SmallMeetingLimit < 2 || e.SmallMeetingLimit > e.BroadcastAttendeeLimit:
		return invalidf("small_meeting_limit must lie in [2, broadcast_attendee_limit], got %d", e.SmallMeetingLimit)
	case !unit(e.DistributionListPenalty):
		return invalidf("distribution_list_penalty must lie in [0,1], got %v", e.DistributionListPenalty)
	case !unit(e.HolidaySubjectRatio):
		return invalidf("holiday_subject_ratio must lie in [0,1], got %v", e.HolidaySubjectRatio)
	case e.ClassifierCacheSize < 0:
		return invalidf("classifier_cache_size must be non-negative, got %d", e.ClassifierCacheSize)
	}

	if err := checkTable("base_weights", e.BaseWeights); err != nil {
		return err
	}
	if err := checkTable("context_multipliers", e.ContextMultipliers); err != nil {
		return err
	}
	if err := checkTable("bonuses", e.Bonuses); err != nil {
		return err
	}

	for _, set := range []struct {
		name  string
		words []string
	}{
		{"keywords.broadcast", e.Keywords.Broadcast},
		{"keywords.informational", e.Keywords.Informational},
		{"keywords.training", e.Keywords.Training},
		{"keywords.collaborative", e.Keywords.Collaborative},
	} {
		if len(set.words) == 0 {
			return invalidf("%s must not be empty", set.name)
		}
	}
	return nil
}

// checkTable rejects negative or non-finite float fields of a weight table.
func checkTable(name string, table interface{}) error {
	v := reflect.ValueOf(table)
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		if f.Kind() != reflect.Float64 {
			continue
		}
		if !nonNegative(f.Float()) {
			return errors.WithDetailf(
				invalidf("%s.%s must be a non-negative finite number", name, t.Field(i).Tag.Get("koanf")),
				"value: %v", f.Float(),
			)
		}
	}
	return nil
}

// Digest returns a stable SHA-256 hex digest of the engine configuration.
func (e Engine) Digest() string {
	// Engine only holds JSON-safe values; Marshal cannot fail for it.
	b, _ := json.Marshal(e)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func positive(x float64) bool    { return x > 0 && !math.IsInf(x, 0) && !math.IsNaN(x) }
func nonNegative(x float64) bool { return x >= 0 && !math.IsInf(x, 0) && !math.IsNaN(x) }
func unit(x float64) bool        { return x >= 0 && x <= 1 }
