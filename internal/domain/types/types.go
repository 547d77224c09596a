// Package types contains the serializable output of the collaborator engine.
package types

import (
	"time"

	"github.com/cylin-ms/scenara-sub003/internal/domain/model"
)

// AlgorithmVersion tags every report with the ranking algorithm revision.
const AlgorithmVersion = "collab-rank/v8"

// Evidence counts the interactions behind a score.
type Evidence struct {
	OneOnOnes                int `json:"one_on_ones"`
	SelfOrganized            int `json:"self_organized"`
	CounterpartOrganized     int `json:"counterpart_organized"`
	SmallCollaborative       int `json:"small_collaborative"`
	ChatMessages             int `json:"chat_messages"`
	Mails                    int `json:"mails"`
	CoEdits                  int `json:"co_edits"`
	DistributionListMeetings int `json:"distribution_list_meetings"`
	// PeopleRank is the best (lowest) people-rank position, 0 when absent.
	PeopleRank int `json:"people_rank,omitempty"`
}

// Temporal holds activity-span metrics.
type Temporal struct {
	FirstSeen     time.Time `json:"first_seen"`
	LastSeen      time.Time `json:"last_seen"`
	ActiveWeeks   int       `json:"active_weeks"`
	EventsPerWeek float64   `json:"events_per_week"`
}

// Bonuses breaks down the additive bonuses of the final score.
type Bonuses struct {
	Consistency float64 `json:"consistency"`
	Recency     float64 `json:"recency"`
	Depth       float64 `json:"depth"`
}

// CollaboratorScore is the engine output for one counterpart.
type CollaboratorScore struct {
	Rank          int                      `json:"rank"`
	Counterpart   model.Identity           `json:"counterpart"`
	FinalScore    float64                  `json:"final_score"`
	RawScore      float64                  `json:"raw_score"`
	ChannelScores map[model.Source]float64 `json:"channel_scores"`
	Bonuses       Bonuses                  `json:"bonuses"`
	Evidence      Evidence                 `json:"evidence"`
	Temporal      Temporal                 `json:"temporal"`
	Confidence    float64                  `json:"confidence"`
	Summary       []string                 `json:"summary"`
}

// SourceFailure records a source whose retrieval failed.
type SourceFailure struct {
	Source  model.Source `json:"source"`
	Message string       `json:"message"`
}

// Diagnostics explains what the engine skipped. Dropped counterparts are
// counted by reason and never named.
type Diagnostics struct {
	Malformed          map[model.Source]int `json:"malformed"`
	OutOfWindow        map[model.Source]int `json:"out_of_window"`
	SelfOnly           map[model.Source]int `json:"self_only"`
	Duplicates         map[model.Source]int `json:"duplicates"`
	UnavailableSources []SourceFailure      `json:"unavailable_sources"`
	AbsentSources      []model.Source       `json:"absent_sources"`
	Evaluated          int                  `json:"evaluated"`
	Survivors          int                  `json:"survivors"`
	Dropped            int                  `json:"dropped"`
	DropReasons        map[string]int       `json:"drop_reasons"`
}

// Report is the complete, deterministic result of one analysis.
type Report struct {
	AlgorithmVersion string               `json:"algorithm_version"`
	ReportID         string               `json:"report_id"`
	ConfigDigest     string               `json:"config_digest"`
	Subject          model.Identity       `json:"subject"`
	Now              time.Time            `json:"now"`
	LookbackDays     int                  `json:"lookback_days"`
	SourceCounts     map[model.Source]int `json:"source_counts"`
	Collaborators    []CollaboratorScore  `json:"collaborators"`
	Diagnostics      Diagnostics          `json:"diagnostics"`
}

// NewDiagnostics returns Diagnostics with every per-source table populated.
func NewDiagnostics() Diagnostics {
	d := Diagnostics{
		Malformed:          map[model.Source]int{},
		OutOfWindow:        map[model.Source]int{},
		SelfOnly:           map[model.Source]int{},
		Duplicates:         map[model.Source]int{},
		UnavailableSources: []SourceFailure{},
		AbsentSources:      []model.Source{},
		DropReasons:        map[string]int{},
	}
	for _, s := range model.Sources() {
		d.Malformed[s] = 0
		d.OutOfWindow[s] = 0
		d.SelfOnly[s] = 0
		d.Duplicates[s] = 0
	}
	return d
}

// Find returns the collaborator entry for id, if present.
func (r Report) Find(id model.Identity) (CollaboratorScore, bool) {
	for _, c := range r.Collaborators {
		if c.Counterpart == id {
			return c, true
		}
	}
	return CollaboratorScore{}, false
}
