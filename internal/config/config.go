// Package config defines process and engine configuration and loading hooks.
//
// Conventions:
// - New returns a Config populated with defaults; Load layers file and env on top.
// - Engine is the single read-only configuration object consulted by the
//   classifier, weighter, scorer and filter. It is safe to share.
// - Validation failures wrap ErrInvalidConfig.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// MaxBodyBytes caps POST /analyze request bodies.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// Engine holds the collaborator engine tables and thresholds.
	Engine Engine `koanf:"engine"`
}

// Engine is the collaborator engine configuration.
type Engine struct {
	// LookbackDays bounds the analysis window when a request does not set one.
	LookbackDays int `koanf:"lookback_days" json:"lookback_days"`

	// HalfLifeDays controls exponential decay past 180 days.
	HalfLifeDays float64 `koanf:"half_life_days" json:"half_life_days"`

	// ScoreThreshold is T_score; ConfidenceThreshold is T_conf.
	ScoreThreshold      float64 `koanf:"score_threshold" json:"score_threshold"`
	ConfidenceThreshold float64 `koanf:"confidence_threshold" json:"confidence_threshold"`

	// PeopleRankCutoff is R_top. PeopleRankStep is the per-rank context decrement.
	PeopleRankCutoff int     `koanf:"people_rank_cutoff" json:"people_rank_cutoff"`
	PeopleRankStep   float64 `koanf:"people_rank_step" json:"people_rank_step"`

	// PeopleRankAdmitsAlone lets a people-rank entry within the cutoff surface a
	// counterpart without other evidence. It counts as strong evidence, waives
	// the interaction minimum and, for a counterpart known only from
	// people-rank, lifts confidence to the entry's rank confidence. The
	// confidence threshold still applies.
	PeopleRankAdmitsAlone bool `koanf:"people_rank_admits_alone" json:"people_rank_admits_alone"`

	// MinInteractions is the interaction floor; waived by one-on-ones and
	// admitting people-rank entries.
	MinInteractions int `koanf:"min_interactions" json:"min_interactions"`

	// RequireStrongEvidence toggles the strong-evidence rule.
	RequireStrongEvidence bool `koanf:"require_strong_evidence" json:"require_strong_evidence"`

	// BroadcastAttendeeLimit: meetings above it are broadcasts.
	// SmallMeetingLimit: meetings at or below it are small.
	BroadcastAttendeeLimit int `koanf:"broadcast_attendee_limit" json:"broadcast_attendee_limit"`
	SmallMeetingLimit      int `koanf:"small_meeting_limit" json:"small_meeting_limit"`

	// DistributionListPenalty compounds w_context for list invitations.
	DistributionListPenalty float64 `koanf:"distribution_list_penalty" json:"distribution_list_penalty"`

	// HolidaySubjectRatio is the largest tolerated share of holiday subjects.
	HolidaySubjectRatio float64 `koanf:"holiday_subject_ratio" json:"holiday_subject_ratio"`

	DistributionListPatterns []string `koanf:"distribution_list_patterns" json:"distribution_list_patterns"`
	SystemAccountPatterns    []string `koanf:"system_account_patterns" json:"system_account_patterns"`
	HolidayKeywords          []string `koanf:"holiday_keywords" json:"holiday_keywords"`

	Keywords           KeywordSets        `koanf:"keywords" json:"keywords"`
	BaseWeights        BaseWeights        `koanf:"base_weights" json:"base_weights"`
	ContextMultipliers ContextMultipliers `koanf:"context_multipliers" json:"context_multipliers"`
	Bonuses            Bonuses            `koanf:"bonuses" json:"bonuses"`

	// ClassifierCacheSize bounds the per-run meeting classification memo.
	ClassifierCacheSize int `koanf:"classifier_cache_size" json:"classifier_cache_size"`
}

// KeywordSets are the subject vocabularies used by the meeting classifier.
type KeywordSets struct {
	Broadcast     []string `koanf:"broadcast" json:"broadcast"`
	Informational []string `koanf:"informational" json:"informational"`
	Training      []string `koanf:"training" json:"training"`
	Collaborative []string `koanf:"collaborative" json:"collaborative"`
}

// BaseWeights is the per-interaction base weight table b_i.
type BaseWeights struct {
	OneOnOne              float64 `koanf:"one_on_one" json:"one_on_one"`
	SelfOrganized         float64 `koanf:"self_organized" json:"self_organized"`
	CounterpartOrganized  float64 `koanf:"counterpart_organized" json:"counterpart_organized"`
	SmallCollaborative    float64 `koanf:"small_collaborative" json:"small_collaborative"`
	PlanningDecision      float64 `koanf:"planning_decision" json:"planning_decision"`
	SmallRecurring        float64 `koanf:"small_recurring" json:"small_recurring"`
	TrainingEducation     float64 `koanf:"training_education" json:"training_education"`
	InformationalBriefing float64 `koanf:"informational_briefing" json:"informational_briefing"`
	BroadcastWebinar      float64 `koanf:"broadcast_webinar" json:"broadcast_webinar"`
	ChatOneOnOne          float64 `koanf:"chat_one_on_one" json:"chat_one_on_one"`
	ChatGroup             float64 `koanf:"chat_group" json:"chat_group"`
	MailTo                float64 `koanf:"mail_to" json:"mail_to"`
	MailCC                float64 `koanf:"mail_cc" json:"mail_cc"`
	DocumentCoEdit        float64 `koanf:"document_co_edit" json:"document_co_edit"`
	DocumentShareSent     float64 `koanf:"document_share_sent" json:"document_share_sent"`
	DocumentShareReceived float64 `koanf:"document_share_received" json:"document_share_received"`
	PeopleRank            float64 `koanf:"people_rank" json:"people_rank"`
}

// ContextMultipliers is the w_context table.
type ContextMultipliers struct {
	OneOnOne              float64 `koanf:"one_on_one" json:"one_on_one"`
	SmallCollaborative    float64 `koanf:"small_collaborative" json:"small_collaborative"`
	PlanningDecision      float64 `koanf:"planning_decision" json:"planning_decision"`
	SmallRecurring        float64 `koanf:"small_recurring" json:"small_recurring"`
	TrainingEducation     float64 `koanf:"training_education" json:"training_education"`
	InformationalBriefing float64 `koanf:"informational_briefing" json:"informational_briefing"`
	BroadcastWebinar      float64 `koanf:"broadcast_webinar" json:"broadcast_webinar"`
	ChatOneOnOne          float64 `koanf:"chat_one_on_one" json:"chat_one_on_one"`
	ChatGroup             float64 `koanf:"chat_group" json:"chat_group"`
	MailTo                float64 `koanf:"mail_to" json:"mail_to"`
	MailCC                float64 `koanf:"mail_cc" json:"mail_cc"`
	DocumentCoEdit        float64 `koanf:"document_co_edit" json:"document_co_edit"`
	DocumentShareSent     float64 `koanf:"document_share_sent" json:"document_share_sent"`
	DocumentShareReceived float64 `koanf:"document_share_received" json:"document_share_received"`
}

// Bonuses holds the auxiliary bonus parameters of the scorer.
type Bonuses struct {
	ConsistencyHigh     float64 `koanf:"consistency_high" json:"consistency_high"` // active_weeks >= 3
	ConsistencyLow      float64 `koanf:"consistency_low" json:"consistency_low"`   // active_weeks >= 2
	RecencyPerEvent     float64 `koanf:"recency_per_event" json:"recency_per_event"`
	RecencyCap          float64 `koanf:"recency_cap" json:"recency_cap"`
	RecencyWindowDays   float64 `koanf:"recency_window_days" json:"recency_window_days"`
	DepthOneOnOne       float64 `koanf:"depth_one_on_one" json:"depth_one_on_one"`
	DepthSelfOrganized  float64 `koanf:"depth_self_organized" json:"depth_self_organized"`
	DepthCounterpartOrg float64 `koanf:"depth_counterpart_organized" json:"depth_counterpart_organized"`
	DepthSmallCollab    float64 `koanf:"depth_small_collaborative" json:"depth_small_collaborative"`
	DepthCap            float64 `koanf:"depth_cap" json:"depth_cap"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:     "info",
		LogFormat:    "text",
		Addr:         ":9080",
		MaxBodyBytes: 32 << 20,
		Engine:       DefaultEngine(),
	}
}

// DefaultEngine returns the engine defaults.
func DefaultEngine() Engine {
	return Engine{
		LookbackDays:            90,
		HalfLifeDays:            180,
		ScoreThreshold:          15,
		ConfidenceThreshold:     0.6,
		PeopleRankCutoff:        25,
		PeopleRankStep:          0.05,
		PeopleRankAdmitsAlone:   true,
		MinInteractions:         2,
		RequireStrongEvidence:   true,
		BroadcastAttendeeLimit:  50,
		SmallMeetingLimit:       10,
		DistributionListPenalty: 0.25,
		HolidaySubjectRatio:     0.4,
		DistributionListPatterns: []string{
			"eventsonly", "allhands", "all-hands", "^dl-", "distlist", "everyone@", "allemployees",
		},
		SystemAccountPatterns: []string{
			"events", "holiday", "noreply", "no-reply", "donotreply", "admin", "bot",
			"service", "announcements", "notifications", "mailer-daemon", "calendar",
		},
		HolidayKeywords: []string{
			"holiday", "public holiday", "out of office", "ooo", "vacation", "birthday",
			"anniversary", "day off", "observance",
		},
		Keywords: KeywordSets{
			Broadcast: []string{
				"all-hands", "allhands", "all hands", "town hall", "townhall", "webinar",
				"broadcast", "keynote", "livestream", "company meeting",
			},
			Informational: []string{
				"briefing", "update", "announcement", "fyi", "overview", "showcase",
				"demo", "readout", "newsletter", "office hours", "info session",
			},
			Training: []string{
				"training", "workshop", "course", "onboarding", "tutorial", "learning",
				"lecture", "certification", "bootcamp", "class",
			},
			Collaborative: []string{
				"sync", "review", "planning", "plan", "design", "brainstorm", "standup",
				"stand-up", "working session", "discussion", "decision", "strategy",
				"retro", "kickoff", "triage", "roadmap",
			},
		},
		BaseWeights: BaseWeights{
			OneOnOne:              30,
			SelfOrganized:         18,
			CounterpartOrganized:  12,
			SmallCollaborative:    10,
			PlanningDecision:      8,
			SmallRecurring:        6,
			TrainingEducation:     3,
			InformationalBriefing: 2,
			BroadcastWebinar:      1,
			ChatOneOnOne:          8,
			ChatGroup:             3,
			MailTo:                4,
			MailCC:                2,
			DocumentCoEdit:        10,
			DocumentShareSent:     6,
			DocumentShareReceived: 4,
			PeopleRank:            20,
		},
		ContextMultipliers: ContextMultipliers{
			OneOnOne:              1.3,
			SmallCollaborative:    1.2,
			PlanningDecision:      1.2,
			SmallRecurring:        1.0,
			TrainingEducation:     0.5,
			InformationalBriefing: 0.2,
			BroadcastWebinar:      0.05,
			ChatOneOnOne:          1.3,
			ChatGroup:             0.7,
			MailTo:                1.0,
			MailCC:                0.4,
			DocumentCoEdit:        1.2,
			DocumentShareSent:     0.9,
			DocumentShareReceived: 0.6,
		},
		Bonuses: Bonuses{
			ConsistencyHigh:     5,
			ConsistencyLow:      2,
			RecencyPerEvent:     1.5,
			RecencyCap:          10,
			RecencyWindowDays:   30,
			DepthOneOnOne:       30,
			DepthSelfOrganized:  25,
			DepthCounterpartOrg: 20,
			DepthSmallCollab:    15,
			DepthCap:            200,
		},
		ClassifierCacheSize: 4096,
	}
}

// Clone returns a deep copy so callers can tweak a copy of the defaults
// without aliasing the pattern slices.
func (e Engine) Clone() Engine {
	out := e
	out.DistributionListPatterns = append([]string(nil), e.DistributionListPatterns...)
	out.SystemAccountPatterns = append([]string(nil), e.SystemAccountPatterns...)
	out.HolidayKeywords = append([]string(nil), e.HolidayKeywords...)
	out.Keywords = KeywordSets{
		Broadcast:     append([]string(nil), e.Keywords.Broadcast...),
		Informational: append([]string(nil), e.Keywords.Informational...),
		Training:      append([]string(nil), e.Keywords.Training...),
		Collaborative: append([]string(nil), e.Keywords.Collaborative...),
	}
	return out
}
