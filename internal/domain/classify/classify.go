// Package classify assigns a meeting class to calendar interactions.
//
// Classification is a deterministic function of the calendar attributes and
// the configured keyword sets. Rules are evaluated in a fixed order and the
// first match wins:
//
//  1. attendee_count > broadcast limit, or a broadcast keyword: broadcast_webinar
//  2. distribution-list invitation, or an informational keyword: informational_briefing
//  3. a training keyword: training_education
//  4. attendee_count = 2: one_on_one
//  5. a collaborative keyword: small_collaborative up to the small limit, else planning_decision
//  6. attendee_count <= small limit: small_recurring
//  7. otherwise: informational_briefing
package classify

import (
	"github.com/cockroachdb/errors"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cylin-ms/scenara-sub003/internal/config"
	"github.com/cylin-ms/scenara-sub003/internal/domain/model"
)

// key identifies a meeting for memoization. Organizer never changes the class.
type key struct {
	subject string
	count   int
	viaList bool
}

// Classifier implements the meeting classification rules. A Classifier
// belongs to one engine run; its memo is not shared across runs.
type Classifier struct {
	broadcast     keywordSet
	informational keywordSet
	training      keywordSet
	collaborative keywordSet

	broadcastLimit int
	smallLimit     int

	cache *lru.Cache[key, model.MeetingClass]
}

// Option applies a configuration option to the Classifier.
type Option func(*settings)

type settings struct {
	cacheSize int
}

// WithCacheSize overrides the memo size; zero disables memoization.
func WithCacheSize(n int) Option {
	return func(s *settings) {
		if n >= 0 {
			s.cacheSize = n
		}
	}
}

// New builds a Classifier from the engine configuration.
func New(cfg config.Engine, opts ...Option) (*Classifier, error) {
	s := settings{cacheSize: cfg.ClassifierCacheSize}
	for _, opt := range opts {
		opt(&s)
	}

	c := &Classifier{
		broadcast:      newKeywordSet(cfg.Keywords.Broadcast),
		informational:  newKeywordSet(cfg.Keywords.Informational),
		training:       newKeywordSet(cfg.Keywords.Training),
		collaborative:  newKeywordSet(cfg.Keywords.Collaborative),
		broadcastLimit: cfg.BroadcastAttendeeLimit,
		smallLimit:     cfg.SmallMeetingLimit,
	}
	if s.cacheSize > 0 {
		cache, err := lru.New[key, model.MeetingClass](s.cacheSize)
		if err != nil {
			return nil, errors.Wrap(err, "classifier cache")
		}
		c.cache = cache
	}
	return c, nil
}

// Classify returns the meeting class of a calendar meeting.
func (c *Classifier) Classify(attrs model.CalendarAttrs) model.MeetingClass {
	k := key{subject: attrs.Subject, count: attrs.AttendeeCount, viaList: attrs.DistributionList}
	if c.cache != nil {
		if class, ok := c.cache.Get(k); ok {
			return class
		}
	}
	class := c.classify(k)
	if c.cache != nil {
		c.cache.Add(k, class)
	}
	return class
}

func (c *Classifier) classify(k key) model.MeetingClass {
	tokens := tokenize(k.subject)
	switch {
	case k.count > c.broadcastLimit || c.broadcast.match(tokens):
		return model.ClassBroadcastWebinar
	case k.viaList || c.informational.match(tokens):
		return model.ClassInformationalBriefing
	case c.training.match(tokens):
		return model.ClassTrainingEducation
	case k.count == 2:
		return model.ClassOneOnOne
	case c.collaborative.match(tokens):
		if k.count <= c.smallLimit {
			return model.ClassSmallCollaborative
		}
		return model.ClassPlanningDecision
	case k.count <= c.smallLimit:
		return model.ClassSmallRecurring
	default:
		return model.ClassInformationalBriefing
	}
}

// Annotate returns in with its meeting class set. Non-calendar interactions
// are returned unchanged.
func (c *Classifier) Annotate(in model.Interaction) model.Interaction {
	if in.Source != model.SourceCalendar || in.Calendar == nil {
		return in
	}
	return in.WithClass(c.Classify(*in.Calendar))
}

// CacheLen returns the number of memoized meetings.
func (c *Classifier) CacheLen() int {
	if c.cache == nil {
		return 0
	}
	return c.cache.Len()
}
