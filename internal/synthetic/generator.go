// Package synthetic generates seeded, reproducible source payloads for tests
// and demos. The same Config always yields the same payload.
package synthetic

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/cylin-ms/scenara-sub003/internal/adapters/ingest"
	"github.com/cylin-ms/scenara-sub003/internal/domain/model"
)

// Counterpart profiles.
const (
	profileClose = iota
	profileTeam
	profileMailOnly
	profileBroadcast
	profileCoEditor
	profileOccasional
	profileRanked
	profileSystem
	profileCount
)

// Generation ranges.
const (
	maxOneOnOnes    = 6
	maxTeamMeetings = 8
	maxTeamSize     = 8
	maxMails        = 10
	broadcastSize   = 300
	maxRankPosition = 40
	noiseRecords    = 2
	defaultDomain   = "contoso.com"
	defaultLookback = 90
	defaultPeople   = 20
)

var (
	teamSubjects      = []string{"Design review", "Sprint planning", "API sync", "Architecture discussion", "Weekly standup", "Retro"}
	broadcastSubjects = []string{"Monthly All-Hands", "Q3 Town Hall", "Leadership webinar"}
	casualSubjects    = []string{"Lunch", "Coffee chat", "Catch up", "Team social"}
)

// Config controls generation.
type Config struct {
	Seed         int64
	Counterparts int
	Self         model.Identity
	Now          time.Time
	LookbackDays int
	// Noise adds malformed, out-of-window and duplicate records.
	Noise bool
}

// Option applies a configuration option to Config.
type Option func(*Config)

// WithSeed sets the random seed.
func WithSeed(seed int64) Option {
	return func(c *Config) { c.Seed = seed }
}

// WithCounterparts sets the number of generated counterparts.
func WithCounterparts(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.Counterparts = n
		}
	}
}

// WithSelf sets the subject identity.
func WithSelf(id model.Identity) Option {
	return func(c *Config) {
		if id != "" {
			c.Self = id
		}
	}
}

// WithNow sets the analysis instant records are generated against.
func WithNow(now time.Time) Option {
	return func(c *Config) {
		if !now.IsZero() {
			c.Now = now.UTC()
		}
	}
}

// WithLookbackDays sets the window records fall into.
func WithLookbackDays(days int) Option {
	return func(c *Config) {
		if days > 0 {
			c.LookbackDays = days
		}
	}
}

// WithNoise toggles noise records.
func WithNoise(on bool) Option {
	return func(c *Config) { c.Noise = on }
}

// NewConfig returns a Config with defaults applied.
func NewConfig(opts ...Option) Config {
	c := Config{
		Seed:         1,
		Counterparts: defaultPeople,
		Self:         model.Identity("me@" + defaultDomain),
		Now:          time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC),
		LookbackDays: defaultLookback,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

type generator struct {
	cfg  Config
	rng  *rand.Rand
	self string
	p    ingest.Payload
}

// Generate builds a payload for cfg.
func Generate(cfg Config) ingest.Payload {
	g := &generator{
		cfg:  cfg,
		rng:  rand.New(rand.NewSource(cfg.Seed)), //nolint:gosec // reproducible test data
		self: string(cfg.Self),
		p: ingest.Payload{
			Calendar:   []ingest.CalendarRecord{},
			Chat:       []ingest.ChatRecord{},
			Mail:       []ingest.MailRecord{},
			Document:   []ingest.DocumentRecord{},
			PeopleRank: []ingest.PeopleRankEntry{},
		},
	}
	rank := 1
	for i := 0; i < cfg.Counterparts; i++ {
		who := fmt.Sprintf("person%03d@%s", i, defaultDomain)
		switch g.rng.Intn(profileCount) {
		case profileClose:
			g.close(who)
		case profileTeam:
			g.team(who)
		case profileMailOnly:
			g.mailOnly(who)
		case profileBroadcast:
			g.broadcast(who)
		case profileCoEditor:
			g.coEditor(who)
		case profileOccasional:
			g.meeting(g.ts(), who, g.pick(casualSubjects), []string{g.self, who, g.person(), g.person()}, 0)
		case profileRanked:
			g.p.PeopleRank = append(g.p.PeopleRank, ingest.PeopleRankEntry{
				ID:          g.id(),
				Counterpart: who,
				Rank:        rank + g.rng.Intn(maxRankPosition/2),
			})
			rank++
		case profileSystem:
			svc := fmt.Sprintf("noreply-notifications-%d@%s", i, defaultDomain)
			for j := 0; j < 3; j++ {
				g.meeting(g.ts(), svc, "Reminder", []string{g.self, svc}, 0)
			}
		}
	}
	if cfg.Noise {
		g.noise()
	}
	return g.p
}

func (g *generator) close(who string) {
	for j := 0; j <= g.rng.Intn(maxOneOnOnes); j++ {
		organizer := g.self
		if g.rng.Intn(2) == 0 {
			organizer = who
		}
		g.meeting(g.ts(), organizer, "1:1", []string{g.self, who}, 0)
	}
	g.p.Chat = append(g.p.Chat, ingest.ChatRecord{
		ID:           g.id(),
		Timestamp:    g.ts(),
		Kind:         string(model.ChatOneOnOne),
		Participants: []string{g.self, who},
		From:         who,
		MessageCount: 1 + g.rng.Intn(20),
	})
	g.p.Mail = append(g.p.Mail, ingest.MailRecord{
		ID:         g.id(),
		Timestamp:  g.ts(),
		From:       g.self,
		To:         []string{who},
		ThreadSize: 1 + g.rng.Intn(5),
	})
}

func (g *generator) team(who string) {
	for j := 0; j <= g.rng.Intn(maxTeamMeetings); j++ {
		attendees := []string{g.self, who}
		for k := 0; k < 1+g.rng.Intn(maxTeamSize); k++ {
			attendees = append(attendees, g.person())
		}
		g.meeting(g.ts(), who, g.pick(teamSubjects), attendees, 0)
	}
	g.p.Chat = append(g.p.Chat, ingest.ChatRecord{
		ID:           g.id(),
		Timestamp:    g.ts(),
		Kind:         string(model.ChatGroup),
		Participants: []string{g.self, who, g.person()},
		From:         g.self,
		MessageCount: 1 + g.rng.Intn(30),
	})
}

func (g *generator) mailOnly(who string) {
	for j := 0; j <= g.rng.Intn(maxMails); j++ {
		g.p.Mail = append(g.p.Mail, ingest.MailRecord{
			ID:         g.id(),
			Timestamp:  g.ts(),
			From:       who,
			To:         []string{g.person()},
			CC:         []string{g.self},
			ThreadSize: 1,
		})
	}
}

func (g *generator) broadcast(who string) {
	for j := 0; j < 3; j++ {
		g.meeting(g.ts(), who, g.pick(broadcastSubjects), []string{g.self, "DL-Everyone@" + defaultDomain}, broadcastSize)
	}
}

func (g *generator) coEditor(who string) {
	kinds := []model.DocumentKind{model.DocumentCoEdit, model.DocumentShareSent, model.DocumentShareReceived}
	for j := 0; j < 1+g.rng.Intn(4); j++ {
		g.p.Document = append(g.p.Document, ingest.DocumentRecord{
			ID:        g.id(),
			Timestamp: g.ts(),
			Kind:      string(kinds[g.rng.Intn(len(kinds))]),
			People:    []string{who},
		})
	}
}

// meeting appends a calendar record; count 0 leaves attendee_count implicit.
func (g *generator) meeting(ts time.Time, organizer, subject string, attendees []string, count int) {
	g.p.Calendar = append(g.p.Calendar, ingest.CalendarRecord{
		ID:            g.id(),
		Start:         ts,
		Organizer:     organizer,
		Subject:       subject,
		Attendees:     attendees,
		AttendeeCount: count,
	})
}

// noise appends records the engine must skip: malformed, stale, duplicated.
func (g *generator) noise() {
	stale := g.cfg.Now.Add(-time.Duration(g.cfg.LookbackDays+1) * 24 * time.Hour)
	for i := 0; i < noiseRecords; i++ {
		g.p.Calendar = append(g.p.Calendar, ingest.CalendarRecord{ID: g.id(), Start: g.ts()})
		g.p.Calendar = append(g.p.Calendar, ingest.CalendarRecord{
			ID: g.id(), Start: stale, Organizer: g.self, Attendees: []string{g.person()},
		})
		g.p.Chat = append(g.p.Chat, ingest.ChatRecord{ID: g.id(), Timestamp: g.ts(), Kind: "channel"})
	}
	if n := len(g.p.Mail); n > 0 {
		g.p.Mail = append(g.p.Mail, g.p.Mail[g.rng.Intn(n)])
	}
}

// ts returns an instant inside the window, at whole-minute resolution.
func (g *generator) ts() time.Time {
	minutes := g.rng.Int63n(int64(g.cfg.LookbackDays) * 24 * 60)
	return g.cfg.Now.Add(-time.Duration(minutes) * time.Minute)
}

func (g *generator) person() string {
	return fmt.Sprintf("colleague%03d@%s", g.rng.Intn(500), defaultDomain)
}

func (g *generator) pick(from []string) string {
	return from[g.rng.Intn(len(from))]
}

// id derives a record id from the seeded stream.
func (g *generator) id() string {
	u, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		return fmt.Sprintf("rec-%d", g.rng.Int63())
	}
	return u.String()
}
