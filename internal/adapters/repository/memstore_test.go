package repository

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/cylin-ms/scenara-sub003/internal/domain/model"
)

var base = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func sample() []model.Interaction {
	meeting := &model.CalendarAttrs{AttendeeCount: 3, Organizer: "me", Subject: "sync"}
	return []model.Interaction{
		{Counterpart: "bob", Source: model.SourceCalendar, Timestamp: base, Direction: model.DirectionBidirectional, Calendar: meeting},
		{Counterpart: "alice", Source: model.SourceCalendar, Timestamp: base, Direction: model.DirectionBidirectional, Calendar: meeting},
		{Counterpart: "alice", Source: model.SourceMail, Timestamp: base.Add(time.Hour), Direction: model.DirectionOutgoing, Mail: &model.MailAttrs{Role: model.MailTo, ThreadSize: 1}},
		{Counterpart: "carol", Source: model.SourceChat, Timestamp: base.Add(-time.Hour), Direction: model.DirectionIncoming, Chat: &model.ChatAttrs{Kind: model.ChatGroup, MessageCount: 4}},
		{Counterpart: "alice", Source: model.SourceChat, Timestamp: base.Add(2 * time.Hour), Direction: model.DirectionOutgoing, Chat: &model.ChatAttrs{Kind: model.ChatOneOnOne, MessageCount: 1}},
	}
}

func fill(items []model.Interaction) *MemoryStore {
	ctx := context.Background()
	s := NewMemoryStore(WithCapacity(len(items)))
	for _, in := range items {
		So(s.Insert(ctx, in), ShouldBeNil)
	}
	s.Seal(ctx)
	return s
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given a sealed store", t, func() {
		s := fill(sample())

		Convey("Then All should be in total order", func() {
			all, err := s.All(ctx)
			So(err, ShouldBeNil)
			So(all, ShouldHaveLength, 5)
			for i := 1; i < len(all); i++ {
				So(model.Compare(all[i-1], all[i]), ShouldBeLessThanOrEqualTo, 0)
			}
			So(all[0].Counterpart, ShouldEqual, model.Identity("carol"))
			So(all[1].Counterpart, ShouldEqual, model.Identity("alice"))
		})

		Convey("Then ByCounterpart should keep that order per counterpart", func() {
			alice, err := s.ByCounterpart(ctx, "alice")
			So(err, ShouldBeNil)
			So(alice, ShouldHaveLength, 3)
			So([]model.Source{alice[0].Source, alice[1].Source, alice[2].Source}, ShouldResemble,
				[]model.Source{model.SourceCalendar, model.SourceMail, model.SourceChat})
		})

		Convey("Then BySource should index every source", func() {
			chats, err := s.BySource(ctx, model.SourceChat)
			So(err, ShouldBeNil)
			So(chats, ShouldHaveLength, 2)

			docs, err := s.BySource(ctx, model.SourceDocument)
			So(err, ShouldBeNil)
			So(docs, ShouldBeEmpty)
		})

		Convey("Then counterparts and counts should be reported", func() {
			ids, err := s.Counterparts(ctx)
			So(err, ShouldBeNil)
			So(ids, ShouldResemble, []model.Identity{"alice", "bob", "carol"})

			counts := s.CountBySource(ctx)
			So(counts[model.SourceCalendar], ShouldEqual, 2)
			So(counts[model.SourcePeopleRank], ShouldEqual, 0)
			So(counts, ShouldHaveLength, 5)
			So(s.Count(ctx), ShouldEqual, 5)
		})
	})

	Convey("Given the same interactions inserted in shuffled orders", t, func() {
		items := sample()
		want, err := fill(items).All(ctx)
		So(err, ShouldBeNil)

		Convey("Then every snapshot should be identical", func() {
			rng := rand.New(rand.NewSource(7)) //nolint:gosec // deterministic shuffle
			for i := 0; i < 10; i++ {
				shuffled := append([]model.Interaction(nil), items...)
				rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
				got, err := fill(shuffled).All(ctx)
				So(err, ShouldBeNil)
				So(got, ShouldResemble, want)
			}
		})
	})

	Convey("Given an unsealed store", t, func() {
		s := NewMemoryStore()

		Convey("When it is read", func() {
			_, err := s.All(ctx)

			Convey("Then it should report it is not sealed", func() {
				So(errors.Is(err, ErrNotSealed), ShouldBeTrue)
			})
		})

		Convey("When it is sealed twice after one insert", func() {
			So(s.Insert(ctx, sample()[0]), ShouldBeNil)
			So(s.Count(ctx), ShouldEqual, 1)
			So(s.CountBySource(ctx)[model.SourceCalendar], ShouldEqual, 1)
			s.Seal(ctx)
			s.Seal(ctx)

			Convey("Then further inserts should be rejected", func() {
				So(errors.Is(s.Insert(ctx, sample()[1]), ErrSealed), ShouldBeTrue)
				So(s.Count(ctx), ShouldEqual, 1)
			})
		})

		Convey("When an invalid interaction is inserted", func() {
			Convey("Then a missing counterpart should be rejected", func() {
				err := s.Insert(ctx, model.Interaction{Source: model.SourceChat})
				So(errors.Is(err, ErrInvalidInteraction), ShouldBeTrue)
			})

			Convey("Then an unknown source should be rejected", func() {
				err := s.Insert(ctx, model.Interaction{Counterpart: "x", Source: "fax"})
				So(errors.Is(err, ErrInvalidInteraction), ShouldBeTrue)
			})
		})
	})
}
