package synthetic

import (
	"math/rand"
	"slices"

	"github.com/cylin-ms/scenara-sub003/internal/adapters/ingest"
)

// Shuffle returns a copy of p with every source's records, and every
// record's participant lists, permuted by seed. p is not modified.
func Shuffle(p ingest.Payload, seed int64) ingest.Payload {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // reproducible permutation

	out := ingest.Payload{
		Calendar:   permute(rng, p.Calendar),
		Chat:       permute(rng, p.Chat),
		Mail:       permute(rng, p.Mail),
		Document:   permute(rng, p.Document),
		PeopleRank: permute(rng, p.PeopleRank),
	}
	for i := range out.Calendar {
		out.Calendar[i].Attendees = permute(rng, out.Calendar[i].Attendees)
	}
	for i := range out.Chat {
		out.Chat[i].Participants = permute(rng, out.Chat[i].Participants)
	}
	for i := range out.Mail {
		out.Mail[i].To = permute(rng, out.Mail[i].To)
		out.Mail[i].CC = permute(rng, out.Mail[i].CC)
	}
	for i := range out.Document {
		out.Document[i].People = permute(rng, out.Document[i].People)
	}
	return out
}

// permute returns a shuffled copy; nil stays nil.
func permute[T any](rng *rand.Rand, in []T) []T {
	if in == nil {
		return nil
	}
	out := slices.Clone(in)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
