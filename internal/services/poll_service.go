// Package services – PollService
//
// The poll engine. Each cycle walks every tracked identity, pulls its recent
// accepted-submission feed, and credits solves that were never seen before.
// Two mechanisms cooperate to keep crediting exactly-once across restarts
// and upstream re-reports:
//
//   - the per-handle cursor skips events already processed (an optimization
//     that avoids redundant metadata fetches and ledger writes), and
//   - the ledger's UNIQUE(user, slug) constraint is the authoritative gate;
//     a rejected insert means "already credited" and emits nothing.
//
// The cursor is advanced after each event, whether or not the event produced
// a notification, so a delivery fault never replays a ledgered event. Any
// store or upstream error aborts only that identity for the cycle; the
// cursor stays at its last advanced value and the next cycle retries the
// unprocessed tail.
package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"

	"github.com/leetboard/leetboard/internal/leetcode"
	"github.com/leetboard/leetboard/internal/metrics"
	"github.com/leetboard/leetboard/internal/repo"
	"github.com/leetboard/leetboard/internal/scoring"
)

// FeedClient is the upstream feed surface the engine needs. Implemented by
// *leetcode.Client; tests substitute a fake.
type FeedClient interface {
	RecentAccepted(ctx context.Context, username string, limit int) ([]leetcode.Submission, error)
	ProblemMeta(ctx context.Context, slug string) (*leetcode.ProblemMeta, error)
}

// SolveEvent is one announcement: a member's first-time solve, addressed to
// one chat, with the member's current-week standing under that chat's
// weights.
type SolveEvent struct {
	ChatID     string
	UserID     string
	Handle     string
	Slug       string
	Title      string
	Difficulty string
	SolvedAt   int64
	WeekCounts map[string]int
	WeekScore  int
}

// Notifier delivers solve announcements. Delivery is best-effort: the engine
// logs and counts failures but never lets them roll back a completion or
// hold back the cursor.
type Notifier interface {
	NotifySolve(ctx context.Context, ev SolveEvent) error
}

// PollService is the poll engine. One instance runs one cycle at a time.
type PollService struct {
	DB       *gorm.DB
	Feed     FeedClient
	Notifier Notifier

	// FeedLimit bounds how many recent events are fetched per identity.
	// More than FeedLimit events between cycles loses the oldest excess.
	FeedLimit int

	// Pacing is the delay between identities, bounding upstream load.
	Pacing time.Duration

	// Now is the clock for week windows. Defaults to time.Now.
	Now func() time.Time

	Log zerolog.Logger
}

func (s *PollService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// RunCycle performs one full pass over the tracked identities known at call
// time. Identities added mid-cycle are picked up next cycle. Per-identity
// failures are logged and isolated; RunCycle itself only errors when the
// snapshot cannot be read.
func (s *PollService) RunCycle(ctx context.Context) error {
	ctx, span := otel.Tracer("poll").Start(ctx, "RunCycle")
	defer span.End()
	started := time.Now()

	users, err := repo.ListUsers(ctx, s.DB)
	if err != nil {
		return err
	}
	for i, u := range users {
		if err := s.pollIdentity(ctx, u.ID, u.Handle); err != nil {
			metrics.IdentitiesPolled.WithLabelValues("error").Inc()
			var ue *leetcode.UpstreamError
			if errors.As(err, &ue) {
				metrics.UpstreamErrors.WithLabelValues(ue.Op).Inc()
			}
			s.Log.Warn().Err(err).Str("handle", u.Handle).Msg("identity poll failed")
		} else {
			metrics.IdentitiesPolled.WithLabelValues("ok").Inc()
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if s.Pacing > 0 && i < len(users)-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.Pacing):
			}
		}
	}

	metrics.PollCycles.Inc()
	metrics.CycleDuration.Observe(time.Since(started).Seconds())
	return nil
}

// pollIdentity processes one tracked identity: fetch, sort, filter, then a
// per-event resolve/credit/notify/advance walk in ascending solve order.
func (s *PollService) pollIdentity(ctx context.Context, userID, handle string) error {
	cutoff, err := repo.LastSeen(ctx, s.DB, handle)
	if err != nil {
		return err
	}

	subs, err := s.Feed.RecentAccepted(ctx, handle, s.FeedLimit)
	if err != nil {
		return err
	}

	// The wire order is arbitrary; a stable ascending sort makes cursor
	// advancement and announcements follow actual solve order. Same-second
	// ties keep batch order.
	sort.SliceStable(subs, func(i, j int) bool { return subs[i].Timestamp < subs[j].Timestamp })

	fresh := subs[:0]
	for _, sub := range subs {
		if sub.Timestamp > cutoff {
			fresh = append(fresh, sub)
		}
	}
	s.Log.Debug().Str("handle", handle).Int64("cutoff", cutoff).Int("new", len(fresh)).Msg("poll")

	for _, sub := range fresh {
		if err := s.processEvent(ctx, userID, handle, sub); err != nil {
			return err
		}
		// The event is in the ledger (or was a duplicate); either way it is
		// processed and must never be revisited.
		if err := repo.AdvanceCursor(ctx, s.DB, handle, sub.Timestamp); err != nil {
			return err
		}
	}
	return nil
}

func (s *PollService) processEvent(ctx context.Context, userID, handle string, sub leetcode.Submission) error {
	problem, err := s.resolveProblem(ctx, sub)
	if err != nil {
		return err
	}

	inserted, err := repo.InsertCompletion(ctx, s.DB, userID, sub.Slug, sub.Timestamp)
	if err != nil {
		return err
	}
	if !inserted {
		// Re-reported inside the cutoff-to-now window; already credited.
		metrics.Duplicates.Inc()
		return nil
	}
	metrics.Completions.Inc()

	chats, err := repo.ListUserChats(ctx, s.DB, userID)
	if err != nil {
		return err
	}
	start, end := scoring.WeekWindow(s.now())
	for _, chat := range chats {
		if !chat.NotifyOnSolve {
			continue
		}
		counts, err := repo.WindowCounts(ctx, s.DB, userID, start, end)
		if err != nil {
			return err
		}
		weights := scoring.ParseWeightsOrDefault(chat.Scoring)
		ev := SolveEvent{
			ChatID:     chat.ID,
			UserID:     userID,
			Handle:     handle,
			Slug:       sub.Slug,
			Title:      problem.Title,
			Difficulty: problem.Difficulty,
			SolvedAt:   sub.Timestamp,
			WeekCounts: counts,
			WeekScore:  scoring.Score(counts, weights),
		}
		if err := s.Notifier.NotifySolve(ctx, ev); err != nil {
			// Best-effort delivery; the ledger already holds the truth.
			metrics.Notifications.WithLabelValues("failed").Inc()
			s.Log.Warn().Err(err).Str("chat", chat.ID).Str("slug", sub.Slug).Msg("notify failed")
			continue
		}
		metrics.Notifications.WithLabelValues("sent").Inc()
	}
	return nil
}

// resolveProblem returns cached metadata for the submission's slug,
// populating the cache from the feed on first sight. The insert ignores
// conflicts, so a concurrent first sight of the same slug keeps the first
// writer's row; the row is re-read after insert for that reason.
func (s *PollService) resolveProblem(ctx context.Context, sub leetcode.Submission) (*leetcode.ProblemMeta, error) {
	p, err := repo.GetProblem(ctx, s.DB, sub.Slug)
	if err == nil {
		return &leetcode.ProblemMeta{Title: p.Title, Difficulty: p.Difficulty}, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	meta, err := s.Feed.ProblemMeta(ctx, sub.Slug)
	if err != nil {
		return nil, err
	}
	if err := repo.InsertProblemIfAbsent(ctx, s.DB, sub.Slug, meta.Title, meta.Difficulty); err != nil {
		return nil, err
	}
	p, err = repo.GetProblem(ctx, s.DB, sub.Slug)
	if err != nil {
		return nil, err
	}
	return &leetcode.ProblemMeta{Title: p.Title, Difficulty: p.Difficulty}, nil
}
