// Package inmemory implements the repository in process memory. It backs
// unit tests and local runs; CAS semantics mirror the postgres backend.
package inmemory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/entities"

	"go.uber.org/zap"
)

// Store holds all records behind a single mutex. The submission version
// counter provides the same lost-race detection as the SQL backend.
type Store struct {
	log *zap.SugaredLogger

	mu       sync.Mutex
	users    map[string]entities.User
	subs     map[string]entities.Submission
	feedback map[string][]entities.Feedback
	history  map[string][]entities.AssignmentChange
	nextFb   int64
}

// New creates an empty in-memory store.
func New(log *zap.SugaredLogger) *Store {
	return &Store{
		log:      log.Named("repo.inmemory"),
		users:    make(map[string]entities.User),
		subs:     make(map[string]entities.Submission),
		feedback: make(map[string][]entities.Feedback),
		history:  make(map[string][]entities.AssignmentChange),
		nextFb:   1,
	}
}

// OnStart implements the lifecycle hook.
func (s *Store) OnStart(_ context.Context) error { return nil }

// OnStop implements the lifecycle hook.
func (s *Store) OnStop(_ context.Context) error { return nil }

// CreateUser registers a user.
func (s *Store) CreateUser(_ context.Context, user entities.User) (*entities.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; ok {
		return nil, entities.ErrUserExists
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	s.users[user.ID] = user
	u := user
	return &u, nil
}

// GetUser returns a user by id.
func (s *Store) GetUser(_ context.Context, userID string) (*entities.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	return &u, nil
}

// SetGreenLight toggles availability.
func (s *Store) SetGreenLight(_ context.Context, userID string, on bool) (*entities.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	u.IsGreenLight = on
	s.users[userID] = u
	return &u, nil
}

// SetUserApproved flips approval; revocation releases open assignments.
func (s *Store) SetUserApproved(_ context.Context, userID string, approved bool) (*entities.User, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, 0, entities.ErrUserNotFound
	}
	u.IsApproved = approved
	s.users[userID] = u

	released := 0
	if !approved {
		now := time.Now().UTC()
		for id, sub := range s.subs {
			if sub.Status.IsTerminal() || !sub.Assigned() || *sub.AssigneeID != userID {
				continue
			}
			old := sub.AssigneeID
			sub.AssigneeID = nil
			sub.Version++
			sub.UpdatedAt = now
			s.subs[id] = sub
			s.history[id] = append(s.history[id], entities.AssignmentChange{
				OldAssigneeID: old,
				ChangedAt:     now,
			})
			released++
		}
		if released > 0 {
			s.log.Infow("approval revoked, open assignments released",
				"user_id", userID, "released", released)
		}
	}
	return &u, released, nil
}

// ListCandidates snapshots assignable users of the pool with derived workloads.
func (s *Store) ListCandidates(_ context.Context, pool entities.Role) ([]entities.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidates := make([]entities.Candidate, 0)
	for _, u := range s.users {
		if u.Role != pool || !u.Assignable() {
			continue
		}
		candidates = append(candidates, entities.Candidate{
			UserID:    u.ID,
			Workload:  int(s.countOpenLocked(u.ID)),
			CreatedAt: u.CreatedAt,
		})
	}
	return candidates, nil
}

// CreateSubmission stores a new submission record.
func (s *Store) CreateSubmission(_ context.Context, sub entities.Submission) (*entities.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subs[sub.ID]; ok {
		return nil, fmt.Errorf("%w: duplicate submission id", entities.ErrInvalidArgument)
	}
	now := time.Now().UTC()
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = now
	}
	sub.UpdatedAt = now
	sub.Version = 1
	s.subs[sub.ID] = sub
	out := sub
	return &out, nil
}

// GetSubmission returns a submission by id.
func (s *Store) GetSubmission(_ context.Context, id string) (*entities.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subs[id]
	if !ok {
		return nil, entities.ErrSubmissionNotFound
	}
	return &sub, nil
}

// DeleteSubmission removes a submission with its feedback and history.
func (s *Store) DeleteSubmission(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subs[id]; !ok {
		return entities.ErrSubmissionNotFound
	}
	delete(s.subs, id)
	delete(s.feedback, id)
	delete(s.history, id)
	return nil
}

// SetAssignee CAS-updates the assignee reference.
func (s *Store) SetAssignee(_ context.Context, id string, version int64, assigneeID *string) (*entities.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subs[id]
	if !ok {
		return nil, entities.ErrSubmissionNotFound
	}
	if sub.Version != version {
		return nil, entities.ErrConcurrentModification
	}

	now := time.Now().UTC()
	s.history[id] = append(s.history[id], entities.AssignmentChange{
		OldAssigneeID: sub.AssigneeID,
		NewAssigneeID: assigneeID,
		ChangedAt:     now,
	})
	sub.AssigneeID = assigneeID
	sub.Version++
	sub.UpdatedAt = now
	s.subs[id] = sub
	out := sub
	return &out, nil
}

// ApplyTransition CAS-updates status, attachments and appended feedback.
func (s *Store) ApplyTransition(_ context.Context, id string, version int64, tr entities.TransitionWrite) (*entities.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subs[id]
	if !ok {
		return nil, entities.ErrSubmissionNotFound
	}
	if sub.Version != version {
		return nil, entities.ErrConcurrentModification
	}

	now := time.Now().UTC()
	sub.Status = tr.To
	if tr.ClearAssignee && sub.AssigneeID != nil {
		s.history[id] = append(s.history[id], entities.AssignmentChange{
			OldAssigneeID: sub.AssigneeID,
			ChangedAt:     now,
		})
		sub.AssigneeID = nil
	}
	if tr.SubmittedAccount != "" {
		sub.SubmittedAccount = tr.SubmittedAccount
	}
	if tr.TaskLink != "" {
		sub.TaskLink = tr.TaskLink
	}
	if tr.AccountPostedIn != "" {
		sub.AccountPostedIn = tr.AccountPostedIn
	}
	if tr.FileURL != "" {
		sub.FileURL = tr.FileURL
	}
	sub.Version++
	sub.UpdatedAt = now
	s.subs[id] = sub

	if tr.Feedback != nil {
		fb := *tr.Feedback
		fb.ID = s.nextFb
		s.nextFb++
		if fb.CreatedAt.IsZero() {
			fb.CreatedAt = now
		}
		s.feedback[id] = append(s.feedback[id], fb)
	}

	out := sub
	return &out, nil
}

// ListDeferred returns unassigned non-terminal submissions, oldest first.
func (s *Store) ListDeferred(_ context.Context) ([]entities.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deferred := make([]entities.Submission, 0)
	for _, sub := range s.subs {
		if sub.Status.IsTerminal() || sub.Assigned() {
			continue
		}
		deferred = append(deferred, sub)
	}
	sort.Slice(deferred, func(i, j int) bool {
		return deferred[i].CreatedAt.Before(deferred[j].CreatedAt)
	})
	return deferred, nil
}

// ListAssignedTo returns open submissions assigned to the user, newest first.
func (s *Store) ListAssignedTo(_ context.Context, userID string) ([]entities.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	assigned := make([]entities.Submission, 0)
	for _, sub := range s.subs {
		if sub.Status.IsTerminal() || !sub.Assigned() || *sub.AssigneeID != userID {
			continue
		}
		assigned = append(assigned, sub)
	}
	sort.Slice(assigned, func(i, j int) bool {
		return assigned[i].CreatedAt.After(assigned[j].CreatedAt)
	})
	return assigned, nil
}

// ListFeedback returns feedback records in append order.
func (s *Store) ListFeedback(_ context.Context, submissionID string) ([]entities.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subs[submissionID]; !ok {
		return nil, entities.ErrSubmissionNotFound
	}
	out := make([]entities.Feedback, len(s.feedback[submissionID]))
	copy(out, s.feedback[submissionID])
	return out, nil
}

// ListAssignmentHistory returns assignee changes in append order.
func (s *Store) ListAssignmentHistory(_ context.Context, submissionID string) ([]entities.AssignmentChange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subs[submissionID]; !ok {
		return nil, entities.ErrSubmissionNotFound
	}
	out := make([]entities.AssignmentChange, len(s.history[submissionID]))
	copy(out, s.history[submissionID])
	return out, nil
}

// CountOpenAssignments derives the user's current workload.
func (s *Store) CountOpenAssignments(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countOpenLocked(userID), nil
}

// WorkloadStats derives open counts for every assignable user.
func (s *Store) WorkloadStats(_ context.Context) ([]entities.WorkloadStat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := make([]entities.WorkloadStat, 0)
	for _, u := range s.users {
		if !u.Role.AssignmentPool() {
			continue
		}
		stats = append(stats, entities.WorkloadStat{
			UserID:  u.ID,
			Role:    u.Role,
			OpenCnt: s.countOpenLocked(u.ID),
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].UserID < stats[j].UserID })
	return stats, nil
}

func (s *Store) countOpenLocked(userID string) int64 {
	var n int64
	for _, sub := range s.subs {
		if !sub.Status.IsTerminal() && sub.Assigned() && *sub.AssigneeID == userID {
			n++
		}
	}
	return n
}
