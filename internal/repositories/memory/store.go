// Package memory holds in-process repository implementations with the same
// structural guarantees as the Postgres and Mongo ones: unique
// (job, applicant) pairs, guarded openings decrement and one resume check per
// user per day. Services and handlers are tested against it.
package memory

import (
	"sort"
	"strings"
	"sync"

	"github.com/yoockh/jobwallah/internal/models"
)

type Store struct {
	mu     sync.Mutex
	users  map[string]models.User
	jobs   map[string]models.Job
	apps   map[string]models.Application
	checks []models.ResumeCheck
	events map[string]models.ApplicationEvent
}

func NewStore() *Store {
	return &Store{
		users:  map[string]models.User{},
		jobs:   map[string]models.Job{},
		apps:   map[string]models.Application{},
		events: map[string]models.ApplicationEvent{},
	}
}

func (s *Store) Users() *Users               { return &Users{s: s} }
func (s *Store) Jobs() *Jobs                 { return &Jobs{s: s} }
func (s *Store) Applications() *Applications { return &Applications{s: s} }
func (s *Store) ResumeChecks() *ResumeChecks { return &ResumeChecks{s: s} }
func (s *Store) Events() *Events             { return &Events{s: s} }

func containsFold(haystack, needle string) bool {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// userRef strips credentials the way the SQL preloads do.
func (s *Store) userRef(id string) *models.User {
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	u.PasswordHash = ""
	return &u
}

func (s *Store) jobRef(id string) *models.Job {
	j, ok := s.jobs[id]
	if !ok {
		return nil
	}
	return &j
}

func sortAppsNewest(rows []models.Application) {
	sort.SliceStable(rows, func(i, k int) bool { return rows[i].AppliedAt.After(rows[k].AppliedAt) })
}
