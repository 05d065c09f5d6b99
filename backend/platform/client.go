package platform

import (
	"context"
	"sort"
)

// DaySubmissions is one day of a platform's submission history: the
// platform's full current count for that day, not a delta.
type DaySubmissions struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// ProfileStats are the aggregate numbers a platform reports about a handle.
type ProfileStats struct {
	SolvedProblems int    `json:"solved_problems"`
	Rating         int    `json:"rating"`
	Rank           string `json:"rank"`
}

// Client fetches a user's data from one external judging platform. Both
// calls hit the scraping collaborator over the network and fail
// independently; the aggregation core never depends on either succeeding.
type Client interface {
	FetchSubmissionHistory(ctx context.Context, handle string) ([]DaySubmissions, error)
	FetchProfileStats(ctx context.Context, handle string) (ProfileStats, error)
}

// Registry maps platform names to clients.
type Registry struct {
	clients map[string]Client
}

func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]Client)}
}

func (r *Registry) Register(name string, c Client) {
	r.clients[name] = c
}

func (r *Registry) Client(name string) (Client, bool) {
	c, ok := r.clients[name]
	return c, ok
}

// Platforms returns the registered platform names, sorted.
func (r *Registry) Platforms() []string {
	names := make([]string, 0, len(r.clients))
	for name := range r.clients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
