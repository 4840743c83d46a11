package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joaosp7/items-manager/internal/api"
	"github.com/joaosp7/items-manager/internal/model"
	"github.com/joaosp7/items-manager/internal/query"
)

// Service is the slice of the API client the view needs.
type Service interface {
	List(ctx context.Context, q query.Params) (*api.ItemsResponse, error)
	Create(ctx context.Context, form model.FormData) (*model.Item, error)
	Update(ctx context.Context, id string, patch model.Patch) (*model.Item, error)
	Delete(ctx context.Context, id string) error
}

const genericFetchError = "failed to load items"

type itemsFetchedMsg struct {
	resp *api.ItemsResponse
}

type fetchFailedMsg struct {
	err error
}

// fetcher keeps the item collection consistent with the latest query value.
// Fetches are neither cancelled nor sequenced: overlapping requests all run
// and results apply in arrival order (last delivered wins), same as the
// single-user behavior this client mirrors. Bubble Tea applies every
// message on one goroutine, so the race never corrupts state, it can only
// answer with a stale page.
type fetcher struct {
	svc Service

	query      query.Params
	items      []model.Item
	total      int
	totalPages int
	loading    bool
	err        string

	started bool
}

func newFetcher(svc Service, q query.Params) *fetcher {
	return &fetcher{svc: svc, query: q}
}

// start issues the initial fetch.
func (f *fetcher) start() tea.Cmd {
	f.started = true
	return f.refetch()
}

// setQuery re-fetches only when q differs by value from the query already
// on screen.
func (f *fetcher) setQuery(q query.Params) tea.Cmd {
	if f.started && q == f.query {
		return nil
	}
	f.query = q
	f.started = true
	return f.refetch()
}

// refetch fetches the current query unconditionally. Mutations use it, as
// the query value alone cannot tell that the data behind it changed.
func (f *fetcher) refetch() tea.Cmd {
	f.loading = true
	f.err = ""
	svc, q := f.svc, f.query
	return func() tea.Msg {
		resp, err := svc.List(context.Background(), q)
		if err != nil {
			return fetchFailedMsg{err: err}
		}
		return itemsFetchedMsg{resp: resp}
	}
}

// update consumes fetch results; reports whether msg was one.
func (f *fetcher) update(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case itemsFetchedMsg:
		f.items = msg.resp.Data
		f.total = msg.resp.Metadata.TotalItems
		f.totalPages = msg.resp.Metadata.TotalPages
		f.loading = false
		return true
	case fetchFailedMsg:
		f.err = errorMessage(msg.err, genericFetchError)
		f.loading = false
		return true
	}
	return false
}

// lastPage is the pagination bound: the server's totalPages when present,
// otherwise recomputed from total and limit (kept consistent with the
// metadata by construction).
func (f *fetcher) lastPage() int {
	if f.totalPages > 0 {
		return f.totalPages
	}
	return query.TotalPages(f.total, f.query.Limit)
}

func errorMessage(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}
