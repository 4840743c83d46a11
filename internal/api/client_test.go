package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joaosp7/items-manager/internal/config"
	"github.com/joaosp7/items-manager/internal/model"
	"github.com/joaosp7/items-manager/internal/query"
)

// fakeItems is an in-memory stand-in for the items API implementing the
// list envelope, id lookups, and the CRUD endpoints the client uses.
type fakeItems struct {
	mu     sync.Mutex
	items  map[string]model.Item
	secret string

	lastQuery map[string]string
}

func newFakeItems(secret string) *fakeItems {
	return &fakeItems{items: map[string]model.Item{}, secret: secret}
}

func (f *fakeItems) add(name string, status model.Status) model.Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now().UTC().Truncate(time.Second)
	it := model.Item{
		ID:        uuid.NewString(),
		Name:      name,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.items[it.ID] = it
	return it
}

func (f *fakeItems) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if f.secret != "" && r.Header.Get("Authorization") != f.secret {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "unauthorized"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/items/")
	switch {
	case r.URL.Path == "/items" && r.Method == http.MethodGet:
		f.list(w, r)
	case r.URL.Path == "/items" && r.Method == http.MethodPost:
		f.create(w, r)
	case r.Method == http.MethodGet:
		f.get(w, id)
	case r.Method == http.MethodPatch:
		f.patch(w, r, id)
	case r.Method == http.MethodDelete:
		f.delete(w, id)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeItems) list(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	q := r.URL.Query()
	f.lastQuery = map[string]string{}
	for k := range q {
		f.lastQuery[k] = q.Get(k)
	}

	var all []model.Item
	search := strings.ToLower(q.Get("search"))
	for _, it := range f.items {
		if search == "" || strings.Contains(strings.ToLower(it.Name), search) {
			all = append(all, it)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		less := all[i].Name < all[j].Name
		if q.Get("sort") == "createdAt" {
			less = all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		if q.Get("order") == "DESC" {
			return !less
		}
		return less
	})

	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	total := len(all)
	totalPages := (total + limit - 1) / limit

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	data := all[start:end]
	if data == nil {
		data = []model.Item{}
	}
	var next, prev *int
	if page < totalPages {
		n := page + 1
		next = &n
	}
	if page > 1 {
		p := page - 1
		prev = &p
	}
	writeJSON(w, http.StatusOK, ItemsResponse{
		Data: data,
		Metadata: Metadata{
			Page:         page,
			Limit:        limit,
			TotalItems:   total,
			TotalPages:   totalPages,
			NextPage:     next,
			PreviousPage: prev,
			Sort:         q.Get("sort"),
			Order:        query.Order(q.Get("order")),
		},
	})
}

func (f *fakeItems) create(w http.ResponseWriter, r *http.Request) {
	var form model.FormData
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil || strings.TrimSpace(form.Name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "name is required"})
		return
	}
	it := f.add(form.Name, form.Status)
	if form.Description != "" {
		f.mu.Lock()
		it.Description = form.Description
		f.items[it.ID] = it
		f.mu.Unlock()
	}
	writeJSON(w, http.StatusCreated, it)
}

func (f *fakeItems) get(w http.ResponseWriter, id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "item not found"})
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (f *fakeItems) patch(w http.ResponseWriter, r *http.Request, id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "item not found"})
		return
	}
	var p model.Patch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid payload"})
		return
	}
	if p.Name != nil {
		if strings.TrimSpace(*p.Name) == "" {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "name must not be empty"})
			return
		}
		it.Name = *p.Name
	}
	if p.Status != nil {
		it.Status = *p.Status
	}
	if p.Description != nil {
		it.Description = *p.Description
	}
	it.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	f.items[id] = it
	writeJSON(w, http.StatusOK, it)
}

func (f *fakeItems) delete(w http.ResponseWriter, id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "item not found"})
		return
	}
	delete(f.items, id)
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, secret string) (*Client, *fakeItems) {
	t.Helper()
	fake := newFakeItems(secret)
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	return New(&config.Config{BaseURL: srv.URL, APISecret: secret}), fake
}

func TestListSerializesQuery(t *testing.T) {
	client, fake := newTestClient(t, "")
	q := query.Params{Search: "milk", Page: 2, Limit: 5, Sort: "name", Order: query.OrderAsc}

	_, err := client.List(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"search": "milk",
		"page":   "2",
		"limit":  "5",
		"sort":   "name",
		"order":  "ASC",
	}, fake.lastQuery)
}

func TestCreateThenListRoundTrip(t *testing.T) {
	client, _ := newTestClient(t, "")

	created, err := client.Create(context.Background(), model.FormData{
		Name:   "Valid Item",
		Status: model.StatusTodo,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID, "id is server-assigned")
	assert.False(t, created.CreatedAt.IsZero(), "createdAt is server-assigned")

	resp, err := client.List(context.Background(), query.Default())
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Valid Item", resp.Data[0].Name)
	assert.Equal(t, model.StatusTodo, resp.Data[0].Status)
	assert.Equal(t, created.ID, resp.Data[0].ID)
	assert.Equal(t, 1, resp.Metadata.TotalItems)
}

func TestListEnvelope(t *testing.T) {
	client, fake := newTestClient(t, "")
	for i := 0; i < 25; i++ {
		fake.add("item "+strconv.Itoa(i), model.StatusTodo)
	}

	resp, err := client.List(context.Background(), query.Default())
	require.NoError(t, err)

	assert.Len(t, resp.Data, 10)
	assert.Equal(t, 25, resp.Metadata.TotalItems)
	assert.Equal(t, 3, resp.Metadata.TotalPages)
	require.NotNil(t, resp.Metadata.NextPage)
	assert.Equal(t, 2, *resp.Metadata.NextPage)
	assert.Nil(t, resp.Metadata.PreviousPage)
}

func TestAuthorizationHeaderAttached(t *testing.T) {
	client, _ := newTestClient(t, "s3cret")

	_, err := client.List(context.Background(), query.Default())
	assert.NoError(t, err, "secret from config must reach the server")
}

func TestListStatusError(t *testing.T) {
	client, _ := newTestClient(t, "expected")
	// wrong secret configured on purpose
	wrong := New(&config.Config{BaseURL: client.baseURL, APISecret: "wrong"})

	_, err := wrong.List(context.Background(), query.Default())
	require.Error(t, err)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
	assert.Equal(t, "unauthorized", se.Message)
}

func TestListTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // nothing listening anymore

	client := New(&config.Config{BaseURL: srv.URL})
	_, err := client.List(context.Background(), query.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
}

func TestGetByIDNotFound(t *testing.T) {
	client, _ := newTestClient(t, "")

	_, err := client.GetByID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateValidationError(t *testing.T) {
	client, _ := newTestClient(t, "")

	_, err := client.Create(context.Background(), model.FormData{Name: ""})
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name is required", ve.Message)
}

func TestUpdatePartial(t *testing.T) {
	client, fake := newTestClient(t, "")
	it := fake.add("original", model.StatusTodo)

	st := model.StatusDone
	updated, err := client.Update(context.Background(), it.ID, model.Patch{Status: &st})
	require.NoError(t, err)

	assert.Equal(t, model.StatusDone, updated.Status)
	assert.Equal(t, "original", updated.Name, "unpatched fields must not change")
}

func TestUpdateNotFound(t *testing.T) {
	client, _ := newTestClient(t, "")

	name := "renamed"
	_, err := client.Update(context.Background(), uuid.NewString(), model.Patch{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteIdempotenceSurfacesNotFound(t *testing.T) {
	client, fake := newTestClient(t, "")
	it := fake.add("doomed", model.StatusTodo)

	require.NoError(t, client.Delete(context.Background(), it.ID))

	err := client.Delete(context.Background(), it.ID)
	assert.ErrorIs(t, err, ErrNotFound, "second delete reports NotFound, not silent success")
}
