package service

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"strconv"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/core/domain"
	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/core/ports"
)

// --- Stubs ---

type stubMovieRepo struct {
	movies    map[int]domain.Movie
	directors *stubDirectorRepo
	nextID    int
	listCalls int
	err       error
}

func newStubMovieRepo(directors *stubDirectorRepo) *stubMovieRepo {
	return &stubMovieRepo{movies: make(map[int]domain.Movie), directors: directors}
}

func parseStubID(id string) (int, error) {
	n, err := strconv.Atoi(id)
	if err != nil || n <= 0 {
		return 0, domain.ErrInvalidID
	}
	return n, nil
}

func (r *stubMovieRepo) resolve(m domain.Movie) domain.Movie {
	m.DirectorName = nil
	if r.directors == nil {
		return m
	}
	if id, err := parseStubID(m.DirectorID); err == nil {
		if d, ok := r.directors.directors[id]; ok {
			name := d.Name
			m.DirectorName = &name
		}
	}
	return m
}

func (r *stubMovieRepo) List(context.Context) ([]domain.Movie, error) {
	r.listCalls++
	if r.err != nil {
		return nil, r.err
	}
	keys := make([]int, 0, len(r.movies))
	for k := range r.movies {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	out := make([]domain.Movie, 0, len(keys))
	for _, k := range keys {
		out = append(out, r.resolve(r.movies[k]))
	}
	return out, nil
}

func (r *stubMovieRepo) FindByID(_ context.Context, id string) (*domain.Movie, error) {
	n, err := parseStubID(id)
	if err != nil {
		return nil, err
	}
	m, ok := r.movies[n]
	if !ok {
		return nil, domain.ErrMovieNotFound
	}
	m = r.resolve(m)
	return &m, nil
}

func (r *stubMovieRepo) Create(ctx context.Context, m *domain.Movie) (*domain.Movie, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.nextID++
	stored := *m
	stored.ID = strconv.Itoa(r.nextID)
	r.movies[r.nextID] = stored
	return r.FindByID(ctx, stored.ID)
}

func (r *stubMovieRepo) Update(ctx context.Context, id string, m *domain.Movie) (*domain.Movie, error) {
	n, err := parseStubID(id)
	if err != nil {
		return nil, err
	}
	if _, ok := r.movies[n]; !ok {
		return nil, domain.ErrMovieNotFound
	}
	stored := *m
	stored.ID = id
	r.movies[n] = stored
	return r.FindByID(ctx, id)
}

func (r *stubMovieRepo) Delete(_ context.Context, id string) error {
	n, err := parseStubID(id)
	if err != nil {
		return err
	}
	if _, ok := r.movies[n]; !ok {
		return domain.ErrMovieNotFound
	}
	delete(r.movies, n)
	return nil
}

// stubCache records cache traffic; values are kept as-is rather than encoded.
type stubCache struct {
	values  map[string]any
	deleted []string
	getErr  error
}

func newStubCache() *stubCache {
	return &stubCache{values: make(map[string]any)}
}

func (c *stubCache) Get(_ context.Context, key string, dest any) (bool, error) {
	if c.getErr != nil {
		return false, c.getErr
	}
	v, ok := c.values[key]
	if !ok {
		return false, nil
	}
	switch d := dest.(type) {
	case *[]domain.Movie:
		*d = v.([]domain.Movie)
	case *[]domain.Director:
		*d = v.([]domain.Director)
	default:
		return false, errors.New("unsupported type")
	}
	return true, nil
}

func (c *stubCache) Set(_ context.Context, key string, value any) error {
	c.values[key] = value
	return nil
}

func (c *stubCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.values, k)
		c.deleted = append(c.deleted, k)
	}
	return nil
}

var discardLogger = zerolog.Nop()

func validMovieInput() ports.MovieInput {
	return ports.MovieInput{Title: "Parasite", Year: 2019, DirectorID: "1"}
}

// --- Tests ---

func TestMovieService_Create_Success(t *testing.T) {
	directors := newStubDirectorRepo()
	directors.directors[1] = domain.Director{ID: "1", Name: "Bong Joon-ho", BirthYear: 1969}
	repo := newStubMovieRepo(directors)
	svc := NewMovieService(repo, nil, discardLogger)

	m, err := svc.Create(context.Background(), validMovieInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if m.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if m.DirectorName == nil || *m.DirectorName != "Bong Joon-ho" {
		t.Fatalf("expected resolved director name, got %v", m.DirectorName)
	}
}

func TestMovieService_Create_Validation(t *testing.T) {
	repo := newStubMovieRepo(nil)
	svc := NewMovieService(repo, nil, discardLogger)

	cases := []ports.MovieInput{
		{Title: "", Year: 2019, DirectorID: "1"},
		{Title: "X", Year: 0, DirectorID: "1"},
		{Title: "X", Year: 2019, DirectorID: " "},
	}
	for _, in := range cases {
		var ve *domain.ValidationError
		if _, err := svc.Create(context.Background(), in); !errors.As(err, &ve) {
			t.Fatalf("expected ValidationError for %+v, got %v", in, err)
		}
	}
	if len(repo.movies) != 0 {
		t.Fatalf("invalid input must not be persisted")
	}
}

func TestMovieService_List_UnresolvedDirectorIsNil(t *testing.T) {
	repo := newStubMovieRepo(newStubDirectorRepo())
	svc := NewMovieService(repo, nil, discardLogger)

	in := validMovieInput()
	in.DirectorID = "99"
	if _, err := svc.Create(context.Background(), in); err != nil {
		t.Fatalf("Create: %v", err)
	}

	movies, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(movies) != 1 || movies[0].DirectorName != nil {
		t.Fatalf("expected one movie with nil director name, got %+v", movies)
	}
}

func TestMovieService_List_EmptyIsNotNil(t *testing.T) {
	svc := NewMovieService(newStubMovieRepo(nil), nil, discardLogger)

	movies, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if movies == nil {
		t.Fatalf("expected empty slice, got nil")
	}
}

func TestMovieService_List_UsesCache(t *testing.T) {
	repo := newStubMovieRepo(nil)
	cache := newStubCache()
	svc := NewMovieService(repo, cache, discardLogger)

	_, _ = svc.List(context.Background())
	_, _ = svc.List(context.Background())

	if repo.listCalls != 1 {
		t.Fatalf("expected one repository read, got %d", repo.listCalls)
	}
}

func TestMovieService_List_CacheErrorFallsBack(t *testing.T) {
	repo := newStubMovieRepo(nil)
	cache := newStubCache()
	cache.getErr = errors.New("redis down")
	svc := NewMovieService(repo, cache, discardLogger)

	if _, err := svc.List(context.Background()); err != nil {
		t.Fatalf("expected fallback to repository, got %v", err)
	}
	if repo.listCalls != 1 {
		t.Fatalf("expected repository read, got %d", repo.listCalls)
	}
}

func TestMovieService_WritesInvalidateCache(t *testing.T) {
	repo := newStubMovieRepo(nil)
	cache := newStubCache()
	svc := NewMovieService(repo, cache, discardLogger)

	_, _ = svc.List(context.Background())
	created, err := svc.Create(context.Background(), validMovieInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	movies, _ := svc.List(context.Background())
	if len(movies) != 1 {
		t.Fatalf("expected fresh list after create, got %d movies", len(movies))
	}

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	movies, _ = svc.List(context.Background())
	if len(movies) != 0 {
		t.Fatalf("expected empty list after delete, got %d", len(movies))
	}
}

func TestMovieService_Update(t *testing.T) {
	repo := newStubMovieRepo(nil)
	svc := NewMovieService(repo, nil, discardLogger)
	created, _ := svc.Create(context.Background(), validMovieInput())

	updated, err := svc.Update(context.Background(), created.ID, ports.MovieInput{Title: "Memories of Murder", Year: 2003, DirectorID: "1"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.ID != created.ID || updated.Title != "Memories of Murder" || updated.Year != 2003 {
		t.Fatalf("unexpected update result: %+v", updated)
	}
}

func TestMovieService_NotFoundAndInvalidID(t *testing.T) {
	svc := NewMovieService(newStubMovieRepo(nil), nil, discardLogger)

	if _, err := svc.Get(context.Background(), "42"); !errors.Is(err, domain.ErrMovieNotFound) {
		t.Fatalf("expected ErrMovieNotFound, got %v", err)
	}
	if _, err := svc.Update(context.Background(), "42", validMovieInput()); !errors.Is(err, domain.ErrMovieNotFound) {
		t.Fatalf("expected ErrMovieNotFound on update, got %v", err)
	}
	if err := svc.Delete(context.Background(), "42"); !errors.Is(err, domain.ErrMovieNotFound) {
		t.Fatalf("expected ErrMovieNotFound on delete, got %v", err)
	}
	if _, err := svc.Get(context.Background(), "abc"); !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestMovieService_Create_RepoError(t *testing.T) {
	repo := newStubMovieRepo(nil)
	repo.err = errors.New("db unavailable")
	cache := newStubCache()
	svc := NewMovieService(repo, cache, discardLogger)

	if _, err := svc.Create(context.Background(), validMovieInput()); err == nil {
		t.Fatalf("expected error")
	}
	if len(cache.deleted) != 0 {
		t.Fatalf("failed writes must not invalidate the cache")
	}
}

func TestMovieService_List_SkipsCacheFillAfterConcurrentWrite(t *testing.T) {
	cache := newStubCache()
	load := func(ctx context.Context) ([]domain.Movie, error) {
		// a write lands between the store read and the cache fill
		invalidate(ctx, cache, discardLogger, cacheKeyMovies)
		return []domain.Movie{{ID: "1", Title: "Stale"}}, nil
	}

	movies, err := readCached(context.Background(), cache, discardLogger, cacheKeyMovies, load)
	if err != nil || len(movies) != 1 {
		t.Fatalf("expected the loaded list, got %v (%v)", movies, err)
	}
	if _, ok := cache.values[cacheKeyMovies]; ok {
		t.Fatalf("expected the stale list not to be cached")
	}

	// without an intervening write the list is cached as usual
	fresh := func(context.Context) ([]domain.Movie, error) { return []domain.Movie{{ID: "1"}}, nil }
	if _, err := readCached(context.Background(), cache, discardLogger, cacheKeyMovies, fresh); err != nil {
		t.Fatalf("readCached: %v", err)
	}
	if _, ok := cache.values[cacheKeyMovies]; !ok {
		t.Fatalf("expected the list to be cached")
	}
}

func TestMovieService_Create_LeavesMutationLogToCaller(t *testing.T) {
	directors := newStubDirectorRepo()
	directors.directors[1] = domain.Director{ID: "1", Name: "Bong Joon-ho", BirthYear: 1969}

	var buf bytes.Buffer
	svc := NewMovieService(newStubMovieRepo(directors), nil, zerolog.New(&buf))

	if _, err := svc.Create(context.Background(), validMovieInput()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no service log for a successful write, got %q", buf.String())
	}
}
