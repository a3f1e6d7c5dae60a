// Package memory is an in-process persistence backend. It keeps the same
// contract as the database backends (sequential numeric ids, left-outer
// director resolution, unique usernames) and is used for local development
// and tests.
package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/core/domain"
	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/core/ports"
)

// Store holds all records behind a single lock.
type Store struct {
	mu sync.RWMutex

	users     map[string]domain.User // keyed by username
	movies    map[int64]domain.Movie
	directors map[int64]domain.Director

	userSeq, movieSeq, directorSeq int64
}

var _ ports.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		users:     make(map[string]domain.User),
		movies:    make(map[int64]domain.Movie),
		directors: make(map[int64]domain.Director),
	}
}

func (s *Store) Name() string                        { return "memory" }
func (s *Store) Users() ports.UserRepository         { return userRepo{s} }
func (s *Store) Movies() ports.MovieRepository       { return movieRepo{s} }
func (s *Store) Directors() ports.DirectorRepository { return directorRepo{s} }
func (s *Store) Ping(context.Context) error          { return nil }
func (s *Store) Close(context.Context) error         { return nil }

func parseID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return 0, domain.ErrInvalidID
	}
	return n, nil
}

func formatID(n int64) string { return strconv.FormatInt(n, 10) }

var errInvalidDirectorRef = domain.NewValidationError("director_id", "must be a valid id")

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// --- users ---

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	r.s.userSeq++
	stored := *user
	stored.ID = formatID(r.s.userSeq)
	r.s.users[stored.Username] = stored
	return &stored, nil
}

func (r userRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r userRepo) CountByRole(_ context.Context, role string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, u := range r.s.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

// --- movies ---

type movieRepo struct{ s *Store }

// resolve fills DirectorName. Callers hold the lock.
func (r movieRepo) resolve(m domain.Movie) domain.Movie {
	m.DirectorName = nil
	if id, err := parseID(m.DirectorID); err == nil {
		if d, ok := r.s.directors[id]; ok {
			name := d.Name
			m.DirectorName = &name
		}
	}
	return m
}

func (r movieRepo) List(context.Context) ([]domain.Movie, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.Movie, 0, len(r.s.movies))
	for _, k := range sortedKeys(r.s.movies) {
		out = append(out, r.resolve(r.s.movies[k]))
	}
	return out, nil
}

func (r movieRepo) FindByID(_ context.Context, id string) (*domain.Movie, error) {
	n, err := parseID(id)
	if err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.movies[n]
	if !ok {
		return nil, domain.ErrMovieNotFound
	}
	m = r.resolve(m)
	return &m, nil
}

func (r movieRepo) Create(_ context.Context, m *domain.Movie) (*domain.Movie, error) {
	if _, err := parseID(m.DirectorID); err != nil {
		return nil, errInvalidDirectorRef
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.movieSeq++
	stored := domain.Movie{ID: formatID(r.s.movieSeq), Title: m.Title, Year: m.Year, DirectorID: m.DirectorID}
	r.s.movies[r.s.movieSeq] = stored
	out := r.resolve(stored)
	return &out, nil
}

func (r movieRepo) Update(_ context.Context, id string, m *domain.Movie) (*domain.Movie, error) {
	n, err := parseID(id)
	if err != nil {
		return nil, err
	}
	if _, err := parseID(m.DirectorID); err != nil {
		return nil, errInvalidDirectorRef
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.movies[n]; !ok {
		return nil, domain.ErrMovieNotFound
	}
	stored := domain.Movie{ID: formatID(n), Title: m.Title, Year: m.Year, DirectorID: m.DirectorID}
	r.s.movies[n] = stored
	out := r.resolve(stored)
	return &out, nil
}

func (r movieRepo) Delete(_ context.Context, id string) error {
	n, err := parseID(id)
	if err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.movies[n]; !ok {
		return domain.ErrMovieNotFound
	}
	delete(r.s.movies, n)
	return nil
}

// --- directors ---

type directorRepo struct{ s *Store }

func (r directorRepo) List(context.Context) ([]domain.Director, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.Director, 0, len(r.s.directors))
	for _, k := range sortedKeys(r.s.directors) {
		out = append(out, r.s.directors[k])
	}
	return out, nil
}

func (r directorRepo) FindByID(_ context.Context, id string) (*domain.Director, error) {
	n, err := parseID(id)
	if err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	d, ok := r.s.directors[n]
	if !ok {
		return nil, domain.ErrDirectorNotFound
	}
	return &d, nil
}

func (r directorRepo) Create(_ context.Context, d *domain.Director) (*domain.Director, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.directorSeq++
	stored := domain.Director{ID: formatID(r.s.directorSeq), Name: d.Name, BirthYear: d.BirthYear}
	r.s.directors[r.s.directorSeq] = stored
	return &stored, nil
}

func (r directorRepo) Update(_ context.Context, id string, d *domain.Director) (*domain.Director, error) {
	n, err := parseID(id)
	if err != nil {
		return nil, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.directors[n]; !ok {
		return nil, domain.ErrDirectorNotFound
	}
	stored := domain.Director{ID: formatID(n), Name: d.Name, BirthYear: d.BirthYear}
	r.s.directors[n] = stored
	return &stored, nil
}

func (r directorRepo) Delete(_ context.Context, id string) error {
	n, err := parseID(id)
	if err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.directors[n]; !ok {
		return domain.ErrDirectorNotFound
	}
	delete(r.s.directors, n)
	return nil
}
