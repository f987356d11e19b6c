package main

import (
	"context"
	"sort"
	"sync"
	"time"

	"taktivent/internal/domain/collaborators"
	"taktivent/internal/domain/events"
	"taktivent/internal/domain/performers"
	"taktivent/internal/domain/reviews"
	"taktivent/internal/domain/songs"
	"taktivent/internal/domain/storage"
	"taktivent/internal/domain/templates"
	"taktivent/internal/domain/users"
	"taktivent/internal/domain/venues"
)

// memDB is an in-memory backing for every store the handlers touch.
type memDB struct {
	mu            sync.Mutex
	nextID        int64
	users         map[int64]*users.User
	events        map[int64]*events.Event
	songs         map[int64]*songs.Song
	reviews       []*reviews.Review
	collaborators []*collaborators.Collaborator
	venues        []*venues.Venue
	performers    []*performers.Performer
	templates     []*templates.Template
	refreshTokens map[int64]string
	resetTokens   map[string]resetToken
}

type resetToken struct {
	userID  int64
	expires time.Time
}

func newMemDB() *memDB {
	return &memDB{
		users:         map[int64]*users.User{},
		events:        map[int64]*events.Event{},
		songs:         map[int64]*songs.Song{},
		refreshTokens: map[int64]string{},
		resetTokens:   map[string]resetToken{},
	}
}

func (db *memDB) id() int64 {
	db.nextID++
	return db.nextID
}

func (db *memDB) container() *storage.Container {
	c := &storage.Container{
		Users:         &memUsers{db},
		Venues:        &memVenues{db},
		Events:        &memEvents{db},
		Songs:         &memSongs{db},
		Performers:    &memPerformers{db},
		Reviews:       &memReviews{db},
		Collaborators: &memCollaborators{db},
		Templates:     &memTemplates{db},
	}
	c.RunInTx = func(ctx context.Context, fn func(tx *storage.Container) error) error {
		return fn(c)
	}
	return c
}

type memUsers struct{ db *memDB }

func (s *memUsers) Create(_ context.Context, u *users.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, existing := range s.db.users {
		if existing.Email == u.Email {
			return users.ErrDuplicateEmail
		}
	}
	u.ID = s.db.id()
	cp := *u
	s.db.users[u.ID] = &cp
	return nil
}

func (s *memUsers) GetByID(_ context.Context, id int64) (*users.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, ok := s.db.users[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memUsers) GetByEmail(_ context.Context, email string) (*users.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, u := range s.db.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, users.ErrNotFound
}

func (s *memUsers) UpdateProfile(_ context.Context, u *users.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	existing, ok := s.db.users[u.ID]
	if !ok {
		return users.ErrNotFound
	}
	existing.FirstName, existing.LastName, existing.Email = u.FirstName, u.LastName, u.Email
	return nil
}

func (s *memUsers) UpdatePassword(_ context.Context, u *users.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	existing, ok := s.db.users[u.ID]
	if !ok {
		return users.ErrNotFound
	}
	existing.Password = u.Password
	delete(s.db.refreshTokens, u.ID)
	return nil
}

func (s *memUsers) SaveRefreshToken(_ context.Context, userID int64, token string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.refreshTokens[userID] = token
	return nil
}

func (s *memUsers) GetRefreshToken(_ context.Context, userID int64) (string, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return s.db.refreshTokens[userID], nil
}

func (s *memUsers) DeleteRefreshToken(_ context.Context, userID int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	delete(s.db.refreshTokens, userID)
	return nil
}

func (s *memUsers) SetResetToken(_ context.Context, userID int64, tokenHash string, expires time.Time) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.resetTokens[tokenHash] = resetToken{userID: userID, expires: expires}
	return nil
}

func (s *memUsers) ResetPassword(_ context.Context, tokenHash string, u *users.User, now time.Time) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	rt, ok := s.db.resetTokens[tokenHash]
	if !ok || !rt.expires.After(now) {
		return users.ErrInvalidResetToken
	}
	delete(s.db.resetTokens, tokenHash)

	existing := s.db.users[rt.userID]
	existing.Password = u.Password
	delete(s.db.refreshTokens, rt.userID)
	*u = *existing
	return nil
}

type memEvents struct{ db *memDB }

func (s *memEvents) Create(_ context.Context, e *events.Event) error {
	if err := e.ValidateWindow(); err != nil {
		return err
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	e.ID = s.db.id()
	cp := *e
	s.db.events[e.ID] = &cp
	return nil
}

func (s *memEvents) GetByID(_ context.Context, id int64) (*events.Event, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	e, ok := s.db.events[id]
	if !ok {
		return nil, events.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (s *memEvents) Update(_ context.Context, e *events.Event) error {
	if err := e.ValidateWindow(); err != nil {
		return err
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.events[e.ID]; !ok {
		return events.ErrNotFound
	}
	cp := *e
	s.db.events[e.ID] = &cp
	return nil
}

func (s *memEvents) Delete(_ context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.events[id]; !ok {
		return events.ErrNotFound
	}
	delete(s.db.events, id)
	for sid, song := range s.db.songs {
		if song.EventID == id {
			delete(s.db.songs, sid)
		}
	}
	kept := s.db.reviews[:0]
	for _, r := range s.db.reviews {
		if r.EventID != id {
			kept = append(kept, r)
		}
	}
	s.db.reviews = kept
	return nil
}

func (s *memEvents) ListByOwner(_ context.Context, userID int64, limit, offset int) ([]events.Event, int, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var all []events.Event
	for _, e := range s.db.events {
		if e.UserID == userID {
			all = append(all, *e)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := len(all)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (s *memEvents) ListAttended(_ context.Context, userID int64) ([]events.Event, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	seen := map[int64]bool{}
	var out []events.Event
	for _, r := range s.db.reviews {
		if r.UserID != nil && *r.UserID == userID && !seen[r.EventID] {
			seen[r.EventID] = true
			out = append(out, *s.db.events[r.EventID])
		}
	}
	return out, nil
}

func (s *memEvents) CountByOwner(ctx context.Context, userID int64) (int, error) {
	_, total, err := s.ListByOwner(ctx, userID, 1, 0)
	return total, err
}

type memSongs struct{ db *memDB }

func (s *memSongs) Create(_ context.Context, song *songs.Song) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	song.ID = s.db.id()
	cp := *song
	s.db.songs[song.ID] = &cp
	return nil
}

func (s *memSongs) GetByID(_ context.Context, eventID, songID int64) (*songs.Song, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	song, ok := s.db.songs[songID]
	if !ok || song.EventID != eventID {
		return nil, songs.ErrNotFound
	}
	cp := *song
	return &cp, nil
}

func (s *memSongs) ListByEvent(_ context.Context, eventID int64) ([]songs.Song, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []songs.Song{}
	for _, song := range s.db.songs {
		if song.EventID == eventID {
			out = append(out, *song)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

func (s *memSongs) Update(_ context.Context, song *songs.Song) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.songs[song.ID]; !ok {
		return songs.ErrNotFound
	}
	cp := *song
	s.db.songs[song.ID] = &cp
	return nil
}

func (s *memSongs) Delete(_ context.Context, eventID, songID int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	song, ok := s.db.songs[songID]
	if !ok || song.EventID != eventID {
		return songs.ErrNotFound
	}
	delete(s.db.songs, songID)
	return nil
}

func (s *memSongs) SetPerformers(context.Context, int64, int64, []int64) error { return nil }

func (s *memSongs) Search(context.Context, int64, string, int) ([]songs.Song, error) {
	return []songs.Song{}, nil
}

func (s *memSongs) Composers(context.Context, int64, string, int) ([]string, error) {
	return []string{}, nil
}

type memReviews struct{ db *memDB }

func (s *memReviews) Create(_ context.Context, r *reviews.Review) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	r.ID = s.db.id()
	r.CreatedAt = time.Now().UTC()
	cp := *r
	s.db.reviews = append(s.db.reviews, &cp)
	return nil
}

func (s *memReviews) find(kind reviews.Kind, parentID, reviewID int64) *reviews.Review {
	for _, r := range s.db.reviews {
		if r.ID == reviewID && r.Kind == kind && r.ParentID() == parentID {
			return r
		}
	}
	return nil
}

func (s *memReviews) GetByID(_ context.Context, kind reviews.Kind, parentID, reviewID int64) (*reviews.Review, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	r := s.find(kind, parentID, reviewID)
	if r == nil {
		return nil, reviews.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *memReviews) Reply(_ context.Context, kind reviews.Kind, parentID, reviewID int64, reply string, at time.Time) (*reviews.Review, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	r := s.find(kind, parentID, reviewID)
	if r == nil {
		return nil, reviews.ErrNotFound
	}
	r.Reply = &reply
	r.RepliedAt = &at
	cp := *r
	return &cp, nil
}

func (s *memReviews) filter(keep func(*reviews.Review) bool) []reviews.Review {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []reviews.Review{}
	for _, r := range s.db.reviews {
		if keep(r) {
			out = append(out, *r)
		}
	}
	return out
}

func (s *memReviews) ListByEvent(_ context.Context, eventID int64) ([]reviews.Review, error) {
	return s.filter(func(r *reviews.Review) bool { return r.EventID == eventID }), nil
}

func (s *memReviews) ListBySong(_ context.Context, songID int64) ([]reviews.Review, error) {
	return s.filter(func(r *reviews.Review) bool { return r.SongID != nil && *r.SongID == songID }), nil
}

func (s *memReviews) ListByOwner(_ context.Context, userID int64) ([]reviews.Review, error) {
	s.db.mu.Lock()
	owned := map[int64]bool{}
	for id, e := range s.db.events {
		if e.UserID == userID {
			owned[id] = true
		}
	}
	s.db.mu.Unlock()
	return s.filter(func(r *reviews.Review) bool { return owned[r.EventID] }), nil
}

type memCollaborators struct{ db *memDB }

func (s *memCollaborators) List(_ context.Context, eventID int64) ([]collaborators.Collaborator, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []collaborators.Collaborator{}
	for _, c := range s.db.collaborators {
		if c.EventID == eventID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *memCollaborators) Add(_ context.Context, c *collaborators.Collaborator) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, existing := range s.db.collaborators {
		if existing.EventID == c.EventID && existing.UserID == c.UserID {
			return collaborators.ErrAlreadyExists
		}
	}
	c.ID = s.db.id()
	if u, ok := s.db.users[c.UserID]; ok {
		c.FirstName, c.LastName, c.Email = u.FirstName, u.LastName, u.Email
	}
	cp := *c
	s.db.collaborators = append(s.db.collaborators, &cp)
	return nil
}

func (s *memCollaborators) UpdateRole(_ context.Context, eventID, collaboratorID int64, role collaborators.Role) (*collaborators.Collaborator, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, c := range s.db.collaborators {
		if c.ID == collaboratorID && c.EventID == eventID {
			c.Role = role
			cp := *c
			return &cp, nil
		}
	}
	return nil, collaborators.ErrNotFound
}

func (s *memCollaborators) Remove(_ context.Context, eventID, collaboratorID int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for i, c := range s.db.collaborators {
		if c.ID == collaboratorID && c.EventID == eventID {
			s.db.collaborators = append(s.db.collaborators[:i], s.db.collaborators[i+1:]...)
			return nil
		}
	}
	return collaborators.ErrNotFound
}

func (s *memCollaborators) RoleFor(_ context.Context, eventID, userID int64) (collaborators.Role, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, c := range s.db.collaborators {
		if c.EventID == eventID && c.UserID == userID {
			return c.Role, nil
		}
	}
	return "", collaborators.ErrNotFound
}

type memVenues struct{ db *memDB }

func (s *memVenues) List(_ context.Context) ([]venues.Venue, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []venues.Venue{}
	for _, v := range s.db.venues {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memVenues) GetByID(_ context.Context, id int64) (*venues.Venue, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, v := range s.db.venues {
		if v.ID == id {
			cp := *v
			return &cp, nil
		}
	}
	return nil, venues.ErrNotFound
}

func (s *memVenues) FindOrCreate(_ context.Context, v *venues.Venue) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, existing := range s.db.venues {
		if existing.Name == v.Name && deref(existing.Address) == deref(v.Address) {
			*v = *existing
			return nil
		}
	}
	v.ID = s.db.id()
	v.CreatedAt = time.Now()
	v.UpdatedAt = v.CreatedAt
	cp := *v
	s.db.venues = append(s.db.venues, &cp)
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type memPerformers struct{ db *memDB }

func (s *memPerformers) ListByOwner(_ context.Context, userID int64) ([]performers.Performer, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []performers.Performer{}
	for _, p := range s.db.performers {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memPerformers) GetByID(_ context.Context, userID, id int64) (*performers.Performer, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, p := range s.db.performers {
		if p.ID == id && p.UserID == userID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, performers.ErrNotFound
}

func (s *memPerformers) conflicts(p *performers.Performer) bool {
	for _, existing := range s.db.performers {
		if existing.ID != p.ID && existing.UserID == p.UserID &&
			existing.Name == p.Name && deref(existing.Description) == deref(p.Description) {
			return true
		}
	}
	return false
}

func (s *memPerformers) Create(_ context.Context, p *performers.Performer) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.conflicts(p) {
		return performers.ErrConflict
	}
	p.ID = s.db.id()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	s.db.performers = append(s.db.performers, &cp)
	return nil
}

func (s *memPerformers) Update(_ context.Context, p *performers.Performer) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.conflicts(p) {
		return performers.ErrConflict
	}
	for i, existing := range s.db.performers {
		if existing.ID == p.ID && existing.UserID == p.UserID {
			p.UpdatedAt = time.Now()
			cp := *p
			s.db.performers[i] = &cp
			return nil
		}
	}
	return performers.ErrNotFound
}

func (s *memPerformers) Delete(_ context.Context, userID, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for i, p := range s.db.performers {
		if p.ID == id && p.UserID == userID {
			s.db.performers = append(s.db.performers[:i], s.db.performers[i+1:]...)
			return nil
		}
	}
	return performers.ErrNotFound
}

type memTemplates struct{ db *memDB }

func (s *memTemplates) List(_ context.Context, userID int64) ([]templates.Template, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []templates.Template{}
	for _, t := range s.db.templates {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *memTemplates) GetByID(_ context.Context, userID, id int64) (*templates.Template, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, t := range s.db.templates {
		if t.ID == id && t.UserID == userID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, templates.ErrNotFound
}

func (s *memTemplates) Create(_ context.Context, t *templates.Template) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, existing := range s.db.templates {
		if existing.UserID == t.UserID && existing.Name == t.Name {
			return templates.ErrDuplicate
		}
	}
	t.ID = s.db.id()
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	cp := *t
	s.db.templates = append(s.db.templates, &cp)
	return nil
}

func (s *memTemplates) Update(_ context.Context, t *templates.Template) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for i, existing := range s.db.templates {
		if existing.ID == t.ID && existing.UserID == t.UserID {
			t.CreatedAt = existing.CreatedAt
			t.UpdatedAt = time.Now()
			cp := *t
			s.db.templates[i] = &cp
			return nil
		}
	}
	return templates.ErrNotFound
}

func (s *memTemplates) Delete(_ context.Context, userID, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for i, t := range s.db.templates {
		if t.ID == id && t.UserID == userID {
			s.db.templates = append(s.db.templates[:i], s.db.templates[i+1:]...)
			return nil
		}
	}
	return templates.ErrNotFound
}
