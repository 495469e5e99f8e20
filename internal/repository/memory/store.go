// Package memory holds process-local implementations of the repository
// interfaces. All three share one lock, so every operation is atomic with
// respect to the others, which gives the same guarantees the Postgres
// row locks give.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"blog-engagement/internal/domain"
	"blog-engagement/internal/repository"
)

type Store struct {
	mu            sync.Mutex
	posts         map[uuid.UUID]*domain.PostActivity
	comments      map[uuid.UUID]*domain.Comment
	notifications map[uuid.UUID]*domain.Notification

	// now is overridable so tests can pin creation order.
	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		posts:         make(map[uuid.UUID]*domain.PostActivity),
		comments:      make(map[uuid.UUID]*domain.Comment),
		notifications: make(map[uuid.UUID]*domain.Notification),
		now:           time.Now,
	}
}

// SetClock replaces the timestamp source.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// RegisterPost makes a post known to the counter store.
func (s *Store) RegisterPost(postID, authorID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[postID]; !ok {
		s.posts[postID] = &domain.PostActivity{PostID: postID, AuthorID: authorID}
	}
}

// Seed registers posts given as "postID:authorID" pairs.
func (s *Store) Seed(pairs []string) error {
	for _, pair := range pairs {
		postPart, authorPart, ok := strings.Cut(pair, ":")
		if !ok {
			return fmt.Errorf("invalid post seed %q", pair)
		}
		postID, err := uuid.Parse(strings.TrimSpace(postPart))
		if err != nil {
			return fmt.Errorf("invalid post id in seed %q: %w", pair, err)
		}
		authorID, err := uuid.Parse(strings.TrimSpace(authorPart))
		if err != nil {
			return fmt.Errorf("invalid author id in seed %q: %w", pair, err)
		}
		s.RegisterPost(postID, authorID)
	}
	return nil
}

func (s *Store) Repositories() *repository.Repositories {
	return &repository.Repositories{
		Post:         &postRepo{s},
		Comment:      &commentRepo{s},
		Notification: &notificationRepo{s},
	}
}

func cloneComment(c *domain.Comment) domain.Comment {
	out := *c
	out.Children = append(domain.IDList{}, c.Children...)
	out.ReplyCount = len(out.Children)
	if c.ParentID != nil {
		p := *c.ParentID
		out.ParentID = &p
	}
	return out
}

type postRepo struct{ s *Store }

func (r *postRepo) GetAuthor(ctx context.Context, postID uuid.UUID) (uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[postID]
	if !ok {
		return uuid.Nil, domain.ErrNotFound
	}
	return p.AuthorID, nil
}

func (r *postRepo) GetActivity(ctx context.Context, postID uuid.UUID) (*domain.PostActivity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[postID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *p
	return &out, nil
}

func (r *postRepo) IncrementCounters(ctx context.Context, postID uuid.UUID, delta domain.CounterDelta) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[postID]
	if !ok {
		return domain.ErrNotFound
	}
	p.TotalComments += delta.Comments
	p.TotalParentComments += delta.ParentComments
	p.TotalLikes += delta.Likes
	return nil
}

func (r *postRepo) SetCounters(ctx context.Context, postID uuid.UUID, counts domain.CounterDelta) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[postID]
	if !ok {
		return domain.ErrNotFound
	}
	p.TotalComments = counts.Comments
	p.TotalParentComments = counts.ParentComments
	p.TotalLikes = counts.Likes
	return nil
}

type commentRepo struct{ s *Store }

func (r *commentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var parent *domain.Comment
	if comment.ParentID != nil {
		p, ok := r.s.comments[*comment.ParentID]
		if !ok {
			return domain.ErrNotFound
		}
		parent = p
	}

	comment.CreatedAt = r.s.now()
	if comment.Children == nil {
		comment.Children = domain.IDList{}
	}
	stored := cloneComment(comment)
	r.s.comments[comment.ID] = &stored
	if parent != nil {
		parent.Children = append(parent.Children, comment.ID)
	}
	return nil
}

func (r *commentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.comments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := cloneComment(c)
	return &out, nil
}

func (r *commentRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.Comment, 0, len(ids))
	for _, id := range ids {
		if c, ok := r.s.comments[id]; ok {
			out = append(out, cloneComment(c))
		}
	}
	return out, nil
}

func (r *commentRepo) ListTopLevel(ctx context.Context, postID uuid.UUID) ([]domain.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Comment{}
	for _, c := range r.s.comments {
		if c.PostID == postID && c.ParentID == nil {
			out = append(out, cloneComment(c))
		}
	}
	return out, nil
}

func (r *commentRepo) ListChildren(ctx context.Context, parentID uuid.UUID, params domain.SkipLimit) ([]domain.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	parent, ok := r.s.comments[parentID]
	if !ok {
		return []domain.Comment{}, nil
	}
	children := make([]domain.Comment, 0, len(parent.Children))
	for _, id := range parent.Children {
		if c, ok := r.s.comments[id]; ok {
			children = append(children, cloneComment(c))
		}
	}
	sort.SliceStable(children, func(i, j int) bool {
		return children[i].CreatedAt.After(children[j].CreatedAt)
	})
	lo, hi := params.Window(len(children))
	return children[lo:hi], nil
}

func (r *commentRepo) Delete(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.comments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	delete(r.s.comments, id)
	if c.ParentID != nil {
		if parent, ok := r.s.comments[*c.ParentID]; ok {
			parent.Children = parent.Children.Without(id)
		}
	}
	out := cloneComment(c)
	return &out, nil
}

func (r *commentRepo) ListOrphans(ctx context.Context, postID uuid.UUID) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var orphans []*domain.Comment
	for _, c := range r.s.comments {
		if c.PostID != postID || c.ParentID == nil {
			continue
		}
		if _, ok := r.s.comments[*c.ParentID]; !ok {
			orphans = append(orphans, c)
		}
	}
	sort.Slice(orphans, func(i, j int) bool { return orphans[i].Depth < orphans[j].Depth })
	ids := make([]uuid.UUID, len(orphans))
	for i, c := range orphans {
		ids[i] = c.ID
	}
	return ids, nil
}

func (r *commentRepo) ListByParent(ctx context.Context, parentID uuid.UUID) ([]domain.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Comment{}
	for _, c := range r.s.comments {
		if c.ParentID != nil && *c.ParentID == parentID {
			out = append(out, cloneComment(c))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *commentRepo) CountByPost(ctx context.Context, postID uuid.UUID) (int64, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var total, parents int64
	for _, c := range r.s.comments {
		if c.PostID != postID {
			continue
		}
		total++
		if c.ParentID == nil {
			parents++
		}
	}
	return total, parents, nil
}
