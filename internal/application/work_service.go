package application

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/atelier-sns/atelier/internal/domain/access"
	"github.com/atelier-sns/atelier/internal/domain/entity"
	repo "github.com/atelier-sns/atelier/internal/domain/repository"
)

// WorkService covers posting works, guarded retrieval and the
// dashboard feed. ES is optional; nil disables indexing and search.
type WorkService struct {
	Works        repo.WorkRepository
	Users        repo.UserRepository
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESWorksIndex string
}

// Feed is the dashboard aggregate: the viewer's own works plus every
// other author's works the viewer may read. The two lists are disjoint
// by construction, since Visible skips the viewer's own works before
// filtering.
type Feed struct {
	Own     []*entity.Work `json:"own"`
	Visible []*entity.Work `json:"visible"`
}

// CreateWork posts a work. AuthorName is snapshotted from the author's
// current username and never re-synced.
func (s *WorkService) CreateWork(ctx context.Context, authorID, title, content string, visibility entity.Visibility) (*entity.Work, error) {
	author, err := s.Users.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, ErrUserNotFound
	}
	if !visibility.Valid() {
		visibility = entity.VisibilityPrivate
	}
	w := &entity.Work{
		Title:      title,
		Content:    content,
		AuthorID:   author.ID,
		AuthorName: author.Username,
		Visibility: visibility,
	}
	if err := s.Works.Create(ctx, w); err != nil {
		return nil, err
	}
	_ = s.indexWork(ctx, w)
	return w, nil
}

// GetWork loads a work and checks read access for the viewer. A
// missing work yields ErrWorkNotFound; an existing but inaccessible one
// yields ErrForbidden, so callers can report the right status.
func (s *WorkService) GetWork(ctx context.Context, viewerID, workID string) (*entity.Work, error) {
	viewer, err := s.Users.GetByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if viewer == nil {
		return nil, ErrUserNotFound
	}
	w, err := s.Works.GetByID(ctx, workID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, ErrWorkNotFound
	}
	if !access.CanView(viewer, w) {
		return nil, ErrForbidden
	}
	return w, nil
}

// ComposeFeed builds the dashboard for the viewer. Own is every work
// the viewer authored, unfiltered; Visible is every other author's work
// that passes the access predicate, in store order.
func (s *WorkService) ComposeFeed(ctx context.Context, viewerID string) (*Feed, error) {
	viewer, err := s.Users.GetByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if viewer == nil {
		return nil, ErrUserNotFound
	}
	own, err := s.Works.ListByAuthor(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}
	all, err := s.Works.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	feed := &Feed{Own: own, Visible: []*entity.Work{}}
	if feed.Own == nil {
		feed.Own = []*entity.Work{}
	}
	for _, w := range all {
		if w.AuthorID == viewer.ID {
			continue
		}
		if access.CanView(viewer, w) {
			feed.Visible = append(feed.Visible, w)
		}
	}
	return feed, nil
}

func (s *WorkService) indexWork(ctx context.Context, w *entity.Work) error {
	if s.ES == nil || s.ESWorksIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":          w.ID,
		"title":       w.Title,
		"content":     w.Content,
		"author_id":   w.AuthorID,
		"author_name": w.AuthorName,
		"visibility":  string(w.Visibility),
		"created_at":  w.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESWorksIndex, DocumentID: w.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("work_id", w.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("work_id", w.ID).Warn("es index response error")
	}
	return nil
}

// SearchWorks queries the works index and re-checks every hit against
// the access predicate before returning it, so search can never leak a
// work the feed would hide.
func (s *WorkService) SearchWorks(ctx context.Context, viewerID, q string, size int) ([]*entity.Work, error) {
	viewer, err := s.Users.GetByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if viewer == nil {
		return nil, ErrUserNotFound
	}
	if s.ES == nil || s.ESWorksIndex == "" {
		return []*entity.Work{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "content", "author_name"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESWorksIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]*entity.Work, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		w, err := s.Works.GetByID(ctx, h.ID)
		if err != nil {
			return nil, err
		}
		if w != nil && access.CanView(viewer, w) {
			out = append(out, w)
		}
	}
	return out, nil
}
