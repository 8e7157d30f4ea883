package services

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"legal-literacy-portal/internal/domain/models"
	"legal-literacy-portal/pkg/logger"
)

// QueryRepository persists property queries in insertion order
type QueryRepository interface {
	Save(ctx context.Context, q *models.PropertyQuery) (int64, error)
	LoadAll(ctx context.Context) ([]models.PropertyQuery, error)
	FindByQueryID(ctx context.Context, queryID string) (*models.PropertyQuery, error)
	UpdateStatus(ctx context.Context, queryID string, status models.QueryStatus) error
}

// FileStore keeps query attachments
type FileStore interface {
	Put(ctx context.Context, key string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
}

// EventPublisher announces stored queries
type EventPublisher interface {
	PublishQuerySubmitted(ctx context.Context, evt models.QuerySubmittedEvent) error
}

// UploadPolicy accepts or rejects an upload by name and size
type UploadPolicy interface {
	Check(filename string, size int64) error
}

// QueryIDGenerator issues QRY_<YYYYMMDDHHMMSS> ids. Two calls within the same second
// get consecutive seconds so no id is issued twice by one process.
type QueryIDGenerator struct {
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

// NewQueryIDGenerator creates a generator on the wall clock
func NewQueryIDGenerator() *QueryIDGenerator {
	return &QueryIDGenerator{now: time.Now}
}

// Next returns a fresh id and the instant it encodes
func (g *QueryIDGenerator) Next() (string, time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()

	t := g.now().Truncate(time.Second)
	if !t.After(g.last) {
		t = g.last.Add(time.Second)
	}
	g.last = t
	return "QRY_" + t.Format(models.QueryIDLayout), t
}

// QueryService accepts property and legal assistance queries
type QueryService struct {
	repo      QueryRepository
	files     FileStore
	events    EventPublisher
	uploads   UploadPolicy
	ids       *QueryIDGenerator
	validator *validator.Validate
	logger    *logger.Logger
}

// NewQueryService creates a query service. files, events and uploads may be nil.
func NewQueryService(repo QueryRepository, files FileStore, events EventPublisher, uploads UploadPolicy, log *logger.Logger) *QueryService {
	return &QueryService{
		repo:      repo,
		files:     files,
		events:    events,
		uploads:   uploads,
		ids:       NewQueryIDGenerator(),
		validator: newValidator(),
		logger:    log.WithComponent("query-service"),
	}
}

// Submit validates and stores a query with its attachments. Nothing is saved when validation fails.
func (s *QueryService) Submit(ctx context.Context, in models.QueryInput, attachments []models.Attachment) (*models.PropertyQuery, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Description = strings.TrimSpace(in.Description)

	if err := validate(s.validator, in); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(attachments))
	for _, a := range attachments {
		if s.uploads != nil {
			if err := s.uploads.Check(a.Filename, int64(len(a.Data))); err != nil {
				return nil, err
			}
		}
		names = append(names, cleanFilename(a.Filename))
	}
	if len(attachments) > 0 && s.files == nil {
		return nil, models.NewStorageFailed(errors.New("attachment storage is not configured"))
	}

	queryID, at := s.ids.Next()
	log := s.logger.WithQueryID(queryID)

	stored := make([]string, 0, len(attachments))
	for i, a := range attachments {
		key := queryID + "/" + names[i]
		if _, err := s.files.Put(ctx, key, a.Data); err != nil {
			log.Error().Err(err).Int("attachment", i).Msg("failed to store attachment")
			s.discard(ctx, log, stored)
			return nil, models.NewStorageFailed(err)
		}
		stored = append(stored, key)
	}

	q := &models.PropertyQuery{
		QueryID:          queryID,
		Timestamp:        at.Format(models.QueryTimestampLayout),
		Name:             in.Name,
		Email:            in.Email,
		Phone:            in.Phone,
		QueryType:        in.QueryType,
		Urgency:          in.Urgency,
		Description:      in.Description,
		Files:            strings.Join(names, ","),
		MarketingConsent: consent(in.MarketingConsent),
		Status:           models.QueryStatusPending,
	}

	id, err := s.repo.Save(ctx, q)
	if err != nil {
		log.Error().Err(err).Msg("failed to save query")
		s.discard(ctx, log, stored)
		return nil, models.NewStorageFailed(err)
	}
	q.ID = id

	if s.events != nil {
		evt := models.QuerySubmittedEvent{
			QueryID:     q.QueryID,
			QueryType:   q.QueryType,
			Urgency:     q.Urgency,
			FileCount:   len(names),
			SubmittedAt: at,
		}
		if err := s.events.PublishQuerySubmitted(ctx, evt); err != nil {
			log.Warn().Err(err).Msg("failed to publish query event")
		}
	}

	log.Info().
		Str("query_type", q.QueryType).
		Str("urgency", q.Urgency).
		Int("files", len(names)).
		Msg("query submitted")

	return q, nil
}

// discard removes attachments of a submission that was not saved
func (s *QueryService) discard(ctx context.Context, log *logger.Logger, keys []string) {
	for _, key := range keys {
		if err := s.files.Delete(context.WithoutCancel(ctx), key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to remove orphaned attachment")
		}
	}
}

// List returns every query in insertion order
func (s *QueryService) List(ctx context.Context) ([]models.PropertyQuery, error) {
	qs, err := s.repo.LoadAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load queries")
		return nil, models.NewStorageFailed(err)
	}
	return qs, nil
}

// Get returns one query by its QRY_ id
func (s *QueryService) Get(ctx context.Context, queryID string) (*models.PropertyQuery, error) {
	q, err := s.repo.FindByQueryID(ctx, queryID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewNotFound("query " + queryID)
		}
		s.logger.Error().Err(err).Str("query_id", queryID).Msg("failed to load query")
		return nil, models.NewStorageFailed(err)
	}
	return q, nil
}

// UpdateStatus moves a query to a new status
func (s *QueryService) UpdateStatus(ctx context.Context, queryID string, status models.QueryStatus) error {
	if !status.Valid() {
		return models.NewValidationFailed([]string{"status must be one of: Pending, In Progress, Resolved, Closed"})
	}
	if err := s.repo.UpdateStatus(ctx, queryID, status); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.NewNotFound("query " + queryID)
		}
		s.logger.Error().Err(err).Str("query_id", queryID).Msg("failed to update query status")
		return models.NewStorageFailed(err)
	}
	s.logger.Info().Str("query_id", queryID).Str("status", string(status)).Msg("query status updated")
	return nil
}

// cleanFilename strips directories and the comma used to join the files column
func cleanFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, ",", "_")
	if name == "." || name == "/" || name == "" {
		return "attachment"
	}
	return name
}

func consent(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
