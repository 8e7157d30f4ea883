package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legal-literacy-portal/internal/domain/models"
	"legal-literacy-portal/pkg/logger"
)

type memRepo struct {
	mu      sync.Mutex
	queries []models.PropertyQuery
	err     error
}

func (r *memRepo) Save(ctx context.Context, q *models.PropertyQuery) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	r.queries = append(r.queries, *q)
	return int64(len(r.queries)), nil
}

func (r *memRepo) LoadAll(ctx context.Context) ([]models.PropertyQuery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.PropertyQuery(nil), r.queries...), r.err
}

func (r *memRepo) UpdateStatus(ctx context.Context, queryID string, status models.QueryStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.queries {
		if r.queries[i].QueryID == queryID {
			r.queries[i].Status = status
			return nil
		}
	}
	return models.ErrNotFound
}

func (r *memRepo) FindByQueryID(ctx context.Context, queryID string) (*models.PropertyQuery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for i := range r.queries {
		if r.queries[i].QueryID == queryID {
			q := r.queries[i]
			return &q, nil
		}
	}
	return nil, models.ErrNotFound
}

type memFiles struct {
	objects map[string][]byte
	err     error
	// failAfter makes every Put after the first n fail with err
	failAfter int
	puts      int
}

func (f *memFiles) Put(ctx context.Context, key string, data []byte) (string, error) {
	f.puts++
	if f.err != nil && f.puts > f.failAfter {
		return "", f.err
	}
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[key] = data
	return key, nil
}

func (f *memFiles) Delete(ctx context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

type memEvents struct {
	events []models.QuerySubmittedEvent
	err    error
}

func (e *memEvents) PublishQuerySubmitted(ctx context.Context, evt models.QuerySubmittedEvent) error {
	e.events = append(e.events, evt)
	return e.err
}

type sizePolicy struct{ limit int64 }

func (p sizePolicy) Check(filename string, size int64) error {
	if size > p.limit {
		return models.NewInputTooLarge(size, p.limit)
	}
	return nil
}

func validQuery() models.QueryInput {
	return models.QueryInput{
		Name:             " Lindiwe Khumalo ",
		Email:            "lindiwe@example.org",
		Phone:            "082 123 4567",
		QueryType:        "title_deed",
		Urgency:          "high",
		Description:      "My late father's house is still in his name.",
		MarketingConsent: true,
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestQueryIDGenerator_NeverRepeats(t *testing.T) {
	g := NewQueryIDGenerator()
	g.now = fixedClock(time.Date(2025, 3, 14, 9, 30, 0, 500, time.UTC))

	id1, _ := g.Next()
	id2, at2 := g.Next()
	id3, _ := g.Next()

	assert.Equal(t, "QRY_20250314093000", id1)
	assert.Equal(t, "QRY_20250314093001", id2)
	assert.Equal(t, "QRY_20250314093002", id3)
	assert.Equal(t, 1, at2.Second())

	g.now = fixedClock(time.Date(2025, 3, 14, 9, 31, 0, 0, time.UTC))
	id4, _ := g.Next()
	assert.Equal(t, "QRY_20250314093100", id4)
}

func TestQueryService_Submit(t *testing.T) {
	repo := &memRepo{}
	files := &memFiles{}
	events := &memEvents{}
	svc := NewQueryService(repo, files, events, sizePolicy{limit: 1024}, logger.NewNop())
	svc.ids.now = fixedClock(time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC))

	q, err := svc.Submit(context.Background(), validQuery(), []models.Attachment{
		{Filename: "deed.pdf", Data: []byte("%PDF")},
		{Filename: "../id, copy.jpg", Data: []byte("jpg")},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), q.ID)
	assert.Equal(t, "QRY_20250314093000", q.QueryID)
	assert.Equal(t, "2025-03-14 09:30:00", q.Timestamp)
	assert.Equal(t, "Lindiwe Khumalo", q.Name)
	assert.Equal(t, "deed.pdf,id_ copy.jpg", q.Files)
	assert.Equal(t, "Yes", q.MarketingConsent)
	assert.Equal(t, models.QueryStatusPending, q.Status)

	assert.Contains(t, files.objects, "QRY_20250314093000/deed.pdf")
	assert.Contains(t, files.objects, "QRY_20250314093000/id_ copy.jpg")
	require.Len(t, events.events, 1)
	assert.Equal(t, 2, events.events[0].FileCount)
	require.Len(t, repo.queries, 1)
}

func TestQueryService_SubmitValidation(t *testing.T) {
	repo := &memRepo{}
	svc := NewQueryService(repo, nil, nil, nil, logger.NewNop())

	_, err := svc.Submit(context.Background(), models.QueryInput{
		Email:     "not-an-email",
		QueryType: "boundary",
		Urgency:   "low",
	}, nil)

	var pe *models.PortalError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, models.KindValidationFailed, pe.Kind)
	assert.Equal(t, []string{
		"name is required",
		"email must be a valid email address",
		"phone is required",
		"query_type must be one of: purchase sale rental eviction title_deed inheritance dispute other",
		"description is required",
	}, pe.Fields)
	assert.Empty(t, repo.queries)
}

func TestQueryService_AttachmentTooLarge(t *testing.T) {
	repo := &memRepo{}
	files := &memFiles{}
	svc := NewQueryService(repo, files, nil, sizePolicy{limit: 2}, logger.NewNop())

	_, err := svc.Submit(context.Background(), validQuery(), []models.Attachment{{Filename: "a.txt", Data: []byte("too big")}})
	assert.Equal(t, models.KindInputTooLarge, models.KindOf(err))
	assert.Empty(t, repo.queries)
	assert.Empty(t, files.objects)
}

func TestQueryService_StorageFailures(t *testing.T) {
	t.Run("repository", func(t *testing.T) {
		svc := NewQueryService(&memRepo{err: errors.New("disk full")}, nil, nil, nil, logger.NewNop())
		_, err := svc.Submit(context.Background(), validQuery(), nil)
		assert.Equal(t, models.KindStorageFailed, models.KindOf(err))
	})

	t.Run("attachments", func(t *testing.T) {
		repo := &memRepo{}
		svc := NewQueryService(repo, &memFiles{err: errors.New("bucket gone")}, nil, nil, logger.NewNop())
		_, err := svc.Submit(context.Background(), validQuery(), []models.Attachment{{Filename: "a.txt", Data: []byte("x")}})
		assert.Equal(t, models.KindStorageFailed, models.KindOf(err))
		assert.Empty(t, repo.queries)
	})

	t.Run("repository failure removes stored attachments", func(t *testing.T) {
		files := &memFiles{}
		svc := NewQueryService(&memRepo{err: errors.New("disk full")}, files, nil, nil, logger.NewNop())
		_, err := svc.Submit(context.Background(), validQuery(), []models.Attachment{
			{Filename: "deed.pdf", Data: []byte("%PDF")},
			{Filename: "id.jpg", Data: []byte("jpg")},
		})
		assert.Equal(t, models.KindStorageFailed, models.KindOf(err))
		assert.Equal(t, 2, files.puts)
		assert.Empty(t, files.objects)
	})

	t.Run("partial attachment failure removes earlier attachments", func(t *testing.T) {
		repo := &memRepo{}
		files := &memFiles{err: errors.New("bucket gone"), failAfter: 1}
		svc := NewQueryService(repo, files, nil, nil, logger.NewNop())
		_, err := svc.Submit(context.Background(), validQuery(), []models.Attachment{
			{Filename: "deed.pdf", Data: []byte("%PDF")},
			{Filename: "id.jpg", Data: []byte("jpg")},
		})
		assert.Equal(t, models.KindStorageFailed, models.KindOf(err))
		assert.Empty(t, files.objects)
		assert.Empty(t, repo.queries)
	})

	t.Run("publish failure is not fatal", func(t *testing.T) {
		repo := &memRepo{}
		svc := NewQueryService(repo, nil, &memEvents{err: errors.New("nats down")}, nil, logger.NewNop())
		q, err := svc.Submit(context.Background(), validQuery(), nil)
		require.NoError(t, err)
		assert.Equal(t, "", q.Files)
		assert.Len(t, repo.queries, 1)
	})
}

func TestQueryService_ListAndUpdateStatus(t *testing.T) {
	repo := &memRepo{}
	svc := NewQueryService(repo, nil, nil, nil, logger.NewNop())
	ctx := context.Background()

	first, err := svc.Submit(ctx, validQuery(), nil)
	require.NoError(t, err)
	in := validQuery()
	in.MarketingConsent = false
	second, err := svc.Submit(ctx, in, nil)
	require.NoError(t, err)
	assert.NotEqual(t, first.QueryID, second.QueryID)
	assert.Equal(t, "No", second.MarketingConsent)

	require.NoError(t, svc.UpdateStatus(ctx, first.QueryID, models.QueryStatusResolved))

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.QueryID, all[0].QueryID)
	assert.Equal(t, models.QueryStatusResolved, all[0].Status)
	assert.Equal(t, models.QueryStatusPending, all[1].Status)

	assert.Equal(t, models.KindNotFound, models.KindOf(svc.UpdateStatus(ctx, "QRY_missing", models.QueryStatusClosed)))
	assert.Equal(t, models.KindValidationFailed, models.KindOf(svc.UpdateStatus(ctx, first.QueryID, "Archived")))
}

func TestQueryService_Get(t *testing.T) {
	repo := &memRepo{}
	svc := NewQueryService(repo, nil, nil, nil, logger.NewNop())
	ctx := context.Background()

	stored, err := svc.Submit(ctx, validQuery(), nil)
	require.NoError(t, err)

	got, err := svc.Get(ctx, stored.QueryID)
	require.NoError(t, err)
	assert.Equal(t, stored.QueryID, got.QueryID)
	assert.Equal(t, "Lindiwe Khumalo", got.Name)

	_, err = svc.Get(ctx, "QRY_19990101000000")
	assert.Equal(t, models.KindNotFound, models.KindOf(err))

	repo.err = errors.New("database locked")
	_, err = svc.Get(ctx, stored.QueryID)
	assert.Equal(t, models.KindStorageFailed, models.KindOf(err))
}
