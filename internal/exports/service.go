package exports

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/pharmacare/pharmacy-web/internal/shared"
	"github.com/pharmacare/pharmacy-web/jobs"
	"github.com/pharmacare/pharmacy-web/report"
)

// Queue accepts export tasks. *jobs.Client satisfies it.
type Queue interface {
	EnqueueReportExport(ctx context.Context, payload jobs.ReportExportPayload) (*asynq.TaskInfo, error)
}

// Request is a user's ask for one export.
type Request struct {
	Resource    string `form:"resource" label:"Report" validate:"required"`
	Format      string `form:"format" label:"Format" validate:"required,oneof=pdf csv xlsx"`
	Search      string `form:"q"`
	Tab         string `form:"tab"`
	Sort        string `form:"sort"`
	Status      string `form:"status"`
	Type        string `form:"type"`
	SessionID   string `form:"-"`
	Token       string `form:"-"`
	GeneratedBy string `form:"-"`
}

func (r Request) filters() map[string]string {
	out := map[string]string{}
	for k, v := range map[string]string{"q": r.Search, "tab": r.Tab, "sort": r.Sort, "status": r.Status, "type": r.Type} {
		if v = strings.TrimSpace(v); v != "" {
			out[k] = v
		}
	}
	return out
}

// Service records export requests and hands them to the queue. Without a
// queue the export is rendered inline by job.
type Service struct {
	registry  *Registry
	store     *Store
	queue     Queue
	job       *Job
	validator *shared.Validator
	now       func() time.Time
	newID     func() string
}

// NewService constructs a Service.
func NewService(registry *Registry, store *Store, queue Queue, job *Job, validator *shared.Validator) *Service {
	if validator == nil {
		validator = shared.NewValidator()
	}
	return &Service{
		registry:  registry,
		store:     store,
		queue:     queue,
		job:       job,
		validator: validator,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Resources lists what can be exported.
func (s *Service) Resources() []Resource {
	return s.registry.Resources()
}

// Submit validates req, stores a pending result and queues the export.
func (s *Service) Submit(ctx context.Context, req Request) (Result, error) {
	req.Format = strings.ToLower(strings.TrimSpace(req.Format))
	req.Resource = strings.ToLower(strings.TrimSpace(req.Resource))
	if err := s.validator.Struct(req); err != nil {
		return Result{}, err
	}
	if !s.registry.Has(req.Resource) {
		return Result{}, shared.FieldErrors{"resource": "Report must be one of the listed reports"}
	}

	now := s.now().UTC()
	res := Result{
		ID:        s.newID(),
		SessionID: req.SessionID,
		Resource:  req.Resource,
		Format:    req.Format,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Save(ctx, res); err != nil {
		return Result{}, err
	}

	payload := jobs.ReportExportPayload{
		JobID:       res.ID,
		SessionID:   req.SessionID,
		Resource:    req.Resource,
		Format:      req.Format,
		Filters:     req.filters(),
		Token:       req.Token,
		GeneratedBy: req.GeneratedBy,
	}
	if s.queue == nil {
		err := s.job.Run(ctx, &res, payload)
		if saveErr := s.store.Save(ctx, res); saveErr != nil {
			return Result{}, saveErr
		}
		if err != nil && res.Status != StatusFailed {
			return Result{}, err
		}
		return res, nil
	}
	if _, err := s.queue.EnqueueReportExport(ctx, payload); err != nil {
		res.Status = StatusFailed
		res.Error = "Could not queue the export. Please try again."
		_ = s.store.Save(ctx, res)
		return Result{}, fmt.Errorf("exports: enqueue: %w", err)
	}
	return res, nil
}

// Fetch returns the result for id when it belongs to sessionID.
func (s *Service) Fetch(ctx context.Context, id, sessionID string) (Result, error) {
	if strings.TrimSpace(id) == "" {
		return Result{}, ErrNotFound
	}
	res, err := s.store.Load(ctx, id)
	if err != nil {
		return Result{}, err
	}
	if res.SessionID != sessionID {
		return Result{}, ErrNotFound
	}
	return res, nil
}

// ContentType returns the MIME type of a finished result.
func (r Result) ContentType() string {
	return report.ContentType(r.Format)
}
