package editing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"coursehub-backend/domain/core/entities"
	"coursehub-backend/domain/core/validators"
	"coursehub-backend/domain/core/valueobjects"
	apperrors "coursehub-backend/pkg/errors"
	"coursehub-backend/pkg/observability"
)

// SessionState tracks unsaved work in an editing session
type SessionState int

const (
	StateClean SessionState = iota
	StateDirty
	StateSaving
)

// String returns the state name
func (s SessionState) String() string {
	switch s {
	case StateClean:
		return "clean"
	case StateDirty:
		return "dirty"
	case StateSaving:
		return "saving"
	}
	return fmt.Sprintf("SessionState(%d)", int(s))
}

// SessionConfig carries the session tunables
type SessionConfig struct {
	AutoSaveIdle    time.Duration // idle time before an auto-save fires
	SaveErrorWindow time.Duration // how long a transient save error stays visible
	SaveTimeout     time.Duration // deadline for background persistence calls
}

// Session manages one content item being edited: a working draft, a
// clean/dirty/saving state machine, an idle-triggered auto-save, and the
// explicit save/publish/schedule/delete operations. Persistence calls
// are serialized through saveMu, so a manual save issued while an
// auto-save is in flight waits for it instead of racing it.
type Session struct {
	mu     sync.Mutex
	saveMu sync.Mutex

	draft   *entities.ContentDraft
	state   SessionState
	actor   string
	editSeq uint64
	saveErr string

	fields    *validators.FieldValidator
	publisher *validators.PublishValidator
	persister Persister

	cfg       SessionConfig
	idleTimer *time.Timer

	logger  *zap.Logger
	metrics *observability.Metrics
	now     func() time.Time
}

// NewSession opens a session over a draft. The actor is recorded as the
// author of every write the session makes.
func NewSession(draft *entities.ContentDraft, actor string, persister Persister, cfg SessionConfig, logger *zap.Logger, metrics *observability.Metrics) *Session {
	if cfg.AutoSaveIdle <= 0 {
		cfg.AutoSaveIdle = 3 * time.Second
	}
	if cfg.SaveErrorWindow <= 0 {
		cfg.SaveErrorWindow = 3 * time.Second
	}
	if cfg.SaveTimeout <= 0 {
		cfg.SaveTimeout = 10 * time.Second
	}

	return &Session{
		draft:     draft,
		state:     StateClean,
		actor:     actor,
		fields:    validators.NewFieldValidator(),
		publisher: validators.NewPublishValidator(),
		persister: persister,
		cfg:       cfg,
		logger:    logger,
		metrics:   metrics,
		now:       time.Now,
	}
}

// Draft returns a copy of the current working draft
func (s *Session) Draft() entities.ContentDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.draft
}

// State returns the session's current state
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SaveError returns the transient save-error message, empty when none is
// active
func (s *Session) SaveError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveErr
}

// UpdateField applies one field edit, marks the session dirty, and
// restarts the idle auto-save timer. Editing the title regenerates the
// slug. Unknown field names are rejected.
func (s *Session) UpdateField(field string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := applyField(s.draft, field, value); err != nil {
		return err
	}
	if field == "title" {
		s.draft.Slug = valueobjects.GenerateSlug(s.draft.Title).String()
	}

	s.state = StateDirty
	s.editSeq++
	s.restartIdleTimer()

	return nil
}

// restartIdleTimer cancels and re-arms the auto-save timer. Caller holds
// s.mu. Cancel-and-restart on every edit means the save fires once,
// after the last edit of a burst.
func (s *Session) restartIdleTimer() {
	if s.idleTimer != nil {
		s.idleTimer.Stop()
	}
	s.idleTimer = time.AfterFunc(s.cfg.AutoSaveIdle, s.autoSave)
}

// autoSave persists the draft in the background if it is still dirty and
// already exists on the backend. New items are never auto-created; the
// user decides when a draft becomes real.
func (s *Session) autoSave() {
	s.mu.Lock()
	if s.state != StateDirty || s.draft.IsNew() {
		s.mu.Unlock()
		return
	}
	if s.fields.Validate(s.draft).HasErrors() {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.SaveTimeout)
	defer cancel()

	if err := s.persist(ctx, "auto"); err != nil {
		s.logger.Warn("auto-save failed", zap.String("id", s.Draft().ID), zap.Error(err))
	}
}

// Validate runs the field-level rules against the current draft
func (s *Session) Validate() validators.FieldErrors {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fields.Validate(s.draft)
}

// ValidateForPublish runs the graded publishing checks
func (s *Session) ValidateForPublish() *validators.PublishReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.publisher.Validate(s.draft)
}

// SaveDraft persists the draft explicitly, preserving its current status
func (s *Session) SaveDraft(ctx context.Context) error {
	if errs := s.Validate(); errs.HasErrors() {
		return validationError(errs)
	}
	return s.persist(ctx, "manual")
}

// PublishNow publishes the item. New items pass field validation only;
// existing items go through the graded publishing workflow and are
// blocked while any issue remains.
func (s *Session) PublishNow(ctx context.Context) error {
	if errs := s.Validate(); errs.HasErrors() {
		return validationError(errs)
	}

	s.mu.Lock()
	if !s.draft.IsNew() {
		report := s.publisher.Validate(s.draft)
		if !report.CanPublish {
			s.mu.Unlock()
			return apperrors.NewValidationError("content has blocking publishing issues").
				WithDetails(map[string]interface{}{"issues": report.Issues})
		}
	}
	prevStatus, prevScheduled := s.draft.Status, s.draft.ScheduledAt
	s.draft.Status = valueobjects.StatusPublished
	s.draft.ScheduledAt = nil
	s.state = StateDirty
	s.mu.Unlock()

	if err := s.persist(ctx, "publish"); err != nil {
		// A failed publish must not leave the flipped status on the
		// draft, or the next auto-save would complete it silently
		s.revertStatus(prevStatus, prevScheduled)
		return err
	}
	return nil
}

// SchedulePublish queues publication for a future time. A time not
// strictly in the future is rejected before any backend write.
func (s *Session) SchedulePublish(ctx context.Context, at time.Time) error {
	if !at.After(s.now()) {
		return apperrors.NewFieldValidationError("scheduled_at", "scheduled publish time must be in the future")
	}
	if errs := s.Validate(); errs.HasErrors() {
		return validationError(errs)
	}

	s.mu.Lock()
	if !s.draft.IsNew() {
		report := s.publisher.Validate(s.draft)
		if !report.CanPublish {
			s.mu.Unlock()
			return apperrors.NewValidationError("content has blocking publishing issues").
				WithDetails(map[string]interface{}{"issues": report.Issues})
		}
	}
	prevStatus, prevScheduled := s.draft.Status, s.draft.ScheduledAt
	s.draft.Status = valueobjects.StatusScheduled
	s.draft.ScheduledAt = &at
	s.state = StateDirty
	s.mu.Unlock()

	if err := s.persist(ctx, "schedule"); err != nil {
		s.revertStatus(prevStatus, prevScheduled)
		return err
	}
	return nil
}

// revertStatus undoes a status flip after a failed publish or schedule
// write. Field edits stay as they are; only the lifecycle state rolls
// back, so a later auto-save stays draft-preserving.
func (s *Session) revertStatus(status valueobjects.PublishStatus, scheduledAt *time.Time) {
	s.mu.Lock()
	s.draft.Status = status
	s.draft.ScheduledAt = scheduledAt
	s.mu.Unlock()
}

// DeleteContent removes the item from the backend. The persister runs
// the cache cascade; the session stops auto-saving.
func (s *Session) DeleteContent(ctx context.Context) error {
	s.mu.Lock()
	if s.draft.IsNew() {
		s.mu.Unlock()
		return apperrors.NewValidationError("cannot delete unsaved content")
	}
	kind, id := s.draft.Kind, s.draft.ID
	if s.idleTimer != nil {
		s.idleTimer.Stop()
	}
	s.mu.Unlock()

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	return s.persister.Delete(ctx, kind, id)
}

// ListVersions returns the item's stored version history, newest first
func (s *Session) ListVersions(ctx context.Context) ([]entities.LessonVersion, error) {
	s.mu.Lock()
	id := s.draft.ID
	s.mu.Unlock()

	if id == "" {
		return nil, apperrors.NewValidationError("unsaved content has no version history")
	}
	return s.persister.ListVersions(ctx, id)
}

// RestoreVersion applies a stored snapshot's fields as a new update
// through the normal save path, which first snapshots the current state.
// Restoring never overwrites history; it extends it.
func (s *Session) RestoreVersion(ctx context.Context, number int) error {
	s.mu.Lock()
	id := s.draft.ID
	s.mu.Unlock()

	if id == "" {
		return apperrors.NewValidationError("unsaved content has no version history")
	}

	version, err := s.persister.GetVersion(ctx, id, number)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.draft.Title = version.Title
	s.draft.Body = version.Body
	s.draft.Description = version.Description
	s.state = StateDirty
	s.mu.Unlock()

	return s.persist(ctx, "manual")
}

// Close stops the session's timers
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.idleTimer != nil {
		s.idleTimer.Stop()
	}
}

// persist is the single write path. saveMu keeps at most one write in
// flight per session. On failure the session stays dirty so the edits
// survive for a retry, and a transient error flag is raised and cleared
// after the display window.
func (s *Session) persist(ctx context.Context, trigger string) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	draftCopy := *s.draft
	seqAtSave := s.editSeq
	s.state = StateSaving
	s.mu.Unlock()

	saved, err := s.persister.Save(ctx, &draftCopy, s.actor)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.state = StateDirty
		s.saveErr = err.Error()
		time.AfterFunc(s.cfg.SaveErrorWindow, s.clearSaveError)
		return err
	}

	s.metrics.SavesTotal.WithLabelValues(draftCopy.Kind.String(), trigger).Inc()

	// Edits that arrived while the write was in flight keep the session
	// dirty; only identity and version state is adopted from the result.
	if s.editSeq == seqAtSave {
		s.draft = saved
		s.state = StateClean
	} else {
		s.draft.ID = saved.ID
		s.draft.Version = saved.Version
		s.state = StateDirty
	}
	s.saveErr = ""

	return nil
}

func (s *Session) clearSaveError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = ""
}

func validationError(errs validators.FieldErrors) error {
	details := make(map[string]interface{}, len(errs))
	for field, msg := range errs {
		details[field] = msg
	}
	return apperrors.NewValidationError("validation failed").WithDetails(details)
}

// applyField routes a field edit onto the draft
func applyField(d *entities.ContentDraft, field string, value interface{}) error {
	switch field {
	case "title":
		return setString(&d.Title, field, value)
	case "slug":
		return setString(&d.Slug, field, value)
	case "description":
		return setString(&d.Description, field, value)
	case "body":
		return setString(&d.Body, field, value)
	case "subtitle":
		return setString(&d.Subtitle, field, value)
	case "difficulty":
		return setString(&d.Difficulty, field, value)
	case "video_url":
		return setString(&d.VideoURL, field, value)
	case "featured_image_url":
		return setString(&d.FeaturedImageURL, field, value)
	case "alt_text":
		return setString(&d.AltText, field, value)
	case "color":
		return setString(&d.Color, field, value)
	case "icon_name":
		return setString(&d.IconName, field, value)
	case "order_index":
		return setInt(&d.OrderIndex, field, value)
	case "estimated_duration":
		return setInt(&d.EstimatedDuration, field, value)
	case "learning_objectives":
		return setStrings(&d.LearningObjectives, field, value)
	case "prerequisites":
		return setStrings(&d.Prerequisites, field, value)
	case "tags":
		return setStrings(&d.Tags, field, value)
	default:
		return apperrors.NewFieldValidationError(field, "unknown field")
	}
}

func setString(dst *string, field string, value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return apperrors.NewFieldValidationError(field, "expected a string value")
	}
	*dst = s
	return nil
}

func setInt(dst *int, field string, value interface{}) error {
	switch v := value.(type) {
	case int:
		*dst = v
	case float64: // JSON numbers decode as float64
		*dst = int(v)
	default:
		return apperrors.NewFieldValidationError(field, "expected a numeric value")
	}
	return nil
}

func setStrings(dst *[]string, field string, value interface{}) error {
	switch v := value.(type) {
	case []string:
		*dst = v
	case []interface{}:
		items := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return apperrors.NewFieldValidationError(field, "expected a list of strings")
			}
			items = append(items, s)
		}
		*dst = items
	default:
		return apperrors.NewFieldValidationError(field, "expected a list of strings")
	}
	return nil
}
