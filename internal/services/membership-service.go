package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/dteaa/membership_service/internal/domain"
	"github.com/dteaa/membership_service/internal/dto"
	"github.com/dteaa/membership_service/internal/interfaces"
	"github.com/dteaa/membership_service/internal/logger"
	"github.com/dteaa/membership_service/internal/repository"
	"github.com/dteaa/membership_service/internal/wizard"
)

var (
	ErrWizardNotStarted  = errors.New("wizard has not been started")
	ErrAlreadyRegistered = errors.New("a registration already exists for this account")
	ErrNoProfile         = errors.New("no registered profile for this account")
	ErrExternal          = errors.New("external service failure")
	ErrInvalidImage      = errors.New("image must be a JPEG, PNG or WebP file")
	ErrCommentsRequired  = errors.New("rejection comments are required")
)

// AlertError is an external failure with a message fit to show the member.
type AlertError struct {
	Message string
	Err     error
}

func (e *AlertError) Error() string { return e.Message }
func (e *AlertError) Unwrap() error { return e.Err }

func alert(msg string, err error) error {
	return &AlertError{Message: msg, Err: fmt.Errorf("%w: %w", ErrExternal, err)}
}

// SessionStore keeps wizard sessions and recovery drafts.
type SessionStore interface {
	wizard.DraftSaver
	LoadSession(ctx context.Context, mode wizard.Mode, userID string) (*wizard.Session, error)
	SaveSession(ctx context.Context, session *wizard.Session) error
	DeleteSession(ctx context.Context, mode wizard.Mode, userID string) error
	LoadDraft(ctx context.Context, mode wizard.Mode, userID string) *wizard.FormState
	DeleteDraft(ctx context.Context, mode wizard.Mode, userID string) error
}

type Buckets struct {
	Receipts string
	Photos   string
}

type MembershipService interface {
	// Wizard
	StartWizard(ctx context.Context, user dto.CurrentSession, mode wizard.Mode) (*wizard.Session, error)
	GetWizard(ctx context.Context, user dto.CurrentSession, mode wizard.Mode) (*wizard.Session, error)
	SetField(ctx context.Context, user dto.CurrentSession, mode wizard.Mode, field, value string) (*wizard.Session, error)
	Next(ctx context.Context, user dto.CurrentSession, mode wizard.Mode) (*wizard.Session, bool, error)
	Previous(ctx context.Context, user dto.CurrentSession, mode wizard.Mode) (*wizard.Session, error)
	JumpTo(ctx context.Context, user dto.CurrentSession, mode wizard.Mode, step int) (*wizard.Session, error)
	AddEmployee(ctx context.Context, user dto.CurrentSession, mode wizard.Mode, entry wizard.EmployeeEntry) (*wizard.Session, error)
	UpdateEmployee(ctx context.Context, user dto.CurrentSession, mode wizard.Mode, id int64, entry wizard.EmployeeEntry) (*wizard.Session, error)
	RemoveEmployee(ctx context.Context, user dto.CurrentSession, mode wizard.Mode, id int64) (*wizard.Session, error)
	AddEntrepreneur(ctx context.Context, user dto.CurrentSession, mode wizard.Mode, entry wizard.EntrepreneurEntry) (*wizard.Session, error)
	UpdateEntrepreneur(ctx context.Context, user dto.CurrentSession, mode wizard.Mode, id int64, entry wizard.EntrepreneurEntry) (*wizard.Session, error)
	RemoveEntrepreneur(ctx context.Context, user dto.CurrentSession, mode wizard.Mode, id int64) (*wizard.Session, error)
	SetOpenToWork(ctx context.Context, user dto.CurrentSession, mode wizard.Mode, open bool, details *wizard.OpenToWorkDetails) (*wizard.Session, error)
	SetProfilePhoto(ctx context.Context, user dto.CurrentSession, mode wizard.Mode, photo *wizard.Attachment) (*wizard.Session, error)
	SetReceipt(ctx context.Context, user dto.CurrentSession, receipt *wizard.Attachment) (*wizard.Session, error)
	Submit(ctx context.Context, user dto.CurrentSession, mode wizard.Mode) (*dto.SubmitResponse, *wizard.Session, error)

	// Profile
	GetMyProfile(ctx context.Context, userID string) (*dto.ProfileResponse, error)
	GetCard(ctx context.Context, userID string) (*dto.CardResponse, error)
	Directory(ctx context.Context, filter repository.DirectoryFilter) ([]dto.DirectoryEntry, error)

	// Admin
	IsAdmin(ctx context.Context, userID string) (bool, error)
	ListPending(ctx context.Context, limit, offset int) ([]dto.PendingProfileResponse, error)
	VerifyProfile(ctx context.Context, adminID, userID string) error
	RejectProfile(ctx context.Context, adminID, userID, comments string) error
	ListReviews(ctx context.Context, userID string) ([]domain.ReviewLog, error)
}

type Option func(*membershipService)

// WithAlumniIDGenerator replaces the random suffix generator.
func WithAlumniIDGenerator(gen func(year string) string) Option {
	return func(s *membershipService) { s.newAlumniID = gen }
}

func WithClock(now func() time.Time) Option {
	return func(s *membershipService) { s.now = now }
}

type membershipService struct {
	repo      repository.ProfileRepository
	adminRepo repository.AdminRepository
	sessions  SessionStore
	store     interfaces.ObjectStore
	producer  interfaces.ProducerHandler
	validator *wizard.Validator
	buckets   Buckets
	log       logger.Logger

	newAlumniID func(year string) string
	now         func() time.Time
}

func NewMembershipService(
	repo repository.ProfileRepository,
	adminRepo repository.AdminRepository,
	sessions SessionStore,
	store interfaces.ObjectStore,
	producer interfaces.ProducerHandler,
	validator *wizard.Validator,
	buckets Buckets,
	log logger.Logger,
	opts ...Option,
) MembershipService {
	s := &membershipService{
		repo:        repo,
		adminRepo:   adminRepo,
		sessions:    sessions,
		store:       store,
		producer:    producer,
		validator:   validator,
		buckets:     buckets,
		log:         log,
		newAlumniID: randomAlumniID,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func randomAlumniID(year string) string {
	return fmt.Sprintf("DTEAA-%s-%04d", year, rand.Intn(10000))
}

// publish is best-effort; a broker outage never fails the member's request.
func (s *membershipService) publish(eventType, userID, email, firstName, alumniID, comments string) {
	if s.producer == nil {
		return
	}
	event := dto.ProfileEvent{
		Type:       eventType,
		UserID:     userID,
		Email:      email,
		FirstName:  firstName,
		AlumniID:   alumniID,
		Comments:   comments,
		OccurredAt: s.now().UTC().Format(time.RFC3339),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.log.Error("encode event", map[string]interface{}{"type": eventType, "error": err})
		return
	}
	if err := s.producer.PublishMessage([]byte(userID), payload); err != nil {
		s.log.Warn("publish event failed", map[string]interface{}{"type": eventType, "user_id": userID, "error": err})
	}
}
