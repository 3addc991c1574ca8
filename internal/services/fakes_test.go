package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dteaa/membership_service/internal/domain"
	"github.com/dteaa/membership_service/internal/dto"
	"github.com/dteaa/membership_service/internal/logger"
	"github.com/dteaa/membership_service/internal/repository"
	"github.com/dteaa/membership_service/internal/wizard"
)

var testNow = time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)

type fakeProfileRepo struct {
	mu        sync.Mutex
	profiles  map[string]*domain.Profile
	insertErr []error
	writeErr  error
	findErr   error

	inserted   []*domain.Profile
	resubmits  []*domain.Profile
	replaced   []*domain.Profile
	verified   []string
	rejected   map[string]string
	directory  []domain.Profile
	lastFilter repository.DirectoryFilter
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[string]*domain.Profile{}, rejected: map[string]string{}}
}

func (f *fakeProfileRepo) Insert(_ context.Context, p *domain.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserted = append(f.inserted, p)
	if len(f.insertErr) > 0 {
		err := f.insertErr[0]
		f.insertErr = f.insertErr[1:]
		if err != nil {
			return err
		}
	}
	f.profiles[p.ID] = p
	return nil
}

func (f *fakeProfileRepo) Resubmit(_ context.Context, p *domain.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resubmits = append(f.resubmits, p)
	if f.writeErr != nil {
		return f.writeErr
	}
	f.profiles[p.ID] = p
	return nil
}

func (f *fakeProfileRepo) ReplaceSections(_ context.Context, p *domain.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replaced = append(f.replaced, p)
	return f.writeErr
}

func (f *fakeProfileRepo) FindByID(_ context.Context, id string) (*domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	p, ok := f.profiles[id]
	if !ok {
		return nil, repository.ErrProfileNotFound
	}
	return p, nil
}

func (f *fakeProfileRepo) ListByStatus(_ context.Context, status domain.ProfileStatus, _, _ int) ([]domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Profile
	for _, p := range f.profiles {
		if p.Status == status {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProfileRepo) ListDirectory(_ context.Context, filter repository.DirectoryFilter) ([]domain.Profile, error) {
	f.lastFilter = filter
	return f.directory, nil
}

func (f *fakeProfileRepo) Verify(_ context.Context, id, _ string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[id]
	if !ok {
		return repository.ErrProfileNotFound
	}
	if p.Status != domain.ProfileStatusPending {
		return repository.ErrNotPending
	}
	p.Status = domain.ProfileStatusVerified
	p.VerifiedAt = &at
	f.verified = append(f.verified, id)
	return nil
}

func (f *fakeProfileRepo) Reject(_ context.Context, id, _ string, comments string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[id]
	if !ok {
		return repository.ErrProfileNotFound
	}
	if p.Status != domain.ProfileStatusPending {
		return repository.ErrNotPending
	}
	p.Status = domain.ProfileStatusRejected
	p.RejectionComments = &comments
	f.rejected[id] = comments
	return nil
}

type fakeAdminRepo struct {
	admins  map[string]bool
	reviews map[string][]domain.ReviewLog
}

func (f *fakeAdminRepo) IsAdmin(_ context.Context, userID string) (bool, error) {
	return f.admins[userID], nil
}

func (f *fakeAdminRepo) Seed(_ context.Context, userIDs []string) error {
	for _, id := range userIDs {
		f.admins[id] = true
	}
	return nil
}

func (f *fakeAdminRepo) ListReviews(_ context.Context, profileID string) ([]domain.ReviewLog, error) {
	return f.reviews[profileID], nil
}

type fakeSessionStore struct {
	sessions map[string]*wizard.Session
	drafts   map[string]*wizard.FormState
	saveErr  error

	savedDrafts    int
	deletedSession []string
	deletedDraft   []string
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]*wizard.Session{}, drafts: map[string]*wizard.FormState{}}
}

func storeKey(mode wizard.Mode, userID string) string { return string(mode) + ":" + userID }

func (f *fakeSessionStore) SaveDraft(_ context.Context, mode wizard.Mode, userID string, state *wizard.FormState) error {
	f.savedDrafts++
	cp := *state
	f.drafts[storeKey(mode, userID)] = &cp
	return nil
}

func (f *fakeSessionStore) LoadSession(_ context.Context, mode wizard.Mode, userID string) (*wizard.Session, error) {
	return f.sessions[storeKey(mode, userID)], nil
}

func (f *fakeSessionStore) SaveSession(_ context.Context, s *wizard.Session) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.sessions[storeKey(s.Mode, s.UserID)] = s
	return nil
}

func (f *fakeSessionStore) DeleteSession(_ context.Context, mode wizard.Mode, userID string) error {
	delete(f.sessions, storeKey(mode, userID))
	f.deletedSession = append(f.deletedSession, storeKey(mode, userID))
	return nil
}

func (f *fakeSessionStore) LoadDraft(_ context.Context, mode wizard.Mode, userID string) *wizard.FormState {
	return f.drafts[storeKey(mode, userID)]
}

func (f *fakeSessionStore) DeleteDraft(_ context.Context, mode wizard.Mode, userID string) error {
	delete(f.drafts, storeKey(mode, userID))
	f.deletedDraft = append(f.deletedDraft, storeKey(mode, userID))
	return nil
}

type uploadCall struct {
	bucket string
	path   string
	size   int
}

type removeCall struct {
	bucket string
	paths  []string
}

type fakeObjectStore struct {
	uploadErr error
	uploads   []uploadCall
	removes   []removeCall
}

func (f *fakeObjectStore) Upload(_ context.Context, bucket, path string, blob []byte) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.uploads = append(f.uploads, uploadCall{bucket, path, len(blob)})
	return "https://cdn.test/" + bucket + "/" + path, nil
}

func (f *fakeObjectStore) Remove(_ context.Context, bucket string, paths []string) error {
	f.removes = append(f.removes, removeCall{bucket, paths})
	return nil
}

type fakeProducer struct {
	messages [][]byte
	err      error
}

func (f *fakeProducer) PublishMessage(_, value []byte) error {
	f.messages = append(f.messages, value)
	return f.err
}

type harness struct {
	svc      MembershipService
	repo     *fakeProfileRepo
	admins   *fakeAdminRepo
	sessions *fakeSessionStore
	store    *fakeObjectStore
	producer *fakeProducer
	ids      []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		repo:     newFakeProfileRepo(),
		admins:   &fakeAdminRepo{admins: map[string]bool{}},
		sessions: newFakeSessionStore(),
		store:    &fakeObjectStore{},
		producer: &fakeProducer{},
	}
	seq := []string{"DTEAA-1999-0001", "DTEAA-1999-0002", "DTEAA-1999-0003"}
	gen := func(string) string {
		id := seq[len(h.ids)%len(seq)]
		h.ids = append(h.ids, id)
		return id
	}
	h.svc = NewMembershipService(
		h.repo, h.admins, h.sessions, h.store, h.producer,
		wizard.NewValidatorAt(func() time.Time { return testNow }),
		Buckets{Receipts: "receipts", Photos: "photos"},
		logger.NewTestLogger(t),
		WithAlumniIDGenerator(gen),
		WithClock(func() time.Time { return testNow }),
	)
	return h
}

var testUser = dto.CurrentSession{UserID: "user-1", Email: "Asha@Example.com", DisplayName: "Asha Rani"}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func completeState() *wizard.FormState {
	st := wizard.NewFormState()
	st.Personal = wizard.Personal{
		FirstName:            "Asha",
		LastName:             "Rani",
		PassOutYear:          "1999",
		DOB:                  "1977-04-02",
		BloodGroup:           "O+",
		Email:                "asha@example.com",
		HighestQualification: "Diploma",
	}
	st.Contact = wizard.Contact{
		PresentAddress:       wizard.Address{City: "Chennai", State: "Tamil Nadu", Country: "India", Pincode: "600001"},
		SameAsPresentAddress: true,
		Mobile:               "+919043672733",
	}
	return st
}

// seedSession stores a session parked on the flow's last step.
func (h *harness) seedSession(t *testing.T, mode wizard.Mode, state *wizard.FormState) *wizard.Session {
	t.Helper()
	session, err := wizard.NewSession(testUser.UserID, mode)
	require.NoError(t, err)
	flow, err := wizard.FlowFor(mode)
	require.NoError(t, err)
	session.Step = flow.Last()
	session.State = state
	h.sessions.sessions[storeKey(mode, testUser.UserID)] = session
	return session
}
