package services

import (
	"context"
	"sync"
	"time"

	"projectmonitor/models"
	repository "projectmonitor/repositories"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memUsers struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]models.User
}

func newMemUsers() *memUsers { return &memUsers{items: map[primitive.ObjectID]models.User{}} }

func (r *memUsers) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.Email == u.Email || existing.Username == u.Username || existing.PhoneNumber == u.PhoneNumber {
			return repository.ErrDuplicateKey
		}
	}
	u.ID = primitive.NewObjectID()
	r.items[u.ID] = *u
	return nil
}

func (r *memUsers) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.items {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUsers) FindConflict(_ context.Context, username, email, phone string, exclude primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, u := range r.items {
		if id == exclude {
			continue
		}
		if u.Username == username || u.Email == email || u.PhoneNumber == phone {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUsers) ListByRole(_ context.Context, role models.Role) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.User{}
	for _, u := range r.items {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *memUsers) UpdateProfile(_ context.Context, u *models.User) error {
	return r.mutate(u.ID, func(stored *models.User) {
		stored.Username, stored.Email, stored.PhoneNumber = u.Username, u.Email, u.PhoneNumber
	})
}

func (r *memUsers) UpdatePassword(_ context.Context, id primitive.ObjectID, hash string) error {
	return r.mutate(id, func(stored *models.User) { stored.PasswordHash = hash })
}

func (r *memUsers) AddAssignedProject(_ context.Context, id, projectID primitive.ObjectID) error {
	return r.mutate(id, func(stored *models.User) {
		if !stored.HasProject(projectID) {
			stored.AssignedProjects = append(stored.AssignedProjects, projectID)
		}
	})
}

func (r *memUsers) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memUsers) mutate(id primitive.ObjectID, fn func(*models.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	fn(&u)
	r.items[id] = u
	return nil
}

type memProjects struct {
	items map[primitive.ObjectID]models.Project
}

func newMemProjects() *memProjects { return &memProjects{items: map[primitive.ObjectID]models.Project{}} }

func (r *memProjects) Create(_ context.Context, p *models.Project) error {
	for _, existing := range r.items {
		if existing.Name == p.Name {
			return repository.ErrDuplicateKey
		}
	}
	p.ID = primitive.NewObjectID()
	r.items[p.ID] = *p
	return nil
}

func (r *memProjects) GetByID(_ context.Context, id primitive.ObjectID) (*models.Project, error) {
	p, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *memProjects) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Project, error) {
	out := []models.Project{}
	for _, id := range ids {
		if p, ok := r.items[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProjects) GetAll(_ context.Context) ([]models.Project, error) {
	out := []models.Project{}
	for _, p := range r.items {
		out = append(out, p)
	}
	return out, nil
}

func (r *memProjects) Update(_ context.Context, p *models.Project) error {
	if _, ok := r.items[p.ID]; !ok {
		return repository.ErrNotFound
	}
	r.items[p.ID] = *p
	return nil
}

func (r *memProjects) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type memTasks struct {
	items map[primitive.ObjectID]models.Task
}

func newMemTasks() *memTasks { return &memTasks{items: map[primitive.ObjectID]models.Task{}} }

func (r *memTasks) Create(_ context.Context, t *models.Task) error {
	t.ID = primitive.NewObjectID()
	r.items[t.ID] = *t
	return nil
}

func (r *memTasks) GetByID(_ context.Context, id primitive.ObjectID) (*models.Task, error) {
	t, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r *memTasks) ListByProject(_ context.Context, projectID primitive.ObjectID) ([]models.Task, error) {
	out := []models.Task{}
	for _, t := range r.items {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memTasks) Update(_ context.Context, t *models.Task) error {
	if _, ok := r.items[t.ID]; !ok {
		return repository.ErrNotFound
	}
	r.items[t.ID] = *t
	return nil
}

func (r *memTasks) UpdateDescription(_ context.Context, id primitive.ObjectID, description string) error {
	t, ok := r.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	t.Description = description
	r.items[id] = t
	return nil
}

func (r *memTasks) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type memKPIs struct {
	items map[primitive.ObjectID]models.KPI
}

func newMemKPIs() *memKPIs { return &memKPIs{items: map[primitive.ObjectID]models.KPI{}} }

func (r *memKPIs) Create(_ context.Context, k *models.KPI) error {
	k.ID = primitive.NewObjectID()
	r.items[k.ID] = *k
	return nil
}

func (r *memKPIs) GetByID(_ context.Context, id primitive.ObjectID) (*models.KPI, error) {
	k, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &k, nil
}

func (r *memKPIs) ListByProject(_ context.Context, projectID primitive.ObjectID) ([]models.KPI, error) {
	out := []models.KPI{}
	for _, k := range r.items {
		if k.ProjectID == projectID {
			out = append(out, k)
		}
	}
	return out, nil
}

func (r *memKPIs) Update(_ context.Context, k *models.KPI) error {
	if _, ok := r.items[k.ID]; !ok {
		return repository.ErrNotFound
	}
	r.items[k.ID] = *k
	return nil
}

func (r *memKPIs) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// memKPIUpdates keeps insertion order so tests can check that derivation does
// not rely on it.
type memKPIUpdates struct {
	items []models.KPIUpdate
}

func (r *memKPIUpdates) Create(_ context.Context, u *models.KPIUpdate) error {
	u.ID = primitive.NewObjectID()
	r.items = append(r.items, *u)
	return nil
}

func (r *memKPIUpdates) GetByID(_ context.Context, id primitive.ObjectID) (*models.KPIUpdate, error) {
	for _, u := range r.items {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memKPIUpdates) ListByKPI(_ context.Context, kpiID primitive.ObjectID) ([]models.KPIUpdate, error) {
	out := []models.KPIUpdate{}
	for _, u := range r.items {
		if u.KPIID == kpiID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *memKPIUpdates) ListByProject(_ context.Context, projectID primitive.ObjectID) ([]models.KPIUpdate, error) {
	out := []models.KPIUpdate{}
	for _, u := range r.items {
		if u.ProjectID == projectID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *memKPIUpdates) Latest(ctx context.Context, kpiID primitive.ObjectID) (*models.KPIUpdate, error) {
	updates, _ := r.ListByKPI(ctx, kpiID)
	var latest *models.KPIUpdate
	for i := range updates {
		if latest == nil || updates[i].UpdatedAt.After(latest.UpdatedAt) {
			latest = &updates[i]
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	return latest, nil
}

func (r *memKPIUpdates) Delete(_ context.Context, id primitive.ObjectID) error {
	for i, u := range r.items {
		if u.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type memSessions struct {
	items map[string]models.Session
}

func newMemSessions() *memSessions { return &memSessions{items: map[string]models.Session{}} }

func (r *memSessions) Create(_ context.Context, s *models.Session, _ time.Duration) error {
	r.items[s.ID] = *s
	return nil
}

func (r *memSessions) Get(_ context.Context, id string) (*models.Session, error) {
	s, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r *memSessions) Delete(_ context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memSessions) DeleteByUser(_ context.Context, userID primitive.ObjectID) error {
	for id, s := range r.items {
		if s.UserID == userID {
			delete(r.items, id)
		}
	}
	return nil
}

type memVisualisations struct {
	items map[primitive.ObjectID]models.Visualisation
}

func newMemVisualisations() *memVisualisations {
	return &memVisualisations{items: map[primitive.ObjectID]models.Visualisation{}}
}

func (r *memVisualisations) Create(_ context.Context, v *models.Visualisation) error {
	v.ID = primitive.NewObjectID()
	r.items[v.ID] = *v
	return nil
}

func (r *memVisualisations) GetByID(_ context.Context, id primitive.ObjectID) (*models.Visualisation, error) {
	v, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &v, nil
}

func (r *memVisualisations) ListByProject(_ context.Context, projectID primitive.ObjectID) ([]models.Visualisation, error) {
	out := []models.Visualisation{}
	for _, v := range r.items {
		if v.ProjectID == projectID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *memVisualisations) Replace(_ context.Context, v *models.Visualisation) error {
	if _, ok := r.items[v.ID]; !ok {
		return repository.ErrNotFound
	}
	r.items[v.ID] = *v
	return nil
}

func (r *memVisualisations) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type memStories struct {
	items map[primitive.ObjectID]models.SuccessStory
}

func newMemStories() *memStories { return &memStories{items: map[primitive.ObjectID]models.SuccessStory{}} }

func (r *memStories) Create(_ context.Context, story *models.SuccessStory) error {
	story.ID = primitive.NewObjectID()
	r.items[story.ID] = *story
	return nil
}

func (r *memStories) GetByID(_ context.Context, id primitive.ObjectID) (*models.SuccessStory, error) {
	story, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &story, nil
}

func (r *memStories) ListByProject(_ context.Context, projectID primitive.ObjectID) ([]models.SuccessStory, error) {
	out := []models.SuccessStory{}
	for _, story := range r.items {
		if story.ProjectID == projectID {
			out = append(out, story)
		}
	}
	return out, nil
}

func (r *memStories) Replace(_ context.Context, story *models.SuccessStory) error {
	if _, ok := r.items[story.ID]; !ok {
		return repository.ErrNotFound
	}
	r.items[story.ID] = *story
	return nil
}

func (r *memStories) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendCredentials(ctx context.Context, to, username, password string) error {
	args := m.Called(ctx, to, username, password)
	return args.Error(0)
}

func adminSession() *models.Session {
	return &models.Session{ID: "admin", UserID: primitive.NewObjectID(), Role: models.RoleAdmin}
}

func staffSession(projects ...primitive.ObjectID) *models.Session {
	return &models.Session{ID: "staff", UserID: primitive.NewObjectID(), Role: models.RoleFieldStaff, AssignedProjects: projects}
}

func floatPtr(v float64) *float64 { return &v }
