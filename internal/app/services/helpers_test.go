package services

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/yigit/labmatch/internal/app/models"
	"github.com/yigit/labmatch/internal/app/repositories/memstore"
	"github.com/yigit/labmatch/internal/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	auth.BcryptCost = bcrypt.MinCost
	os.Exit(m.Run())
}

type emitted struct {
	recipient string
	typ       models.NotificationType
	message   string
}

// recordingNotifier captures emissions instead of persisting them
type recordingNotifier struct {
	mu    sync.Mutex
	items []emitted
}

func (r *recordingNotifier) Emit(_ context.Context, recipientUserID string, typ models.NotificationType, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, emitted{recipient: recipientUserID, typ: typ, message: message})
}

func (r *recordingNotifier) all() []emitted {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]emitted(nil), r.items...)
}

type world struct {
	store    *memstore.Store
	notifier *recordingNotifier
	apps     *ApplicationService
	dept     *models.Department
	faculty  *models.Faculty
	project  *models.ProjectOpening
	students []*models.Student
}

func newWorld(t *testing.T, studentCount int) *world {
	t.Helper()
	ctx := context.Background()
	store := memstore.New()

	dept, err := store.EnsureDepartment(ctx, "Computer Science", "CS")
	require.NoError(t, err)

	faculty := &models.Faculty{Name: "Grace", ResearchInterests: "compilers, machine learning", DepartmentID: dept.ID}
	require.NoError(t, store.CreateUserWithProfile(ctx,
		&models.User{Email: "grace@uni.edu", RoleType: models.RoleFaculty}, nil, faculty))

	project := &models.ProjectOpening{FacultyID: faculty.ID, Title: "Parsers", TechStack: "go"}
	require.NoError(t, store.CreateProject(ctx, project))

	w := &world{
		store:    store,
		notifier: &recordingNotifier{},
		dept:     dept,
		faculty:  faculty,
		project:  project,
	}
	for i := 0; i < studentCount; i++ {
		w.students = append(w.students, w.addStudent(t, fmt.Sprintf("student%d", i), "machine learning"))
	}
	w.apps = NewApplicationService(store, w.notifier, nil, zerolog.Nop())
	return w
}

func (w *world) addStudent(t *testing.T, name, interests string) *models.Student {
	t.Helper()
	s := &models.Student{Name: name, Year: 2, Interests: interests, DepartmentID: w.dept.ID}
	require.NoError(t, w.store.CreateUserWithProfile(context.Background(),
		&models.User{Email: name + "@uni.edu", RoleType: models.RoleStudent}, s, nil))
	return s
}

func (w *world) addFaculty(t *testing.T, name string) *models.Faculty {
	t.Helper()
	f := &models.Faculty{Name: name, DepartmentID: w.dept.ID}
	require.NoError(t, w.store.CreateUserWithProfile(context.Background(),
		&models.User{Email: name + "@uni.edu", RoleType: models.RoleFaculty}, nil, f))
	return f
}

// fixedClock returns a clock that always reports t
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
