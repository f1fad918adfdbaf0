package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tasktracker/internal/domain"
	"tasktracker/internal/testutil"
)

func createTask(t *testing.T, repo *TaskRepository, userID int64, title string, status domain.TaskStatus) *domain.Task {
	t.Helper()
	task := &domain.Task{UserID: userID, Title: title, Status: status, Priority: domain.TaskPriorityMedium}
	require.NoError(t, repo.Create(context.Background(), task))
	return task
}

func TestTaskRepository_Pagination(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewTaskRepository(db)
	u := createUser(t, db, "a@example.com")
	ctx := context.Background()

	for i := 1; i <= 25; i++ {
		createTask(t, repo, u.ID, fmt.Sprintf("task %02d", i), domain.TaskStatusPending)
	}

	seen := map[int64]bool{}
	var prevID int64
	for page, want := range []int{10, 10, 5} {
		tasks, total, err := repo.List(ctx, u.ID, TaskFilter{Limit: 10, Offset: page * 10})
		require.NoError(t, err)
		assert.Equal(t, int64(25), total)
		require.Len(t, tasks, want)

		for _, task := range tasks {
			assert.False(t, seen[task.ID], "task %d returned twice", task.ID)
			seen[task.ID] = true
			if prevID != 0 {
				assert.Less(t, task.ID, prevID, "newest first")
			}
			prevID = task.ID
		}
	}
	assert.Len(t, seen, 25)

	tasks, total, err := repo.List(ctx, u.ID, TaskFilter{Limit: 10, Offset: 30})
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.NotNil(t, tasks)
	assert.Equal(t, int64(25), total)
}

func TestTaskRepository_FilterAndSearch(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewTaskRepository(db)
	u := createUser(t, db, "a@example.com")
	ctx := context.Background()

	createTask(t, repo, u.ID, "Buy MILK", domain.TaskStatusCompleted)
	createTask(t, repo, u.ID, "buy bread", domain.TaskStatusPending)
	createTask(t, repo, u.ID, "Call mom", domain.TaskStatusCompleted)
	createTask(t, repo, u.ID, "100% done_ish", domain.TaskStatusPending)

	tasks, total, err := repo.List(ctx, u.ID, TaskFilter{Status: "completed", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, tasks, 2)

	tasks, total, err = repo.List(ctx, u.ID, TaskFilter{Search: "buy", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, tasks, 2)

	tasks, total, err = repo.List(ctx, u.ID, TaskFilter{Search: "milk", Status: "completed", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy MILK", tasks[0].Title)

	// LIKE wildcards in the search term are matched literally.
	_, total, err = repo.List(ctx, u.ID, TaskFilter{Search: "%", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, err = repo.List(ctx, u.ID, TaskFilter{Search: "e_i", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, err = repo.List(ctx, u.ID, TaskFilter{Search: "b_y", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestTaskRepository_Isolation(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewTaskRepository(db)
	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")
	ctx := context.Background()

	bobs := createTask(t, repo, bob.ID, "bob's secret", domain.TaskStatusPending)

	_, err := repo.GetByID(ctx, alice.ID, bobs.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = repo.Update(ctx, alice.ID, bobs.ID, map[string]any{"title": "pwned"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = repo.Delete(ctx, alice.ID, bobs.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	tasks, total, err := repo.List(ctx, alice.ID, TaskFilter{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.Zero(t, total)

	still, err := repo.GetByID(ctx, bob.ID, bobs.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob's secret", still.Title)
}

func TestTaskRepository_UpdateAndDelete(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewTaskRepository(db)
	u := createUser(t, db, "a@example.com")
	ctx := context.Background()

	task := createTask(t, repo, u.ID, "draft", domain.TaskStatusPending)

	require.NoError(t, repo.Update(ctx, u.ID, task.ID, map[string]any{"status": domain.TaskStatusInProgress}))

	got, err := repo.GetByID(ctx, u.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusInProgress, got.Status)
	assert.Equal(t, "draft", got.Title)

	require.NoError(t, repo.Delete(ctx, u.ID, task.ID))
	_, err = repo.GetByID(ctx, u.ID, task.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\%\_off\\`, escapeLike(`50%_off\`))
}

func TestTaskRepository_Toggle(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewTaskRepository(db)
	owner := createUser(t, db, "owner@example.com")
	other := createUser(t, db, "other@example.com")
	ctx := context.Background()

	for _, from := range []domain.TaskStatus{domain.TaskStatusPending, domain.TaskStatusInProgress, domain.TaskStatusCompleted} {
		task := createTask(t, repo, owner.ID, "flip "+string(from), from)

		require.NoError(t, repo.Toggle(ctx, owner.ID, task.ID))
		got, err := repo.GetByID(ctx, owner.ID, task.ID)
		require.NoError(t, err)
		assert.Equal(t, from.Toggled(), got.Status, from)

		require.NoError(t, repo.Toggle(ctx, owner.ID, task.ID))
		got, err = repo.GetByID(ctx, owner.ID, task.ID)
		require.NoError(t, err)
		assert.Equal(t, from.Toggled().Toggled(), got.Status, from)

		assert.ErrorIs(t, repo.Toggle(ctx, other.ID, task.ID), gorm.ErrRecordNotFound)
	}
}

func TestTaskRepository_Count(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewTaskRepository(db)
	owner := createUser(t, db, "owner@example.com")
	other := createUser(t, db, "other@example.com")
	ctx := context.Background()

	createTask(t, repo, owner.ID, "Buy milk", domain.TaskStatusPending)
	createTask(t, repo, owner.ID, "Buy bread", domain.TaskStatusCompleted)
	createTask(t, repo, owner.ID, "Walk dog", domain.TaskStatusPending)
	createTask(t, repo, other.ID, "Buy milk", domain.TaskStatusPending)

	n, err := repo.Count(ctx, owner.ID, TaskFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = repo.Count(ctx, owner.ID, TaskFilter{Status: "pending", Search: "buy", Limit: 1, Offset: 50})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
