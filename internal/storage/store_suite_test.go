package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PlayerLynx/AI-Study-Buddy/internal"
)

// runStoreSuite exercises the behaviour every backend must share. newStore
// must return an empty store.
func runStoreSuite(t *testing.T, newStore func(t *testing.T) Store) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s Store)
	}{
		{"CreateAndVerifyUser", testCreateAndVerifyUser},
		{"DuplicateUsername", testDuplicateUsername},
		{"VerifyUserMismatch", testVerifyUserMismatch},
		{"ChatHistoryOrderAndLimit", testChatHistoryOrderAndLimit},
		{"GoalDefaultsAndOrdering", testGoalDefaultsAndOrdering},
		{"GoalStatusFilter", testGoalStatusFilter},
		{"UpdateGoalStatus", testUpdateGoalStatus},
		{"DeleteGoal", testDeleteGoal},
		{"GoalProgress", testGoalProgress},
		{"StudySessionsWindow", testStudySessionsWindow},
		{"StudyStatistics", testStudyStatistics},
		{"InitSchemaIdempotent", testInitSchemaIdempotent},
		{"Scenario", testScenario},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.fn(t, newStore(t))
		})
	}
}

func mustCreateUser(t *testing.T, s Store, username string) int64 {
	t.Helper()
	id, err := s.CreateUser(context.Background(), username, "secret")
	require.NoError(t, err)
	require.NotZero(t, id)
	return id
}

func daysAgo(n int) time.Time {
	return internal.Today().AddDate(0, 0, -n)
}

func testCreateAndVerifyUser(t *testing.T, s Store) {
	ctx := context.Background()
	id, err := s.CreateUser(ctx, "alice", "pw123")
	require.NoError(t, err)

	u, err := s.VerifyUser(ctx, "alice", "pw123")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, "alice", u.Username)
	assert.False(t, u.CreatedAt.IsZero())

	// usernames are case-sensitive
	u, err = s.VerifyUser(ctx, "Alice", "pw123")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func testDuplicateUsername(t *testing.T, s Store) {
	ctx := context.Background()
	first, err := s.CreateUser(ctx, "bob", "one")
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, "bob", "two")
	assert.ErrorIs(t, err, ErrDuplicateUsername)

	u, err := s.VerifyUser(ctx, "bob", "one")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, first, u.ID)

	u, err = s.VerifyUser(ctx, "bob", "two")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func testVerifyUserMismatch(t *testing.T, s Store) {
	ctx := context.Background()
	mustCreateUser(t, s, "carol")

	u, err := s.VerifyUser(ctx, "carol", "wrong")
	assert.NoError(t, err)
	assert.Nil(t, u)

	u, err = s.VerifyUser(ctx, "nobody", "secret")
	assert.NoError(t, err)
	assert.Nil(t, u)
}

func testChatHistoryOrderAndLimit(t *testing.T, s Store) {
	ctx := context.Background()
	alice := mustCreateUser(t, s, "alice")
	bob := mustCreateUser(t, s, "bob")

	for i := 0; i < 5; i++ {
		require.NoError(t, s.AddChatMessage(ctx, alice, fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i)))
		require.NoError(t, s.AddChatMessage(ctx, bob, fmt.Sprintf("bob-q%d", i), "bob-a"))
	}

	history, err := s.ChatHistory(ctx, alice, 3)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "q2", history[0].UserMessage)
	assert.Equal(t, "q3", history[1].UserMessage)
	assert.Equal(t, "q4", history[2].UserMessage)
	for _, m := range history {
		assert.Equal(t, alice, m.UserID)
	}

	all, err := s.ChatHistory(ctx, alice, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
	assert.Equal(t, "a0", all[0].AIResponse)

	empty, err := s.ChatHistory(ctx, 9999, 10)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func testGoalDefaultsAndOrdering(t *testing.T, s Store) {
	ctx := context.Background()
	uid := mustCreateUser(t, s, "dave")

	target := time.Date(2030, 6, 1, 15, 30, 0, 0, time.UTC)
	low := &internal.LearningGoal{UserID: uid, Title: "low", Priority: 1, TargetDate: &target}
	mid := &internal.LearningGoal{UserID: uid, Title: "mid"}
	highOld := &internal.LearningGoal{UserID: uid, Title: "high-old", Priority: 3, Category: "lang"}
	highNew := &internal.LearningGoal{UserID: uid, Title: "high-new", Priority: 3}
	for _, g := range []*internal.LearningGoal{low, mid, highOld, highNew} {
		id, err := s.CreateGoal(ctx, g)
		require.NoError(t, err)
		assert.Equal(t, g.ID, id)
	}

	goals, err := s.Goals(ctx, uid, "")
	require.NoError(t, err)
	require.Len(t, goals, 4)
	titles := []string{goals[0].Title, goals[1].Title, goals[2].Title, goals[3].Title}
	assert.Equal(t, []string{"high-new", "high-old", "mid", "low"}, titles)

	assert.Equal(t, "general", goals[2].Category)
	assert.Equal(t, 2, goals[2].Priority)
	assert.Equal(t, "active", goals[2].Status)
	assert.Nil(t, goals[2].TargetDate)
	assert.Equal(t, "lang", goals[1].Category)

	require.NotNil(t, goals[3].TargetDate)
	assert.Equal(t, "2030-06-01", goals[3].TargetDate.Format(internal.DateLayout))
}

func testGoalStatusFilter(t *testing.T, s Store) {
	ctx := context.Background()
	uid := mustCreateUser(t, s, "erin")
	other := mustCreateUser(t, s, "frank")

	var ids []int64
	for i, p := range []int{1, 5, 3} {
		id, err := s.CreateGoal(ctx, &internal.LearningGoal{UserID: uid, Title: fmt.Sprintf("g%d", i), Priority: p})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	_, err := s.CreateGoal(ctx, &internal.LearningGoal{UserID: other, Title: "not mine", Status: "completed"})
	require.NoError(t, err)

	require.NoError(t, s.UpdateGoalStatus(ctx, ids[0], "completed"))
	require.NoError(t, s.UpdateGoalStatus(ctx, ids[1], "completed"))
	require.NoError(t, s.UpdateGoalStatus(ctx, ids[2], "paused"))

	completed, err := s.Goals(ctx, uid, "completed")
	require.NoError(t, err)
	require.Len(t, completed, 2)
	assert.Equal(t, ids[1], completed[0].ID)
	assert.Equal(t, ids[0], completed[1].ID)

	all, err := s.Goals(ctx, uid, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
	for _, g := range completed {
		assert.Contains(t, all, g)
		assert.Equal(t, "completed", g.Status)
	}

	paused, err := s.Goals(ctx, uid, "paused")
	require.NoError(t, err)
	require.Len(t, paused, 1)
	assert.Equal(t, ids[2], paused[0].ID)
}

func testUpdateGoalStatus(t *testing.T, s Store) {
	ctx := context.Background()
	uid := mustCreateUser(t, s, "gina")
	id, err := s.CreateGoal(ctx, &internal.LearningGoal{UserID: uid, Title: "Learn Go"})
	require.NoError(t, err)

	before, err := s.Goals(ctx, uid, "")
	require.NoError(t, err)
	require.Len(t, before, 1)

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, s.UpdateGoalStatus(ctx, id, "completed"))

	after, err := s.Goals(ctx, uid, "")
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, "completed", after[0].Status)
	assert.True(t, after[0].UpdatedAt.After(before[0].UpdatedAt))
	assert.Equal(t, before[0].CreatedAt, after[0].CreatedAt)

	// unknown ids are not an error
	assert.NoError(t, s.UpdateGoalStatus(ctx, id+1000, "completed"))
}

func testDeleteGoal(t *testing.T, s Store) {
	ctx := context.Background()
	uid := mustCreateUser(t, s, "hank")
	keep, err := s.CreateGoal(ctx, &internal.LearningGoal{UserID: uid, Title: "keep"})
	require.NoError(t, err)
	drop, err := s.CreateGoal(ctx, &internal.LearningGoal{UserID: uid, Title: "drop"})
	require.NoError(t, err)
	_, err = s.AddStudySession(ctx, &internal.StudySession{UserID: uid, GoalID: &drop, Subject: "Go", DurationMinutes: 30})
	require.NoError(t, err)

	require.NoError(t, s.DeleteGoal(ctx, drop))
	require.NoError(t, s.DeleteGoal(ctx, drop))

	goals, err := s.Goals(ctx, uid, "")
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, keep, goals[0].ID)

	sessions, err := s.StudySessions(ctx, uid, 7)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Nil(t, sessions[0].GoalID)
}

func testGoalProgress(t *testing.T, s Store) {
	ctx := context.Background()
	uid := mustCreateUser(t, s, "ivy")

	p, err := s.GoalProgress(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, internal.GoalProgress{}, p)

	var first int64
	for i := 0; i < 3; i++ {
		id, err := s.CreateGoal(ctx, &internal.LearningGoal{UserID: uid, Title: fmt.Sprintf("g%d", i)})
		require.NoError(t, err)
		if i == 0 {
			first = id
		}
	}
	require.NoError(t, s.UpdateGoalStatus(ctx, first, internal.GoalStatusCompleted))

	p, err = s.GoalProgress(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, internal.GoalProgress{TotalGoals: 3, CompletedGoals: 1, ActiveGoals: 2}, p)
}

func testStudySessionsWindow(t *testing.T, s Store) {
	ctx := context.Background()
	uid := mustCreateUser(t, s, "jack")

	todayID, err := s.AddStudySession(ctx, &internal.StudySession{UserID: uid, Subject: "Go", DurationMinutes: 45, Notes: "channels"})
	require.NoError(t, err)
	edgeID, err := s.AddStudySession(ctx, &internal.StudySession{UserID: uid, Subject: "SQL", DurationMinutes: 20, SessionDate: daysAgo(7)})
	require.NoError(t, err)
	midID, err := s.AddStudySession(ctx, &internal.StudySession{UserID: uid, Subject: "Go", DurationMinutes: 10, SessionDate: daysAgo(3)})
	require.NoError(t, err)
	_, err = s.AddStudySession(ctx, &internal.StudySession{UserID: uid, Subject: "Old", DurationMinutes: 99, SessionDate: daysAgo(8)})
	require.NoError(t, err)

	sessions, err := s.StudySessions(ctx, uid, 7)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Equal(t, []int64{todayID, midID, edgeID}, []int64{sessions[0].ID, sessions[1].ID, sessions[2].ID})
	assert.Equal(t, internal.Today(), sessions[0].SessionDate)
	assert.Equal(t, "channels", sessions[0].Notes)
	assert.Nil(t, sessions[0].GoalID)

	sessions, err = s.StudySessions(ctx, uid, 30)
	require.NoError(t, err)
	assert.Len(t, sessions, 4)
}

func testStudyStatistics(t *testing.T, s Store) {
	ctx := context.Background()
	uid := mustCreateUser(t, s, "kate")
	other := mustCreateUser(t, s, "liam")

	empty, err := s.StudyStatistics(ctx, uid, 7)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.TotalMinutes)
	assert.NotNil(t, empty.SubjectBreakdown)
	assert.Empty(t, empty.SubjectBreakdown)

	add := func(user int64, subject string, minutes, ago int) {
		_, err := s.AddStudySession(ctx, &internal.StudySession{UserID: user, Subject: subject, DurationMinutes: minutes, SessionDate: daysAgo(ago)})
		require.NoError(t, err)
	}
	add(uid, "Go", 30, 0)
	add(uid, "Go", 15, 2)
	add(uid, "Math", 60, 1)
	add(uid, "Art", 5, 6)
	add(uid, "Go", 500, 9)
	add(other, "Go", 100, 0)

	stats, err := s.StudyStatistics(ctx, uid, 7)
	require.NoError(t, err)
	assert.Equal(t, 110, stats.TotalMinutes)
	assert.Equal(t, []internal.SubjectMinutes{
		{Subject: "Math", TotalMinutes: 60},
		{Subject: "Go", TotalMinutes: 45},
		{Subject: "Art", TotalMinutes: 5},
	}, stats.SubjectBreakdown)

	sum := 0
	for _, b := range stats.SubjectBreakdown {
		sum += b.TotalMinutes
	}
	assert.Equal(t, stats.TotalMinutes, sum)

	wide, err := s.StudyStatistics(ctx, uid, 30)
	require.NoError(t, err)
	assert.Equal(t, 610, wide.TotalMinutes)
	assert.Equal(t, "Go", wide.SubjectBreakdown[0].Subject)
}

func testInitSchemaIdempotent(t *testing.T, s Store) {
	ctx := context.Background()
	uid := mustCreateUser(t, s, "mia")
	require.NoError(t, s.InitSchema(ctx))
	require.NoError(t, s.InitSchema(ctx))

	u, err := s.VerifyUser(ctx, "mia", "secret")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, uid, u.ID)
	assert.NoError(t, s.Health(ctx))
}

func testScenario(t *testing.T, s Store) {
	ctx := context.Background()
	uid, err := s.CreateUser(ctx, "alice", "pw123")
	require.NoError(t, err)

	u, err := s.VerifyUser(ctx, "alice", "pw123")
	require.NoError(t, err)
	require.NotNil(t, u)

	goalID, err := s.CreateGoal(ctx, &internal.LearningGoal{UserID: u.ID, Title: "Learn Go", Priority: 3})
	require.NoError(t, err)
	_, err = s.AddStudySession(ctx, &internal.StudySession{UserID: uid, Subject: "Go", DurationMinutes: 45, GoalID: &goalID})
	require.NoError(t, err)

	progress, err := s.GoalProgress(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, internal.GoalProgress{TotalGoals: 1, CompletedGoals: 0, ActiveGoals: 1}, progress)

	stats, err := s.StudyStatistics(ctx, uid, 30)
	require.NoError(t, err)
	assert.Equal(t, internal.StudyStatistics{
		TotalMinutes:     45,
		SubjectBreakdown: []internal.SubjectMinutes{{Subject: "Go", TotalMinutes: 45}},
	}, stats)

	sessions, err := s.StudySessions(ctx, uid, 7)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.NotNil(t, sessions[0].GoalID)
	assert.Equal(t, goalID, *sessions[0].GoalID)
}
