package memberskill

import (
	"testing"
	"time"

	"github.com/labcollective/memberhub/internal/member"
	"github.com/labcollective/memberhub/internal/skill"
	"github.com/labcollective/memberhub/internal/testutil"
	"github.com/labcollective/memberhub/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	repo    MemberSkillRepository
	members member.MemberRepository
	skills  skill.SkillRepository
	service *MemberSkillService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t, &member.Member{}, &skill.Skill{}, &MemberSkill{})
	f := &fixture{
		db:      db,
		repo:    NewMemberSkillRepository(db),
		members: member.NewMemberRepository(db),
		skills:  skill.NewSkillRepository(db),
	}
	f.service = NewMemberSkillService(f.repo, f.members, f.skills)
	f.service.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return f
}

func (f *fixture) member(t *testing.T, id string) {
	t.Helper()
	m := &member.Member{Name: id, Email: id + "@x.com", Role: member.RoleMember}
	m.ID = id
	require.NoError(t, f.members.Create(m))
}

func (f *fixture) skill(t *testing.T, id, level string, active bool, milestones ...skill.Milestone) {
	t.Helper()
	s := &skill.Skill{Name: "Skill " + id, Level: level, IsActive: active, Milestones: milestones}
	s.ID = id
	require.NoError(t, f.skills.CreateSkill(s))
}

func (f *fixture) assigned(t *testing.T, memberID, skillID string) {
	t.Helper()
	f.member(t, memberID)
	f.skill(t, skillID, skill.LevelPrimary, true, skill.Milestone{ID: "intro", Title: "Intro"}, skill.Milestone{ID: "deep", Title: "Deep dive"})
	created, err := f.service.BulkAssign([]string{memberID}, []string{skillID})
	require.NoError(t, err)
	require.EqualValues(t, 1, created)
}

func (f *fixture) get(t *testing.T, memberID, skillID string) *MemberSkill {
	t.Helper()
	ms, err := f.repo.FindByPair(memberID, skillID)
	require.NoError(t, err)
	require.NotNil(t, ms)
	return ms
}

func TestBulkAssignIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.member(t, "m1")
	f.member(t, "m2")
	f.skill(t, "s1", skill.LevelPrimary, true)
	f.skill(t, "s2", skill.LevelPrimary, true)

	created, err := f.service.BulkAssign([]string{"m1", "m2", "m1"}, []string{"s1", "s2"})
	require.NoError(t, err)
	assert.EqualValues(t, 4, created)

	created, err = f.service.BulkAssign([]string{"m1"}, []string{"s1"})
	require.NoError(t, err)
	assert.EqualValues(t, 0, created)

	var count int64
	require.NoError(t, f.db.Model(&MemberSkill{}).Where("member_id = ? AND skill_id = ?", "m1", "s1").Count(&count).Error)
	assert.EqualValues(t, 1, count)

	ms := f.get(t, "m1", "s1")
	assert.Equal(t, StateAssigned, ms.Status)
	assert.Equal(t, 0, ms.Progress)
	assert.False(t, ms.AdminApproved())
}

func TestBulkAssignKeepsExistingProgress(t *testing.T) {
	f := newFixture(t)
	f.assigned(t, "m1", "s1")
	_, err := f.service.Apply("m1", "s1", EventComplete)
	require.NoError(t, err)

	_, err = f.service.BulkAssign([]string{"m1"}, []string{"s1"})
	require.NoError(t, err)

	ms := f.get(t, "m1", "s1")
	assert.Equal(t, StateCompleted, ms.Status)
	assert.Equal(t, 100, ms.Progress)
}

func TestBulkAssignValidation(t *testing.T) {
	f := newFixture(t)
	f.member(t, "m1")
	f.skill(t, "s1", skill.LevelPrimary, true)

	_, err := f.service.BulkAssign(nil, []string{"s1"})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = f.service.BulkAssign([]string{"m1", "ghost"}, []string{"s1"})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	_, err = f.service.BulkAssign([]string{"m1"}, []string{"s1", "ghost"})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestAssignByLevel(t *testing.T) {
	f := newFixture(t)
	f.member(t, "m1")
	f.skill(t, "p1", skill.LevelPrimary, true)
	f.skill(t, "p2", skill.LevelPrimary, true)
	f.skill(t, "p3", skill.LevelPrimary, false)
	f.skill(t, "s1", skill.LevelSecondary, true)

	created, skills, err := f.service.AssignByLevel([]string{"m1"}, skill.LevelPrimary)
	require.NoError(t, err)
	assert.EqualValues(t, 2, created)
	assert.Equal(t, 2, skills)

	_, _, err = f.service.AssignByLevel([]string{"m1"}, skill.LevelTertiary)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	_, _, err = f.service.AssignByLevel([]string{"m1"}, "expert")
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestApproveThenRejectLeavesNotStarted(t *testing.T) {
	f := newFixture(t)
	f.assigned(t, "m1", "s1")

	ms, err := f.service.Apply("m1", "s1", EventApprove)
	require.NoError(t, err)
	assert.Equal(t, StateLearning, ms.Status)
	assert.True(t, ms.AdminApproved())

	ms, err = f.service.Apply("m1", "s1", EventReject)
	require.NoError(t, err)
	assert.Equal(t, PhaseNotStarted, ms.Status.Phase())
	assert.False(t, ms.AdminApproved())
}

func TestCompleteForcesProgressRegardlessOfApproval(t *testing.T) {
	for _, approveFirst := range []bool{true, false} {
		f := newFixture(t)
		f.assigned(t, "m1", "s1")
		if approveFirst {
			_, err := f.service.Apply("m1", "s1", EventApprove)
			require.NoError(t, err)
		}

		ms, err := f.service.Apply("m1", "s1", EventComplete)
		require.NoError(t, err)
		assert.Equal(t, StateCompleted, ms.Status)
		assert.Equal(t, 100, ms.Progress)
		require.NotNil(t, ms.CompletionDate)
		assert.True(t, ms.AdminApproved())
	}
}

func TestApplyErrors(t *testing.T) {
	f := newFixture(t)
	f.assigned(t, "m1", "s1")

	_, err := f.service.Apply("m1", "missing", EventApprove)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	assert.Equal(t, "Skill assignment not found", apperror.Message(err))

	_, err = f.service.Apply("m1", "s1", EventMaster)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	assert.Equal(t, "Cannot master an assignment that is assigned", apperror.Message(err))

	_, err = f.service.Apply("m1", "s1", EventComplete)
	require.NoError(t, err)
	_, err = f.service.Apply("m1", "s1", EventMaster)
	require.NoError(t, err)
	_, err = f.service.Apply("m1", "s1", EventComplete)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

// staleRepo hands out a state that no longer matches the stored row.
type staleRepo struct {
	MemberSkillRepository
	stale State
}

func (r staleRepo) FindByPair(memberID, skillID string) (*MemberSkill, error) {
	ms, err := r.MemberSkillRepository.FindByPair(memberID, skillID)
	if ms != nil {
		ms.Status = r.stale
	}
	return ms, err
}

func TestApplyDetectsConcurrentChange(t *testing.T) {
	f := newFixture(t)
	f.assigned(t, "m1", "s1")
	_, err := f.service.Apply("m1", "s1", EventComplete)
	require.NoError(t, err)

	svc := NewMemberSkillService(staleRepo{MemberSkillRepository: f.repo, stale: StateAssigned}, f.members, f.skills)
	_, err = svc.Apply("m1", "s1", EventApprove)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	assert.Equal(t, StateCompleted, f.get(t, "m1", "s1").Status)
}

func TestComment(t *testing.T) {
	f := newFixture(t)
	f.assigned(t, "m1", "s1")

	require.NoError(t, f.service.Comment("m1", "s1", "  great start  "))
	ms := f.get(t, "m1", "s1")
	require.NotNil(t, ms.AdminNotes)
	assert.Equal(t, "great start", *ms.AdminNotes)

	for _, blank := range []string{"", "   ", "\n\t"} {
		err := f.service.Comment("m1", "s1", blank)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	}
	assert.Equal(t, "great start", *f.get(t, "m1", "s1").AdminNotes)

	require.NoError(t, f.service.Comment("m1", "s1", "replaced"))
	assert.Equal(t, "replaced", *f.get(t, "m1", "s1").AdminNotes)

	err := f.service.Comment("m1", "nope", "hello")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func intPtr(v int) *int { return &v }

func TestUpdateProgress(t *testing.T) {
	f := newFixture(t)
	f.assigned(t, "m1", "s1")

	_, err := f.service.UpdateProgress("m1", "s1", ProgressUpdate{Progress: intPtr(10)})
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	_, err = f.service.Apply("m1", "s1", EventApprove)
	require.NoError(t, err)

	ms, err := f.service.UpdateProgress("m1", "s1", ProgressUpdate{
		Progress:     intPtr(140),
		Milestones:   map[string]MilestoneUpdate{"intro": {Completed: true}, "deep": {Progress: -5}},
		Achievements: []string{"first win", "first win", " "},
	})
	require.NoError(t, err)
	assert.Equal(t, 100, ms.Progress)
	assert.Equal(t, StateLearning, ms.Status)
	assert.Equal(t, []string{"intro"}, []string(ms.CompletedMilestones))
	assert.Equal(t, []string{"first win"}, []string(ms.Achievements))

	milestones := ms.Milestones()
	assert.True(t, milestones["intro"].Completed)
	assert.Equal(t, 100, milestones["intro"].Progress)
	assert.NotNil(t, milestones["intro"].CompletionDate)
	assert.Equal(t, 0, milestones["deep"].Progress)

	_, err = f.service.UpdateProgress("m1", "s1", ProgressUpdate{Milestones: map[string]MilestoneUpdate{"bogus": {Progress: 5}}})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = f.service.UpdateProgress("m1", "s1", ProgressUpdate{})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestBuildWallet(t *testing.T) {
	f := newFixture(t)
	f.member(t, "m1")
	f.skill(t, "t1", skill.LevelTertiary, true)
	f.skill(t, "p1", skill.LevelPrimary, true)
	f.skill(t, "s1", skill.LevelSecondary, true)
	_, err := f.service.BulkAssign([]string{"m1"}, []string{"t1", "p1", "s1"})
	require.NoError(t, err)
	_, err = f.service.Apply("m1", "p1", EventComplete)
	require.NoError(t, err)
	_, err = f.service.Apply("m1", "s1", EventApprove)
	require.NoError(t, err)

	rows, err := f.repo.ListForMember("m1")
	require.NoError(t, err)
	wallet := BuildWallet(rows)

	require.Len(t, wallet.Skills, 3)
	assert.Equal(t, []string{"p1", "s1", "t1"}, []string{wallet.Skills[0].SkillID, wallet.Skills[1].SkillID, wallet.Skills[2].SkillID})
	assert.Equal(t, WalletSummary{Total: 3, NotStarted: 1, InProgress: 1, Completed: 1, AverageProgress: 33}, wallet.Summary)
	assert.NotNil(t, wallet.Skills[2].CompletedMilestones)
}
