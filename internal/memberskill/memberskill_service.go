package memberskill

import (
	"errors"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/labcollective/memberhub/internal/member"
	"github.com/labcollective/memberhub/internal/models"
	"github.com/labcollective/memberhub/internal/skill"
	"github.com/labcollective/memberhub/pkg/apperror"
	"gorm.io/datatypes"
)

const msgAssignmentNotFound = "Skill assignment not found"

// ProgressUpdate is what a member may report about their own assignment.
type ProgressUpdate struct {
	Progress         *int                       `json:"progress"`
	CurrentMilestone *string                    `json:"current_milestone"`
	NextTask         *string                    `json:"next_task"`
	Milestones       map[string]MilestoneUpdate `json:"milestones"`
	Achievements     []string                   `json:"achievements"`
}

type MilestoneUpdate struct {
	Completed bool `json:"completed"`
	Progress  int  `json:"progress"`
}

// MemberSkillService owns every write to member_skills.
type MemberSkillService struct {
	repo    MemberSkillRepository
	members member.MemberRepository
	skills  skill.SkillRepository
	now     func() time.Time
}

func NewMemberSkillService(repo MemberSkillRepository, members member.MemberRepository, skills skill.SkillRepository) *MemberSkillService {
	return &MemberSkillService{
		repo:    repo,
		members: members,
		skills:  skills,
		now:     time.Now,
	}
}

// Apply validates ev against the stored state and writes the result. The write is
// conditioned on the state that was read, so a concurrent change makes it a conflict.
func (s *MemberSkillService) Apply(memberID, skillID string, ev Event) (*MemberSkill, error) {
	current, err := s.load(memberID, skillID)
	if err != nil {
		return nil, err
	}

	next, err := Next(current.Status, ev)
	if err != nil {
		return nil, apperror.Conflict(transitionMessage(err))
	}

	updates := map[string]interface{}{"status": next}
	if ev == EventComplete {
		now := s.now()
		updates["progress"] = 100
		if current.CompletionDate == nil {
			updates["completion_date"] = now
		}
	}

	if err := s.write(current, updates); err != nil {
		return nil, err
	}
	return s.load(memberID, skillID)
}

// Comment replaces the admin note. Blank text is rejected without touching the row.
func (s *MemberSkillService) Comment(memberID, skillID, text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return apperror.Validation("Comment is required")
	}
	affected, err := s.repo.UpdateFields(memberID, skillID, map[string]interface{}{"admin_notes": trimmed})
	if err != nil {
		return apperror.Storage("Failed to save comment", err)
	}
	if affected == 0 {
		return apperror.NotFound(msgAssignmentNotFound)
	}
	return nil
}

// BulkAssign creates every missing (member, skill) pair and reports how many rows were added.
func (s *MemberSkillService) BulkAssign(memberIDs, skillIDs []string) (int64, error) {
	memberIDs = models.UniqueStrings(memberIDs)
	skillIDs = models.UniqueStrings(skillIDs)
	if len(memberIDs) == 0 || len(skillIDs) == 0 {
		return 0, apperror.Validation("At least one member and one skill are required")
	}

	count, err := s.members.CountByIDs(memberIDs)
	if err != nil {
		return 0, apperror.Storage("Failed to verify members", err)
	}
	if count != int64(len(memberIDs)) {
		return 0, apperror.NotFound("One or more members were not found")
	}
	count, err = s.skills.CountByIDs(skillIDs)
	if err != nil {
		return 0, apperror.Storage("Failed to verify skills", err)
	}
	if count != int64(len(skillIDs)) {
		return 0, apperror.NotFound("One or more skills were not found")
	}

	now := s.now()
	rows := make([]MemberSkill, 0, len(memberIDs)*len(skillIDs))
	for _, memberID := range memberIDs {
		for _, skillID := range skillIDs {
			rows = append(rows, NewAssignment(memberID, skillID, now))
		}
	}
	created, err := s.repo.CreateMissing(rows)
	if err != nil {
		return 0, apperror.Storage("Failed to assign skills", err)
	}
	return created, nil
}

// AssignByLevel assigns every active skill of level to the given members.
func (s *MemberSkillService) AssignByLevel(memberIDs []string, level string) (int64, int, error) {
	if !skill.ValidLevel(level) {
		return 0, 0, apperror.Validation("Level must be primary, secondary or tertiary")
	}
	skills, err := s.skills.ListActiveByLevel(level)
	if err != nil {
		return 0, 0, apperror.Storage("Failed to load skills", err)
	}
	if len(skills) == 0 {
		return 0, 0, apperror.NotFound("No active skills at this level")
	}
	ids := make([]string, 0, len(skills))
	for _, sk := range skills {
		ids = append(ids, sk.ID)
	}
	created, err := s.BulkAssign(memberIDs, ids)
	return created, len(ids), err
}

// UpdateProgress records a member's self-reported progress. Only approved,
// in-progress assignments accept updates.
func (s *MemberSkillService) UpdateProgress(memberID, skillID string, req ProgressUpdate) (*MemberSkill, error) {
	current, err := s.load(memberID, skillID)
	if err != nil {
		return nil, err
	}
	if current.Status != StateLearning {
		return nil, apperror.Conflict("Progress can only be updated while the assignment is approved and in progress")
	}

	var sk *skill.Skill
	if len(req.Milestones) > 0 {
		sk, err = s.skills.GetSkillByID(skillID)
		if err != nil {
			return nil, apperror.Storage("Failed to load skill", err)
		}
		if sk == nil {
			return nil, apperror.NotFound("Skill not found")
		}
	}

	now := s.now()
	updates := map[string]interface{}{}
	if req.Progress != nil {
		updates["progress"] = clamp(*req.Progress)
	}
	if req.CurrentMilestone != nil {
		updates["current_milestone"] = strings.TrimSpace(*req.CurrentMilestone)
	}
	if req.NextTask != nil {
		updates["next_task"] = strings.TrimSpace(*req.NextTask)
	}
	if len(req.Milestones) > 0 {
		milestones := current.Milestones()
		for id, mu := range req.Milestones {
			if !sk.HasMilestone(id) {
				return nil, apperror.Validation("Unknown milestone: " + id)
			}
			milestones[id] = mergeMilestone(milestones[id], mu, now)
		}
		updates["milestone_progress"] = datatypes.NewJSONType(milestones)
		updates["completed_milestones"] = datatypes.JSONSlice[string](completedIDs(milestones))
	}
	if len(req.Achievements) > 0 {
		achievements := slices.Clone([]string(current.Achievements))
		for _, a := range req.Achievements {
			a = strings.TrimSpace(a)
			if a != "" && !slices.Contains(achievements, a) {
				achievements = append(achievements, a)
			}
		}
		updates["achievements"] = datatypes.JSONSlice[string](achievements)
	}
	if len(updates) == 0 {
		return nil, apperror.Validation("Nothing to update")
	}

	if err := s.write(current, updates); err != nil {
		return nil, err
	}
	return s.load(memberID, skillID)
}

// WalletFor returns the skill wallet of an existing member.
func (s *MemberSkillService) WalletFor(memberID string) (Wallet, error) {
	m, err := s.members.FindByID(memberID)
	if err != nil {
		return Wallet{}, apperror.Storage("Failed to load member", err)
	}
	if m == nil {
		return Wallet{}, apperror.NotFound("Member not found")
	}
	rows, err := s.repo.ListForMember(memberID)
	if err != nil {
		return Wallet{}, apperror.Storage("Failed to retrieve skills", err)
	}
	return BuildWallet(rows), nil
}

func (s *MemberSkillService) load(memberID, skillID string) (*MemberSkill, error) {
	ms, err := s.repo.FindByPair(memberID, skillID)
	if err != nil {
		return nil, apperror.Storage("Failed to load skill assignment", err)
	}
	if ms == nil {
		return nil, apperror.NotFound(msgAssignmentNotFound)
	}
	return ms, nil
}

func (s *MemberSkillService) write(current *MemberSkill, updates map[string]interface{}) error {
	affected, err := s.repo.UpdateIfStatus(current.MemberID, current.SkillID, current.Status, updates)
	if err != nil {
		return apperror.Storage("Failed to update skill assignment", err)
	}
	if affected > 0 {
		return nil
	}
	// zero rows: either the row vanished or its state moved underneath us
	if _, err := s.load(current.MemberID, current.SkillID); err != nil {
		return err
	}
	return apperror.Conflict("The assignment was changed by another request, reload and try again")
}

func mergeMilestone(prev MilestoneProgress, mu MilestoneUpdate, now time.Time) MilestoneProgress {
	next := MilestoneProgress{
		Completed:      mu.Completed,
		Progress:       clamp(mu.Progress),
		CompletionDate: prev.CompletionDate,
	}
	if next.Completed {
		next.Progress = 100
		if !prev.Completed || next.CompletionDate == nil {
			next.CompletionDate = &now
		}
	} else {
		next.CompletionDate = nil
	}
	return next
}

func completedIDs(milestones MilestoneMap) []string {
	ids := make([]string, 0, len(milestones))
	for id, m := range milestones {
		if m.Completed {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func transitionMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "); i >= 0 && errors.Is(err, ErrInvalidTransition) {
		msg = msg[i+2:]
	}
	if msg == "" {
		return "Invalid transition"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
