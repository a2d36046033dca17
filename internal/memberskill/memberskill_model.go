package memberskill

import (
	"encoding/json"
	"time"

	"github.com/labcollective/memberhub/internal/models"
	"github.com/labcollective/memberhub/internal/skill"
	"gorm.io/datatypes"
)

// MilestoneProgress tracks one milestone of one assignment.
type MilestoneProgress struct {
	Completed      bool       `json:"completed"`
	Progress       int        `json:"progress"`
	CompletionDate *time.Time `json:"completionDate,omitempty"`
}

// MilestoneMap is keyed by the skill's milestone id.
type MilestoneMap map[string]MilestoneProgress

// MemberSkill links one member to one skill. The (member_id, skill_id) pair is unique.
type MemberSkill struct {
	models.BaseModel
	MemberID            string                           `json:"member_id" gorm:"size:36;not null;uniqueIndex:idx_member_skill_pair"`
	SkillID             string                           `json:"skill_id" gorm:"size:36;not null;uniqueIndex:idx_member_skill_pair;index"`
	Status              State                            `json:"status" gorm:"size:20;not null;index"`
	Progress            int                              `json:"progress"`
	CurrentMilestone    string                           `json:"current_milestone"`
	CompletedMilestones datatypes.JSONSlice[string]      `json:"completed_milestones"`
	MilestoneProgress   datatypes.JSONType[MilestoneMap] `json:"milestone_progress"`
	NextTask            string                           `json:"next_task"`
	Achievements        datatypes.JSONSlice[string]      `json:"achievements"`
	AssignedDate        time.Time                        `json:"assigned_date"`
	CompletionDate      *time.Time                       `json:"completion_date"`
	AdminNotes          *string                          `json:"admin_notes"`
	Skill               *skill.Skill                     `json:"skill,omitempty" gorm:"foreignKey:SkillID"`
}

// NewAssignment returns a fresh, unapproved assignment at zero progress.
func NewAssignment(memberID, skillID string, now time.Time) MemberSkill {
	return MemberSkill{
		MemberID:            memberID,
		SkillID:             skillID,
		Status:              StateAssigned,
		CompletedMilestones: []string{},
		MilestoneProgress:   datatypes.NewJSONType(MilestoneMap{}),
		Achievements:        []string{},
		AssignedDate:        now,
	}
}

// AdminApproved is derived from the state rather than stored next to it.
func (ms *MemberSkill) AdminApproved() bool {
	return ms.Status.Approved()
}

// Milestones returns a copy of the milestone map that callers may modify.
func (ms *MemberSkill) Milestones() MilestoneMap {
	out := MilestoneMap{}
	for k, v := range ms.MilestoneProgress.Data() {
		out[k] = v
	}
	return out
}

// MarshalJSON adds the derived admin_approved and phase fields.
func (ms MemberSkill) MarshalJSON() ([]byte, error) {
	type plain MemberSkill
	return json.Marshal(struct {
		plain
		AdminApproved bool  `json:"admin_approved"`
		Phase         Phase `json:"phase"`
	}{
		plain:         plain(ms),
		AdminApproved: ms.Status.Approved(),
		Phase:         ms.Status.Phase(),
	})
}
