package memberskill

import (
	"sort"
	"time"

	"github.com/labcollective/memberhub/internal/skill"
)

// WalletEntry is one assignment shaped for the member's skill wallet.
type WalletEntry struct {
	SkillID             string       `json:"skill_id"`
	Name                string       `json:"name"`
	Description         string       `json:"description"`
	Category            string       `json:"category"`
	Icon                string       `json:"icon"`
	Color               string       `json:"color"`
	Level               string       `json:"level"`
	ParentID            *string      `json:"parent_id"`
	Status              State        `json:"status"`
	Phase               Phase        `json:"phase"`
	AdminApproved       bool         `json:"admin_approved"`
	Progress            int          `json:"progress"`
	CurrentMilestone    string       `json:"current_milestone"`
	CompletedMilestones []string     `json:"completed_milestones"`
	MilestoneProgress   MilestoneMap `json:"milestone_progress"`
	NextTask            string       `json:"next_task"`
	Achievements        []string     `json:"achievements"`
	AssignedDate        time.Time    `json:"assigned_date"`
	CompletionDate      *time.Time   `json:"completion_date"`
	AdminNotes          *string      `json:"admin_notes"`
}

type WalletSummary struct {
	Total           int `json:"total"`
	NotStarted      int `json:"not_started"`
	InProgress      int `json:"in_progress"`
	Completed       int `json:"completed"`
	AverageProgress int `json:"average_progress"`
}

type Wallet struct {
	Skills  []WalletEntry `json:"skills"`
	Summary WalletSummary `json:"summary"`
}

// BuildWallet joins assignments with their skills, ordered by level then skill name.
// Rows whose skill is missing are skipped.
func BuildWallet(rows []MemberSkill) Wallet {
	entries := make([]WalletEntry, 0, len(rows))
	for _, ms := range rows {
		if ms.Skill == nil {
			continue
		}
		entries = append(entries, WalletEntry{
			SkillID:             ms.SkillID,
			Name:                ms.Skill.Name,
			Description:         ms.Skill.Description,
			Category:            ms.Skill.Category,
			Icon:                ms.Skill.Icon,
			Color:               ms.Skill.Color,
			Level:               ms.Skill.Level,
			ParentID:            ms.Skill.ParentID,
			Status:              ms.Status,
			Phase:               ms.Status.Phase(),
			AdminApproved:       ms.AdminApproved(),
			Progress:            ms.Progress,
			CurrentMilestone:    ms.CurrentMilestone,
			CompletedMilestones: nonNil(ms.CompletedMilestones),
			MilestoneProgress:   ms.Milestones(),
			NextTask:            ms.NextTask,
			Achievements:        nonNil(ms.Achievements),
			AssignedDate:        ms.AssignedDate,
			CompletionDate:      ms.CompletionDate,
			AdminNotes:          ms.AdminNotes,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		li, lj := skill.LevelRank(entries[i].Level), skill.LevelRank(entries[j].Level)
		if li != lj {
			return li < lj
		}
		return entries[i].Name < entries[j].Name
	})

	return Wallet{Skills: entries, Summary: summarize(entries)}
}

func summarize(entries []WalletEntry) WalletSummary {
	s := WalletSummary{Total: len(entries)}
	if len(entries) == 0 {
		return s
	}
	sum := 0
	for _, e := range entries {
		sum += e.Progress
		switch e.Phase {
		case PhaseCompleted:
			s.Completed++
		case PhaseInProgress:
			s.InProgress++
		default:
			s.NotStarted++
		}
	}
	s.AverageProgress = sum / len(entries)
	return s
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
