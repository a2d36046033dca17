package routes

import (
	"github.com/labcollective/memberhub/internal/announcement"
	"github.com/labcollective/memberhub/internal/event"
	"github.com/labcollective/memberhub/internal/member"
	"github.com/labcollective/memberhub/internal/memberskill"
	"github.com/labcollective/memberhub/internal/resource"
	"github.com/labcollective/memberhub/internal/skill"
	"gorm.io/gorm"
)

// Models lists every table owned by the hub, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&member.Member{},
		&skill.Skill{},
		&memberskill.MemberSkill{},
		&event.Event{},
		&event.OAuthToken{},
		&announcement.Announcement{},
		&resource.ResourceAssignment{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
