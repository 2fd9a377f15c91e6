package utils

import (
	"log"
	"time"

	"lms/database"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/robfig/cron/v3"
)

// logScheduler logs scheduler events with timestamp
func logScheduler(message string) {
	log.Printf("[DEADLINE-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// processUpcomingDeadlines notifies org admins about modules due within the
// next three days. Deadline = org start date + deadlineDays * orderIndex.
func processUpcomingDeadlines() {
	db := database.Database.Db
	now := time.Now()

	var organizations []models.Organization
	if err := db.Where("is_deleted = ?", false).Find(&organizations).Error; err != nil {
		logScheduler("Error fetching organizations: " + err.Error())
		return
	}

	var modules []courseModels.CourseModule
	if err := db.Order("order_index asc").Find(&modules).Error; err != nil {
		logScheduler("Error fetching modules: " + err.Error())
		return
	}

	for _, org := range organizations {
		orgID := org.ID
		for _, module := range modules {
			if module.DeadlineDays <= 0 {
				continue
			}
			deadline := org.StartDate.AddDate(0, 0, module.DeadlineDays*module.OrderIndex)
			if deadline.Before(now) || deadline.After(now.AddDate(0, 0, 3)) {
				continue
			}

			NotifyRole(models.RoleOrgAdmin, &orgID, "Upcoming module deadline",
				"Module \""+module.Title+"\" is due on "+deadline.Format("2006-01-02")+".",
				map[string]interface{}{"moduleId": module.ID})

			var admins []models.User
			if err := db.Where("organization_id = ? AND role = ? AND is_deleted = ?", orgID, models.RoleOrgAdmin, false).Find(&admins).Error; err != nil {
				logScheduler("Error fetching org admins: " + err.Error())
				continue
			}
			for _, admin := range admins {
				SendDeadlineReminderEmail(admin.Email, admin.Name, module.Title, deadline.Format("2006-01-02"))
			}
		}
	}
}

// InitializeDeadlineScheduler runs the reminder job daily at 08:00
func InitializeDeadlineScheduler() *cron.Cron {
	logScheduler("Initializing deadline scheduler...")

	c := cron.New()
	c.AddFunc("0 8 * * *", func() {
		processUpcomingDeadlines()
	})
	c.Start()

	logScheduler("Deadline scheduler initialized - runs daily at 08:00")
	return c
}
