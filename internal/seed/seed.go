// Package seed loads a development dataset: the department directory of
// beats and patrol cars, a squad of officers, and a week of sample shifts.
package seed

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/oakmont-pd/patrol-roster/backend/internal/domain"
	"github.com/oakmont-pd/patrol-roster/backend/internal/repository"
	"github.com/oakmont-pd/patrol-roster/backend/internal/roster"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

var beats = []domain.Beat{
	{Name: "Beat 1A", District: "North District", Description: "Downtown commercial area"},
	{Name: "Beat 1B", District: "North District", Description: "Residential neighborhoods"},
	{Name: "Beat 2A", District: "South District", Description: "Industrial zone"},
	{Name: "Beat 2B", District: "South District", Description: "Shopping centers"},
	{Name: "Beat 3A", District: "East District", Description: "Highway patrol"},
	{Name: "Beat 3B", District: "East District", Description: "Suburban area"},
	{Name: "Beat 4A", District: "West District", Description: "University area"},
	{Name: "Beat 4B", District: "West District", Description: "Waterfront"},
}

var patrolCars = []domain.PatrolCar{
	{Number: "101", Type: "Patrol Vehicle", Status: domain.PatrolCarAvailable},
	{Number: "102", Type: "Patrol Vehicle", Status: domain.PatrolCarAvailable},
	{Number: "103", Type: "Patrol Vehicle", Status: domain.PatrolCarAvailable},
	{Number: "201", Type: "Patrol Vehicle", Status: domain.PatrolCarAvailable},
	{Number: "202", Type: "Patrol Vehicle", Status: domain.PatrolCarAvailable},
	{Number: "301", Type: "SUV", Status: domain.PatrolCarAvailable},
	{Number: "302", Type: "SUV", Status: domain.PatrolCarAvailable},
	{Number: "401", Type: "Motorcycle", Status: domain.PatrolCarAvailable},
	{Number: "S-1", Type: "Supervisor Vehicle", Status: domain.PatrolCarAvailable},
	{Number: "S-2", Type: "Supervisor Vehicle", Status: domain.PatrolCarAvailable},
}

var officers = []domain.Officer{
	{Name: "Sarah Chen", Badge: "1042", Rank: "Lieutenant", Department: "Patrol"},
	{Name: "Marcus Webb", Badge: "2183", Rank: "Sergeant", Department: "Patrol"},
	{Name: "Elena Vasquez", Badge: "3057", Rank: "Officer", Department: "Patrol"},
	{Name: "David Okafor", Badge: "3164", Rank: "Officer", Department: "Patrol"},
	{Name: "Jenny Park", Badge: "3291", Rank: "Officer", Department: "Traffic"},
	{Name: "Tom Brennan", Badge: "3308", Rank: "Officer", Department: "Traffic"},
	{Name: "Aisha Khan", Badge: "3415", Rank: "Officer", Department: "Patrol"},
	{Name: "Ray Delgado", Badge: "2290", Rank: "Sergeant", Department: "Patrol"},
}

func SeedDirectory(repo *repository.Repository) {
	inserted := 0
	for _, beat := range beats {
		beat.ID = uuid.NewString()
		if err := repo.CreateBeat(&beat); err != nil {
			slog.Error("failed to insert beat", "name", beat.Name, "error", err)
			continue
		}
		inserted++
	}
	slog.Info("beats seeded", "count", inserted)

	inserted = 0
	for _, car := range patrolCars {
		car.ID = uuid.NewString()
		if err := repo.CreatePatrolCar(&car); err != nil {
			slog.Error("failed to insert patrol car", "number", car.Number, "error", err)
			continue
		}
		inserted++
	}
	slog.Info("patrol cars seeded", "count", inserted)
}

// SeedOfficers inserts the squad with a shared development password and a
// standard yearly PTO grant. Returns the inserted officer IDs in order.
func SeedOfficers(repo *repository.Repository, password string) []string {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("failed to hash seed password", "error", err)
		return nil
	}

	grant := domain.PTOBalances{
		Vacation: decimal.NewFromInt(80),
		Holiday:  decimal.NewFromInt(24),
		Sick:     decimal.NewFromInt(40),
	}

	ids := make([]string, 0, len(officers))
	for _, officer := range officers {
		officer.ID = uuid.NewString()
		officer.Email = emailFor(officer.Badge)
		officer.IsSupervisor = officer.IsAdmin()
		officer.PTOBalances = grant
		officer.PasswordHash = string(passwordHash)

		if err := repo.CreateOfficer(&officer); err != nil {
			slog.Error("failed to insert officer", "badge", officer.Badge, "error", err)
			continue
		}
		ids = append(ids, officer.ID)
	}

	slog.Info("officers seeded", "count", len(ids))
	return ids
}

func emailFor(badge string) string {
	return "badge" + badge + "@oakmontpd.example.com"
}

// SeedShifts loads a week of sample shifts, including a recurring traffic
// detail, through the roster service so the usual validation applies.
func SeedShifts(svc *roster.Service, officerIDs []string) {
	if len(officerIDs) < 5 {
		slog.Error("not enough officers to seed shifts", "count", len(officerIDs))
		return
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	endsOn := now.AddDate(0, 0, 90)

	shifts := []domain.Shift{
		{
			Title:      "Morning Patrol",
			Type:       domain.ShiftMorning,
			StartTime:  today.Add(6 * time.Hour),
			EndTime:    today.Add(14 * time.Hour),
			OfficerIDs: []string{officerIDs[0], officerIDs[1]},
			Location:   "Downtown",
			Color:      "#3B82F6",
		},
		{
			Title:      "Afternoon Patrol",
			Type:       domain.ShiftAfternoon,
			StartTime:  today.Add(14 * time.Hour),
			EndTime:    today.Add(22 * time.Hour),
			OfficerIDs: []string{officerIDs[2]},
			Location:   "Westside",
			Color:      "#8B5CF6",
		},
		{
			Title:      "Night Patrol",
			Type:       domain.ShiftNight,
			StartTime:  today.Add(22 * time.Hour),
			EndTime:    today.AddDate(0, 0, 1).Add(6 * time.Hour),
			OfficerIDs: []string{officerIDs[3]},
			Location:   "Citywide",
			Color:      "#1E3A8A",
		},
		{
			Title:      "Traffic Control",
			Type:       domain.ShiftMorning,
			StartTime:  today.AddDate(0, 0, 1).Add(8 * time.Hour),
			EndTime:    today.AddDate(0, 0, 1).Add(16 * time.Hour),
			OfficerIDs: []string{officerIDs[2], officerIDs[4]},
			Location:   "Highway 101",
			Color:      "#10B981",
			Recurrence: &domain.RecurrenceRule{
				Pattern:    domain.RecurrenceWeekly,
				Interval:   1,
				DaysOfWeek: []int{1, 3, 5},
				EndsOn:     &endsOn,
				Exceptions: []string{},
			},
		},
		{
			Title:      "Special Event",
			Type:       domain.ShiftCustom,
			StartTime:  today.AddDate(0, 0, 3).Add(10 * time.Hour),
			EndTime:    today.AddDate(0, 0, 3).Add(18 * time.Hour),
			OfficerIDs: []string{officerIDs[0], officerIDs[1], officerIDs[2]},
			Location:   "City Park",
			Notes:      "Annual city festival security detail",
			Color:      "#F59E0B",
		},
	}

	inserted := 0
	for i := range shifts {
		if err := svc.CreateShift(&shifts[i]); err != nil {
			slog.Error("failed to insert shift", "title", shifts[i].Title, "error", err)
			continue
		}
		inserted++
	}
	slog.Info("shifts seeded", "count", inserted)
}
