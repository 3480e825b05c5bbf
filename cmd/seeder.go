package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		if clearData {
			tables := []string{"notifications", "message_mentions", "messages", "votes", "activities", "expenses", "trip_members", "trips"}
			for _, table := range tables {
				if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
					log.Fatalf("failed to clear table %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		var tripID int64
		err = db.QueryRow(`
			INSERT INTO trips (name, description, destination, start_date, end_date, created_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, now(), now())
			RETURNING id`,
			"Lisbon Getaway", "Long weekend in Lisbon", "Lisbon, Portugal",
			time.Now().AddDate(0, 1, 0), time.Now().AddDate(0, 1, 4), int64(1),
		).Scan(&tripID)
		if err != nil {
			log.Fatalf("failed to insert trip: %v", err)
		}
		fmt.Println("Seeded trip:", tripID)

		members := []struct {
			UserID int64
			Name   string
			Email  string
			Role   string
			Status string
		}{
			{1, "Alice", "alice@mail.com", "organizer", "CONFIRMED"},
			{2, "Bob", "bob@mail.com", "member", "CONFIRMED"},
			{3, "Mary Ann", "maryann@mail.com", "member", "CONFIRMED"},
			{4, "Dave", "dave@mail.com", "member", "INVITED"},
		}
		for _, m := range members {
			_, err := db.Exec(`
				INSERT INTO trip_members (trip_id, user_id, display_name, email, role, status, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, now(), now())`,
				tripID, m.UserID, m.Name, m.Email, m.Role, m.Status)
			if err != nil {
				log.Fatalf("failed to insert member %s: %v", m.Name, err)
			}
		}
		fmt.Println("Seeded trip members")

		activities := []struct {
			Title    string
			Category string
			Cost     float64
			Deadline time.Time
		}{
			{"Oceanario aquarium", "sightseeing", 25.00, time.Now().Add(72 * time.Hour)},
			{"Fado dinner show", "nightlife", 65.00, time.Now().Add(48 * time.Hour)},
			{"Sintra day trip", "adventure", 40.00, time.Now().Add(96 * time.Hour)},
		}
		for _, a := range activities {
			var activityID int64
			err := db.QueryRow(`
				INSERT INTO activities (trip_id, proposed_by, title, category, cost, status, voting_ends_at, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, 'OPEN', $6, now(), now())
				RETURNING id`,
				tripID, int64(1), a.Title, a.Category, a.Cost, a.Deadline,
			).Scan(&activityID)
			if err != nil {
				log.Fatalf("failed to insert activity %s: %v", a.Title, err)
			}
			fmt.Println("Seeded activity:", a.Title)
		}

		fmt.Println("Sample data seeded successfully")
	},
}
