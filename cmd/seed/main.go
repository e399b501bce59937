// Package main provides a tool to seed the database with test data.
//
// It creates a handful of users with populated libraries and a small
// follow graph, for exercising stats and social features during
// development.
//
// Usage:
//
//	DB_PATH=~/Shelfmark/data/db go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

var seedBooks = []struct {
	id      string
	title   string
	author  string
	pages   int
}{
	{"seed-dune", "Dune", "Frank Herbert", 412},
	{"seed-hyperion", "Hyperion", "Dan Simmons", 482},
	{"seed-left-hand", "The Left Hand of Darkness", "Ursula K. Le Guin", 304},
	{"seed-dispossessed", "The Dispossessed", "Ursula K. Le Guin", 387},
	{"seed-neuromancer", "Neuromancer", "William Gibson", 271},
	{"seed-snow-crash", "Snow Crash", "Neal Stephenson", 440},
	{"seed-blindsight", "Blindsight", "Peter Watts", 384},
	{"seed-exhalation", "Exhalation", "Ted Chiang", 350},
}

var seedUsers = []struct {
	id   string
	name string
}{
	{"seed-user-1", "avid-reader"},
	{"seed-user-2", "slow-burner"},
	{"seed-user-3", "serial-dropper"},
}

func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/Shelfmark/data/db")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := store.New(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, u := range seedUsers {
		if _, err := s.UpsertUser(ctx, &domain.User{
			Timestamps:  domain.Timestamps{ID: u.id},
			Email:       u.name + "@seed.local",
			DisplayName: u.name,
		}); err != nil {
			log.Fatalf("Failed to seed user %s: %v", u.id, err)
		}
	}
	fmt.Printf("Seeded %d users\n", len(seedUsers))

	statuses := []domain.BookStatus{
		domain.StatusPlanToRead,
		domain.StatusReading,
		domain.StatusCompleted,
		domain.StatusDropped,
	}

	seeded := 0
	for _, u := range seedUsers {
		for _, b := range seedBooks {
			if rng.Intn(3) == 0 {
				continue
			}

			book := &domain.Book{
				Timestamps: domain.Timestamps{ID: b.id},
				Title:      b.title,
				Authors:    []string{b.author},
				TotalPages: b.pages,
			}
			if _, err := s.UpsertBook(ctx, book); err != nil {
				log.Fatalf("Failed to seed book %s: %v", b.id, err)
			}

			record := &domain.UserBook{
				Timestamps: domain.Timestamps{ID: domain.UserBookID(u.id, b.id)},
				UserID:     u.id,
				BookID:     b.id,
				Status:     statuses[rng.Intn(len(statuses))],
			}
			switch record.Status {
			case domain.StatusReading:
				record.CurrentPage = rng.Intn(b.pages)
				record.RecomputeProgress(book)
			case domain.StatusCompleted:
				// Spread completions across the recent months so the
				// monthly chart has something to show.
				completed := time.Now().UTC().AddDate(0, -rng.Intn(6), 0)
				record.MarkCompleted(book, completed)
				record.Rating = 1 + rng.Intn(5)
			}

			err := s.CreateUserBook(ctx, record)
			if err != nil {
				log.Fatalf("Failed to seed library record %s: %v", record.ID, err)
			}
			seeded++
		}
	}
	fmt.Printf("Seeded %d library records\n", seeded)

	follows := 0
	for _, follower := range seedUsers {
		for _, followed := range seedUsers {
			if follower.id == followed.id || rng.Intn(2) == 0 {
				continue
			}
			err := s.CreateFollow(ctx, &domain.Follow{
				Timestamps: domain.Timestamps{ID: domain.FollowID(follower.id, followed.id)},
				FollowerID: follower.id,
				FollowedID: followed.id,
			})
			if err != nil {
				log.Fatalf("Failed to seed follow: %v", err)
			}
			follows++
		}
	}
	fmt.Printf("Seeded %d follows\n", follows)
}
