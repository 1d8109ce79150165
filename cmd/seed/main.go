package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/platebook/platebook/config"
	"github.com/platebook/platebook/pkg/helpers"
)

// Seeds a moderator, two demo users, and a handful of posts in each
// moderation state so the feeds have something to show locally.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	seedUser := func(username, email, role string) string {
		var id string
		err := db.QueryRow(`
			INSERT INTO users (username, email, password_hash, verified, role)
			VALUES ($1, $2, $3, TRUE, $4)
			ON CONFLICT (email) DO UPDATE SET username = EXCLUDED.username
			RETURNING id
		`, username, email, hash, role).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed user %s: %v", username, err)
		}
		fmt.Printf("seeded user: id=%s username=%s role=%s password=%s\n", id, username, role, password)
		return id
	}

	modID := seedUser("themoder", "moderator@platebook.dev", "Moderator")
	aliceID := seedUser("alicecook", "alice@platebook.dev", "User")
	bobID := seedUser("bobbakes", "bob@platebook.dev", "User")

	seedPost := func(owner, dish, ingredients, status string) {
		if _, err := db.Exec(`
			INSERT INTO posts (dish_name, ingredients, status, post_owner)
			VALUES ($1, $2, $3, $4)
		`, dish, ingredients, status, owner); err != nil {
			log.Fatalf("failed to seed post %q: %v", dish, err)
		}
	}

	seedPost(aliceID, "Nasi Goreng", "rice, egg, shallot, sweet soy sauce", "accepted")
	seedPost(aliceID, "Rendang", "beef, coconut milk, lemongrass, galangal", "accepted")
	seedPost(bobID, "Sourdough Loaf", "flour, water, salt, starter", "accepted")
	seedPost(bobID, "Mystery Stew", "questionable leftovers", "pending")
	seedPost(bobID, "Plain Toast", "bread", "rejected")

	if _, err := db.Exec(`
		INSERT INTO follows (follower_id, followee_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, bobID, aliceID); err != nil {
		log.Fatalf("failed to seed follow: %v", err)
	}

	fmt.Printf("seeded moderator=%s and demo users with posts\n", modID)
}
