package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/atelier-sns/atelier/config"
	"github.com/atelier-sns/atelier/pkg/helpers"
)

// Seeds two demo accounts, a one-way friend edge between them, and one
// work per visibility level so the feed has something to show.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	dsn := cfg.PostgresDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	aliceID := seedUser(db, "alice", hash, "alice@example.com")
	bobID := seedUser(db, "bob", hash, "")
	fmt.Printf("seeded users: alice=%s bob=%s password=%s\n", aliceID, bobID, password)

	// alice follows bob; bob does not follow back
	if _, err := db.Exec(`
		INSERT INTO user_friends (user_id, friend_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, friend_id) DO NOTHING
	`, aliceID, bobID); err != nil {
		log.Fatalf("failed to seed friend edge: %v", err)
	}
	fmt.Println("seeded friend edge: alice -> bob")

	seedWork(db, bobID, "bob", "Open sketch", "Anyone can see this one.", "public")
	seedWork(db, bobID, "bob", "For my circle", "Only people bob trusts see this.", "friends")
	seedWork(db, bobID, "bob", "Drafts", "Nobody but bob sees this.", "private")
	seedWork(db, aliceID, "alice", "First post", "Hello from alice.", "public")
	fmt.Println("seeded works: 3 for bob, 1 for alice")
}

func seedUser(db *sql.DB, username, hash, email string) string {
	var id string
	err := db.QueryRow(`
		INSERT INTO users (username, password_hash, email)
		VALUES ($1, $2, $3)
		ON CONFLICT (username) DO UPDATE SET email = EXCLUDED.email
		RETURNING id
	`, username, hash, email).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user %s: %v", username, err)
	}
	return id
}

func seedWork(db *sql.DB, authorID, authorName, title, content, visibility string) {
	if _, err := db.Exec(`
		INSERT INTO works (title, content, author_id, author_name, visibility)
		SELECT $1, $2, $3, $4, $5
		WHERE NOT EXISTS (
			SELECT 1 FROM works WHERE author_id = $3 AND title = $1
		)
	`, title, content, authorID, authorName, visibility); err != nil {
		log.Fatalf("failed to seed work %q: %v", title, err)
	}
}
