package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"marketplace-service/internal/config"
)

// Connect initializes the database connection and runs migrations.
func Connect(cfg config.Database) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnLifetime)

	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return db, nil
}

func runMigrations(db *sqlx.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            email TEXT NOT NULL UNIQUE,
            phone TEXT NOT NULL UNIQUE,
            password_hash TEXT NOT NULL,
            user_type TEXT NOT NULL DEFAULT 'individual',
            login_method TEXT NOT NULL DEFAULT 'email',
            city TEXT NOT NULL,
            address TEXT,
            shop_name TEXT,
            is_active BOOLEAN NOT NULL DEFAULT TRUE,
            is_verified BOOLEAN NOT NULL DEFAULT FALSE,
            rating DOUBLE PRECISION NOT NULL DEFAULT 0,
            total_reviews INT NOT NULL DEFAULT 0,
            total_sales INT NOT NULL DEFAULT 0,
            joined_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            last_login TIMESTAMPTZ,
            profile_picture TEXT,
            is_premium BOOLEAN NOT NULL DEFAULT FALSE,
            verification_badges TEXT[] NOT NULL DEFAULT '{}'
        );`,
		`CREATE TABLE IF NOT EXISTS listings (
            id TEXT PRIMARY KEY,
            seller_id TEXT NOT NULL,
            brand TEXT NOT NULL,
            model TEXT NOT NULL,
            storage TEXT NOT NULL,
            condition TEXT NOT NULL,
            price BIGINT NOT NULL,
            pricing_type TEXT NOT NULL DEFAULT 'fixed',
            description TEXT NOT NULL,
            specifications JSONB NOT NULL DEFAULT '{}',
            warranty_info TEXT,
            images TEXT[] NOT NULL DEFAULT '{}',
            video_url TEXT,
            status TEXT NOT NULL DEFAULT 'active',
            views_count INT NOT NULL DEFAULT 0,
            inquiries_count INT NOT NULL DEFAULT 0,
            is_featured BOOLEAN NOT NULL DEFAULT FALSE,
            location_lat DOUBLE PRECISION,
            location_lng DOUBLE PRECISION,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            expires_at TIMESTAMPTZ NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS listings_seller_idx ON listings (seller_id);`,
		`CREATE TABLE IF NOT EXISTS conversations (
            id TEXT PRIMARY KEY,
            participant_ids TEXT[] NOT NULL,
            listing_id TEXT NOT NULL,
            last_message TEXT,
            last_message_at TIMESTAMPTZ,
            unread_count JSONB NOT NULL DEFAULT '{}',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
		`CREATE UNIQUE INDEX IF NOT EXISTS conversations_listing_pair_idx ON conversations (
            listing_id,
            LEAST(participant_ids[1], participant_ids[2]),
            GREATEST(participant_ids[1], participant_ids[2])
        );`,
		`CREATE INDEX IF NOT EXISTS conversations_participants_idx ON conversations USING GIN (participant_ids);`,
		`CREATE TABLE IF NOT EXISTS messages (
            id TEXT PRIMARY KEY,
            seq BIGSERIAL,
            conversation_id TEXT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
            sender_id TEXT NOT NULL,
            receiver_id TEXT NOT NULL,
            listing_id TEXT NOT NULL,
            message_type TEXT NOT NULL DEFAULT 'text',
            content TEXT NOT NULL,
            offer_amount BIGINT,
            is_read BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
		`CREATE INDEX IF NOT EXISTS messages_conversation_idx ON messages (conversation_id, created_at, seq);`,
		`CREATE TABLE IF NOT EXISTS reviews (
            id TEXT PRIMARY KEY,
            reviewer_id TEXT NOT NULL,
            reviewed_user_id TEXT NOT NULL,
            listing_id TEXT NOT NULL,
            rating INT NOT NULL CHECK (rating BETWEEN 1 AND 5),
            comment TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            UNIQUE (reviewer_id, reviewed_user_id, listing_id)
        );`,
		`CREATE TABLE IF NOT EXISTS favorites (
            id TEXT PRIMARY KEY,
            user_id TEXT NOT NULL,
            listing_id TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            UNIQUE (user_id, listing_id)
        );`,
		`CREATE TABLE IF NOT EXISTS saved_searches (
            id TEXT PRIMARY KEY,
            user_id TEXT NOT NULL,
            name TEXT NOT NULL,
            search_query JSONB NOT NULL DEFAULT '{}',
            is_active BOOLEAN NOT NULL DEFAULT TRUE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}
	logrus.WithField("count", len(migrations)).Info("database migrations applied")
	return nil
}
