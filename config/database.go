package config

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

func InitDB() (*sql.DB, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func RunMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			name VARCHAR(255) NOT NULL,
			pin_hash VARCHAR(255),
			totp_secret VARCHAR(255),
			totp_enabled BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS workshops (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			name VARCHAR(255) NOT NULL,
			phone VARCHAR(50),
			address TEXT,
			owner_id UUID REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS workshop_members (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			workshop_id UUID REFERENCES workshops(id) ON DELETE CASCADE,
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			role VARCHAR(50) DEFAULT 'member',
			joined_at TIMESTAMP DEFAULT NOW(),
			UNIQUE(workshop_id, user_id)
		)`,

		`CREATE TABLE IF NOT EXISTS invitations (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			workshop_id UUID REFERENCES workshops(id) ON DELETE CASCADE,
			email VARCHAR(255) NOT NULL,
			invited_by UUID REFERENCES users(id),
			token VARCHAR(255) UNIQUE NOT NULL,
			status VARCHAR(50) DEFAULT 'pending',
			expires_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS clients (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			workshop_id UUID REFERENCES workshops(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			phone VARCHAR(50),
			email VARCHAR(255),
			document_enc TEXT,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS vehicles (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			client_id UUID REFERENCES clients(id) ON DELETE CASCADE,
			plate VARCHAR(20) NOT NULL,
			make VARCHAR(100),
			model VARCHAR(100),
			year INTEGER,
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS service_orders (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			workshop_id UUID REFERENCES workshops(id) ON DELETE CASCADE,
			client_id UUID REFERENCES clients(id),
			vehicle_id UUID REFERENCES vehicles(id),
			reference VARCHAR(50) NOT NULL,
			description TEXT,
			status VARCHAR(50) DEFAULT 'orcamento',
			total NUMERIC(12,2) DEFAULT 0,
			created_by UUID REFERENCES users(id),
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW(),
			UNIQUE(workshop_id, reference)
		)`,

		`CREATE TABLE IF NOT EXISTS order_items (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			order_id UUID REFERENCES service_orders(id) ON DELETE CASCADE,
			kind VARCHAR(20) NOT NULL,
			description TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			unit_price NUMERIC(12,2) NOT NULL,
			position INTEGER NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS order_photos (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			order_id UUID REFERENCES service_orders(id) ON DELETE CASCADE,
			url TEXT NOT NULL,
			observation TEXT,
			position INTEGER NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS share_links (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			workshop_id UUID REFERENCES workshops(id) ON DELETE CASCADE,
			order_id UUID REFERENCES service_orders(id) ON DELETE CASCADE,
			token TEXT UNIQUE NOT NULL,
			variant VARCHAR(20) NOT NULL,
			decision VARCHAR(20) DEFAULT 'pending',
			decided_at TIMESTAMP,
			expires_at TIMESTAMP NOT NULL,
			created_by UUID REFERENCES users(id),
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS notifications (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			workshop_id UUID REFERENCES workshops(id) ON DELETE CASCADE,
			kind VARCHAR(50) NOT NULL,
			message TEXT NOT NULL,
			order_id UUID,
			read BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS activity_logs (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			workshop_id UUID REFERENCES workshops(id) ON DELETE CASCADE,
			user_id UUID REFERENCES users(id),
			action VARCHAR(100) NOT NULL,
			order_id UUID,
			details TEXT,
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS sessions (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			refresh_token VARCHAR(500) UNIQUE NOT NULL,
			expires_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_workshop_members_workshop_id ON workshop_members(workshop_id)`,
		`CREATE INDEX IF NOT EXISTS idx_workshop_members_user_id ON workshop_members(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_clients_workshop_id ON clients(workshop_id)`,
		`CREATE INDEX IF NOT EXISTS idx_vehicles_client_id ON vehicles(client_id)`,
		`CREATE INDEX IF NOT EXISTS idx_service_orders_workshop_id ON service_orders(workshop_id)`,
		`CREATE INDEX IF NOT EXISTS idx_service_orders_status ON service_orders(status)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_share_links_token ON share_links(token)`,
		`CREATE INDEX IF NOT EXISTS idx_share_links_order_id ON share_links(order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_workshop_id ON notifications(workshop_id)`,
		`CREATE INDEX IF NOT EXISTS idx_activity_logs_workshop_id ON activity_logs(workshop_id)`,
		`CREATE INDEX IF NOT EXISTS idx_invitations_token ON invitations(token)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	return nil
}
