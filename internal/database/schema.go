package database

import (
	"context"
	"database/sql"
)

// statements creates the schema when it does not exist yet.  Ownership
// rules are enforced at the storage layer: photos, options, option
// values and reservations cascade with their owners, while a category
// cannot be deleted while resources still reference it (RESTRICT).
// The unique key on profiles.subject_id is what makes concurrent
// get-or-create safe across processes.
var statements = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		subject_id  VARCHAR(255) NOT NULL,
		email       VARCHAR(255) NOT NULL DEFAULT '',
		first_name  VARCHAR(150) NULL,
		last_name   VARCHAR(150) NULL,
		is_admin    TINYINT(1) NOT NULL DEFAULT 0,
		created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_profiles_subject (subject_id)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS categories (
		id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name        VARCHAR(100) NOT NULL,
		slug        VARCHAR(100) NOT NULL,
		is_active   TINYINT(1) NOT NULL DEFAULT 1,
		parent_id   BIGINT UNSIGNED NULL,
		created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_categories_slug (slug),
		CONSTRAINT fk_categories_parent FOREIGN KEY (parent_id)
			REFERENCES categories (id) ON DELETE CASCADE
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS resources (
		id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		category_id BIGINT UNSIGNED NOT NULL,
		name        VARCHAR(150) NOT NULL,
		description TEXT NOT NULL,
		is_active   TINYINT(1) NOT NULL DEFAULT 1,
		created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_resources_category FOREIGN KEY (category_id)
			REFERENCES categories (id) ON DELETE RESTRICT
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS resource_photos (
		id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		resource_id BIGINT UNSIGNED NOT NULL,
		image_url   VARCHAR(500) NOT NULL,
		position    INT UNSIGNED NOT NULL DEFAULT 0,
		created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_photos_resource FOREIGN KEY (resource_id)
			REFERENCES resources (id) ON DELETE CASCADE
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS resource_options (
		id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		resource_id BIGINT UNSIGNED NOT NULL,
		name        VARCHAR(100) NOT NULL,
		created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_options_resource FOREIGN KEY (resource_id)
			REFERENCES resources (id) ON DELETE CASCADE
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS resource_option_values (
		id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		option_id   BIGINT UNSIGNED NOT NULL,
		value       VARCHAR(100) NOT NULL,
		created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_values_option FOREIGN KEY (option_id)
			REFERENCES resource_options (id) ON DELETE CASCADE
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id           BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		resource_id  BIGINT UNSIGNED NOT NULL,
		requester_id VARCHAR(255) NOT NULL,
		status       ENUM('pending','confirmed','cancelled') NOT NULL DEFAULT 'pending',
		created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_reservations_requester (requester_id),
		CONSTRAINT fk_reservations_resource FOREIGN KEY (resource_id)
			REFERENCES resources (id) ON DELETE CASCADE
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS reservation_options (
		reservation_id  BIGINT UNSIGNED NOT NULL,
		option_value_id BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (reservation_id, option_value_id),
		CONSTRAINT fk_resopts_reservation FOREIGN KEY (reservation_id)
			REFERENCES reservations (id) ON DELETE CASCADE,
		CONSTRAINT fk_resopts_value FOREIGN KEY (option_value_id)
			REFERENCES resource_option_values (id) ON DELETE CASCADE
	) ENGINE=InnoDB`,
}

// EnsureSchema applies the table definitions idempotently.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
