package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied in order by Migrate. Every statement is idempotent.
// Orders and private messages cascade with their account; quotes keep the
// requester's contact details and only lose the account link.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		first_name    VARCHAR(100) NOT NULL,
		last_name     VARCHAR(100) NOT NULL,
		email         VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		company       VARCHAR(255) NOT NULL DEFAULT '',
		phone         VARCHAR(50)  NOT NULL DEFAULT '',
		role          VARCHAR(20)  NOT NULL DEFAULT 'member',
		is_active     TINYINT(1)   NOT NULL DEFAULT 1,
		created_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS orders (
		id           BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		order_code   CHAR(8)        NOT NULL,
		title        VARCHAR(255)   NOT NULL,
		type         VARCHAR(100)   NOT NULL,
		status       VARCHAR(20)    NOT NULL DEFAULT 'pending',
		price        DECIMAL(12,2)  NOT NULL DEFAULT 0,
		description  TEXT           NOT NULL,
		progress     INT            NOT NULL DEFAULT 0,
		user_id      BIGINT UNSIGNED NOT NULL,
		created_at   DATETIME       NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at   DATETIME       NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		completed_at DATETIME       NULL,
		KEY idx_orders_user (user_id),
		KEY idx_orders_status (status),
		CONSTRAINT fk_orders_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS quotes (
		id                 BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		project_type       VARCHAR(100)  NOT NULL,
		features           TEXT          NOT NULL,
		budget             VARCHAR(100)  NOT NULL DEFAULT '',
		timeline           VARCHAR(100)  NOT NULL DEFAULT '',
		company            VARCHAR(255)  NOT NULL DEFAULT '',
		email              VARCHAR(255)  NOT NULL,
		phone              VARCHAR(50)   NOT NULL DEFAULT '',
		description        TEXT          NOT NULL,
		estimated_price    DECIMAL(12,2) NOT NULL DEFAULT 0,
		user_id            BIGINT UNSIGNED NULL,
		has_account        TINYINT(1)    NOT NULL DEFAULT 0,
		status             VARCHAR(20)   NOT NULL DEFAULT 'pending',
		admin_response     TEXT          NULL,
		admin_price        DECIMAL(12,2) NULL,
		admin_timeline     VARCHAR(100)  NULL,
		responded_at       DATETIME      NULL,
		client_response    VARCHAR(20)   NULL,
		client_message     TEXT          NULL,
		client_response_at DATETIME      NULL,
		created_at         DATETIME      NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at         DATETIME      NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_quotes_user (user_id),
		KEY idx_quotes_status (status),
		CONSTRAINT fk_quotes_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE SET NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS contacts (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name       VARCHAR(255) NOT NULL,
		email      VARCHAR(255) NOT NULL,
		company    VARCHAR(255) NOT NULL DEFAULT '',
		phone      VARCHAR(50)  NOT NULL DEFAULT '',
		subject    VARCHAR(255) NOT NULL,
		message    TEXT         NOT NULL,
		status     VARCHAR(20)  NOT NULL DEFAULT 'new',
		created_at DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_contacts_status (status)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS private_messages (
		id           BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		subject      VARCHAR(255) NOT NULL,
		message      TEXT         NOT NULL,
		sender_id    BIGINT UNSIGNED NOT NULL,
		recipient_id BIGINT UNSIGNED NOT NULL,
		is_read      TINYINT(1)   NOT NULL DEFAULT 0,
		created_at   DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_pm_recipient (recipient_id, is_read),
		CONSTRAINT fk_pm_sender FOREIGN KEY (sender_id) REFERENCES users(id) ON DELETE CASCADE,
		CONSTRAINT fk_pm_recipient FOREIGN KEY (recipient_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS site_content (
		id           BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		page_name    VARCHAR(100) NOT NULL,
		section_name VARCHAR(100) NOT NULL,
		content_type VARCHAR(50)  NOT NULL,
		content      MEDIUMTEXT   NOT NULL,
		is_active    TINYINT(1)   NOT NULL DEFAULT 1,
		created_at   DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at   DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_content_page (page_name, is_active)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates any missing table.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}
