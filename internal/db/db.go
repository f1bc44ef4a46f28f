package db

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"workplace-access-backend/config"
	"workplace-access-backend/internal/model"
)

// Init initializes the database connection and runs migrations.
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)

	log.Println("Running database migrations...")
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("automigrate failed: %w", err)
	}

	if cfg.EnableConstraintDDL {
		log.Println("Applying admission-control constraint DDL...")
		if err := applyConstraintDDL(db); err != nil {
			log.Printf("Warning: failed to apply some constraint DDL: %v. Continuing without them.", err)
		}
	}

	log.Println("Database initialization complete.")
	return db, nil
}

// Migrate runs AutoMigrate for every entity. It is shared with the test
// databases, which use SQLite instead of Postgres.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Building{},
		&model.Space{},
		&model.User{},
		&model.Visitor{},
		&model.SecurityOfficer{},
		&model.Booking{},
		&model.BookingCheckIn{},
		&model.CheckIn{},
		&model.PushSubscription{},
	)
}

// applyConstraintDDL installs the Postgres constraints that back up the
// application-level admission checks (spaces are unique per building+kind
// via a tag-declared index; these cover the race windows AutoMigrate
// cannot express). The exclusion constraint converts the zero-padded
// "HH:MM" columns to minute ranges so overlapping active bookings on the
// same space and date are rejected at the storage layer.
func applyConstraintDDL(db *gorm.DB) error {
	ddls := []string{
		"CREATE EXTENSION IF NOT EXISTS btree_gist;",

		"ALTER TABLE bookings ADD CONSTRAINT bookings_interval_valid CHECK (start_time < end_time);",

		"ALTER TABLE bookings ADD CONSTRAINT bookings_no_active_overlap EXCLUDE USING GIST (" +
			"space_id WITH =, booking_date WITH =, " +
			"int4range(split_part(start_time, ':', 1)::int * 60 + split_part(start_time, ':', 2)::int, " +
			"split_part(end_time, ':', 1)::int * 60 + split_part(end_time, ':', 2)::int, '[)') WITH &&" +
			") WHERE (status IN ('pending', 'confirmed'));",

		"ALTER TABLE check_ins ADD CONSTRAINT check_ins_single_subject CHECK ((user_id IS NULL) <> (visitor_id IS NULL));",

		"CREATE UNIQUE INDEX IF NOT EXISTS idx_check_ins_active_user ON check_ins (user_id) " +
			"WHERE status <> 'checked_out' AND user_id IS NOT NULL;",

		"CREATE UNIQUE INDEX IF NOT EXISTS idx_check_ins_active_visitor ON check_ins (visitor_id) " +
			"WHERE status <> 'checked_out' AND visitor_id IS NOT NULL;",
	}

	for _, ddl := range ddls {
		if err := db.Exec(ddl).Error; err != nil {
			return fmt.Errorf("DDL failed on %q: %w", ddl, err)
		}
	}
	return nil
}
