package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"cruxed/config"

	_ "github.com/lib/pq"
)

// Standalone migration runner. The app itself auto-migrates its tables on
// startup; this exists for schema changes that gorm cannot express, shipped
// as numbered .sql files next to this file.
func main() {
	cfg := config.Env()
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable search_path=cruxed",
		cfg.DatabaseHost,
		cfg.DatabasePort,
		cfg.PostgresUser,
		cfg.PostgresPassword,
		cfg.DatabaseName,
	)
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	version, err := currentVersion(db)
	if err != nil {
		log.Fatal(err)
	}
	for {
		version++
		if err := apply(db, version); err != nil {
			break
		}
	}
}

func apply(db *sql.DB, version int) error {
	file, err := os.ReadFile(fmt.Sprintf("migrations/%d.sql", version))
	if err != nil {
		fmt.Println("Cannot migrate further up")
		return err
	}
	if _, err := db.Exec(string(file)); err != nil {
		fmt.Printf("error executing migration %d: %v\n", version, err)
		return err
	}
	if _, err := db.Exec("UPDATE migrations SET version = $1", version); err != nil {
		fmt.Printf("error updating migration version: %v\n", err)
		return err
	}
	fmt.Printf("Migrated to version %d\n", version)
	return nil
}

func currentVersion(db *sql.DB) (version int, err error) {
	db.Exec("CREATE SCHEMA IF NOT EXISTS cruxed;")
	err = db.QueryRow("SELECT version FROM migrations").Scan(&version)
	if err != nil {
		_, err = db.Exec(`
			CREATE TABLE IF NOT EXISTS migrations (
				version INTEGER NOT NULL
			);
			INSERT INTO migrations (version) VALUES (0);
		`)
		return 0, err
	}
	return version, nil
}
