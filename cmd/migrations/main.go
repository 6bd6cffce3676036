package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"

	"github.com/vncsmyrnk/bookswap/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/bookswap/internal/config"
)

const usage = `usage: migrations <command> [args]

commands: up, up-by-one, up-to VERSION, down, down-to VERSION, redo, reset, status, version`

func main() {
	if len(os.Args) < 2 {
		log.Fatal(usage)
	}
	command, args := os.Args[1], os.Args[2:]

	db, err := sql.Open("postgres", config.LoadPostgres().DSN())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db, command, args...); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Migration command %q executed successfully.\n", command)
}
