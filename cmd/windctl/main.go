// windctl is the operator CLI: db-init bootstraps the MongoDB
// collections and indexes, user-add registers admin accounts, ping
// checks a running server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/pwshub/wind/internal/config"
	mongostore "github.com/pwshub/wind/internal/store/mongo"
	"github.com/pwshub/wind/internal/weather"
)

const minPasswordLen = 8

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "db-init":
		err = runDBInit()
	case "user-add":
		err = runUserAdd(os.Args[2:])
	case "ping":
		err = runPing(os.Args[2:])
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: windctl <command> [flags]

Commands:
  db-init     initialize the database collections and indexes
  user-add    add an admin user (-name NAME)
  ping        check a running server (-url URL)
`)
}

func openDatabase(ctx context.Context) (*mongostore.Database, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return mongostore.Open(ctx, cfg.MongoDSN, cfg.MongoDB)
}

func runDBInit() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := openDatabase(ctx)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	if err := db.Init(ctx); err != nil {
		return err
	}
	fmt.Println("database initialized")
	return nil
}

func runUserAdd(args []string) error {
	fs := flag.NewFlagSet("user-add", flag.ExitOnError)
	name := fs.String("name", "", "name of the user")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" {
		return errors.New("user-add: -name is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := openDatabase(ctx)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	if _, err := db.Users.GetByName(ctx, *name); err == nil {
		return fmt.Errorf("user %s already exists", *name)
	} else if !errors.Is(err, weather.ErrNotFound) {
		return err
	}

	password, err := promptPassword("Password")
	if err != nil {
		return err
	}
	if len(password) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", minPasswordLen)
	}
	repeat, err := promptPassword("Repeat password")
	if err != nil {
		return err
	}
	if password != repeat {
		return errors.New("passwords do not match")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user, err := db.Users.Insert(ctx, weather.User{
		ID:       primitive.NewObjectID(),
		Name:     *name,
		Password: string(hash),
	})
	if err != nil {
		return err
	}

	fmt.Printf("user %s added with id %s\n", user.Name, user.ID.Hex())
	return nil
}

func runPing(args []string) error {
	fs := flag.NewFlagSet("ping", flag.ExitOnError)
	url := fs.String("url", "http://localhost:8080/health", "health endpoint to check")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client := &http.Client{Timeout: time.Second}
	resp, err := client.Get(*url)
	if err != nil {
		return fmt.Errorf("server is down: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server is down: status %d", resp.StatusCode)
	}
	fmt.Println("server is up")
	return nil
}

func promptPassword(label string) (string, error) {
	fmt.Printf("%s: ", label)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}
