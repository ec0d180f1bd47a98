// cmd/adduser/main.go
//
// Provisions a player account: adduser -username alice -email a@b.c [-name "Alice"]
// Prompts the password on stdin rather than taking it as a flag.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"

	"github.com/misfortune-gg/misfortune/internal/database"
	"github.com/misfortune-gg/misfortune/internal/models"
)

func main() {
	username := flag.String("username", "", "login username (required)")
	email := flag.String("email", "", "email address (required)")
	name := flag.String("name", "", "display name (defaults to username)")
	flag.Parse()

	if *username == "" || *email == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *name == "" {
		*name = *username
	}

	fmt.Fprint(os.Stderr, "password: ")
	reader := bufio.NewReader(os.Stdin)
	password, err := reader.ReadString('\n')
	if err != nil {
		log.Fatalf("read password: %v", err)
	}
	password = strings.TrimRight(password, "\r\n")
	if password == "" {
		log.Fatal("empty password")
	}

	ctx := context.Background()
	pool, err := database.Connect(ctx)
	if err != nil {
		log.Fatalf("database connect: %v", err)
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	store := database.NewStore(pool)
	user := models.User{
		Username: *username,
		Email:    *email,
		Name:     *name,
		Password: password,
	}
	if err := store.CreateUser(ctx, &user); err != nil {
		log.Fatalf("create user: %v", err)
	}
	fmt.Printf("created user %s (%s)\n", user.Username, user.ID)
}
