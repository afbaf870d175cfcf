// Command tokengen mints an operator bearer token for the /api endpoints.
//
// Usage:
//
//	API_JWT_SECRET=... tokengen -subject oncall -ttl 720h
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"adherence-voice/internal/auth"
)

func main() {
	subject := flag.String("subject", "", "token subject (operator name)")
	ttl := flag.Duration("ttl", auth.DefaultTokenTTL, "token lifetime")
	flag.Parse()

	if *subject == "" {
		fmt.Fprintln(os.Stderr, "tokengen: -subject is required")
		flag.Usage()
		os.Exit(2)
	}

	secret := os.Getenv("API_JWT_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "tokengen: API_JWT_SECRET is required")
		os.Exit(1)
	}
	issuer := strings.TrimSpace(os.Getenv("API_JWT_ISSUER"))

	m, err := auth.NewManager(secret, issuer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tokengen: %v\n", err)
		os.Exit(1)
	}

	tok, err := m.Issue(time.Now(), *subject, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tokengen: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
