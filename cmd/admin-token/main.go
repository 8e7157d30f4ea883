package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"legal-literacy-portal/internal/api/middleware"
	"legal-literacy-portal/internal/config"
)

func main() {
	subject := flag.String("subject", "", "staff member the token is issued to")
	ttl := flag.Duration("ttl", 12*time.Hour, "token lifetime")
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	if *subject == "" {
		fmt.Fprintln(os.Stderr, "-subject is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	token, err := middleware.IssueAdminToken(cfg.JWT, *subject, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to issue token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
