// issue-token prints a signed bearer token for the tracker API.
//
// Usage:
//
//	API_SECRET=... go run ./cmd/issue-token -user meera -firm Acme -perms makePayment,billNotReceived -ttl 24h
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"bitbucket.org/mmdatafocus/indent_tracker/config"
	"bitbucket.org/mmdatafocus/indent_tracker/utils"
)

func main() {
	user := flag.String("user", "", "Required: username")
	firm := flag.String("firm", "", `Required: firmNameMatch, or "all"`)
	perms := flag.String("perms", "", "Optional: comma-separated gate keys")
	ttl := flag.Duration("ttl", 0, "Optional: token lifetime (default: TOKEN_HOUR_LIFESPAN)")
	flag.Parse()

	_ = godotenv.Load()

	if strings.TrimSpace(*user) == "" || strings.TrimSpace(*firm) == "" {
		fmt.Fprintln(os.Stderr, "-user and -firm are required")
		os.Exit(1)
	}
	if *ttl < 0 {
		fmt.Fprintln(os.Stderr, "-ttl must not be negative")
		os.Exit(1)
	}

	token, err := utils.JwtGenerate(strings.TrimSpace(*user), strings.TrimSpace(*firm), utils.UniqueSlice(config.SplitAndTrim(*perms)), *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to sign token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)

	if os.Getenv("API_SECRET") == "" {
		fmt.Fprintln(os.Stderr, "warning: API_SECRET is unset; token is signed with the development secret")
	}
}
