//go:build ignore
// +build ignore

// Package main provides a manual concurrency stress test for the loan endpoint.
//
// Usage:
//
//	go run ./scripts/concurrency_test.go <user_id> <book_id> [requests]
//
// Or use the convenience environment variables:
//
//	USER_ID=<id>  BOOK_ID=<id>  REQUESTS=20  go run ./scripts/concurrency_test.go
//
// What it does:
//  1. Fires N goroutines all requesting a loan of the same book for the same user at once.
//  2. Prints how many were accepted and how many were refused by the 30-day cooldown.
//  3. Reads /admin/books/{book_id} and counts the loans recorded for the user today.
//
// The cooldown check and the insert take no locks, so more than one loan per day is a
// possible outcome under load. The script reports it rather than failing.
//
// Prerequisites:
//   - Server must be running and reachable at SERVER_ADDR.
//   - The user and the book must exist, and the user must not have borrowed the book
//     in the last 30 days.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"
)

const (
	defaultServerAddr = "http://localhost:8080"
	defaultRequests   = 20
)

type loanResult struct {
	StatusCode int
	Message    string
	Err        error
}

func main() {
	serverAddr := os.Getenv("SERVER_ADDR")
	if serverAddr == "" {
		serverAddr = defaultServerAddr
	}

	userID := os.Getenv("USER_ID")
	bookID := os.Getenv("BOOK_ID")
	requests := defaultRequests
	if raw := os.Getenv("REQUESTS"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			log.Fatalf("REQUESTS must be a positive integer, got %q", raw)
		}
		requests = n
	}

	// Support positional args: script <user_id> <book_id> [requests]
	args := os.Args[1:]
	if len(args) >= 2 {
		userID, bookID = args[0], args[1]
	}
	if len(args) >= 3 {
		n, err := strconv.Atoi(args[2])
		if err != nil || n <= 0 {
			log.Fatalf("requests must be a positive integer, got %q", args[2])
		}
		requests = n
	}

	if userID == "" || bookID == "" {
		log.Fatal("Usage: USER_ID=<id> BOOK_ID=<id> go run ./scripts/concurrency_test.go\n" +
			"  or: go run ./scripts/concurrency_test.go <user_id> <book_id> [requests]")
	}

	fmt.Printf("=== Library Loan Concurrency Test ===\n")
	fmt.Printf("Server   : %s\n", serverAddr)
	fmt.Printf("User     : %s\n", userID)
	fmt.Printf("Book     : %s\n", bookID)
	fmt.Printf("Requests : %d\n\n", requests)

	client := &http.Client{Timeout: 10 * time.Second}
	results := make([]loanResult, requests)
	var wg sync.WaitGroup

	// Fire all goroutines simultaneously using a barrier.
	start := make(chan struct{})

	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			<-start
			results[idx] = attemptLoan(client, serverAddr, userID, bookID)
		}(i)
	}

	fmt.Println("Firing all requests simultaneously...")
	close(start)

	wg.Wait()
	fmt.Println("All requests completed.")
	fmt.Println()

	var accepted, refused, failures int
	for i, r := range results {
		switch {
		case r.Err != nil:
			failures++
			fmt.Printf("  [ERR ] #%02d err=%v\n", i, r.Err)
		case r.StatusCode == http.StatusOK:
			accepted++
			fmt.Printf("  [LOAN] #%02d status=%d\n", i, r.StatusCode)
		case r.StatusCode == http.StatusBadRequest:
			refused++
			fmt.Printf("  [BUSY] #%02d status=%d error=%q\n", i, r.StatusCode, r.Message)
		default:
			failures++
			fmt.Printf("  [FAIL] #%02d status=%d error=%q\n", i, r.StatusCode, r.Message)
		}
	}

	fmt.Printf("\n--- Summary ---\n")
	fmt.Printf("Accepted : %d\n", accepted)
	fmt.Printf("Refused  : %d\n", refused)
	fmt.Printf("Failures : %d\n", failures)
	fmt.Printf("Total    : %d\n\n", requests)

	fmt.Println("--- Recorded Loans ---")
	recorded, err := loansToday(client, serverAddr, userID, bookID)
	if err != nil {
		log.Fatalf("could not read loan history: %v", err)
	}
	fmt.Printf("Loans recorded today for user %s: %d\n", userID, recorded)
	if recorded > 1 {
		fmt.Println("More than one loan passed the cooldown check concurrently.")
	}

	if failures > 0 {
		fmt.Printf("\n[WARNING] %d request(s) failed; check server logs for details.\n", failures)
		os.Exit(1)
	}
}

// attemptLoan sends POST /users/{userID}/books/{bookID} and captures the status
// and error message, if any.
func attemptLoan(client *http.Client, serverAddr, userID, bookID string) loanResult {
	url := fmt.Sprintf("%s/users/%s/books/%s", serverAddr, userID, bookID)

	resp, err := client.Post(url, "application/x-www-form-urlencoded", nil)
	if err != nil {
		return loanResult{Err: err}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	var parsed struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return loanResult{StatusCode: resp.StatusCode, Err: fmt.Errorf("bad JSON: %s", raw)}
	}
	return loanResult{StatusCode: resp.StatusCode, Message: parsed.Error}
}

// loansToday counts the user's loans of the book dated today, as reported by
// the admin book endpoint.
func loansToday(client *http.Client, serverAddr, userID, bookID string) (int, error) {
	resp, err := client.Get(fmt.Sprintf("%s/admin/books/%s", serverAddr, bookID))
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var book struct {
		Loans []struct {
			UserID   uint64 `json:"user_id"`
			LoanDate string `json:"loan_date"`
		} `json:"loans"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&book); err != nil {
		return 0, err
	}

	uid, err := strconv.ParseUint(userID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("user id %q is not numeric", userID)
	}
	today := time.Now().Format("2006-01-02")

	count := 0
	for _, loan := range book.Loans {
		if loan.UserID == uid && loan.LoanDate == today {
			count++
		}
	}
	return count, nil
}
