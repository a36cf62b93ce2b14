// verify-api cross-checks the attendance analytics API against an
// independently recomputed expectation: it fetches the morning, evening,
// and combined views separately, derives the expected combined rates by
// summing session counts, and reports any date where the backend's own
// combined path disagrees.
//
// Exit status is the verdict: 0 when reconciliation passed, 1 on mismatch,
// authentication failure, or unexpected error.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/term"

	"github.com/dasschool/das-verify/internal/apiclient"
	"github.com/dasschool/das-verify/internal/config"
	"github.com/dasschool/das-verify/internal/logger"
	"github.com/dasschool/das-verify/internal/model"
	"github.com/dasschool/das-verify/internal/report"
	"github.com/dasschool/das-verify/internal/service"
)

func main() {
	cfg := config.Load()

	var (
		baseURL    string
		periodType string
		yearID     int
	)
	flag.StringVar(&baseURL, "base-url", cfg.APIBaseURL, "Attendance API base URL")
	flag.StringVar(&periodType, "period", cfg.PeriodType, "Period type (daily, weekly, monthly, yearly)")
	flag.IntVar(&yearID, "year", 0, "Academic year ID (default: the active year)")
	flag.Parse()

	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx := context.Background()

	password := cfg.APIPassword
	if password == "" && term.IsTerminal(int(syscall.Stdin)) {
		fmt.Printf("Password for %s: ", cfg.APIUsername)
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to read password")
		}
		password = string(raw)
	}

	client := apiclient.New(baseURL, cfg.APITimeout, log)

	// Authentication failure aborts the run: there is no partial
	// verification without credentials.
	if err := client.Login(ctx, cfg.APIUsername, password); err != nil {
		if errors.Is(err, apiclient.ErrAuthenticationFailed) {
			log.Error().Str("username", cfg.APIUsername).Msg("Authentication failed")
		} else {
			log.Error().Err(err).Msg("Login request failed")
		}
		os.Exit(1)
	}

	renderer := report.NewRenderer(os.Stdout)

	year, err := resolveYear(ctx, client, yearID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to resolve academic year")
	}
	renderer.Header("API attendance verification")
	renderer.AcademicYear(year)

	source := apiclient.NewSummarySource(client, year.ID, periodType)
	verification := service.NewVerificationService(source, log)
	rep := verification.Run(ctx)

	renderer.Render(rep)
	os.Exit(rep.Verdict.ExitCode())
}

func resolveYear(ctx context.Context, client *apiclient.Client, yearID int) (*model.AcademicYear, error) {
	years, err := client.AcademicYears(ctx)
	if err != nil {
		return nil, err
	}
	if yearID > 0 {
		for i := range years {
			if years[i].ID == yearID {
				return &years[i], nil
			}
		}
		return nil, fmt.Errorf("academic year %d not found", yearID)
	}

	year := model.ActiveAcademicYear(years)
	if year == nil {
		return nil, errors.New("no academic years found")
	}
	return year, nil
}
