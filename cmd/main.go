package main

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-logr/logr"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Ryan-Har/vibesession"
	"github.com/Ryan-Har/vibesession/internal/config"
	"github.com/Ryan-Har/vibesession/internal/logutil"
	"github.com/Ryan-Har/vibesession/pkg/activity"
	"github.com/Ryan-Har/vibesession/pkg/authapi"
	"github.com/Ryan-Har/vibesession/pkg/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// load logger
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logutil.ParseLevel(cfg.LogLevel),
	})
	logger := logr.FromSlogHandler(handler)

	//load db
	db, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		logger.Error(err, "opening database")
		os.Exit(1)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	bus := activity.NewBus(slog.New(handler))
	client := authapi.NewHTTPClient(cfg.APIBaseURL,
		authapi.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		authapi.WithLogger(slog.New(handler)),
	)

	v, err := vibesession.New(
		vibesession.WithSqliteDB(db),
		vibesession.WithLogr(logger),
		vibesession.WithAuthClient(client),
		vibesession.WithActivitySource(bus),
		vibesession.WithSessionConfig(cfg.Session()),
	)
	if err != nil {
		logger.Error(err, "starting vibesession")
		os.Exit(1)
	}
	defer v.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	v.Start(ctx)
	printStatus(v)

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			// every command is user interaction
			bus.Publish(activity.KeyPress)
			if !run(ctx, v, strings.Fields(line)) {
				return
			}
		}
	}
}

// run executes one command and reports whether the loop should continue.
func run(ctx context.Context, v *vibesession.Vibe, args []string) bool {
	if len(args) == 0 {
		return true
	}

	switch args[0] {
	case "login":
		if len(args) != 5 {
			fmt.Println("usage: login <id> <name> <email> <token>")
			return true
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			fmt.Println("id must be a number")
			return true
		}
		p := models.LoginParams{ID: id, Name: args[2], Email: args[3], Token: args[4]}
		if err := p.Validate(); err != nil {
			fmt.Println(err)
			return true
		}
		v.Session.Login(ctx, p)
	case "logout":
		v.Session.Logout(ctx, false)
	case "refresh":
		v.Session.RefreshUserData(ctx)
	case "status":
	case "quit", "exit":
		return false
	default:
		fmt.Println("commands: login, logout, refresh, status, quit")
		return true
	}

	printStatus(v)
	return true
}

func printStatus(v *vibesession.Vibe) {
	st := v.Session.Status()
	switch {
	case st.LoggedIn():
		fmt.Printf("signed in as %s <%s> (session %s, idle %s, expires in %s)\n",
			st.User.Name, st.User.Email, st.SessionID,
			st.IdleTime.Round(time.Second), st.RemainingTime.Round(time.Second))
	case st.Expired:
		fmt.Println("session expired, please sign in again")
	default:
		fmt.Println("signed out")
	}
}
