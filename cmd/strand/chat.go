package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/strandchat/strand/internal/chat"
	"github.com/strandchat/strand/internal/session"
	"github.com/strandchat/strand/modules/store/sqlite"
)

func chatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to a running gateway from the terminal",
		Long: `Chat opens a line-oriented conversation against a running gateway.
Sessions persist locally; the most recent one resumes automatically.

Commands inside the loop:
  /new            start a fresh session
  /sessions       list stored sessions
  /switch <id>    activate a stored session
  /clear          delete all stored sessions
  /quit           exit`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			endpoint, _ := cmd.Flags().GetString("gateway")
			limit, _ := cmd.Flags().GetInt("history-limit")
			dbPath, _ := cmd.Flags().GetString("db")
			if dbPath == "" {
				dbPath = filepath.Join(defaultDataDir(), "sessions.db")
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelWarn,
			}))

			slot, err := sqlite.Open(dbPath, limit, logger)
			if err != nil {
				return err
			}
			defer func() { _ = slot.Close() }()

			store := session.NewStore(slot, limit, logger)
			mgr := session.NewManager(store, session.NewHTTPCompleter(endpoint), logger)

			username := os.Getenv("USER")
			if username == "" {
				username = "you"
			}
			mgr.SetAccess(true, username)

			notify := make(chan struct{}, 1)
			mgr.SetNotify(func() {
				select {
				case notify <- struct{}{}:
				default:
				}
			})

			mgr.Init(cmd.Context())
			return chatLoop(cmd, mgr, notify)
		},
	}
	cmd.Flags().String("gateway", "http://127.0.0.1:8080/chat", "Gateway chat endpoint")
	cmd.Flags().Int("history-limit", 0, "Messages kept per session (0 = default)")
	cmd.Flags().String("db", "", "Path to the session database")
	return cmd
}

func chatLoop(cmd *cobra.Command, mgr *session.Manager, notify <-chan struct{}) error {
	out := cmd.OutOrStdout()

	v := mgr.View()
	if v.ActiveSessionID != "" {
		fmt.Fprintf(out, "Resuming session %s (%d messages). /quit to exit.\n",
			shortID(v.ActiveSessionID), len(v.Messages))
		printMessages(out, v.Messages)
	} else {
		fmt.Fprintln(out, "New conversation. /quit to exit.")
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Fprintf(out, "%s> ", mgr.View().Username)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue
		case line == "/quit":
			return nil
		case line == "/new":
			mgr.StartNewSession()
			fmt.Fprintln(out, "Started a new session.")
		case line == "/sessions":
			printSummaries(out, mgr.View())
		case strings.HasPrefix(line, "/switch "):
			id := strings.TrimSpace(strings.TrimPrefix(line, "/switch "))
			mgr.SwitchSession(resolveShortID(mgr.View().Sessions, id))
			printMessages(out, mgr.View().Messages)
		case line == "/clear":
			mgr.ClearAll(cmd.Context())
			fmt.Fprintln(out, "All sessions deleted.")
		case strings.HasPrefix(line, "/"):
			fmt.Fprintf(out, "Unknown command %q.\n", line)
		default:
			if !mgr.Submit(line) {
				fmt.Fprintln(out, "Busy — previous reply still pending.")
				continue
			}
			v := waitIdle(mgr, notify)
			if n := len(v.Messages); n > 0 {
				printMessage(out, v.Messages[n-1])
			}
		}
	}
}

// waitIdle blocks until the in-flight submission settles.
func waitIdle(mgr *session.Manager, notify <-chan struct{}) session.View {
	for {
		v := mgr.View()
		if !v.Loading {
			return v
		}
		select {
		case <-notify:
		case <-time.After(250 * time.Millisecond):
		}
	}
}

func printSummaries(out io.Writer, v session.View) {
	if len(v.Sessions) == 0 {
		fmt.Fprintln(out, "No stored sessions.")
		return
	}
	for _, s := range v.Sessions {
		marker := " "
		if s.ID == v.ActiveSessionID {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %s  %s  %s\n",
			marker, shortID(s.ID), s.LastUpdate.Local().Format("2006-01-02 15:04"), s.FirstPrompt)
	}
}

func printMessages(out io.Writer, msgs []chat.Message) {
	for _, msg := range msgs {
		printMessage(out, msg)
	}
}

func printMessage(out io.Writer, msg chat.Message) {
	fmt.Fprintf(out, "%s> %s\n", msg.Role, msg.Content)
}

// shortID keeps session ids readable in terminal output.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// resolveShortID maps a shortened id back to a full one when the prefix is
// unambiguous; otherwise the input passes through unchanged.
func resolveShortID(sessions []chat.Summary, id string) string {
	var match string
	for _, s := range sessions {
		if strings.HasPrefix(s.ID, id) {
			if match != "" {
				return id
			}
			match = s.ID
		}
	}
	if match == "" {
		return id
	}
	return match
}
