package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verzel/leadflow/internal/config"
	"github.com/verzel/leadflow/internal/conversation"
	"github.com/verzel/leadflow/internal/lead"
	"github.com/verzel/leadflow/internal/logger"
	"github.com/verzel/leadflow/internal/slots"
	"github.com/verzel/leadflow/internal/version"
)

type cliOptions struct {
	configPath  string
	sessionID   string
	username    string
	password    string
	timeout     time.Duration
	apiBaseURL  string
	jwtToken    string
	showVersion bool
}

func main() {
	opts := parseFlags()
	if opts.showVersion {
		fmt.Printf("leadctl %s\n", version.GetInfo())
		return
	}
	ctx := context.Background()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Log.Level, cfg.Log.Format)

	if strings.TrimSpace(opts.apiBaseURL) == "" {
		opts.apiBaseURL = defaultAPIBaseURL(cfg.Server.Addr)
	}
	if strings.TrimSpace(opts.apiBaseURL) == "" {
		logger.Error("api url is required")
		os.Exit(1)
	}
	opts.apiBaseURL = normalizeBaseURL(opts.apiBaseURL)

	client := &http.Client{Timeout: opts.timeout}

	args := flag.Args()
	if len(args) > 0 && args[0] == "leads" {
		if err := runLeads(ctx, client, opts, cfg, args[1:]); err != nil {
			logger.Error("leads failed", slog.Any("error", err))
			os.Exit(1)
		}
		return
	}

	sessionID := strings.TrimSpace(opts.sessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
		fmt.Fprintf(os.Stdout, "session: %s\n", sessionID)
	}

	query := strings.TrimSpace(strings.Join(args, " "))
	if query != "" {
		if err := sendMessage(ctx, client, opts.apiBaseURL, sessionID, query); err != nil {
			logger.Error("chat failed", slog.Any("error", err))
			os.Exit(1)
		}
		return
	}
	if err := runInteractive(ctx, client, opts.apiBaseURL, sessionID); err != nil {
		logger.Error("chat failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func parseFlags() cliOptions {
	var opts cliOptions
	defaultConfig := os.Getenv("CONFIG_PATH")
	if strings.TrimSpace(defaultConfig) == "" {
		defaultConfig = config.DefaultConfigPath
	}

	flag.StringVar(&opts.configPath, "config", defaultConfig, "Path to config.toml")
	flag.StringVar(&opts.sessionID, "session", "", "Chat session id (generated when empty)")
	flag.StringVar(&opts.username, "username", "", "Username for login")
	flag.StringVar(&opts.password, "password", "", "Password for login (or set LEADFLOW_PASSWORD)")
	flag.StringVar(&opts.jwtToken, "jwt", "", "JWT token (optional)")
	flag.StringVar(&opts.apiBaseURL, "api-url", "", "API server base URL (e.g. http://127.0.0.1:8080)")
	flag.DurationVar(&opts.timeout, "timeout", 30*time.Second, "Request timeout")
	flag.BoolVar(&opts.showVersion, "version", false, "Show version information")
	flag.Parse()

	return opts
}

func normalizeBaseURL(value string) string {
	return strings.TrimRight(strings.TrimSpace(value), "/")
}

func defaultAPIBaseURL(addr string) string {
	trimmed := strings.TrimSpace(addr)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return normalizeBaseURL(trimmed)
	}
	if strings.HasPrefix(trimmed, ":") {
		return "http://127.0.0.1" + trimmed
	}
	return "http://" + trimmed
}

func resolveLoginCredentials(opts cliOptions, cfg config.Config) (string, string, error) {
	username := strings.TrimSpace(opts.username)
	if username == "" {
		username = strings.TrimSpace(cfg.Admin.Username)
	}
	if username == "" {
		return "", "", fmt.Errorf("username is required for login")
	}

	password := strings.TrimSpace(opts.password)
	if password == "" {
		password = strings.TrimSpace(os.Getenv("LEADFLOW_PASSWORD"))
	}
	if password == "" {
		if candidate := strings.TrimSpace(cfg.Admin.Password); candidate != "" && candidate != "change-your-password-here" {
			password = candidate
		}
	}
	if password == "" {
		return "", "", fmt.Errorf("password is required; pass --password or set LEADFLOW_PASSWORD")
	}
	return username, password, nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   string `json:"expires_at"`
	AccountID   string `json:"account_id"`
	Username    string `json:"username"`
}

func loginForToken(ctx context.Context, client *http.Client, baseURL, username, password string) (loginResponse, error) {
	body, err := json.Marshal(loginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return loginResponse{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return loginResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return loginResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(resp.Body)
		return loginResponse{}, fmt.Errorf("login failed: %s", strings.TrimSpace(string(payload)))
	}

	var parsed loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return loginResponse{}, err
	}
	return parsed, nil
}

func resolveJWTToken(ctx context.Context, client *http.Client, opts cliOptions, cfg config.Config) (string, error) {
	if token := strings.TrimSpace(opts.jwtToken); token != "" {
		return token, nil
	}
	username, password, err := resolveLoginCredentials(opts, cfg)
	if err != nil {
		return "", err
	}
	resp, err := loginForToken(ctx, client, opts.apiBaseURL, username, password)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.AccessToken) == "" {
		return "", fmt.Errorf("login succeeded but token missing")
	}
	return resp.AccessToken, nil
}

func runLeads(ctx context.Context, client *http.Client, opts cliOptions, cfg config.Config, args []string) error {
	jwtToken, err := resolveJWTToken(ctx, client, opts, cfg)
	if err != nil {
		return err
	}

	limit := 50
	if len(args) > 0 {
		if parsed, err := strconv.Atoi(args[0]); err == nil {
			limit = parsed
		}
	}

	endpoint := opts.apiBaseURL + "/leads?limit=" + strconv.Itoa(limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+jwtToken)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("api server error: %s", strings.TrimSpace(string(payload)))
	}

	var page lead.ListPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "%d lead(s), %d total\n", len(page.Leads), page.Total)
	for _, record := range page.Leads {
		line := fmt.Sprintf("%s  %-12s %s <%s>", record.CreatedAt.Format("2006-01-02 15:04"), record.Status, record.Name, record.Email)
		if record.MeetingLink != "" {
			line += "  " + record.MeetingLink
		}
		fmt.Fprintln(os.Stdout, line)
	}
	return nil
}

func runInteractive(ctx context.Context, client *http.Client, baseURL, sessionID string) error {
	start, err := startConversation(ctx, client, baseURL, sessionID)
	if err != nil {
		return err
	}
	for _, msg := range start.Messages {
		printMessage(msg)
	}

	var offered []slots.Slot

	reader := bufio.NewScanner(os.Stdin)
	reader.Buffer(make([]byte, 0, 64*1024), 2*1024*1024)

	fmt.Fprint(os.Stdout, "You: ")
	for reader.Scan() {
		line := strings.TrimSpace(reader.Text())
		if line == "" {
			fmt.Fprint(os.Stdout, "You: ")
			continue
		}
		lower := strings.ToLower(line)
		switch {
		case lower == "exit" || lower == "quit":
			return nil
		case lower == "/slots":
			offered, err = fetchSlots(ctx, client, baseURL, sessionID)
			if err != nil {
				fmt.Fprintf(os.Stdout, "! %v\n", err)
				break
			}
			if len(offered) == 0 {
				fmt.Fprintln(os.Stdout, "No slots available in the horizon.")
				break
			}
			for i, slot := range offered {
				fmt.Fprintf(os.Stdout, "  %d) %s\n", i+1, slot.Formatted)
			}
		case strings.HasPrefix(lower, "/schedule"):
			choice, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "/schedule")))
			if err != nil || choice < 1 || choice > len(offered) {
				fmt.Fprintln(os.Stdout, "Usage: /schedule <n> after listing slots with /slots.")
				break
			}
			conv, err := scheduleSlot(ctx, client, baseURL, sessionID, offered[choice-1])
			if err != nil {
				fmt.Fprintf(os.Stdout, "! %v\n", err)
				break
			}
			fmt.Fprintf(os.Stdout, "Booked: %s\n", conv.MeetingLink)
		default:
			if err := sendMessage(ctx, client, baseURL, sessionID, line); err != nil {
				return err
			}
		}
		fmt.Fprint(os.Stdout, "You: ")
	}
	return reader.Err()
}

func startConversation(ctx context.Context, client *http.Client, baseURL, sessionID string) (conversation.StartResult, error) {
	var result conversation.StartResult
	err := postJSON(ctx, client, baseURL+"/chat/start", map[string]string{"session_id": sessionID}, &result)
	return result, err
}

func sendMessage(ctx context.Context, client *http.Client, baseURL, sessionID, content string) error {
	var result conversation.TurnResult
	payload := map[string]string{
		"session_id": sessionID,
		"content":    content,
	}
	if err := postJSON(ctx, client, baseURL+"/chat/message", payload, &result); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Assistant: %s\n", result.Reply)
	return nil
}

func fetchSlots(ctx context.Context, client *http.Client, baseURL, sessionID string) ([]slots.Slot, error) {
	endpoint := baseURL + "/chat/slots?session_id=" + url.QueryEscape(sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("api server error: %s", strings.TrimSpace(string(payload)))
	}

	var offered []slots.Slot
	if err := json.NewDecoder(resp.Body).Decode(&offered); err != nil {
		return nil, err
	}
	return offered, nil
}

func scheduleSlot(ctx context.Context, client *http.Client, baseURL, sessionID string, slot slots.Slot) (conversation.Conversation, error) {
	var conv conversation.Conversation
	payload := map[string]any{
		"session_id": sessionID,
		"slot_start": slot.Start,
		"slot_end":   slot.End,
	}
	err := postJSON(ctx, client, baseURL+"/chat/schedule", payload, &conv)
	return conv, err
}

func postJSON(ctx context.Context, client *http.Client, endpoint string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("api server error: %s", strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func printMessage(msg conversation.Message) {
	label := "Assistant"
	if msg.Role == conversation.RoleUser {
		label = "You"
	}
	fmt.Fprintf(os.Stdout, "%s: %s\n", label, msg.Content)
}
