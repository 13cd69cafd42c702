package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"golang.org/x/oauth2"

	"github.com/verzel/leadflow/internal/config"
	"github.com/verzel/leadflow/internal/db/sqlc"
)

// ErrUnauthenticated means no calendar credentials have been connected yet.
var ErrUnauthenticated = errors.New("calendar is not authenticated")

// tokenRowID keys the single credential row used by the service.
const tokenRowID = "google"

// Google OAuth2 endpoints and scope for Calendar access.
var googleEndpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.google.com/o/oauth2/auth",
	TokenURL: "https://oauth2.googleapis.com/token",
}

const calendarScope = "https://www.googleapis.com/auth/calendar"

// TokenStore persists the OAuth token in the database and hands out
// auto-refreshing HTTP clients.
type TokenStore struct {
	oauth   *oauth2.Config
	queries *sqlc.Queries
	logger  *slog.Logger
}

// NewTokenStore builds a TokenStore from config.
func NewTokenStore(log *slog.Logger, queries *sqlc.Queries, cfg config.CalendarConfig) *TokenStore {
	if log == nil {
		log = slog.Default()
	}
	return &TokenStore{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       []string{calendarScope},
			Endpoint:     googleEndpoint,
		},
		queries: queries,
		logger:  log.With(slog.String("service", "calendar_tokens")),
	}
}

// AuthURL returns the consent URL the admin opens to connect the calendar.
func (s *TokenStore) AuthURL() string {
	return s.oauth.AuthCodeURL("state", oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades the OAuth authorization code for tokens and persists them.
func (s *TokenStore) Exchange(ctx context.Context, code string) error {
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange code: %w", err)
	}
	if err := s.save(ctx, token); err != nil {
		return err
	}
	s.logger.Info("calendar connected", slog.Time("token_expiry", token.Expiry))
	return nil
}

// HTTPClient returns an HTTP client that attaches and refreshes the stored
// token. Refreshed tokens are written back so restarts keep working.
func (s *TokenStore) HTTPClient(ctx context.Context) (*http.Client, error) {
	stored, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	source := s.oauth.TokenSource(ctx, stored)
	return oauth2.NewClient(ctx, &savingTokenSource{
		ctx:      ctx,
		store:    s,
		source:   source,
		previous: stored,
	}), nil
}

func (s *TokenStore) load(ctx context.Context) (*oauth2.Token, error) {
	row, err := s.queries.GetCalendarToken(ctx, tokenRowID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("load calendar token: %w", err)
	}
	return &oauth2.Token{
		AccessToken:  row.AccessToken,
		RefreshToken: row.RefreshToken,
		TokenType:    row.TokenType,
		Expiry:       row.Expiry.Time,
	}, nil
}

func (s *TokenStore) save(ctx context.Context, token *oauth2.Token) error {
	tokenType := token.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	_, err := s.queries.UpsertCalendarToken(ctx, sqlc.UpsertCalendarTokenParams{
		ID:           tokenRowID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    tokenType,
		Expiry:       pgtype.Timestamptz{Time: token.Expiry, Valid: !token.Expiry.IsZero()},
	})
	if err != nil {
		return fmt.Errorf("save calendar token: %w", err)
	}
	return nil
}

// savingTokenSource writes refreshed tokens back to the store.
type savingTokenSource struct {
	ctx      context.Context
	store    *TokenStore
	source   oauth2.TokenSource
	previous *oauth2.Token
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.source.Token()
	if err != nil {
		return nil, err
	}
	if token.AccessToken != s.previous.AccessToken {
		if saveErr := s.store.save(s.ctx, token); saveErr != nil {
			s.store.logger.Warn("persist refreshed token failed", slog.String("error", saveErr.Error()))
		}
		s.previous = token
	}
	return token, nil
}
