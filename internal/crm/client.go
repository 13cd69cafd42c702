// Package crm syncs lead profiles into a Pipefy pipe.
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/verzel/leadflow/internal/config"
	"github.com/verzel/leadflow/internal/lead"
)

// Pipefy field ids of the lead pipe.
const (
	fieldName              = "nome"
	fieldEmail             = "e_mail"
	fieldCompany           = "empresa"
	fieldPhone             = "telefone"
	fieldNeed              = "necessidade"
	fieldDeadline          = "prazo"
	fieldInterestConfirmed = "interesse_confirmado"
	fieldMeetingLink       = "meeting_link"
)

// fallbackName titles cards for leads that have not given a name yet.
const fallbackName = "Lead sem nome"

// CardFields is the card payload derived from a lead profile.
type CardFields struct {
	Snapshot    lead.Snapshot
	MeetingLink string
}

// Client calls the Pipefy GraphQL API.
type Client struct {
	apiURL   string
	apiToken string
	pipeID   string
	logger   *slog.Logger
	http     *http.Client
}

// NewClient builds a Pipefy client from config.
func NewClient(log *slog.Logger, cfg config.CRMConfig) (*Client, error) {
	if strings.TrimSpace(cfg.APIToken) == "" {
		return nil, fmt.Errorf("crm client: api token is required")
	}
	if strings.TrimSpace(cfg.PipeID) == "" {
		return nil, fmt.Errorf("crm client: pipe id is required")
	}
	if log == nil {
		log = slog.Default()
	}
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = "https://api.pipefy.com/graphql"
	}
	return &Client{
		apiURL:   apiURL,
		apiToken: cfg.APIToken,
		pipeID:   cfg.PipeID,
		logger:   log.With(slog.String("client", "crm")),
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}, nil
}

const createCardMutation = `mutation($input: CreateCardInput!) {
  createCard(input: $input) {
    card { id title }
  }
}`

// CreateCard creates a card for the lead and returns its id.
func (c *Client) CreateCard(ctx context.Context, fields CardFields) (string, error) {
	pipeID, err := strconv.ParseInt(c.pipeID, 10, 64)
	if err != nil {
		return "", fmt.Errorf("crm client: invalid pipe id %q", c.pipeID)
	}
	input := map[string]any{
		"pipe_id":           pipeID,
		"fields_attributes": fieldAttributes(fields, true),
	}
	var result struct {
		CreateCard struct {
			Card struct {
				ID string `json:"id"`
			} `json:"card"`
		} `json:"createCard"`
	}
	if err := c.post(ctx, createCardMutation, map[string]any{"input": input}, &result); err != nil {
		return "", err
	}
	if result.CreateCard.Card.ID == "" {
		return "", fmt.Errorf("create card: response missing card id")
	}
	return result.CreateCard.Card.ID, nil
}

const updateCardMutation = `mutation($input: UpdateFieldsValuesInput!) {
  updateFieldsValues(input: $input) {
    success
  }
}`

// UpdateCard rewrites the card's lead fields.
func (c *Client) UpdateCard(ctx context.Context, cardID string, fields CardFields) error {
	values := make([]map[string]any, 0, 8)
	for _, attr := range fieldAttributes(fields, false) {
		values = append(values, map[string]any{
			"fieldId": attr["field_id"],
			"value":   attr["field_value"],
		})
	}
	if len(values) == 0 {
		return nil
	}
	input := map[string]any{
		"nodeId": cardID,
		"values": values,
	}
	var result struct {
		UpdateFieldsValues struct {
			Success bool `json:"success"`
		} `json:"updateFieldsValues"`
	}
	if err := c.post(ctx, updateCardMutation, map[string]any{"input": input}, &result); err != nil {
		return err
	}
	if !result.UpdateFieldsValues.Success {
		return fmt.Errorf("update card: not applied")
	}
	return nil
}

// fieldAttributes maps the profile to Pipefy field attributes. When full is
// true every field is sent (create); otherwise empty fields are skipped so an
// update never blanks values already on the card.
func fieldAttributes(fields CardFields, full bool) []map[string]any {
	snap := fields.Snapshot
	name := snap.Name
	if name == "" {
		name = fallbackName
	}

	attrs := make([]map[string]any, 0, 8)
	add := func(id, value string) {
		if value == "" && !full {
			return
		}
		attrs = append(attrs, map[string]any{"field_id": id, "field_value": value})
	}
	add(fieldName, name)
	add(fieldEmail, snap.Email)
	add(fieldCompany, snap.Company)
	add(fieldPhone, snap.Phone)
	add(fieldNeed, snap.Need)
	add(fieldDeadline, snap.Deadline)
	attrs = append(attrs, map[string]any{
		"field_id":    fieldInterestConfirmed,
		"field_value": strconv.FormatBool(snap.InterestConfirmed),
	})
	add(fieldMeetingLink, fields.MeetingLink)
	return attrs
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

func (c *Client) post(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("crm error (%d): %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var parsed struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphqlError  `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return err
	}
	if len(parsed.Errors) > 0 {
		return fmt.Errorf("crm error: %s", parsed.Errors[0].Message)
	}
	if out != nil {
		if err := json.Unmarshal(parsed.Data, out); err != nil {
			return err
		}
	}
	return nil
}
