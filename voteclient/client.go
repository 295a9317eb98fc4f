// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voteclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aspc/vote/models"
)

const defaultTimeout = 15 * time.Second

// TransportError means the request never produced a usable response
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RejectedError is a non-2xx answer from the API. Message is the server's
// human-readable message.
type RejectedError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s: %d %s", e.Op, e.StatusCode, e.Message)
}

// Client talks to the voting API with a voter session
type Client struct {
	baseURL string
	session string
	http    *http.Client
}

// New creates a client. A nil httpClient gets a default with a timeout.
func New(baseURL, session string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: session,
		http:    httpClient,
	}
}

// GetElection fetches the current election
func (c *Client) GetElection(ctx context.Context) (models.Election, error) {
	var election models.Election
	err := c.do(ctx, "get election", http.MethodGet, "/api/voting/election", nil, &election)
	return election, err
}

// VoteStatus reports whether this voter has already voted
func (c *Client) VoteStatus(ctx context.Context, electionID string) (bool, error) {
	var resp models.VoteStatusResponse
	err := c.do(ctx, "get vote status", http.MethodGet, "/api/voting/votestatus/"+url.PathEscape(electionID), nil, &resp)
	return resp.HasVoted, err
}

// GetBallot fetches the candidates this voter may rank
func (c *Client) GetBallot(ctx context.Context, electionID string) ([]models.Candidate, error) {
	var resp models.BallotResponse
	err := c.do(ctx, "get ballot", http.MethodGet, "/api/voting/ballot/"+url.PathEscape(electionID), nil, &resp)
	return resp.Data, err
}

// CreateWriteIn finds or creates a write-in candidate
func (c *Client) CreateWriteIn(ctx context.Context, electionID string, req models.WriteInRequest) (models.Candidate, error) {
	var resp models.CandidateResponse
	err := c.do(ctx, "create write-in", http.MethodPost, "/api/voting/"+url.PathEscape(electionID)+"/write-in", req, &resp)
	return resp.Data, err
}

// SubmitVotes casts the ballot
func (c *Client) SubmitVotes(ctx context.Context, electionID string, votes []models.Vote) error {
	var resp models.StatusResponse
	return c.do(ctx, "submit votes", http.MethodPost, "/api/voting/"+url.PathEscape(electionID), models.SubmitVotesRequest{Votes: votes}, &resp)
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.AddCookie(&http.Cookie{Name: models.SessionCookie, Value: c.session})

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RejectedError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(resp.StatusCode, raw)}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	return nil
}

// errorMessage pulls the message out of an error envelope
func errorMessage(status int, raw []byte) string {
	var env models.ErrorResponse
	if err := json.Unmarshal(raw, &env); err == nil {
		if env.Message != "" {
			return env.Message
		}
		if env.Error != "" {
			return env.Error
		}
	}
	return http.StatusText(status)
}
