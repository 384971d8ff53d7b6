package auth

import (
	"context"
	"strings"

	"github.com/dukerupert/rsvp/internal/apperr"
	"github.com/dukerupert/rsvp/internal/model"
	"github.com/dukerupert/rsvp/internal/store"
)

// LoginResult says where a host goes after logging in.
type LoginResult struct {
	Email string
	// Reused is set when an existing session for the same email was honoured
	// and no new session should be issued.
	Reused   bool
	NoEvents bool
	Redirect string
	Events   []model.Event
}

type LoginService struct {
	hosts  *store.HostStore
	events *store.EventStore
}

func NewLoginService(hosts *store.HostStore, events *store.EventStore) *LoginService {
	return &LoginService{hosts: hosts, events: events}
}

// Login checks a host's credentials. A token is needed only until it has
// been redeemed once; after that the host logs in with the email alone and
// presenting the spent token again is rejected.
func (s *LoginService) Login(ctx context.Context, email, token, currentSessionEmail string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	token = strings.TrimSpace(token)
	if email == "" {
		return nil, apperr.ErrInvalidCredentials
	}

	if currentSessionEmail != "" && currentSessionEmail == email {
		return s.resolve(ctx, email, true)
	}

	h, err := s.hosts.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Persistence("look up host", err)
	}
	if h == nil {
		return nil, apperr.ErrInvalidCredentials
	}

	if h.TokenUsed {
		if token != "" {
			return nil, apperr.ErrInvalidCredentials
		}
	} else {
		if token == "" {
			return nil, apperr.ErrTokenRequired
		}
		ok, err := s.hosts.Redeem(ctx, email, token)
		if err != nil {
			return nil, apperr.Persistence("redeem token", err)
		}
		if !ok {
			return nil, apperr.ErrInvalidCredentials
		}
	}

	return s.resolve(ctx, email, false)
}

func (s *LoginService) resolve(ctx context.Context, email string, reused bool) (*LoginResult, error) {
	events, err := s.events.ListActiveByHost(ctx, email)
	if err != nil {
		return nil, apperr.Persistence("list host events", err)
	}

	res := &LoginResult{Email: email, Reused: reused, Events: events}
	switch len(events) {
	case 0:
		res.NoEvents = true
	case 1:
		res.Redirect = "/dashboard/" + events[0].Slug
	default:
		res.Redirect = "/dashboard"
	}
	return res, nil
}
