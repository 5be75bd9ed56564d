package voteservice

import (
	"context"
	"fmt"

	"github.com/localcommit/tinyco/internal/mvcc"
)

// Server implements VoteServer against a Registry, routing every decision
// through an Actor so it never touches the coordinator's state concurrently
// with the host's own goroutine.
type Server struct {
	reg   *Registry
	actor *mvcc.Actor
}

// NewServer builds a Server backed by reg, serializing every call through
// actor.
func NewServer(reg *Registry, actor *mvcc.Actor) *Server {
	return &Server{reg: reg, actor: actor}
}

func (s *Server) ListPrepared(ctx context.Context, _ *listRequest) (*listResponse, error) {
	var ids []string
	err := s.actor.Do(ctx, func() error {
		ids = s.reg.Prepared()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &listResponse{GlobalIDs: ids}, nil
}

func (s *Server) Decide(ctx context.Context, req *decideRequest) (*decideResponse, error) {
	var status mvcc.Status
	err := s.actor.Do(ctx, func() error {
		t, err := s.reg.Lookup(req.GlobalID)
		if err != nil {
			return err
		}

		if req.Commit {
			err = t.Commit()
		} else {
			err = t.Abort()
		}
		status = t.Status()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("voteservice: decide %q: %w", req.GlobalID, err)
	}
	return &decideResponse{GlobalID: req.GlobalID, Status: status.String()}, nil
}
