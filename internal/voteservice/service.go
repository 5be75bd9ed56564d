package voteservice

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

// listRequest asks for the GlobalIDs currently parked in Prepared.
type listRequest struct{}

type listResponse struct {
	GlobalIDs []string `json:"global_ids"`
}

// decideRequest delivers a global commit/abort decision for one transaction.
type decideRequest struct {
	GlobalID string `json:"global_id"`
	Commit   bool   `json:"commit"`
}

type decideResponse struct {
	GlobalID string `json:"global_id"`
	Status   string `json:"status"`
}

// jsonCodec marshals gRPC messages as JSON instead of protobuf, matching
// the wire format the rest of this hand-rolled service contract expects.
type jsonCodec struct{}

func (jsonCodec) Name() string                      { return "json" }
func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// VoteServer is implemented by a host that wants to expose its Prepared
// transactions to a remote global coordinator.
type VoteServer interface {
	ListPrepared(context.Context, *listRequest) (*listResponse, error)
	Decide(context.Context, *decideRequest) (*decideResponse, error)
}

// RegisterVoteServer wires srv into s under the tinyco.Vote service name,
// using a manually built grpc.ServiceDesc and a JSON codec rather than
// protoc-gen-go-grpc output.
func RegisterVoteServer(s *grpc.Server, srv VoteServer) {
	s.RegisterService(&grpc.ServiceDesc{
		ServiceName: "tinyco.Vote",
		HandlerType: (*VoteServer)(nil),
		Methods: []grpc.MethodDesc{
			{MethodName: "ListPrepared", Handler: _Vote_ListPrepared_Handler},
			{MethodName: "Decide", Handler: _Vote_Decide_Handler},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "tinyco",
	}, srv)
}

func _Vote_ListPrepared_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(listRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(VoteServer).ListPrepared(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/tinyco.Vote/ListPrepared"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(VoteServer).ListPrepared(ctx, req.(*listRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Vote_Decide_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(decideRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(VoteServer).Decide(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/tinyco.Vote/Decide"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(VoteServer).Decide(ctx, req.(*decideRequest))
	}
	return interceptor(ctx, in, info, handler)
}
