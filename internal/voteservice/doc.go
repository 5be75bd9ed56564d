// Package voteservice exposes a resource manager's Prepared transactions to
// a global transaction coordinator over gRPC.
//
// A resource manager parks a distributed transaction in Prepared and waits;
// this package lets a remote coordinator list what's waiting and deliver
// the commit/abort decision once it has heard back from every other
// participant. The wire contract is hand-rolled against
// google.golang.org/grpc, with a plain ServiceDesc and a JSON codec, rather
// than generated from a .proto file.
package voteservice
