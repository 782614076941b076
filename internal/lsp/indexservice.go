package lsp

import (
	"context"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
)

// indexProto is the wire schema for the out-of-process symbol index:
// one unary RPC, built and registered with no generated .proto-derived
// Go structs — the same protoreflect-dynamic pattern the teacher's
// builtins_grpc.go uses to let funxy scripts call arbitrary gRPC
// services without codegen, run here in reverse to serve one.
const indexProto = `
syntax = "proto3";
package funxy.index;

message LookupRequest {
  string name = 1;
}

message LookupResponse {
  bool found = 1;
  string type = 2;
  string def_file = 3;
}

service IndexService {
  rpc Lookup(LookupRequest) returns (LookupResponse);
}
`

// IndexServer exposes a Server's document index to out-of-process
// tooling (editors without a native LSP client, CI lint tooling) over
// gRPC, using a dynamic protobuf service descriptor parsed from
// indexProto at startup rather than generated bindings.
type IndexServer struct {
	srv *Server
	uri string // the document this index service answers queries against
}

func NewIndexServer(srv *Server, uri string) *IndexServer {
	return &IndexServer{srv: srv, uri: uri}
}

func parseIndexFileDescriptor() (*desc.FileDescriptor, error) {
	parser := protoparse.Parser{
		Accessor: func(filename string) (io.ReadCloser, error) {
			if filename != "index.proto" {
				return nil, fmt.Errorf("unknown import %q", filename)
			}
			return io.NopCloser(strings.NewReader(indexProto)), nil
		},
	}
	fds, err := parser.ParseFiles("index.proto")
	if err != nil {
		return nil, fmt.Errorf("parse index schema: %w", err)
	}
	return fds[0], nil
}

// Register builds a grpc.ServiceDesc from the parsed IndexService
// descriptor and attaches it to grpcServer, mirroring how the
// teacher's grpcRegister builtin wires a dynamic.Message-based handler
// into a *grpc.Server without a generated HandlerType.
func (ix *IndexServer) Register(grpcServer *grpc.Server) error {
	fd, err := parseIndexFileDescriptor()
	if err != nil {
		return err
	}
	sd := fd.FindService("funxy.index.IndexService")
	if sd == nil {
		return fmt.Errorf("IndexService not found in parsed descriptor")
	}

	desc := &grpc.ServiceDesc{
		ServiceName: sd.GetFullyQualifiedName(),
		HandlerType: (*interface{})(nil),
		Metadata:    fd.GetName(),
	}
	for _, method := range sd.GetMethods() {
		md := method
		desc.Methods = append(desc.Methods, grpc.MethodDesc{
			MethodName: md.GetName(),
			Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpc.UnaryServerInterceptor) (interface{}, error) {
				h := srv.(*IndexServer)
				return h.handleLookup(md, dec)
			},
		})
	}
	grpcServer.RegisterService(desc, ix)
	return nil
}

func (ix *IndexServer) handleLookup(md *desc.MethodDescriptor, dec func(interface{}) error) (interface{}, error) {
	req := dynamic.NewMessage(md.GetInputType())
	if err := dec(req); err != nil {
		return nil, err
	}
	name, _ := req.TryGetFieldByName("name")
	nameStr, _ := name.(string)

	resp := dynamic.NewMessage(md.GetOutputType())

	d := ix.srv.document(ix.uri)
	_, c, _ := d.snapshot()
	if c != nil {
		if info, _, ok := c.Scope.GetVar(nameStr); ok {
			_ = resp.TrySetFieldByName("found", true)
			_ = resp.TrySetFieldByName("type", info.Type.String())
			_ = resp.TrySetFieldByName("def_file", info.DefFile)
			return resp, nil
		}
	}
	_ = resp.TrySetFieldByName("found", false)
	return resp, nil
}

// Serve starts a gRPC listener exposing this document's index and
// blocks until the listener errors or the caller cancels ctx.
func (ix *IndexServer) Serve(ctx context.Context, addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	grpcServer := grpc.NewServer()
	if err := ix.Register(grpcServer); err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		grpcServer.GracefulStop()
	}()
	return grpcServer.Serve(lis)
}
