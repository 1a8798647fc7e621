package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/PoYuTsai/TravelAPP-sub000/internal/utils"
)

// Client calls ItineraryService over an existing connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Call invokes method with req encoded as a Struct and decodes the reply
// into resp when resp is non-nil.
func (c *Client) Call(ctx context.Context, method string, req, resp any, opts ...grpc.CallOption) error {
	in, err := utils.ToStruct(req)
	if err != nil {
		return err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return err
	}
	if resp == nil {
		return nil
	}
	return utils.FromStruct(out, resp)
}
