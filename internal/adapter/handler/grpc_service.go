package handler

import (
	"context"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc"

	"github.com/rl1809/pos-journal/internal/core/analytics"
	"github.com/rl1809/pos-journal/internal/core/domain"
)

const JournalServiceName = "posjournal.v1.Journal"

type AddToCartRequest struct {
	ItemName string `json:"itemName"`
	Quantity int    `json:"quantity"`
}

type CheckoutRequest struct {
	// SaleDate is YYYY-MM-DD; empty records the sale at the current time.
	SaleDate string `json:"saleDate,omitempty"`
}

type DeleteTransactionRequest struct {
	ID string `json:"id"`
}

type SummaryRequest struct {
	Period string `json:"period,omitempty"`
}

type Empty struct{}

type CartReply struct {
	Items   []domain.CartLine `json:"items"`
	Total   decimal.Decimal   `json:"total"`
	Durable bool              `json:"durable"`
}

type SaleReply struct {
	Sale    domain.Sale `json:"sale"`
	Durable bool        `json:"durable"`
}

type DeleteTransactionReply struct {
	Deleted bool `json:"deleted"`
	Durable bool `json:"durable"`
}

type JournalServer interface {
	AddToCart(context.Context, *AddToCartRequest) (*CartReply, error)
	ClearCart(context.Context, *Empty) (*CartReply, error)
	Checkout(context.Context, *CheckoutRequest) (*SaleReply, error)
	DeleteTransaction(context.Context, *DeleteTransactionRequest) (*DeleteTransactionReply, error)
	GetCart(context.Context, *Empty) (*CartReply, error)
	Summary(context.Context, *SummaryRequest) (*analytics.Dashboard, error)
}

func RegisterJournalServer(s grpc.ServiceRegistrar, srv JournalServer) {
	s.RegisterService(&journalServiceDesc, srv)
}

var journalServiceDesc = grpc.ServiceDesc{
	ServiceName: JournalServiceName,
	HandlerType: (*JournalServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "AddToCart", Handler: unaryHandler("AddToCart", JournalServer.AddToCart)},
		{MethodName: "ClearCart", Handler: unaryHandler("ClearCart", JournalServer.ClearCart)},
		{MethodName: "Checkout", Handler: unaryHandler("Checkout", JournalServer.Checkout)},
		{MethodName: "DeleteTransaction", Handler: unaryHandler("DeleteTransaction", JournalServer.DeleteTransaction)},
		{MethodName: "GetCart", Handler: unaryHandler("GetCart", JournalServer.GetCart)},
		{MethodName: "Summary", Handler: unaryHandler("Summary", JournalServer.Summary)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "posjournal/v1/journal",
}

func unaryHandler[Req, Resp any](method string, call func(JournalServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	fullMethod := "/" + JournalServiceName + "/" + method

	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(JournalServer), ctx, in)
		}

		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(JournalServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// JournalClient calls the journal service over a connection using the JSON
// codec.
type JournalClient struct {
	cc grpc.ClientConnInterface
}

func NewJournalClient(cc grpc.ClientConnInterface) *JournalClient {
	return &JournalClient{cc: cc}
}

func (c *JournalClient) invoke(ctx context.Context, method string, in, out any, opts ...grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(JSONCodecName)}, opts...)
	return c.cc.Invoke(ctx, "/"+JournalServiceName+"/"+method, in, out, opts...)
}

func (c *JournalClient) AddToCart(ctx context.Context, in *AddToCartRequest, opts ...grpc.CallOption) (*CartReply, error) {
	out := new(CartReply)
	if err := c.invoke(ctx, "AddToCart", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *JournalClient) ClearCart(ctx context.Context, opts ...grpc.CallOption) (*CartReply, error) {
	out := new(CartReply)
	if err := c.invoke(ctx, "ClearCart", &Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *JournalClient) Checkout(ctx context.Context, in *CheckoutRequest, opts ...grpc.CallOption) (*SaleReply, error) {
	out := new(SaleReply)
	if err := c.invoke(ctx, "Checkout", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *JournalClient) DeleteTransaction(ctx context.Context, in *DeleteTransactionRequest, opts ...grpc.CallOption) (*DeleteTransactionReply, error) {
	out := new(DeleteTransactionReply)
	if err := c.invoke(ctx, "DeleteTransaction", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *JournalClient) GetCart(ctx context.Context, opts ...grpc.CallOption) (*CartReply, error) {
	out := new(CartReply)
	if err := c.invoke(ctx, "GetCart", &Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *JournalClient) Summary(ctx context.Context, in *SummaryRequest, opts ...grpc.CallOption) (*analytics.Dashboard, error) {
	out := new(analytics.Dashboard)
	if err := c.invoke(ctx, "Summary", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
