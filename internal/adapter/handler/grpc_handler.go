package handler

import (
	"context"
	"errors"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/rl1809/pos-journal/internal/core/analytics"
	"github.com/rl1809/pos-journal/internal/core/domain"
	"github.com/rl1809/pos-journal/internal/core/service"
	"github.com/rl1809/pos-journal/internal/logger"
)

type GRPCHandler struct {
	posService *service.POSService
	log        *logger.Logger
}

var _ JournalServer = (*GRPCHandler)(nil)

func NewGRPCHandler(posService *service.POSService, log *logger.Logger) *GRPCHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &GRPCHandler{posService: posService, log: log}
}

// NewGRPCServer builds a server with the journal and health services
// registered. The health server reports SERVING for the journal.
func NewGRPCServer(h *GRPCHandler, opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(h.logUnary)}, opts...)
	srv := grpc.NewServer(opts...)

	RegisterJournalServer(srv, h)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(srv, healthServer)
	healthServer.SetServingStatus(JournalServiceName, healthpb.HealthCheckResponse_SERVING)

	return srv, healthServer
}

func (h *GRPCHandler) logUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := next(ctx, req)

	ctx = h.log.WithFields(ctx, map[string]any{
		"method":      info.FullMethod,
		"code":        status.Code(err).String(),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	if status.Code(err) == codes.Internal {
		h.log.Error(ctx, "rpc failed", err)
	} else {
		h.log.Info(ctx, "rpc complete")
	}
	return resp, err
}

func (h *GRPCHandler) AddToCart(ctx context.Context, req *AddToCartRequest) (*CartReply, error) {
	_, err := h.posService.AddToCart(ctx, req.ItemName, req.Quantity)
	if err != nil && !service.IsPersistence(err) {
		return nil, toStatus(err)
	}
	return h.cartReply(err), nil
}

func (h *GRPCHandler) ClearCart(ctx context.Context, _ *Empty) (*CartReply, error) {
	err := h.posService.ClearCart(ctx)
	if err != nil && !service.IsPersistence(err) {
		return nil, toStatus(err)
	}
	return h.cartReply(err), nil
}

func (h *GRPCHandler) GetCart(ctx context.Context, _ *Empty) (*CartReply, error) {
	return h.cartReply(nil), nil
}

func (h *GRPCHandler) cartReply(persistErr error) *CartReply {
	return &CartReply{
		Items:   h.posService.Cart(),
		Total:   h.posService.CartTotal(),
		Durable: persistErr == nil,
	}
}

func (h *GRPCHandler) Checkout(ctx context.Context, req *CheckoutRequest) (*SaleReply, error) {
	saleDate, err := service.ParseSaleDate(req.SaleDate, h.posService.Location())
	if err != nil {
		return nil, toStatus(err)
	}

	sale, err := h.posService.Checkout(ctx, saleDate)
	if err != nil && !service.IsPersistence(err) {
		return nil, toStatus(err)
	}
	return &SaleReply{Sale: sale, Durable: err == nil}, nil
}

func (h *GRPCHandler) DeleteTransaction(ctx context.Context, req *DeleteTransactionRequest) (*DeleteTransactionReply, error) {
	if req.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}

	deleted, err := h.posService.DeleteTransaction(ctx, domain.SaleID(req.ID))
	if err != nil && !service.IsPersistence(err) {
		return nil, toStatus(err)
	}
	return &DeleteTransactionReply{Deleted: deleted, Durable: err == nil}, nil
}

func (h *GRPCHandler) Summary(ctx context.Context, req *SummaryRequest) (*analytics.Dashboard, error) {
	dashboard := h.posService.Dashboard(analytics.ParsePeriod(req.Period))
	return &dashboard, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, service.ErrInsufficientStock), errors.Is(err, service.ErrEmptyCart):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, service.ErrSaleNotFound):
		return status.Error(codes.NotFound, err.Error())
	case service.IsValidation(err):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
