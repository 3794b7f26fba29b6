package handler

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func startGRPC(t *testing.T, failSaves bool) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv, _ := NewGRPCServer(NewGRPCHandler(newTestPOSService(t, failSaves), nil))
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestGRPC_CartAndCheckout(t *testing.T) {
	client := NewJournalClient(startGRPC(t, false))
	ctx := context.Background()

	cart, err := client.AddToCart(ctx, &AddToCartRequest{ItemName: "Coffee", Quantity: 2})
	require.NoError(t, err)
	assert.True(t, cart.Durable)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "6", cart.Total.String())

	sale, err := client.Checkout(ctx, &CheckoutRequest{SaleDate: "2024-01-01"})
	require.NoError(t, err)
	assert.Equal(t, "6", sale.Sale.Total.String())
	assert.Equal(t, 2024, sale.Sale.Timestamp.Year())

	cart, err = client.GetCart(ctx)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	summary, err := client.Summary(ctx, &SummaryRequest{Period: "all"})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Transactions)
	assert.Equal(t, "Coffee", summary.TopProduct)

	deleted, err := client.DeleteTransaction(ctx, &DeleteTransactionRequest{ID: sale.Sale.ID.String()})
	require.NoError(t, err)
	assert.True(t, deleted.Deleted)

	deleted, err = client.DeleteTransaction(ctx, &DeleteTransactionRequest{ID: sale.Sale.ID.String()})
	require.NoError(t, err)
	assert.False(t, deleted.Deleted)
}

func TestGRPC_ErrorCodes(t *testing.T) {
	client := NewJournalClient(startGRPC(t, false))
	ctx := context.Background()

	_, err := client.AddToCart(ctx, &AddToCartRequest{ItemName: "Coffee", Quantity: 0})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.AddToCart(ctx, &AddToCartRequest{ItemName: "Scone", Quantity: 4})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	_, err = client.Checkout(ctx, &CheckoutRequest{})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	_, err = client.Checkout(ctx, &CheckoutRequest{SaleDate: "tomorrow"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.DeleteTransaction(ctx, &DeleteTransactionRequest{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestGRPC_NotDurable(t *testing.T) {
	client := NewJournalClient(startGRPC(t, true))

	cart, err := client.AddToCart(context.Background(), &AddToCartRequest{ItemName: "Coffee", Quantity: 1})
	require.NoError(t, err)
	assert.False(t, cart.Durable)
	assert.Len(t, cart.Items, 1)

	cart, err = client.ClearCart(context.Background())
	require.NoError(t, err)
	assert.False(t, cart.Durable)
	assert.Empty(t, cart.Items)
}

func TestGRPC_Health(t *testing.T) {
	conn := startGRPC(t, false)

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(),
		&healthpb.HealthCheckRequest{Service: JournalServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)
}
