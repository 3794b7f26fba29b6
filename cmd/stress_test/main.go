package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v3"

	"github.com/rl1809/pos-journal/internal/adapter/storage"
	"github.com/rl1809/pos-journal/internal/core/domain"
	"github.com/rl1809/pos-journal/internal/core/service"
	"github.com/rl1809/pos-journal/internal/port"
)

const itemName = "stress-test-item"

func main() {
	cmd := &cli.Command{
		Name:  "stress_test",
		Usage: "hammer AddToCart concurrently and check the journal never oversells",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "stock", Value: 20, Usage: "base inventory of the test item"},
			&cli.IntFlag{Name: "requests", Value: 50, Usage: "concurrent AddToCart calls of quantity 1"},
			&cli.StringFlag{Name: "redis-addr", Usage: "persist to this Redis; in-memory when empty"},
			&cli.StringFlag{Name: "key", Value: "pos:stress", Usage: "state key used in Redis"},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	initialStock := cmd.Int("stock")
	totalRequests := cmd.Int("requests")

	var store port.StateRepository = storage.NewMemoryAdapter()
	if addr := cmd.String("redis-addr"); addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer rdb.Close()

		// Clear previous test data
		rdb.Del(ctx, cmd.String("key"))
		store = storage.NewRedisAdapter(rdb, cmd.String("key"))
	}

	catalog, err := domain.NewCatalog([]domain.CatalogItem{{
		ItemName:  itemName,
		UnitPrice: decimal.RequireFromString("9.99"),
		Category:  "stress",
		Inventory: initialStock,
	}})
	if err != nil {
		return err
	}

	posService := service.NewPOSService(catalog, store)

	var successCount atomic.Int32
	var failCount atomic.Int32

	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			if _, err := posService.AddToCart(ctx, itemName, 1); err == nil {
				successCount.Add(1)
			} else {
				failCount.Add(1)
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	if _, err := posService.Checkout(ctx, time.Time{}); err != nil && initialStock > 0 {
		return fmt.Errorf("checkout: %w", err)
	}

	// Reload from the store to check what was persisted
	reloaded := service.NewPOSService(catalog, store)
	if err := reloaded.Load(ctx); err != nil {
		return err
	}

	success := int(successCount.Load())
	fail := int(failCount.Load())
	expectedSuccess := min(initialStock, totalRequests)

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Initial Stock:    %d\n", initialStock)
	fmt.Printf("Total Requests:   %d\n", totalRequests)
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Failed:           %d\n", fail)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	passed := true
	if success == expectedSuccess && fail == totalRequests-expectedSuccess {
		fmt.Printf("PASS: Exactly %d adds succeeded, %d failed\n", success, fail)
	} else {
		passed = false
		fmt.Printf("FAIL: Expected %d success/%d fail, got %d/%d\n",
			expectedSuccess, totalRequests-expectedSuccess, success, fail)
	}

	finalStock := reloaded.Remaining()[itemName]
	fmt.Printf("Final Remaining:  %d\n", finalStock)

	if finalStock == initialStock-expectedSuccess {
		fmt.Printf("PASS: Remaining stock is %d\n", finalStock)
	} else {
		passed = false
		fmt.Printf("FAIL: Expected remaining %d, got %d\n", initialStock-expectedSuccess, finalStock)
	}

	if !passed {
		return fmt.Errorf("stress test failed")
	}
	return nil
}
