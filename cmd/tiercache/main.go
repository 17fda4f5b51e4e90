// Command tiercache is a small demonstration of the two-tier cache: it
// wires the configured durable backend, runs a set/get/expire/evict
// sequence, and prints the resulting statistics.
package main

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"tiercache"
	"tiercache/config"
	"tiercache/durable"
	dynamostore "tiercache/durable/dynamo"
	"tiercache/durable/memstore"
)

// demoMetrics counts cache lifecycle events for the closing report.
type demoMetrics struct {
	mu         sync.Mutex
	hits       int
	misses     int
	evictions  int
	expired    int
	promotions int
}

func (m *demoMetrics) Hit()       { m.mu.Lock(); m.hits++; m.mu.Unlock() }
func (m *demoMetrics) Miss()      { m.mu.Lock(); m.misses++; m.mu.Unlock() }
func (m *demoMetrics) Eviction()  { m.mu.Lock(); m.evictions++; m.mu.Unlock() }
func (m *demoMetrics) Expire()    { m.mu.Lock(); m.expired++; m.mu.Unlock() }
func (m *demoMetrics) Promotion() { m.mu.Lock(); m.promotions++; m.mu.Unlock() }

func (m *demoMetrics) print() {
	m.mu.Lock()
	defer m.mu.Unlock()
	fmt.Println("\n==================== METRICS ====================")
	fmt.Printf("HITS       : %d\n", m.hits)
	fmt.Printf("MISSES     : %d\n", m.misses)
	fmt.Printf("EVICTIONS  : %d\n", m.evictions)
	fmt.Printf("EXPIRED    : %d\n", m.expired)
	fmt.Printf("PROMOTIONS : %d\n", m.promotions)
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	store, err := newStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("durable store: %v", err)
	}

	metrics := &demoMetrics{}
	c := tiercache.New[string](store,
		tiercache.WithDefaultTTL(cfg.DefaultTTL),
		tiercache.WithDefaultMaxSize(cfg.MaxSize),
		tiercache.WithSweepInterval(cfg.CleanupInterval),
		tiercache.WithDurableTimeout(cfg.DurableTimeout),
		tiercache.WithLogger(logger),
		tiercache.WithMetrics(metrics),
	)
	defer c.Close()

	fmt.Println("==================== BASIC ====================")
	sessionKey := "session:" + uuid.NewString()
	c.Set(ctx, sessionKey, `{"user":"alice"}`, tiercache.WithPersistence())
	if v, ok := c.Get(ctx, sessionKey); ok {
		fmt.Println("get", sessionKey, "→", v)
	}

	fmt.Println("\n==================== EXPIRY ====================")
	c.Set(ctx, "ephemeral", "short-lived", tiercache.WithTTL(100*time.Millisecond))
	time.Sleep(150 * time.Millisecond)
	if _, ok := c.Get(ctx, "ephemeral"); !ok {
		fmt.Println("ephemeral expired as expected")
	}

	fmt.Println("\n==================== EVICTION ====================")
	for i := 0; i < 5; i++ {
		c.Set(ctx, fmt.Sprintf("bulk-%d", i), "payload", tiercache.WithMaxSize(3))
	}
	fmt.Println("memory size after bounded writes:", c.Stats().MemorySize)

	fmt.Println("\n==================== STATS ====================")
	stats := c.Stats()
	fmt.Printf("memory_size    : %d\n", stats.MemorySize)
	fmt.Printf("hit_rate       : %.1f%%\n", stats.HitRate)
	fmt.Printf("total_accesses : %d\n", stats.TotalAccesses)

	metrics.print()
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (durable.Store, error) {
	if !cfg.IsDynamoDB() {
		logger.Info("using in-memory durable store")
		return memstore.New(), nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	logger.Info("using DynamoDB durable store",
		zap.String("table", cfg.DynamoDBTable),
		zap.String("region", cfg.AWSRegion))
	return dynamostore.New(dynamodb.NewFromConfig(awsCfg), cfg.DynamoDBTable, logger), nil
}
