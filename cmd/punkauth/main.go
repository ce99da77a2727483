package main

import (
	"log"
	"os"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/punkdirectory/punkauth/adapters/alchemy"
	"github.com/punkdirectory/punkauth/adapters/delegatexyz"
	"github.com/punkdirectory/punkauth/adapters/events"
	"github.com/punkdirectory/punkauth/adapters/tokenizer"
	"github.com/punkdirectory/punkauth/ports"
	"github.com/punkdirectory/punkauth/service"
	"github.com/punkdirectory/punkauth/transport/http"
)

// CryptoPunks mainnet contract
const defaultPunksContract = "0xb47e3cd837dDF8e4c57F05d70Ab865de6e193BBB"

func main() {
	// Best effort; production configures the environment directly
	_ = godotenv.Load()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	contract := os.Getenv("PUNKS_CONTRACT")
	if contract == "" {
		contract = defaultPunksContract
	}
	if !common.IsHexAddress(contract) {
		log.Fatalf("Invalid PUNKS_CONTRACT address: %s", contract)
	}

	assetIndex := alchemy.NewClient(os.Getenv("ALCHEMY_API_KEY"), common.HexToAddress(contract))

	ownershipService := service.NewOwnershipService(
		assetIndex,
		delegatexyz.NewV1Registry(),
		delegatexyz.NewV2Registry(),
	)

	authService := service.NewAuthService(
		tokenizer.NewJWTTokenizer([]byte(secret)),
		ownershipService,
		newEventPublisher(),
	)

	secureCookies := os.Getenv("APP_ENV") == "production"

	// Setup Gin router
	router := http.SetupRouter(authService, secureCookies)

	addr := ":" + os.Getenv("PORT")
	if addr == ":" {
		addr = ":9000"
	}

	// Start server
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// newEventPublisher wires the redis event stream when REDIS_URL is set,
// and falls back to a noop publisher otherwise.
func newEventPublisher() ports.EventPublisher {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return events.NewNoopPublisher()
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("Failed to parse Redis URL: %v", err)
	}

	redisClient := redis.NewClient(opts)

	logger := watermill.NewStdLogger(false, false)
	publisher, err := redisstream.NewPublisher(
		redisstream.PublisherConfig{
			Client: redisClient,
		},
		logger,
	)
	if err != nil {
		log.Fatalf("Failed to create Redis publisher: %v", err)
	}

	return events.NewWatermillPublisher(publisher)
}
