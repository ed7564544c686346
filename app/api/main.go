package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/viper"

	"github.com/go-playground/validator/v10"
	ipfsapi "github.com/ipfs/go-ipfs-api"

	"github.com/bazaarx/goclient/base/ctx"
	"github.com/bazaarx/goclient/base/log"
	bValidator "github.com/bazaarx/goclient/base/validator"
	"github.com/bazaarx/goclient/domain"
	mmiddleware "github.com/bazaarx/goclient/middleware"
	"github.com/bazaarx/goclient/service/cache"
	"github.com/bazaarx/goclient/service/cache/provider/primitive"
	"github.com/bazaarx/goclient/service/chain"
	"github.com/bazaarx/goclient/service/chain/contract"
	auction_delivery "github.com/bazaarx/goclient/stores/auction/delivery/http"
	auction_usecase "github.com/bazaarx/goclient/stores/auction/usecase"
	catalog_delivery "github.com/bazaarx/goclient/stores/catalog/delivery/http"
	catalog_usecase "github.com/bazaarx/goclient/stores/catalog/usecase"
	listing_delivery "github.com/bazaarx/goclient/stores/listing/delivery/http"
	listing_usecase "github.com/bazaarx/goclient/stores/listing/usecase"
	metadata_repository "github.com/bazaarx/goclient/stores/metadata/repository"
	metadata_usecase "github.com/bazaarx/goclient/stores/metadata/usecase"
	trade_delivery "github.com/bazaarx/goclient/stores/trade/delivery/http"
	trade_usecase "github.com/bazaarx/goclient/stores/trade/usecase"
)

func init() {
	viper.SetConfigType("yaml")
	viper.SetConfigFile(`infra/configs/config.yaml`)
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	if viper.GetBool(`debug`) {
		log.SetDebug()
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

func main() {
	// init echo
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(validator.New())

	context := ctx.Background()

	// init chain service
	networks := viper.Sub("networks")
	keys := networks.AllSettings()
	rpcs := make(map[int32]string)
	signerKeys := make(map[int32]string)
	for k := range keys {
		chainId := networks.GetInt32(fmt.Sprintf("%s.chainId", k))
		rpcs[chainId] = networks.GetString(fmt.Sprintf("%s.rpcUrl", k))
		signerKeys[chainId] = networks.GetString(fmt.Sprintf("%s.signerKey", k))
	}
	chainService, err := chain.NewClient(context, &chain.ClientCfg{
		RpcUrls:    rpcs,
		SignerKeys: signerKeys,
	})
	if err != nil {
		if chainService == nil {
			context.WithField("err", err).Panic("failed to init chain client")
		}
		context.WithField("err", err).Warn("chainService started with error")
	}

	chainId := viper.GetInt32("marketplace.chainId")
	callTimeout := viper.GetDuration("marketplace.callTimeout")
	marketplaceService := contract.NewMarketplace(chainService, &contract.MarketplaceCfg{
		ChainId:     chainId,
		Address:     domain.Address(viper.GetString("marketplace.address")),
		CallTimeout: callTimeout,
	})
	erc721Service := contract.NewErc721(chainService, &contract.Erc721Cfg{
		ChainId:     chainId,
		Address:     domain.Address(viper.GetString("marketplace.nftAddress")),
		CallTimeout: callTimeout,
	})

	actor := domain.Address(viper.GetString("marketplace.actor"))
	if actor.IsEmpty() {
		addr, err := chainService.Sender(chainId)
		if err != nil {
			context.WithField("err", err).Panic("no actor address and no signer")
		}
		actor = domain.Address(addr.Hex())
	} else if !bValidator.IsValidAddress(string(actor)) {
		context.WithField("actor", actor).Panic("invalid actor address")
	}

	// metadata resolution with an in-process cache
	metadataCache := cache.New(cache.ServiceConfig{
		Ttl:   viper.GetDuration("cache.metadataTtl"),
		Pfx:   "metadata",
		Cache: primitive.NewPrimitive("metadata", viper.GetInt("cache.sizeMb")),
	})
	httpTimeout := viper.GetDuration("http.timeout")
	httpReader := metadata_repository.NewHttpReaderRepo(http.Client{}, httpTimeout)
	ipfsReader := metadata_repository.NewIpfsReaderRepo(ipfsapi.NewShell(viper.GetString("ipfs.gateway")), httpTimeout)
	resolver := metadata_usecase.NewResolver(&metadata_usecase.ResolverCfg{
		HttpReader: httpReader,
		IpfsReader: ipfsReader,
		Cache:      metadataCache,
	})

	// construct usecase and delivery
	catalogUsecase := catalog_usecase.New(&catalog_usecase.CatalogUseCaseCfg{
		Gateway:  marketplaceService,
		Nft:      erc721Service,
		Resolver: resolver,
		Actor:    actor,
		FanOut:   viper.GetInt("marketplace.metadataFanOut"),
	})
	auctionUsecase := auction_usecase.New(&auction_usecase.AuctionUseCaseCfg{
		Gateway: marketplaceService,
		Catalog: catalogUsecase,
	})
	tradeUsecase := trade_usecase.New(&trade_usecase.TradeUseCaseCfg{
		Gateway: marketplaceService,
		Catalog: catalogUsecase,
	})
	listingUsecase := listing_usecase.New(&listing_usecase.ListingUseCaseCfg{
		Gateway: marketplaceService,
		Catalog: catalogUsecase,
	})

	catalog_delivery.New(e, catalogUsecase)
	auction_delivery.New(e, auctionUsecase)
	trade_delivery.New(e, tradeUsecase)
	listing_delivery.New(e, listingUsecase)

	e.GET("/check", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"actor": actor.ToLowerStr(),
		})
	})

	// first pass runs in the background so startup is not blocked by a slow
	// rpc endpoint
	go func() {
		if _, err := catalogUsecase.Synchronize(context); err != nil {
			context.WithField("err", err).Warn("initial synchronization failed")
		}
	}()

	go func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	shutdownCtx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
}
