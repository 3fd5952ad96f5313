package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"pgm_storefront/internal/adapter"
	httpapp "pgm_storefront/internal/app/http"
	"pgm_storefront/internal/config"
	"pgm_storefront/internal/lib/events"
	"pgm_storefront/internal/lib/logger/sl"
	"pgm_storefront/internal/middleware"
	"pgm_storefront/internal/repository"
	associates "pgm_storefront/internal/services/associate_service"
	"pgm_storefront/internal/services/auth"
	awards "pgm_storefront/internal/services/award_service"
	carts "pgm_storefront/internal/services/cart_service"
	contacts "pgm_storefront/internal/services/contact_service"
	galleries "pgm_storefront/internal/services/gallery_service"
	orders "pgm_storefront/internal/services/order_service"
	products "pgm_storefront/internal/services/product_service"
	stores "pgm_storefront/internal/services/store_service"
	tokens "pgm_storefront/internal/services/token_service"
	users "pgm_storefront/internal/services/user_service"
	wishlists "pgm_storefront/internal/services/wishlist_service"
	"pgm_storefront/internal/storage"
	filestorage "pgm_storefront/internal/storage/filestorage"
	"pgm_storefront/internal/storage/memory"
	"pgm_storefront/internal/storage/postgresql"
	redisstorage "pgm_storefront/internal/storage/redis"
	"pgm_storefront/internal/transport/client"
	httprouters "pgm_storefront/internal/transport/http"
)

type Clients struct {
	Product *client.Client
	User    *client.Client
	Core    *client.Client
	Payment *client.Client
}

type Services struct {
	Product   *products.ProductService
	User      *users.UserService
	Cart      *carts.CartService
	Order     *orders.OrderService
	Wishlist  *wishlists.WishlistService
	Store     *stores.StoreService
	Gallery   *galleries.GalleryService
	Contact   *contacts.ContactService
	Award     *awards.AwardService
	Associate *associates.AssociateService
}

type App struct {
	log *slog.Logger

	Storage        storage.Storage
	Tokens         *tokens.TokenStore
	Bus            *events.Bus
	Refresher      *client.SessionRefresher
	Clients        Clients
	Services       Services
	Repository     *repository.Repository
	ProductAdapter *adapter.ProductAdapter
	Auth           *auth.Auth
	HTTPServer     *httpapp.Server

	closers []func() error
}

// New wires the client stack: storage, token store, event bus, refresher,
// one HTTP client per backend, services, then the auth controller and the
// gateway on top.
func New(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	const op = "app.New"

	a := &App{log: log}

	st, closer, err := openStorage(ctx, log, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if closer != nil {
		a.closers = append(a.closers, closer)
	}

	a.Storage = st
	a.Tokens = tokens.NewTokenStore(log, st)
	a.Bus = events.NewBus()
	a.Refresher = client.NewSessionRefresher(cfg.Backends.UserURL, a.Tokens, a.Bus, log, refreshHTTPClient(cfg.Client.Timeout))

	newClient := func(name, baseURL string) *client.Client {
		return client.New(baseURL, a.Tokens, a.Refresher,
			client.WithName(name),
			client.WithTimeout(cfg.Client.Timeout),
			client.WithLogger(log),
		)
	}

	a.Clients = Clients{
		Product: newClient("product", cfg.Backends.ProductURL),
		User:    newClient("user", cfg.Backends.UserURL),
		Core:    newClient("core", cfg.Backends.CoreURL),
		Payment: newClient("payment", cfg.Backends.PaymentURL),
	}

	a.Services = Services{
		Product:   products.NewProductService(log, a.Clients.Product),
		User:      users.NewUserService(log, a.Clients.User, a.Clients.Core, a.Tokens),
		Cart:      carts.NewCartService(log, a.Clients.Product),
		Order:     orders.NewOrderService(log, a.Clients.Product, a.Clients.Payment),
		Wishlist:  wishlists.NewWishlistService(log, a.Clients.Product),
		Store:     stores.NewStoreService(log, a.Clients.Product),
		Gallery:   galleries.NewGalleryService(log, a.Clients.Product),
		Contact:   contacts.NewContactService(log, a.Clients.Product),
		Award:     awards.NewAwardService(log, a.Clients.Product),
		Associate: associates.NewAssociateService(log, a.Clients.Core, a.Clients.User, a.Clients.Product),
	}

	a.Repository = repository.NewRepository(st)
	a.ProductAdapter = adapter.NewProductAdapter(log)

	a.Auth = auth.New(log, auth.Deps{
		Storage:    st,
		Tokens:     a.Tokens,
		Refresher:  a.Refresher,
		Session:    a.Repository.Session,
		Cart:       a.Repository.Cart,
		Users:      a.Services.User,
		Carts:      a.Services.Cart,
		Associates: a.Services.Associate,
		Bus:        a.Bus,
	})

	routers := httprouters.NewRouter(
		log,
		a.Auth,
		a.Services.Product,
		a.ProductAdapter,
		a.Services.Cart,
		a.Repository.Cart,
		a.Services.Order,
	)
	a.HTTPServer = httpapp.New(log, cfg.HTTP.Host, cfg.HTTP.Port, routers)

	return a, nil
}

// refreshHTTPClient mirrors what client.New builds for the user backend, so
// token exchanges share its timeout and show up in its metrics.
func refreshHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = client.DefaultTimeout
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: middleware.InstrumentTransport("user", nil),
	}
}

func (a *App) Log() *slog.Logger {
	return a.log
}

// Close releases the storage backend.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func openStorage(ctx context.Context, log *slog.Logger, cfg config.StorageConfig) (storage.Storage, func() error, error) {
	const op = "app.openStorage"

	log = log.With(slog.String("op", op), slog.String("driver", cfg.Driver))

	switch cfg.Driver {
	case config.DriverMemory:
		return memory.New(), nil, nil

	case config.DriverFile:
		st, err := filestorage.NewLocalFileStorage(cfg.FileStorage.BaseDir, cfg.FileStorage.PollInterval)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		log.Debug("file storage opened", slog.String("path", st.Path()))
		return st, nil, nil

	case config.DriverRedis:
		rc := redisstorage.NewClient(cfg.Redis.RedisAddr, cfg.Redis.RedisPassword, cfg.Redis.RedisDB)
		if err := rc.HealthCheck(ctx); err != nil {
			_ = rc.Close()
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		return redisstorage.NewStateStore(rc, cfg.Redis.Prefix), rc.Close, nil

	case config.DriverPostgres:
		st, err := postgresql.New(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := st.Migrate(ctx); err != nil {
			st.Stop()
			log.Error("migration failed", sl.Err(err))
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		return st, func() error { st.Stop(); return nil }, nil

	default:
		return nil, nil, fmt.Errorf("%s: unknown storage driver %q", op, cfg.Driver)
	}
}
