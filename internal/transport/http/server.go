package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	_ "pgm_storefront/docs"
	"pgm_storefront/internal/adapter"
	"pgm_storefront/internal/domain/models"
	"pgm_storefront/internal/lib/logger/sl"
	"pgm_storefront/internal/repository"
	"pgm_storefront/internal/services/auth"
	"pgm_storefront/internal/transport/client"
	"pgm_storefront/internal/transport/http/dto/request"
	"pgm_storefront/internal/transport/http/dto/response"
)

type AuthController interface {
	Session() auth.Session
	SignIn(ctx context.Context, usernameOrEmail, password string) (auth.Session, error)
	Logout(ctx context.Context) error
}

type ProductService interface {
	ListProducts(ctx context.Context) models.Result[json.RawMessage]
	GetProduct(ctx context.Context, id int64) models.Result[json.RawMessage]
}

type ProductAdapter interface {
	Adapt(p models.ProductData) models.Product
	AdaptAll(products []models.ProductData) []models.Product
}

type CartService interface {
	CartByUser(ctx context.Context, userID int64, token string) models.Result[json.RawMessage]
	AddToCart(ctx context.Context, item models.CreateCartItemRequest, token string) models.Result[models.CartItem]
	RemoveFromCart(ctx context.Context, itemID int64, token string) models.Result[json.RawMessage]
}

type OrderService interface {
	GetOrder(ctx context.Context, id int64, token string) models.Result[models.Order]
}

type Routers struct {
	log            *slog.Logger
	Auth           AuthController
	ProductService ProductService
	ProductAdapter ProductAdapter
	CartService    CartService
	GuestCart      repository.CartRepository
	OrderService   OrderService
}

func NewRouter(
	log *slog.Logger,
	authController AuthController,
	productService ProductService,
	productAdapter ProductAdapter,
	cartService CartService,
	guestCart repository.CartRepository,
	orderService OrderService,
) *Routers {
	return &Routers{
		log:            log,
		Auth:           authController,
		ProductService: productService,
		ProductAdapter: productAdapter,
		CartService:    cartService,
		GuestCart:      guestCart,
		OrderService:   orderService,
	}
}

// GetSession godoc
// @Summary Текущая сессия
// @Description Состояние авторизации, профиль пользователя и профиль партнёра.
// @Tags session
// @Produce json
// @Success 200 {object} response.Envelope{data=auth.Session}
// @Router /api/v1/session [get]
func (r *Routers) GetSession(c echo.Context) error {
	return c.JSON(http.StatusOK, response.Success(r.Auth.Session(), http.StatusOK))
}

// Login godoc
// @Summary Вход в систему
// @Description Вход по имени пользователя или email. Гостевая корзина объединяется с серверной.
// @Tags session
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Данные для входа"
// @Success 200 {object} response.Envelope{data=auth.Session}
// @Failure 400 {object} response.Envelope "Неверный формат запроса"
// @Failure 401 {object} response.Envelope "Ошибка аутентификации"
// @Failure 502 {object} response.Envelope "Сервер пользователей недоступен"
// @Router /api/v1/session/login [post]
func (r *Routers) Login(c echo.Context) error {
	const op = "http.routers.Login"

	log := r.log.With(
		slog.String("op", op),
	)

	var req request.LoginRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.InvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Warn("invalid format request", slog.String("username", req.UsernameOrEmail))
		return c.JSON(http.StatusBadRequest, response.FailureWithDetails(response.ErrInvalidRequest, err.Error(), http.StatusBadRequest))
	}

	sess, err := r.Auth.SignIn(c.Request().Context(), req.UsernameOrEmail, req.Password)
	if err != nil {
		var serverErr *client.ServerError

		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, response.Failure(response.ErrAuthenticationFailed, http.StatusUnauthorized))
		case errors.As(err, &serverErr):
			return c.JSON(serverErr.Status, response.FailureWithDetails(response.ErrUpstream, serverErr.Message, serverErr.Status))
		default:
			log.Error("sign in failed", sl.Err(err))
			return c.JSON(http.StatusBadGateway, response.FailureWithDetails(response.ErrUpstream, err.Error(), http.StatusBadGateway))
		}
	}

	return c.JSON(http.StatusOK, response.Success(sess, http.StatusOK))
}

// Logout godoc
// @Summary Выход из системы
// @Description Удаляет токены, профиль и гостевую корзину.
// @Tags session
// @Produce json
// @Success 200 {object} response.Envelope{data=auth.Session}
// @Failure 500 {object} response.Envelope
// @Router /api/v1/session/logout [post]
func (r *Routers) Logout(c echo.Context) error {
	const op = "http.routers.Logout"

	if err := r.Auth.Logout(c.Request().Context()); err != nil {
		r.log.Error("logout failed", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.Failure(response.ErrInternal, http.StatusInternalServerError))
	}

	return c.JSON(http.StatusOK, response.Success(r.Auth.Session(), http.StatusOK))
}

// ListProducts godoc
// @Summary Список товаров
// @Tags products
// @Produce json
// @Success 200 {object} response.Envelope{data=[]models.Product}
// @Failure 502 {object} response.Envelope
// @Router /api/v1/products [get]
func (r *Routers) ListProducts(c echo.Context) error {
	const op = "http.routers.ListProducts"

	log := r.log.With(slog.String("op", op))

	res := r.ProductService.ListProducts(c.Request().Context())
	if !res.Success {
		return r.upstream(c, log, res.Status, res.Error)
	}

	products, err := adapter.DecodeList[models.ProductData](*res.Data)
	if err != nil {
		log.Error("failed to decode products", sl.Err(err))
		return c.JSON(http.StatusBadGateway, response.Failure(response.ErrMalformedResponse, http.StatusBadGateway))
	}

	return c.JSON(http.StatusOK, response.Success(r.ProductAdapter.AdaptAll(products), http.StatusOK))
}

// GetProduct godoc
// @Summary Товар по ID
// @Tags products
// @Produce json
// @Param id path int true "ID товара"
// @Success 200 {object} response.Envelope{data=models.Product}
// @Failure 400 {object} response.Envelope "Невалидный ID"
// @Failure 404 {object} response.Envelope
// @Router /api/v1/products/{id} [get]
func (r *Routers) GetProduct(c echo.Context) error {
	const op = "http.routers.GetProduct"

	log := r.log.With(slog.String("op", op))

	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.FailureWithDetails(response.ErrInvalidRequest, "invalid product id", http.StatusBadRequest))
	}

	res := r.ProductService.GetProduct(c.Request().Context(), id)
	if !res.Success {
		return r.upstream(c, log, res.Status, res.Error)
	}

	product, err := adapter.DecodeRecord[models.ProductData](*res.Data)
	if err != nil {
		log.Error("failed to decode product", sl.Err(err))
		return c.JSON(http.StatusBadGateway, response.Failure(response.ErrMalformedResponse, http.StatusBadGateway))
	}

	return c.JSON(http.StatusOK, response.Success(r.ProductAdapter.Adapt(*product), http.StatusOK))
}

// GetCart godoc
// @Summary Корзина
// @Description Серверная корзина для авторизованного пользователя, иначе гостевая.
// @Tags cart
// @Produce json
// @Success 200 {object} response.Envelope{data=[]models.CartItem}
// @Failure 401 {object} response.Envelope "Сессия истекла"
// @Router /api/v1/cart [get]
func (r *Routers) GetCart(c echo.Context) error {
	const op = "http.routers.GetCart"

	log := r.log.With(slog.String("op", op))
	ctx := c.Request().Context()

	sess := r.Auth.Session()
	if !sess.IsAuthenticated || sess.User == nil {
		items, err := r.GuestCart.GuestCart(ctx)
		if err != nil {
			log.Error("failed to read guest cart", sl.Err(err))
			return c.JSON(http.StatusInternalServerError, response.Failure(response.ErrInternal, http.StatusInternalServerError))
		}
		return c.JSON(http.StatusOK, response.Success(items, http.StatusOK))
	}

	res := r.CartService.CartByUser(ctx, sess.User.ID, "")
	if !res.Success {
		return r.upstream(c, log, res.Status, res.Error)
	}

	items, err := adapter.NormalizeCart(*res.Data)
	if err != nil {
		log.Error("failed to decode cart", sl.Err(err))
		return c.JSON(http.StatusBadGateway, response.Failure(response.ErrMalformedResponse, http.StatusBadGateway))
	}

	return c.JSON(http.StatusOK, response.Success(items, http.StatusOK))
}

// AddToCart godoc
// @Summary Добавить товар в корзину
// @Tags cart
// @Accept json
// @Produce json
// @Param request body request.AddCartItemRequest true "Позиция корзины"
// @Success 200 {object} response.Envelope{data=[]models.CartItem} "Гостевая корзина"
// @Success 201 {object} response.Envelope{data=models.CartItem} "Позиция серверной корзины"
// @Failure 400 {object} response.Envelope "Неверный формат запроса"
// @Failure 401 {object} response.Envelope "Сессия истекла"
// @Router /api/v1/cart [post]
func (r *Routers) AddToCart(c echo.Context) error {
	const op = "http.routers.AddToCart"

	log := r.log.With(slog.String("op", op))
	ctx := c.Request().Context()

	var req request.AddCartItemRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.InvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.FailureWithDetails(response.ErrInvalidRequest, err.Error(), http.StatusBadRequest))
	}

	sess := r.Auth.Session()
	if !sess.IsAuthenticated || sess.User == nil {
		items, err := r.GuestCart.GuestCart(ctx)
		if err != nil {
			log.Error("failed to read guest cart", sl.Err(err))
			return c.JSON(http.StatusInternalServerError, response.Failure(response.ErrInternal, http.StatusInternalServerError))
		}

		items = addGuestItem(items, req)
		if err := r.GuestCart.SaveGuestCart(ctx, items); err != nil {
			log.Error("failed to save guest cart", sl.Err(err))
			return c.JSON(http.StatusInternalServerError, response.Failure(response.ErrInternal, http.StatusInternalServerError))
		}

		return c.JSON(http.StatusOK, response.Success(items, http.StatusOK))
	}

	res := r.CartService.AddToCart(ctx, models.CreateCartItemRequest{
		UserID:    sess.User.ID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Price:     req.Price,
	}, "")
	if !res.Success {
		return r.upstream(c, log, res.Status, res.Error)
	}

	return c.JSON(http.StatusCreated, response.Success(res.Data, http.StatusCreated))
}

// RemoveFromCart godoc
// @Summary Удалить позицию из корзины
// @Description Для гостевой корзины id это ID товара, для серверной ID позиции.
// @Tags cart
// @Produce json
// @Param id path int true "ID позиции или товара"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope "Невалидный ID"
// @Failure 401 {object} response.Envelope "Сессия истекла"
// @Router /api/v1/cart/{id} [delete]
func (r *Routers) RemoveFromCart(c echo.Context) error {
	const op = "http.routers.RemoveFromCart"

	log := r.log.With(slog.String("op", op))
	ctx := c.Request().Context()

	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.FailureWithDetails(response.ErrInvalidRequest, "invalid cart item id", http.StatusBadRequest))
	}

	sess := r.Auth.Session()
	if !sess.IsAuthenticated || sess.User == nil {
		items, err := r.GuestCart.GuestCart(ctx)
		if err != nil {
			log.Error("failed to read guest cart", sl.Err(err))
			return c.JSON(http.StatusInternalServerError, response.Failure(response.ErrInternal, http.StatusInternalServerError))
		}

		items = removeGuestItem(items, id)
		if err := r.GuestCart.SaveGuestCart(ctx, items); err != nil {
			log.Error("failed to save guest cart", sl.Err(err))
			return c.JSON(http.StatusInternalServerError, response.Failure(response.ErrInternal, http.StatusInternalServerError))
		}

		return c.JSON(http.StatusOK, response.Success(items, http.StatusOK))
	}

	res := r.CartService.RemoveFromCart(ctx, id, "")
	if !res.Success {
		return r.upstream(c, log, res.Status, res.Error)
	}

	return c.JSON(http.StatusOK, response.Success(*res.Data, http.StatusOK))
}

// GetOrder godoc
// @Summary Заказ по ID
// @Tags orders
// @Produce json
// @Param id path int true "ID заказа"
// @Success 200 {object} response.Envelope{data=models.UIOrder}
// @Failure 400 {object} response.Envelope "Невалидный ID"
// @Failure 401 {object} response.Envelope "Сессия истекла"
// @Failure 404 {object} response.Envelope
// @Router /api/v1/orders/{id} [get]
func (r *Routers) GetOrder(c echo.Context) error {
	const op = "http.routers.GetOrder"

	log := r.log.With(slog.String("op", op))

	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.FailureWithDetails(response.ErrInvalidRequest, "invalid order id", http.StatusBadRequest))
	}

	res := r.OrderService.GetOrder(c.Request().Context(), id, "")
	if !res.Success {
		return r.upstream(c, log, res.Status, res.Error)
	}

	return c.JSON(http.StatusOK, response.Success(adapter.AdaptOrder(*res.Data), http.StatusOK))
}

// upstream maps a failed backend call onto the gateway answer. A 401 that
// survived the refresh attempt means the session is gone.
func (r *Routers) upstream(c echo.Context, log *slog.Logger, status int, message string) error {
	switch {
	case status == http.StatusUnauthorized:
		return c.JSON(http.StatusUnauthorized, response.SessionExpired)
	case status == 0:
		log.Warn("backend unreachable", slog.String("error", message))
		return c.JSON(http.StatusBadGateway, response.FailureWithDetails(response.ErrUpstream, message, http.StatusBadGateway))
	default:
		return c.JSON(status, response.Failure(message, status))
	}
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

func addGuestItem(items []models.CartItem, req request.AddCartItemRequest) []models.CartItem {
	for i := range items {
		if items[i].ProductID == req.ProductID {
			items[i].Quantity += req.Quantity
			return items
		}
	}

	return append(items, models.CartItem{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Price:     req.Price,
	})
}

func removeGuestItem(items []models.CartItem, productID int64) []models.CartItem {
	out := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		if item.ProductID != productID {
			out = append(out, item)
		}
	}
	return out
}
