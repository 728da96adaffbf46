package handler

import (
	"errors"
	"net/http"

	"evimeria/internal/middleware"
	"evimeria/internal/repository"
	auth "evimeria/internal/usecase/auth_usecase"
	"evimeria/internal/validator"

	"github.com/labstack/echo/v4"
)

// /auth のHTTP
type AuthHandler struct {
	registerUC *auth.RegisterUsecase // 会員登録usecase
	loginUC    *auth.LoginUsecase    // ログインusecase
	profileUC  *auth.ProfileUsecase  // 会員情報usecase
}

// DIコンストラクタ
func NewAuthHandler(
	registerUC *auth.RegisterUsecase,
	loginUC *auth.LoginUsecase,
	profileUC *auth.ProfileUsecase,
) *AuthHandler {
	return &AuthHandler{
		registerUC: registerUC,
		loginUC:    loginUC,
		profileUC:  profileUC,
	}
}

// /auth/register のリクエストボディ。
type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// /auth/login のリクエストボディ。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// /auth/register, /auth/login, /auth/profile を登録
func (h *AuthHandler) RegisterRoutes(e *echo.Echo, jwtSecret string, customers repository.CustomerRepository) {
	g := e.Group("/auth")
	g.POST("/register", h.register)
	g.POST("/login", h.login)
	g.GET("/profile", h.profile, middleware.AuthJWT(jwtSecret), middleware.TokenVersionGuard(customers))
}

func (h *AuthHandler) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "VALIDATION_ERROR"})
	}
	if err := validator.ValidateRegister(req.Email, req.Password); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "VALIDATION_ERROR"})
	}

	out, err := h.registerUC.Execute(c.Request().Context(), auth.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidEmailFormat),
			errors.Is(err, auth.ErrPasswordTooShort),
			errors.Is(err, auth.ErrPasswordTooLong),
			errors.Is(err, auth.ErrWeakPassword):
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "VALIDATION_ERROR"})
		case errors.Is(err, auth.ErrEmailAlreadyExists):
			return c.JSON(http.StatusConflict, ErrorResponse{Error: "CONFLICT"})
		default:
			return WriteInternalError(c, err)
		}
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *AuthHandler) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "VALIDATION_ERROR"})
	}
	// 形式違いは認証失敗と同じ扱いにしない
	if err := validator.ValidateLogin(req.Email, req.Password); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "VALIDATION_ERROR"})
	}

	out, err := h.loginUC.Execute(c.Request().Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "UNAUTHORIZED"})
		case errors.Is(err, auth.ErrCustomerInactive):
			return c.JSON(http.StatusForbidden, ErrorResponse{Error: "FORBIDDEN"})
		default:
			return WriteInternalError(c, err)
		}
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) profile(c echo.Context) error {
	customerID, ok := c.Get(middleware.CtxCustomerIDKey).(int64)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	customer, err := h.profileUC.Execute(c.Request().Context(), customerID)
	if errors.Is(err, auth.ErrCustomerNotFound) {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	}
	if err != nil {
		return WriteInternalError(c, err)
	}
	return c.JSON(http.StatusOK, customer)
}
