package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"findus-backend/internal/constants"
	"findus-backend/internal/middleware"
	"findus-backend/internal/pkg/response"
)

const userSessionsPrefix = "user_sessions:"

// Handlers holds dependencies for auth endpoints.
type Handlers struct {
	Service *Service
	Rdb     *redis.Client
	Config  middleware.SessionConfig
}

// SignInRequest body.
type SignInRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// RegisterCustomer POST / — customer registration.
func (h *Handlers) RegisterCustomer(c *fiber.Ctx) error {
	return h.register(c, h.Service.RegisterCustomer)
}

// RegisterCraftsman POST /register — craftsman registration.
func (h *Handlers) RegisterCraftsman(c *fiber.Ctx) error {
	return h.register(c, h.Service.RegisterCraftsman)
}

func (h *Handlers) register(c *fiber.Ctx, create func(context.Context, RegisterInput) (*Account, error)) error {
	var in RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	account, err := create(c.Context(), in)
	if err != nil {
		switch err {
		case ErrUsernameTaken, ErrEmailTaken:
			return response.Error(c, err.Error(), fiber.StatusConflict, nil)
		case ErrMissingFields, ErrInvalidEmail, ErrInvalidPassword, ErrInvalidName,
			ErrInvalidUsername, ErrInvalidPhone, ErrPasswordsDontMatch:
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		default:
			log.Error().Err(err).Msg("registration failed")
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}
	return response.SuccessCreated(c, "Account created successfully!", fiber.Map{
		"user": account.User,
	}, nil)
}

// SignIn POST /signin — verify credentials, create session, branch the
// destination by account type.
func (h *Handlers) SignIn(c *fiber.Ctx) error {
	var req SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, ErrCredentialsRequired.Error(), fiber.StatusBadRequest, nil)
	}

	account, err := h.Service.SignIn(c.Context(), req.Username, req.Password)
	if err != nil {
		switch err {
		case ErrCredentialsRequired:
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case ErrWrongCredentials:
			return response.Error(c, err.Error(), fiber.StatusUnauthorized, nil)
		case ErrUnknownAccountType:
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		default:
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}

	sessionID := middleware.RegenerateSessionID(c)
	middleware.SetSessionUser(c, middleware.SessionUser{
		UserID:      account.User.ID,
		Username:    account.User.Username,
		FullName:    account.User.FullName(),
		Email:       account.User.Email,
		AccountType: account.User.AccountType,
		ProfileID:   account.ProfileID,
	})

	ctx := context.Background()
	if err := h.Rdb.SAdd(ctx, userSessionsPrefix+account.User.Username, sessionID).Err(); err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = "s:" + sessionID
	c.Cookie(&cookie)

	destination := "customer-dashboard"
	if account.User.AccountType == constants.AccountCraftsman {
		destination = "craftsman-dashboard"
	}
	return response.Success(c, "Signed in", fiber.Map{
		"user":        account.User,
		"destination": destination,
	}, nil)
}

// ChangePassword POST /change-password — authenticated password change.
func (h *Handlers) ChangePassword(c *fiber.Ctx) error {
	user := middleware.GetSessionUser(c)
	if user == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var req struct {
		OldPassword  string `json:"old_password" form:"old_password"`
		NewPassword1 string `json:"new_password1" form:"new_password1"`
		NewPassword2 string `json:"new_password2" form:"new_password2"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	err := h.Service.ChangePassword(c.Context(), user.UserID, req.OldPassword, req.NewPassword1, req.NewPassword2)
	if err != nil {
		switch err {
		case ErrOldPasswordIncorrect, ErrPasswordsDontMatch, ErrInvalidPassword:
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case ErrNotAuthenticated:
			return response.Unauthorized(c, err.Error())
		default:
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}
	return response.Success(c, "Your password was successfully updated!", nil, nil)
}

// Logout GET /logout — remove the session from Redis and clear the cookie.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	sessionID := middleware.GetSessionID(c)
	user := middleware.GetSessionUser(c)

	ctx := context.Background()
	if user != nil && sessionID != "" {
		_ = h.Rdb.SRem(ctx, userSessionsPrefix+user.Username, sessionID).Err()
	}
	if sessionID != "" {
		_ = h.Rdb.Del(ctx, middleware.SessionRedisPrefix+sessionID).Err()
	}
	middleware.DestroySession(c)

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = ""
	cookie.MaxAge = -1
	c.Cookie(&cookie)

	return response.Success(c, "Signed out", nil, nil)
}
